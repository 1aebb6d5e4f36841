// Package snapshot defines the two-tier validator/stake snapshot data
// model, its deterministic little-endian binary encoding, and the content
// hash that pins an off-chain snapshot file to an on-chain ballot.
package snapshot

import (
	"github.com/luxfi/ids"

	"github.com/exo-tech-xyz/gov-v1/merkle"
)

// MetaMerkleLeaf is a top-tier leaf: one validator node summarizing its
// delegations via the bottom-tier root.
type MetaMerkleLeaf struct {
	VoteAccount     ids.NodeID
	VotingWallet    ids.NodeID
	StakeMerkleRoot merkle.Root
	ActiveStake     uint64
}

// StakeMerkleLeaf is a bottom-tier leaf: one delegated stake account.
type StakeMerkleLeaf struct {
	StakeAccount ids.NodeID
	VotingWallet ids.NodeID
	ActiveStake  uint64
}

// ValidatorBundle groups a validator's top-tier leaf with its full set of
// bottom-tier stake leaves and their proof paths against StakeMerkleRoot,
// as built off-chain while constructing the snapshot.
type ValidatorBundle struct {
	Leaf        MetaMerkleLeaf
	StakeLeaves []StakeMerkleLeaf
	StakeProofs [][]merkle.Root // parallel to StakeLeaves
}

// MetaMerkleSnapshot is the off-chain-only, fully materialized two-tier
// snapshot: every validator bundle that rolls up into MetaMerkleRoot.
type MetaMerkleSnapshot struct {
	SnapshotSlot      uint64
	MetaMerkleRoot    merkle.Root
	ValidatorBundles  []ValidatorBundle
}
