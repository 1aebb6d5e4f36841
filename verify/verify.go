// Package verify implements the two-tier inclusion verification entrypoint
// answering "is account X included in the snapshot committed by this
// ConsensusResult?" (spec §4.6).
package verify

import (
	"errors"

	"github.com/luxfi/ids"

	"github.com/exo-tech-xyz/gov-v1/consensusresult"
	"github.com/exo-tech-xyz/gov-v1/merkle"
	"github.com/exo-tech-xyz/gov-v1/snapshot"
)

var (
	// ErrProofInvalid is returned when a fold fails to reproduce the
	// expected root at either tier.
	ErrProofInvalid = errors.New("verify: proof invalid")
	// ErrProofTooLong is returned when a proof path exceeds
	// merkle.MaxProofLength — a Bounds-category failure, distinct from the
	// Cryptographic ErrProofInvalid (spec §4.1, §7).
	ErrProofTooLong = errors.New("verify: proof too long")
	// ErrSnapshotSlotMismatch is returned when the supplied MetaMerkleProof
	// was created against a different snapshot_slot than the ConsensusResult.
	ErrSnapshotSlotMismatch = errors.New("verify: snapshot slot mismatch")
)

// VoteAccountResult is what a successful vote-account-mode verification
// reveals about the validator (spec §4.6).
type VoteAccountResult struct {
	VotingWallet    ids.NodeID
	ActiveStake     uint64
	StakeMerkleRoot merkle.Root
}

// StakeAccountResult is what a successful stake-account-mode verification
// reveals about the delegator (spec §4.6).
type StakeAccountResult struct {
	VotingWallet ids.NodeID
	ActiveStake  uint64
}

// VoteAccount verifies that proof.Leaf, folded through proof.Proof, yields
// result.MetaMerkleRoot (spec §4.6 "vote account mode").
func VoteAccount(result *consensusresult.Result, proof *consensusresult.MetaMerkleProof) (VoteAccountResult, error) {
	if proof.SnapshotSlot != result.SnapshotSlot {
		return VoteAccountResult{}, ErrSnapshotSlotMismatch
	}

	leafBytes := snapshot.EncodeMetaMerkleLeaf(proof.Leaf)
	if err := merkle.Verify(leafBytes, proof.Proof, result.MetaMerkleRoot); err != nil {
		if errors.Is(err, merkle.ErrProofTooLong) {
			return VoteAccountResult{}, ErrProofTooLong
		}
		return VoteAccountResult{}, ErrProofInvalid
	}

	return VoteAccountResult{
		VotingWallet:    proof.Leaf.VotingWallet,
		ActiveStake:     proof.Leaf.ActiveStake,
		StakeMerkleRoot: proof.Leaf.StakeMerkleRoot,
	}, nil
}

// StakeAccount performs the vote-account verification, then verifies that
// stakeLeaf, folded through stakeProof, yields the vote-account leaf's
// StakeMerkleRoot (spec §4.6 "stake account mode").
func StakeAccount(result *consensusresult.Result, proof *consensusresult.MetaMerkleProof, stakeLeaf snapshot.StakeMerkleLeaf, stakeProof []merkle.Root) (StakeAccountResult, error) {
	voteResult, err := VoteAccount(result, proof)
	if err != nil {
		return StakeAccountResult{}, err
	}

	stakeBytes := snapshot.EncodeStakeMerkleLeaf(stakeLeaf)
	if err := merkle.Verify(stakeBytes, stakeProof, voteResult.StakeMerkleRoot); err != nil {
		if errors.Is(err, merkle.ErrProofTooLong) {
			return StakeAccountResult{}, ErrProofTooLong
		}
		return StakeAccountResult{}, ErrProofInvalid
	}

	return StakeAccountResult{
		VotingWallet: voteResult.VotingWallet,
		ActiveStake:  stakeLeaf.ActiveStake,
	}, nil
}
