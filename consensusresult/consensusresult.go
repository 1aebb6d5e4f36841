// Package consensusresult implements the immutable result minted once a
// ballot box reaches consensus, and the per-validator meta-merkle proof
// envelope that verification reads against it (spec §4.5).
package consensusresult

import (
	"errors"

	"github.com/luxfi/ids"

	"github.com/exo-tech-xyz/gov-v1/merkle"
	"github.com/exo-tech-xyz/gov-v1/snapshot"
)

// ErrNotExpired is returned when a non-creator tries to close a proof
// before expiry.
var ErrNotExpired = errors.New("consensusresult: proof has not expired")

// Result is the minimal commitment minted once per snapshot_slot: just
// enough for downstream verification, since its storage footprint (and the
// compute cost of reading it via cross-program calls) scales directly with
// its size (spec §4.5).
type Result struct {
	SnapshotSlot        uint64
	MetaMerkleRoot      merkle.Root
	SnapshotHash        merkle.Root
	TieBreakerConsensus bool
	FinalizedAt         int64
}

// MetaMerkleProof carries one validator's top-tier leaf and inclusion
// proof, created lazily by the first voter who needs it and reused by
// every subsequent verification for that validator (spec §4.5).
type MetaMerkleProof struct {
	SnapshotSlot uint64
	Leaf         snapshot.MetaMerkleLeaf
	Proof        []merkle.Root
	Creator      ids.NodeID
	Expiry       int64
}

// NewMetaMerkleProof constructs a proof envelope for storage under the
// (snapshot_slot, vote_account) key (spec §6 PDA derivation).
func NewMetaMerkleProof(slot uint64, leaf snapshot.MetaMerkleLeaf, proof []merkle.Root, creator ids.NodeID, expiry int64) *MetaMerkleProof {
	return &MetaMerkleProof{
		SnapshotSlot: slot,
		Leaf:         leaf,
		Proof:        proof,
		Creator:      creator,
		Expiry:       expiry,
	}
}

// Close reports whether caller may close this proof: the creator may close
// it at any time, anyone may close it after expiry.
func (p *MetaMerkleProof) Close(caller ids.NodeID, now int64) error {
	if caller == p.Creator {
		return nil
	}
	if now <= p.Expiry {
		return ErrNotExpired
	}
	return nil
}
