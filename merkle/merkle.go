// Package merkle implements the two-tier canonical-pair Merkle scheme used
// to commit validator and stake-delegation snapshots: SHA-256 leaf hashing,
// commutative interior combination, tree construction, and proof
// generation/verification.
package merkle

import (
	"bytes"
	"crypto/sha256"
	"errors"
)

// MaxProofLength bounds a proof path to 32 siblings, supporting trees of up
// to 2^32 leaves (spec §4.1, §5).
const MaxProofLength = 32

var (
	// ErrProofInvalid is returned when a proof fails to fold to the
	// expected root.
	ErrProofInvalid = errors.New("merkle: proof invalid")
	// ErrProofTooLong is returned when a proof path exceeds MaxProofLength.
	ErrProofTooLong = errors.New("merkle: proof too long")
)

// Root is a 32-byte tree root or node hash. The empty tree's root is the
// zero value — the sentinel chosen to resolve spec §9's open question on
// zero-leaf bottom tiers: an empty set of leaves (a validator with no
// delegations) hashes to 32 zero bytes, both when generating and verifying.
type Root [32]byte

// HashLeaf returns H(leafBytes), the one-time hash applied to a leaf's
// encoded form before it enters the tree.
func HashLeaf(leafBytes []byte) Root {
	return Root(sha256.Sum256(leafBytes))
}

// combine is the canonical pair combiner: H(min(a,b) || max(a,b)). It is
// commutative, so a proof path never needs a left/right tag.
func combine(a, b Root) Root {
	var buf [64]byte
	if bytes.Compare(a[:], b[:]) <= 0 {
		copy(buf[:32], a[:])
		copy(buf[32:], b[:])
	} else {
		copy(buf[:32], b[:])
		copy(buf[32:], a[:])
	}
	return Root(sha256.Sum256(buf[:]))
}

// Tree is a built Merkle tree over a fixed, ordered set of leaf hashes. It
// retains every level so per-leaf proofs can be produced without
// recomputation.
type Tree struct {
	levels [][]Root
}

// Build constructs a tree over leaves in input order. Adjacent pairs
// (2i, 2i+1) combine at each level; an odd trailing element is promoted to
// the next level unchanged (no duplication), per spec §4.1.
func Build(leaves []Root) *Tree {
	if len(leaves) == 0 {
		return &Tree{levels: [][]Root{{}}}
	}

	level := make([]Root, len(leaves))
	copy(level, leaves)
	levels := [][]Root{level}

	for len(level) > 1 {
		next := make([]Root, 0, (len(level)+1)/2)
		i := 0
		for i+1 < len(level) {
			next = append(next, combine(level[i], level[i+1]))
			i += 2
		}
		if i < len(level) {
			next = append(next, level[i])
		}
		levels = append(levels, next)
		level = next
	}

	return &Tree{levels: levels}
}

// Root returns the tree's root, or the zero sentinel for an empty tree.
func (t *Tree) Root() Root {
	top := t.levels[len(t.levels)-1]
	if len(top) == 0 {
		return Root{}
	}
	return top[0]
}

// Len returns the number of leaves the tree was built over.
func (t *Tree) Len() int {
	return len(t.levels[0])
}

// Proof returns the sibling path for leaf index i, ascending from the leaf
// level to the root. When a level has odd length and i refers to the
// promoted tail, no sibling is recorded at that step.
func (t *Tree) Proof(i int) ([]Root, error) {
	if i < 0 || i >= t.Len() {
		return nil, errors.New("merkle: leaf index out of range")
	}

	proof := make([]Root, 0, len(t.levels)-1)
	idx := i
	for level := 0; level < len(t.levels)-1; level++ {
		cur := t.levels[level]
		if idx^1 < len(cur) {
			proof = append(proof, cur[idx^1])
		}
		idx /= 2
	}
	if len(proof) > MaxProofLength {
		return nil, ErrProofTooLong
	}
	return proof, nil
}

// Verify folds leafBytes through proof and compares the result against
// root. It returns ErrProofTooLong if proof exceeds MaxProofLength, or
// ErrProofInvalid if the fold does not reproduce root.
func Verify(leafBytes []byte, proof []Root, root Root) error {
	if len(proof) > MaxProofLength {
		return ErrProofTooLong
	}
	h := HashLeaf(leafBytes)
	for _, sibling := range proof {
		h = combine(h, sibling)
	}
	if h != root {
		return ErrProofInvalid
	}
	return nil
}
