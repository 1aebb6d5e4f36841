// Package operatorset implements the bounded, order-preserving, duplicate-free
// sequence of 32-byte identities used both as the program configuration's
// operator whitelist and as a ballot box's frozen voter list (spec §3).
package operatorset

import (
	"errors"

	"github.com/luxfi/ids"

	"github.com/exo-tech-xyz/gov-v1/set"
)

// MaxSize is the bound shared by the whitelist and the voter list (spec §5).
const MaxSize = 64

var (
	// ErrFull is returned when adding an operator would exceed MaxSize.
	ErrFull = errors.New("operatorset: at capacity")
	// ErrDuplicate is returned when adding an operator already present.
	ErrDuplicate = errors.New("operatorset: duplicate operator")
)

// Set is an ordered, ≤MaxSize, duplicate-free sequence of operator
// identities. Order is insertion order and is significant: ballot boxes
// freeze a copy of this order at creation and align each voter's recorded
// vote with the voter's position in it (IndexOf).
type Set struct {
	order []ids.NodeID
	index set.Set[ids.NodeID]
}

// New returns an empty Set.
func New() *Set {
	return &Set{index: make(set.Set[ids.NodeID])}
}

// Clone returns a snapshot copy, used when a ballot box freezes the
// whitelist at creation time.
func (s *Set) Clone() *Set {
	out := &Set{
		order: append([]ids.NodeID(nil), s.order...),
		index: s.index.Clone(),
	}
	return out
}

// Add appends operator, rejecting duplicates and capacity overflow.
func (s *Set) Add(operator ids.NodeID) error {
	if s.index.Contains(operator) {
		return ErrDuplicate
	}
	if len(s.order) >= MaxSize {
		return ErrFull
	}
	s.order = append(s.order, operator)
	s.index.Add(operator)
	return nil
}

// Remove removes operator if present; removing an absent operator is a
// silent no-op (spec §4.3: "removals silently no-op on absent").
func (s *Set) Remove(operator ids.NodeID) {
	if !s.index.Contains(operator) {
		return
	}
	s.index.Remove(operator)
	for i, o := range s.order {
		if o == operator {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Contains reports whether operator is a member.
func (s *Set) Contains(operator ids.NodeID) bool {
	return s.index.Contains(operator)
}

// Len returns the number of members.
func (s *Set) Len() int {
	return len(s.order)
}

// List returns the members in insertion order. The caller must not mutate
// the returned slice.
func (s *Set) List() []ids.NodeID {
	return s.order
}

// IndexOf returns the insertion-order position of operator, or -1 if absent.
func (s *Set) IndexOf(operator ids.NodeID) int {
	for i, o := range s.order {
		if o == operator {
			return i
		}
	}
	return -1
}
