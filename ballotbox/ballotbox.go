// Package ballotbox implements the per-snapshot-slot ballot tally state
// machine (spec §4.4): a fixed voter list votes on Ballots until one
// reaches the configured consensus threshold, or the tie-breaker admin
// seals (or, while spam-flooded, resets) the box.
package ballotbox

import (
	"github.com/luxfi/ids"

	"github.com/exo-tech-xyz/gov-v1/operatorset"
	"github.com/exo-tech-xyz/gov-v1/quorum"
)

// MaxBallotTallies is the cap on distinct ballots ever observed by one box
// (spec §3/§5). It never shrinks except on reset_ballot_box.
const MaxBallotTallies = 64

// TallyEntry pairs a distinct ballot with its current vote count,
// generalizing the teacher's utils.Bag multiset (single ids.ID key) to the
// two-field Ballot key, while preserving Bag's "never removed, only
// decremented" semantics.
type TallyEntry struct {
	Ballot Ballot
	Tally  int
}

// unvoted marks a voter_list slot with no recorded vote.
const unvoted = -1

// BallotBox is one ballot tally instance, identified by snapshot_slot.
type BallotBox struct {
	SnapshotSlot             uint64
	CreatedAt                int64
	VoteExpiryTimestamp      int64
	MinConsensusThresholdBps uint16
	VoterList                *operatorset.Set // frozen copy of the whitelist at creation
	votes                    []int             // aligned with VoterList.List(); index into tallies, or unvoted
	tallies                  []TallyEntry
	WinningBallot            *Ballot
	TieBreakerConsensus      bool
	IsFinalized              bool
}

// New creates a ballot box, freezing voterList and the threshold bps and
// computing the expiry from now + voteDurationSeconds (spec §4.4 "init").
func New(slot uint64, now int64, voterList *operatorset.Set, bps uint16, voteDurationSeconds int64) *BallotBox {
	frozen := voterList.Clone()
	votes := make([]int, frozen.Len())
	for i := range votes {
		votes[i] = unvoted
	}
	return &BallotBox{
		SnapshotSlot:             slot,
		CreatedAt:                now,
		VoteExpiryTimestamp:      now + voteDurationSeconds,
		MinConsensusThresholdBps: bps,
		VoterList:                frozen,
		votes:                    votes,
	}
}

// indexOfBallot returns the tally-list position of ballot, or -1.
func (b *BallotBox) indexOfBallot(ballot Ballot) int {
	for i, t := range b.tallies {
		if t.Ballot == ballot {
			return i
		}
	}
	return -1
}

// recomputeWinner sets WinningBallot to the first ballot (by insertion
// order into the tally list) whose tally has crossed the threshold, if one
// isn't already set (spec §4.4 step 5: "first to do so wins").
func (b *BallotBox) recomputeWinner() {
	if b.WinningBallot != nil {
		return
	}
	threshold := quorum.Threshold(b.VoterList.Len(), b.MinConsensusThresholdBps)
	for i := range b.tallies {
		if b.tallies[i].Tally >= threshold {
			winner := b.tallies[i].Ballot
			b.WinningBallot = &winner
			return
		}
	}
}

// CastVote records operator's vote for ballot, transferring any prior vote
// by that operator (spec §4.4). Casting the same ballot twice in a row is a
// tally no-op: the prior-ballot decrement and the new-ballot increment
// cancel.
func (b *BallotBox) CastVote(operator ids.NodeID, ballot Ballot) error {
	voterIdx := b.VoterList.IndexOf(operator)
	if voterIdx < 0 {
		return ErrNotWhitelisted
	}
	if b.IsFinalized {
		return ErrAlreadyFinalized
	}

	tallyIdx := b.indexOfBallot(ballot)
	if tallyIdx < 0 {
		if len(b.tallies) >= MaxBallotTallies {
			return ErrBallotSpaceExhausted
		}
		b.tallies = append(b.tallies, TallyEntry{Ballot: ballot})
		tallyIdx = len(b.tallies) - 1
	}

	if prev := b.votes[voterIdx]; prev != unvoted {
		b.tallies[prev].Tally--
	}
	b.tallies[tallyIdx].Tally++
	b.votes[voterIdx] = tallyIdx

	b.recomputeWinner()
	return nil
}

// RemoveVote clears operator's vote, provided consensus hasn't been
// reached and voting hasn't expired (spec §4.4).
func (b *BallotBox) RemoveVote(operator ids.NodeID, now int64) error {
	voterIdx := b.VoterList.IndexOf(operator)
	if voterIdx < 0 {
		return ErrNotWhitelisted
	}
	if b.WinningBallot != nil {
		return ErrConsensusAlreadyReached
	}
	if now > b.VoteExpiryTimestamp {
		return ErrVotingExpired
	}
	prev := b.votes[voterIdx]
	if prev == unvoted {
		return ErrNoVoteToRemove
	}
	b.tallies[prev].Tally--
	b.votes[voterIdx] = unvoted
	return nil
}

// Finalize marks the box finalized once a winning ballot exists. It is the
// ballot box's half of finalize_ballot; the caller (engine) is responsible
// for minting the ConsensusResult and enforcing PDA uniqueness. A second
// call on the same box returns ErrAlreadyFinalized.
func (b *BallotBox) Finalize() error {
	if b.WinningBallot == nil {
		return ErrConsensusNotReached
	}
	if b.IsFinalized {
		return ErrAlreadyFinalized
	}
	b.IsFinalized = true
	return nil
}

// SetTieBreaker seals the box with an admin-chosen ballot once voting has
// expired without consensus. ballot need not appear in the tally list
// (spec §4.4).
func (b *BallotBox) SetTieBreaker(ballot Ballot, now int64) error {
	if b.WinningBallot != nil {
		return ErrConsensusAlreadyReached
	}
	if now <= b.VoteExpiryTimestamp {
		return ErrVotingNotExpired
	}
	winner := ballot
	b.WinningBallot = &winner
	b.TieBreakerConsensus = true
	return nil
}

// Reset clears votes and tallies, the only escape from a ballot box whose
// 64-ballot cap was exhausted by spam before expiry (spec §4.4 rationale).
func (b *BallotBox) Reset(now int64) error {
	if b.WinningBallot != nil {
		return ErrConsensusAlreadyReached
	}
	if now > b.VoteExpiryTimestamp {
		return ErrVotingExpired
	}
	if len(b.tallies) != MaxBallotTallies {
		return ErrResetPreconditionsUnmet
	}
	for i := range b.votes {
		b.votes[i] = unvoted
	}
	b.tallies = nil
	return nil
}

// TallyOf returns the current tally for ballot (0 if never observed) and
// whether it has ever been recorded in the tally list.
func (b *BallotBox) TallyOf(ballot Ballot) (int, bool) {
	idx := b.indexOfBallot(ballot)
	if idx < 0 {
		return 0, false
	}
	return b.tallies[idx].Tally, true
}

// BallotCount returns the number of distinct ballots ever observed.
func (b *BallotBox) BallotCount() int {
	return len(b.tallies)
}

// TotalVotes returns the sum of all tallies, which must never exceed
// VoterList.Len() (spec §8 invariant 1).
func (b *BallotBox) TotalVotes() int {
	total := 0
	for _, t := range b.tallies {
		total += t.Tally
	}
	return total
}

// State is the exported, serialization-friendly mirror of a BallotBox's
// full internal state, used by codec-backed persistence layers (spec
// §4.11) that cannot reach the box's unexported fields directly.
type State struct {
	SnapshotSlot             uint64
	CreatedAt                int64
	VoteExpiryTimestamp      int64
	MinConsensusThresholdBps uint16
	VoterList                []ids.NodeID
	Votes                    []int
	Tallies                  []TallyEntry
	WinningBallot            *Ballot
	TieBreakerConsensus      bool
	IsFinalized              bool
}

// Snapshot returns a serializable copy of b's state.
func (b *BallotBox) Snapshot() State {
	return State{
		SnapshotSlot:             b.SnapshotSlot,
		CreatedAt:                b.CreatedAt,
		VoteExpiryTimestamp:      b.VoteExpiryTimestamp,
		MinConsensusThresholdBps: b.MinConsensusThresholdBps,
		VoterList:                append([]ids.NodeID(nil), b.VoterList.List()...),
		Votes:                    append([]int(nil), b.votes...),
		Tallies:                  append([]TallyEntry(nil), b.tallies...),
		WinningBallot:            b.WinningBallot,
		TieBreakerConsensus:      b.TieBreakerConsensus,
		IsFinalized:              b.IsFinalized,
	}
}

// Restore reconstructs a BallotBox from a previously captured State.
func Restore(s State) *BallotBox {
	voterList := operatorset.New()
	for _, op := range s.VoterList {
		// State was captured from a valid box, so Add cannot fail here.
		_ = voterList.Add(op)
	}
	return &BallotBox{
		SnapshotSlot:             s.SnapshotSlot,
		CreatedAt:                s.CreatedAt,
		VoteExpiryTimestamp:      s.VoteExpiryTimestamp,
		MinConsensusThresholdBps: s.MinConsensusThresholdBps,
		VoterList:                voterList,
		votes:                    append([]int(nil), s.Votes...),
		tallies:                  append([]TallyEntry(nil), s.Tallies...),
		WinningBallot:            s.WinningBallot,
		TieBreakerConsensus:      s.TieBreakerConsensus,
		IsFinalized:              s.IsFinalized,
	}
}
