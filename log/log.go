// Package log wraps github.com/luxfi/log for the engine's audit logging
// (spec §4.9): one structured line per state transition that matters for
// operators to review after the fact, never for read-only calls.
package log

import (
	luxlog "github.com/luxfi/log"
)

// Logger is the underlying structured logger interface, re-exported so
// callers don't import github.com/luxfi/log directly.
type Logger = luxlog.Logger

// NewNoOp returns a logger that discards everything, used by the tests and
// by every cmd/ballotctl run.
func NewNoOp() Logger {
	return luxlog.NewNoOpLogger()
}

// EventLogger emits the specific audit lines the engine cares about. It is
// a thin, named-method wrapper over Logger so call sites read as "what
// happened" rather than a free-form message string assembled inline.
type EventLogger struct {
	l Logger
}

// NewEventLogger wraps l.
func NewEventLogger(l Logger) EventLogger {
	return EventLogger{l: l}
}

// BallotBoxCreated logs a new ballot box's creation.
func (e EventLogger) BallotBoxCreated(slot uint64, voterCount int, bps uint16, expiry int64) {
	e.l.Info("ballot box created",
		"snapshot_slot", slot,
		"voter_count", voterCount,
		"min_consensus_threshold_bps", bps,
		"vote_expiry_timestamp", expiry,
	)
}

// VoteCast logs an accepted vote.
func (e EventLogger) VoteCast(slot uint64, operator string) {
	e.l.Info("vote cast", "snapshot_slot", slot, "operator", operator)
}

// ConsensusReached logs the first ballot to cross the threshold.
func (e EventLogger) ConsensusReached(slot uint64) {
	e.l.Info("consensus reached", "snapshot_slot", slot)
}

// Finalized logs a ballot box's finalization into a ConsensusResult.
func (e EventLogger) Finalized(slot uint64) {
	e.l.Info("ballot finalized", "snapshot_slot", slot)
}

// TieBroken logs an admin tie-break.
func (e EventLogger) TieBroken(slot uint64, admin string) {
	e.l.Warn("tie breaker invoked", "snapshot_slot", slot, "admin", admin)
}

// Reset logs a spam-flooded ballot box being cleared.
func (e EventLogger) Reset(slot uint64, admin string) {
	e.l.Warn("ballot box reset", "snapshot_slot", slot, "admin", admin)
}
