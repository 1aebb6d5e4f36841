package ballotbox

import "errors"

var (
	// ErrNotWhitelisted is returned when the caller is not in voter_list.
	ErrNotWhitelisted = errors.New("ballotbox: operator not in voter list")
	// ErrAlreadyFinalized is returned when mutating a finalized box, or
	// finalizing one a second time.
	ErrAlreadyFinalized = errors.New("ballotbox: already finalized")
	// ErrBallotSpaceExhausted is returned when casting a vote for a new
	// ballot would exceed the 64-distinct-ballot cap.
	ErrBallotSpaceExhausted = errors.New("ballotbox: ballot space exhausted")
	// ErrConsensusAlreadyReached is returned by remove_vote and
	// set_tie_breaker once winning_ballot is set.
	ErrConsensusAlreadyReached = errors.New("ballotbox: consensus already reached")
	// ErrVotingExpired is returned by remove_vote and reset_ballot_box once
	// the vote expiry has passed.
	ErrVotingExpired = errors.New("ballotbox: voting period has expired")
	// ErrVotingNotExpired is returned by set_tie_breaker before expiry.
	ErrVotingNotExpired = errors.New("ballotbox: voting period has not expired")
	// ErrNoVoteToRemove is returned when the operator has no recorded vote.
	ErrNoVoteToRemove = errors.New("ballotbox: operator has no vote to remove")
	// ErrConsensusNotReached is returned by finalize_ballot before
	// winning_ballot is set.
	ErrConsensusNotReached = errors.New("ballotbox: consensus not yet reached")
	// ErrResetPreconditionsUnmet is returned by reset_ballot_box unless the
	// tally list is exactly at its 64-ballot cap.
	ErrResetPreconditionsUnmet = errors.New("ballotbox: reset preconditions unmet")
)
