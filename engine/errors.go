package engine

import "errors"

var (
	// ErrConfigNotInitialized is returned when an instruction needs
	// ProgramConfig before init_program_config has run.
	ErrConfigNotInitialized = errors.New("engine: program config not initialized")
	// ErrBallotBoxExists is returned by InitBallotBox on a PDA collision.
	ErrBallotBoxExists = errors.New("engine: ballot box already exists for slot")
	// ErrBallotBoxNotFound is returned when a slot has no ballot box.
	ErrBallotBoxNotFound = errors.New("engine: ballot box not found")
	// ErrConsensusResultExists is returned by FinalizeBallot on a PDA
	// collision — the permissionless idempotency guard (spec §4.4).
	ErrConsensusResultExists = errors.New("engine: consensus result already exists for slot")
	// ErrConsensusResultNotFound is returned when verification is
	// attempted against a slot with no minted ConsensusResult.
	ErrConsensusResultNotFound = errors.New("engine: consensus result not found")
	// ErrMetaMerkleProofExists is returned by InitMetaMerkleProof on a PDA
	// collision.
	ErrMetaMerkleProofExists = errors.New("engine: meta-merkle proof already exists")
	// ErrMetaMerkleProofNotFound is returned when no proof envelope exists
	// for (slot, vote_account).
	ErrMetaMerkleProofNotFound = errors.New("engine: meta-merkle proof not found")
	// ErrNotAuthority is not returned by any Engine method: authority-gated
	// instructions pass config.ErrUnauthorized through unchanged.
	ErrNotAuthority = errors.New("engine: caller is not the authority")
	// ErrNotTieBreakerAdmin is returned when a caller other than
	// tie_breaker_admin invokes set_tie_breaker or reset_ballot_box.
	ErrNotTieBreakerAdmin = errors.New("engine: caller is not the tie-breaker admin")
	// ErrSlotInPast is returned by InitBallotBox when snapshot_slot is not
	// strictly greater than the current chain slot (spec §4.4, §7).
	ErrSlotInPast = errors.New("engine: snapshot slot is not in the future")
	// ErrProofTooLong is returned by InitMetaMerkleProof when the supplied
	// proof path exceeds merkle.MaxProofLength.
	ErrProofTooLong = errors.New("engine: meta-merkle proof too long")
)
