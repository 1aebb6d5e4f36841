package config

import "errors"

var (
	// ErrAlreadyExists is returned by Init when a ProgramConfig singleton
	// already exists (PDA collision, spec §4.3/§7).
	ErrAlreadyExists = errors.New("config: program config already exists")
	// ErrNotInitialized is returned by Update and UpdateOperatorWhitelist
	// when no ProgramConfig singleton has been created yet.
	ErrNotInitialized = errors.New("config: program config not initialized")
	// ErrUnauthorized is returned when the caller is not the authority (or
	// not the proposed authority for the promotion step).
	ErrUnauthorized = errors.New("config: unauthorized caller")
	// ErrInvalidThreshold is returned when a bps value exceeds 10000.
	ErrInvalidThreshold = errors.New("config: threshold bps must be <= 10000")
	// ErrInvalidDuration is returned when vote_duration is not positive.
	ErrInvalidDuration = errors.New("config: vote duration must be > 0")
	// ErrNoProposal is returned when finalizing a promotion with no
	// proposed_authority set.
	ErrNoProposal = errors.New("config: no pending authority proposal")
	// ErrWhitelistFull is returned when an addition would exceed the
	// 64-operator bound.
	ErrWhitelistFull = errors.New("config: operator whitelist is full")
	// ErrDuplicateOperator is returned when adding an operator already on
	// the whitelist.
	ErrDuplicateOperator = errors.New("config: duplicate operator")
)
