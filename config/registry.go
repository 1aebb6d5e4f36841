package config

import (
	"sync"

	"github.com/luxfi/ids"

	"github.com/exo-tech-xyz/gov-v1/operatorset"
)

// Registry guards the ProgramConfig singleton with a read-write lock,
// mirroring the teacher's quorum.Static guard pattern: reads (Get,
// Snapshot) don't block on each other.
type Registry struct {
	mu  sync.RWMutex
	cfg *ProgramConfig
}

// NewRegistry returns an empty registry with no ProgramConfig yet created.
func NewRegistry() *Registry {
	return &Registry{}
}

// Init creates the singleton with deployer as authority and tie_breaker_admin,
// an empty whitelist, and zero bps/duration. Fails with ErrAlreadyExists if
// already created (spec §4.3).
func (r *Registry) Init(deployer ids.NodeID, bump byte) (*ProgramConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cfg != nil {
		return nil, ErrAlreadyExists
	}
	r.cfg = &ProgramConfig{
		Authority:            deployer,
		TieBreakerAdmin:      deployer,
		WhitelistedOperators: operatorset.New(),
		Bump:                 bump,
	}
	return r.cfg, nil
}

// Get returns the current ProgramConfig and whether it has been created.
// The caller must not mutate the returned value.
func (r *Registry) Get() (*ProgramConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg, r.cfg != nil
}

// UpdateParams is the set of optional fields update_program_config may set.
type UpdateParams struct {
	Bps               *uint16
	VoteDurationSecs  *int64
	TieBreakerAdmin   *ids.NodeID
	ProposedAuthority *ids.NodeID
}

// Update applies caller-authorized, optional field changes (spec §4.3).
// Every field is validated before any is applied, so a rejected update
// leaves the config untouched.
func (r *Registry) Update(caller ids.NodeID, p UpdateParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cfg == nil {
		return ErrNotInitialized
	}
	if caller != r.cfg.Authority {
		return ErrUnauthorized
	}
	if p.Bps != nil && *p.Bps > 10000 {
		return ErrInvalidThreshold
	}
	if p.VoteDurationSecs != nil && *p.VoteDurationSecs <= 0 {
		return ErrInvalidDuration
	}

	if p.Bps != nil {
		r.cfg.MinConsensusThresholdBps = *p.Bps
	}
	if p.VoteDurationSecs != nil {
		r.cfg.VoteDurationSeconds = *p.VoteDurationSecs
	}
	if p.TieBreakerAdmin != nil {
		r.cfg.TieBreakerAdmin = *p.TieBreakerAdmin
	}
	if p.ProposedAuthority != nil {
		r.cfg.ProposedAuthority = p.ProposedAuthority
	}
	return nil
}

// FinalizeProposedAuthority promotes the proposed authority, clearing the
// proposal. Only the proposed authority itself may call this (spec §4.3) —
// the two-step handover that eliminates the bricking risk of a typo in a
// single-step transfer.
func (r *Registry) FinalizeProposedAuthority(caller ids.NodeID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cfg == nil || r.cfg.ProposedAuthority == nil {
		return ErrNoProposal
	}
	if caller != *r.cfg.ProposedAuthority {
		return ErrUnauthorized
	}
	r.cfg.Authority = *r.cfg.ProposedAuthority
	r.cfg.ProposedAuthority = nil
	return nil
}

// UpdateOperatorWhitelist applies removals then additions atomically: if
// any addition fails (duplicate or over capacity) no change is applied,
// even removals. Applying removals first lets one call swap an operator
// out and a replacement in without transiently exceeding capacity.
func (r *Registry) UpdateOperatorWhitelist(caller ids.NodeID, add, remove []ids.NodeID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cfg == nil {
		return ErrNotInitialized
	}
	if caller != r.cfg.Authority {
		return ErrUnauthorized
	}

	next := r.cfg.WhitelistedOperators.Clone()
	for _, op := range remove {
		next.Remove(op)
	}
	for _, op := range add {
		if err := next.Add(op); err != nil {
			switch err {
			case operatorset.ErrDuplicate:
				return ErrDuplicateOperator
			case operatorset.ErrFull:
				return ErrWhitelistFull
			default:
				return err
			}
		}
	}

	r.cfg.WhitelistedOperators = next
	return nil
}

// Snapshot returns a deep copy of the current ProgramConfig, or false if
// none exists yet. Used by codec-backed persistence layers (spec §4.11).
func (r *Registry) Snapshot() (*ProgramConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.cfg == nil {
		return nil, false
	}
	cfg := *r.cfg
	cfg.WhitelistedOperators = r.cfg.WhitelistedOperators.Clone()
	if r.cfg.ProposedAuthority != nil {
		proposed := *r.cfg.ProposedAuthority
		cfg.ProposedAuthority = &proposed
	}
	return &cfg, true
}

// Restore replaces the registry's singleton with cfg wholesale, for
// rehydrating a Registry from a persisted Snapshot.
func (r *Registry) Restore(cfg *ProgramConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg = cfg
}
