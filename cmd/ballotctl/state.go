package main

import (
	"os"

	"github.com/luxfi/ids"

	"github.com/exo-tech-xyz/gov-v1/ballotbox"
	"github.com/exo-tech-xyz/gov-v1/codec"
	"github.com/exo-tech-xyz/gov-v1/config"
	"github.com/exo-tech-xyz/gov-v1/consensusresult"
	"github.com/exo-tech-xyz/gov-v1/engine"
	"github.com/exo-tech-xyz/gov-v1/operatorset"
)

// persistedConfig mirrors config.ProgramConfig with its whitelist
// flattened to a plain slice, since operatorset.Set's fields are
// unexported and would marshal to nothing.
type persistedConfig struct {
	Authority                ids.NodeID
	ProposedAuthority        *ids.NodeID
	TieBreakerAdmin          ids.NodeID
	MinConsensusThresholdBps uint16
	VoteDurationSeconds      int64
	WhitelistedOperators     []ids.NodeID
	Bump                     byte
}

func toPersistedConfig(cfg *config.ProgramConfig) *persistedConfig {
	if cfg == nil {
		return nil
	}
	return &persistedConfig{
		Authority:                cfg.Authority,
		ProposedAuthority:        cfg.ProposedAuthority,
		TieBreakerAdmin:          cfg.TieBreakerAdmin,
		MinConsensusThresholdBps: cfg.MinConsensusThresholdBps,
		VoteDurationSeconds:      cfg.VoteDurationSeconds,
		WhitelistedOperators:     cfg.WhitelistedOperators.List(),
		Bump:                     cfg.Bump,
	}
}

func fromPersistedConfig(p *persistedConfig) *config.ProgramConfig {
	if p == nil {
		return nil
	}
	whitelist := operatorset.New()
	for _, op := range p.WhitelistedOperators {
		_ = whitelist.Add(op)
	}
	return &config.ProgramConfig{
		Authority:                p.Authority,
		ProposedAuthority:        p.ProposedAuthority,
		TieBreakerAdmin:          p.TieBreakerAdmin,
		MinConsensusThresholdBps: p.MinConsensusThresholdBps,
		VoteDurationSeconds:      p.VoteDurationSeconds,
		WhitelistedOperators:     whitelist,
		Bump:                     p.Bump,
	}
}

// persistedState is the on-disk shape engine state is marshaled to between
// ballotctl invocations, via the generic codec package (spec §4.11) —
// distinct from snapshot's consensus-critical wire format, since this is
// purely a local development convenience with no cross-process commitment
// semantics.
type persistedState struct {
	Config           *persistedConfig
	BallotBoxes      map[uint64]ballotbox.State
	ConsensusResults map[uint64]consensusresult.Result
}

func loadState(path string) (persistedState, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return persistedState{}, nil
	}
	if err != nil {
		return persistedState{}, err
	}
	var s persistedState
	if _, err := codec.Codec.Unmarshal(data, &s); err != nil {
		return persistedState{}, err
	}
	return s, nil
}

func saveState(path string, s persistedState) error {
	data, err := codec.Codec.Marshal(codec.CurrentVersion, s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// loadEngine rehydrates an Engine from path, or leaves it untouched if no
// state file exists yet.
func loadEngine(path string, e *engine.Engine) error {
	s, err := loadState(path)
	if err != nil {
		return err
	}
	if s.Config != nil {
		e.RestoreConfig(fromPersistedConfig(s.Config))
	}
	if s.BallotBoxes != nil {
		e.RestoreBallotBoxes(s.BallotBoxes)
	}
	if s.ConsensusResults != nil {
		e.RestoreConsensusResults(s.ConsensusResults)
	}
	return nil
}

// persistEngine writes e's current state to path.
func persistEngine(path string, e *engine.Engine) error {
	cfg, _ := e.DumpConfig()
	return saveState(path, persistedState{
		Config:           toPersistedConfig(cfg),
		BallotBoxes:      e.DumpBallotBoxes(),
		ConsensusResults: e.DumpConsensusResults(),
	})
}
