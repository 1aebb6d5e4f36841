// Package config implements the singleton program configuration registry:
// authority, two-phase authority handover, tie-breaker admin, consensus
// threshold, vote duration, and the bounded operator whitelist (spec §4.3).
package config

import (
	"github.com/luxfi/ids"

	"github.com/exo-tech-xyz/gov-v1/operatorset"
)

// ProgramConfig is the deployment-wide singleton (spec §3).
type ProgramConfig struct {
	Authority                ids.NodeID
	ProposedAuthority        *ids.NodeID
	TieBreakerAdmin          ids.NodeID
	MinConsensusThresholdBps uint16
	VoteDurationSeconds      int64
	WhitelistedOperators     *operatorset.Set
	Bump                     byte
}
