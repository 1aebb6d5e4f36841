package config_test

import (
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"

	"github.com/exo-tech-xyz/gov-v1/config"
)

func TestInitThenInitAgainFails(t *testing.T) {
	r := config.NewRegistry()
	deployer := ids.GenerateTestNodeID()

	cfg, err := r.Init(deployer, 255)
	require.NoError(t, err)
	require.Equal(t, deployer, cfg.Authority)
	require.Equal(t, deployer, cfg.TieBreakerAdmin)
	require.Equal(t, 0, cfg.WhitelistedOperators.Len())

	_, err = r.Init(deployer, 255)
	require.ErrorIs(t, err, config.ErrAlreadyExists)
}

func TestUpdateRejectsNonAuthority(t *testing.T) {
	r := config.NewRegistry()
	deployer := ids.GenerateTestNodeID()
	_, err := r.Init(deployer, 0)
	require.NoError(t, err)

	bps := uint16(500)
	err = r.Update(ids.GenerateTestNodeID(), config.UpdateParams{Bps: &bps})
	require.ErrorIs(t, err, config.ErrUnauthorized)
}

func TestUpdateValidatesThresholdAndDuration(t *testing.T) {
	r := config.NewRegistry()
	deployer := ids.GenerateTestNodeID()
	_, err := r.Init(deployer, 0)
	require.NoError(t, err)

	badBps := uint16(10001)
	require.ErrorIs(t, r.Update(deployer, config.UpdateParams{Bps: &badBps}), config.ErrInvalidThreshold)

	badDuration := int64(0)
	require.ErrorIs(t, r.Update(deployer, config.UpdateParams{VoteDurationSecs: &badDuration}), config.ErrInvalidDuration)

	okBps := uint16(6000)
	okDuration := int64(3600)
	require.NoError(t, r.Update(deployer, config.UpdateParams{Bps: &okBps, VoteDurationSecs: &okDuration}))

	cfg, _ := r.Get()
	require.EqualValues(t, 6000, cfg.MinConsensusThresholdBps)
	require.EqualValues(t, 3600, cfg.VoteDurationSeconds)
}

func TestTwoPhaseAuthorityHandover(t *testing.T) {
	r := config.NewRegistry()
	deployer := ids.GenerateTestNodeID()
	newAuthority := ids.GenerateTestNodeID()
	_, err := r.Init(deployer, 0)
	require.NoError(t, err)

	require.ErrorIs(t, r.FinalizeProposedAuthority(newAuthority), config.ErrNoProposal)

	require.NoError(t, r.Update(deployer, config.UpdateParams{ProposedAuthority: &newAuthority}))

	// The old authority cannot finalize on the new authority's behalf.
	require.ErrorIs(t, r.FinalizeProposedAuthority(deployer), config.ErrUnauthorized)

	require.NoError(t, r.FinalizeProposedAuthority(newAuthority))
	cfg, _ := r.Get()
	require.Equal(t, newAuthority, cfg.Authority)
	require.Nil(t, cfg.ProposedAuthority)

	// Old authority has lost its privileges.
	bps := uint16(1)
	require.ErrorIs(t, r.Update(deployer, config.UpdateParams{Bps: &bps}), config.ErrUnauthorized)
}

func TestUpdateOperatorWhitelist(t *testing.T) {
	r := config.NewRegistry()
	deployer := ids.GenerateTestNodeID()
	_, err := r.Init(deployer, 0)
	require.NoError(t, err)

	a, b := ids.GenerateTestNodeID(), ids.GenerateTestNodeID()
	require.NoError(t, r.UpdateOperatorWhitelist(deployer, []ids.NodeID{a, b}, nil))

	cfg, _ := r.Get()
	require.Equal(t, 2, cfg.WhitelistedOperators.Len())

	// Duplicate addition fails and leaves state untouched.
	c := ids.GenerateTestNodeID()
	err = r.UpdateOperatorWhitelist(deployer, []ids.NodeID{c, a}, nil)
	require.ErrorIs(t, err, config.ErrDuplicateOperator)
	cfg, _ = r.Get()
	require.Equal(t, 2, cfg.WhitelistedOperators.Len())

	// Removal of an absent operator silently no-ops; swap out b for c.
	require.NoError(t, r.UpdateOperatorWhitelist(deployer, []ids.NodeID{c}, []ids.NodeID{b, ids.GenerateTestNodeID()}))
	cfg, _ = r.Get()
	require.Equal(t, 2, cfg.WhitelistedOperators.Len())
	require.True(t, cfg.WhitelistedOperators.Contains(a))
	require.True(t, cfg.WhitelistedOperators.Contains(c))
	require.False(t, cfg.WhitelistedOperators.Contains(b))
}

func TestUpdateOperatorWhitelistFullRejectsAddition(t *testing.T) {
	r := config.NewRegistry()
	deployer := ids.GenerateTestNodeID()
	_, err := r.Init(deployer, 0)
	require.NoError(t, err)

	operators := make([]ids.NodeID, 64)
	for i := range operators {
		operators[i] = ids.GenerateTestNodeID()
	}
	require.NoError(t, r.UpdateOperatorWhitelist(deployer, operators, nil))

	err = r.UpdateOperatorWhitelist(deployer, []ids.NodeID{ids.GenerateTestNodeID()}, nil)
	require.ErrorIs(t, err, config.ErrWhitelistFull)
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	r := config.NewRegistry()
	deployer := ids.GenerateTestNodeID()
	_, err := r.Init(deployer, 7)
	require.NoError(t, err)
	require.NoError(t, r.UpdateOperatorWhitelist(deployer, []ids.NodeID{ids.GenerateTestNodeID()}, nil))

	snap, ok := r.Snapshot()
	require.True(t, ok)

	r2 := config.NewRegistry()
	r2.Restore(snap)
	cfg, ok := r2.Get()
	require.True(t, ok)
	require.Equal(t, deployer, cfg.Authority)
	require.Equal(t, byte(7), cfg.Bump)
	require.Equal(t, 1, cfg.WhitelistedOperators.Len())

	// The copy is independent: mutating the restored registry must not
	// reach back into the original's whitelist.
	require.NoError(t, r2.UpdateOperatorWhitelist(deployer, []ids.NodeID{ids.GenerateTestNodeID()}, nil))
	originalCfg, _ := r.Get()
	require.Equal(t, 1, originalCfg.WhitelistedOperators.Len())
}
