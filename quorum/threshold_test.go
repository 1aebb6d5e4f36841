package quorum_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/exo-tech-xyz/gov-v1/quorum"
)

func TestThresholdBoundaryBps(t *testing.T) {
	// Threshold = 10000 bps: requires unanimous voter_list.
	require.Equal(t, 5, quorum.Threshold(5, 10000))
	// Threshold = 1 bps with voter_list size 64: ceil(64*1/10000) = 1.
	require.Equal(t, 1, quorum.Threshold(64, 1))
}

func TestThresholdZeroVoters(t *testing.T) {
	require.Equal(t, 0, quorum.Threshold(0, 6000))
}

func TestAchieved(t *testing.T) {
	require.True(t, quorum.Achieved(3, 5, 6000))
	require.False(t, quorum.Achieved(2, 5, 6000))
}
