package consensusresult_test

import (
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"

	"github.com/exo-tech-xyz/gov-v1/consensusresult"
	"github.com/exo-tech-xyz/gov-v1/merkle"
	"github.com/exo-tech-xyz/gov-v1/snapshot"
)

func TestMetaMerkleProofCloseByCreatorBeforeExpiry(t *testing.T) {
	creator := ids.GenerateTestNodeID()
	proof := consensusresult.NewMetaMerkleProof(1, snapshot.MetaMerkleLeaf{}, nil, creator, 1000)

	require.NoError(t, proof.Close(creator, 500))
}

func TestMetaMerkleProofCloseByStrangerBeforeExpiryRefused(t *testing.T) {
	creator := ids.GenerateTestNodeID()
	stranger := ids.GenerateTestNodeID()
	proof := consensusresult.NewMetaMerkleProof(1, snapshot.MetaMerkleLeaf{}, nil, creator, 1000)

	err := proof.Close(stranger, 500)
	require.ErrorIs(t, err, consensusresult.ErrNotExpired)
}

func TestMetaMerkleProofCloseByStrangerAfterExpiry(t *testing.T) {
	creator := ids.GenerateTestNodeID()
	stranger := ids.GenerateTestNodeID()
	proof := consensusresult.NewMetaMerkleProof(1, snapshot.MetaMerkleLeaf{}, nil, creator, 1000)

	require.NoError(t, proof.Close(stranger, 1001))
}

func TestResultFieldsRoundTrip(t *testing.T) {
	var root merkle.Root
	root[0] = 7
	r := consensusresult.Result{
		SnapshotSlot:        42,
		MetaMerkleRoot:      root,
		SnapshotHash:        root,
		TieBreakerConsensus: true,
		FinalizedAt:         12345,
	}
	require.Equal(t, uint64(42), r.SnapshotSlot)
	require.True(t, r.TieBreakerConsensus)
}
