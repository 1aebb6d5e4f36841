package merkle_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/exo-tech-xyz/gov-v1/merkle"
)

func leafRoot(b byte) merkle.Root {
	var r merkle.Root
	r[0] = b
	return merkle.HashLeaf(r[:])
}

func TestEmptyTreeSentinelRoot(t *testing.T) {
	tree := merkle.Build(nil)
	require.Equal(t, merkle.Root{}, tree.Root())
	require.Equal(t, 0, tree.Len())
}

func TestSingleLeafPromotedUnchanged(t *testing.T) {
	leaves := []merkle.Root{leafRoot(1)}
	tree := merkle.Build(leaves)
	require.Equal(t, leaves[0], tree.Root())

	proof, err := tree.Proof(0)
	require.NoError(t, err)
	require.Empty(t, proof)
}

func TestBuildProveVerifyRoundTrip(t *testing.T) {
	var leafBytes [][]byte
	var leaves []merkle.Root
	for i := byte(0); i < 5; i++ {
		b := []byte{i, i, i}
		leafBytes = append(leafBytes, b)
		leaves = append(leaves, merkle.HashLeaf(b))
	}

	tree := merkle.Build(leaves)
	root := tree.Root()

	for i := range leafBytes {
		proof, err := tree.Proof(i)
		require.NoError(t, err)
		require.LessOrEqual(t, len(proof), merkle.MaxProofLength)
		require.NoError(t, merkle.Verify(leafBytes[i], proof, root))
	}
}

func TestVerifyRejectsTamperedRoot(t *testing.T) {
	leaves := []merkle.Root{leafRoot(1), leafRoot(2), leafRoot(3)}
	tree := merkle.Build(leaves)
	proof, err := tree.Proof(1)
	require.NoError(t, err)

	var b [32]byte
	b[0] = 2
	bad := tree.Root()
	bad[0] ^= 0xFF
	require.ErrorIs(t, merkle.Verify(b[:], proof, bad), merkle.ErrProofInvalid)
}

func TestVerifyRejectsTooLongProof(t *testing.T) {
	proof := make([]merkle.Root, merkle.MaxProofLength+1)
	err := merkle.Verify([]byte("leaf"), proof, merkle.Root{})
	require.ErrorIs(t, err, merkle.ErrProofTooLong)
}

func TestOddLevelPromotionNoDuplication(t *testing.T) {
	// 3 leaves: level0 = [a,b,c] -> level1 = [combine(a,b), c] -> root.
	a, b, c := leafRoot(1), leafRoot(2), leafRoot(3)
	tree := merkle.Build([]merkle.Root{a, b, c})

	proofC, err := tree.Proof(2)
	require.NoError(t, err)
	// c is promoted unchanged at level0->level1, so its only sibling step
	// is against combine(a,b) at the top.
	require.Len(t, proofC, 1)
}

// S6 from spec §8: two validators, two-tier commitment.
func TestTwoTierScenarioS6(t *testing.T) {
	s11 := []byte("stake-11")
	s12 := []byte("stake-12")
	bottomV1 := merkle.Build([]merkle.Root{merkle.HashLeaf(s11), merkle.HashLeaf(s12)})
	br1 := bottomV1.Root()

	s21 := []byte("stake-21")
	bottomV2 := merkle.Build([]merkle.Root{merkle.HashLeaf(s21)})
	br2 := bottomV2.Root()

	l1 := append([]byte("v1-leaf-"), br1[:]...)
	l2 := append([]byte("v2-leaf-"), br2[:]...)
	top := merkle.Build([]merkle.Root{merkle.HashLeaf(l1), merkle.HashLeaf(l2)})
	tr := top.Root()

	metaProof, err := top.Proof(0)
	require.NoError(t, err)
	require.NoError(t, merkle.Verify(l1, metaProof, tr))

	stakeProof, err := bottomV1.Proof(0)
	require.NoError(t, err)
	require.NoError(t, merkle.Verify(s11, stakeProof, br1))

	// Swapping the stake proof against the wrong bottom root fails.
	require.ErrorIs(t, merkle.Verify(s11, stakeProof, br2), merkle.ErrProofInvalid)
}
