package verify_test

import (
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"

	"github.com/exo-tech-xyz/gov-v1/consensusresult"
	"github.com/exo-tech-xyz/gov-v1/merkle"
	"github.com/exo-tech-xyz/gov-v1/snapshot"
	"github.com/exo-tech-xyz/gov-v1/verify"
)

// buildS6 constructs spec §8 scenario S6: two validators, V1 with two
// delegations and V2 with one, and returns the consensus result plus V1's
// meta-merkle proof and its first stake leaf/proof.
func buildS6(t *testing.T) (*consensusresult.Result, *consensusresult.MetaMerkleProof, snapshot.StakeMerkleLeaf, []merkle.Root) {
	t.Helper()

	vw1, vw2 := ids.GenerateTestNodeID(), ids.GenerateTestNodeID()
	vote1, vote2 := ids.GenerateTestNodeID(), ids.GenerateTestNodeID()
	sa11, sa12, sa21 := ids.GenerateTestNodeID(), ids.GenerateTestNodeID(), ids.GenerateTestNodeID()

	s11 := snapshot.StakeMerkleLeaf{StakeAccount: sa11, VotingWallet: vw1, ActiveStake: 100}
	s12 := snapshot.StakeMerkleLeaf{StakeAccount: sa12, VotingWallet: vw1, ActiveStake: 200}
	s21 := snapshot.StakeMerkleLeaf{StakeAccount: sa21, VotingWallet: vw2, ActiveStake: 500}

	bottomTree1 := merkle.Build([]merkle.Root{
		merkle.HashLeaf(snapshot.EncodeStakeMerkleLeaf(s11)),
		merkle.HashLeaf(snapshot.EncodeStakeMerkleLeaf(s12)),
	})
	bottomTree2 := merkle.Build([]merkle.Root{
		merkle.HashLeaf(snapshot.EncodeStakeMerkleLeaf(s21)),
	})

	l1 := snapshot.MetaMerkleLeaf{VoteAccount: vote1, VotingWallet: vw1, StakeMerkleRoot: bottomTree1.Root(), ActiveStake: 300}
	l2 := snapshot.MetaMerkleLeaf{VoteAccount: vote2, VotingWallet: vw2, StakeMerkleRoot: bottomTree2.Root(), ActiveStake: 500}

	topTree := merkle.Build([]merkle.Root{
		merkle.HashLeaf(snapshot.EncodeMetaMerkleLeaf(l1)),
		merkle.HashLeaf(snapshot.EncodeMetaMerkleLeaf(l2)),
	})

	topProof1, err := topTree.Proof(0)
	require.NoError(t, err)
	bottomProof11, err := bottomTree1.Proof(0)
	require.NoError(t, err)

	result := &consensusresult.Result{
		SnapshotSlot:   7,
		MetaMerkleRoot: topTree.Root(),
		SnapshotHash:   merkle.Root{},
	}
	proof := consensusresult.NewMetaMerkleProof(7, l1, topProof1, ids.GenerateTestNodeID(), 1000)

	return result, proof, s11, bottomProof11
}

func TestS6ProofVerificationSucceeds(t *testing.T) {
	result, proof, stakeLeaf, stakeProof := buildS6(t)

	voteRes, err := verify.VoteAccount(result, proof)
	require.NoError(t, err)
	require.Equal(t, proof.Leaf.VotingWallet, voteRes.VotingWallet)
	require.Equal(t, uint64(300), voteRes.ActiveStake)

	stakeRes, err := verify.StakeAccount(result, proof, stakeLeaf, stakeProof)
	require.NoError(t, err)
	require.Equal(t, stakeLeaf.VotingWallet, stakeRes.VotingWallet)
	require.Equal(t, uint64(100), stakeRes.ActiveStake)
}

func TestS6SwappingFieldsYieldsProofInvalid(t *testing.T) {
	result, proof, stakeLeaf, stakeProof := buildS6(t)

	// Swap in a field from the wrong validator: corrupt the leaf's active
	// stake so the leaf hash no longer matches what was committed.
	tampered := *proof
	tampered.Leaf.ActiveStake = 999
	_, err := verify.VoteAccount(result, &tampered)
	require.ErrorIs(t, err, verify.ErrProofInvalid)

	// Corrupting the stake leaf likewise fails at the bottom tier.
	badStakeLeaf := stakeLeaf
	badStakeLeaf.ActiveStake = 1
	_, err = verify.StakeAccount(result, proof, badStakeLeaf, stakeProof)
	require.ErrorIs(t, err, verify.ErrProofInvalid)
}

func TestS6OverLongProofYieldsProofTooLong(t *testing.T) {
	result, proof, stakeLeaf, stakeProof := buildS6(t)

	tampered := *proof
	tampered.Proof = make([]merkle.Root, merkle.MaxProofLength+1)
	_, err := verify.VoteAccount(result, &tampered)
	require.ErrorIs(t, err, verify.ErrProofTooLong)
	require.NotErrorIs(t, err, verify.ErrProofInvalid)

	_, err = verify.StakeAccount(result, proof, stakeLeaf, append(stakeProof, make([]merkle.Root, merkle.MaxProofLength)...))
	require.ErrorIs(t, err, verify.ErrProofTooLong)
}

func TestSnapshotSlotMismatch(t *testing.T) {
	result, proof, _, _ := buildS6(t)
	proof.SnapshotSlot = result.SnapshotSlot + 1

	_, err := verify.VoteAccount(result, proof)
	require.ErrorIs(t, err, verify.ErrSnapshotSlotMismatch)
}
