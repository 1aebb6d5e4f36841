// Package engine wires config, ballotbox, consensusresult, verify and gate
// into the instruction surface described by spec §6. It plays the role the
// real program's entrypoint dispatcher would play on-chain: one exported
// method per instruction, each acquiring the engine-wide lock for the
// duration of the call, mirroring §5's "transactions serialized on the
// chain's consensus log."
package engine

import (
	"sync"

	"github.com/luxfi/ids"

	"github.com/exo-tech-xyz/gov-v1/ballotbox"
	"github.com/exo-tech-xyz/gov-v1/config"
	"github.com/exo-tech-xyz/gov-v1/consensusresult"
	"github.com/exo-tech-xyz/gov-v1/gate"
	"github.com/exo-tech-xyz/gov-v1/log"
	"github.com/exo-tech-xyz/gov-v1/merkle"
	"github.com/exo-tech-xyz/gov-v1/metrics"
	"github.com/exo-tech-xyz/gov-v1/snapshot"
	"github.com/exo-tech-xyz/gov-v1/verify"
)

// metaMerkleProofKey mirrors the PDA seeds ["meta_merkle_proof",
// snapshot_slot, vote_account] (spec §6).
type metaMerkleProofKey struct {
	slot uint64
	vote ids.NodeID
}

// Engine is the in-process analogue of the on-chain program: one singleton
// config, one ballot box per snapshot_slot, one consensus result per slot,
// and one meta-merkle proof per (slot, vote_account).
type Engine struct {
	mu sync.Mutex

	config           *config.Registry
	ballotBoxes      map[uint64]*ballotbox.BallotBox
	consensusResults map[uint64]*consensusresult.Result
	metaMerkleProofs map[metaMerkleProofKey]*consensusresult.MetaMerkleProof

	gate    gate.Gate
	logger  log.EventLogger
	metrics *metrics.Metrics
}

// New constructs an Engine. g is typically a *gate.ProductionGate; pass
// gate.TestGate{} for local integration testing (spec §4.7).
func New(g gate.Gate, logger log.Logger, m *metrics.Metrics) *Engine {
	return &Engine{
		config:           config.NewRegistry(),
		ballotBoxes:      make(map[uint64]*ballotbox.BallotBox),
		consensusResults: make(map[uint64]*consensusresult.Result),
		metaMerkleProofs: make(map[metaMerkleProofKey]*consensusresult.MetaMerkleProof),
		gate:             g,
		logger:           log.NewEventLogger(logger),
		metrics:          m,
	}
}

// InitProgramConfig creates the singleton ProgramConfig, seeded by
// deployer (spec §4.3).
func (e *Engine) InitProgramConfig(deployer ids.NodeID, bump byte) (*config.ProgramConfig, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.config.Init(deployer, bump)
}

// UpdateProgramConfig applies caller-authorized parameter changes.
func (e *Engine) UpdateProgramConfig(caller ids.NodeID, params config.UpdateParams) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.config.Update(caller, params)
}

// FinalizeProposedAuthority completes the two-phase authority handover.
func (e *Engine) FinalizeProposedAuthority(caller ids.NodeID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.config.FinalizeProposedAuthority(caller)
}

// UpdateOperatorWhitelist applies removals then additions atomically.
func (e *Engine) UpdateOperatorWhitelist(caller ids.NodeID, add, remove []ids.NodeID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.config.UpdateOperatorWhitelist(caller, add, remove)
}

// InitBallotBox creates a ballot box for slot, freezing the current
// whitelist and threshold params. Requires the caller to pass the gate
// (spec §4.7), the config singleton to already exist, and slot to be
// strictly greater than currentSlot (spec §4.4: "snapshot_slot strictly
// greater than current chain slot").
func (e *Engine) InitBallotBox(ctx gate.CallContext, slot uint64, currentSlot uint64, now int64) (*ballotbox.BallotBox, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.gate.Authorize(ctx); err != nil {
		return nil, err
	}
	if slot <= currentSlot {
		return nil, ErrSlotInPast
	}
	if _, exists := e.ballotBoxes[slot]; exists {
		return nil, ErrBallotBoxExists
	}
	cfg, ok := e.config.Get()
	if !ok {
		return nil, ErrConfigNotInitialized
	}

	box := ballotbox.New(slot, now, cfg.WhitelistedOperators, cfg.MinConsensusThresholdBps, cfg.VoteDurationSeconds)
	e.ballotBoxes[slot] = box
	e.logger.BallotBoxCreated(slot, box.VoterList.Len(), box.MinConsensusThresholdBps, box.VoteExpiryTimestamp)
	return box, nil
}

// CastVote records operator's vote for ballot on slot's ballot box.
func (e *Engine) CastVote(slot uint64, operator ids.NodeID, ballot ballotbox.Ballot) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	box, ok := e.ballotBoxes[slot]
	if !ok {
		return ErrBallotBoxNotFound
	}
	hadWinner := box.WinningBallot != nil
	if err := box.CastVote(operator, ballot); err != nil {
		return err
	}
	e.metrics.VotesCast.Inc()
	e.logger.VoteCast(slot, operator.String())
	if !hadWinner && box.WinningBallot != nil {
		e.logger.ConsensusReached(slot)
	}
	return nil
}

// RemoveVote clears operator's recorded vote on slot's ballot box.
func (e *Engine) RemoveVote(slot uint64, operator ids.NodeID, now int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	box, ok := e.ballotBoxes[slot]
	if !ok {
		return ErrBallotBoxNotFound
	}
	return box.RemoveVote(operator, now)
}

// FinalizeBallot mints the ConsensusResult for slot, permissionlessly.
func (e *Engine) FinalizeBallot(slot uint64, now int64) (*consensusresult.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	box, ok := e.ballotBoxes[slot]
	if !ok {
		return nil, ErrBallotBoxNotFound
	}
	if _, exists := e.consensusResults[slot]; exists {
		return nil, ErrConsensusResultExists
	}
	if err := box.Finalize(); err != nil {
		return nil, err
	}

	result := &consensusresult.Result{
		SnapshotSlot:        slot,
		MetaMerkleRoot:      box.WinningBallot.MetaMerkleRoot,
		SnapshotHash:        box.WinningBallot.SnapshotHash,
		TieBreakerConsensus: box.TieBreakerConsensus,
		FinalizedAt:         now,
	}
	e.consensusResults[slot] = result
	e.metrics.BallotsFinalized.Inc()
	e.logger.Finalized(slot)
	return result, nil
}

// SetTieBreaker seals a stuck ballot box by tie_breaker_admin.
func (e *Engine) SetTieBreaker(caller ids.NodeID, slot uint64, ballot ballotbox.Ballot, now int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, ok := e.config.Get()
	if !ok {
		return ErrConfigNotInitialized
	}
	if caller != cfg.TieBreakerAdmin {
		return ErrNotTieBreakerAdmin
	}
	box, ok := e.ballotBoxes[slot]
	if !ok {
		return ErrBallotBoxNotFound
	}
	if err := box.SetTieBreaker(ballot, now); err != nil {
		return err
	}
	e.metrics.TieBreaks.Inc()
	e.logger.TieBroken(slot, caller.String())
	return nil
}

// ResetBallotBox clears a spam-flooded ballot box by tie_breaker_admin.
func (e *Engine) ResetBallotBox(caller ids.NodeID, slot uint64, now int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, ok := e.config.Get()
	if !ok {
		return ErrConfigNotInitialized
	}
	if caller != cfg.TieBreakerAdmin {
		return ErrNotTieBreakerAdmin
	}
	box, ok := e.ballotBoxes[slot]
	if !ok {
		return ErrBallotBoxNotFound
	}
	if err := box.Reset(now); err != nil {
		return err
	}
	e.metrics.BallotBoxResets.Inc()
	e.logger.Reset(slot, caller.String())
	return nil
}

// InitMetaMerkleProof creates a reusable proof envelope for (slot,
// leaf.VoteAccount), typically called by the first voter who needs it.
// Rejects a proof path exceeding merkle.MaxProofLength up front, so an
// over-length proof can never be stored and later misreported by
// verify_merkle_proof as a cryptographic failure instead of a bounds one.
func (e *Engine) InitMetaMerkleProof(slot uint64, leaf snapshot.MetaMerkleLeaf, proof []merkle.Root, creator ids.NodeID, expiry int64) (*consensusresult.MetaMerkleProof, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(proof) > merkle.MaxProofLength {
		return nil, ErrProofTooLong
	}
	key := metaMerkleProofKey{slot: slot, vote: leaf.VoteAccount}
	if _, exists := e.metaMerkleProofs[key]; exists {
		return nil, ErrMetaMerkleProofExists
	}
	p := consensusresult.NewMetaMerkleProof(slot, leaf, proof, creator, expiry)
	e.metaMerkleProofs[key] = p
	return p, nil
}

// CloseMetaMerkleProof removes a proof envelope, if caller is authorized
// (its creator, or anyone after expiry).
func (e *Engine) CloseMetaMerkleProof(slot uint64, voteAccount ids.NodeID, caller ids.NodeID, now int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	key := metaMerkleProofKey{slot: slot, vote: voteAccount}
	p, ok := e.metaMerkleProofs[key]
	if !ok {
		return ErrMetaMerkleProofNotFound
	}
	if err := p.Close(caller, now); err != nil {
		return err
	}
	delete(e.metaMerkleProofs, key)
	return nil
}

// VerifyMode selects verify_merkle_proof's mode (spec §4.6, §9 "dynamic
// dispatch ... as an explicit tagged variant").
type VerifyMode int

const (
	// VerifyVoteAccount checks only the top-tier meta-merkle proof.
	VerifyVoteAccount VerifyMode = iota
	// VerifyStakeAccount additionally checks the bottom-tier stake proof.
	VerifyStakeAccount
)

// VerifyMerkleProofArgs is the tagged-variant instruction argument for
// verify_merkle_proof.
type VerifyMerkleProofArgs struct {
	SnapshotSlot uint64
	VoteAccount  ids.NodeID
	Mode         VerifyMode
	StakeLeaf    snapshot.StakeMerkleLeaf // only used when Mode == VerifyStakeAccount
	StakeProof   []merkle.Root            // only used when Mode == VerifyStakeAccount
}

// VerifyMerkleProofResult carries whichever fields the requested mode
// reveals; the unused half is the zero value.
type VerifyMerkleProofResult struct {
	VoteAccountResult  verify.VoteAccountResult
	StakeAccountResult verify.StakeAccountResult
}

// VerifyMerkleProof answers "is account X included in the snapshot
// committed by the ConsensusResult for args.SnapshotSlot?" (spec §4.6). It
// is a read-only call: no state mutation, no audit log line, only a
// metrics increment labeled by outcome.
func (e *Engine) VerifyMerkleProof(args VerifyMerkleProofArgs) (VerifyMerkleProofResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	result, ok := e.consensusResults[args.SnapshotSlot]
	if !ok {
		e.metrics.ProofsVerified.WithLabelValues("not_found").Inc()
		return VerifyMerkleProofResult{}, ErrConsensusResultNotFound
	}
	proof, ok := e.metaMerkleProofs[metaMerkleProofKey{slot: args.SnapshotSlot, vote: args.VoteAccount}]
	if !ok {
		e.metrics.ProofsVerified.WithLabelValues("not_found").Inc()
		return VerifyMerkleProofResult{}, ErrMetaMerkleProofNotFound
	}

	switch args.Mode {
	case VerifyStakeAccount:
		stakeResult, err := verify.StakeAccount(result, proof, args.StakeLeaf, args.StakeProof)
		if err != nil {
			e.metrics.ProofsVerified.WithLabelValues("invalid").Inc()
			return VerifyMerkleProofResult{}, err
		}
		e.metrics.ProofsVerified.WithLabelValues("ok").Inc()
		return VerifyMerkleProofResult{StakeAccountResult: stakeResult}, nil
	default:
		voteResult, err := verify.VoteAccount(result, proof)
		if err != nil {
			e.metrics.ProofsVerified.WithLabelValues("invalid").Inc()
			return VerifyMerkleProofResult{}, err
		}
		e.metrics.ProofsVerified.WithLabelValues("ok").Inc()
		return VerifyMerkleProofResult{VoteAccountResult: voteResult}, nil
	}
}

// BallotBox returns the ballot box for slot, for read-only inspection by
// callers such as cmd/ballotctl.
func (e *Engine) BallotBox(slot uint64) (*ballotbox.BallotBox, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	box, ok := e.ballotBoxes[slot]
	return box, ok
}

// ConsensusResult returns the minted result for slot, if any.
func (e *Engine) ConsensusResult(slot uint64) (*consensusresult.Result, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.consensusResults[slot]
	return r, ok
}

// ProgramConfig returns the current singleton config, if initialized.
func (e *Engine) ProgramConfig() (*config.ProgramConfig, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.config.Get()
}

// The methods below exist solely so cmd/ballotctl (or any other local
// store) can persist and rehydrate engine state via the codec package
// (spec §4.11); nothing in the instruction surface above uses them.

// DumpConfig returns a deep copy of the program config, if any.
func (e *Engine) DumpConfig() (*config.ProgramConfig, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.config.Snapshot()
}

// RestoreConfig replaces the engine's program config wholesale.
func (e *Engine) RestoreConfig(cfg *config.ProgramConfig) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.config.Restore(cfg)
}

// DumpBallotBoxes returns a serializable snapshot of every ballot box.
func (e *Engine) DumpBallotBoxes() map[uint64]ballotbox.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[uint64]ballotbox.State, len(e.ballotBoxes))
	for slot, box := range e.ballotBoxes {
		out[slot] = box.Snapshot()
	}
	return out
}

// RestoreBallotBoxes replaces the engine's ballot box map from states.
func (e *Engine) RestoreBallotBoxes(states map[uint64]ballotbox.State) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ballotBoxes = make(map[uint64]*ballotbox.BallotBox, len(states))
	for slot, s := range states {
		e.ballotBoxes[slot] = ballotbox.Restore(s)
	}
}

// DumpConsensusResults returns a copy of every minted consensus result.
func (e *Engine) DumpConsensusResults() map[uint64]consensusresult.Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[uint64]consensusresult.Result, len(e.consensusResults))
	for slot, r := range e.consensusResults {
		out[slot] = *r
	}
	return out
}

// RestoreConsensusResults replaces the engine's consensus result map.
func (e *Engine) RestoreConsensusResults(results map[uint64]consensusresult.Result) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.consensusResults = make(map[uint64]*consensusresult.Result, len(results))
	for slot, r := range results {
		r := r
		e.consensusResults[slot] = &r
	}
}
