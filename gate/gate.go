// Package gate implements the external-caller check guarding
// init_ballot_box (spec §4.7): production requires a cross-program call
// from a designated orchestrator program; local integration testing
// disables the check entirely.
package gate

import "errors"

// ErrNotCPI is returned when the caller did not invoke through a
// cross-program call.
var ErrNotCPI = errors.New("gate: caller is not a cross-program invocation")

// ErrWrongOrchestrator is returned when the proposal account is not owned
// by the configured orchestrator program.
var ErrWrongOrchestrator = errors.New("gate: proposal account not owned by orchestrator")

// CallContext describes the properties of the invocation a Gate checks.
// ProposalOwner is the program ID that owns the proposal account supplied
// with the call.
type CallContext struct {
	IsCPI         bool
	ProposalOwner [32]byte
}

// Gate authorizes init_ballot_box invocations.
type Gate interface {
	Authorize(ctx CallContext) error
}

// ProductionGate enforces that the invocation is a cross-program call
// originating from OrchestratorProgramID.
type ProductionGate struct {
	OrchestratorProgramID [32]byte
}

// NewProductionGate returns a Gate enforcing invocation from orchestrator.
func NewProductionGate(orchestrator [32]byte) *ProductionGate {
	return &ProductionGate{OrchestratorProgramID: orchestrator}
}

// Authorize implements Gate.
func (g *ProductionGate) Authorize(ctx CallContext) error {
	if !ctx.IsCPI {
		return ErrNotCPI
	}
	if ctx.ProposalOwner != g.OrchestratorProgramID {
		return ErrWrongOrchestrator
	}
	return nil
}

// TestGate always authorizes, the constructor-time switch used for local
// integration testing in place of cross-compiled test builds.
type TestGate struct{}

// Authorize implements Gate.
func (TestGate) Authorize(CallContext) error {
	return nil
}
