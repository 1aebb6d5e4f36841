// Command ballotctl exercises the gov-v1 instruction surface against a
// local, file-persisted engine — the local-integration-testing mode spec
// §4.7 carves out, with the gate disabled so any caller may invoke
// init_ballot_box directly.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/luxfi/ids"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/exo-tech-xyz/gov-v1/ballotbox"
	"github.com/exo-tech-xyz/gov-v1/config"
	"github.com/exo-tech-xyz/gov-v1/engine"
	"github.com/exo-tech-xyz/gov-v1/gate"
	"github.com/exo-tech-xyz/gov-v1/log"
	"github.com/exo-tech-xyz/gov-v1/merkle"
	"github.com/exo-tech-xyz/gov-v1/metrics"
)

func main() {
	statePath := flag.String("state", "ballotctl.state", "path to the local engine state file")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: ballotctl [-state path] <command> [args]")
		fmt.Fprintln(os.Stderr, "commands: init-config | whitelist-add <nodeid>... | vote <slot> <operator> <ballot-tag> | finalize <slot> | tie-break <slot> <ballot-tag> | reset <slot> | status <slot>")
		os.Exit(2)
	}

	m, err := metrics.New(prometheus.NewRegistry())
	if err != nil {
		fmt.Fprintln(os.Stderr, "metrics init:", err)
		os.Exit(1)
	}
	e := engine.New(gate.TestGate{}, log.NewNoOp(), m)
	if err := loadEngine(*statePath, e); err != nil {
		fmt.Fprintln(os.Stderr, "load state:", err)
		os.Exit(1)
	}

	if err := dispatch(e, flag.Arg(0), flag.Args()[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	if err := persistEngine(*statePath, e); err != nil {
		fmt.Fprintln(os.Stderr, "save state:", err)
		os.Exit(1)
	}
}

func dispatch(e *engine.Engine, cmd string, args []string) error {
	switch cmd {
	case "init-config":
		return cmdInitConfig(e)
	case "whitelist-add":
		return cmdWhitelistAdd(e, args)
	case "vote":
		return cmdVote(e, args)
	case "finalize":
		return cmdFinalize(e, args)
	case "tie-break":
		return cmdTieBreak(e, args)
	case "reset":
		return cmdReset(e, args)
	case "status":
		return cmdStatus(e, args)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// deployerSeed is a fixed local identity standing in for the chain
// deployer account in this single-operator CLI demo.
var deployerSeed = ids.NodeID{0: 1}

func cmdInitConfig(e *engine.Engine) error {
	cfg, err := e.InitProgramConfig(deployerSeed, 0)
	if err != nil {
		return err
	}
	bps := uint16(6000)
	duration := int64(3600)
	if err := e.UpdateProgramConfig(deployerSeed, config.UpdateParams{Bps: &bps, VoteDurationSecs: &duration}); err != nil {
		return err
	}
	fmt.Printf("config initialized: authority=%s bps=%d duration=%ds\n", cfg.Authority, bps, duration)
	return nil
}

func cmdWhitelistAdd(e *engine.Engine, args []string) error {
	var add []ids.NodeID
	for _, tag := range args {
		add = append(add, nodeIDFromTag(tag))
	}
	if err := e.UpdateOperatorWhitelist(deployerSeed, add, nil); err != nil {
		return err
	}
	fmt.Printf("whitelisted %d operator(s)\n", len(add))
	return nil
}

func cmdVote(e *engine.Engine, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: vote <slot> <operator> <ballot-tag>")
	}
	slot, err := parseSlot(args[0])
	if err != nil {
		return err
	}
	operator := nodeIDFromTag(args[1])
	ballot := ballotFromTag(args[2])

	if _, ok := e.BallotBox(slot); !ok {
		// This CLI has no chain-slot tracker, so the current slot is
		// treated as slot-1 — just enough to satisfy the
		// strictly-greater-than-current-slot precondition for ad hoc
		// local testing.
		currentSlot := uint64(0)
		if slot > 0 {
			currentSlot = slot - 1
		}
		if _, err := e.InitBallotBox(gate.CallContext{}, slot, currentSlot, time.Now().Unix()); err != nil {
			return err
		}
	}
	if err := e.CastVote(slot, operator, ballot); err != nil {
		return err
	}
	fmt.Printf("vote recorded: slot=%d operator=%s\n", slot, operator)
	return nil
}

func cmdFinalize(e *engine.Engine, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: finalize <slot>")
	}
	slot, err := parseSlot(args[0])
	if err != nil {
		return err
	}
	result, err := e.FinalizeBallot(slot, time.Now().Unix())
	if err != nil {
		return err
	}
	fmt.Printf("finalized: slot=%d meta_merkle_root=%x\n", slot, result.MetaMerkleRoot)
	return nil
}

func cmdTieBreak(e *engine.Engine, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: tie-break <slot> <ballot-tag>")
	}
	slot, err := parseSlot(args[0])
	if err != nil {
		return err
	}
	cfg, ok := e.ProgramConfig()
	if !ok {
		return fmt.Errorf("config not initialized")
	}
	if err := e.SetTieBreaker(cfg.TieBreakerAdmin, slot, ballotFromTag(args[1]), time.Now().Unix()); err != nil {
		return err
	}
	fmt.Printf("tie-break set: slot=%d\n", slot)
	return nil
}

func cmdReset(e *engine.Engine, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: reset <slot>")
	}
	slot, err := parseSlot(args[0])
	if err != nil {
		return err
	}
	cfg, ok := e.ProgramConfig()
	if !ok {
		return fmt.Errorf("config not initialized")
	}
	if err := e.ResetBallotBox(cfg.TieBreakerAdmin, slot, time.Now().Unix()); err != nil {
		return err
	}
	fmt.Printf("ballot box reset: slot=%d\n", slot)
	return nil
}

func cmdStatus(e *engine.Engine, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: status <slot>")
	}
	slot, err := parseSlot(args[0])
	if err != nil {
		return err
	}
	box, ok := e.BallotBox(slot)
	if !ok {
		return fmt.Errorf("no ballot box for slot %d", slot)
	}
	fmt.Printf("slot=%d ballots=%d votes=%d finalized=%v winning=%v\n",
		slot, box.BallotCount(), box.TotalVotes(), box.IsFinalized, box.WinningBallot != nil)
	return nil
}

// nodeIDFromTag derives a deterministic test identity from a short string
// tag, so the CLI's positional args stay human-typeable instead of
// requiring real base58-encoded keys.
func nodeIDFromTag(tag string) ids.NodeID {
	var id ids.NodeID
	copy(id[:], tag)
	return id
}

// ballotFromTag derives a deterministic ballot from a short string tag.
func ballotFromTag(tag string) ballotbox.Ballot {
	var root merkle.Root
	copy(root[:], tag)
	return ballotbox.Ballot{MetaMerkleRoot: root, SnapshotHash: root}
}

func parseSlot(s string) (uint64, error) {
	var slot uint64
	_, err := fmt.Sscanf(s, "%d", &slot)
	return slot, err
}
