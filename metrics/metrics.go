// Package metrics defines the Prometheus counters the engine updates on
// every state transition that matters for operators to audit (spec §4.10):
// votes cast, ballots finalized, tie-breaks invoked, ballot boxes reset,
// and proofs verified (labeled by result).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the counters the engine increments. All are registered
// against the supplied prometheus.Registerer at construction time, the
// same pattern the teacher's metrics.Metrics uses for its registry handle.
type Metrics struct {
	VotesCast        prometheus.Counter
	BallotsFinalized prometheus.Counter
	TieBreaks        prometheus.Counter
	BallotBoxResets  prometheus.Counter
	ProofsVerified   *prometheus.CounterVec
}

// New registers and returns the engine's metric set. reg may be
// prometheus.NewRegistry() for tests or prometheus.DefaultRegisterer in
// production.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		VotesCast: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gov_votes_cast_total",
			Help: "Total number of cast_vote calls that succeeded.",
		}),
		BallotsFinalized: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gov_ballots_finalized_total",
			Help: "Total number of ballot boxes finalized.",
		}),
		TieBreaks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gov_tie_breaks_total",
			Help: "Total number of set_tie_breaker calls that succeeded.",
		}),
		BallotBoxResets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gov_ballot_box_resets_total",
			Help: "Total number of reset_ballot_box calls that succeeded.",
		}),
		ProofsVerified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gov_proofs_verified_total",
			Help: "Total number of verify_merkle_proof calls, labeled by result.",
		}, []string{"result"}),
	}

	for _, c := range []prometheus.Collector{m.VotesCast, m.BallotsFinalized, m.TieBreaks, m.BallotBoxResets, m.ProofsVerified} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
