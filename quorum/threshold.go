// Package quorum computes the basis-points consensus threshold used by the
// ballot box (spec §3/§4.4), adapted from the teacher's quorum.Static
// "count vs. threshold" check — generalized from a threshold fixed at
// construction to one derived from (total, bps) at call time, since the
// ballot box freezes bps per-box rather than per-instance.
package quorum

// Threshold returns ceil(total * bps / 10000), the minimum tally a ballot
// must reach to win consensus out of a voter list of size total, at
// min_consensus_threshold_bps == bps. bps is expected in [0, 10000].
func Threshold(total int, bps uint16) int {
	if total <= 0 {
		return 0
	}
	numerator := total * int(bps)
	threshold := numerator / 10000
	if numerator%10000 != 0 {
		threshold++
	}
	return threshold
}

// Achieved reports whether count has reached the threshold implied by
// (total, bps).
func Achieved(count, total int, bps uint16) bool {
	return count >= Threshold(total, bps)
}
