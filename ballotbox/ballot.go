package ballotbox

import "github.com/exo-tech-xyz/gov-v1/merkle"

// Ballot is the pair being voted on: a meta-merkle root and the snapshot
// content hash it pins (spec §3). Ballots are compared by byte-wise
// equality of the concatenation — which, since both fields are fixed-size
// arrays, is exactly Go's built-in struct equality.
type Ballot struct {
	MetaMerkleRoot merkle.Root
	SnapshotHash   merkle.Root
}
