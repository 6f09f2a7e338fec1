// Package parallel implements the dual-key extension of Triptych: besides
// the usual verification key vector M and linking tag J, each ring member
// also carries an auxiliary verification key in a second vector M1, offset
// by a shared point. A single proof simultaneously establishes ring
// membership, linkability, and knowledge of the auxiliary key behind the
// same index — one witness, one index, two keys, proved together instead
// of as two separate ring signatures.
package parallel

const (
	version = 0

	transcriptParameters = "Parallel Triptych parameters"
	pointG1              = "Triptych G1"
	pointU               = "Triptych U"
	pointCommitmentG     = "Triptych CommitmentG"
	pointCommitmentH     = "Triptych CommitmentH"

	transcriptInputSet  = "Parallel Triptych input set"
	transcriptStatement = "Parallel Triptych statement"

	transcriptProof           = "Parallel Triptych proof"
	transcriptVerifierWeights = "Parallel Triptych verifier weights"
)

// checkedPow computes n^m, reporting overflow past uint32's range. Kept as
// its own tiny unexported copy in this package rather than exported from
// the root package, the same call this module made for triptych.checkedPow.
func checkedPow(n, m uint32) (result uint32, overflow bool) {
	acc := uint64(1)
	base := uint64(n)
	for i := uint32(0); i < m; i++ {
		acc *= base
		if acc > 0xFFFFFFFF {
			return 0, true
		}
	}
	return uint32(acc), false
}
