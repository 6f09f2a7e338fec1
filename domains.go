package triptych

// Domain separation tags. These strings are byte-exact and must never
// change: every transcript operation and every generator derivation in
// this package is keyed off one of them. triptych/parallel keeps its own
// copies, with "Parallel Triptych" transcript tags.
const (
	version = 0

	transcriptParameters = "Triptych parameters"
	pointG1              = "Triptych G1"
	pointU               = "Triptych U"
	pointCommitmentG     = "Triptych CommitmentG"
	pointCommitmentH     = "Triptych CommitmentH"

	transcriptInputSet  = "Triptych input set"
	transcriptStatement = "Triptych statement"

	transcriptProof           = "Triptych proof"
	transcriptVerifierWeights = "Triptych verifier weights"
)
