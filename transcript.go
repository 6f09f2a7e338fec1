package triptych

import (
	"io"

	"github.com/takakv/triptych/fssigma"
	"github.com/takakv/triptych/ristretto"
)

// proofTranscript wraps a raw fssigma.Transcript with the sequencing a
// Triptych proof needs: binding the statement up front, deriving a fresh
// transcript-bound RNG after every phase, and producing the Fiat-Shamir
// challenge powers used throughout both proving and verification.
//
// Grounded on original_source/src/parallel/transcript.rs's ProofTranscript
// (the base, non-parallel transcript.rs was not present in the retrieval
// pack), with the X1/z1 parallel-specific plumbing removed.
type proofTranscript struct {
	t           *fssigma.Transcript
	witness     *Witness
	rng         *fssigma.DeterministicRNG
	externalRNG io.Reader
}

func newProofTranscript(t *fssigma.Transcript, statement *Statement, externalRNG io.Reader, witness *Witness) *proofTranscript {
	t.Append("dom-sep", []byte(transcriptProof))
	t.AppendU64("version", version)
	h := statement.Hash()
	t.Append("statement", h[:])

	pt := &proofTranscript{t: t, witness: witness, externalRNG: externalRNG}
	pt.rng = pt.buildRNG()
	return pt
}

func (pt *proofTranscript) buildRNG() *fssigma.DeterministicRNG {
	builder := pt.t.BuildRNG()
	if pt.witness != nil {
		var lBytes [4]byte
		littleEndianPutUint32(lBytes[:], pt.witness.L())
		builder.RekeyWithWitnessBytes("l", lBytes[:])
		rBytes := pt.witness.R().Bytes()
		builder.RekeyWithWitnessBytes("r", rBytes[:])
	}
	return builder.Finalize(pt.externalRNG)
}

// asMutRNG returns the transcript's current derived RNG.
func (pt *proofTranscript) asMutRNG() *fssigma.DeterministicRNG {
	return pt.rng
}

// commit runs the Fiat-Shamir commitment phase: it absorbs the proof's
// first four matrix commitments and the X/Y vectors, rebuilds the
// transcript RNG, then squeezes a wide challenge and returns its first
// m+1 powers. It rejects with ErrInvalidChallenge if any power is zero.
func (pt *proofTranscript) commit(params *Parameters, a, b, c, d ristretto.Point, x, y []ristretto.Point) ([]ristretto.Scalar, error) {
	ab := a.Bytes()
	pt.t.Append("A", ab[:])
	bb := b.Bytes()
	pt.t.Append("B", bb[:])
	cb := c.Bytes()
	pt.t.Append("C", cb[:])
	db := d.Bytes()
	pt.t.Append("D", db[:])
	for _, xi := range x {
		xb := xi.Bytes()
		pt.t.Append("X", xb[:])
	}
	for _, yi := range y {
		yb := yi.Bytes()
		pt.t.Append("Y", yb[:])
	}

	pt.rng = pt.buildRNG()

	xiBytes := pt.t.ChallengeBytes64("xi")
	var xi ristretto.Scalar
	xi.SetWideBytes(xiBytes)

	m := int(params.M())
	powers := make([]ristretto.Scalar, m+1)
	power := ristretto.ScalarFromUint64(1)
	for i := 0; i <= m; i++ {
		if power.IsZero() {
			return nil, invalidChallenge()
		}
		powers[i] = power
		var next ristretto.Scalar
		next.Mul(power, xi)
		power = next
	}
	return powers, nil
}

// response runs the Fiat-Shamir response phase: it absorbs the proof's
// f matrix and z_A, z_C, z responses, rebuilds the transcript RNG, and
// returns it. The returned RNG is what the batch verifier seeds its
// per-proof weight contribution from.
func (pt *proofTranscript) response(f [][]ristretto.Scalar, zA, zC, z ristretto.Scalar) *fssigma.DeterministicRNG {
	for _, row := range f {
		for _, v := range row {
			b := v.Bytes()
			pt.t.Append("f", b[:])
		}
	}
	zab := zA.Bytes()
	pt.t.Append("z_A", zab[:])
	zcb := zC.Bytes()
	pt.t.Append("z_C", zcb[:])
	zb := z.Bytes()
	pt.t.Append("z", zb[:])

	pt.rng = pt.buildRNG()
	return pt.rng
}

func littleEndianPutUint32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}
