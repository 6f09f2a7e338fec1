package parallel

import (
	"io"

	"github.com/takakv/triptych/fssigma"
	"github.com/takakv/triptych/ristretto"
)

// proofTranscript is triptych's proofTranscript with the X1/z1 additions
// the dual-key relation needs. Grounded directly on
// original_source/src/parallel/transcript.rs's ProofTranscript, which is
// the non-parallel base transcript wrapper plus exactly these additions.
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
		r1Bytes := pt.witness.R1().Bytes()
		builder.RekeyWithWitnessBytes("r1", r1Bytes[:])
	}
	return builder.Finalize(pt.externalRNG)
}

func (pt *proofTranscript) asMutRNG() *fssigma.DeterministicRNG {
	return pt.rng
}

// commit absorbs A, B, C, D, X, X1, Y (in that order, matching the
// reference transcript's field order) and returns the first m+1 powers of
// the derived challenge.
func (pt *proofTranscript) commit(params *Parameters, a, b, c, d ristretto.Point, x, x1, y []ristretto.Point) ([]ristretto.Scalar, error) {
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
	for _, x1i := range x1 {
		x1b := x1i.Bytes()
		pt.t.Append("X1", x1b[:])
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

// response absorbs the proof's f matrix and z_A, z_C, z, z1 responses and
// returns the transcript RNG the batch verifier seeds its per-proof weight
// contribution from.
func (pt *proofTranscript) response(f [][]ristretto.Scalar, zA, zC, z, z1 ristretto.Scalar) *fssigma.DeterministicRNG {
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
	z1b := z1.Bytes()
	pt.t.Append("z1", z1b[:])

	pt.rng = pt.buildRNG()
	return pt.rng
}

func littleEndianPutUint32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}
