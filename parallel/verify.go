package parallel

import (
	"github.com/takakv/triptych/fssigma"
	"github.com/takakv/triptych/gray"
	"github.com/takakv/triptych/ristretto"
)

// Verify checks a single proof against a statement and transcript. It is
// implemented as a batch of one.
func Verify(statement *Statement, proof *Proof, transcript *fssigma.Transcript) error {
	return VerifyBatch([]*Statement{statement}, []*Proof{proof}, []*fssigma.Transcript{transcript})
}

// VerifyBatch checks a batch of proofs, each against its own statement and
// transcript, using a single aggregated multi-scalar multiplication. Every
// statement in the batch must share the same input set, offset, and
// parameters. An empty batch is rejected.
//
// Verification always runs in variable time: it never handles secret data,
// and a constant-time implementation would only slow down the one consumer
// who always benefits from speed.
func VerifyBatch(statements []*Statement, proofs []*Proof, transcripts []*fssigma.Transcript) error {
	if len(statements) != len(proofs) || len(statements) != len(transcripts) {
		return invalidParameter("statements, proofs, and transcripts must have equal length")
	}
	if len(statements) == 0 {
		return invalidParameter("batch must not be empty")
	}

	first := statements[0]
	for _, s := range statements {
		if s.InputSet().Hash() != first.InputSet().Hash() {
			return invalidParameter("all statements in a batch must share an input set")
		}
		if s.Params().Hash() != first.Params().Hash() {
			return invalidParameter("all statements in a batch must share parameters")
		}
		if !s.Offset().Equal(first.Offset()) {
			return invalidParameter("all statements in a batch must share an offset")
		}
	}

	params := first.Params()
	keys := first.InputSet().Keys()
	auxKeys := first.InputSet().AuxiliaryKeys()
	offset := first.Offset()
	n, m := params.NBase(), params.M()

	offsetAux := make([]ristretto.Point, len(auxKeys))
	for k, ak := range auxKeys {
		offsetAux[k].Sub(ak, offset)
	}

	for _, proof := range proofs {
		if uint32(len(proof.X)) != m || uint32(len(proof.X1)) != m || uint32(len(proof.Y)) != m || uint32(len(proof.F)) != m {
			return invalidParameter("proof dimensions do not match parameters")
		}
		for _, row := range proof.F {
			if uint32(len(row)) != n-1 {
				return invalidParameter("proof f-row dimension does not match parameters")
			}
		}
	}

	points := make([]ristretto.Point, 0)
	for i, proof := range proofs {
		points = append(points, proof.A, proof.B, proof.C, proof.D, statements[i].J())
		points = append(points, proof.X...)
		points = append(points, proof.X1...)
		points = append(points, proof.Y...)
	}
	points = append(points, params.G())
	points = append(points, params.G1())
	points = append(points, params.commitmentG...)
	points = append(points, params.commitmentH)
	points = append(points, keys...)
	points = append(points, offsetAux...)
	points = append(points, params.U())

	scalars := make([]ristretto.Scalar, 0, len(points))

	gScalar := ristretto.NewScalar()
	g1Scalar := ristretto.NewScalar()
	commitmentGScalars := make([]ristretto.Scalar, len(params.commitmentG))
	for i := range commitmentGScalars {
		commitmentGScalars[i] = ristretto.NewScalar()
	}
	commitmentHScalar := ristretto.NewScalar()
	mScalars := make([]ristretto.Scalar, len(keys))
	for i := range mScalars {
		mScalars[i] = ristretto.NewScalar()
	}
	m1Scalars := make([]ristretto.Scalar, len(offsetAux))
	for i := range m1Scalars {
		m1Scalars[i] = ristretto.NewScalar()
	}
	uScalar := ristretto.NewScalar()

	weightsTranscript := fssigma.New(transcriptVerifierWeights)

	xiPowersAll := make([][]ristretto.Scalar, len(proofs))
	for i, proof := range proofs {
		pt := newProofTranscript(transcripts[i], statements[i], fssigma.NullRNG, nil)
		powers, err := pt.commit(params, proof.A, proof.B, proof.C, proof.D, proof.X, proof.X1, proof.Y)
		if err != nil {
			return err
		}
		xiPowersAll[i] = powers

		proofRNG := pt.response(proof.F, proof.ZA, proof.ZC, proof.Z, proof.Z1)
		weightsTranscript.AppendU64("proof", proofRNG.Uint64())
	}

	weightsRNG := weightsTranscript.BuildRNG().Finalize(fssigma.NullRNG)

	for idx, proof := range proofs {
		xiPowers := xiPowersAll[idx]
		xi := xiPowers[1]

		f := make([][]ristretto.Scalar, m)
		for jRow := range f {
			sum := ristretto.NewScalar()
			for _, v := range proof.F[jRow] {
				sum.Add(sum, v)
			}
			var f0 ristretto.Scalar
			f0.Sub(xi, sum)

			row := make([]ristretto.Scalar, n)
			row[0] = f0
			copy(row[1:], proof.F[jRow])
			f[jRow] = row
		}
		for _, row := range f {
			for _, v := range row {
				if v.IsZero() {
					return invalidParameter("reconstructed f contains a zero entry")
				}
			}
		}

		var w1, w2, w3, w4, w5 ristretto.Scalar
		for {
			w1 = ristretto.RandomScalarUniform(weightsRNG)
			w2 = ristretto.RandomScalarUniform(weightsRNG)
			w3 = ristretto.RandomScalarUniform(weightsRNG)
			w4 = ristretto.RandomScalarUniform(weightsRNG)
			w5 = ristretto.RandomScalarUniform(weightsRNG)
			if !w1.IsZero() && !w2.IsZero() && !w3.IsZero() && !w4.IsZero() && !w5.IsZero() {
				break
			}
		}

		var w3z ristretto.Scalar
		w3z.Mul(w3, proof.Z)
		gScalar.Sub(gScalar, w3z)

		var w5z1 ristretto.Scalar
		w5z1.Mul(w5, proof.Z1)
		g1Scalar.Sub(g1Scalar, w5z1)

		flatIdx := 0
		for jRow := range f {
			for i := range f[jRow] {
				fi := f[jRow][i]
				var w1f, diff, w2fDiff, term ristretto.Scalar
				w1f.Mul(w1, fi)
				diff.Sub(xi, fi)
				w2fDiff.Mul(w2, fi)
				w2fDiff.Mul(w2fDiff, diff)
				term.Add(w1f, w2fDiff)
				commitmentGScalars[flatIdx].Add(commitmentGScalars[flatIdx], term)
				flatIdx++
			}
		}

		var w1zA, w2zC ristretto.Scalar
		w1zA.Mul(w1, proof.ZA)
		w2zC.Mul(w2, proof.ZC)
		commitmentHScalar.Add(commitmentHScalar, w1zA)
		commitmentHScalar.Add(commitmentHScalar, w2zC)

		var negW1, negW1Xi, negW2Xi, negW2, negW4Z ristretto.Scalar
		negW1.Negate(w1)
		negW1Xi.Mul(w1, xi)
		negW1Xi.Negate(negW1Xi)
		negW2Xi.Mul(w2, xi)
		negW2Xi.Negate(negW2Xi)
		negW2.Negate(w2)
		negW4Z.Mul(w4, proof.Z)
		negW4Z.Negate(negW4Z)
		scalars = append(scalars, negW1, negW1Xi, negW2Xi, negW2, negW4Z)

		for k := 0; k < int(m); k++ {
			var s ristretto.Scalar
			s.Mul(w3, xiPowers[k])
			s.Negate(s)
			scalars = append(scalars, s)
		}
		for k := 0; k < int(m); k++ {
			var s ristretto.Scalar
			s.Mul(w5, xiPowers[k])
			s.Negate(s)
			scalars = append(scalars, s)
		}
		for k := 0; k < int(m); k++ {
			var s ristretto.Scalar
			s.Mul(w4, xiPowers[k])
			s.Negate(s)
			scalars = append(scalars, s)
		}

		fProduct := ristretto.ScalarFromUint64(1)
		for jRow := range f {
			fProduct.Mul(fProduct, f[jRow][0])
		}

		grayIt, err := gray.NewIterator(n, m)
		if err != nil {
			return invalidParameter("failed to build Gray iterator")
		}

		flatF := make([]ristretto.Scalar, 0, int(m*n))
		for _, row := range f {
			flatF = append(flatF, row...)
		}
		flatFInverse := append([]ristretto.Scalar(nil), flatF...)
		if zeroIdx := ristretto.BatchInvert(flatFInverse); len(zeroIdx) != 0 {
			return invalidParameter("f contains a non-invertible entry")
		}

		uScalarProof := ristretto.NewScalar()
		total := first.InputSet().Len()
		for k := 0; k < total; k++ {
			step, ok := grayIt.Next()
			if !ok {
				return invalidParameter("Gray iterator exhausted before input set")
			}
			oldInv := flatFInverse[int(n)*step.Index+int(step.Old)]
			newVal := f[step.Index][step.New]
			fProduct.Mul(fProduct, oldInv)
			fProduct.Mul(fProduct, newVal)

			var w3fp ristretto.Scalar
			w3fp.Mul(w3, fProduct)
			mScalars[k].Add(mScalars[k], w3fp)

			var w5fp ristretto.Scalar
			w5fp.Mul(w5, fProduct)
			m1Scalars[k].Add(m1Scalars[k], w5fp)

			uScalarProof.Add(uScalarProof, fProduct)
		}

		var w4u ristretto.Scalar
		w4u.Mul(w4, uScalarProof)
		uScalar.Add(uScalar, w4u)
	}

	scalars = append(scalars, gScalar)
	scalars = append(scalars, g1Scalar)
	scalars = append(scalars, commitmentGScalars...)
	scalars = append(scalars, commitmentHScalar)
	scalars = append(scalars, mScalars...)
	scalars = append(scalars, m1Scalars...)
	scalars = append(scalars, uScalar)

	result := ristretto.MSMVartime(scalars, points)
	if !result.IsIdentity() {
		return failedVerification()
	}
	return nil
}
