package triptych

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/takakv/triptych/fssigma"
	"github.com/takakv/triptych/ristretto"
)

func setupRing(t *testing.T, n, m uint32, index uint32) (*Parameters, *InputSet, *Witness, *Statement) {
	return setupRingSeeded(t, n, m, index, 8675309)
}

func setupRingSeeded(t *testing.T, n, m uint32, index uint32, seed uint64) (*Parameters, *InputSet, *Witness, *Statement) {
	t.Helper()
	params, err := NewParameters(n, m)
	require.NoError(t, err)

	rng := fssigma.NewDeterministicRNG(seed)
	size := int(params.N())
	keys := make([]ristretto.Point, size)
	var witness *Witness
	for i := range keys {
		if uint32(i) == index {
			r := ristretto.RandomScalar(rng)
			w, err := NewWitness(params, index, r)
			require.NoError(t, err)
			witness = w
			keys[i] = w.ComputeVerificationKey()
			continue
		}
		keys[i].MulGen(ristretto.RandomScalar(rng))
	}

	inputSet := NewInputSet(keys)
	statement, err := NewStatement(params, inputSet, witness.ComputeLinkingTag())
	require.NoError(t, err)
	return params, inputSet, witness, statement
}

func TestProveVerifyCompleteness(t *testing.T) {
	for _, tc := range []struct{ n, m, l uint32 }{
		{2, 2, 0},
		{2, 3, 5},
		{3, 2, 7},
		{4, 2, 0},
	} {
		_, _, witness, statement := setupRing(t, tc.n, tc.m, tc.l)
		rng := fssigma.NewDeterministicRNG(42)

		proof, err := ProveWithRNG(witness, statement, rng, fssigma.New("test"))
		require.NoError(t, err)
		require.NoError(t, Verify(statement, proof, fssigma.New("test")))
	}
}

func TestProveVerifyCompletenessVartime(t *testing.T) {
	_, _, witness, statement := setupRing(t, 3, 3, 11)
	rng := fssigma.NewDeterministicRNG(7)

	proof, err := ProveWithRNGVartime(witness, statement, rng, fssigma.New("test"))
	require.NoError(t, err)
	require.NoError(t, Verify(statement, proof, fssigma.New("test")))
}

func freshProof(t *testing.T) (*Statement, *Proof) {
	t.Helper()
	_, _, witness, statement := setupRing(t, 3, 2, 4)
	rng := fssigma.NewDeterministicRNG(123)
	proof, err := ProveWithRNG(witness, statement, rng, fssigma.New("test"))
	require.NoError(t, err)
	return statement, proof
}

func TestVerifyRejectsTamperedProof(t *testing.T) {
	mutations := map[string]func(*Proof){
		"A":      func(p *Proof) { p.A.Add(p.A, ristretto.Generator()) },
		"B":      func(p *Proof) { p.B.Add(p.B, ristretto.Generator()) },
		"C":      func(p *Proof) { p.C.Add(p.C, ristretto.Generator()) },
		"D":      func(p *Proof) { p.D.Add(p.D, ristretto.Generator()) },
		"X0":     func(p *Proof) { p.X[0].Add(p.X[0], ristretto.Generator()) },
		"Y0":     func(p *Proof) { p.Y[0].Add(p.Y[0], ristretto.Generator()) },
		"ZA":     func(p *Proof) { p.ZA.Add(p.ZA, ristretto.ScalarFromUint64(1)) },
		"ZC":     func(p *Proof) { p.ZC.Add(p.ZC, ristretto.ScalarFromUint64(1)) },
		"Z":      func(p *Proof) { p.Z.Add(p.Z, ristretto.ScalarFromUint64(1)) },
		"F[0,0]": func(p *Proof) { p.F[0][0].Add(p.F[0][0], ristretto.ScalarFromUint64(1)) },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			statement, proof := freshProof(t)
			mutate(proof)
			require.Error(t, Verify(statement, proof, fssigma.New("test")))
		})
	}
}

func TestVerifyRejectsWrongStatement(t *testing.T) {
	statement, proof := freshProof(t)
	_, _, _, otherStatement := setupRingSeeded(t, 3, 2, 1, 314159)
	require.False(t, otherStatement.InputSet().Equal(statement.InputSet()),
		"expected distinct input sets for this negative test")
	require.Error(t, Verify(otherStatement, proof, fssigma.New("test")))
}

func TestLinkingTagIsStableAcrossProofs(t *testing.T) {
	params, inputSet, witness, statement1 := setupRing(t, 3, 2, 2)
	j1 := statement1.J()

	statement2, err := NewStatement(params, inputSet, witness.ComputeLinkingTag())
	require.NoError(t, err)
	j2 := statement2.J()

	require.True(t, j1.Equal(j2), "the same witness must produce the same linking tag across statements")
}

func TestDistinctWitnessesHaveDistinctLinkingTags(t *testing.T) {
	_, _, _, s1 := setupRing(t, 3, 2, 0)
	_, _, _, s2 := setupRing(t, 3, 2, 1)
	require.False(t, s1.J().Equal(s2.J()), "independent witnesses must not collide on a linking tag")
}

func TestProofRoundTripsThroughBytes(t *testing.T) {
	_, proof := freshProof(t)

	encoded := proof.Bytes()
	decoded, err := ProofFromBytes(encoded)
	require.NoError(t, err)

	require.True(t, decoded.A.Equal(proof.A))
	require.True(t, decoded.B.Equal(proof.B))
	require.True(t, decoded.C.Equal(proof.C))
	require.True(t, decoded.D.Equal(proof.D))
	require.True(t, decoded.ZA.Equal(proof.ZA))
	require.True(t, decoded.ZC.Equal(proof.ZC))
	require.True(t, decoded.Z.Equal(proof.Z))
	require.Len(t, decoded.X, len(proof.X))
	require.Len(t, decoded.Y, len(proof.Y))

	for i := range proof.X {
		require.True(t, decoded.X[i].Equal(proof.X[i]), "X[%d] mismatch after round trip", i)
	}
	for i := range proof.Y {
		require.True(t, decoded.Y[i].Equal(proof.Y[i]), "Y[%d] mismatch after round trip", i)
	}
	for j := range proof.F {
		for i := range proof.F[j] {
			require.True(t, decoded.F[j][i].Equal(proof.F[j][i]), "F[%d][%d] mismatch after round trip", j, i)
		}
	}

	reencoded := decoded.Bytes()
	require.Len(t, reencoded, len(encoded))
}

func TestProofFromBytesRejectsTruncation(t *testing.T) {
	_, proof := freshProof(t)
	encoded := proof.Bytes()

	_, err := ProofFromBytes(encoded[:len(encoded)-1])
	require.Error(t, err)
	_, err = ProofFromBytes(encoded[:4])
	require.Error(t, err)
}

func TestProofFromBytesRejectsDegenerateDimensions(t *testing.T) {
	_, proof := freshProof(t)
	encoded := proof.Bytes()

	mWithZero := append([]byte(nil), encoded...)
	binary.LittleEndian.PutUint32(mWithZero[4:8], 0)
	_, err := ProofFromBytes(mWithZero)
	require.Error(t, err)

	nMinus1Zero := append([]byte(nil), encoded...)
	binary.LittleEndian.PutUint32(nMinus1Zero[0:4], 0)
	_, err = ProofFromBytes(nMinus1Zero)
	require.Error(t, err)
}

func TestProofFromBytesRejectsNonCanonicalPoint(t *testing.T) {
	_, proof := freshProof(t)
	encoded := proof.Bytes()

	// The first point (A) starts right after the 8-byte header. Flipping
	// its high bit produces a non-canonical encoding for most inputs.
	corrupted := append([]byte(nil), encoded...)
	corrupted[8+ristretto.PointSize-1] ^= 0x80

	_, err := ProofFromBytes(corrupted)
	require.Error(t, err)
}

func TestVerifyBatchRejectsEmptyBatch(t *testing.T) {
	require.Error(t, VerifyBatch(nil, nil, nil))
}

func TestVerifyBatchRejectsLengthMismatch(t *testing.T) {
	statement, proof := freshProof(t)
	err := VerifyBatch(
		[]*Statement{statement, statement},
		[]*Proof{proof},
		[]*fssigma.Transcript{fssigma.New("test"), fssigma.New("test")},
	)
	require.Error(t, err)
}

func buildSharedRing(t *testing.T, n, m uint32, seed uint64) (*Parameters, *InputSet, []ristretto.Scalar) {
	t.Helper()
	params, err := NewParameters(n, m)
	require.NoError(t, err)

	rng := fssigma.NewDeterministicRNG(seed)
	size := int(params.N())
	keys := make([]ristretto.Point, size)
	signingKeys := make([]ristretto.Scalar, size)
	for i := range keys {
		signingKeys[i] = ristretto.RandomScalar(rng)
		keys[i].MulGen(signingKeys[i])
	}
	return params, NewInputSet(keys), signingKeys
}

func TestVerifyBatchAcceptsMultipleValidProofs(t *testing.T) {
	params, inputSet, signingKeys := buildSharedRing(t, 3, 2, 99)

	indices := []uint32{0, 3, uint32(len(signingKeys) - 1)}
	statements := make([]*Statement, len(indices))
	proofs := make([]*Proof, len(indices))
	transcripts := make([]*fssigma.Transcript, len(indices))

	for i, idx := range indices {
		witness, err := NewWitness(params, idx, signingKeys[idx])
		require.NoError(t, err)
		statement, err := NewStatement(params, inputSet, witness.ComputeLinkingTag())
		require.NoError(t, err)
		proveRNG := fssigma.NewDeterministicRNG(uint64(1000 + i))
		proof, err := ProveWithRNG(witness, statement, proveRNG, fssigma.New("batch"))
		require.NoError(t, err)
		statements[i] = statement
		proofs[i] = proof
		transcripts[i] = fssigma.New("batch")
	}

	require.NoError(t, VerifyBatch(statements, proofs, transcripts))
}

func TestVerifyBatchRejectsOneBadProofAmongGood(t *testing.T) {
	params, inputSet, signingKeys := buildSharedRing(t, 3, 2, 55)

	indices := []uint32{0, 1}
	statements := make([]*Statement, len(indices))
	proofs := make([]*Proof, len(indices))
	transcripts := make([]*fssigma.Transcript, len(indices))

	for i, idx := range indices {
		witness, err := NewWitness(params, idx, signingKeys[idx])
		require.NoError(t, err)
		statement, err := NewStatement(params, inputSet, witness.ComputeLinkingTag())
		require.NoError(t, err)
		proveRNG := fssigma.NewDeterministicRNG(uint64(2000 + i))
		proof, err := ProveWithRNG(witness, statement, proveRNG, fssigma.New("batch"))
		require.NoError(t, err)
		statements[i] = statement
		proofs[i] = proof
		transcripts[i] = fssigma.New("batch")
	}

	proofs[1].Z.Add(proofs[1].Z, ristretto.ScalarFromUint64(1))

	require.Error(t, VerifyBatch(statements, proofs, transcripts))
}

func TestParametersEqualByHash(t *testing.T) {
	p1, err := NewParameters(3, 2)
	require.NoError(t, err)
	p2, err := NewParameters(3, 2)
	require.NoError(t, err)
	p3, err := NewParameters(3, 3)
	require.NoError(t, err)

	require.True(t, p1.Equal(p2), "parameters built from the same n, m should compare equal")
	require.False(t, p1.Equal(p3), "parameters built from different n, m should not compare equal")
}

func TestNewStatementRejectsWrongSizedInputSet(t *testing.T) {
	params, err := NewParameters(3, 2)
	require.NoError(t, err)
	keys := make([]ristretto.Point, params.N()-1)
	for i := range keys {
		keys[i] = ristretto.Generator()
	}
	inputSet := NewInputSet(keys)
	_, err = NewStatement(params, inputSet, ristretto.Generator())
	require.Error(t, err)
}

func TestNewStatementRejectsIdentityInInputSet(t *testing.T) {
	params, err := NewParameters(3, 2)
	require.NoError(t, err)
	keys := make([]ristretto.Point, params.N())
	for i := range keys {
		keys[i] = ristretto.Generator()
	}
	keys[0] = ristretto.NewPoint()
	inputSet := NewInputSet(keys)
	_, err = NewStatement(params, inputSet, ristretto.Generator())
	require.Error(t, err)
}
