package ristretto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPointNegationReturnsIdentity(t *testing.T) {
	p := RandomPoint(nil)
	var q, neg Point
	neg.Negate(p)
	q.Add(p, neg)
	require.True(t, q.IsIdentity())
}

func TestPointSubtractionUndoesAddition(t *testing.T) {
	p := RandomPoint(nil)
	q := RandomPoint(nil)
	var sum, diff Point
	sum.Add(p, q)
	diff.Sub(sum, q)
	require.True(t, diff.Equal(p))
}

func TestMulGenAgreesWithMul(t *testing.T) {
	s := RandomScalar(nil)
	var viaGen, viaMul Point
	viaGen.MulGen(s)
	viaMul.Mul(Generator(), s)
	require.True(t, viaGen.Equal(viaMul))
}

func TestScalarDoublingAgreesWithPointDoubling(t *testing.T) {
	s := RandomScalar(nil)

	var base, summed Point
	base.MulGen(s)
	summed.Add(base, base)

	var doubledScalar Scalar
	doubledScalar.Add(s, s)
	var scaled Point
	scaled.MulGen(doubledScalar)

	require.True(t, summed.Equal(scaled))
}

func TestPointRoundTripsThroughCanonicalBytes(t *testing.T) {
	p := RandomPoint(nil)
	encoded := p.Bytes()
	decoded, ok := PointFromCanonicalBytes(encoded)
	require.True(t, ok)
	require.True(t, decoded.Equal(p))
}

func TestPointFromCanonicalBytesRejectsNonCanonical(t *testing.T) {
	var allOnes [PointSize]byte
	for i := range allOnes {
		allOnes[i] = 0xFF
	}
	_, ok := PointFromCanonicalBytes(allOnes)
	require.False(t, ok)
}

func TestScalarInverseRoundTrips(t *testing.T) {
	s := RandomScalar(nil)
	var inverse, one Scalar
	inverse.Invert(s)
	one.Mul(s, inverse)
	require.True(t, one.Equal(ScalarFromUint64(1)))
}

func TestScalarRoundTripsThroughCanonicalBytes(t *testing.T) {
	s := RandomScalar(nil)
	encoded := s.Bytes()
	decoded, ok := ScalarFromCanonicalBytes(encoded)
	require.True(t, ok)
	require.True(t, decoded.Equal(s))
}

func TestMSMAgreesWithMSMVartime(t *testing.T) {
	scalars := []Scalar{RandomScalar(nil), RandomScalar(nil), ScalarFromUint64(0)}
	points := []Point{RandomPoint(nil), RandomPoint(nil), RandomPoint(nil)}

	require.True(t, MSM(scalars, points).Equal(MSMVartime(scalars, points)))
}

func TestBatchInvertMatchesIndividualInversion(t *testing.T) {
	scalars := []Scalar{RandomScalar(nil), RandomScalar(nil), RandomScalar(nil)}
	inverses := append([]Scalar(nil), scalars...)
	zeroIdx := BatchInvert(inverses)
	require.Empty(t, zeroIdx)

	for i, s := range scalars {
		var want Scalar
		want.Invert(s)
		require.True(t, inverses[i].Equal(want))
	}
}

func TestBatchInvertReportsZeroEntries(t *testing.T) {
	scalars := []Scalar{RandomScalar(nil), NewScalar(), RandomScalar(nil)}
	zeroIdx := BatchInvert(scalars)
	require.Equal(t, []int{1}, zeroIdx)
}

func TestHashToPointIsDeterministic(t *testing.T) {
	a := HashToPoint("ristretto test label")
	b := HashToPoint("ristretto test label")
	require.True(t, a.Equal(b))

	c := HashToPoint("a different label")
	require.False(t, a.Equal(c))
}
