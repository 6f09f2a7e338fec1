package parallel

import (
	"crypto/rand"
	"crypto/subtle"
	"io"

	"github.com/takakv/triptych/fssigma"
	"github.com/takakv/triptych/gray"
	"github.com/takakv/triptych/ristretto"
)

// OperationTiming selects whether a prover runs with data-independent
// timing (Constant, the default and only safe choice when the caller's
// index l is secret) or with the host's native arithmetic (Variable,
// faster but leaks l, r, and r1 through timing).
type OperationTiming int

const (
	// Constant avoids branching and indexing on secret data where this
	// package can avoid it.
	Constant OperationTiming = iota
	// Variable uses native indexing and arithmetic throughout. Only the
	// verifier, and callers who have already decided l is not sensitive,
	// should use this.
	Variable
)

// Proof is a dual-key Triptych zero-knowledge proof: a base Triptych proof
// opening M[l] = r*G and linking r to J, plus the X1/Z1 pair opening
// M1[l] - offset = r1*G1 against the same Gray-decomposition matrices.
type Proof struct {
	A, B, C, D ristretto.Point
	X, X1, Y   []ristretto.Point
	F          [][]ristretto.Scalar // m rows, n-1 columns each
	ZA, ZC, Z  ristretto.Scalar
	Z1         ristretto.Scalar
}

// Prove generates a proof using crypto/rand.Reader for prover randomness
// and data-independent (constant-time) operations throughout.
func Prove(witness *Witness, statement *Statement, transcript *fssigma.Transcript) (*Proof, error) {
	return proveInternal(witness, statement, rand.Reader, transcript, Constant)
}

// ProveVartime generates a proof using crypto/rand.Reader for prover
// randomness, but with the host's native (variable-time) arithmetic.
func ProveVartime(witness *Witness, statement *Statement, transcript *fssigma.Transcript) (*Proof, error) {
	return proveInternal(witness, statement, rand.Reader, transcript, Variable)
}

// ProveWithRNG generates a proof using rng for prover randomness, with
// data-independent (constant-time) operations throughout.
func ProveWithRNG(witness *Witness, statement *Statement, rng io.Reader, transcript *fssigma.Transcript) (*Proof, error) {
	return proveInternal(witness, statement, rng, transcript, Constant)
}

// ProveWithRNGVartime generates a proof using rng for prover randomness,
// with the host's native (variable-time) arithmetic.
func ProveWithRNGVartime(witness *Witness, statement *Statement, rng io.Reader, transcript *fssigma.Transcript) (*Proof, error) {
	return proveInternal(witness, statement, rng, transcript, Variable)
}

func proveInternal(witness *Witness, statement *Statement, rng io.Reader, transcript *fssigma.Transcript, timing OperationTiming) (*Proof, error) {
	if !witness.Params().Equal(statement.Params()) {
		return nil, invalidParameter("witness and statement parameters differ")
	}

	params := statement.Params()
	keys := statement.InputSet().Keys()
	auxKeys := statement.InputSet().AuxiliaryKeys()
	offset := statement.Offset()
	r := witness.R()
	r1 := witness.R1()
	l := witness.L()
	j := statement.J()

	var mL, m1L ristretto.Point
	switch timing {
	case Constant:
		mL = selectPointConstantTime(keys, l)
		m1L = selectPointConstantTime(auxKeys, l)
	default:
		mL = keys[l]
		m1L = auxKeys[l]
	}

	if !mL.Equal(witness.ComputeVerificationKey()) {
		return nil, invalidParameter("witness signing key does not match input set at index l")
	}
	var m1LOffset ristretto.Point
	m1LOffset.Sub(m1L, offset)
	if !m1LOffset.Equal(witness.ComputeAuxiliaryVerificationKey()) {
		return nil, invalidParameter("witness auxiliary signing key does not match input set at index l")
	}
	var rJ ristretto.Point
	rJ.Mul(j, r)
	if !rJ.Equal(params.U()) {
		return nil, invalidParameter("witness signing key does not produce statement's linking tag")
	}

	pt := newProofTranscript(transcript, statement, rng, witness)

	n, m := params.NBase(), params.M()

	rA := ristretto.RandomScalarUniform(pt.asMutRNG())
	a := make([][]ristretto.Scalar, m)
	for jRow := range a {
		a[jRow] = make([]ristretto.Scalar, n)
		for i := range a[jRow] {
			a[jRow][i] = ristretto.RandomScalarUniform(pt.asMutRNG())
		}
		sum := ristretto.NewScalar()
		for i := 1; i < int(n); i++ {
			sum.Add(sum, a[jRow][i])
		}
		var negSum ristretto.Scalar
		negSum.Negate(sum)
		a[jRow][0] = negSum
	}
	amat, err := params.commitMatrix(a, rA, timing == Variable)
	if err != nil {
		return nil, err
	}

	rB := ristretto.RandomScalarUniform(pt.asMutRNG())
	var lDecomposed []uint32
	if timing == Constant {
		lDecomposed, err = gray.Decompose(n, m, l)
	} else {
		lDecomposed, err = gray.DecomposeVartime(n, m, l)
	}
	if err != nil {
		return nil, invalidParameter("failed to decompose witness index")
	}
	sigma := make([][]ristretto.Scalar, m)
	for jRow := range sigma {
		sigma[jRow] = make([]ristretto.Scalar, n)
		for i := range sigma[jRow] {
			sigma[jRow][i] = delta(lDecomposed[jRow], uint32(i))
		}
	}
	bmat, err := params.commitMatrix(sigma, rB, timing == Variable)
	if err != nil {
		return nil, err
	}

	two := ristretto.ScalarFromUint64(2)
	one := ristretto.ScalarFromUint64(1)
	rC := ristretto.RandomScalarUniform(pt.asMutRNG())
	aSigma := make([][]ristretto.Scalar, m)
	for jRow := range aSigma {
		aSigma[jRow] = make([]ristretto.Scalar, n)
		for i := range aSigma[jRow] {
			var twoSigma, oneMinus ristretto.Scalar
			twoSigma.Mul(two, sigma[jRow][i])
			oneMinus.Sub(one, twoSigma)
			aSigma[jRow][i].Mul(a[jRow][i], oneMinus)
		}
	}
	cmat, err := params.commitMatrix(aSigma, rC, timing == Variable)
	if err != nil {
		return nil, err
	}

	rD := ristretto.RandomScalarUniform(pt.asMutRNG())
	aSquare := make([][]ristretto.Scalar, m)
	for jRow := range aSquare {
		aSquare[jRow] = make([]ristretto.Scalar, n)
		for i := range aSquare[jRow] {
			var neg, sq ristretto.Scalar
			neg.Negate(a[jRow][i])
			sq.Mul(neg, a[jRow][i])
			aSquare[jRow][i] = sq
		}
	}
	dmat, err := params.commitMatrix(aSquare, rD, timing == Variable)
	if err != nil {
		return nil, err
	}

	rho := make([]ristretto.Scalar, m)
	for i := range rho {
		rho[i] = ristretto.RandomScalarUniform(pt.asMutRNG())
	}
	defer func() {
		for i := range rho {
			b := rho[i].Bytes()
			zeroizeBytes(&b)
			rho[i] = ristretto.NewScalar()
		}
	}()

	p, err := computePolynomials(a, sigma, n, m)
	if err != nil {
		return nil, err
	}

	x := make([]ristretto.Point, m)
	for jRow := range x {
		scalars := make([]ristretto.Scalar, 0, len(keys)+1)
		for k := range keys {
			scalars = append(scalars, p[k][jRow])
		}
		scalars = append(scalars, rho[jRow])
		points := make([]ristretto.Point, 0, len(keys)+1)
		points = append(points, keys...)
		points = append(points, params.G())
		if timing == Variable {
			x[jRow] = ristretto.MSMVartime(scalars, points)
		} else {
			x[jRow] = ristretto.MSM(scalars, points)
		}
	}

	// X1 opens the same convolution against the offset auxiliary keys and
	// G1, reusing rho so the single z1 response ties both checks together
	// with the witness's r1.
	x1 := make([]ristretto.Point, m)
	offsetAux := make([]ristretto.Point, len(auxKeys))
	for k, ak := range auxKeys {
		offsetAux[k].Sub(ak, offset)
	}
	for jRow := range x1 {
		scalars := make([]ristretto.Scalar, 0, len(offsetAux)+1)
		for k := range offsetAux {
			scalars = append(scalars, p[k][jRow])
		}
		scalars = append(scalars, rho[jRow])
		points := make([]ristretto.Point, 0, len(offsetAux)+1)
		points = append(points, offsetAux...)
		points = append(points, params.G1())
		if timing == Variable {
			x1[jRow] = ristretto.MSMVartime(scalars, points)
		} else {
			x1[jRow] = ristretto.MSM(scalars, points)
		}
	}

	y := make([]ristretto.Point, m)
	for jRow := range y {
		y[jRow].Mul(j, rho[jRow])
	}

	xiPowers, err := pt.commit(params, amat, bmat, cmat, dmat, x, x1, y)
	if err != nil {
		return nil, err
	}
	xi := xiPowers[1]

	f := make([][]ristretto.Scalar, m)
	for jRow := range f {
		f[jRow] = make([]ristretto.Scalar, n-1)
		for i := 1; i < int(n); i++ {
			var term ristretto.Scalar
			term.Mul(sigma[jRow][i], xi)
			f[jRow][i-1].Add(term, a[jRow][i])
		}
	}

	var zA ristretto.Scalar
	zA.MulAdd(xi, rB, rA)

	var zC ristretto.Scalar
	zC.MulAdd(xi, rC, rD)

	rhoSum := ristretto.NewScalar()
	for idx, rh := range rho {
		var term ristretto.Scalar
		term.Mul(rh, xiPowers[idx])
		rhoSum.Add(rhoSum, term)
	}
	var z ristretto.Scalar
	var rXiM ristretto.Scalar
	rXiM.Mul(r, xiPowers[m])
	z.Sub(rXiM, rhoSum)

	var z1 ristretto.Scalar
	var r1XiM ristretto.Scalar
	r1XiM.Mul(r1, xiPowers[m])
	z1.Sub(r1XiM, rhoSum)

	return &Proof{
		A: amat, B: bmat, C: cmat, D: dmat,
		X: x, X1: x1, Y: y,
		F:  f,
		ZA: zA, ZC: zC, Z: z,
		Z1: z1,
	}, nil
}

// delta is the Kronecker delta as a scalar: 1 if a == b, 0 otherwise.
func delta(a, b uint32) ristretto.Scalar {
	if a == b {
		return ristretto.ScalarFromUint64(1)
	}
	return ristretto.NewScalar()
}

// selectPointConstantTime returns keys[l] without branching on l, by
// conditionally copying each candidate's canonical encoding into an
// accumulator with crypto/subtle.
func selectPointConstantTime(keys []ristretto.Point, l uint32) ristretto.Point {
	var acc [ristretto.PointSize]byte
	for i, k := range keys {
		eq := subtle.ConstantTimeEq(int32(i), int32(l))
		kb := k.Bytes()
		for j := range acc {
			acc[j] = byte(subtle.ConstantTimeSelect(eq, int(kb[j]), int(acc[j])))
		}
	}
	p, _ := ristretto.PointFromCanonicalBytes(acc)
	return p
}

// computePolynomials builds, for every one of the N = n^m Gray-ordered
// digit vectors k, the degree-m polynomial whose coefficients are the
// convolution of the m degree-one polynomials sigma[j][k_j]*T + a[j][k_j].
// p[k][j] is the coefficient of T^j in the k-th polynomial.
func computePolynomials(a, sigma [][]ristretto.Scalar, n, m uint32) ([][]ristretto.Scalar, error) {
	total, _ := checkedPow(n, m)
	p := make([][]ristretto.Scalar, 0, total)

	kDecomposed := make([]uint32, m)
	it, err := gray.NewIterator(n, m)
	if err != nil {
		return nil, invalidParameter("failed to build Gray iterator")
	}

	for {
		step, ok := it.Next()
		if !ok {
			break
		}
		kDecomposed[step.Index] = step.New

		coefficients := make([]ristretto.Scalar, m+1)
		for i := range coefficients {
			coefficients[i] = ristretto.NewScalar()
		}
		coefficients[0] = a[0][kDecomposed[0]]
		coefficients[1] = sigma[0][kDecomposed[0]]

		for jRow := uint32(1); jRow < m; jRow++ {
			degree0 := make([]ristretto.Scalar, len(coefficients))
			for idx, c := range coefficients {
				degree0[idx].Mul(a[jRow][kDecomposed[jRow]], c)
			}

			shifted := rotateRight1(coefficients)
			degree1 := make([]ristretto.Scalar, len(shifted))
			for idx, c := range shifted {
				degree1[idx].Mul(sigma[jRow][kDecomposed[jRow]], c)
			}

			next := make([]ristretto.Scalar, len(coefficients))
			for idx := range next {
				next[idx].Add(degree0[idx], degree1[idx])
			}
			coefficients = next
		}

		p = append(p, coefficients)
	}

	return p, nil
}

func rotateRight1(s []ristretto.Scalar) []ristretto.Scalar {
	out := make([]ristretto.Scalar, len(s))
	out[0] = s[len(s)-1]
	copy(out[1:], s[:len(s)-1])
	return out
}
