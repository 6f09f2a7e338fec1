package triptych

import (
	"encoding/binary"

	"github.com/takakv/triptych/fssigma"
	"github.com/takakv/triptych/ristretto"
)

// Parameters are the public parameters shared by every proof over a given
// verification key vector size. They fix the base n and digit count m
// (together defining N = n^m, the vector size), the two generators G and U
// the relation is stated over, and the commitment bases used for the
// matrix commitments inside a proof.
//
// Parameters are immutable once constructed and are meant to be shared by
// reference across every statement, witness, and proof that uses them;
// Hash is a cheap 32-byte equality token callers can compare instead of
// comparing the full generator vectors.
type Parameters struct {
	n, m uint32

	g ristretto.Point
	u ristretto.Point

	commitmentG []ristretto.Point // n*m generators, row-major by digit position then value
	commitmentH ristretto.Point

	hash [32]byte
}

// NewParameters builds parameters for the given n and m, deriving G from
// the group's standard generator and U from a fixed domain-separated hash.
// n and m must both be at least 2, and n^m must fit in a uint32.
func NewParameters(n, m uint32) (*Parameters, error) {
	g := ristretto.Generator()
	u := ristretto.HashToPoint(pointU)
	return NewParametersWithGenerators(n, m, g, u)
}

// NewParametersWithGenerators is NewParameters, but with caller-supplied
// G and U. Their independence from one another (and from any other
// generator in the system) is the caller's responsibility; this
// constructor cannot verify it.
func NewParametersWithGenerators(n, m uint32, g, u ristretto.Point) (*Parameters, error) {
	if n < 2 || m < 2 {
		return nil, invalidParameter("n and m must each be at least 2")
	}
	if _, overflow := checkedPow(n, m); overflow {
		return nil, invalidParameter("n^m overflows a uint32")
	}

	commitmentH := ristretto.HashToPoint(pointCommitmentH)

	var nmBytes [8]byte
	binary.LittleEndian.PutUint32(nmBytes[0:4], n)
	binary.LittleEndian.PutUint32(nmBytes[4:8], m)

	commitmentG := make([]ristretto.Point, n*m)
	for i := range commitmentG {
		ctx := make([]byte, 0, 12)
		ctx = append(ctx, nmBytes[:]...)
		var idx [4]byte
		binary.LittleEndian.PutUint32(idx[:], uint32(i))
		ctx = append(ctx, idx[:]...)
		commitmentG[i] = ristretto.HashToPointContext(pointCommitmentG, ctx)
	}

	p := &Parameters{
		n:           n,
		m:           m,
		g:           g,
		u:           u,
		commitmentG: commitmentG,
		commitmentH: commitmentH,
	}
	p.hash = p.computeHash()
	return p, nil
}

func (p *Parameters) computeHash() [32]byte {
	t := fssigma.New(transcriptParameters)
	t.AppendU64("version", version)
	t.AppendU64("n", uint64(p.n))
	t.AppendU64("m", uint64(p.m))
	gb := p.g.Bytes()
	t.Append("G", gb[:])
	ub := p.u.Bytes()
	t.Append("U", ub[:])
	for i, c := range p.commitmentG {
		cb := c.Bytes()
		t.AppendU64("CommitmentG index", uint64(i))
		t.Append("CommitmentG", cb[:])
	}
	hb := p.commitmentH.Bytes()
	t.Append("CommitmentH", hb[:])

	var out [32]byte
	copy(out[:], t.ChallengeBytes("hash", 32))
	return out
}

// N returns n^m, the verification key vector size.
func (p *Parameters) N() uint32 {
	n, _ := checkedPow(p.n, p.m)
	return n
}

// NBase returns n, the base used for the verification key vector size.
func (p *Parameters) NBase() uint32 { return p.n }

// M returns m, the digit count used for the verification key vector size.
func (p *Parameters) M() uint32 { return p.m }

// G returns the generator used to define verification keys.
func (p *Parameters) G() ristretto.Point { return p.g }

// U returns the generator used to define linking tags.
func (p *Parameters) U() ristretto.Point { return p.u }

// Hash returns the 32-byte domain-separated hash of these parameters,
// suitable as a cheap equality token or for binding into a transcript.
func (p *Parameters) Hash() [32]byte { return p.hash }

// Equal reports whether p and other have the same hash, which is the
// cheap proxy this package uses everywhere instead of a full field-by-
// field comparison.
func (p *Parameters) Equal(other *Parameters) bool {
	return p.hash == other.hash
}

// commitMatrix evaluates the Pedersen-style matrix commitment
// Commit(matrix, mask) = sum_{j,i} matrix[j][i]*CommitmentG[j*n+i] +
// mask*CommitmentH, over an m-row, n-column scalar matrix.
func (p *Parameters) commitMatrix(matrix [][]ristretto.Scalar, mask ristretto.Scalar, vartime bool) (ristretto.Point, error) {
	if uint32(len(matrix)) != p.m {
		return ristretto.Point{}, invalidParameter("commitment matrix has wrong row count")
	}
	for _, row := range matrix {
		if uint32(len(row)) != p.n {
			return ristretto.Point{}, invalidParameter("commitment matrix has wrong column count")
		}
	}

	scalars := make([]ristretto.Scalar, 0, int(p.n*p.m)+1)
	for _, row := range matrix {
		scalars = append(scalars, row...)
	}
	scalars = append(scalars, mask)

	points := make([]ristretto.Point, 0, len(p.commitmentG)+1)
	points = append(points, p.commitmentG...)
	points = append(points, p.commitmentH)

	if vartime {
		return ristretto.MSMVartime(scalars, points), nil
	}
	return ristretto.MSM(scalars, points), nil
}

// checkedPow computes n^m, reporting overflow past uint32's range.
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
