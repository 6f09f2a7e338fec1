package ristretto

import (
	"crypto/rand"
	"io"

	circl "github.com/cloudflare/circl/group"
)

// PointSize is the canonical encoded length of a point, in bytes.
const PointSize = 32

// Point is an element of the Ristretto255 group.
type Point struct {
	val circl.Element
}

// NewPoint returns the identity point.
func NewPoint() Point {
	return Point{val: circl.Ristretto255.Identity()}
}

// Generator returns the group's standard base point G.
func Generator() Point {
	return Point{val: circl.Ristretto255.Generator()}
}

// RandomPoint draws a uniformly random group element from r.
func RandomPoint(r io.Reader) Point {
	if r == nil {
		r = rand.Reader
	}
	return Point{val: circl.Ristretto255.RandomElement(r)}
}

// HashToPoint derives a point deterministically from label using circl's
// Ristretto255 hash-to-group map, with label itself as both the hashed
// input and the domain-separation tag. This is how Parameters derives its
// auxiliary generators (U, G1, the CommitmentG/CommitmentH bases) from
// fixed domain strings instead of trusting an externally supplied nothing-
// up-my-sleeve point.
func HashToPoint(label string) Point {
	return Point{val: circl.Ristretto255.HashToElement([]byte(label), []byte(label))}
}

// HashToPointContext is HashToPoint, but with extra context bytes mixed
// into the hashed input (the domain-separation tag stays just the label).
// Parameters uses this to derive a distinct commitment generator per
// matrix slot from one label plus that slot's coordinates.
func HashToPointContext(label string, context []byte) Point {
	data := make([]byte, 0, len(label)+len(context))
	data = append(data, label...)
	data = append(data, context...)
	return Point{val: circl.Ristretto255.HashToElement(data, []byte(label))}
}

// Add sets the receiver to a+b and returns it.
func (p *Point) Add(a, b Point) *Point {
	p.val = circl.Ristretto255.NewElement().Add(a.val, b.val)
	return p
}

// Sub sets the receiver to a-b and returns it.
func (p *Point) Sub(a, b Point) *Point {
	var negB Point
	negB.Negate(b)
	return p.Add(a, negB)
}

// Negate sets the receiver to -a and returns it.
func (p *Point) Negate(a Point) *Point {
	p.val = circl.Ristretto255.NewElement().Neg(a.val)
	return p
}

// Mul sets the receiver to s*a and returns it.
func (p *Point) Mul(a Point, s Scalar) *Point {
	p.val = circl.Ristretto255.NewElement().Mul(a.val, s.val)
	return p
}

// MulGen sets the receiver to s*G, where G is the standard generator, and
// returns it. This is faster than Mul(Generator(), s) for backends that
// precompute a generator ladder; circl's Ristretto255 does.
func (p *Point) MulGen(s Scalar) *Point {
	p.val = circl.Ristretto255.NewElement().MulGen(s.val)
	return p
}

// Set sets the receiver to a and returns it.
func (p *Point) Set(a Point) *Point {
	p.val = circl.Ristretto255.NewElement().Set(a.val)
	return p
}

// IsIdentity reports whether the point is the group identity.
func (p Point) IsIdentity() bool {
	return p.val.IsIdentity()
}

// Equal reports whether p and other represent the same point.
func (p Point) Equal(other Point) bool {
	return p.val.IsEqual(other.val)
}

// Bytes returns the canonical 32-byte compressed encoding of the point.
func (p Point) Bytes() [PointSize]byte {
	var out [PointSize]byte
	b, err := p.val.MarshalBinary()
	if err != nil {
		panic("ristretto: point marshal failed: " + err.Error())
	}
	copy(out[:], b)
	return out
}

// PointFromCanonicalBytes decodes a point from its canonical 32-byte
// compressed encoding, rejecting any non-canonical representation.
func PointFromCanonicalBytes(b [PointSize]byte) (Point, bool) {
	p := NewPoint()
	if err := p.val.UnmarshalBinary(b[:]); err != nil {
		return Point{}, false
	}
	return p, true
}

// MSM computes the constant-time multi-scalar multiplication sum_i
// scalars[i]*points[i]. It panics if the slices differ in length, the same
// contract circl's own Element.Mul family uses for mismatched inputs.
//
// circl/group does not expose a multi-scalar-multiplication entry point for
// Ristretto255 (see DESIGN.md), so this is built from repeated constant-
// time Mul/Add, which is what the Element interface itself guarantees is
// constant-time per call.
func MSM(scalars []Scalar, points []Point) Point {
	if len(scalars) != len(points) {
		panic("ristretto: MSM: mismatched scalar/point slice lengths")
	}
	acc := NewPoint()
	var term Point
	for i := range scalars {
		term.Mul(points[i], scalars[i])
		acc.Add(acc, term)
	}
	return acc
}

// MSMVartime computes the same multi-scalar multiplication as MSM, but
// skips terms with a zero scalar or an identity point. Skipping terms
// leaks which ones were skipped through timing, so this is only safe for
// the verifier, which never holds a secret.
func MSMVartime(scalars []Scalar, points []Point) Point {
	if len(scalars) != len(points) {
		panic("ristretto: MSMVartime: mismatched scalar/point slice lengths")
	}
	acc := NewPoint()
	var term Point
	for i := range scalars {
		if scalars[i].IsZero() || points[i].IsIdentity() {
			continue
		}
		term.Mul(points[i], scalars[i])
		acc.Add(acc, term)
	}
	return acc
}
