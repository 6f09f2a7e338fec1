// Package ristretto wraps cloudflare/circl's Ristretto255 group so that the
// rest of this module can work with scalars and points directly instead of
// threading a generic Group/Element interface pair through every call, the
// way takakv-msc-poc/group does for its multi-curve voting system. Triptych
// only ever needs one group, so the indirection is not worth its cost here.
package ristretto

import (
	"crypto/rand"
	"io"
	"math/big"

	circl "github.com/cloudflare/circl/group"
)

// groupOrder is the order of the Ristretto255 scalar field, ell =
// 2^252 + 27742317777372353535851937790883648493, the same constant
// takakv-msc-poc/group/ristretto255.go hardcodes for its Group.N().
var groupOrder, _ = new(big.Int).SetString(
	"1000000000000000000000000000000014def9dea2f79cd65812631a5cf5d3ed", 16)

// ScalarSize is the canonical encoded length of a scalar, in bytes.
const ScalarSize = 32

// Scalar is an element of the Ristretto255 scalar field.
type Scalar struct {
	val circl.Scalar
}

// NewScalar returns the zero scalar.
func NewScalar() Scalar {
	return Scalar{val: circl.Ristretto255.NewScalar()}
}

// ScalarFromUint64 returns the scalar representing v.
func ScalarFromUint64(v uint64) Scalar {
	s := NewScalar()
	s.val.SetUint64(v)
	return s
}

// RandomScalar draws a uniformly random nonzero scalar from r. Used for
// secret keys, where a zero value would be catastrophic.
func RandomScalar(r io.Reader) Scalar {
	if r == nil {
		r = rand.Reader
	}
	return Scalar{val: circl.Ristretto255.RandomNonZeroScalar(r)}
}

// RandomScalarUniform draws a scalar uniformly at random from r, including
// zero (with negligible probability). Used for prover randomness — matrix
// commitment openings, commitment masks — where the reference
// implementation's Scalar::random draws from the same uniform distribution
// without excluding zero.
func RandomScalarUniform(r io.Reader) Scalar {
	var buf [64]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		panic("ristretto: RandomScalarUniform: reading entropy: " + err.Error())
	}
	var s Scalar
	s.SetWideBytes(buf)
	return s
}

// Add sets the receiver to a+b and returns it.
func (s *Scalar) Add(a, b Scalar) *Scalar {
	s.val = circl.Ristretto255.NewScalar().Add(a.val, b.val)
	return s
}

// Sub sets the receiver to a-b and returns it.
func (s *Scalar) Sub(a, b Scalar) *Scalar {
	s.val = circl.Ristretto255.NewScalar().Sub(a.val, b.val)
	return s
}

// Mul sets the receiver to a*b and returns it.
func (s *Scalar) Mul(a, b Scalar) *Scalar {
	s.val = circl.Ristretto255.NewScalar().Mul(a.val, b.val)
	return s
}

// MulAdd sets the receiver to a*b+c and returns it.
func (s *Scalar) MulAdd(a, b, c Scalar) *Scalar {
	v := circl.Ristretto255.NewScalar().Mul(a.val, b.val)
	s.val = v.Add(v, c.val)
	return s
}

// Negate sets the receiver to -a and returns it.
func (s *Scalar) Negate(a Scalar) *Scalar {
	s.val = circl.Ristretto255.NewScalar().Neg(a.val)
	return s
}

// Invert sets the receiver to a^-1 and returns it. The caller must ensure a
// is nonzero; Triptych never inverts a scalar that could legitimately be
// zero outside of the batch-verification f-matrix check, which rejects
// zero entries before inversion (see triptych.VerifyBatch).
func (s *Scalar) Invert(a Scalar) *Scalar {
	s.val = circl.Ristretto255.NewScalar().Inv(a.val)
	return s
}

// Set sets the receiver to a and returns it.
func (s *Scalar) Set(a Scalar) *Scalar {
	s.val = circl.Ristretto255.NewScalar().Set(a.val)
	return s
}

// IsZero reports whether the scalar is zero.
func (s Scalar) IsZero() bool {
	return s.val.IsZero()
}

// Equal reports whether s and other represent the same scalar.
func (s Scalar) Equal(other Scalar) bool {
	return s.val.IsEqual(other.val)
}

// SetWideBytes performs a wide (64-byte) reduction of b into the scalar
// field: b is read as a little-endian integer, matching this module's
// canonical little-endian scalar encoding, and reduced modulo the group
// order. This turns a 64-byte transcript challenge into a scalar without
// introducing modulo bias.
func (s *Scalar) SetWideBytes(b [64]byte) *Scalar {
	be := make([]byte, len(b))
	for i, v := range b {
		be[len(b)-1-i] = v
	}
	v := new(big.Int).SetBytes(be)
	v.Mod(v, groupOrder)
	s.val = circl.Ristretto255.NewScalar().SetBigInt(v)
	return s
}

// Bytes returns the canonical 32-byte little-endian encoding of the scalar.
func (s Scalar) Bytes() [ScalarSize]byte {
	var out [ScalarSize]byte
	b, err := s.val.MarshalBinary()
	if err != nil {
		panic("ristretto: scalar marshal failed: " + err.Error())
	}
	copy(out[:], b)
	return out
}

// ScalarFromCanonicalBytes decodes a scalar from its canonical 32-byte
// encoding, rejecting any non-canonical (non-reduced) representation.
func ScalarFromCanonicalBytes(b [ScalarSize]byte) (Scalar, bool) {
	s := NewScalar()
	if err := s.val.UnmarshalBinary(b[:]); err != nil {
		return Scalar{}, false
	}
	// UnmarshalBinary on circl's Ristretto255 scalar already enforces
	// canonical encodings (it rejects values >= the group order), so a
	// successful decode is sufficient.
	return s, true
}

// BatchInvert inverts every scalar in s in place using Montgomery's trick:
// a single scalar inversion instead of len(s). If any entry is zero, no
// entry is inverted: s is left untouched and the indices of the zero
// entries are returned, so a caller can detect the degenerate input rather
// than silently getting garbage back.
//
// Neither circl nor any repo in the retrieval pack ships a batched scalar
// inversion for Ristretto255 (see DESIGN.md); this is this module's own
// implementation of the standard technique, built from circl's per-scalar
// Invert.
func BatchInvert(s []Scalar) (zeroIndices []int) {
	n := len(s)
	if n == 0 {
		return nil
	}

	prefix := make([]Scalar, n)
	acc := ScalarFromUint64(1)
	for i, v := range s {
		if v.IsZero() {
			zeroIndices = append(zeroIndices, i)
			prefix[i] = acc
			continue
		}
		prefix[i] = acc
		acc.Mul(acc, v)
	}

	if len(zeroIndices) > 0 {
		return zeroIndices
	}

	var accInv Scalar
	accInv.Invert(acc)

	for i := n - 1; i >= 0; i-- {
		orig := s[i]
		s[i].Mul(prefix[i], accInv)
		accInv.Mul(accInv, orig)
	}

	return nil
}
