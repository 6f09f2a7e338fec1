package triptych

import (
	"io"

	"github.com/takakv/triptych/ristretto"
)

// Witness is the secret data behind a proof: a signing key r and the index
// l at which the corresponding verification key r*G sits in the statement's
// input set.
//
// Destroy must be called once a Witness is no longer needed; Go has no
// destructors, so unlike the reference implementation's ZeroizeOnDrop this
// is not automatic.
type Witness struct {
	params *Parameters
	l      uint32
	r      ristretto.Scalar
}

// NewWitness builds a witness from secret data. r must be nonzero and l
// must be a valid index for params' vector size.
func NewWitness(params *Parameters, l uint32, r ristretto.Scalar) (*Witness, error) {
	if r.IsZero() {
		return nil, invalidParameter("signing key must be nonzero")
	}
	if l >= params.N() {
		return nil, invalidParameter("index out of range")
	}
	return &Witness{params: params, l: l, r: r}, nil
}

// RandomWitness draws a new witness with a uniformly random nonzero
// signing key and a uniformly random valid index, using entropy from rng.
// The index is drawn via wide reduction (8 bytes mod N) to avoid modulo
// bias toward small indices.
func RandomWitness(params *Parameters, rng io.Reader) *Witness {
	n := params.N()
	var buf [8]byte
	if _, err := io.ReadFull(rng, buf[:]); err != nil {
		panic("triptych: RandomWitness: reading entropy: " + err.Error())
	}
	l := uint32(leUint64(buf) % uint64(n))
	r := ristretto.RandomScalar(rng)
	return &Witness{params: params, l: l, r: r}
}

func leUint64(b [8]byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

// Params returns the witness's parameters.
func (w *Witness) Params() *Parameters { return w.params }

// L returns the index of the witness's verification key in the input set.
func (w *Witness) L() uint32 { return w.l }

// R returns the witness's signing key.
func (w *Witness) R() ristretto.Scalar { return w.r }

// ComputeLinkingTag returns r^-1 * U, the linking tag this witness's
// signing key produces.
func (w *Witness) ComputeLinkingTag() ristretto.Point {
	var rInv ristretto.Scalar
	rInv.Invert(w.r)
	var j ristretto.Point
	j.Mul(w.params.U(), rInv)
	return j
}

// ComputeVerificationKey returns r*G, the verification key this witness's
// signing key corresponds to.
func (w *Witness) ComputeVerificationKey() ristretto.Point {
	var vk ristretto.Point
	vk.MulGen(w.r)
	return vk
}

// Destroy zeroes the witness's secret signing key in place. The witness
// must not be used afterward.
func (w *Witness) Destroy() {
	b := w.r.Bytes()
	zeroizeScalarBytes(&b)
	w.r = ristretto.NewScalar()
}
