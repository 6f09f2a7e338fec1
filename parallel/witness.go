package parallel

import (
	"io"

	"github.com/takakv/triptych/ristretto"
)

// Witness is the secret data behind a dual-key proof: a signing key r, an
// auxiliary signing key r1, and the index l at which the corresponding
// keys sit in the statement's input set.
//
// Destroy must be called once a Witness is no longer needed.
type Witness struct {
	params *Parameters
	l      uint32
	r      ristretto.Scalar
	r1     ristretto.Scalar
}

// NewWitness builds a witness from secret data. r and r1 must both be
// nonzero, and l must be a valid index for params' vector size.
func NewWitness(params *Parameters, l uint32, r, r1 ristretto.Scalar) (*Witness, error) {
	if r.IsZero() {
		return nil, invalidParameter("signing key must be nonzero")
	}
	if r1.IsZero() {
		return nil, invalidParameter("auxiliary signing key must be nonzero")
	}
	if l >= params.N() {
		return nil, invalidParameter("index out of range")
	}
	return &Witness{params: params, l: l, r: r, r1: r1}, nil
}

// RandomWitness draws a new witness with uniformly random nonzero signing
// keys and a uniformly random valid index, using entropy from rng.
func RandomWitness(params *Parameters, rng io.Reader) *Witness {
	n := params.N()
	var buf [8]byte
	if _, err := io.ReadFull(rng, buf[:]); err != nil {
		panic("parallel: RandomWitness: reading entropy: " + err.Error())
	}
	l := uint32(leUint64(buf) % uint64(n))
	r := ristretto.RandomScalar(rng)
	r1 := ristretto.RandomScalar(rng)
	return &Witness{params: params, l: l, r: r, r1: r1}
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

// L returns the index of the witness's keys in the input set.
func (w *Witness) L() uint32 { return w.l }

// R returns the witness's signing key.
func (w *Witness) R() ristretto.Scalar { return w.r }

// R1 returns the witness's auxiliary signing key.
func (w *Witness) R1() ristretto.Scalar { return w.r1 }

// ComputeLinkingTag returns r^-1 * U, the linking tag this witness's
// signing key produces.
func (w *Witness) ComputeLinkingTag() ristretto.Point {
	var rInv ristretto.Scalar
	rInv.Invert(w.r)
	var j ristretto.Point
	j.Mul(w.params.U(), rInv)
	return j
}

// ComputeVerificationKey returns r*G.
func (w *Witness) ComputeVerificationKey() ristretto.Point {
	var vk ristretto.Point
	vk.MulGen(w.r)
	return vk
}

// ComputeAuxiliaryVerificationKey returns r1*G1.
func (w *Witness) ComputeAuxiliaryVerificationKey() ristretto.Point {
	var vk ristretto.Point
	vk.Mul(w.params.G1(), w.r1)
	return vk
}

// Destroy zeroes the witness's secret signing keys in place. The witness
// must not be used afterward.
func (w *Witness) Destroy() {
	rb := w.r.Bytes()
	zeroizeBytes(&rb)
	w.r = ristretto.NewScalar()
	r1b := w.r1.Bytes()
	zeroizeBytes(&r1b)
	w.r1 = ristretto.NewScalar()
}

func zeroizeBytes(b *[32]byte) {
	for i := range b {
		b[i] = 0
	}
}
