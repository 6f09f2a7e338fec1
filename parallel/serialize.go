package parallel

import (
	"encoding/binary"

	"github.com/takakv/triptych/ristretto"
)

// Bytes encodes a proof into its canonical wire format: little-endian u32
// n-1 and m, then the four matrix commitments, then zA/zC/z/z1, then the
// X, X1, and Y vectors, then the f matrix flattened row-major. Every point
// and scalar uses its canonical fixed-size encoding, so the total length
// is a fixed function of n and m with no internal padding.
func (p *Proof) Bytes() []byte {
	m := len(p.X)
	nMinus1 := 0
	if m > 0 {
		nMinus1 = len(p.F[0])
	}

	size := 8 +
		4*ristretto.PointSize +
		4*ristretto.ScalarSize +
		3*m*ristretto.PointSize +
		m*nMinus1*ristretto.ScalarSize
	out := make([]byte, 0, size)

	var hdr [8]byte
	binary.LittleEndian.PutUint32(hdr[0:4], uint32(nMinus1))
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(m))
	out = append(out, hdr[:]...)

	for _, pt := range []ristretto.Point{p.A, p.B, p.C, p.D} {
		b := pt.Bytes()
		out = append(out, b[:]...)
	}
	for _, s := range []ristretto.Scalar{p.ZA, p.ZC, p.Z, p.Z1} {
		b := s.Bytes()
		out = append(out, b[:]...)
	}
	for _, pt := range p.X {
		b := pt.Bytes()
		out = append(out, b[:]...)
	}
	for _, pt := range p.X1 {
		b := pt.Bytes()
		out = append(out, b[:]...)
	}
	for _, pt := range p.Y {
		b := pt.Bytes()
		out = append(out, b[:]...)
	}
	for _, row := range p.F {
		for _, s := range row {
			b := s.Bytes()
			out = append(out, b[:]...)
		}
	}

	return out
}

// ProofFromBytes decodes a proof from its canonical wire format, rejecting
// any point or scalar that is not in canonical form, any input that leaves
// a remainder or is too short for the n-1/m it declares, and any header
// declaring n < 2 or m < 2.
func ProofFromBytes(b []byte) (*Proof, error) {
	if len(b) < 8 {
		return nil, failedDeserialization("truncated header")
	}
	nMinus1 := binary.LittleEndian.Uint32(b[0:4])
	m := binary.LittleEndian.Uint32(b[4:8])
	b = b[8:]

	if uint64(nMinus1)+1 < 2 {
		return nil, failedDeserialization("n must be at least 2")
	}
	if m < 2 {
		return nil, failedDeserialization("m must be at least 2")
	}

	expected := 4*ristretto.PointSize + 4*ristretto.ScalarSize +
		3*int(m)*ristretto.PointSize + int(m)*int(nMinus1)*ristretto.ScalarSize
	if len(b) != expected {
		return nil, failedDeserialization("length does not match declared dimensions")
	}

	readPoint := func() (ristretto.Point, error) {
		var arr [ristretto.PointSize]byte
		copy(arr[:], b[:ristretto.PointSize])
		b = b[ristretto.PointSize:]
		pt, ok := ristretto.PointFromCanonicalBytes(arr)
		if !ok {
			return ristretto.Point{}, failedDeserialization("non-canonical point encoding")
		}
		return pt, nil
	}
	readScalar := func() (ristretto.Scalar, error) {
		var arr [ristretto.ScalarSize]byte
		copy(arr[:], b[:ristretto.ScalarSize])
		b = b[ristretto.ScalarSize:]
		s, ok := ristretto.ScalarFromCanonicalBytes(arr)
		if !ok {
			return ristretto.Scalar{}, failedDeserialization("non-canonical scalar encoding")
		}
		return s, nil
	}

	var err error
	proof := &Proof{}
	if proof.A, err = readPoint(); err != nil {
		return nil, err
	}
	if proof.B, err = readPoint(); err != nil {
		return nil, err
	}
	if proof.C, err = readPoint(); err != nil {
		return nil, err
	}
	if proof.D, err = readPoint(); err != nil {
		return nil, err
	}
	if proof.ZA, err = readScalar(); err != nil {
		return nil, err
	}
	if proof.ZC, err = readScalar(); err != nil {
		return nil, err
	}
	if proof.Z, err = readScalar(); err != nil {
		return nil, err
	}
	if proof.Z1, err = readScalar(); err != nil {
		return nil, err
	}

	proof.X = make([]ristretto.Point, m)
	for i := range proof.X {
		if proof.X[i], err = readPoint(); err != nil {
			return nil, err
		}
	}
	proof.X1 = make([]ristretto.Point, m)
	for i := range proof.X1 {
		if proof.X1[i], err = readPoint(); err != nil {
			return nil, err
		}
	}
	proof.Y = make([]ristretto.Point, m)
	for i := range proof.Y {
		if proof.Y[i], err = readPoint(); err != nil {
			return nil, err
		}
	}

	proof.F = make([][]ristretto.Scalar, m)
	for j := range proof.F {
		proof.F[j] = make([]ristretto.Scalar, nMinus1)
		for i := range proof.F[j] {
			if proof.F[j][i], err = readScalar(); err != nil {
				return nil, err
			}
		}
	}

	return proof, nil
}
