package parallel

import (
	"github.com/takakv/triptych/fssigma"
	"github.com/takakv/triptych/ristretto"
)

// InputSet is a ring of verification keys paired with auxiliary
// verification keys at the same indices.
type InputSet struct {
	keys          []ristretto.Point
	auxiliaryKeys []ristretto.Point
	hash          [32]byte
}

// NewInputSet builds an input set from a slice of verification keys and a
// same-length slice of auxiliary verification keys. Both slices are
// copied.
func NewInputSet(keys, auxiliaryKeys []ristretto.Point) (*InputSet, error) {
	if len(keys) != len(auxiliaryKeys) {
		return nil, invalidParameter("key and auxiliary key vectors must have equal length")
	}
	is := &InputSet{
		keys:          append([]ristretto.Point(nil), keys...),
		auxiliaryKeys: append([]ristretto.Point(nil), auxiliaryKeys...),
	}
	is.hash = is.computeHash()
	return is, nil
}

func (is *InputSet) computeHash() [32]byte {
	t := fssigma.New(transcriptInputSet)
	t.AppendU64("version", version)
	t.AppendU64("length", uint64(len(is.keys)))
	for _, k := range is.keys {
		b := k.Bytes()
		t.Append("M", b[:])
	}
	for _, k := range is.auxiliaryKeys {
		b := k.Bytes()
		t.Append("M1", b[:])
	}
	var out [32]byte
	copy(out[:], t.ChallengeBytes("hash", 32))
	return out
}

// Keys returns the verification key vector. Callers must not mutate it.
func (is *InputSet) Keys() []ristretto.Point { return is.keys }

// AuxiliaryKeys returns the auxiliary verification key vector. Callers
// must not mutate it.
func (is *InputSet) AuxiliaryKeys() []ristretto.Point { return is.auxiliaryKeys }

// Len returns the number of entries in the input set.
func (is *InputSet) Len() int { return len(is.keys) }

// Hash returns the 32-byte domain-separated hash of this input set.
func (is *InputSet) Hash() [32]byte { return is.hash }

// Equal reports whether is and other hash to the same value.
func (is *InputSet) Equal(other *InputSet) bool {
	return is.hash == other.hash
}

// Statement is a dual-key Triptych proof statement: a ring of verification
// and auxiliary verification keys, an offset applied to every auxiliary
// key, and the linking tag for the signing key behind one (unrevealed)
// ring member.
type Statement struct {
	params   *Parameters
	inputSet *InputSet
	offset   ristretto.Point
	j        ristretto.Point
	hash     [32]byte
}

// NewStatement builds a statement from parameters, an input set, an
// offset, and a linking tag. The input set's size must match params.N().
// No verification key may be the identity element, and no auxiliary key
// may equal the offset (which would leave its auxiliary signing key
// unconstrained).
func NewStatement(params *Parameters, inputSet *InputSet, offset, j ristretto.Point) (*Statement, error) {
	if uint32(inputSet.Len()) != params.N() {
		return nil, invalidParameter("input set size does not match parameters")
	}
	identity := ristretto.NewPoint()
	for _, k := range inputSet.keys {
		if k.Equal(identity) {
			return nil, invalidParameter("input set contains the identity element")
		}
	}
	for _, k1 := range inputSet.auxiliaryKeys {
		var diff ristretto.Point
		diff.Sub(k1, offset)
		if diff.Equal(identity) {
			return nil, invalidParameter("an auxiliary key equals the offset")
		}
	}

	s := &Statement{params: params, inputSet: inputSet, offset: offset, j: j}
	s.hash = s.computeHash()
	return s, nil
}

func (s *Statement) computeHash() [32]byte {
	t := fssigma.New(transcriptStatement)
	t.AppendU64("version", version)
	paramsHash := s.params.Hash()
	t.Append("params", paramsHash[:])
	inputSetHash := s.inputSet.Hash()
	t.Append("input_set", inputSetHash[:])
	offb := s.offset.Bytes()
	t.Append("offset", offb[:])
	jb := s.j.Bytes()
	t.Append("J", jb[:])
	var out [32]byte
	copy(out[:], t.ChallengeBytes("hash", 32))
	return out
}

// Params returns the statement's parameters.
func (s *Statement) Params() *Parameters { return s.params }

// InputSet returns the statement's input set.
func (s *Statement) InputSet() *InputSet { return s.inputSet }

// Offset returns the statement's auxiliary key offset.
func (s *Statement) Offset() ristretto.Point { return s.offset }

// J returns the statement's linking tag.
func (s *Statement) J() ristretto.Point { return s.j }

// Hash returns the 32-byte domain-separated hash of this statement.
func (s *Statement) Hash() [32]byte { return s.hash }
