package triptych

import (
	"github.com/takakv/triptych/fssigma"
	"github.com/takakv/triptych/ristretto"
)

// InputSet is a ring of verification keys. It caches a domain-separated
// hash of its contents so statements and transcripts can cheaply bind to
// "this exact ring" without rehashing N points on every use.
type InputSet struct {
	keys []ristretto.Point
	hash [32]byte
}

// NewInputSet builds an input set from a slice of verification keys. The
// slice is copied; the caller's backing array can be reused afterward.
func NewInputSet(keys []ristretto.Point) *InputSet {
	is := &InputSet{keys: append([]ristretto.Point(nil), keys...)}
	is.hash = is.computeHash()
	return is
}

func (is *InputSet) computeHash() [32]byte {
	t := fssigma.New(transcriptInputSet)
	t.AppendU64("version", version)
	t.AppendU64("length", uint64(len(is.keys)))
	for _, k := range is.keys {
		b := k.Bytes()
		t.Append("M", b[:])
	}
	var out [32]byte
	copy(out[:], t.ChallengeBytes("hash", 32))
	return out
}

// Keys returns the verification key vector. Callers must not mutate the
// returned slice.
func (is *InputSet) Keys() []ristretto.Point { return is.keys }

// Len returns the number of verification keys in the set.
func (is *InputSet) Len() int { return len(is.keys) }

// Hash returns the 32-byte domain-separated hash of this input set.
func (is *InputSet) Hash() [32]byte { return is.hash }

// Equal reports whether is and other hash to the same value.
func (is *InputSet) Equal(other *InputSet) bool {
	return is.hash == other.hash
}

// Statement is a Triptych proof statement: a ring of verification keys,
// together with the linking tag a prover claims to have produced using the
// signing key behind one (unrevealed) member of that ring.
//
// Message binding is handled entirely by the caller's choice of transcript
// label and appends before calling Prove/Verify, not by a field on
// Statement; see DESIGN.md for why this implementation does not carry a
// message field the way an earlier revision of the reference protocol did.
type Statement struct {
	params   *Parameters
	inputSet *InputSet
	j        ristretto.Point
	hash     [32]byte
}

// NewStatement builds a statement from parameters, an input set, and a
// linking tag. The input set's size must match params.N(), and it must not
// contain the group identity element (an identity verification key would
// make the corresponding signing key unconstrained).
func NewStatement(params *Parameters, inputSet *InputSet, j ristretto.Point) (*Statement, error) {
	if uint32(inputSet.Len()) != params.N() {
		return nil, invalidParameter("input set size does not match parameters")
	}
	identity := ristretto.NewPoint()
	for _, k := range inputSet.keys {
		if k.Equal(identity) {
			return nil, invalidParameter("input set contains the identity element")
		}
	}
	s := &Statement{params: params, inputSet: inputSet, j: j}
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

// J returns the statement's linking tag.
func (s *Statement) J() ristretto.Point { return s.j }

// Hash returns the 32-byte domain-separated hash of this statement,
// derived from its parameters' and input set's hashes plus its linking
// tag. Proof transcripts bind to this instead of re-hashing the full
// input set on every proof.
func (s *Statement) Hash() [32]byte { return s.hash }
