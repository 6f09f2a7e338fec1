// Package fssigma implements a small Fiat-Shamir transcript primitive for
// turning an interactive sigma protocol into a non-interactive one: a
// domain-separated append/challenge interface, plus a witness-rekeyable
// deterministic random number generator derived from the transcript state.
//
// There is no Go port of Merlin (the STROBE-based transcript library the
// reference protocol uses) anywhere in the dependency surface available to
// this module, so this package builds the same idea — "absorb everything,
// then squeeze a challenge, while staying resumable for further absorbs" —
// on top of a SHAKE256 extendable-output function, the same technique
// privacypass-challenge-bypass-server's ComputeComposites uses to turn a
// transcript hash into a sequence of non-interactive Schnorr challenges.
package fssigma

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"
)

// Transcript accumulates domain-separated messages and produces challenge
// bytes from them. Appends and challenges may be freely interleaved: taking
// a challenge does not prevent further appends from affecting later
// challenges.
type Transcript struct {
	state sha3.ShakeHash
}

// New starts a transcript under the given top-level domain label.
func New(label string) *Transcript {
	t := &Transcript{state: sha3.NewShake256()}
	t.appendFramed([]byte(label))
	return t
}

// Clone returns an independent copy of the transcript that can be appended
// to or challenged without affecting the original.
func (t *Transcript) Clone() *Transcript {
	return &Transcript{state: t.state.Clone()}
}

func (t *Transcript) appendFramed(data []byte) {
	var length [4]byte
	binary.LittleEndian.PutUint32(length[:], uint32(len(data)))
	t.state.Write(length[:])
	t.state.Write(data)
}

// Append absorbs a labeled message into the transcript.
func (t *Transcript) Append(label string, data []byte) {
	t.appendFramed([]byte(label))
	t.appendFramed(data)
}

// AppendU64 absorbs a labeled 64-bit value, encoded little-endian.
func (t *Transcript) AppendU64(label string, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	t.Append(label, b[:])
}

// ChallengeBytes squeezes n labeled challenge bytes from the transcript.
// The label is absorbed into the live transcript state first, so two calls
// with the same label at different points in a protocol run never collide;
// the squeeze itself is read from a clone, leaving the transcript free to
// absorb more data afterward.
func (t *Transcript) ChallengeBytes(label string, n int) []byte {
	t.appendFramed([]byte(label))
	clone := t.state.Clone()
	out := make([]byte, n)
	if _, err := clone.Read(out); err != nil {
		panic("fssigma: transcript squeeze failed: " + err.Error())
	}
	return out
}

// ChallengeBytes64 is a convenience wrapper around ChallengeBytes for the
// common 64-byte wide-reduction challenge size.
func (t *Transcript) ChallengeBytes64(label string) [64]byte {
	var out [64]byte
	copy(out[:], t.ChallengeBytes(label, 64))
	return out
}

// BuildRNG starts a deterministic RNG builder seeded from the transcript's
// current state. Call RekeyWithWitnessBytes zero or more times before
// Finalize to bind secret material into the derived stream, then Finalize
// to obtain the RNG itself.
func (t *Transcript) BuildRNG() *RNGBuilder {
	return &RNGBuilder{transcript: t.Clone()}
}
