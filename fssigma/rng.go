package fssigma

import (
	"crypto/rand"
	"encoding/binary"
	"io"

	"golang.org/x/crypto/chacha20"
)

// RNGBuilder derives a deterministic random number generator from a
// transcript snapshot, optionally rekeyed with witness-dependent secret
// bytes first. This mirrors the "transcript RNG" pattern the reference
// protocol uses to bind a prover's nonces to both the public transcript
// state and the secret witness, so that two honest proving attempts over
// the same statement never accidentally reuse nonces even if the caller's
// external randomness source is weak or absent.
type RNGBuilder struct {
	transcript *Transcript
}

// RekeyWithWitnessBytes absorbs labeled secret-witness bytes into the
// builder's transcript snapshot. Safe to call multiple times.
func (b *RNGBuilder) RekeyWithWitnessBytes(label string, witness []byte) *RNGBuilder {
	b.transcript.Append(label, witness)
	return b
}

// Finalize derives the RNG's seed from the builder's transcript state,
// optionally folding in 32 bytes read from extern (pass nil to skip this;
// the verifier passes NullRNG, whose zero bytes leave the seed unchanged,
// to stay fully deterministic; a prover should pass a real entropy source,
// typically crypto/rand.Reader, here).
func (b *RNGBuilder) Finalize(extern io.Reader) *DeterministicRNG {
	seed := b.transcript.ChallengeBytes("fssigma rng seed", 32)
	if extern != nil {
		var ext [32]byte
		if _, err := io.ReadFull(extern, ext[:]); err != nil {
			panic("fssigma: reading external entropy: " + err.Error())
		}
		for i := range seed {
			seed[i] ^= ext[i]
		}
	}
	var key [32]byte
	copy(key[:], seed)
	return newDeterministicRNG(key)
}

// DeterministicRNG is a ChaCha20-keystream-backed random number generator:
// given the same key, it always produces the same byte stream. It
// implements io.Reader so it can be passed anywhere a prover needs an
// entropy source.
type DeterministicRNG struct {
	cipher *chacha20.Cipher
}

func newDeterministicRNG(key [32]byte) *DeterministicRNG {
	var nonce [chacha20.NonceSize]byte
	c, err := chacha20.NewUnauthenticatedCipher(key[:], nonce[:])
	if err != nil {
		panic("fssigma: constructing deterministic RNG: " + err.Error())
	}
	return &DeterministicRNG{cipher: c}
}

// NewDeterministicRNG seeds a DeterministicRNG directly from a 64-bit seed,
// zero-extended into a ChaCha20 key. It is used to give tests a fully
// reproducible, easily quoted seed value (the reference protocol's test
// suite uses the analogous ChaCha12Rng::seed_from_u64).
func NewDeterministicRNG(seed uint64) *DeterministicRNG {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], seed)
	return newDeterministicRNG(key)
}

// Read fills p with the next bytes of the keystream. It never errors.
func (r *DeterministicRNG) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	r.cipher.XORKeyStream(p, p)
	return len(p), nil
}

// Uint64 draws the next 8 bytes of the keystream as a little-endian value.
func (r *DeterministicRNG) Uint64() uint64 {
	var b [8]byte
	_, _ = r.Read(b[:])
	return binary.LittleEndian.Uint64(b[:])
}

// nullRNG is an entropy source that always yields zero bytes. It is used by
// the verifier, which must never consume genuine randomness: every value it
// needs is either public or derived from the transcript itself, and folding
// in an all-zero "external" source keeps Finalize's interface uniform
// between the prover and verifier without special-casing either.
type nullRNG struct{}

// NullRNG is the verifier's fixed, all-zero entropy source.
var NullRNG io.Reader = nullRNG{}

func (nullRNG) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

// SystemRNG is a convenience alias for crypto/rand.Reader, used as the
// default external entropy source for the prover's non-deterministic entry
// points.
var SystemRNG = rand.Reader
