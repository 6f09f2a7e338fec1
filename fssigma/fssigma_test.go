package fssigma

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChallengeBytesIsDeterministicForSameTranscript(t *testing.T) {
	t1 := New("test")
	t1.Append("x", []byte("hello"))
	c1 := t1.ChallengeBytes("c", 32)

	t2 := New("test")
	t2.Append("x", []byte("hello"))
	c2 := t2.ChallengeBytes("c", 32)

	require.True(t, bytes.Equal(c1, c2))
}

func TestChallengeBytesDivergesOnDifferentAppends(t *testing.T) {
	t1 := New("test")
	t1.Append("x", []byte("hello"))
	c1 := t1.ChallengeBytes("c", 32)

	t2 := New("test")
	t2.Append("x", []byte("goodbye"))
	c2 := t2.ChallengeBytes("c", 32)

	require.False(t, bytes.Equal(c1, c2))
}

func TestChallengeDoesNotConsumeTranscript(t *testing.T) {
	tr := New("test")
	tr.Append("x", []byte("hello"))
	first := tr.ChallengeBytes("c", 32)
	tr.Append("y", []byte("world"))
	second := tr.ChallengeBytes("c", 32)

	require.False(t, bytes.Equal(first, second), "a later challenge under the same label must still reflect the new append")
}

func TestCloneIsIndependent(t *testing.T) {
	tr := New("test")
	tr.Append("x", []byte("hello"))
	clone := tr.Clone()

	clone.Append("y", []byte("only on the clone"))

	original := tr.ChallengeBytes("c", 32)
	cloned := clone.ChallengeBytes("c", 32)
	require.False(t, bytes.Equal(original, cloned))
}

func TestDeterministicRNGIsReproducibleFromSeed(t *testing.T) {
	r1 := NewDeterministicRNG(42)
	r2 := NewDeterministicRNG(42)

	var b1, b2 [64]byte
	_, _ = r1.Read(b1[:])
	_, _ = r2.Read(b2[:])
	require.Equal(t, b1, b2)
}

func TestDeterministicRNGDiffersAcrossSeeds(t *testing.T) {
	r1 := NewDeterministicRNG(1)
	r2 := NewDeterministicRNG(2)

	var b1, b2 [64]byte
	_, _ = r1.Read(b1[:])
	_, _ = r2.Read(b2[:])
	require.NotEqual(t, b1, b2)
}

func TestRekeyWithWitnessBytesChangesDerivedRNG(t *testing.T) {
	base := New("test")
	base.Append("statement", []byte("public data"))

	rng1 := base.Clone().BuildRNG().Finalize(NullRNG)
	rng2 := base.Clone().BuildRNG().RekeyWithWitnessBytes("secret", []byte("witness a")).Finalize(NullRNG)
	rng3 := base.Clone().BuildRNG().RekeyWithWitnessBytes("secret", []byte("witness b")).Finalize(NullRNG)

	var b1, b2, b3 [32]byte
	_, _ = rng1.Read(b1[:])
	_, _ = rng2.Read(b2[:])
	_, _ = rng3.Read(b3[:])

	require.NotEqual(t, b1, b2)
	require.NotEqual(t, b2, b3)
}

func TestNullRNGReadsAllZero(t *testing.T) {
	var buf [16]byte
	n, err := NullRNG.Read(buf[:])
	require.NoError(t, err)
	require.Equal(t, len(buf), n)
	for _, b := range buf {
		require.Zero(t, b)
	}
}
