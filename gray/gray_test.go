package gray

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestIteratorVisitsEveryDecompositionExactlyOnce mirrors scenario S6: for
// n=3, m=2 the iterator must walk all 9 decompositions, each exactly once,
// and every reported step must agree with an independent call to Decompose.
func TestIteratorVisitsEveryDecompositionExactlyOnce(t *testing.T) {
	const n, m = 3, 2

	it, err := NewIterator(n, m)
	require.NoError(t, err)

	digits := make([]uint32, m)
	seen := make(map[string]bool)
	count := 0

	for i := uint32(0); ; i++ {
		step, ok := it.Next()
		if !ok {
			break
		}
		require.Equal(t, digits[step.Index], step.Old, "step %d: old value at index %d", i, step.Index)
		digits[step.Index] = step.New

		want, err := Decompose(n, m, i)
		require.NoError(t, err)
		require.Equal(t, want, digits, "step %d: digit vector does not match Decompose", i)

		key := key(digits)
		require.False(t, seen[key], "decomposition %v seen more than once", digits)
		seen[key] = true
		count++
	}

	require.Equal(t, 9, count, "expected 9 distinct decompositions")
}

func TestDecomposeAgreesWithVartime(t *testing.T) {
	const n, m = 4, 3
	total := uint32(1)
	for i := 0; i < m; i++ {
		total *= n
	}
	for v := uint32(0); v < total; v++ {
		a, err := Decompose(n, m, v)
		require.NoError(t, err)
		b, err := DecomposeVartime(n, m, v)
		require.NoError(t, err)
		require.Equal(t, a, b, "Decompose/DecomposeVartime disagree at v=%d", v)
	}
}

func TestDecomposeRejectsInvalidParams(t *testing.T) {
	_, err := Decompose(1, 2, 0)
	require.Error(t, err, "expected error for n<=1")

	_, err = Decompose(2, 0, 0)
	require.Error(t, err, "expected error for m==0")

	_, err = Decompose(1<<20, 3, 0)
	require.Error(t, err, "expected error for n^m overflow")
}

func key(digits []uint32) string {
	b := make([]byte, 0, len(digits)*5)
	for _, d := range digits {
		b = append(b, byte(d), byte(d>>8), byte(d>>16), byte(d>>24), ',')
	}
	return string(b)
}
