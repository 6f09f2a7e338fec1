package gray

// Iterator walks every base-n, m-digit Gray code exactly once, reporting
// only what changed at each step instead of the full digit vector. The
// caller is expected to maintain its own copy of the digit vector and
// apply each (index, old, new) update to it.
type Iterator struct {
	n, m uint32
	i    uint64
	total uint64
	last []uint32
	done bool
}

// NewIterator constructs an Iterator over base n with m digits. It returns
// an error under the same conditions Decompose does.
func NewIterator(n, m uint32) (*Iterator, error) {
	if err := checkParams(n, m); err != nil {
		return nil, err
	}
	total, _ := checkedPow(n, m)
	return &Iterator{
		n:     n,
		m:     m,
		total: uint64(total),
		last:  make([]uint32, m),
	}, nil
}

// Step is one reported change: the digit vector index that moved, its
// previous value, and its new value.
type Step struct {
	Index    int
	Old, New uint32
}

// Next returns the next step, or ok=false once every code has been
// visited. The very first call always returns the sentinel step
// {Index: 0, Old: 0, New: 0}, matching the all-zero starting digit vector.
func (it *Iterator) Next() (Step, bool) {
	if it.done {
		return Step{}, false
	}

	if it.i == 0 {
		it.i++
		return Step{}, true
	}

	if it.i == it.total {
		it.done = true
		return Step{}, false
	}

	next, err := Decompose(it.n, it.m, uint32(it.i))
	if err != nil {
		it.done = true
		return Step{}, false
	}

	index := -1
	for k := range it.last {
		if it.last[k] != next[k] {
			index = k
			break
		}
	}
	if index == -1 {
		it.done = true
		return Step{}, false
	}

	step := Step{Index: index, Old: it.last[index], New: next[index]}
	it.i++
	it.last = next
	return step, true
}
