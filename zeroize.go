package triptych

// zeroizeScalarBytes overwrites b in place. Go has no destructors, so
// there is no equivalent of the reference implementation's
// ZeroizeOnDrop; callers that hold a Witness must call its Destroy
// explicitly once they are done with it.
func zeroizeScalarBytes(b *[32]byte) {
	for i := range b {
		b[i] = 0
	}
}
