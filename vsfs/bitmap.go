package vsfs

// Bitmap is one block of allocation bits; bit i tracks whether inode or
// data block i is allocated.
type Bitmap []byte

func (bm Bitmap) Test(i uint32) bool {
	return (bm[i/8]>>(i%8))&1 == 1
}

func (bm Bitmap) Set(i uint32) {
	bm[i/8] |= 1 << (i % 8)
}

func (bm Bitmap) Clear(i uint32) {
	bm[i/8] &= ^(byte(1) << (i % 8))
}

// FindFree returns the first clear bit in [lo, hi).
func (bm Bitmap) FindFree(lo uint32, hi uint32) (uint32, bool) {
	for i := lo; i < hi; i++ {
		if !bm.Test(i) {
			return i, true
		}
	}
	return 0, false
}
