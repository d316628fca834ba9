// Package disk provides access to a flat seekable byte store divided
// into fixed-size blocks.
package disk

// Block is a 4096-byte buffer
type Block = []byte

const BlockSize uint32 = 4096

// Disk provides access to a logical block-based disk.
type Disk interface {
	// ReadAt fills p from the byte offset off.
	ReadAt(p []byte, off uint64) error

	// WriteAt writes p at the byte offset off.
	WriteAt(p []byte, off uint64) error

	// Read reads a disk block by address.
	//
	// Expects a < Size().
	Read(a uint32) (Block, error)

	// Write updates a disk block by address.
	//
	// Expects a < Size().
	Write(a uint32, v Block) error

	// Size reports how big the disk is, in blocks.
	Size() (uint32, error)

	// Barrier ensures data is persisted.
	//
	// When it returns, all outstanding writes are guaranteed to be
	// durably on disk.
	Barrier() error

	// Close releases any resources used by the disk and makes it
	// unusable.
	Close() error
}
