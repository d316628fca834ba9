package vsfs

import "errors"

// Sentinel errors for package vsfs; check with errors.Is.
var (
	ErrNameEmpty   = errors.New("missing name")
	ErrNameTooLong = errors.New("name too long")
	ErrNotDir      = errors.New("root inode not a directory")
	ErrNoDataBlock = errors.New("root directory has no data block")
	ErrNoFreeInode = errors.New("no free inode")
	ErrDirFull     = errors.New("directory full")
	ErrExists      = errors.New("file already exists")

	// ErrCorrupt means an inode the bitmap claims free is in use.
	ErrCorrupt = errors.New("picked inode not free (corrupt?)")

	// ErrBadSuperblock means block 0 does not carry a vsfs superblock.
	ErrBadSuperblock = errors.New("bad superblock")
)
