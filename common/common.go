// Package common holds the fixed on-disk geometry of a vsfs image.
//
// Block roles are derived from these constants, not from per-instance
// state; the superblock records the same numbers for external tools.
package common

type Inum uint32
type Bnum = uint32

const (
	BlockSize uint32 = 4096
	InodeSz   uint32 = 128 // on-disk size
	DirentSz  uint32 = 32
	NameLen   uint32 = 28

	InodesPerBlock  uint32 = BlockSize / InodeSz  // 32
	DirentsPerBlock uint32 = BlockSize / DirentSz // 128
)

const (
	SuperBlk      Bnum   = 0
	JournalStart  Bnum   = 1
	JournalBlocks uint32 = 16
	InodeBmapBlk  Bnum   = JournalStart + JournalBlocks // 17
	DataBmapBlk   Bnum   = InodeBmapBlk + 1             // 18
	InodeTblBlk   Bnum   = DataBmapBlk + 1              // 19
	InodeTblBlks  uint32 = 2
	DataStartBlk  Bnum   = InodeTblBlk + InodeTblBlks // 21

	// Default image geometry written by mkfs.
	TotalBlocks uint32 = 64

	NumInodes uint32 = InodeTblBlks * InodesPerBlock // 64
)

const (
	// ROOTINUM is inode 0, always the root directory.
	ROOTINUM Inum = 0
	// NULLINUM marks an unused dirent slot. The root's own "." and ".."
	// entries carry inode 0 too; they are reserved by position, not value.
	NULLINUM Inum = 0

	// The first two directory slots are reserved ("." and "..").
	ReservedDirents uint32 = 2
)
