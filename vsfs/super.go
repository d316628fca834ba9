// Package vsfs implements the filesystem image format: fixed-width
// on-disk records (superblock, inodes, directory entries, allocation
// bitmaps) and the journaled operations over them.
package vsfs

import (
	"github.com/google/uuid"
	"github.com/tchajed/marshal"

	"github.com/journalfs/vsfs/common"
	"github.com/journalfs/vsfs/disk"
)

const (
	// Magic identifies a vsfs superblock ("VSFS", little-endian).
	Magic uint32 = 0x53465356

	// SuperblockSz is the encoded superblock size at the start of block 0.
	SuperblockSz uint32 = 128
)

// Superblock describes the image geometry. It is written once by mkfs
// and read-only afterwards; create and install never touch it.
type Superblock struct {
	Magic       uint32
	BlockSize   uint32
	TotalBlocks uint32
	InodeCount  uint32

	JournalBlk  common.Bnum
	InodeBitmap common.Bnum
	DataBitmap  common.Bnum
	InodeStart  common.Bnum
	DataStart   common.Bnum

	// VolumeID is a per-image random identifier stamped by mkfs; it
	// lives in what the geometry fields leave as padding.
	VolumeID uuid.UUID
}

func newSuperblock() Superblock {
	return Superblock{
		Magic:       Magic,
		BlockSize:   common.BlockSize,
		TotalBlocks: common.TotalBlocks,
		InodeCount:  common.NumInodes,
		JournalBlk:  common.JournalStart,
		InodeBitmap: common.InodeBmapBlk,
		DataBitmap:  common.DataBmapBlk,
		InodeStart:  common.InodeTblBlk,
		DataStart:   common.DataStartBlk,
		VolumeID:    uuid.New(),
	}
}

// encode lays out the superblock record; the tail stays zero.
func (sb Superblock) encode() []byte {
	enc := marshal.NewEnc(uint64(SuperblockSz))
	enc.PutInt32(sb.Magic)
	enc.PutInt32(sb.BlockSize)
	enc.PutInt32(sb.TotalBlocks)
	enc.PutInt32(sb.InodeCount)
	enc.PutInt32(sb.JournalBlk)
	enc.PutInt32(sb.InodeBitmap)
	enc.PutInt32(sb.DataBitmap)
	enc.PutInt32(sb.InodeStart)
	enc.PutInt32(sb.DataStart)
	enc.PutBytes(sb.VolumeID[:])
	return enc.Finish()
}

func decodeSuperblock(b []byte) Superblock {
	dec := marshal.NewDec(b[:SuperblockSz])
	var sb Superblock
	sb.Magic = dec.GetInt32()
	sb.BlockSize = dec.GetInt32()
	sb.TotalBlocks = dec.GetInt32()
	sb.InodeCount = dec.GetInt32()
	sb.JournalBlk = dec.GetInt32()
	sb.InodeBitmap = dec.GetInt32()
	sb.DataBitmap = dec.GetInt32()
	sb.InodeStart = dec.GetInt32()
	sb.DataStart = dec.GetInt32()
	copy(sb.VolumeID[:], dec.GetBytes(16))
	return sb
}

// ReadSuperblock reads and validates the superblock from block 0.
func ReadSuperblock(d disk.Disk) (Superblock, error) {
	blk, err := d.Read(common.SuperBlk)
	if err != nil {
		return Superblock{}, err
	}
	sb := decodeSuperblock(blk)
	if sb.Magic != Magic {
		return Superblock{}, ErrBadSuperblock
	}
	return sb, nil
}
