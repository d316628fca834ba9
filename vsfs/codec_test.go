package vsfs

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/journalfs/vsfs/common"
	"github.com/journalfs/vsfs/disk"
)

func TestEncodedSizes(t *testing.T) {
	assert.Equal(t, int(SuperblockSz), len(newSuperblock().encode()))
	assert.Equal(t, int(common.InodeSz), len(Inode{}.encode()))
	assert.Equal(t, int(common.DirentSz), len(Dirent{}.encode()))
}

func TestSuperblockRoundTrip(t *testing.T) {
	sb := newSuperblock()
	got := decodeSuperblock(sb.encode())
	assert.Equal(t, sb, got)
	assert.Equal(t, common.JournalStart, got.JournalBlk)
	assert.Equal(t, common.DataStartBlk, got.DataStart)
	assert.NotEqual(t, uuid.UUID{}, got.VolumeID)
}

func TestInodeRoundTrip(t *testing.T) {
	ino := Inode{
		Type:  TypeFile,
		Links: 1,
		Size:  123,
		Ctime: 1000,
		Mtime: 2000,
	}
	ino.Direct[0] = common.DataStartBlk
	ino.Direct[7] = 63

	blk := make(disk.Block, common.BlockSize)
	SetInodeAt(blk, 31, ino)
	assert.Equal(t, ino, InodeAt(blk, 31))
	assert.Equal(t, Inode{}, InodeAt(blk, 0), "other slots untouched")
}

func TestDirentRoundTrip(t *testing.T) {
	de := mkDirent(5, "hello.txt")
	blk := make(disk.Block, common.BlockSize)
	SetDirentAt(blk, 127, de)
	got := DirentAt(blk, 127)
	assert.Equal(t, de, got)
	assert.Equal(t, "hello.txt", got.FileName())
	assert.True(t, got.nameEquals("hello.txt"))
	assert.False(t, got.nameEquals("hello.txt2"))
	assert.False(t, got.nameEquals("hello.tx"))
}

func TestDirentMaxName(t *testing.T) {
	name := "abcdefghijklmnopqrstuvwxyz0" // 27 chars
	de := mkDirent(1, name)
	assert.Equal(t, name, de.FileName())
	assert.Equal(t, byte(0), de.Name[common.NameLen-1], "name field stays zero-terminated")
}

func TestBitmap(t *testing.T) {
	bm := Bitmap(make([]byte, common.BlockSize))
	assert.False(t, bm.Test(9))
	bm.Set(9)
	assert.True(t, bm.Test(9))
	assert.False(t, bm.Test(8), "neighbor bits unaffected")
	assert.False(t, bm.Test(10), "neighbor bits unaffected")
	bm.Clear(9)
	assert.False(t, bm.Test(9))

	bm.Set(0)
	bm.Set(1)
	i, ok := bm.FindFree(1, common.NumInodes)
	assert.True(t, ok)
	assert.Equal(t, uint32(2), i)

	for i := uint32(0); i < common.NumInodes; i++ {
		bm.Set(i)
	}
	_, ok = bm.FindFree(1, common.NumInodes)
	assert.False(t, ok)
}

func TestInodeBlockIndex(t *testing.T) {
	blk, slot := inodeBlockIndex(0)
	assert.Equal(t, uint32(0), blk)
	assert.Equal(t, uint32(0), slot)
	blk, slot = inodeBlockIndex(31)
	assert.Equal(t, uint32(0), blk)
	assert.Equal(t, uint32(31), slot)
	blk, slot = inodeBlockIndex(32)
	assert.Equal(t, uint32(1), blk)
	assert.Equal(t, uint32(0), slot)
	blk, slot = inodeBlockIndex(63)
	assert.Equal(t, uint32(1), blk)
	assert.Equal(t, uint32(31), slot)
}
