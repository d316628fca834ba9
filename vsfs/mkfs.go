package vsfs

import (
	"time"

	"github.com/journalfs/vsfs/common"
	"github.com/journalfs/vsfs/disk"
	"github.com/journalfs/vsfs/util"
)

// Mkfs formats d as an empty vsfs image: superblock, cleared journal
// region, bitmaps with their reserved bit 0 set, the root directory
// inode, and a root directory block holding the two reserved entries.
// Any previous content, including a stale journal, is destroyed.
func Mkfs(d disk.Disk) (Superblock, error) {
	sb := newSuperblock()

	sbBlk := make(disk.Block, common.BlockSize)
	copy(sbBlk, sb.encode())
	if err := d.Write(common.SuperBlk, sbBlk); err != nil {
		return Superblock{}, err
	}

	// leave the journal uninitialized; the first create sets it up
	zero := make(disk.Block, common.BlockSize)
	for i := uint32(0); i < common.JournalBlocks; i++ {
		if err := d.Write(common.JournalStart+i, zero); err != nil {
			return Superblock{}, err
		}
	}

	inodeBm := make(disk.Block, common.BlockSize)
	Bitmap(inodeBm).Set(uint32(common.ROOTINUM))
	if err := d.Write(common.InodeBmapBlk, inodeBm); err != nil {
		return Superblock{}, err
	}

	// data bit 0 covers the root directory's block
	dataBm := make(disk.Block, common.BlockSize)
	Bitmap(dataBm).Set(0)
	if err := d.Write(common.DataBmapBlk, dataBm); err != nil {
		return Superblock{}, err
	}

	now := uint32(time.Now().Unix())
	root := Inode{
		Type:  TypeDir,
		Links: 2,
		Size:  common.ReservedDirents * common.DirentSz,
		Ctime: now,
		Mtime: now,
	}
	root.Direct[0] = common.DataStartBlk

	itbl0 := make(disk.Block, common.BlockSize)
	SetInodeAt(itbl0, uint32(common.ROOTINUM), root)
	if err := d.Write(common.InodeTblBlk, itbl0); err != nil {
		return Superblock{}, err
	}
	if err := d.Write(common.InodeTblBlk+1, zero); err != nil {
		return Superblock{}, err
	}

	dirBlk := make(disk.Block, common.BlockSize)
	SetDirentAt(dirBlk, 0, mkDirent(common.ROOTINUM, "."))
	SetDirentAt(dirBlk, 1, mkDirent(common.ROOTINUM, ".."))
	if err := d.Write(common.DataStartBlk, dirBlk); err != nil {
		return Superblock{}, err
	}

	if err := d.Barrier(); err != nil {
		return Superblock{}, err
	}
	util.DPrintf(1, "mkfs: volume %s\n", sb.VolumeID)
	return sb, nil
}
