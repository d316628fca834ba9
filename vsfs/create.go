package vsfs

import (
	"fmt"
	"time"

	"github.com/journalfs/vsfs/common"
	"github.com/journalfs/vsfs/disk"
	"github.com/journalfs/vsfs/util"
	"github.com/journalfs/vsfs/wal"
)

// Create logs the allocation of a new file name in the root directory
// as one atomic journal transaction: the base store is untouched until
// Install replays the journal. Returns the inode number picked.
//
// All validation runs against the overlaid state, so a Create sees the
// effects of earlier committed-but-not-installed transactions.
func Create(d disk.Disk, name string) (common.Inum, error) {
	if name == "" {
		return 0, ErrNameEmpty
	}
	if uint32(len(name)) >= common.NameLen {
		return 0, fmt.Errorf("%w (max %d chars)", ErrNameTooLong, common.NameLen-1)
	}

	l, err := wal.Init(d)
	if err != nil {
		return 0, err
	}
	o, err := newOverlay(d, l)
	if err != nil {
		return 0, err
	}

	inodeBm, err := o.Read(common.InodeBmapBlk)
	if err != nil {
		return 0, err
	}
	itbl0, err := o.Read(common.InodeTblBlk)
	if err != nil {
		return 0, err
	}
	itbl1, err := o.Read(common.InodeTblBlk + 1)
	if err != nil {
		return 0, err
	}

	root := InodeAt(itbl0, uint32(common.ROOTINUM))
	if root.Type != TypeDir {
		return 0, ErrNotDir
	}
	rootDirBlk := root.Direct[0]
	if rootDirBlk == 0 {
		return 0, ErrNoDataBlock
	}
	dirImg, err := o.Read(rootDirBlk)
	if err != nil {
		return 0, err
	}

	// pick the first free inode; inode 0 is the root
	newInum, ok := Bitmap(inodeBm).FindFree(1, common.NumInodes)
	if !ok {
		return 0, ErrNoFreeInode
	}
	blkIdx, slot := inodeBlockIndex(common.Inum(newInum))
	target := itbl0
	if blkIdx == 1 {
		target = itbl1
	}
	if InodeAt(target, slot).Type != TypeFree {
		return 0, ErrCorrupt
	}

	used := usedEntries(root)
	if used >= common.DirentsPerBlock {
		return 0, ErrDirFull
	}
	for i := uint32(0); i < used; i++ {
		de := DirentAt(dirImg, i)
		if de.Inum != common.NULLINUM && de.nameEquals(name) {
			return 0, fmt.Errorf("%w: %s", ErrExists, name)
		}
	}

	// whole-transaction capacity check before any append
	nmods := uint32(3)
	if blkIdx == 1 {
		nmods++
	}
	txnBytes := nmods*wal.DataRecSize + wal.CommitRecSize
	if !l.Fits(txnBytes) {
		return 0, wal.ErrFull
	}

	now := uint32(time.Now().Unix())

	Bitmap(inodeBm).Set(newInum)
	SetInodeAt(target, slot, Inode{
		Type:  TypeFile,
		Links: 1,
		Size:  0,
		Ctime: now,
		Mtime: now,
	})
	SetDirentAt(dirImg, used, mkDirent(common.Inum(newInum), name))
	root.Size += common.DirentSz
	root.Mtime = now
	SetInodeAt(itbl0, uint32(common.ROOTINUM), root)

	util.DPrintf(1, "create: '%s' as inode %d, entry %d\n", name, newInum, used)

	if err := l.AppendData(common.InodeBmapBlk, inodeBm); err != nil {
		return 0, err
	}
	if err := l.AppendData(common.InodeTblBlk, itbl0); err != nil {
		return 0, err
	}
	if blkIdx == 1 {
		if err := l.AppendData(common.InodeTblBlk+1, itbl1); err != nil {
			return 0, err
		}
	}
	if err := l.AppendData(rootDirBlk, dirImg); err != nil {
		return 0, err
	}
	if err := l.AppendCommit(); err != nil {
		return 0, err
	}
	return common.Inum(newInum), nil
}
