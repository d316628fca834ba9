package vsfs

import (
	"errors"

	"github.com/journalfs/vsfs/common"
	"github.com/journalfs/vsfs/disk"
	"github.com/journalfs/vsfs/wal"
)

// DirEntry is one root-directory listing entry.
type DirEntry struct {
	Name string
	Inum common.Inum
	Type uint16
	Size uint32
}

// ReadDir lists the root directory's file entries as seen through the
// overlay: entries logged to the journal but not yet installed are
// included. Read-only; never initializes the journal.
func ReadDir(d disk.Disk) ([]DirEntry, error) {
	if _, err := ReadSuperblock(d); err != nil {
		return nil, err
	}

	l, err := wal.Open(d)
	if err != nil {
		if !errors.Is(err, wal.ErrUninitialized) {
			return nil, err
		}
		l = nil
	}
	o, err := newOverlay(d, l)
	if err != nil {
		return nil, err
	}

	itbl0, err := o.Read(common.InodeTblBlk)
	if err != nil {
		return nil, err
	}
	itbl1, err := o.Read(common.InodeTblBlk + 1)
	if err != nil {
		return nil, err
	}
	root := InodeAt(itbl0, uint32(common.ROOTINUM))
	if root.Type != TypeDir {
		return nil, ErrNotDir
	}
	if root.Direct[0] == 0 {
		return nil, ErrNoDataBlock
	}
	dirImg, err := o.Read(root.Direct[0])
	if err != nil {
		return nil, err
	}

	var entries []DirEntry
	used := usedEntries(root)
	if used > common.DirentsPerBlock {
		used = common.DirentsPerBlock
	}
	for i := common.ReservedDirents; i < used; i++ {
		de := DirentAt(dirImg, i)
		if de.Inum == common.NULLINUM {
			continue
		}
		blkIdx, slot := inodeBlockIndex(de.Inum)
		tbl := itbl0
		if blkIdx == 1 {
			tbl = itbl1
		}
		ino := InodeAt(tbl, slot)
		entries = append(entries, DirEntry{
			Name: de.FileName(),
			Inum: de.Inum,
			Type: ino.Type,
			Size: ino.Size,
		})
	}
	return entries, nil
}
