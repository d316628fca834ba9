package vsfs

import (
	"github.com/journalfs/vsfs/common"
	"github.com/journalfs/vsfs/disk"
	"github.com/journalfs/vsfs/util"
	"github.com/journalfs/vsfs/wal"
)

// overlay reads blocks as base content overridden by the journal's
// latest committed image, giving operations the filesystem's current
// logical state without touching the base store.
type overlay struct {
	d      disk.Disk
	latest map[common.Bnum]disk.Block
}

func newOverlay(d disk.Disk, l *wal.Log) (*overlay, error) {
	o := &overlay{d: d}
	if l != nil && l.Used() > wal.HdrSize {
		m, err := l.LatestCommitted()
		if err != nil {
			return nil, err
		}
		o.latest = m
	}
	return o, nil
}

// Read returns a private copy of the logically current block content.
func (o *overlay) Read(bn common.Bnum) (disk.Block, error) {
	if img, ok := o.latest[bn]; ok {
		util.DPrintf(5, "overlay: block %d from journal\n", bn)
		return util.CloneByteSlice(img), nil
	}
	return o.d.Read(bn)
}
