package wal

import (
	"github.com/journalfs/vsfs/util"
)

// Install replays every committed transaction onto the base store in
// log order and resets the journal to empty. Within one transaction a
// later image for the same block overwrites an earlier one. Returns the
// number of transactions installed.
//
// Install is idempotent: with nothing new logged, a second run applies
// zero transactions and leaves the base store unchanged.
func (l *Log) Install() (int, error) {
	var pending []Record
	commits := 0
	s := l.NewScanner()
	for s.Scan() {
		rec := s.Record()
		switch rec.Type {
		case RecData:
			pending = append(pending, rec)
		case RecCommit:
			for _, p := range pending {
				util.DPrintf(5, "wal.Install: block %d\n", p.Blkno)
				if err := l.d.Write(p.Blkno, p.Image); err != nil {
					return commits, err
				}
			}
			pending = pending[:0]
			commits++
		}
	}
	if err := s.Err(); err != nil {
		return commits, err
	}
	if err := l.d.Barrier(); err != nil {
		return commits, err
	}
	if err := l.Reset(); err != nil {
		return commits, err
	}
	util.DPrintf(1, "wal.Install: %d transactions\n", commits)
	return commits, nil
}
