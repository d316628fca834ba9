package vsfs

import (
	"github.com/journalfs/vsfs/disk"
	"github.com/journalfs/vsfs/wal"
)

// Install replays all committed journal transactions into the base
// image and empties the journal, returning the number of transactions
// applied. Fails with wal.ErrUninitialized if the journal was never
// initialized.
func Install(d disk.Disk) (int, error) {
	l, err := wal.Open(d)
	if err != nil {
		return 0, err
	}
	return l.Install()
}
