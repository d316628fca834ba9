// Package wal implements the write-ahead journal.
//
// The journal occupies a fixed run of blocks and is a fixed-capacity
// append-only byte area. An 8-byte header at the start of the region
// records a magic number and the total bytes consumed (header included).
// Records follow: DATA records carry a target block number and a full
// block image, a COMMIT record ends one atomic transaction. The header's
// byte count is rewritten durably after every append, so a crash leaves
// each record either fully visible or not visible at all; the scanner
// treats any malformed tail as not-yet-committed.
package wal

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/tchajed/marshal"

	"github.com/journalfs/vsfs/common"
	"github.com/journalfs/vsfs/disk"
	"github.com/journalfs/vsfs/util"
)

const (
	Magic uint32 = 0x4A524E4C // "JRNL"

	// HdrSize is the size of the journal header.
	HdrSize uint32 = 8
	// RecHdrSize is the size of a record header (type + size).
	RecHdrSize uint32 = 4

	RecData   uint16 = 1
	RecCommit uint16 = 2

	// DataRecSize is the full size of a DATA record: header, target
	// block number, block image.
	DataRecSize uint32 = RecHdrSize + 4 + common.BlockSize
	// CommitRecSize is the full size of a COMMIT record (no payload).
	CommitRecSize uint32 = RecHdrSize
)

var (
	ErrUninitialized = errors.New("journal not initialized")
	ErrFull          = errors.New("journal full")
)

// Log owns the journal region of one disk.
type Log struct {
	d    disk.Disk
	used uint32 // bytes consumed in the region, including the header
}

func base() uint64 {
	return uint64(common.JournalStart) * uint64(common.BlockSize)
}

// Capacity is the byte capacity of the journal region.
func Capacity() uint32 {
	return common.JournalBlocks * common.BlockSize
}

func readHdr(d disk.Disk) (magic uint32, used uint32, err error) {
	buf := make([]byte, HdrSize)
	if err := d.ReadAt(buf, base()); err != nil {
		return 0, 0, err
	}
	dec := marshal.NewDec(buf)
	return dec.GetInt32(), dec.GetInt32(), nil
}

func (l *Log) writeHdr() error {
	enc := marshal.NewEnc(uint64(HdrSize))
	enc.PutInt32(Magic)
	enc.PutInt32(l.used)
	if err := l.d.WriteAt(enc.Finish(), base()); err != nil {
		return err
	}
	return l.d.Barrier()
}

func hdrValid(magic uint32, used uint32) bool {
	return magic == Magic && used >= HdrSize && used <= Capacity()
}

func (l *Log) clearRegion() error {
	zero := make(disk.Block, common.BlockSize)
	for i := uint32(0); i < common.JournalBlocks; i++ {
		if err := l.d.Write(common.JournalStart+i, zero); err != nil {
			return err
		}
	}
	return nil
}

// Init opens the journal, repairing it if the header is invalid: the
// region is zeroed and a fresh empty header written. Idempotent.
func Init(d disk.Disk) (*Log, error) {
	magic, used, err := readHdr(d)
	if err != nil {
		return nil, err
	}
	l := &Log{d: d, used: used}
	if !hdrValid(magic, used) {
		util.DPrintf(1, "wal.Init: reinitializing journal (magic %#x used %d)\n", magic, used)
		if err := l.clearRegion(); err != nil {
			return nil, err
		}
		l.used = HdrSize
		if err := l.writeHdr(); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Open opens the journal but refuses to repair it: an invalid header
// yields ErrUninitialized.
func Open(d disk.Disk) (*Log, error) {
	magic, used, err := readHdr(d)
	if err != nil {
		return nil, err
	}
	if !hdrValid(magic, used) {
		return nil, ErrUninitialized
	}
	return &Log{d: d, used: used}, nil
}

// Used reports the bytes consumed in the region, including the header.
func (l *Log) Used() uint32 {
	return l.used
}

// Fits reports whether n more bytes can be appended.
func (l *Log) Fits(n uint32) bool {
	return l.used+n <= Capacity()
}

// Append writes p at the current end of the journal and durably advances
// the header. Fails with ErrFull, without writing anything, if p does
// not fit.
func (l *Log) Append(p []byte) error {
	if !l.Fits(uint32(len(p))) {
		return ErrFull
	}
	if err := l.d.WriteAt(p, base()+uint64(l.used)); err != nil {
		return err
	}
	l.used += uint32(len(p))
	return l.writeHdr()
}

func putRecHdr(b []byte, typ uint16, size uint16) {
	binary.LittleEndian.PutUint16(b[0:2], typ)
	binary.LittleEndian.PutUint16(b[2:4], size)
}

// AppendData appends a DATA record: the intent to write image to block
// bn.
func (l *Log) AppendData(bn common.Bnum, image disk.Block) error {
	if uint32(len(image)) != common.BlockSize {
		return fmt.Errorf("image is not block sized (%d bytes)", len(image))
	}
	rec := make([]byte, DataRecSize)
	putRecHdr(rec, RecData, uint16(DataRecSize))
	enc := marshal.NewEnc(4)
	enc.PutInt32(bn)
	copy(rec[RecHdrSize:RecHdrSize+4], enc.Finish())
	copy(rec[RecHdrSize+4:], image)
	util.DPrintf(5, "wal.AppendData: block %d at offset %d\n", bn, l.used)
	return l.Append(rec)
}

// AppendCommit appends a COMMIT record, ending one atomic transaction.
func (l *Log) AppendCommit() error {
	rec := make([]byte, CommitRecSize)
	putRecHdr(rec, RecCommit, uint16(CommitRecSize))
	util.DPrintf(5, "wal.AppendCommit: at offset %d\n", l.used)
	return l.Append(rec)
}

// Reset empties the journal: the region is zeroed and a fresh header
// written.
func (l *Log) Reset() error {
	if err := l.clearRegion(); err != nil {
		return err
	}
	l.used = HdrSize
	return l.writeHdr()
}
