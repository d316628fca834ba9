package wal

import (
	"encoding/binary"

	"github.com/tchajed/marshal"

	"github.com/journalfs/vsfs/common"
	"github.com/journalfs/vsfs/disk"
	"github.com/journalfs/vsfs/util"
)

// Record is one decoded journal record. Blkno and Image are only set
// for DATA records.
type Record struct {
	Type  uint16
	Blkno common.Bnum
	Image disk.Block
}

// Scanner walks the journal's records in append order.
//
// Scanning stops, without error, at the first structurally invalid
// record: a declared size smaller than the record header, a record
// extending past the journal's used bytes, a size inconsistent with the
// record type, or an unknown type. A crash mid-append leaves exactly
// such a tail, which is thereby treated as not-yet-committed. Only disk
// read failures surface through Err.
type Scanner struct {
	l   *Log
	pos uint32
	rec Record
	err error
}

// NewScanner positions a scanner at the first record.
func (l *Log) NewScanner() *Scanner {
	return &Scanner{l: l, pos: HdrSize}
}

// Scan advances to the next well-formed record, reporting whether one
// was found. The record is available from Record until the next call.
func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}
	used := s.l.used
	if s.pos+RecHdrSize > used {
		return false
	}
	hdr := make([]byte, RecHdrSize)
	if err := s.l.d.ReadAt(hdr, base()+uint64(s.pos)); err != nil {
		s.err = err
		return false
	}
	typ := binary.LittleEndian.Uint16(hdr[0:2])
	size := uint32(binary.LittleEndian.Uint16(hdr[2:4]))
	if size < RecHdrSize {
		return false
	}
	if s.pos+size > used {
		return false
	}

	switch typ {
	case RecData:
		if size != DataRecSize {
			return false
		}
		payload := make([]byte, 4+common.BlockSize)
		if err := s.l.d.ReadAt(payload, base()+uint64(s.pos)+uint64(RecHdrSize)); err != nil {
			s.err = err
			return false
		}
		dec := marshal.NewDec(payload[:4])
		s.rec = Record{Type: RecData, Blkno: dec.GetInt32(), Image: payload[4:]}
	case RecCommit:
		if size != CommitRecSize {
			return false
		}
		s.rec = Record{Type: RecCommit}
	default:
		return false
	}

	s.pos += size
	return true
}

// Record returns the record found by the last successful Scan.
func (s *Scanner) Record() Record {
	return s.rec
}

// Err returns the first disk error hit while scanning, if any.
func (s *Scanner) Err() error {
	return s.err
}

// LatestCommitted maps each block touched by a committed transaction to
// its most recent committed image (last-committed-wins). DATA records of
// a transaction that never reached its COMMIT are discarded.
func (l *Log) LatestCommitted() (map[common.Bnum]disk.Block, error) {
	latest := make(map[common.Bnum]disk.Block)
	var pending []Record
	s := l.NewScanner()
	for s.Scan() {
		rec := s.Record()
		switch rec.Type {
		case RecData:
			pending = append(pending, rec)
		case RecCommit:
			for _, p := range pending {
				latest[p.Blkno] = p.Image
			}
			pending = pending[:0]
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	util.DPrintf(3, "wal.LatestCommitted: %d blocks\n", len(latest))
	return latest, nil
}
