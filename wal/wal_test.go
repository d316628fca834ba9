package wal

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/journalfs/vsfs/common"
	"github.com/journalfs/vsfs/disk"
)

type WalSuite struct {
	suite.Suite
	d *disk.MemDisk
	l *Log
}

func (s *WalSuite) SetupTest() {
	s.d = disk.NewMemDisk(common.TotalBlocks)
	l, err := Init(s.d)
	s.Require().NoError(err)
	s.l = l
}

func TestWal(t *testing.T) {
	suite.Run(t, new(WalSuite))
}

func mkBlock(b byte) disk.Block {
	block := make(disk.Block, common.BlockSize)
	for i := range block {
		block[i] = b
	}
	return block
}

func (s *WalSuite) TestOpenBlank() {
	d := disk.NewMemDisk(common.TotalBlocks)
	_, err := Open(d)
	s.Equal(ErrUninitialized, err)
}

func (s *WalSuite) TestInitFresh() {
	s.Equal(HdrSize, s.l.Used())
}

func (s *WalSuite) TestInitIdempotent() {
	s.Require().NoError(s.l.AppendData(common.DataStartBlk, mkBlock(1)))
	used := s.l.Used()

	l2, err := Init(s.d)
	s.Require().NoError(err)
	s.Equal(used, l2.Used(), "re-init must not clobber a valid journal")
}

func (s *WalSuite) TestOpenSeesAppends() {
	s.Require().NoError(s.l.AppendData(common.DataStartBlk, mkBlock(1)))
	s.Require().NoError(s.l.AppendCommit())

	l2, err := Open(s.d)
	s.Require().NoError(err)
	s.Equal(HdrSize+DataRecSize+CommitRecSize, l2.Used())
}

func (s *WalSuite) TestAppendFull() {
	huge := make([]byte, Capacity())
	s.Equal(ErrFull, s.l.Append(huge))
	s.Equal(HdrSize, s.l.Used(), "failed append must not consume space")

	// exactly filling the region is allowed
	exact := make([]byte, Capacity()-HdrSize)
	s.NoError(s.l.Append(exact))
	s.Equal(Capacity(), s.l.Used())
	s.Equal(ErrFull, s.l.Append([]byte{1}))
}

func (s *WalSuite) TestScanRecords() {
	b1 := mkBlock(1)
	b2 := mkBlock(2)
	s.Require().NoError(s.l.AppendData(30, b1))
	s.Require().NoError(s.l.AppendData(31, b2))
	s.Require().NoError(s.l.AppendCommit())

	sc := s.l.NewScanner()
	s.Require().True(sc.Scan())
	s.Equal(RecData, sc.Record().Type)
	s.Equal(common.Bnum(30), sc.Record().Blkno)
	s.Equal(b1, sc.Record().Image)
	s.Require().True(sc.Scan())
	s.Equal(common.Bnum(31), sc.Record().Blkno)
	s.Require().True(sc.Scan())
	s.Equal(RecCommit, sc.Record().Type)
	s.False(sc.Scan())
	s.NoError(sc.Err())
}

func (s *WalSuite) TestScanEmpty() {
	sc := s.l.NewScanner()
	s.False(sc.Scan())
	s.NoError(sc.Err())
}

// rawRec builds a record header followed by payload bytes.
func rawRec(typ uint16, size uint16, payload []byte) []byte {
	rec := make([]byte, RecHdrSize+uint32(len(payload)))
	binary.LittleEndian.PutUint16(rec[0:2], typ)
	binary.LittleEndian.PutUint16(rec[2:4], size)
	copy(rec[RecHdrSize:], payload)
	return rec
}

func (s *WalSuite) TestScanStopsAtUnknownType() {
	s.Require().NoError(s.l.AppendData(30, mkBlock(1)))
	s.Require().NoError(s.l.AppendCommit())
	s.Require().NoError(s.l.Append(rawRec(9, uint16(CommitRecSize), nil)))
	// a valid record past the corruption must not be reached
	s.Require().NoError(s.l.AppendCommit())

	var count int
	sc := s.l.NewScanner()
	for sc.Scan() {
		count++
	}
	s.NoError(sc.Err())
	s.Equal(2, count, "scan stops at the first unknown record type")
}

func (s *WalSuite) TestScanStopsAtBadSize() {
	// DATA record with an inconsistent declared size
	s.Require().NoError(s.l.Append(rawRec(RecData, 100, make([]byte, 96))))
	sc := s.l.NewScanner()
	s.False(sc.Scan())
	s.NoError(sc.Err())
}

func (s *WalSuite) TestScanStopsAtTinySize() {
	s.Require().NoError(s.l.Append(rawRec(RecCommit, 2, nil)))
	sc := s.l.NewScanner()
	s.False(sc.Scan(), "declared size smaller than the header stops the scan")
}

func (s *WalSuite) TestScanIgnoresTornTail() {
	s.Require().NoError(s.l.AppendData(30, mkBlock(1)))
	s.Require().NoError(s.l.AppendCommit())
	// simulate a crash mid-append: record bytes on disk but the header
	// never advanced past them
	torn := rawRec(RecData, uint16(DataRecSize), nil)
	s.Require().NoError(s.d.WriteAt(torn, uint64(common.JournalStart)*uint64(common.BlockSize)+uint64(s.l.Used())))

	var count int
	sc := s.l.NewScanner()
	for sc.Scan() {
		count++
	}
	s.NoError(sc.Err())
	s.Equal(2, count, "bytes past nbytes_used are invisible")
}

func (s *WalSuite) TestLatestCommitted() {
	b1 := mkBlock(1)
	b2 := mkBlock(2)
	b3 := mkBlock(3)
	// txn 1: blocks 30 and 31
	s.Require().NoError(s.l.AppendData(30, b1))
	s.Require().NoError(s.l.AppendData(31, b1))
	s.Require().NoError(s.l.AppendCommit())
	// txn 2: block 30 again
	s.Require().NoError(s.l.AppendData(30, b2))
	s.Require().NoError(s.l.AppendCommit())
	// dangling: block 32, never committed
	s.Require().NoError(s.l.AppendData(32, b3))

	latest, err := s.l.LatestCommitted()
	s.Require().NoError(err)
	s.Equal(b2, latest[30], "later commit wins")
	s.Equal(b1, latest[31])
	_, ok := latest[32]
	s.False(ok, "dangling records are discarded")
}

func (s *WalSuite) TestReset() {
	s.Require().NoError(s.l.AppendData(30, mkBlock(1)))
	s.Require().NoError(s.l.AppendCommit())
	s.Require().NoError(s.l.Reset())
	s.Equal(HdrSize, s.l.Used())

	latest, err := s.l.LatestCommitted()
	s.Require().NoError(err)
	s.Empty(latest)
}
