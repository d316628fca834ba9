package vsfs

import (
	"bytes"

	"github.com/tchajed/marshal"

	"github.com/journalfs/vsfs/common"
	"github.com/journalfs/vsfs/disk"
)

// Dirent is a 32-byte directory entry: an inode number and a fixed name
// field, zero-padded past the name.
type Dirent struct {
	Inum common.Inum
	Name [common.NameLen]byte
}

func mkDirent(inum common.Inum, name string) Dirent {
	de := Dirent{Inum: inum}
	copy(de.Name[:common.NameLen-1], name)
	return de
}

// FileName returns the name up to its zero padding.
func (de Dirent) FileName() string {
	i := bytes.IndexByte(de.Name[:], 0)
	if i < 0 {
		i = len(de.Name)
	}
	return string(de.Name[:i])
}

// nameEquals compares against the full zero-padded name field.
func (de Dirent) nameEquals(name string) bool {
	var want [common.NameLen]byte
	copy(want[:], name)
	return de.Name == want
}

func (de Dirent) encode() []byte {
	enc := marshal.NewEnc(uint64(common.DirentSz))
	enc.PutInt32(uint32(de.Inum))
	enc.PutBytes(de.Name[:])
	return enc.Finish()
}

func decodeDirent(b []byte) Dirent {
	var de Dirent
	dec := marshal.NewDec(b[:common.DirentSz])
	de.Inum = common.Inum(dec.GetInt32())
	copy(de.Name[:], dec.GetBytes(uint64(common.NameLen)))
	return de
}

// DirentAt decodes the directory entry in slot i of a directory block.
func DirentAt(blk disk.Block, i uint32) Dirent {
	return decodeDirent(blk[i*common.DirentSz:])
}

// SetDirentAt encodes de into slot i of a directory block.
func SetDirentAt(blk disk.Block, i uint32, de Dirent) {
	copy(blk[i*common.DirentSz:(i+1)*common.DirentSz], de.encode())
}

// usedEntries is a directory's logical entry count, floored at the two
// reserved slots.
func usedEntries(dir Inode) uint32 {
	n := dir.Size / common.DirentSz
	if n < common.ReservedDirents {
		n = common.ReservedDirents
	}
	return n
}
