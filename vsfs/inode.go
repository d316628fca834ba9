package vsfs

import (
	"encoding/binary"

	"github.com/tchajed/marshal"

	"github.com/journalfs/vsfs/common"
	"github.com/journalfs/vsfs/disk"
)

// Inode types.
const (
	TypeFree uint16 = 0
	TypeFile uint16 = 1
	TypeDir  uint16 = 2
)

// NDirect is the number of direct data-block pointers per inode.
const NDirect = 8

// Inode is the in-memory form of a 128-byte on-disk inode.
type Inode struct {
	Type   uint16
	Links  uint16
	Size   uint32 // bytes
	Direct [NDirect]common.Bnum
	Ctime  uint32
	Mtime  uint32
}

// encode lays out the inode record; the tail stays zero.
func (ino Inode) encode() []byte {
	enc := marshal.NewEnc(uint64(common.InodeSz))
	u16 := make([]byte, 4)
	binary.LittleEndian.PutUint16(u16[0:2], ino.Type)
	binary.LittleEndian.PutUint16(u16[2:4], ino.Links)
	enc.PutBytes(u16)
	enc.PutInt32(ino.Size)
	for _, bn := range ino.Direct {
		enc.PutInt32(bn)
	}
	enc.PutInt32(ino.Ctime)
	enc.PutInt32(ino.Mtime)
	return enc.Finish()
}

func decodeInode(b []byte) Inode {
	var ino Inode
	dec := marshal.NewDec(b[:common.InodeSz])
	u16 := dec.GetBytes(4)
	ino.Type = binary.LittleEndian.Uint16(u16[0:2])
	ino.Links = binary.LittleEndian.Uint16(u16[2:4])
	ino.Size = dec.GetInt32()
	for i := range ino.Direct {
		ino.Direct[i] = dec.GetInt32()
	}
	ino.Ctime = dec.GetInt32()
	ino.Mtime = dec.GetInt32()
	return ino
}

// InodeAt decodes the inode in table-block slot i.
func InodeAt(blk disk.Block, i uint32) Inode {
	return decodeInode(blk[i*common.InodeSz:])
}

// SetInodeAt encodes ino into table-block slot i.
func SetInodeAt(blk disk.Block, i uint32, ino Inode) {
	copy(blk[i*common.InodeSz:(i+1)*common.InodeSz], ino.encode())
}

// inodeBlockIndex locates an inode in the table: which table block, and
// which slot within it.
func inodeBlockIndex(inum common.Inum) (blkIdx uint32, slot uint32) {
	return uint32(inum) / common.InodesPerBlock, uint32(inum) % common.InodesPerBlock
}
