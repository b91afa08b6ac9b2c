// Package inodes parses EROFS inode records. The two on-disk variants
// (compact 32-byte, extended 64-byte) are normalized into one reader so
// the layers above stay variant-agnostic.
package inodes

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/deploymenttheory/go-erofs/internal/types"
)

// InodeReader provides normalized access to one decoded inode record.
type InodeReader struct {
	nid         uint64
	version     types.InodeVersion
	layout      types.DataLayout
	xattrICount uint16
	mode        uint16
	size        uint64
	union       uint32
	ino         uint32
	uid         uint32
	gid         uint32
	mtime       uint64
	mtimeNsec   uint32
	nlink       uint32
}

// NewInodeReader decodes the inode record for nid from data, which must
// start at the record's physical offset. Compact records need 32 bytes,
// extended records 64; pass types.InodeExtendedSize bytes when available
// and the reader consumes what the variant demands.
func NewInodeReader(nid uint64, data []byte, endian binary.ByteOrder) (*InodeReader, error) {
	if endian == nil {
		endian = binary.LittleEndian
	}

	if len(data) < types.InodeCompactSize {
		return nil, fmt.Errorf("%w: insufficient data for inode %d: need at least %d bytes, got %d",
			types.ErrCorruptInode, nid, types.InodeCompactSize, len(data))
	}

	format := endian.Uint16(data[0:2])
	version := types.InodeVersion((format >> types.InodeVersionBit) & types.InodeVersionMask)
	layout := types.DataLayout((format >> types.InodeLayoutBit) & types.InodeLayoutMask)

	if layout >= types.DataLayoutMax {
		return nil, fmt.Errorf("%w: inode %d has unrecognized data layout %d",
			types.ErrCorruptInode, nid, layout)
	}
	switch layout {
	case types.DataLayoutCompressedFull, types.DataLayoutCompressedCompact:
		return nil, fmt.Errorf("%w: inode %d uses compressed layout %q",
			types.ErrUnsupportedLayout, nid, layout)
	}

	ir := &InodeReader{nid: nid, version: version, layout: layout}

	switch version {
	case types.InodeVersionCompact:
		ir.xattrICount = endian.Uint16(data[2:4])
		ir.mode = endian.Uint16(data[4:6])
		ir.nlink = uint32(endian.Uint16(data[6:8]))
		ir.size = uint64(endian.Uint32(data[8:12]))
		ir.union = endian.Uint32(data[16:20])
		ir.ino = endian.Uint32(data[20:24])
		ir.uid = uint32(endian.Uint16(data[24:26]))
		ir.gid = uint32(endian.Uint16(data[26:28]))

	case types.InodeVersionExtended:
		if len(data) < types.InodeExtendedSize {
			return nil, fmt.Errorf("%w: insufficient data for extended inode %d: need %d bytes, got %d",
				types.ErrCorruptInode, nid, types.InodeExtendedSize, len(data))
		}
		ir.xattrICount = endian.Uint16(data[2:4])
		ir.mode = endian.Uint16(data[4:6])
		ir.size = endian.Uint64(data[8:16])
		ir.union = endian.Uint32(data[16:20])
		ir.ino = endian.Uint32(data[20:24])
		ir.uid = endian.Uint32(data[24:28])
		ir.gid = endian.Uint32(data[28:32])
		ir.mtime = endian.Uint64(data[32:40])
		ir.mtimeNsec = endian.Uint32(data[40:44])
		ir.nlink = endian.Uint32(data[44:48])

	default:
		return nil, fmt.Errorf("%w: inode %d has unrecognized size variant %d",
			types.ErrCorruptInode, nid, version)
	}

	return ir, nil
}

// Nid returns the inode number this record was decoded for.
func (ir *InodeReader) Nid() uint64 {
	return ir.nid
}

// Version returns the record size variant.
func (ir *InodeReader) Version() types.InodeVersion {
	return ir.version
}

// DataLayout returns the validated data layout tag.
func (ir *InodeReader) DataLayout() types.DataLayout {
	return ir.layout
}

// Size returns the logical byte size of the inode's content.
func (ir *InodeReader) Size() uint64 {
	return ir.size
}

// Mode returns the raw POSIX mode word.
func (ir *InodeReader) Mode() uint16 {
	return ir.mode
}

// Ino returns the stat-visible inode number carried in the record.
func (ir *InodeReader) Ino() uint32 {
	return ir.ino
}

// FileType derives the dirent-style type hint from the mode bits.
func (ir *InodeReader) FileType() types.FileType {
	switch ir.mode & types.ModeIFMT {
	case types.ModeIFREG:
		return types.FileTypeRegular
	case types.ModeIFDIR:
		return types.FileTypeDir
	case types.ModeIFLNK:
		return types.FileTypeSymlink
	case types.ModeIFCHR:
		return types.FileTypeChrdev
	case types.ModeIFBLK:
		return types.FileTypeBlkdev
	case types.ModeIFIFO:
		return types.FileTypeFifo
	case types.ModeIFSOCK:
		return types.FileTypeSocket
	default:
		return types.FileTypeUnknown
	}
}

// IsDirectory reports whether the inode is a directory.
func (ir *InodeReader) IsDirectory() bool {
	return ir.mode&types.ModeIFMT == types.ModeIFDIR
}

// IsRegular reports whether the inode is a regular file.
func (ir *InodeReader) IsRegular() bool {
	return ir.mode&types.ModeIFMT == types.ModeIFREG
}

// IsSymlink reports whether the inode is a symbolic link.
func (ir *InodeReader) IsSymlink() bool {
	return ir.mode&types.ModeIFMT == types.ModeIFLNK
}

// LinkCount returns the hard link count.
func (ir *InodeReader) LinkCount() uint32 {
	return ir.nlink
}

// UID returns the owning user ID.
func (ir *InodeReader) UID() uint32 {
	return ir.uid
}

// GID returns the owning group ID.
func (ir *InodeReader) GID() uint32 {
	return ir.gid
}

// ModificationTime returns the inode mtime. Compact records carry no
// timestamp and report the zero time; callers fall back to the image
// build time.
func (ir *InodeReader) ModificationTime() time.Time {
	if ir.version == types.InodeVersionCompact {
		return time.Time{}
	}
	return time.Unix(int64(ir.mtime), int64(ir.mtimeNsec))
}

// RawBlkAddr returns the starting block address for flat layouts.
func (ir *InodeReader) RawBlkAddr() uint32 {
	return ir.union
}

// ChunkFormat returns the chunk format word for chunk-based layouts.
func (ir *InodeReader) ChunkFormat() uint16 {
	return uint16(ir.union)
}

// MetaSize returns the on-disk record size of this variant.
func (ir *InodeReader) MetaSize() uint64 {
	if ir.version == types.InodeVersionExtended {
		return types.InodeExtendedSize
	}
	return types.InodeCompactSize
}

// XattrSize returns the byte length of the inline xattr area that sits
// between the inode record and its inline data or chunk table.
func (ir *InodeReader) XattrSize() uint64 {
	if ir.xattrICount == 0 {
		return 0
	}
	return 12 + 4*(uint64(ir.xattrICount)-1)
}
