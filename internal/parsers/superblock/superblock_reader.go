// Package superblock parses and validates the fixed-offset EROFS
// superblock header.
package superblock

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/deploymenttheory/go-erofs/internal/types"
)

// SuperblockReader parses and provides access to superblock data. It is
// immutable after construction and safe to share between readers.
type SuperblockReader struct {
	superblock *types.ErofsSuperblock
	endian     binary.ByteOrder
}

// NewSuperblockReader creates a new SuperblockReader from the raw header
// bytes (the 128 bytes located at types.SuperOffset within the image).
func NewSuperblockReader(data []byte, endian binary.ByteOrder) (*SuperblockReader, error) {
	if endian == nil {
		endian = binary.LittleEndian
	}

	sb, err := parseSuperblock(data, endian)
	if err != nil {
		return nil, err
	}

	return &SuperblockReader{
		superblock: sb,
		endian:     endian,
	}, nil
}

// parseSuperblock parses raw bytes into an ErofsSuperblock structure and
// validates every field later address arithmetic depends on.
func parseSuperblock(data []byte, endian binary.ByteOrder) (*types.ErofsSuperblock, error) {
	if len(data) < types.SuperblockSize {
		return nil, fmt.Errorf("%w: insufficient data for superblock: need at least %d bytes, got %d",
			types.ErrFormat, types.SuperblockSize, len(data))
	}

	sb := &types.ErofsSuperblock{}

	sb.Magic = endian.Uint32(data[0:4])
	if sb.Magic != types.SuperMagic {
		return nil, fmt.Errorf("%w: invalid superblock magic: got 0x%08X, want 0x%08X",
			types.ErrFormat, sb.Magic, types.SuperMagic)
	}

	sb.Checksum = endian.Uint32(data[4:8])
	sb.FeatureCompat = endian.Uint32(data[8:12])
	sb.BlkszBits = data[12]
	sb.ExtSlots = data[13]
	sb.RootNid = endian.Uint16(data[14:16])
	sb.Inos = endian.Uint64(data[16:24])
	sb.BuildTime = endian.Uint64(data[24:32])
	sb.BuildTimeNsec = endian.Uint32(data[32:36])
	sb.Blocks = endian.Uint32(data[36:40])
	sb.MetaBlkAddr = endian.Uint32(data[40:44])
	sb.XattrBlkAddr = endian.Uint32(data[44:48])
	copy(sb.UUID[:], data[48:64])
	copy(sb.VolumeName[:], data[64:80])
	sb.FeatureIncompat = endian.Uint32(data[80:84])

	// Shift-overflow guard for every later blkaddr<<blkszbits computation.
	if sb.BlkszBits < types.MinBlockSizeBits || sb.BlkszBits > types.MaxBlockSizeBits {
		return nil, fmt.Errorf("%w: block size shift %d outside sane range [%d, %d]",
			types.ErrFormat, sb.BlkszBits, types.MinBlockSizeBits, types.MaxBlockSizeBits)
	}

	if unknown := sb.FeatureIncompat &^ uint32(types.FeatureIncompatSupported); unknown != 0 {
		return nil, fmt.Errorf("%w: unrecognized incompatible feature bits 0x%08X",
			types.ErrUnsupportedFeature, unknown)
	}

	return sb, nil
}

// Superblock returns the parsed superblock.
func (sr *SuperblockReader) Superblock() *types.ErofsSuperblock {
	return sr.superblock
}

// BlockSizeBits returns the log2 of the filesystem block size.
func (sr *SuperblockReader) BlockSizeBits() uint8 {
	return sr.superblock.BlkszBits
}

// BlockSize returns the filesystem block size in bytes.
func (sr *SuperblockReader) BlockSize() uint32 {
	return 1 << sr.superblock.BlkszBits
}

// RootNid returns the inode number of the root directory.
func (sr *SuperblockReader) RootNid() uint64 {
	return uint64(sr.superblock.RootNid)
}

// InodeCount returns the total number of valid inodes in the image.
func (sr *SuperblockReader) InodeCount() uint64 {
	return sr.superblock.Inos
}

// MetaBase returns the byte offset of the inode table within the image.
func (sr *SuperblockReader) MetaBase() uint64 {
	return uint64(sr.superblock.MetaBlkAddr) << sr.superblock.BlkszBits
}

// InodeOffset resolves an inode number to its physical byte offset.
func (sr *SuperblockReader) InodeOffset(nid uint64) uint64 {
	return sr.MetaBase() + nid*types.InodeSlotSize
}

// UUID returns the volume UUID.
func (sr *SuperblockReader) UUID() uuid.UUID {
	id, err := uuid.FromBytes(sr.superblock.UUID[:])
	if err != nil {
		return uuid.Nil
	}
	return id
}

// VolumeName returns the volume label with NUL padding trimmed.
func (sr *SuperblockReader) VolumeName() string {
	return strings.TrimRight(string(sr.superblock.VolumeName[:]), "\x00")
}

// HasCompatFeature reports whether a compatible feature bit is set.
// Unknown compatible bits never block decoding.
func (sr *SuperblockReader) HasCompatFeature(bit uint32) bool {
	return sr.superblock.FeatureCompat&bit != 0
}

// HasIncompatFeature reports whether an incompatible feature bit is set.
func (sr *SuperblockReader) HasIncompatFeature(bit uint32) bool {
	return sr.superblock.FeatureIncompat&bit != 0
}
