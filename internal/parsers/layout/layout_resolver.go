// Package layout maps an inode's logical byte range to the ordered,
// gapless list of physical extents backing it, for each supported data
// layout: flat-plain, flat-inline, and direct chunk-based.
package layout

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-erofs/internal/parsers/inodes"
	"github.com/deploymenttheory/go-erofs/internal/types"
)

// InlineBase returns the physical offset of the data that follows an
// inode's on-disk record and inline xattr area: the tail block for
// flat-inline inodes, the chunk table for chunk-based ones. inodeOffset
// is the record's physical offset within the image.
func InlineBase(ino *inodes.InodeReader, inodeOffset uint64) uint64 {
	return inodeOffset + ino.MetaSize() + ino.XattrSize()
}

// ChunkTableSize returns the byte length of the direct chunk table for a
// chunk-based inode, or an error for the indirect index form this reader
// does not implement.
func ChunkTableSize(ino *inodes.InodeReader, blkszBits uint8) (uint64, error) {
	if ino.DataLayout() != types.DataLayoutChunkBased {
		return 0, nil
	}
	format := ino.ChunkFormat()
	if format&types.ChunkFormatIndexes != 0 {
		return 0, fmt.Errorf("%w: inode %d uses indirect chunk indexes",
			types.ErrUnsupportedLayout, ino.Nid())
	}
	chunkBits := uint(format&types.ChunkFormatBlkbitsMask) + uint(blkszBits)
	chunks := chunkCount(ino.Size(), chunkBits)
	return 4 * chunks, nil
}

// ResolveExtents computes the extent list covering [0, size) for ino.
// inodeOffset is the record's physical offset (for inline tails and chunk
// tables); chunkTable holds the raw table bytes for chunk-based inodes
// and is ignored otherwise. The returned extents are sorted by logical
// offset, never overlap, and sum to exactly the logical size.
func ResolveExtents(ino *inodes.InodeReader, blkszBits uint8, inodeOffset uint64, chunkTable []byte, endian binary.ByteOrder) ([]types.Extent, error) {
	if endian == nil {
		endian = binary.LittleEndian
	}

	size := ino.Size()
	if size == 0 {
		return nil, nil
	}

	blockSize := uint64(1) << blkszBits

	switch ino.DataLayout() {
	case types.DataLayoutFlatPlain:
		// One contiguous run; the final block's padding is never exposed.
		return []types.Extent{{
			Logical:  0,
			Physical: uint64(ino.RawBlkAddr()) << blkszBits,
			Length:   size,
		}}, nil

	case types.DataLayoutFlatInline:
		// The last block lives inline after the inode record; for a
		// block-aligned size that is one full block.
		tail := size % blockSize
		if tail == 0 {
			tail = blockSize
		}

		var extents []types.Extent
		if full := size - tail; full > 0 {
			extents = append(extents, types.Extent{
				Logical:  0,
				Physical: uint64(ino.RawBlkAddr()) << blkszBits,
				Length:   full,
			})
		}
		extents = append(extents, types.Extent{
			Logical:  size - tail,
			Physical: InlineBase(ino, inodeOffset),
			Length:   tail,
		})
		return extents, nil

	case types.DataLayoutChunkBased:
		return resolveChunkExtents(ino, blkszBits, chunkTable, size, endian)

	default:
		// NewInodeReader validated the tag; anything else here is a
		// programming error, not image corruption.
		return nil, fmt.Errorf("%w: layout %q reached the extent resolver",
			types.ErrUnsupportedLayout, ino.DataLayout())
	}
}

// resolveChunkExtents emits one extent per fixed-size chunk, the final
// chunk truncated to the remaining logical bytes.
func resolveChunkExtents(ino *inodes.InodeReader, blkszBits uint8, chunkTable []byte, size uint64, endian binary.ByteOrder) ([]types.Extent, error) {
	format := ino.ChunkFormat()
	if format&types.ChunkFormatIndexes != 0 {
		return nil, fmt.Errorf("%w: inode %d uses indirect chunk indexes",
			types.ErrUnsupportedLayout, ino.Nid())
	}

	chunkBits := uint(format&types.ChunkFormatBlkbitsMask) + uint(blkszBits)
	chunkSize := uint64(1) << chunkBits
	chunks := chunkCount(size, chunkBits)

	if uint64(len(chunkTable)) < 4*chunks {
		return nil, fmt.Errorf("%w: insufficient data for chunk table of inode %d: need %d bytes, got %d",
			types.ErrCorruptInode, ino.Nid(), 4*chunks, len(chunkTable))
	}

	extents := make([]types.Extent, 0, chunks)
	for i := uint64(0); i < chunks; i++ {
		blkaddr := endian.Uint32(chunkTable[4*i : 4*i+4])
		if blkaddr == types.NullAddr {
			return nil, fmt.Errorf("%w: inode %d chunk %d has no backing address",
				types.ErrCorruptInode, ino.Nid(), i)
		}

		logical := i * chunkSize
		length := chunkSize
		if remaining := size - logical; remaining < length {
			length = remaining
		}

		extents = append(extents, types.Extent{
			Logical:  logical,
			Physical: uint64(blkaddr) << blkszBits,
			Length:   length,
		})
	}

	return extents, nil
}

func chunkCount(size uint64, chunkBits uint) uint64 {
	chunkSize := uint64(1) << chunkBits
	return (size + chunkSize - 1) >> chunkBits
}
