// Package types defines the EROFS on-disk structures and constants.
// Field layouts follow the format definition in the Linux kernel's
// fs/erofs/erofs_fs.h; all multi-byte fields are little-endian on disk.
package types

// SuperOffset is the fixed byte offset of the superblock from the start
// of the image. The first kilobyte is reserved for bootloaders.
const SuperOffset = 1024

// SuperMagic is the superblock magic signature ("\xe2\xe1\xf5\xe0" on disk).
const SuperMagic = 0xE0F5E1E2

// SuperblockSize is the size of the fixed superblock header in bytes.
const SuperblockSize = 128

// InodeSlotBits is the log2 of the inode alignment unit. Every inode
// record starts at meta_blkaddr*blocksize + nid*InodeSlotSize.
const InodeSlotBits = 5

// InodeSlotSize is the inode alignment unit (32 bytes).
const InodeSlotSize = 1 << InodeSlotBits

// Block size shift sanity bounds. The format allows 512-byte to 64KiB
// blocks; anything outside this range is treated as a corrupt superblock
// before it can overflow later shift arithmetic.
const (
	MinBlockSizeBits = 9
	MaxBlockSizeBits = 16
)

// InodeVersion selects the on-disk inode record size.
type InodeVersion uint16

const (
	// InodeVersionCompact is the space-optimized 32-byte record with a
	// 32-bit file size.
	InodeVersionCompact InodeVersion = 0

	// InodeVersionExtended is the 64-byte record with a 64-bit file size
	// and full timestamp/nlink precision.
	InodeVersionExtended InodeVersion = 1
)

// DataLayout identifies how an inode's logical bytes map to physical
// storage. Encoded in bits 1-3 of the inode format word.
type DataLayout uint16

const (
	// DataLayoutFlatPlain stores data as one contiguous block run.
	DataLayoutFlatPlain DataLayout = 0

	// DataLayoutCompressedFull is a compressed layout (not supported by
	// this reader).
	DataLayoutCompressedFull DataLayout = 1

	// DataLayoutFlatInline stores all but the final partial block as a
	// contiguous run; the tail lives inline after the inode record.
	DataLayoutFlatInline DataLayout = 2

	// DataLayoutCompressedCompact is a compressed layout (not supported
	// by this reader).
	DataLayoutCompressedCompact DataLayout = 3

	// DataLayoutChunkBased partitions data into fixed-size chunks mapped
	// through a per-inode chunk table.
	DataLayoutChunkBased DataLayout = 4

	// DataLayoutMax is the first invalid layout value.
	DataLayoutMax DataLayout = 5
)

// String returns the conventional name of the data layout.
func (d DataLayout) String() string {
	switch d {
	case DataLayoutFlatPlain:
		return "flat_plain"
	case DataLayoutCompressedFull:
		return "compressed_full"
	case DataLayoutFlatInline:
		return "flat_inline"
	case DataLayoutCompressedCompact:
		return "compressed_compact"
	case DataLayoutChunkBased:
		return "chunk_based"
	default:
		return "invalid"
	}
}

// Inode format word bit fields.
const (
	InodeVersionBit  = 0
	InodeVersionMask = 0x01

	InodeLayoutBit  = 1
	InodeLayoutMask = 0x07
)

// Record sizes for the two inode variants.
const (
	InodeCompactSize  = 32
	InodeExtendedSize = 64
)

// Chunk format bit fields carried in the i_u union of chunk-based inodes.
const (
	// ChunkFormatBlkbitsMask holds the chunk size shift relative to the
	// filesystem block size shift.
	ChunkFormatBlkbitsMask = 0x001F

	// ChunkFormatIndexes selects the indirect 8-byte chunk-index entry
	// form (not supported by this reader; only raw LE32 block addresses
	// are).
	ChunkFormatIndexes = 0x0020
)

// NullAddr marks a hole in a chunk table. The read path has no sparse
// semantics, so encountering it is treated as corruption.
const NullAddr = 0xFFFFFFFF

// DirentSize is the size of one fixed directory entry header.
const DirentSize = 12

// FileType is the dirent type hint stored alongside each directory entry.
type FileType uint8

const (
	FileTypeUnknown FileType = 0
	FileTypeRegular FileType = 1
	FileTypeDir     FileType = 2
	FileTypeChrdev  FileType = 3
	FileTypeBlkdev  FileType = 4
	FileTypeFifo    FileType = 5
	FileTypeSocket  FileType = 6
	FileTypeSymlink FileType = 7
)

// String returns a short human-readable name for the file type.
func (ft FileType) String() string {
	switch ft {
	case FileTypeRegular:
		return "file"
	case FileTypeDir:
		return "dir"
	case FileTypeChrdev:
		return "chrdev"
	case FileTypeBlkdev:
		return "blkdev"
	case FileTypeFifo:
		return "fifo"
	case FileTypeSocket:
		return "socket"
	case FileTypeSymlink:
		return "symlink"
	default:
		return "unknown"
	}
}

// Mode bits of the i_mode field (standard POSIX encoding).
const (
	ModeIFMT   = 0xF000
	ModeIFREG  = 0x8000
	ModeIFDIR  = 0x4000
	ModeIFLNK  = 0xA000
	ModeIFCHR  = 0x2000
	ModeIFBLK  = 0x6000
	ModeIFIFO  = 0x1000
	ModeIFSOCK = 0xC000
)

// Compatible feature flags. Unknown compatible bits are recorded and
// otherwise ignored.
const (
	FeatureCompatSbChksum = 0x00000001
	FeatureCompatMtime    = 0x00000002
)

// Incompatible feature flags recognized by this reader. An image carrying
// any incompatible bit outside FeatureIncompatSupported cannot be decoded
// and fails at open.
const (
	FeatureIncompatZeroPadding = 0x00000001
	FeatureIncompatChunkedFile = 0x00000004

	FeatureIncompatSupported = FeatureIncompatZeroPadding | FeatureIncompatChunkedFile
)
