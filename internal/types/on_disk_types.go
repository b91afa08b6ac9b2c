package types

// On-disk record layouts. These mirror the wire format field-for-field;
// parsers fill them with encoding/binary and the readers built on top
// expose normalized accessors.

// ErofsSuperblock is the fixed 128-byte header at SuperOffset.
type ErofsSuperblock struct {
	Magic           uint32   // must equal SuperMagic
	Checksum        uint32   // crc32c of the superblock when SB_CHKSUM is set
	FeatureCompat   uint32   // compatible feature bits
	BlkszBits       uint8    // log2 of the filesystem block size
	ExtSlots        uint8    // superblock extension slots
	RootNid         uint16   // inode number of the root directory
	Inos            uint64   // total valid inode count
	BuildTime       uint64   // image build time, seconds
	BuildTimeNsec   uint32   // image build time, nanoseconds part
	Blocks          uint32   // total block count
	MetaBlkAddr     uint32   // start block address of the inode table
	XattrBlkAddr    uint32   // start block address of the shared xattr area
	UUID            [16]byte // volume UUID
	VolumeName      [16]byte // NUL-padded volume label
	FeatureIncompat uint32   // incompatible feature bits
}

// ErofsInodeCompact is the 32-byte space-optimized inode record.
type ErofsInodeCompact struct {
	Format      uint16 // version + data layout bit field
	XattrICount uint16 // inline xattr slot count
	Mode        uint16
	Nlink       uint16
	Size        uint32
	Union       uint32 // raw_blkaddr, rdev, or chunk format depending on layout
	Ino         uint32
	UID         uint16
	GID         uint16
}

// ErofsInodeExtended is the 64-byte inode record with 64-bit size and
// full timestamp/nlink precision.
type ErofsInodeExtended struct {
	Format      uint16
	XattrICount uint16
	Mode        uint16
	Size        uint64
	Union       uint32
	Ino         uint32
	UID         uint32
	GID         uint32
	Mtime       uint64
	MtimeNsec   uint32
	Nlink       uint32
}

// ErofsDirent is the fixed 12-byte directory entry header. The entry's
// name lives in the block's name table at NameOff.
type ErofsDirent struct {
	Nid      uint64 // child inode number
	NameOff  uint16 // name offset relative to the block start
	FileType FileType
	Reserved uint8
}

// Extent maps one contiguous physical byte range to a file's logical
// range. A file's content is the ordered, gapless concatenation of its
// extents, which always sum to exactly the logical size.
type Extent struct {
	Logical  uint64 // offset within the file
	Physical uint64 // offset within the image
	Length   uint64 // length in bytes
}
