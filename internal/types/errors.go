package types

import "errors"

// Error kinds surfaced by the decoders. Call sites wrap these with
// fmt.Errorf("%w: ...") so errors.Is keeps working through the added
// context. Corruption in one file or directory never invalidates the
// filesystem handle; callers may continue resolving other paths.
var (
	// ErrFormat reports a bad magic signature or malformed superblock.
	ErrFormat = errors.New("erofs: invalid format")

	// ErrUnsupportedFeature reports an incompatible feature flag that is
	// recognized by the format but not implemented by this reader.
	ErrUnsupportedFeature = errors.New("erofs: unsupported feature")

	// ErrCorruptInode reports an internally inconsistent inode record.
	ErrCorruptInode = errors.New("erofs: corrupt inode")

	// ErrCorruptDirectory reports an internally inconsistent directory
	// block (non-monotonic or out-of-range name offsets).
	ErrCorruptDirectory = errors.New("erofs: corrupt directory")

	// ErrUnsupportedLayout reports a valid-but-unimplemented data layout
	// (compressed extents, indirect chunk indexes).
	ErrUnsupportedLayout = errors.New("erofs: unsupported data layout")

	// ErrNotFound reports a path component that does not exist.
	ErrNotFound = errors.New("erofs: not found")

	// ErrNotADirectory reports a lookup through a non-directory inode.
	ErrNotADirectory = errors.New("erofs: not a directory")

	// ErrOutOfBounds reports a computed offset or length past the end of
	// the image. This is the primary bounds-safety gate for every decoder.
	ErrOutOfBounds = errors.New("erofs: read out of bounds")
)
