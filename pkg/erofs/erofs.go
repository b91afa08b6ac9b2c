// Package erofs is the public surface for reading EROFS images. It
// exposes opening an image from a backend, path-based file access, and
// lazy directory listing and subtree walking. Decoder internals stay in
// internal/; consumers of this package never touch them.
package erofs

import (
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/deploymenttheory/go-erofs/internal/backend"
	"github.com/deploymenttheory/go-erofs/internal/services"
	"github.com/deploymenttheory/go-erofs/internal/types"
)

// Backend supplies bounded, random-access byte-range views over an EROFS
// image. Bytes must return a zero-copy view of [offset, offset+length)
// valid for the backend's lifetime, failing with ErrOutOfBounds instead
// of ever reading past the end.
type Backend interface {
	Bytes(offset, length uint64) ([]byte, error)
	Size() uint64
}

// Filesystem is an opened EROFS image. It is immutable after Open and
// safe for concurrent readers sharing one handle; iterators and files
// obtained from it are single-owner.
type Filesystem struct {
	svc    *services.FilesystemService
	closer io.Closer
}

// Open decodes and validates the superblock of the image served by b.
func Open(b Backend) (*Filesystem, error) {
	svc, err := services.NewFilesystemService(b)
	if err != nil {
		return nil, err
	}
	return &Filesystem{svc: svc}, nil
}

// OpenBytes opens an image held in a caller-owned buffer, for hosts with
// no memory-mapping facility. The buffer must stay alive and unmodified
// for the filesystem's lifetime.
func OpenBytes(data []byte) (*Filesystem, error) {
	return Open(backend.NewSliceImage(data))
}

// Close releases the backing resources when the filesystem owns any
// (a memory mapping opened via OpenPath). It is a no-op otherwise.
func (fs *Filesystem) Close() error {
	if fs.closer == nil {
		return nil
	}
	return fs.closer.Close()
}

// Info summarizes the decoded superblock.
type Info struct {
	BlockSize       uint32
	RootNid         uint64
	InodeCount      uint64
	BuildTime       time.Time
	UUID            uuid.UUID
	VolumeName      string
	FeatureCompat   uint32
	FeatureIncompat uint32
}

// Info returns the image's superblock summary.
func (fs *Filesystem) Info() Info {
	sb := fs.svc.Superblock()
	raw := sb.Superblock()
	return Info{
		BlockSize:       sb.BlockSize(),
		RootNid:         sb.RootNid(),
		InodeCount:      sb.InodeCount(),
		BuildTime:       time.Unix(int64(raw.BuildTime), int64(raw.BuildTimeNsec)),
		UUID:            sb.UUID(),
		VolumeName:      sb.VolumeName(),
		FeatureCompat:   raw.FeatureCompat,
		FeatureIncompat: raw.FeatureIncompat,
	}
}

// BlockSize returns the filesystem block size in bytes.
func (fs *Filesystem) BlockSize() uint32 {
	return fs.svc.BlockSize()
}

// OpenFile resolves path and returns a reader over its content.
func (fs *Filesystem) OpenFile(path string) (*File, error) {
	ino, err := fs.svc.ResolvePath(path)
	if err != nil {
		return nil, err
	}
	r, err := fs.svc.FileReaderFor(ino)
	if err != nil {
		return nil, err
	}
	return &File{r: r, info: infoFromInode(path, ino)}, nil
}

// Stat resolves path and returns the inode's metadata without opening
// its content.
func (fs *Filesystem) Stat(path string) (FileInfo, error) {
	ino, err := fs.svc.ResolvePath(path)
	if err != nil {
		return FileInfo{}, err
	}
	return infoFromInode(path, ino), nil
}

// ReadLink returns the target of the symbolic link at path. Traversal
// never follows links automatically; reading the target is an explicit
// operation.
func (fs *Filesystem) ReadLink(path string) (string, error) {
	return fs.svc.ReadLink(path)
}

// ReadDir returns a lazy iterator over one directory level, in on-disk
// order. "." and ".." are included.
func (fs *Filesystem) ReadDir(path string) (*Dir, error) {
	it, err := fs.svc.OpenDir(path)
	if err != nil {
		return nil, err
	}
	return &Dir{it: it}, nil
}

// WalkDir returns a lazy depth-first pre-order iterator over the whole
// subtree rooted at path. Directories are yielded before their children;
// symbolic links are yielded but never descended into.
func (fs *Filesystem) WalkDir(path string) (*Walker, error) {
	w, err := fs.svc.Walk(path)
	if err != nil {
		return nil, err
	}
	return &Walker{w: w}, nil
}

// Exported error kinds. Match with errors.Is; all errors returned by
// this package wrap exactly one of them or stem from the host OS.
var (
	ErrFormat             = types.ErrFormat
	ErrUnsupportedFeature = types.ErrUnsupportedFeature
	ErrCorruptInode       = types.ErrCorruptInode
	ErrCorruptDirectory   = types.ErrCorruptDirectory
	ErrUnsupportedLayout  = types.ErrUnsupportedLayout
	ErrNotFound           = types.ErrNotFound
	ErrNotADirectory      = types.ErrNotADirectory
	ErrOutOfBounds        = types.ErrOutOfBounds
)
