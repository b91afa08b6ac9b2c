// Package services wires the EROFS decoders into a filesystem facade:
// opening an image, resolving paths, listing and walking directories,
// and reading file content through extent-mapped views.
package services

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/deploymenttheory/go-erofs/internal/interfaces"
	"github.com/deploymenttheory/go-erofs/internal/parsers/directories"
	"github.com/deploymenttheory/go-erofs/internal/parsers/inodes"
	"github.com/deploymenttheory/go-erofs/internal/parsers/layout"
	"github.com/deploymenttheory/go-erofs/internal/parsers/superblock"
	"github.com/deploymenttheory/go-erofs/internal/types"
)

// FilesystemService decodes one opened EROFS image. All state is
// immutable after the superblock is validated, so a single service may
// be shared by concurrent readers; the iterators and file readers it
// hands out are single-owner.
type FilesystemService struct {
	img    interfaces.Image
	sb     *superblock.SuperblockReader
	endian binary.ByteOrder
}

// NewFilesystemService reads and validates the superblock of img.
func NewFilesystemService(img interfaces.Image) (*FilesystemService, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}

	endian := binary.ByteOrder(binary.LittleEndian)

	data, err := img.Bytes(types.SuperOffset, types.SuperblockSize)
	if err != nil {
		return nil, fmt.Errorf("%w: image of %d bytes too small for a superblock at offset %d",
			types.ErrFormat, img.Size(), types.SuperOffset)
	}

	sb, err := superblock.NewSuperblockReader(data, endian)
	if err != nil {
		return nil, err
	}

	return &FilesystemService{
		img:    img,
		sb:     sb,
		endian: endian,
	}, nil
}

// Superblock returns the validated superblock reader.
func (fs *FilesystemService) Superblock() *superblock.SuperblockReader {
	return fs.sb
}

// BlockSize returns the filesystem block size in bytes.
func (fs *FilesystemService) BlockSize() uint32 {
	return fs.sb.BlockSize()
}

// Image returns the backing image.
func (fs *FilesystemService) Image() interfaces.Image {
	return fs.img
}

// InodeByNid decodes the inode record for nid. Records are decoded on
// demand and never cached; callers needing one repeatedly hold on to the
// returned reader.
func (fs *FilesystemService) InodeByNid(nid uint64) (*inodes.InodeReader, error) {
	offset := fs.sb.InodeOffset(nid)

	// Hand the parser up to an extended record's worth of bytes; near the
	// image end a compact record may be all that fits.
	want := uint64(types.InodeExtendedSize)
	if size := fs.img.Size(); offset < size && size-offset < want {
		want = size - offset
	}

	data, err := fs.img.Bytes(offset, want)
	if err != nil {
		return nil, fmt.Errorf("inode %d at offset %d: %w", nid, offset, err)
	}

	return inodes.NewInodeReader(nid, data, fs.endian)
}

// RootInode decodes the root directory inode named by the superblock.
func (fs *FilesystemService) RootInode() (*inodes.InodeReader, error) {
	return fs.InodeByNid(fs.sb.RootNid())
}

// Extents resolves ino's logical byte range into its physical extent
// list, fetching the chunk table first for chunk-based inodes.
func (fs *FilesystemService) Extents(ino *inodes.InodeReader) ([]types.Extent, error) {
	inodeOffset := fs.sb.InodeOffset(ino.Nid())

	var chunkTable []byte
	if ino.DataLayout() == types.DataLayoutChunkBased {
		tableSize, err := layout.ChunkTableSize(ino, fs.sb.BlockSizeBits())
		if err != nil {
			return nil, err
		}
		chunkTable, err = fs.img.Bytes(layout.InlineBase(ino, inodeOffset), tableSize)
		if err != nil {
			return nil, fmt.Errorf("chunk table of inode %d: %w", ino.Nid(), err)
		}
	}

	return layout.ResolveExtents(ino, fs.sb.BlockSizeBits(), inodeOffset, chunkTable, fs.endian)
}

// FileReaderFor builds a logical-offset reader over ino's content.
func (fs *FilesystemService) FileReaderFor(ino *inodes.InodeReader) (*FileReader, error) {
	extents, err := fs.Extents(ino)
	if err != nil {
		return nil, err
	}
	return NewFileReader(fs.img, extents, ino.Size()), nil
}

// OpenFile resolves path and returns a reader over its content.
func (fs *FilesystemService) OpenFile(path string) (*FileReader, error) {
	ino, err := fs.ResolvePath(path)
	if err != nil {
		return nil, err
	}
	return fs.FileReaderFor(ino)
}

// ResolvePath walks a slash-separated path from the root inode to the
// named inode. Empty components are ignored; "." and ".." resolve
// through the directory's own entries.
func (fs *FilesystemService) ResolvePath(path string) (*inodes.InodeReader, error) {
	cur, err := fs.RootInode()
	if err != nil {
		return nil, err
	}

	for _, component := range strings.Split(path, "/") {
		if component == "" {
			continue
		}

		if !cur.IsDirectory() {
			return nil, fmt.Errorf("%w: component %q of %q", types.ErrNotADirectory, component, path)
		}

		entry, err := fs.lookupEntry(cur, component)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", path, err)
		}

		cur, err = fs.InodeByNid(entry.Nid)
		if err != nil {
			return nil, err
		}
	}

	return cur, nil
}

// ReadLink returns the target of the symbolic link at path. Link targets
// are file content under the same data layouts; traversal never follows
// them automatically.
func (fs *FilesystemService) ReadLink(path string) (string, error) {
	ino, err := fs.ResolvePath(path)
	if err != nil {
		return "", err
	}
	if !ino.IsSymlink() {
		return "", fmt.Errorf("%s is not a symbolic link", path)
	}

	reader, err := fs.FileReaderFor(ino)
	if err != nil {
		return "", err
	}

	target, err := reader.Slice(0, ino.Size())
	if err != nil {
		return "", err
	}
	return string(target), nil
}

// lookupEntry linearly scans a directory's blocks for an exact name.
func (fs *FilesystemService) lookupEntry(dir *inodes.InodeReader, name string) (directories.DirEntry, error) {
	extents, err := fs.Extents(dir)
	if err != nil {
		return directories.DirEntry{}, err
	}

	for i, n := uint64(0), fs.dirBlockCount(dir); i < n; i++ {
		reader, err := fs.dirBlockReader(dir, extents, i)
		if err != nil {
			return directories.DirEntry{}, err
		}
		if entry, ok := reader.Lookup(name); ok {
			return entry, nil
		}
	}

	return directories.DirEntry{}, fmt.Errorf("%w: %s", types.ErrNotFound, name)
}

// dirBlockCount returns how many data blocks a directory spans.
func (fs *FilesystemService) dirBlockCount(dir *inodes.InodeReader) uint64 {
	blockSize := uint64(fs.sb.BlockSize())
	return (dir.Size() + blockSize - 1) / blockSize
}

// dirBlockReader decodes directory block index within dir. Every
// supported layout keeps a directory block inside one extent, so the
// block view is always zero-copy.
func (fs *FilesystemService) dirBlockReader(dir *inodes.InodeReader, extents []types.Extent, index uint64) (*directories.DirectoryBlockReader, error) {
	blockSize := uint64(fs.sb.BlockSize())
	logical := index * blockSize

	used := blockSize
	if remaining := dir.Size() - logical; remaining < used {
		used = remaining
	}

	view, ok, err := viewRange(fs.img, extents, logical, used)
	if err != nil {
		return nil, fmt.Errorf("directory block %d of inode %d: %w", index, dir.Nid(), err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: directory block %d of inode %d spans extents",
			types.ErrCorruptDirectory, index, dir.Nid())
	}

	return directories.NewDirectoryBlockReader(view, fs.endian)
}
