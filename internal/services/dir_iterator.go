package services

import (
	"fmt"
	"io"

	"github.com/deploymenttheory/go-erofs/internal/parsers/directories"
	"github.com/deploymenttheory/go-erofs/internal/parsers/inodes"
	"github.com/deploymenttheory/go-erofs/internal/types"
)

// DirIterator lazily yields one directory level's entries in on-disk
// order, decoding one block at a time as the caller pulls. It is
// restartable via Reset and single-owner.
type DirIterator struct {
	fs         *FilesystemService
	dir        *inodes.InodeReader
	extents    []types.Extent
	blockCount uint64

	blockIdx uint64
	entries  []directories.DirEntry
	pos      int
}

// OpenDir resolves path to a directory and returns an iterator over its
// entries. "." and ".." are yielded like any other entry.
func (fs *FilesystemService) OpenDir(path string) (*DirIterator, error) {
	ino, err := fs.ResolvePath(path)
	if err != nil {
		return nil, err
	}
	return fs.DirIteratorFor(ino)
}

// DirIteratorFor returns an entry iterator over an already-resolved
// directory inode.
func (fs *FilesystemService) DirIteratorFor(ino *inodes.InodeReader) (*DirIterator, error) {
	if !ino.IsDirectory() {
		return nil, fmt.Errorf("%w: inode %d", types.ErrNotADirectory, ino.Nid())
	}

	extents, err := fs.Extents(ino)
	if err != nil {
		return nil, err
	}

	return &DirIterator{
		fs:         fs,
		dir:        ino,
		extents:    extents,
		blockCount: fs.dirBlockCount(ino),
	}, nil
}

// Next returns the next entry, or io.EOF when the directory is
// exhausted. Entry names are zero-copy views into the image.
func (it *DirIterator) Next() (directories.DirEntry, error) {
	for it.pos >= len(it.entries) {
		if it.blockIdx >= it.blockCount {
			return directories.DirEntry{}, io.EOF
		}

		reader, err := it.fs.dirBlockReader(it.dir, it.extents, it.blockIdx)
		if err != nil {
			return directories.DirEntry{}, err
		}

		it.blockIdx++
		it.entries = reader.Entries()
		it.pos = 0
	}

	entry := it.entries[it.pos]
	it.pos++
	return entry, nil
}

// Reset rewinds the iterator to the directory's first entry.
func (it *DirIterator) Reset() {
	it.blockIdx = 0
	it.entries = nil
	it.pos = 0
}

// Inode returns the directory inode the iterator reads from.
func (it *DirIterator) Inode() *inodes.InodeReader {
	return it.dir
}
