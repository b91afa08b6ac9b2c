package services

import (
	"io"
	gopath "path"

	"github.com/deploymenttheory/go-erofs/internal/parsers/directories"
	"github.com/deploymenttheory/go-erofs/internal/types"
)

// WalkEntry is one entry yielded by a Walker: the entry itself plus its
// full slash-separated path within the image.
type WalkEntry struct {
	Path  string
	Entry directories.DirEntry
}

// Walker produces a lazy depth-first pre-order traversal of a directory
// subtree. Recursion is an explicit frame stack rather than call-stack
// recursion, so memory is bounded by tree depth and dropping the walker
// releases all traversal state at once. Symbolic links are yielded as
// entries but never descended into, and "."/".." are skipped so every
// reachable inode is visited exactly once.
type Walker struct {
	fs    *FilesystemService
	stack []walkFrame
}

type walkFrame struct {
	path string
	dir  *DirIterator
}

// Walk resolves path to a directory and returns a walker over its
// subtree.
func (fs *FilesystemService) Walk(path string) (*Walker, error) {
	it, err := fs.OpenDir(path)
	if err != nil {
		return nil, err
	}

	root := gopath.Clean("/" + path)
	return &Walker{
		fs:    fs,
		stack: []walkFrame{{path: root, dir: it}},
	}, nil
}

// Next returns the next entry in depth-first pre-order, or io.EOF when
// the subtree is exhausted. A directory entry is yielded before its
// children.
func (w *Walker) Next() (WalkEntry, error) {
	for len(w.stack) > 0 {
		top := &w.stack[len(w.stack)-1]

		entry, err := top.dir.Next()
		if err == io.EOF {
			w.stack = w.stack[:len(w.stack)-1]
			continue
		}
		if err != nil {
			return WalkEntry{}, err
		}

		name := string(entry.Name)
		if name == "." || name == ".." {
			continue
		}

		full := gopath.Join(top.path, name)

		if entry.FileType == types.FileTypeDir {
			child, err := w.fs.InodeByNid(entry.Nid)
			if err != nil {
				return WalkEntry{}, err
			}
			childIt, err := w.fs.DirIteratorFor(child)
			if err != nil {
				return WalkEntry{}, err
			}
			w.stack = append(w.stack, walkFrame{path: full, dir: childIt})
		}

		return WalkEntry{Path: full, Entry: entry}, nil
	}

	return WalkEntry{}, io.EOF
}

// Depth returns the current traversal stack depth.
func (w *Walker) Depth() int {
	return len(w.stack)
}
