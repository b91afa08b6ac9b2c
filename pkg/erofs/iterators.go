package erofs

import (
	"errors"
	"io"

	"github.com/deploymenttheory/go-erofs/internal/services"
)

// Dir lazily yields one directory level's entries in on-disk order.
// Next returns io.EOF when the level is exhausted; Reset rewinds to the
// first entry.
type Dir struct {
	it *services.DirIterator
}

// Next returns the next directory entry, or io.EOF.
func (d *Dir) Next() (DirEntry, error) {
	e, err := d.it.Next()
	if err != nil {
		return DirEntry{}, err
	}
	return entryFromInternal(e), nil
}

// Reset rewinds the iterator to the directory's first entry.
func (d *Dir) Reset() {
	d.it.Reset()
}

// ReadAll drains the iterator into a slice. Provided for callers that
// want the eager form; large directories should prefer pulling Next.
func (d *Dir) ReadAll() ([]DirEntry, error) {
	var entries []DirEntry
	for {
		e, err := d.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return entries, nil
			}
			return entries, err
		}
		entries = append(entries, e)
	}
}

// WalkEntry is one step of a subtree walk: the entry plus its full
// slash-separated path within the image.
type WalkEntry struct {
	Path  string
	Entry DirEntry
}

// Walker lazily yields a depth-first pre-order traversal of a subtree.
// Next returns io.EOF when the subtree is exhausted; dropping the walker
// releases all traversal state.
type Walker struct {
	w *services.Walker
}

// Next returns the next walk entry, or io.EOF.
func (w *Walker) Next() (WalkEntry, error) {
	e, err := w.w.Next()
	if err != nil {
		return WalkEntry{}, err
	}
	return WalkEntry{Path: e.Path, Entry: entryFromInternal(e.Entry)}, nil
}
