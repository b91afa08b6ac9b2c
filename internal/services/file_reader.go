package services

import (
	"fmt"
	"io"
	"sort"

	"github.com/deploymenttheory/go-erofs/internal/interfaces"
	"github.com/deploymenttheory/go-erofs/internal/types"
)

// FileReader reads a file's logical byte range through its resolved
// extent list. Reads past the logical size truncate and report io.EOF;
// they are never an error. A FileReader keeps a cursor for sequential
// reads and is single-owner: concurrent consumers each open their own.
type FileReader struct {
	img     interfaces.Image
	extents []types.Extent
	size    uint64
	offset  uint64
}

// NewFileReader wraps an already-resolved extent list. The extents must
// be sorted by logical offset, gapless, and sum to exactly size.
func NewFileReader(img interfaces.Image, extents []types.Extent, size uint64) *FileReader {
	return &FileReader{img: img, extents: extents, size: size}
}

// Size returns the file's logical size in bytes.
func (f *FileReader) Size() uint64 {
	return f.size
}

// Extents returns the file's physical extent list.
func (f *FileReader) Extents() []types.Extent {
	return f.extents
}

// ReadAt implements io.ReaderAt over the logical byte range.
func (f *FileReader) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("negative read offset %d", off)
	}
	if uint64(off) >= f.size {
		return 0, io.EOF
	}

	want := uint64(len(p))
	remaining := f.size - uint64(off)
	if want > remaining {
		want = remaining
	}

	n, err := f.readInto(p[:want], uint64(off))
	if err != nil {
		return n, err
	}
	if uint64(n) < uint64(len(p)) {
		return n, io.EOF
	}
	return n, nil
}

// Read implements io.Reader, advancing the reader's cursor.
func (f *FileReader) Read(p []byte) (int, error) {
	n, err := f.ReadAt(p, int64(f.offset))
	f.offset += uint64(n)
	return n, err
}

// Slice returns the bytes of [off, off+length), truncated at the logical
// size. When the range lies inside one extent the result is a zero-copy
// view into the image; otherwise the overlapping extents are stitched
// into a fresh buffer.
func (f *FileReader) Slice(off, length uint64) ([]byte, error) {
	if off >= f.size {
		return nil, nil
	}
	if remaining := f.size - off; length > remaining {
		length = remaining
	}
	if length == 0 {
		return nil, nil
	}

	if view, ok, err := viewRange(f.img, f.extents, off, length); ok || err != nil {
		return view, err
	}

	buf := make([]byte, length)
	if _, err := f.readInto(buf, off); err != nil {
		return nil, err
	}
	return buf, nil
}

// readInto fills p starting at logical offset off, which the callers
// guarantee lies within [0, size-len(p)].
func (f *FileReader) readInto(p []byte, off uint64) (int, error) {
	n := 0
	i := findExtent(f.extents, off)
	if i < 0 {
		return 0, fmt.Errorf("%w: no extent covers logical offset %d", types.ErrOutOfBounds, off)
	}

	for n < len(p) && i < len(f.extents) {
		e := f.extents[i]
		rel := off + uint64(n) - e.Logical
		chunk := e.Length - rel
		if want := uint64(len(p) - n); chunk > want {
			chunk = want
		}

		view, err := f.img.Bytes(e.Physical+rel, chunk)
		if err != nil {
			return n, err
		}
		copy(p[n:], view)
		n += int(chunk)
		i++
	}

	return n, nil
}

// findExtent returns the index of the extent containing logical, or -1.
// Extents are sorted and gapless, so a binary search suffices.
func findExtent(extents []types.Extent, logical uint64) int {
	i := sort.Search(len(extents), func(i int) bool {
		return extents[i].Logical > logical
	})
	return i - 1
}

// viewRange returns a zero-copy view of [logical, logical+length) when
// the range lies entirely within one extent. ok is false when the range
// spans extents and needs stitching.
func viewRange(img interfaces.Image, extents []types.Extent, logical, length uint64) ([]byte, bool, error) {
	i := findExtent(extents, logical)
	if i < 0 {
		return nil, false, nil
	}
	e := extents[i]
	rel := logical - e.Logical
	if length > e.Length-rel {
		return nil, false, nil
	}
	view, err := img.Bytes(e.Physical+rel, length)
	if err != nil {
		return nil, true, err
	}
	return view, true, nil
}
