package erofs

import "github.com/deploymenttheory/go-erofs/internal/services"

// File reads one file's content by logical offset. It implements
// io.Reader and io.ReaderAt; reads past the logical size truncate and
// report io.EOF, never an error. A File is single-owner: concurrent
// consumers each open their own.
type File struct {
	r    *services.FileReader
	info FileInfo
}

// Read implements io.Reader, advancing the file's cursor.
func (f *File) Read(p []byte) (int, error) {
	return f.r.Read(p)
}

// ReadAt implements io.ReaderAt over the logical byte range.
func (f *File) ReadAt(p []byte, off int64) (int, error) {
	return f.r.ReadAt(p, off)
}

// Bytes returns the bytes of [off, off+length), truncated at the logical
// size; a request entirely past the end returns an empty, non-error
// result. When the range lies inside one physical extent the result is a
// zero-copy view valid for the filesystem's lifetime.
func (f *File) Bytes(off, length uint64) ([]byte, error) {
	return f.r.Slice(off, length)
}

// Size returns the file's logical size in bytes.
func (f *File) Size() uint64 {
	return f.r.Size()
}

// Info returns the file's metadata.
func (f *File) Info() FileInfo {
	return f.info
}
