// File: internal/interfaces/image.go
package interfaces

// Image provides bounded, random-access byte-range views over an opened
// EROFS image. Slices returned by Bytes alias the backing store and stay
// valid for the image's lifetime; callers must not modify them. An Image
// is safe for concurrent readers once constructed.
type Image interface {
	// Bytes returns a zero-copy view of [offset, offset+length). It fails
	// with types.ErrOutOfBounds when the range exceeds the image; it never
	// reads past the end.
	Bytes(offset, length uint64) ([]byte, error)

	// Size returns the total length of the image in bytes.
	Size() uint64
}

// ImageCloser is an Image owning releasable resources, such as a memory
// mapping. Views obtained from Bytes are invalid after Close.
type ImageCloser interface {
	Image

	// Close releases the backing resources.
	Close() error
}
