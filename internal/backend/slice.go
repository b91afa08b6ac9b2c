// Package backend supplies the image backends an EROFS filesystem can be
// opened from: a caller-owned byte slice or a read-only memory mapping.
// Both hand out zero-copy views and refuse any range past the image end.
package backend

import (
	"fmt"

	"github.com/deploymenttheory/go-erofs/internal/interfaces"
	"github.com/deploymenttheory/go-erofs/internal/types"
)

var _ interfaces.Image = (*SliceImage)(nil)

// SliceImage wraps a caller-owned byte buffer. It is the portable backend
// for hosts with no memory-mapping facility (buffers handed over by an
// embedder, images already held in memory). The buffer is borrowed, never
// copied, and must stay alive and unmodified for the image's lifetime.
type SliceImage struct {
	data []byte
}

// NewSliceImage creates an image over data.
func NewSliceImage(data []byte) *SliceImage {
	return &SliceImage{data: data}
}

// Bytes returns the subslice [offset, offset+length) of the backing buffer.
func (s *SliceImage) Bytes(offset, length uint64) ([]byte, error) {
	return boundedSlice(s.data, offset, length)
}

// Size returns the buffer length.
func (s *SliceImage) Size() uint64 {
	return uint64(len(s.data))
}

// boundedSlice is the single bounds gate shared by all backends. The
// overflow check comes before the addition so a hostile offset cannot
// wrap around.
func boundedSlice(data []byte, offset, length uint64) ([]byte, error) {
	size := uint64(len(data))
	if offset > size || length > size-offset {
		return nil, fmt.Errorf("%w: range [%d, %d+%d) exceeds image size %d",
			types.ErrOutOfBounds, offset, offset, length, size)
	}
	return data[offset : offset+length], nil
}
