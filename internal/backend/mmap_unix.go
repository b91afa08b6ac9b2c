//go:build unix

package backend

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/deploymenttheory/go-erofs/internal/interfaces"
)

var _ interfaces.ImageCloser = (*MmapImage)(nil)

// MmapImage maps an image file read-only and serves zero-copy views
// straight out of the mapping. Views are valid until Close unmaps the
// region.
type MmapImage struct {
	data []byte
	path string
}

// NewMmapImageFromPath opens and maps the file at path.
func NewMmapImageFromPath(path string) (*MmapImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer f.Close()

	return NewMmapImageFromFile(f)
}

// NewMmapImageFromFile maps an already-open file. The mapping survives the
// file being closed; the caller keeps ownership of f.
func NewMmapImageFromFile(f *os.File) (*MmapImage, error) {
	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat image file: %w", err)
	}

	size := fi.Size()
	if size == 0 {
		return nil, fmt.Errorf("image file %s is empty", f.Name())
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("failed to mmap image file %s: %w", f.Name(), err)
	}

	return &MmapImage{data: data, path: f.Name()}, nil
}

// Bytes returns the subslice [offset, offset+length) of the mapping.
func (m *MmapImage) Bytes(offset, length uint64) ([]byte, error) {
	return boundedSlice(m.data, offset, length)
}

// Size returns the mapped length.
func (m *MmapImage) Size() uint64 {
	return uint64(len(m.data))
}

// Path returns the path the image was opened from.
func (m *MmapImage) Path() string {
	return m.path
}

// Close releases the mapping. Any views previously returned by Bytes are
// invalid afterwards.
func (m *MmapImage) Close() error {
	if m.data == nil {
		return nil
	}
	data := m.data
	m.data = nil
	if err := unix.Munmap(data); err != nil {
		return fmt.Errorf("failed to unmap image file %s: %w", m.path, err)
	}
	return nil
}
