//go:build unix

package erofs

import "github.com/deploymenttheory/go-erofs/internal/backend"

// OpenPath memory-maps the image file at path read-only and opens it.
// Close on the returned filesystem releases the mapping, invalidating
// every zero-copy view obtained from it.
func OpenPath(path string) (*Filesystem, error) {
	img, err := backend.NewMmapImageFromPath(path)
	if err != nil {
		return nil, err
	}

	fs, err := Open(img)
	if err != nil {
		img.Close()
		return nil, err
	}

	fs.closer = img
	return fs, nil
}
