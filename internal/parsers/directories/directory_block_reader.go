// Package directories parses EROFS directory blocks: a fixed-size dirent
// array at the block start followed by a concatenated name table.
package directories

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-erofs/internal/types"
)

// DirEntry is one decoded (name, child nid, type hint) triple. Name is a
// zero-copy slice into the block passed to the reader; it stays valid as
// long as that block does.
type DirEntry struct {
	Name     []byte
	Nid      uint64
	FileType types.FileType
}

// DirectoryBlockReader decodes one directory data block. A directory
// spanning multiple blocks gets one reader per constituent block; each
// block's dirent array and name table are self-contained.
type DirectoryBlockReader struct {
	entries []DirEntry
}

// NewDirectoryBlockReader decodes block, which must hold exactly the used
// portion of one directory data block (a full block, or the tail of the
// directory's logical size for the final block).
func NewDirectoryBlockReader(block []byte, endian binary.ByteOrder) (*DirectoryBlockReader, error) {
	if endian == nil {
		endian = binary.LittleEndian
	}

	entries, err := parseDirectoryBlock(block, endian)
	if err != nil {
		return nil, err
	}

	return &DirectoryBlockReader{entries: entries}, nil
}

// parseDirectoryBlock validates the dirent array against the name table
// bounds before slicing a single name. The name of entry i spans
// [nameoff(i), nameoff(i+1)); the final entry's name runs to the block
// end with trailing NUL padding trimmed. Offsets must increase
// monotonically and stay inside the block, else the block is corrupt.
func parseDirectoryBlock(block []byte, endian binary.ByteOrder) ([]DirEntry, error) {
	if len(block) == 0 {
		return nil, nil
	}
	if len(block) < types.DirentSize {
		return nil, fmt.Errorf("%w: insufficient data for directory block: need at least %d bytes, got %d",
			types.ErrCorruptDirectory, types.DirentSize, len(block))
	}

	// The first entry's name offset doubles as the end of the dirent
	// array, which fixes the entry count.
	firstNameOff := endian.Uint16(block[8:10])
	if firstNameOff%types.DirentSize != 0 || int(firstNameOff) > len(block) {
		return nil, fmt.Errorf("%w: bad name table offset %d in %d-byte block",
			types.ErrCorruptDirectory, firstNameOff, len(block))
	}

	count := int(firstNameOff) / types.DirentSize
	if count == 0 {
		return nil, fmt.Errorf("%w: directory block with zero entries", types.ErrCorruptDirectory)
	}

	entries := make([]DirEntry, 0, count)

	for i := 0; i < count; i++ {
		base := i * types.DirentSize
		nid := endian.Uint64(block[base : base+8])
		nameOff := endian.Uint16(block[base+8 : base+10])
		fileType := types.FileType(block[base+10])

		if int(nameOff) >= len(block) {
			return nil, fmt.Errorf("%w: entry %d name offset %d beyond block end %d",
				types.ErrCorruptDirectory, i, nameOff, len(block))
		}

		nameEnd := len(block)
		if i+1 < count {
			next := endian.Uint16(block[base+types.DirentSize+8 : base+types.DirentSize+10])
			if int(next) > len(block) || next <= nameOff {
				return nil, fmt.Errorf("%w: entry %d name offset %d not after offset %d of entry %d",
					types.ErrCorruptDirectory, i+1, next, nameOff, i)
			}
			nameEnd = int(next)
		}

		name := block[nameOff:nameEnd]
		if i == count-1 {
			name = trimTrailingNuls(name)
		}
		if len(name) == 0 {
			return nil, fmt.Errorf("%w: entry %d has an empty name", types.ErrCorruptDirectory, i)
		}

		entries = append(entries, DirEntry{
			Name:     name,
			Nid:      nid,
			FileType: fileType,
		})
	}

	return entries, nil
}

// Entries returns the decoded entries in on-disk order.
func (dr *DirectoryBlockReader) Entries() []DirEntry {
	return dr.entries
}

// Lookup scans the block for an exact name match.
func (dr *DirectoryBlockReader) Lookup(name string) (DirEntry, bool) {
	for _, e := range dr.entries {
		if string(e.Name) == name {
			return e, true
		}
	}
	return DirEntry{}, false
}

// trimTrailingNuls drops the NUL padding that may follow the last name in
// a block. Interior names are exactly delimited and never padded.
func trimTrailingNuls(name []byte) []byte {
	end := len(name)
	for end > 0 && name[end-1] == 0 {
		end--
	}
	return name[:end]
}
