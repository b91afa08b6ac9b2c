package erofs

import (
	gopath "path"
	"time"

	"github.com/deploymenttheory/go-erofs/internal/parsers/directories"
	"github.com/deploymenttheory/go-erofs/internal/parsers/inodes"
	"github.com/deploymenttheory/go-erofs/internal/types"
)

// EntryType is the file type hint carried by a directory entry.
type EntryType uint8

const (
	TypeUnknown EntryType = EntryType(types.FileTypeUnknown)
	TypeRegular EntryType = EntryType(types.FileTypeRegular)
	TypeDir     EntryType = EntryType(types.FileTypeDir)
	TypeChrdev  EntryType = EntryType(types.FileTypeChrdev)
	TypeBlkdev  EntryType = EntryType(types.FileTypeBlkdev)
	TypeFifo    EntryType = EntryType(types.FileTypeFifo)
	TypeSocket  EntryType = EntryType(types.FileTypeSocket)
	TypeSymlink EntryType = EntryType(types.FileTypeSymlink)
)

// String returns a short human-readable name for the entry type.
func (t EntryType) String() string {
	return types.FileType(t).String()
}

// IsDir reports whether the entry is a directory.
func (t EntryType) IsDir() bool {
	return t == TypeDir
}

// DirEntry is one (name, child inode number, type hint) triple from a
// directory listing.
type DirEntry struct {
	Name string
	Nid  uint64
	Type EntryType
}

func entryFromInternal(e directories.DirEntry) DirEntry {
	return DirEntry{
		Name: string(e.Name),
		Nid:  e.Nid,
		Type: EntryType(e.FileType),
	}
}

// FileInfo is the decoded metadata of one inode.
type FileInfo struct {
	Name    string
	Path    string
	Nid     uint64
	Type    EntryType
	Size    uint64
	Mode    uint16
	Links   uint32
	UID     uint32
	GID     uint32
	ModTime time.Time
}

// IsDir reports whether the inode is a directory.
func (fi FileInfo) IsDir() bool {
	return fi.Type.IsDir()
}

func infoFromInode(path string, ino *inodes.InodeReader) FileInfo {
	clean := gopath.Clean("/" + path)
	return FileInfo{
		Name:    gopath.Base(clean),
		Path:    clean,
		Nid:     ino.Nid(),
		Type:    EntryType(ino.FileType()),
		Size:    ino.Size(),
		Mode:    ino.Mode(),
		Links:   ino.LinkCount(),
		UID:     ino.UID(),
		GID:     ino.GID(),
		ModTime: ino.ModificationTime(),
	}
}
