package services

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-erofs/internal/types"
)

// The tests in this package run against one synthetic image built from
// scratch below. Tree shape:
//
//	/
//	├── a.txt        flat-plain regular file, 10 bytes
//	├── data/
//	│   ├── empty    flat-plain regular file, 0 bytes
//	│   └── nested/
//	│       └── note.txt   flat-plain regular file
//	├── docs/
//	│   ├── big.bin        flat-inline regular file, 4100 bytes
//	│   └── chunked.bin    chunk-based regular file, 10000 bytes
//	└── link         symlink to "a.txt"
//
// The image uses 4 KiB blocks with the inode table in block 1 and file
// data in blocks 8 and up.
const (
	tiBlockBits = 12
	tiBlockSize = 1 << tiBlockBits
	tiMetaBase  = tiBlockSize // meta_blkaddr = 1
	tiBlocks    = 14
)

// Inode slot numbers. Slots are 32 bytes; inline data claims the slots
// after its record, so the numbering has gaps.
const (
	tiRootNid    = 0
	tiATxtNid    = 5
	tiLinkNid    = 6
	tiDocsNid    = 8
	tiBigNid     = 13
	tiChunkedNid = 16
	tiDataNid    = 19
	tiNestedNid  = 23
	tiNoteNid    = 27
	tiEmptyNid   = 28
)

var (
	tiATxtContent = []byte("0123456789")
	tiNoteContent = []byte("hello\n")
	tiLinkTarget  = []byte("a.txt")
)

// tiBigContent is 4100 bytes: one full block plus a 4-byte inline tail.
func tiBigContent() []byte {
	b := make([]byte, 4100)
	for i := range b {
		b[i] = byte(i % 251)
	}
	return b
}

// tiChunkedContent is 10000 bytes spread over three chunks.
func tiChunkedContent() []byte {
	b := make([]byte, 10000)
	for i := range b {
		b[i] = byte(i % 253)
	}
	return b
}

type tiDirent struct {
	name     string
	nid      uint64
	fileType types.FileType
}

func tiDirBlock(entries []tiDirent) []byte {
	le := binary.LittleEndian
	direntEnd := len(entries) * types.DirentSize
	block := make([]byte, direntEnd)

	var names []byte
	for i, e := range entries {
		base := i * types.DirentSize
		le.PutUint64(block[base:base+8], e.nid)
		le.PutUint16(block[base+8:base+10], uint16(direntEnd+len(names)))
		block[base+10] = byte(e.fileType)
		names = append(names, e.name...)
	}

	return append(block, names...)
}

func tiPutExtended(img []byte, nid uint64, layout types.DataLayout, mode uint16, size uint64, union uint32, nlink uint32) {
	le := binary.LittleEndian
	rec := img[tiMetaBase+nid*types.InodeSlotSize:]

	le.PutUint16(rec[0:2], 1|uint16(layout)<<types.InodeLayoutBit)
	le.PutUint16(rec[4:6], mode)
	le.PutUint64(rec[8:16], size)
	le.PutUint32(rec[16:20], union)
	le.PutUint32(rec[20:24], uint32(nid)+100) // ino
	le.PutUint32(rec[24:28], 1000)            // uid
	le.PutUint32(rec[28:32], 1000)            // gid
	le.PutUint64(rec[32:40], 1700000001)      // mtime
	le.PutUint32(rec[44:48], nlink)
}

func tiPutCompact(img []byte, nid uint64, layout types.DataLayout, mode uint16, size uint32, union uint32, nlink uint16) {
	le := binary.LittleEndian
	rec := img[tiMetaBase+nid*types.InodeSlotSize:]

	le.PutUint16(rec[0:2], uint16(layout)<<types.InodeLayoutBit)
	le.PutUint16(rec[4:6], mode)
	le.PutUint16(rec[6:8], nlink)
	le.PutUint32(rec[8:12], size)
	le.PutUint32(rec[16:20], union)
	le.PutUint32(rec[20:24], uint32(nid)+100)
	le.PutUint16(rec[24:26], 1000)
	le.PutUint16(rec[26:28], 1000)
}

// tiPutInline writes data right after an inode record, where flat-inline
// tails and chunk tables live.
func tiPutInline(img []byte, nid uint64, recSize uint64, data []byte) {
	copy(img[tiMetaBase+nid*types.InodeSlotSize+recSize:], data)
}

func buildTestImage() []byte {
	le := binary.LittleEndian
	img := make([]byte, tiBlocks*tiBlockSize)

	// superblock
	sb := img[types.SuperOffset:]
	le.PutUint32(sb[0:4], types.SuperMagic)
	le.PutUint32(sb[8:12], types.FeatureCompatMtime)
	sb[12] = tiBlockBits
	le.PutUint16(sb[14:16], tiRootNid)
	le.PutUint64(sb[16:24], 10)         // inos
	le.PutUint64(sb[24:32], 1700000000) // build_time
	le.PutUint32(sb[36:40], tiBlocks)
	le.PutUint32(sb[40:44], 1) // meta_blkaddr
	for i := 0; i < 16; i++ {
		sb[48+i] = byte(i + 1) // uuid
	}
	copy(sb[64:80], "fixture")
	le.PutUint32(sb[80:84], types.FeatureIncompatZeroPadding|types.FeatureIncompatChunkedFile)

	// / (root directory, flat-inline)
	rootDir := tiDirBlock([]tiDirent{
		{".", tiRootNid, types.FileTypeDir},
		{"..", tiRootNid, types.FileTypeDir},
		{"a.txt", tiATxtNid, types.FileTypeRegular},
		{"data", tiDataNid, types.FileTypeDir},
		{"docs", tiDocsNid, types.FileTypeDir},
		{"link", tiLinkNid, types.FileTypeSymlink},
	})
	tiPutExtended(img, tiRootNid, types.DataLayoutFlatInline, types.ModeIFDIR|0o755, uint64(len(rootDir)), 0, 4)
	tiPutInline(img, tiRootNid, types.InodeExtendedSize, rootDir)

	// /a.txt (flat-plain in block 8)
	tiPutCompact(img, tiATxtNid, types.DataLayoutFlatPlain, types.ModeIFREG|0o644, uint32(len(tiATxtContent)), 8, 1)
	copy(img[8*tiBlockSize:], tiATxtContent)

	// /link -> a.txt (flat-inline symlink)
	tiPutCompact(img, tiLinkNid, types.DataLayoutFlatInline, types.ModeIFLNK|0o777, uint32(len(tiLinkTarget)), 0, 1)
	tiPutInline(img, tiLinkNid, types.InodeCompactSize, tiLinkTarget)

	// /docs (flat-inline directory)
	docsDir := tiDirBlock([]tiDirent{
		{".", tiDocsNid, types.FileTypeDir},
		{"..", tiRootNid, types.FileTypeDir},
		{"big.bin", tiBigNid, types.FileTypeRegular},
		{"chunked.bin", tiChunkedNid, types.FileTypeRegular},
	})
	tiPutExtended(img, tiDocsNid, types.DataLayoutFlatInline, types.ModeIFDIR|0o755, uint64(len(docsDir)), 0, 2)
	tiPutInline(img, tiDocsNid, types.InodeExtendedSize, docsDir)

	// /docs/big.bin (flat-inline: block 9 plus a 4-byte tail)
	big := tiBigContent()
	tiPutExtended(img, tiBigNid, types.DataLayoutFlatInline, types.ModeIFREG|0o644, uint64(len(big)), 9, 1)
	copy(img[9*tiBlockSize:], big[:tiBlockSize])
	tiPutInline(img, tiBigNid, types.InodeExtendedSize, big[tiBlockSize:])

	// /docs/chunked.bin (chunk-based over blocks 12, 10, 11)
	chunked := tiChunkedContent()
	tiPutExtended(img, tiChunkedNid, types.DataLayoutChunkBased, types.ModeIFREG|0o644, uint64(len(chunked)), 0, 1)
	table := make([]byte, 12)
	le.PutUint32(table[0:4], 12)
	le.PutUint32(table[4:8], 10)
	le.PutUint32(table[8:12], 11)
	tiPutInline(img, tiChunkedNid, types.InodeExtendedSize, table)
	copy(img[12*tiBlockSize:], chunked[0:4096])
	copy(img[10*tiBlockSize:], chunked[4096:8192])
	copy(img[11*tiBlockSize:], chunked[8192:])

	// /data (flat-inline directory)
	dataDir := tiDirBlock([]tiDirent{
		{".", tiDataNid, types.FileTypeDir},
		{"..", tiRootNid, types.FileTypeDir},
		{"empty", tiEmptyNid, types.FileTypeRegular},
		{"nested", tiNestedNid, types.FileTypeDir},
	})
	tiPutExtended(img, tiDataNid, types.DataLayoutFlatInline, types.ModeIFDIR|0o755, uint64(len(dataDir)), 0, 3)
	tiPutInline(img, tiDataNid, types.InodeExtendedSize, dataDir)

	// /data/nested (flat-inline directory)
	nestedDir := tiDirBlock([]tiDirent{
		{".", tiNestedNid, types.FileTypeDir},
		{"..", tiDataNid, types.FileTypeDir},
		{"note.txt", tiNoteNid, types.FileTypeRegular},
	})
	tiPutExtended(img, tiNestedNid, types.DataLayoutFlatInline, types.ModeIFDIR|0o755, uint64(len(nestedDir)), 0, 2)
	tiPutInline(img, tiNestedNid, types.InodeExtendedSize, nestedDir)

	// /data/nested/note.txt (flat-plain in block 13)
	tiPutCompact(img, tiNoteNid, types.DataLayoutFlatPlain, types.ModeIFREG|0o644, uint32(len(tiNoteContent)), 13, 1)
	copy(img[13*tiBlockSize:], tiNoteContent)

	// /data/empty (zero-length flat-plain file)
	tiPutCompact(img, tiEmptyNid, types.DataLayoutFlatPlain, types.ModeIFREG|0o644, 0, 0, 1)

	return img
}
