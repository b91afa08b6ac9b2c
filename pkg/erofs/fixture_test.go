package erofs_test

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-erofs/internal/types"
)

// The end-to-end tests run against a synthetic image assembled below:
//
//	/
//	├── blob.bin     flat-inline regular file, 4100 bytes
//	├── chunks.bin   chunk-based regular file, 10000 bytes
//	├── hello.txt    flat-plain regular file
//	├── notes/
//	│   └── today.txt
//	└── self         symlink to "notes/today.txt"
//
// 4 KiB blocks, inode table in block 1, file data in blocks 8-13.
const (
	fxBlockBits = 12
	fxBlockSize = 1 << fxBlockBits
	fxMetaBase  = fxBlockSize
	fxBlocks    = 14

	fxRootNid   = 1
	fxHelloNid  = 7
	fxBlobNid   = 8
	fxChunksNid = 11
	fxNotesNid  = 14
	fxTodayNid  = 18
	fxSelfNid   = 19
)

var (
	fxHelloContent = []byte("Hello, EROFS!\n")
	fxTodayContent = []byte("hello from notes\n")
	fxSelfTarget   = []byte("notes/today.txt")
)

func fxBlobContent() []byte {
	b := make([]byte, 4100)
	for i := range b {
		b[i] = byte(i % 241)
	}
	return b
}

func fxChunksContent() []byte {
	b := make([]byte, 10000)
	for i := range b {
		b[i] = byte(i % 239)
	}
	return b
}

type fxDirent struct {
	name     string
	nid      uint64
	fileType types.FileType
}

func fxDirBlock(entries []fxDirent) []byte {
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

func fxPutExtended(img []byte, nid uint64, layout types.DataLayout, mode uint16, size uint64, union uint32, nlink uint32) {
	le := binary.LittleEndian
	rec := img[fxMetaBase+nid*types.InodeSlotSize:]

	le.PutUint16(rec[0:2], 1|uint16(layout)<<types.InodeLayoutBit)
	le.PutUint16(rec[4:6], mode)
	le.PutUint64(rec[8:16], size)
	le.PutUint32(rec[16:20], union)
	le.PutUint32(rec[20:24], uint32(nid)+200)
	le.PutUint32(rec[24:28], 0)
	le.PutUint32(rec[28:32], 0)
	le.PutUint64(rec[32:40], 1690000000)
	le.PutUint32(rec[44:48], nlink)
}

func fxPutCompact(img []byte, nid uint64, layout types.DataLayout, mode uint16, size uint32, union uint32, nlink uint16) {
	le := binary.LittleEndian
	rec := img[fxMetaBase+nid*types.InodeSlotSize:]

	le.PutUint16(rec[0:2], uint16(layout)<<types.InodeLayoutBit)
	le.PutUint16(rec[4:6], mode)
	le.PutUint16(rec[6:8], nlink)
	le.PutUint32(rec[8:12], size)
	le.PutUint32(rec[16:20], union)
	le.PutUint32(rec[20:24], uint32(nid)+200)
}

func fxPutInline(img []byte, nid uint64, recSize uint64, data []byte) {
	copy(img[fxMetaBase+nid*types.InodeSlotSize+recSize:], data)
}

func buildFixtureImage() []byte {
	le := binary.LittleEndian
	img := make([]byte, fxBlocks*fxBlockSize)

	sb := img[types.SuperOffset:]
	le.PutUint32(sb[0:4], types.SuperMagic)
	le.PutUint32(sb[8:12], types.FeatureCompatMtime)
	sb[12] = fxBlockBits
	le.PutUint16(sb[14:16], fxRootNid)
	le.PutUint64(sb[16:24], 7)          // inos
	le.PutUint64(sb[24:32], 1690000000) // build_time
	le.PutUint32(sb[36:40], fxBlocks)
	le.PutUint32(sb[40:44], 1) // meta_blkaddr
	for i := 0; i < 16; i++ {
		sb[48+i] = byte(0xA0 + i) // uuid
	}
	copy(sb[64:80], "e2e")
	le.PutUint32(sb[80:84], types.FeatureIncompatChunkedFile)

	rootDir := fxDirBlock([]fxDirent{
		{".", fxRootNid, types.FileTypeDir},
		{"..", fxRootNid, types.FileTypeDir},
		{"blob.bin", fxBlobNid, types.FileTypeRegular},
		{"chunks.bin", fxChunksNid, types.FileTypeRegular},
		{"hello.txt", fxHelloNid, types.FileTypeRegular},
		{"notes", fxNotesNid, types.FileTypeDir},
		{"self", fxSelfNid, types.FileTypeSymlink},
	})
	fxPutExtended(img, fxRootNid, types.DataLayoutFlatInline, types.ModeIFDIR|0o755, uint64(len(rootDir)), 0, 3)
	fxPutInline(img, fxRootNid, types.InodeExtendedSize, rootDir)

	fxPutCompact(img, fxHelloNid, types.DataLayoutFlatPlain, types.ModeIFREG|0o644, uint32(len(fxHelloContent)), 8, 1)
	copy(img[8*fxBlockSize:], fxHelloContent)

	blob := fxBlobContent()
	fxPutExtended(img, fxBlobNid, types.DataLayoutFlatInline, types.ModeIFREG|0o644, uint64(len(blob)), 9, 1)
	copy(img[9*fxBlockSize:], blob[:fxBlockSize])
	fxPutInline(img, fxBlobNid, types.InodeExtendedSize, blob[fxBlockSize:])

	chunks := fxChunksContent()
	fxPutExtended(img, fxChunksNid, types.DataLayoutChunkBased, types.ModeIFREG|0o644, uint64(len(chunks)), 0, 1)
	table := make([]byte, 12)
	le.PutUint32(table[0:4], 10)
	le.PutUint32(table[4:8], 12)
	le.PutUint32(table[8:12], 11)
	fxPutInline(img, fxChunksNid, types.InodeExtendedSize, table)
	copy(img[10*fxBlockSize:], chunks[0:4096])
	copy(img[12*fxBlockSize:], chunks[4096:8192])
	copy(img[11*fxBlockSize:], chunks[8192:])

	notesDir := fxDirBlock([]fxDirent{
		{".", fxNotesNid, types.FileTypeDir},
		{"..", fxRootNid, types.FileTypeDir},
		{"today.txt", fxTodayNid, types.FileTypeRegular},
	})
	fxPutExtended(img, fxNotesNid, types.DataLayoutFlatInline, types.ModeIFDIR|0o755, uint64(len(notesDir)), 0, 2)
	fxPutInline(img, fxNotesNid, types.InodeExtendedSize, notesDir)

	fxPutCompact(img, fxTodayNid, types.DataLayoutFlatPlain, types.ModeIFREG|0o600, uint32(len(fxTodayContent)), 13, 1)
	copy(img[13*fxBlockSize:], fxTodayContent)

	fxPutCompact(img, fxSelfNid, types.DataLayoutFlatInline, types.ModeIFLNK|0o777, uint32(len(fxSelfTarget)), 0, 1)
	fxPutInline(img, fxSelfNid, types.InodeCompactSize, fxSelfTarget)

	return img
}
