package wfs

import (
	"bytes"
	"encoding/binary"
	"reflect"
)

// On-disk format constants. mkfs and mount must agree on all of these;
// there is no runtime negotiation.
const (
	// wfsMagic identifies a WFS disk image. Stored little-endian at
	// offset 0.
	wfsMagic uint32 = 0x31534657 // "WFS1"

	// DiskSize is the default capacity of a mkfs'd image, in bytes.
	DiskSize = 1 << 20 // 1 MiB

	// MaxNameLen is the fixed length of a dentry's name field,
	// including the trailing NUL.
	MaxNameLen = 32

	// rootInodeNumber is the stable inode number of the filesystem root.
	// It is created by mkfs and can never be deleted.
	rootInodeNumber uint32 = 0
)

var byteOrder = binary.LittleEndian

// Superblock is the fixed-size header stored at offset 0 of a WFS image.
type Superblock struct {
	Magic uint32
	Head  uint64 // offset of the next free byte in the log region, counted from the end of the superblock, not from byte 0 of the image
}

// inodeHeader is the fixed-size record that precedes every log entry's
// payload. Field order here is the on-disk field order.
type inodeHeader struct {
	InodeNumber uint32
	Deleted     uint32
	Mode        uint32
	Uid         uint32
	Gid         uint32
	Flags       uint32
	Size        uint64 // logical (uncompressed) payload length
	StoredSize  uint64 // physical bytes written after the header
	Atime       int64
	Mtime       int64
	Ctime       int64
	Links       uint32
}

// binarySize returns the on-disk size of a fixed, all-scalar struct by
// summing the encoded size of its exported fields in declaration order.
// Mirrors the teacher's Superblock.binarySize, generalized to any such
// struct so both Superblock and inodeHeader can share one codec.
func binarySize(v any) int {
	rv := reflect.ValueOf(v).Elem()
	n := rv.NumField()
	sz := 0
	for i := 0; i < n; i++ {
		sz += int(rv.Field(i).Type().Size())
	}
	return sz
}

// marshalFixed encodes every exported field of v, in declaration order,
// as little-endian binary. v must be a pointer to a struct of fixed-width
// scalar fields (uint32, uint64, int64, ...).
func marshalFixed(v any) ([]byte, error) {
	var buf bytes.Buffer
	rv := reflect.ValueOf(v).Elem()
	n := rv.NumField()
	for i := 0; i < n; i++ {
		if err := binary.Write(&buf, byteOrder, rv.Field(i).Interface()); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// unmarshalFixed is the inverse of marshalFixed.
func unmarshalFixed(data []byte, v any) error {
	r := bytes.NewReader(data)
	rv := reflect.ValueOf(v).Elem()
	n := rv.NumField()
	for i := 0; i < n; i++ {
		if err := binary.Read(r, byteOrder, rv.Field(i).Addr().Interface()); err != nil {
			return err
		}
	}
	return nil
}

func superblockSize() int { return binarySize(&Superblock{}) }
func inodeHeaderSize() int { return binarySize(&inodeHeader{}) }

// isPastEnd reports whether a header read at a scan position represents
// the sentinel "no more entries" marker: atime == 0. A live header always
// has a non-zero atime because creation always stamps the current time.
func (h *inodeHeader) isPastEnd() bool {
	return h.Atime == 0
}

// isDir reports whether the inode's mode bits mark it as a directory.
func (h *inodeHeader) isDir() bool {
	return h.Mode&S_IFMT == S_IFDIR
}
