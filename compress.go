package wfs

import "fmt"

// CompressionAlgorithm identifies how a regular file's payload bytes
// are encoded on disk. Stored in inodeHeader.Flags (low byte); the
// inode's Size field always carries the logical, uncompressed length
// per spec.md §3 invariant 5's sibling rule for files. Optional:
// mkfs/mount built without the zstd or xz tags only ever produce and
// accept CompressionNone. Grounded on the teacher's comp.go SquashComp
// enum and its per-algorithm RegisterCompHandler/RegisterDecompressor
// build-tag split (comp_xz.go, comp_zstd.go).
type CompressionAlgorithm uint8

const (
	CompressionNone CompressionAlgorithm = 0
	CompressionZstd CompressionAlgorithm = 1
	CompressionXz   CompressionAlgorithm = 2
)

func (c CompressionAlgorithm) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionXz:
		return "xz"
	}
	return fmt.Sprintf("CompressionAlgorithm(%d)", c)
}

type compressor func([]byte) ([]byte, error)
type decompressor func([]byte) ([]byte, error)

var (
	compressors   = map[CompressionAlgorithm]compressor{}
	decompressors = map[CompressionAlgorithm]decompressor{}
)

// registerCompression is called from each optional backend's init(),
// mirroring the teacher's RegisterCompHandler.
func registerCompression(alg CompressionAlgorithm, c compressor, d decompressor) {
	compressors[alg] = c
	decompressors[alg] = d
}

// compressPayload encodes a file's logical bytes for on-disk storage
// under the requested algorithm. Returns the bytes unchanged for
// CompressionNone, or for any algorithm whose backend was not compiled
// in (the write path degrades to storing uncompressed rather than
// failing the operation).
func compressPayload(alg CompressionAlgorithm, data []byte) ([]byte, CompressionAlgorithm, error) {
	if alg == CompressionNone {
		return data, CompressionNone, nil
	}
	c, ok := compressors[alg]
	if !ok {
		return data, CompressionNone, nil
	}
	out, err := c(data)
	if err != nil {
		return nil, CompressionNone, err
	}
	return out, alg, nil
}

// decompressPayload is the inverse of compressPayload, used when
// reading a file whose Flags byte names a compression algorithm.
func decompressPayload(alg CompressionAlgorithm, data []byte, logicalSize uint64) ([]byte, error) {
	if alg == CompressionNone {
		return data, nil
	}
	d, ok := decompressors[alg]
	if !ok {
		return nil, fmt.Errorf("wfs: payload compressed with unsupported algorithm %s", alg)
	}
	out, err := d(data)
	if err != nil {
		return nil, err
	}
	if uint64(len(out)) != logicalSize {
		return nil, ErrInvalidSuper
	}
	return out, nil
}
