package wfs

import "bytes"

// dentry is a single fixed-size directory entry: a null-terminated name
// field and the inode number it targets. All dentries are the same
// size so a directory's payload is scannable by index without a
// separate length table, per spec.md §3.
type dentry struct {
	Name        [MaxNameLen]byte
	InodeNumber uint32
}

func dentrySize() int { return binarySize(&dentry{}) }

// newDentry builds a dentry for name, rejecting names that don't fit
// in the fixed field (including its trailing NUL).
func newDentry(name string, ino uint32) (dentry, error) {
	var d dentry
	if len(name) >= MaxNameLen {
		return d, ErrNameTooLong
	}
	copy(d.Name[:], name)
	d.InodeNumber = ino
	return d, nil
}

// name returns the entry's name, truncated at the first NUL.
func (d dentry) name() string {
	n := bytes.IndexByte(d.Name[:], 0)
	if n < 0 {
		n = len(d.Name)
	}
	return string(d.Name[:n])
}

// decodeDentries interprets a directory inode's payload as a packed
// array of dentry records, per spec.md §3 invariant 5 (size is always a
// multiple of sizeof(dentry)).
func decodeDentries(payload []byte) ([]dentry, error) {
	sz := dentrySize()
	if len(payload)%sz != 0 {
		return nil, ErrInvalidSuper
	}
	n := len(payload) / sz
	out := make([]dentry, n)
	for i := 0; i < n; i++ {
		if err := unmarshalFixed(payload[i*sz:(i+1)*sz], &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// encodeDentries is the inverse of decodeDentries, used by mknod/mkdir/
// unlink to build a directory's replacement payload in memory before a
// single append, per the "build in memory first" design note in
// SPEC_FULL.md's Design Notes section.
func encodeDentries(entries []dentry) ([]byte, error) {
	sz := dentrySize()
	out := make([]byte, 0, len(entries)*sz)
	for _, d := range entries {
		buf, err := marshalFixed(&d)
		if err != nil {
			return nil, err
		}
		out = append(out, buf...)
	}
	return out, nil
}

// findDentry returns the index of the entry named name, or -1.
func findDentry(entries []dentry, name string) int {
	for i, d := range entries {
		if d.name() == name {
			return i
		}
	}
	return -1
}
