package wfs

import "time"

// appendEntry writes one full log record — header then payload — at
// the current head, advances the superblock's head past it, and
// flushes the superblock. Every mutation in spec.md §4.6 is built as
// one or two calls to this, never as an in-place edit: "every log
// entry carries a complete inode, not a diff" (§3 invariant 7).
func appendEntry(im *image, sb *Superblock, h inodeHeader, payload []byte) error {
	return appendEntryLogicalSize(im, sb, h, payload, uint64(len(payload)))
}

// appendEntryLogicalSize is appendEntry generalized for compressed file
// payloads: the bytes physically written (payload) may be smaller than
// the logical size recorded in the header, which read/write must see
// as the file's true length regardless of how it's stored. Directory
// and tombstone entries always pass logicalSize == len(payload) via
// appendEntry above.
func appendEntryLogicalSize(im *image, sb *Superblock, h inodeHeader, payload []byte, logicalSize uint64) error {
	h.Size = logicalSize
	h.StoredSize = uint64(len(payload))

	hdrBuf, err := marshalFixed(&h)
	if err != nil {
		return err
	}

	need := int64(len(hdrBuf) + len(payload))
	if int64(sb.Head)+need > im.capacity() {
		return ErrNoSpace
	}

	off := int64(superblockSize()) + int64(sb.Head)
	if _, err := im.WriteAt(hdrBuf, off); err != nil {
		return err
	}
	if len(payload) > 0 {
		if _, err := im.WriteAt(payload, off+int64(len(hdrBuf))); err != nil {
			return err
		}
	}

	sb.Head += uint64(need)
	return im.writeSuperblock(sb)
}

// newInodeHeader builds the header for a freshly minted inode: the
// given identity/mode plus all three timestamps set to now and a
// single link.
func newInodeHeader(ino, mode, uid, gid uint32, now time.Time) inodeHeader {
	t := now.Unix()
	return inodeHeader{
		InodeNumber: ino,
		Mode:        mode,
		Uid:         uid,
		Gid:         gid,
		Atime:       t,
		Mtime:       t,
		Ctime:       t,
		Links:       1,
	}
}

// replacementHeader builds a new log entry for an existing inode number,
// carrying forward its identity fields and bumping mtime/ctime to now.
// Used by write, and by the parent-directory side of mknod/mkdir/unlink.
func replacementHeader(prev inodeHeader, now time.Time) inodeHeader {
	h := prev
	h.Mtime = now.Unix()
	h.Ctime = now.Unix()
	return h
}

// tombstoneHeader builds the terminal deletion marker for an inode:
// same inode number, deleted=1, size=0. Per SPEC_FULL.md's adopted
// resolution of the tombstone-vs-resurrection open question, this is
// final — a later entry for the same inode number is never produced.
func tombstoneHeader(prev inodeHeader, now time.Time) inodeHeader {
	h := prev
	h.Deleted = 1
	h.Size = 0
	h.Mtime = now.Unix()
	h.Ctime = now.Unix()
	h.Atime = now.Unix()
	return h
}
