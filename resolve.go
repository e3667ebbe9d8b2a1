package wfs

// logEntry is an in-memory handle to one scanned log record: its header
// plus the file offset of its payload, so callers can read the payload
// lazily instead of the scanner copying every payload into memory.
type logEntry struct {
	header     inodeHeader
	payloadOff int64
}

// scanLog walks the log region from its start (just after the
// superblock) up to sb.Head, returning the latest entry seen for each
// inode number. Per spec.md §4.3's tie-break rule, later occurrences in
// the forward scan overwrite earlier ones; tombstones are recorded like
// any other entry; reads stop exactly at head rather than relying on
// isPastEnd, since head is the authoritative end-of-log marker written
// by the appender.
func scanLog(im *image, sb *Superblock) (map[uint32]*logEntry, error) {
	latest := make(map[uint32]*logEntry)
	hdrSize := int64(inodeHeaderSize())
	off := int64(superblockSize())

	for off < int64(superblockSize())+int64(sb.Head) {
		buf := make([]byte, hdrSize)
		if _, err := im.ReadAt(buf, off); err != nil {
			return nil, err
		}
		var h inodeHeader
		if err := unmarshalFixed(buf, &h); err != nil {
			return nil, err
		}
		if h.isPastEnd() {
			break
		}
		entry := &logEntry{header: h, payloadOff: off + hdrSize}
		latest[h.InodeNumber] = entry
		off = entry.payloadOff + int64(h.StoredSize)
	}
	return latest, nil
}

// readPayload reads an entry's raw on-disk payload bytes from the
// image: StoredSize bytes, which for compressed regular-file entries
// is smaller than the logical header.Size. Callers that need the
// logical bytes of a regular file go through Filesystem.readFilePayload,
// which decompresses this result.
func readPayload(im *image, e *logEntry) ([]byte, error) {
	buf := make([]byte, e.header.StoredSize)
	if e.header.StoredSize == 0 {
		return buf, nil
	}
	if _, err := im.ReadAt(buf, e.payloadOff); err != nil {
		return nil, err
	}
	return buf, nil
}

// resolve implements the path resolver of spec.md §4.3: starting from
// the root inode, walk the path's components one at a time, at each
// step requiring the current target to be a live, non-tombstoned
// directory whose payload contains a dentry named after the next
// component. Returns the final component's entry, or ErrNoEntry /
// ErrNotDirectory per the table in §4.6.
func resolve(im *image, latest map[uint32]*logEntry, path string) (*logEntry, error) {
	components, err := splitPath(path)
	if err != nil {
		return nil, err
	}

	target := latest[rootInodeNumber]
	if target == nil || target.header.Deleted != 0 {
		return nil, ErrNoEntry
	}

	for _, name := range components {
		if !target.header.isDir() {
			return nil, ErrNotDirectory
		}
		payload, err := readPayload(im, target)
		if err != nil {
			return nil, err
		}
		entries, err := decodeDentries(payload)
		if err != nil {
			return nil, err
		}
		idx := findDentry(entries, name)
		if idx < 0 {
			return nil, ErrNoEntry
		}
		next := latest[entries[idx].InodeNumber]
		if next == nil || next.header.Deleted != 0 {
			return nil, ErrNoEntry
		}
		target = next
	}
	return target, nil
}
