package wfs

import (
	"log"
	"sync"
	"time"
)

// Stat is the attribute record returned by Getattr, matching the
// fields spec.md §4.6 requires: mode, link count, ownership, size and
// modification time.
type Stat struct {
	Mode  uint32
	Nlink uint32
	Uid   uint32
	Gid   uint32
	Size  uint64
	Mtime int64
}

// Filesystem is a single mounted WFS image. All operations serialize
// through mu: spec.md §5 specifies a single-threaded dispatcher with no
// internal locking requirement, but go-fuse invokes node methods from
// its own worker goroutines, so fsnode.go's binding needs this mutex to
// honor that single-writer model.
type Filesystem struct {
	mu      sync.Mutex
	im      *image
	sb      Superblock
	nextIno uint32

	compression CompressionAlgorithm
	logger      *log.Logger
}

// Option configures a Filesystem at Open time, mirroring the teacher's
// options.go functional-options pattern (Option func(sb *Superblock)
// error), generalized from "mutate the superblock" to "mutate the
// Filesystem" since WFS has configuration that lives above the
// superblock (the write-path compression choice).
type Option func(*Filesystem) error

// WithCompression selects the algorithm used to encode new file
// payloads on Write. Writing with an algorithm whose backend wasn't
// compiled in (no zstd/xz build tag) silently falls back to storing
// the payload uncompressed; existing files keep whatever algorithm
// they were written with, recorded per-entry in their header's Flags.
func WithCompression(alg CompressionAlgorithm) Option {
	return func(fsys *Filesystem) error {
		fsys.compression = alg
		return nil
	}
}

// WithLogger overrides the logger used for scan and mutation
// diagnostics. Defaults to log.Default(), matching the teacher's
// convention of logging straight to the stdlib logger rather than
// pulling in a structured logging library.
func WithLogger(l *log.Logger) Option {
	return func(fsys *Filesystem) error {
		fsys.logger = l
		return nil
	}
}

// Open mounts the WFS image at path: validates its superblock and
// derives the next-inode counter by scanning for the highest inode
// number ever allocated, live or tombstoned, per SPEC_FULL.md's
// resolution of the "counter reset" open question (a tombstoned number
// must never be reissued, since a resurrected number could alias an
// old, unrelated directory entry still sitting in some stale dentry).
func Open(path string, opts ...Option) (*Filesystem, error) {
	im, err := openImage(path)
	if err != nil {
		return nil, err
	}
	sb, err := im.readSuperblock()
	if err != nil {
		im.Close()
		return nil, err
	}
	latest, err := scanLog(im, sb)
	if err != nil {
		im.Close()
		return nil, err
	}
	var maxIno uint32
	for ino := range latest {
		if ino > maxIno {
			maxIno = ino
		}
	}
	fsys := &Filesystem{im: im, sb: *sb, nextIno: maxIno + 1, logger: log.Default()}
	for _, opt := range opts {
		if err := opt(fsys); err != nil {
			im.Close()
			return nil, err
		}
	}
	fsys.logger.Printf("wfs: opened %s: head=%d next-inode=%d live-entries=%d", path, sb.Head, fsys.nextIno, len(latest))
	return fsys, nil
}

func (fs *Filesystem) Close() error {
	return fs.im.Close()
}

// scan re-derives the latest-entry map under the lock. Called at the
// start of every operation rather than cached across calls: the log is
// the single source of truth and this keeps the implementation simple,
// at the cost of an O(log size) rescan per call — acceptable at the
// spec's target image sizes (§6).
func (fs *Filesystem) scan() (map[uint32]*logEntry, error) {
	return scanLog(fs.im, &fs.sb)
}

// Getattr implements spec.md §4.6's getattr operation.
func (fs *Filesystem) Getattr(path string) (Stat, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	latest, err := fs.scan()
	if err != nil {
		return Stat{}, err
	}
	e, err := resolve(fs.im, latest, path)
	if err != nil {
		return Stat{}, err
	}
	return Stat{
		Mode:  e.header.Mode,
		Nlink: e.header.Links,
		Uid:   e.header.Uid,
		Gid:   e.header.Gid,
		Size:  e.header.Size,
		Mtime: e.header.Mtime,
	}, nil
}

// Readdir implements spec.md §4.6's readdir operation: invoke sink once
// per dentry in the resolved directory's payload, stopping early if
// sink returns false. Stopping early still returns nil; no buffer-full
// error is reported to the caller.
func (fs *Filesystem) Readdir(path string, sink func(name string, ino uint32) bool) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	latest, err := fs.scan()
	if err != nil {
		return err
	}
	e, err := resolve(fs.im, latest, path)
	if err != nil {
		return err
	}
	if !e.header.isDir() {
		return ErrNotDirectory
	}
	payload, err := readPayload(fs.im, e)
	if err != nil {
		return err
	}
	entries, err := decodeDentries(payload)
	if err != nil {
		return err
	}
	for _, d := range entries {
		if !sink(d.name(), d.InodeNumber) {
			break
		}
	}
	return nil
}

// Read implements spec.md §4.6's read operation.
func (fs *Filesystem) Read(path string, buf []byte, offset int64) (int, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	latest, err := fs.scan()
	if err != nil {
		return 0, err
	}
	e, err := resolve(fs.im, latest, path)
	if err != nil {
		return 0, err
	}
	if e.header.isDir() {
		return 0, ErrIsDirectory
	}
	payload, err := fs.readFilePayload(e)
	if err != nil {
		return 0, err
	}
	if offset >= int64(len(payload)) {
		return 0, nil
	}
	n := copy(buf, payload[offset:])
	return n, nil
}

// readFilePayload returns a regular file's logical (decompressed)
// bytes, using the algorithm recorded in the entry's Flags field
// regardless of the Filesystem's current WithCompression setting, so
// files keep reading correctly even after the mount's write-path
// default changes.
func (fs *Filesystem) readFilePayload(e *logEntry) ([]byte, error) {
	raw, err := readPayload(fs.im, e)
	if err != nil {
		return nil, err
	}
	alg := CompressionAlgorithm(e.header.Flags)
	return decompressPayload(alg, raw, e.header.Size)
}

// Write implements spec.md §4.6's write operation.
func (fs *Filesystem) Write(path string, buf []byte, offset int64) (int, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	latest, err := fs.scan()
	if err != nil {
		return 0, err
	}
	e, err := resolve(fs.im, latest, path)
	if err != nil {
		return 0, err
	}
	if e.header.isDir() {
		return 0, ErrIsDirectory
	}

	oldPayload, err := fs.readFilePayload(e)
	if err != nil {
		return 0, err
	}
	newSize := int64(len(oldPayload))
	if want := offset + int64(len(buf)); want > newSize {
		newSize = want
	}
	newPayload := make([]byte, newSize)
	copy(newPayload, oldPayload)
	copy(newPayload[offset:], buf)

	stored, alg, err := compressPayload(fs.compression, newPayload)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	h := replacementHeader(e.header, now)
	h.Flags = uint32(alg)
	if err := appendEntryLogicalSize(fs.im, &fs.sb, h, stored, uint64(newSize)); err != nil {
		return 0, err
	}
	return len(buf), nil
}

// Mknod implements spec.md §4.6's mknod operation: a plain S_IFREG
// inode, appended child-first then the parent directory replacement,
// per the ordering rule in §4.6.
func (fs *Filesystem) Mknod(path string, mode, uid, gid uint32) error {
	return fs.create(path, mode|S_IFREG, uid, gid)
}

// Mkdir implements spec.md §4.6's mkdir operation: same pattern as
// Mknod, with S_IFDIR OR'd in and an empty dentry-array payload.
func (fs *Filesystem) Mkdir(path string, mode, uid, gid uint32) error {
	return fs.create(path, mode|S_IFDIR, uid, gid)
}

func (fs *Filesystem) create(path string, mode, uid, gid uint32) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	latest, err := fs.scan()
	if err != nil {
		return err
	}
	if _, err := resolve(fs.im, latest, path); err == nil {
		return ErrExists
	} else if err != ErrNoEntry {
		return err
	}

	parent := parentPath(path)
	parentEntry, err := resolve(fs.im, latest, parent)
	if err != nil {
		return err
	}
	if !parentEntry.header.isDir() {
		return ErrNotDirectory
	}

	name := basename(path)
	now := time.Now()
	newIno := fs.nextIno

	// Child first: a crash after this append leaves an orphaned but
	// harmless inode; the reverse order would leave a dangling dentry.
	childHeader := newInodeHeader(newIno, mode, uid, gid, now)
	if err := appendEntry(fs.im, &fs.sb, childHeader, nil); err != nil {
		return err
	}

	parentPayload, err := readPayload(fs.im, parentEntry)
	if err != nil {
		return err
	}
	entries, err := decodeDentries(parentPayload)
	if err != nil {
		return err
	}
	d, err := newDentry(name, newIno)
	if err != nil {
		return err
	}
	entries = append(entries, d)
	newParentPayload, err := encodeDentries(entries)
	if err != nil {
		return err
	}
	parentHeader := replacementHeader(parentEntry.header, now)
	if err := appendEntry(fs.im, &fs.sb, parentHeader, newParentPayload); err != nil {
		return err
	}

	fs.nextIno++
	fs.logger.Printf("wfs: created %s inode=%d mode=%o", path, newIno, mode)
	return nil
}

// Unlink implements spec.md §4.6's unlink operation: the tombstone for
// the target is appended first, then the parent directory replacement
// that drops its dentry — see the note below.
//
// Spec.md's ordering rule for two-entry mutations names creations and
// deletions together: append the child (here, the tombstone) first,
// then the parent-directory replacement, so a crash mid-operation never
// leaves a dangling dentry.
func (fs *Filesystem) Unlink(path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	latest, err := fs.scan()
	if err != nil {
		return err
	}
	target, err := resolve(fs.im, latest, path)
	if err != nil {
		return err
	}
	if target.header.isDir() {
		return ErrIsDirectory
	}

	parent := parentPath(path)
	parentEntry, err := resolve(fs.im, latest, parent)
	if err != nil {
		return err
	}

	now := time.Now()

	tomb := tombstoneHeader(target.header, now)
	if err := appendEntry(fs.im, &fs.sb, tomb, nil); err != nil {
		return err
	}

	parentPayload, err := readPayload(fs.im, parentEntry)
	if err != nil {
		return err
	}
	entries, err := decodeDentries(parentPayload)
	if err != nil {
		return err
	}
	idx := findDentry(entries, basename(path))
	if idx < 0 {
		return ErrNoEntry
	}
	entries = append(entries[:idx], entries[idx+1:]...)
	newParentPayload, err := encodeDentries(entries)
	if err != nil {
		return err
	}
	parentHeader := replacementHeader(parentEntry.header, now)
	if err := appendEntry(fs.im, &fs.sb, parentHeader, newParentPayload); err != nil {
		return err
	}
	fs.logger.Printf("wfs: unlinked %s inode=%d", path, target.header.InodeNumber)
	return nil
}
