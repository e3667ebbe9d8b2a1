package wfs

import (
	"testing"
	"time"
)

func TestCreateAppendsChildBeforeParent(t *testing.T) {
	fsys := newTestFS(t, 0)

	headBefore := fsys.sb.Head
	if err := fsys.Mknod("/f", 0644, 0, 0); err != nil {
		t.Fatalf("Mknod: %s", err)
	}

	latest, err := fsys.scan()
	if err != nil {
		t.Fatalf("scan: %s", err)
	}
	child := latest[1] // first inode minted after root
	parent := latest[rootInodeNumber]

	if child.payloadOff >= parent.payloadOff {
		t.Errorf("expected child entry to be written before the parent replacement: child offset %d, parent offset %d", child.payloadOff, parent.payloadOff)
	}
	if uint64(child.payloadOff) <= headBefore+uint64(superblockSize()) {
		t.Errorf("child offset %d should be past the pre-mknod head", child.payloadOff)
	}
}

func TestUnlinkAppendsTombstoneBeforeParent(t *testing.T) {
	fsys := newTestFS(t, 0)
	if err := fsys.Mknod("/f", 0644, 0, 0); err != nil {
		t.Fatalf("Mknod: %s", err)
	}
	if err := fsys.Unlink("/f"); err != nil {
		t.Fatalf("Unlink: %s", err)
	}

	latest, err := fsys.scan()
	if err != nil {
		t.Fatalf("scan: %s", err)
	}
	tomb := latest[1]
	parent := latest[rootInodeNumber]

	if !(tomb.header.Deleted != 0) {
		t.Fatalf("expected latest entry for inode 1 to be the tombstone")
	}
	if tomb.payloadOff >= parent.payloadOff {
		t.Errorf("expected tombstone to be appended before the parent replacement")
	}
}

func TestTombstoneHeaderIsTerminal(t *testing.T) {
	now := time.Now()
	h := newInodeHeader(3, S_IFREG|0644, 0, 0, now)
	tomb := tombstoneHeader(h, now)
	if tomb.Deleted != 1 {
		t.Errorf("Deleted = %d, want 1", tomb.Deleted)
	}
	if tomb.Size != 0 {
		t.Errorf("Size = %d, want 0", tomb.Size)
	}
	if tomb.InodeNumber != h.InodeNumber {
		t.Errorf("InodeNumber changed across tombstone: got %d, want %d", tomb.InodeNumber, h.InodeNumber)
	}
}
