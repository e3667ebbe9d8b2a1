package wfs

import (
	"path/filepath"
	"testing"
	"time"
)

func TestScanLogKeepsLatestPerInode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disk.img")
	im, err := createImage(path, DiskSize)
	if err != nil {
		t.Fatalf("createImage: %s", err)
	}
	defer im.Close()

	sb := &Superblock{Magic: wfsMagic}
	if err := im.writeSuperblock(sb); err != nil {
		t.Fatalf("writeSuperblock: %s", err)
	}

	now := time.Now()
	root := newInodeHeader(rootInodeNumber, S_IFDIR|0755, 0, 0, now)
	if err := appendEntry(im, sb, root, nil); err != nil {
		t.Fatalf("append root: %s", err)
	}

	file := newInodeHeader(1, S_IFREG|0644, 0, 0, now)
	if err := appendEntry(im, sb, file, []byte("v1")); err != nil {
		t.Fatalf("append file v1: %s", err)
	}
	file2 := replacementHeader(file, now)
	if err := appendEntry(im, sb, file2, []byte("version two")); err != nil {
		t.Fatalf("append file v2: %s", err)
	}

	latest, err := scanLog(im, sb)
	if err != nil {
		t.Fatalf("scanLog: %s", err)
	}
	e, ok := latest[1]
	if !ok {
		t.Fatalf("inode 1 missing from scan")
	}
	if e.header.Size != uint64(len("version two")) {
		t.Errorf("expected latest entry to win, got size %d", e.header.Size)
	}
}

func TestResolveWalksNestedDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disk.img")
	if err := Format(path, DiskSize); err != nil {
		t.Fatalf("Format: %s", err)
	}
	fsys, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %s", err)
	}
	defer fsys.Close()

	if err := fsys.Mkdir("/a", 0755, 0, 0); err != nil {
		t.Fatalf("Mkdir /a: %s", err)
	}
	if err := fsys.Mkdir("/a/b", 0755, 0, 0); err != nil {
		t.Fatalf("Mkdir /a/b: %s", err)
	}
	if err := fsys.Mknod("/a/b/c", 0644, 0, 0); err != nil {
		t.Fatalf("Mknod /a/b/c: %s", err)
	}

	latest, err := fsys.scan()
	if err != nil {
		t.Fatalf("scan: %s", err)
	}
	e, err := resolve(fsys.im, latest, "/a/b/c")
	if err != nil {
		t.Fatalf("resolve: %s", err)
	}
	if e.header.isDir() {
		t.Errorf("/a/b/c resolved to a directory")
	}
}

func TestResolveThroughFileIsNotDirectory(t *testing.T) {
	fsys := newTestFS(t, 0)
	if err := fsys.Mknod("/f", 0644, 0, 0); err != nil {
		t.Fatalf("Mknod: %s", err)
	}
	latest, err := fsys.scan()
	if err != nil {
		t.Fatalf("scan: %s", err)
	}
	if _, err := resolve(fsys.im, latest, "/f/sub"); err != ErrNotDirectory {
		t.Errorf("expected ErrNotDirectory, got %v", err)
	}
}

func TestResolveMissingReturnsNoEntry(t *testing.T) {
	fsys := newTestFS(t, 0)
	latest, err := fsys.scan()
	if err != nil {
		t.Fatalf("scan: %s", err)
	}
	if _, err := resolve(fsys.im, latest, "/missing"); err != ErrNoEntry {
		t.Errorf("expected ErrNoEntry, got %v", err)
	}
}
