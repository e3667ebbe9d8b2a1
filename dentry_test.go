package wfs

import "testing"

func TestDentryNameTruncation(t *testing.T) {
	d, err := newDentry("file.txt", 5)
	if err != nil {
		t.Fatalf("newDentry: %s", err)
	}
	if d.name() != "file.txt" {
		t.Errorf("name() = %q, want %q", d.name(), "file.txt")
	}
	if d.InodeNumber != 5 {
		t.Errorf("InodeNumber = %d, want 5", d.InodeNumber)
	}
}

func TestDentryNameTooLong(t *testing.T) {
	long := make([]byte, MaxNameLen)
	for i := range long {
		long[i] = 'x'
	}
	if _, err := newDentry(string(long), 1); err != ErrNameTooLong {
		t.Errorf("expected ErrNameTooLong, got %v", err)
	}
}

func TestEncodeDecodeDentries(t *testing.T) {
	a, _ := newDentry("a", 1)
	b, _ := newDentry("bb", 2)
	entries := []dentry{a, b}

	payload, err := encodeDentries(entries)
	if err != nil {
		t.Fatalf("encode: %s", err)
	}
	if len(payload)%dentrySize() != 0 {
		t.Fatalf("payload length %d not a multiple of dentry size %d", len(payload), dentrySize())
	}

	got, err := decodeDentries(payload)
	if err != nil {
		t.Fatalf("decode: %s", err)
	}
	if len(got) != 2 || got[0].name() != "a" || got[1].name() != "bb" {
		t.Errorf("decode mismatch: %+v", got)
	}
}

func TestFindDentry(t *testing.T) {
	a, _ := newDentry("a", 1)
	b, _ := newDentry("bb", 2)
	entries := []dentry{a, b}

	if idx := findDentry(entries, "bb"); idx != 1 {
		t.Errorf("findDentry(bb) = %d, want 1", idx)
	}
	if idx := findDentry(entries, "missing"); idx != -1 {
		t.Errorf("findDentry(missing) = %d, want -1", idx)
	}
}

func TestDecodeDentriesRejectsBadSize(t *testing.T) {
	if _, err := decodeDentries(make([]byte, dentrySize()+1)); err == nil {
		t.Errorf("expected error for payload not a multiple of dentry size")
	}
}
