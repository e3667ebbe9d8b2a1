//go:build fuse

package wfs

import (
	"testing"

	"github.com/hanwen/go-fuse/v2/fuse"
)

func TestStatToAttr(t *testing.T) {
	st := Stat{Mode: S_IFREG | 0644, Nlink: 1, Uid: 42, Gid: 7, Size: 100, Mtime: 12345}
	var attr fuse.Attr
	statToAttr(st, &attr)

	if attr.Mode != st.Mode || attr.Size != st.Size || attr.Uid != st.Uid || attr.Gid != st.Gid {
		t.Errorf("statToAttr mismatch: %+v", attr)
	}
	if attr.Mtime != uint64(st.Mtime) || attr.Ctime != uint64(st.Mtime) || attr.Atime != uint64(st.Mtime) {
		t.Errorf("statToAttr timestamps mismatch: %+v", attr)
	}
}

func TestDirStreamPushPull(t *testing.T) {
	d := &dirStream{entries: []fuse.DirEntry{{Name: "a"}, {Name: "b"}}}
	var got []string
	for d.HasNext() {
		e, errno := d.Next()
		if errno != 0 {
			t.Fatalf("unexpected errno %v", errno)
		}
		got = append(got, e.Name)
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("dirStream order mismatch: %v", got)
	}
}

func TestStatfsReflectsCapacity(t *testing.T) {
	fsys := newTestFS(t, 0)
	n := Root(fsys).(*Node)

	var out fuse.StatfsOut
	if errno := n.Statfs(nil, &out); errno != 0 {
		t.Fatalf("Statfs: errno %v", errno)
	}
	if out.Blocks == 0 {
		t.Errorf("expected nonzero block count")
	}
	if out.Bfree > out.Blocks {
		t.Errorf("Bfree (%d) exceeds Blocks (%d)", out.Bfree, out.Blocks)
	}
}
