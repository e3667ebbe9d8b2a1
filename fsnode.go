//go:build fuse

package wfs

import (
	"context"
	"path"
	"sync"
	"syscall"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
)

// Node is the single InodeEmbedder type used throughout the mounted
// tree. Unlike the teacher's squashfs.Inode, which carries a resolved
// table-reader position because squashfs images are immutable, a Node
// here carries nothing but its own absolute path: every operation
// re-resolves against the log, since the log is the only state that
// can't go stale out from under a cached Node. Grounded on the
// NodeLookuper/NodeGetattrer/... shapes in go-fuse's fs package and on
// the teacher's inode_fuse.go for attribute-filling and entry-timeout
// conventions.
type Node struct {
	fs.Inode

	fsys *Filesystem
	path string
}

var _ fs.InodeEmbedder = (*Node)(nil)

// Root returns the InodeEmbedder to pass to fs.Mount for fsys.
func Root(fsys *Filesystem) fs.InodeEmbedder {
	return &Node{fsys: fsys, path: "/"}
}

func (n *Node) child(name string) *Node {
	return &Node{fsys: n.fsys, path: path.Join(n.path, name)}
}

// inheritedOwner returns the uid/gid new entries under n should be
// created with. go-fuse's request headers carry the calling process's
// credentials, but plumbing them through would mean depending on an
// exact API shape this tree has no way to confirm against the
// retrieved sources, so new inodes inherit their parent directory's
// ownership instead, same as a mount made with the "-o ownertouser"
// style default.
func (n *Node) inheritedOwner() (uid, gid uint32) {
	st, err := n.fsys.Getattr(n.path)
	if err != nil {
		return 0, 0
	}
	return st.Uid, st.Gid
}

func statToAttr(st Stat, out *fuse.Attr) {
	out.Mode = st.Mode
	out.Nlink = st.Nlink
	out.Uid = st.Uid
	out.Gid = st.Gid
	out.Size = st.Size
	out.Mtime = uint64(st.Mtime)
	out.Ctime = uint64(st.Mtime)
	out.Atime = uint64(st.Mtime)
}

func (n *Node) Getattr(ctx context.Context, f fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	st, err := n.fsys.Getattr(n.path)
	if err != nil {
		return errno(err)
	}
	statToAttr(st, &out.Attr)
	return 0
}

func (n *Node) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	c := n.child(name)
	st, err := n.fsys.Getattr(c.path)
	if err != nil {
		return nil, errno(err)
	}
	statToAttr(st, &out.Attr)
	mode := st.Mode & S_IFMT
	child := n.NewInode(ctx, c, fs.StableAttr{Mode: mode})
	return child, 0
}

// dirStream adapts Filesystem.Readdir's push-style sink to go-fuse's
// pull-style DirStream, per the fs package's DirStream interface.
type dirStream struct {
	mu      sync.Mutex
	entries []fuse.DirEntry
	pos     int
}

func (d *dirStream) HasNext() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pos < len(d.entries)
}

func (d *dirStream) Next() (fuse.DirEntry, syscall.Errno) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e := d.entries[d.pos]
	d.pos++
	return e, 0
}

func (d *dirStream) Close() {}

func (n *Node) Readdir(ctx context.Context) (fs.DirStream, syscall.Errno) {
	d := &dirStream{}
	err := n.fsys.Readdir(n.path, func(name string, ino uint32) bool {
		d.entries = append(d.entries, fuse.DirEntry{Name: name, Ino: uint64(ino)})
		return true
	})
	if err != nil {
		return nil, errno(err)
	}
	return d, 0
}

func (n *Node) Mkdir(ctx context.Context, name string, mode uint32, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	c := n.child(name)
	uid, gid := n.inheritedOwner()
	if err := n.fsys.Mkdir(c.path, mode, uid, gid); err != nil {
		return nil, errno(err)
	}
	st, err := n.fsys.Getattr(c.path)
	if err != nil {
		return nil, errno(err)
	}
	statToAttr(st, &out.Attr)
	child := n.NewInode(ctx, c, fs.StableAttr{Mode: st.Mode & S_IFMT})
	return child, 0
}

func (n *Node) Create(ctx context.Context, name string, flags uint32, mode uint32, out *fuse.EntryOut) (*fs.Inode, fs.FileHandle, uint32, syscall.Errno) {
	c := n.child(name)
	uid, gid := n.inheritedOwner()
	if err := n.fsys.Mknod(c.path, mode, uid, gid); err != nil {
		return nil, nil, 0, errno(err)
	}
	st, err := n.fsys.Getattr(c.path)
	if err != nil {
		return nil, nil, 0, errno(err)
	}
	statToAttr(st, &out.Attr)
	child := n.NewInode(ctx, c, fs.StableAttr{Mode: st.Mode & S_IFMT})
	return child, nil, 0, 0
}

func (n *Node) Unlink(ctx context.Context, name string) syscall.Errno {
	c := n.child(name)
	return errno(n.fsys.Unlink(c.path))
}

func (n *Node) Read(ctx context.Context, f fs.FileHandle, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	read, err := n.fsys.Read(n.path, dest, off)
	if err != nil {
		return nil, errno(err)
	}
	return fuse.ReadResultData(dest[:read]), 0
}

func (n *Node) Write(ctx context.Context, f fs.FileHandle, data []byte, off int64) (uint32, syscall.Errno) {
	written, err := n.fsys.Write(n.path, data, off)
	if err != nil {
		return 0, errno(err)
	}
	return uint32(written), 0
}

// Statfs reports coarse free-space figures derived from the image's
// fixed capacity, so OSX/some tooling that insists on a working statfs
// keeps working even though spec.md itself has no statfs operation —
// wired per SPEC_FULL.md's Supplemented Features section.
func (n *Node) Statfs(ctx context.Context, out *fuse.StatfsOut) syscall.Errno {
	n.fsys.mu.Lock()
	defer n.fsys.mu.Unlock()

	const blockSize = 512
	total := uint64(n.fsys.im.capacity()) / blockSize
	used := n.fsys.sb.Head / blockSize
	out.Bsize = blockSize
	out.Blocks = total
	out.Bfree = total - used
	out.Bavail = out.Bfree
	out.NameLen = MaxNameLen - 1
	return 0
}

var (
	_ fs.NodeGetattrer = (*Node)(nil)
	_ fs.NodeLookuper  = (*Node)(nil)
	_ fs.NodeReaddirer = (*Node)(nil)
	_ fs.NodeMkdirer   = (*Node)(nil)
	_ fs.NodeCreater   = (*Node)(nil)
	_ fs.NodeUnlinker  = (*Node)(nil)
	_ fs.NodeReader    = (*Node)(nil)
	_ fs.NodeWriter    = (*Node)(nil)
	_ fs.NodeStatfser  = (*Node)(nil)
)
