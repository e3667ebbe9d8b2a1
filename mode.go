package wfs

// WFS stores raw POSIX mode bits on disk, Linux-style, matching what
// go-fuse's fuse.Attr.Mode and the NodeMkdirer/NodeCreater mode
// arguments already use, so no conversion to/from io/fs.FileMode is
// needed anywhere on the read or write path. Adapted from the
// teacher's mode.go (same constant layout), trimmed to the types WFS
// actually mints: S_IFDIR and S_IFREG (symlinks, devices, sockets,
// fifos and hard links beyond 1 are all non-goals per spec.md §1).
const (
	S_IFMT  = 0xf000
	S_IFREG = 0x8000
	S_IFDIR = 0x4000

	S_ISVTX = 0x200
	S_ISGID = 0x400
	S_ISUID = 0x800

	S_IRUSR = 0x100
	S_IWUSR = 0x80
	S_IXUSR = 0x40
)
