package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	wfs "github.com/go-wfs/wfs"
)

const usage = `mkfs.wfs - create a WFS disk image

Usage:
  mkfs.wfs [-size bytes] <image>

Examples:
  mkfs.wfs disk.img                Create a 1 MiB image at disk.img
  mkfs.wfs -size 4194304 disk.img  Create a 4 MiB image
`

func main() {
	size := flag.Int64("size", wfs.DiskSize, "image size in bytes")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	path := flag.Arg(0)

	if err := checkFreeSpace(path, *size); err != nil {
		fmt.Fprintf(os.Stderr, "mkfs.wfs: %s\n", err)
		os.Exit(1)
	}

	if err := wfs.Format(path, *size); err != nil {
		fmt.Fprintf(os.Stderr, "mkfs.wfs: %s\n", err)
		os.Exit(1)
	}
}

// checkFreeSpace preflights the target filesystem's free space against
// the requested image size, rather than letting a partially truncated
// image file fail mysteriously later. Grounded on SPEC_FULL.md's Domain
// Stack wiring of golang.org/x/sys/unix beyond its transitive use by
// the teacher's flock/ioctl paths.
func checkFreeSpace(path string, size int64) error {
	dir := filepath.Dir(path)
	var st unix.Statfs_t
	if err := unix.Statfs(dir, &st); err != nil {
		return nil // best-effort: a non-fatal environment without statfs support shouldn't block mkfs
	}
	avail := int64(st.Bavail) * int64(st.Bsize)
	if avail < size {
		return fmt.Errorf("not enough free space in %q: need %d bytes, have %d", dir, size, avail)
	}
	return nil
}
