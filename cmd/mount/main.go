//go:build fuse

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hanwen/go-fuse/v2/fs"

	wfs "github.com/go-wfs/wfs"
)

const usage = `mount.wfs - mount a WFS disk image over FUSE

Usage:
  mount.wfs [-debug] [-compress algo] <image> <mountpoint>

algo is one of: none, zstd, xz (zstd/xz require the matching build tag).
`

func main() {
	debug := flag.Bool("debug", false, "log every FUSE request")
	compress := flag.String("compress", "none", "write-path compression algorithm")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}
	imagePath, mountpoint := flag.Arg(0), flag.Arg(1)

	alg, err := parseCompression(*compress)
	if err != nil {
		log.Fatalf("mount.wfs: %s", err)
	}

	fsys, err := wfs.Open(imagePath, wfs.WithCompression(alg))
	if err != nil {
		log.Fatalf("mount.wfs: failed to open image: %s", err)
	}
	defer fsys.Close()

	root := wfs.Root(fsys)
	opts := &fs.Options{}
	opts.Debug = *debug

	server, err := fs.Mount(mountpoint, root, opts)
	if err != nil {
		log.Fatalf("mount.wfs: mount failed: %s", err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		server.Unmount()
	}()

	server.Wait()
}

func parseCompression(s string) (wfs.CompressionAlgorithm, error) {
	switch s {
	case "none", "":
		return wfs.CompressionNone, nil
	case "zstd":
		return wfs.CompressionZstd, nil
	case "xz":
		return wfs.CompressionXz, nil
	default:
		return 0, fmt.Errorf("unknown compression algorithm %q", s)
	}
}
