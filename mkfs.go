package wfs

import "time"

// Format creates a new WFS image at path of the given size: a
// superblock followed by a single log entry for the root directory,
// an empty dentry array. Called by cmd/mkfs; also useful directly from
// tests that need a throwaway image.
func Format(path string, size int64) error {
	im, err := createImage(path, size)
	if err != nil {
		return err
	}
	defer im.Close()

	sb := &Superblock{Magic: wfsMagic, Head: 0}
	if err := im.writeSuperblock(sb); err != nil {
		return err
	}

	now := time.Now()
	root := newInodeHeader(rootInodeNumber, S_IFDIR|0755, 0, 0, now)
	return appendEntry(im, sb, root, nil)
}
