// Copyright (c) 2026 The Omnizip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later

package par2

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// volumeReader is the minimal file-reading contract WalkVolumes' callers
// need, mirroring pkg/fileio's FileReader — adapted here without its
// gzip-transparency, since .par2 volumes are never gzipped.
type volumeReader interface {
	io.Reader
	io.Closer
}

// WalkVolumes expands globPattern (e.g. "archive.vol*.par2") and returns
// the matching paths sorted lexicographically, so recovery packets are
// read in a deterministic sequence regardless of the filesystem's own
// directory order. This is ascending volume order when the volume numbers
// are zero-padded to the same width (vol000, vol001, ...); numbers of
// differing widths are not compared numerically.
func WalkVolumes(globPattern string) ([]string, error) {
	matches, err := filepath.Glob(globPattern)
	if err != nil {
		return nil, &IOError{Op: fmt.Sprintf("par2: expanding volume glob %q", globPattern), Err: err}
	}
	sort.Strings(matches)
	return matches, nil
}

// openVolume opens a single PAR2 volume file for reading.
func openVolume(path string) (volumeReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: fmt.Sprintf("par2: opening volume %s", path), Err: err}
	}
	return f, nil
}
