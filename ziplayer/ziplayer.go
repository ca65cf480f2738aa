// Copyright (c) 2026 The Omnizip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of omnizip.
//
// omnizip is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// omnizip is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with omnizip.  If not, see <https://www.gnu.org/licenses/>.

// Package ziplayer wraps the general-purpose codecs the Algorithm tagged
// union can select that this module does not implement itself: Deflate via
// klauspost/compress/flate (a drop-in faster replacement for the standard
// library's implementation of the same DEFLATE format) in both directions,
// and Zstandard via klauspost/compress/zstd decompression only — compression
// is unsupported, mirroring the teacher's own CHD codec package, which only
// ever needed Zstandard decompression. Deflate64's wider 64 KiB match window
// has no decoder in either the standard library or klauspost/compress, so it
// is unsupported in both directions.
package ziplayer

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zstd"

	"github.com/omnizip/omnizip-sub003/errs"
)

// DeflateCompress compresses data as a raw DEFLATE stream at level.
func DeflateCompress(data []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, level)
	if err != nil {
		return nil, &errs.ArgumentError{Name: "Level", Reason: fmt.Sprintf("invalid deflate level %d: %v", level, err)}
	}
	if _, err := w.Write(data); err != nil {
		return nil, &errs.IOError{Op: "ziplayer: writing deflate stream", Err: err}
	}
	if err := w.Close(); err != nil {
		return nil, &errs.IOError{Op: "ziplayer: closing deflate stream", Err: err}
	}
	return buf.Bytes(), nil
}

// DeflateDecompress decompresses a raw DEFLATE stream.
func DeflateDecompress(data []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, &errs.DecompressionError{Reason: fmt.Sprintf("deflate: %v", err)}
	}
	return out, nil
}

// Deflate64Compress always fails: no encoder for DEFLATE64's 64 KiB window
// exists in the standard library or klauspost/compress.
func Deflate64Compress([]byte, int) ([]byte, error) {
	return nil, &errs.UnsupportedError{Feature: "Deflate64 compression"}
}

// Deflate64Decompress always fails for the same reason.
func Deflate64Decompress([]byte) ([]byte, error) {
	return nil, &errs.UnsupportedError{Feature: "Deflate64 decompression"}
}

// ZstandardCompress always fails: the Algorithm tagged union treats
// Zstandard as decode-only, matching the source implementation this module
// was reworked from, which only ever shipped a Zstandard decoder.
func ZstandardCompress([]byte, int) ([]byte, error) {
	return nil, &errs.UnsupportedError{Feature: "Zstandard compression"}
}

// ZstandardDecompress decompresses a single Zstandard frame.
func ZstandardDecompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, &errs.IOError{Op: "ziplayer: initializing zstd reader", Err: err}
	}
	defer dec.Close()
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, &errs.DecompressionError{Reason: fmt.Sprintf("zstd: %v", err)}
	}
	return out, nil
}

