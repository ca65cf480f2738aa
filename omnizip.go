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

// Package omnizip is the module's facade: one Algorithm tagged union
// selecting among the codecs the rest of the module implements (LZMA,
// LZMA2, Store, the stdlib-backed Bzip2 decoder, and the
// klauspost/compress-backed ziplayer codecs), a reversible Filter chain
// applied ahead of the chosen algorithm, and a small self-describing
// envelope so a Decompress call that takes only a reader can recover what
// Compress chose without the caller repeating it.
package omnizip

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/omnizip/omnizip-sub003/checksum"
	"github.com/omnizip/omnizip-sub003/errs"
	"github.com/omnizip/omnizip-sub003/filters"
	"github.com/omnizip/omnizip-sub003/lzma"
	"github.com/omnizip/omnizip-sub003/lzma2"
	"github.com/omnizip/omnizip-sub003/vli"
	"github.com/omnizip/omnizip-sub003/xz"
	"github.com/omnizip/omnizip-sub003/ziplayer"
)

// Algorithm selects the compression codec Compress and Decompress apply,
// as a closed Go sum type dispatched by exhaustive switch rather than by
// an interface's dynamic dispatch.
type Algorithm int

const (
	AlgorithmStore Algorithm = iota
	AlgorithmDeflate
	AlgorithmDeflate64
	AlgorithmLZMA
	AlgorithmLZMA2
	AlgorithmBzip2
	AlgorithmPPMd7
	AlgorithmPPMd8
	AlgorithmZstandard
)

func (a Algorithm) String() string {
	switch a {
	case AlgorithmStore:
		return "Store"
	case AlgorithmDeflate:
		return "Deflate"
	case AlgorithmDeflate64:
		return "Deflate64"
	case AlgorithmLZMA:
		return "LZMA"
	case AlgorithmLZMA2:
		return "LZMA2"
	case AlgorithmBzip2:
		return "Bzip2"
	case AlgorithmPPMd7:
		return "PPMd7"
	case AlgorithmPPMd8:
		return "PPMd8"
	case AlgorithmZstandard:
		return "Zstandard"
	default:
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
}

// defaultLevel is the compression level passed to the LZMA, LZMA2, Deflate
// and Zstandard encoders; CompressOptions has no Level field of its own,
// matching the external interface this package exposes.
const defaultLevel = 6

// CompressOptions configures a Compress call: which Algorithm to run, the
// LZMA properties it uses (ignored by algorithms that don't need them),
// the Filter chain to apply ahead of it, the integrity check to record,
// and whether to record the original size for later validation.
type CompressOptions struct {
	Algorithm         Algorithm
	LZMA              lzma.Properties
	Filters           []filters.Filter
	CheckType         xz.CheckType
	IncludeBlockSizes bool
}

// Compress reads all of r, applies opt.Filters in order, compresses the
// result with opt.Algorithm, and writes a self-describing envelope to w
// recording everything Decompress needs to reverse the process without
// being told again.
func Compress(w io.Writer, r io.Reader, opt CompressOptions) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return &errs.IOError{Op: "omnizip: reading input", Err: err}
	}

	original := data
	filtered := make([]byte, len(data))
	copy(filtered, data)
	for _, f := range opt.Filters {
		f.Encode(filtered, 0)
	}

	payload, err := encodeAlgorithm(opt.Algorithm, opt.LZMA, filtered)
	if err != nil {
		return err
	}

	var hdr bytes.Buffer
	hdr.WriteByte(byte(opt.Algorithm))
	if err := marshalFilterChain(&hdr, opt.Filters); err != nil {
		return err
	}
	if err := marshalCheck(&hdr, opt.CheckType, original); err != nil {
		return err
	}
	if opt.IncludeBlockSizes {
		hdr.WriteByte(1)
		if err := appendVLI(&hdr, uint64(len(original))); err != nil {
			return err
		}
	} else {
		hdr.WriteByte(0)
	}

	if _, err := w.Write(hdr.Bytes()); err != nil {
		return &errs.IOError{Op: "omnizip: writing envelope header", Err: err}
	}
	if _, err := w.Write(payload); err != nil {
		return &errs.IOError{Op: "omnizip: writing payload", Err: err}
	}
	return nil
}

// Decompress reads a stream Compress produced, recovering the Algorithm,
// filter chain, and integrity check from the envelope itself, and writes
// the original data to w.
func Decompress(w io.Writer, r io.Reader) error {
	br := bufio.NewReader(r)

	algByte, err := br.ReadByte()
	if err != nil {
		return &errs.IOError{Op: "omnizip: reading algorithm tag", Err: err}
	}
	alg := Algorithm(algByte)

	chain, err := unmarshalFilterChain(br)
	if err != nil {
		return err
	}

	check, sum, err := unmarshalCheck(br)
	if err != nil {
		return err
	}

	sizeFlag, err := br.ReadByte()
	if err != nil {
		return &errs.IOError{Op: "omnizip: reading size flag", Err: err}
	}
	var declaredSize uint64
	haveSize := false
	if sizeFlag == 1 {
		declaredSize, _, err = vli.Decode(br)
		if err != nil {
			return &errs.FormatError{Reason: fmt.Sprintf("reading declared size: %v", err)}
		}
		haveSize = true
	}

	payload, err := io.ReadAll(br)
	if err != nil {
		return &errs.IOError{Op: "omnizip: reading payload", Err: err}
	}

	filtered, err := decodeAlgorithm(alg, payload)
	if err != nil {
		return err
	}

	for i := len(chain) - 1; i >= 0; i-- {
		chain[i].Decode(filtered, 0)
	}

	if haveSize && uint64(len(filtered)) != declaredSize {
		return &errs.DecompressionError{Reason: fmt.Sprintf("declared size %d, produced %d", declaredSize, len(filtered))}
	}

	if check != xz.CheckNone {
		got, err := computeCheck(check, filtered)
		if err != nil {
			return err
		}
		if !bytes.Equal(got, sum) {
			return &errs.IntegrityError{Reason: "content check mismatch"}
		}
	}

	if _, err := w.Write(filtered); err != nil {
		return &errs.IOError{Op: "omnizip: writing output", Err: err}
	}
	return nil
}

// encodeAlgorithm dispatches filtered through the codec opt names.
func encodeAlgorithm(alg Algorithm, props lzma.Properties, filtered []byte) ([]byte, error) {
	switch alg {
	case AlgorithmStore:
		return filtered, nil
	case AlgorithmDeflate:
		return ziplayer.DeflateCompress(filtered, defaultLevel)
	case AlgorithmDeflate64:
		return ziplayer.Deflate64Compress(filtered, defaultLevel)
	case AlgorithmLZMA:
		var buf bytes.Buffer
		if err := lzma.NewEncoder(props, defaultLevel).Encode(&buf, filtered); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case AlgorithmLZMA2:
		var buf bytes.Buffer
		if err := lzma2.NewEncoder(props, defaultLevel).Encode(&buf, filtered); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case AlgorithmBzip2:
		return nil, &errs.UnsupportedError{Feature: "Bzip2 compression (no encoder in the standard library)"}
	case AlgorithmPPMd7:
		return nil, &errs.UnsupportedError{Feature: "PPMd7 compression"}
	case AlgorithmPPMd8:
		return nil, &errs.UnsupportedError{Feature: "PPMd8 compression"}
	case AlgorithmZstandard:
		return ziplayer.ZstandardCompress(filtered, defaultLevel)
	default:
		return nil, &errs.UnsupportedError{Feature: fmt.Sprintf("algorithm %d", int(alg))}
	}
}

// decodeAlgorithm reverses encodeAlgorithm.
func decodeAlgorithm(alg Algorithm, payload []byte) ([]byte, error) {
	switch alg {
	case AlgorithmStore:
		return payload, nil
	case AlgorithmDeflate:
		return ziplayer.DeflateDecompress(payload)
	case AlgorithmDeflate64:
		return ziplayer.Deflate64Decompress(payload)
	case AlgorithmLZMA:
		out, _, err := lzma.NewDecoder().Decode(bytes.NewReader(payload))
		return out, err
	case AlgorithmLZMA2:
		return lzma2.NewDecoder().Decode(bytes.NewReader(payload))
	case AlgorithmBzip2:
		out, err := io.ReadAll(bzip2.NewReader(bytes.NewReader(payload)))
		if err != nil {
			return nil, &errs.DecompressionError{Reason: fmt.Sprintf("bzip2: %v", err)}
		}
		return out, nil
	case AlgorithmPPMd7:
		return nil, &errs.UnsupportedError{Feature: "PPMd7 decompression"}
	case AlgorithmPPMd8:
		return nil, &errs.UnsupportedError{Feature: "PPMd8 decompression"}
	case AlgorithmZstandard:
		return ziplayer.ZstandardDecompress(payload)
	default:
		return nil, &errs.UnsupportedError{Feature: fmt.Sprintf("algorithm %d", int(alg))}
	}
}

// computeCheck mirrors xz's own content-check computation so the envelope
// and the XZ container agree on what CheckCRC32/CheckCRC64 mean.
func computeCheck(check xz.CheckType, data []byte) ([]byte, error) {
	switch check {
	case xz.CheckNone:
		return nil, nil
	case xz.CheckCRC32:
		buf := make([]byte, 4)
		checksum.PutUint32LE(buf, checksum.CRC32(data))
		return buf, nil
	case xz.CheckCRC64:
		buf := make([]byte, 8)
		checksum.PutUint64LE(buf, checksum.CRC64(data))
		return buf, nil
	case xz.CheckSHA256:
		sum := sha256.Sum256(data)
		return sum[:], nil
	default:
		return nil, &errs.ArgumentError{Name: "CheckType", Reason: fmt.Sprintf("unsupported check type %d", check)}
	}
}
