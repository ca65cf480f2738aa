// Copyright (c) 2026 The Omnizip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later

package xz

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/omnizip/omnizip-sub003/checksum"
	"github.com/omnizip/omnizip-sub003/lzma"
	"github.com/omnizip/omnizip-sub003/lzma2"
)

// Options configures a Compress call.
type Options struct {
	Check             CheckType
	FilterChain       []FilterSpec // last entry's Kind is implicitly LZMA2; omit it
	Level        int
	DictSize     uint32
	MaxBlockSize int64 // 0 means a single block for the whole input
}

// FilterSpec names a non-LZMA2 pre-filter and its encode parameters.
type FilterSpec struct {
	ID         uint64 // e.g. 0x04 for BCJ-x86, 0x03 for Delta
	DeltaDist  int    // meaningful only for the Delta filter (1..256)
	StartOffset uint32
}

// DefaultOptions returns CRC64 checking, a bare LZMA2 filter chain, and
// level 6.
func DefaultOptions() Options {
	return Options{Check: CheckCRC64, Level: 6, DictSize: 1 << 23}
}

// Compress writes an XZ stream containing data, framed per opts.
func Compress(w io.Writer, data []byte, opts Options) error {
	if err := writeStreamHeader(w, opts.Check); err != nil {
		return err
	}

	dictSize := opts.DictSize
	if dictSize == 0 {
		dictSize = 1 << 23
	}
	dictByte, err := lzma2.DictSizeByte(dictSize)
	if err != nil {
		return err
	}

	blockSize := opts.MaxBlockSize
	if blockSize <= 0 {
		blockSize = int64(len(data))
		if blockSize == 0 {
			blockSize = 1
		}
	}

	var records []indexRecord
	remaining := data
	for {
		n := int64(len(remaining))
		if n > blockSize {
			n = blockSize
		}
		chunk := remaining[:n]
		remaining = remaining[n:]

		unpaddedSize, uncompSize, err := writeBlock(w, chunk, opts, dictByte)
		if err != nil {
			return err
		}
		records = append(records, indexRecord{UnpaddedSize: unpaddedSize, UncompressedSize: uncompSize})

		if len(remaining) == 0 {
			break
		}
	}
	if len(records) == 0 {
		unpaddedSize, uncompSize, err := writeBlock(w, nil, opts, dictByte)
		if err != nil {
			return err
		}
		records = append(records, indexRecord{UnpaddedSize: unpaddedSize, UncompressedSize: uncompSize})
	}

	indexBytes, err := marshalIndex(records)
	if err != nil {
		return err
	}
	if _, err := w.Write(indexBytes); err != nil {
		return err
	}
	return writeStreamFooter(w, opts.Check, int64(len(indexBytes)))
}

// writeBlock filters, compresses, checks, and frames one block, returning
// its unpadded size (header + compressed data + check, excluding the
// trailing zero padding) and its uncompressed size.
func writeBlock(w io.Writer, chunk []byte, opts Options, dictByte byte) (unpaddedSize, uncompSize int64, err error) {
	filtered := append([]byte(nil), chunk...)

	var chain []FilterEntry
	for _, fs := range opts.FilterChain {
		var props []byte
		if fs.ID == 0x03 {
			d := fs.DeltaDist
			if d < 1 {
				d = 1
			}
			props = []byte{byte(d - 1)}
		} else if fs.StartOffset != 0 {
			props = make([]byte, 4)
			props[0] = byte(fs.StartOffset)
			props[1] = byte(fs.StartOffset >> 8)
			props[2] = byte(fs.StartOffset >> 16)
			props[3] = byte(fs.StartOffset >> 24)
		}
		chain = append(chain, FilterEntry{ID: fs.ID, Properties: props})
	}
	chain = append(chain, FilterEntry{ID: lzma2FilterID, Properties: []byte{dictByte}})

	filtered, err = applyEncodeFilters(chain, filtered)
	if err != nil {
		return 0, 0, err
	}

	props := lzma.Properties{LC: 3, LP: 0, PB: 2, DictSize: opts.DictSize}
	if props.DictSize == 0 {
		props.DictSize = 1 << 23
	}
	var compBuf bytes.Buffer
	if err := lzma2.NewEncoder(props, opts.Level).Encode(&compBuf, filtered); err != nil {
		return 0, 0, err
	}

	hdr := blockHeader{
		CompressedSize:   int64(compBuf.Len()),
		UncompressedSize: int64(len(chunk)),
		Filters:          chain,
	}
	hdrBytes, err := marshalBlockHeader(hdr)
	if err != nil {
		return 0, 0, err
	}
	if _, err := w.Write(hdrBytes); err != nil {
		return 0, 0, err
	}
	if _, err := w.Write(compBuf.Bytes()); err != nil {
		return 0, 0, err
	}

	checkBytes, err := computeCheck(opts.Check, chunk)
	if err != nil {
		return 0, 0, err
	}
	if _, err := w.Write(checkBytes); err != nil {
		return 0, 0, err
	}

	unpaddedSize = int64(len(hdrBytes)) + int64(compBuf.Len()) + int64(len(checkBytes))
	pad := (4 - unpaddedSize%4) % 4
	if pad > 0 {
		if _, err := w.Write(make([]byte, pad)); err != nil {
			return 0, 0, err
		}
	}
	return unpaddedSize, int64(len(chunk)), nil
}

func computeCheck(check CheckType, data []byte) ([]byte, error) {
	switch check {
	case CheckNone:
		return nil, nil
	case CheckCRC32:
		b := make([]byte, 4)
		checksum.PutUint32LE(b, checksum.CRC32(data))
		return b, nil
	case CheckCRC64:
		b := make([]byte, 8)
		checksum.PutUint64LE(b, checksum.CRC64(data))
		return b, nil
	case CheckSHA256:
		sum := sha256.Sum256(data)
		return sum[:], nil
	default:
		return nil, &ArgumentError{Name: "Check", Reason: fmt.Sprintf("unsupported check type %d", check)}
	}
}

// Decompress reads one or more concatenated XZ streams from r and returns
// the decompressed bytes of all of them, in order.
func Decompress(r io.Reader) ([]byte, error) {
	var out []byte
	br := bufioLike(r)
	for {
		chunk, eof, err := decompressOneStream(br)
		if err != nil {
			return nil, err
		}
		out = append(out, chunk...)
		if eof {
			return out, nil
		}
	}
}

func decompressOneStream(r *peekReader) ([]byte, bool, error) {
	if r.atEOF() {
		return nil, true, nil
	}
	check, err := readStreamHeader(r)
	if err != nil {
		return nil, false, err
	}

	var out []byte
	for {
		hdr, err := readBlockHeader(r)
		if err != nil {
			return nil, false, err
		}
		if hdr == nil {
			// index indicator: stream body is finished.
			if _, _, err := readIndex(r); err != nil {
				return nil, false, err
			}
			if _, _, err := readStreamFooter(r); err != nil {
				return nil, false, err
			}
			return out, false, nil
		}

		compSize := hdr.CompressedSize
		if compSize < 0 {
			return nil, false, &UnsupportedError{Feature: "xz blocks with no declared compressed size"}
		}
		compBuf := make([]byte, compSize)
		if _, err := io.ReadFull(r, compBuf); err != nil {
			return nil, false, &IOError{Op: "xz: reading compressed block data", Err: err}
		}

		checkSize := check.size()
		var checkBuf []byte
		if checkSize > 0 {
			checkBuf = make([]byte, checkSize)
			if _, err := io.ReadFull(r, checkBuf); err != nil {
				return nil, false, &IOError{Op: "xz: reading block content check", Err: err}
			}
		}

		unpaddedSize := blockHeaderOnWireLen(hdr) + compSize + int64(checkSize)
		pad := (4 - unpaddedSize%4) % 4
		if _, err := io.CopyN(io.Discard, r, pad); err != nil {
			return nil, false, err
		}

		lzDec := lzma2.NewDecoder()
		plain, err := lzDec.Decode(bytes.NewReader(compBuf))
		if err != nil {
			return nil, false, fmt.Errorf("xz: decoding block: %w", err)
		}
		plain, err = applyDecodeFilters(hdr.Filters, plain)
		if err != nil {
			return nil, false, err
		}

		if checkBuf != nil {
			computed, err := computeCheck(check, plain)
			if err != nil {
				return nil, false, err
			}
			if !bytes.Equal(computed, checkBuf) {
				return nil, false, &IntegrityError{Reason: "block content check mismatch"}
			}
		}

		out = append(out, plain...)
	}
}

// blockHeaderOnWireLen re-derives a block header's wire length from its
// contents, needed to compute the compressed-data's trailing padding when
// re-reading a header that's already been parsed.
func blockHeaderOnWireLen(hdr *blockHeader) int64 {
	b, err := marshalBlockHeader(*hdr)
	if err != nil {
		return 0
	}
	return int64(len(b))
}
