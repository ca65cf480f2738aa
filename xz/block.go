// Copyright (c) 2026 The Omnizip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later

package xz

import (
	"bytes"
	"fmt"
	"io"

	"github.com/omnizip/omnizip-sub003/checksum"
	"github.com/omnizip/omnizip-sub003/vli"
)

const (
	blockFlagCompressedSizePresent   = 0x40
	blockFlagUncompressedSizePresent = 0x80
	blockFlagReservedMask            = 0x3C
	blockFlagFilterCountMask         = 0x03
)

// blockHeader is the parsed content of an xz block header: optional sizes
// (VLI-encoded) and its filter chain.
type blockHeader struct {
	CompressedSize   int64 // -1 if absent
	UncompressedSize int64 // -1 if absent
	Filters          []FilterEntry
}

// marshalBlockHeader serializes h into a block header padded to a 4-byte
// boundary, with its size byte and trailing CRC32 filled in.
func marshalBlockHeader(h blockHeader) ([]byte, error) {
	if err := checkFilterChain(h.Filters); err != nil {
		return nil, err
	}
	var body bytes.Buffer
	flags := byte(len(h.Filters) - 1)
	if h.CompressedSize >= 0 {
		flags |= blockFlagCompressedSizePresent
	}
	if h.UncompressedSize >= 0 {
		flags |= blockFlagUncompressedSizePresent
	}
	body.WriteByte(flags)

	if h.CompressedSize >= 0 {
		b, err := vli.Encode(uint64(h.CompressedSize))
		if err != nil {
			return nil, err
		}
		body.Write(b)
	}
	if h.UncompressedSize >= 0 {
		b, err := vli.Encode(uint64(h.UncompressedSize))
		if err != nil {
			return nil, err
		}
		body.Write(b)
	}

	for _, f := range h.Filters {
		idb, err := vli.Encode(f.ID)
		if err != nil {
			return nil, err
		}
		body.Write(idb)
		szb, err := vli.Encode(uint64(len(f.Properties)))
		if err != nil {
			return nil, err
		}
		body.Write(szb)
		body.Write(f.Properties)
	}

	// 1-byte size placeholder + body, padded to a multiple of 4, + 4-byte CRC32.
	total := 1 + body.Len()
	pad := (4 - total%4) % 4
	total += pad + 4
	if total%4 != 0 {
		return nil, fmt.Errorf("xz: internal error: block header not aligned")
	}
	sizeField := total/4 - 1
	if sizeField < 1 || sizeField > 255 {
		return nil, fmt.Errorf("xz: block header too large to encode")
	}

	out := make([]byte, 0, total)
	out = append(out, byte(sizeField))
	out = append(out, body.Bytes()...)
	out = append(out, make([]byte, pad)...)
	crc := checksum.CRC32(out)
	crcBuf := make([]byte, 4)
	checksum.PutUint32LE(crcBuf, crc)
	out = append(out, crcBuf...)
	return out, nil
}

// readBlockHeader reads one full block header from r, returning the
// parsed header and nil on an index-indicator byte (0x00) so callers can
// distinguish "start of index" from a real block.
func readBlockHeader(r io.Reader) (*blockHeader, error) {
	var sizeByte [1]byte
	if _, err := io.ReadFull(r, sizeByte[:]); err != nil {
		return nil, err
	}
	if sizeByte[0] == 0 {
		return nil, nil
	}
	hdrLen := (int(sizeByte[0]) + 1) * 4
	rest := make([]byte, hdrLen-1)
	if _, err := io.ReadFull(r, rest); err != nil {
		return nil, err
	}
	full := append(sizeByte[:], rest...)

	if checksum.CRC32(full[:hdrLen-4]) != checksum.Uint32LE(full[hdrLen-4:]) {
		return nil, &FormatError{Reason: "block header CRC32 mismatch"}
	}

	flags := full[1]
	if flags&blockFlagReservedMask != 0 {
		return nil, &FormatError{Reason: "reserved block header flags set"}
	}

	body := full[2 : hdrLen-4]
	h := &blockHeader{CompressedSize: -1, UncompressedSize: -1}

	if flags&blockFlagCompressedSizePresent != 0 {
		v, n, err := vli.DecodeBytes(body)
		if err != nil {
			return nil, &FormatError{Reason: "invalid compressed-size VLI: " + err.Error()}
		}
		h.CompressedSize = int64(v)
		body = body[n:]
	}
	if flags&blockFlagUncompressedSizePresent != 0 {
		v, n, err := vli.DecodeBytes(body)
		if err != nil {
			return nil, &FormatError{Reason: "invalid uncompressed-size VLI: " + err.Error()}
		}
		h.UncompressedSize = int64(v)
		body = body[n:]
	}

	count := int(flags&blockFlagFilterCountMask) + 1
	for i := 0; i < count; i++ {
		id, n, err := vli.DecodeBytes(body)
		if err != nil {
			return nil, &FormatError{Reason: "invalid filter id VLI: " + err.Error()}
		}
		body = body[n:]
		sz, n, err := vli.DecodeBytes(body)
		if err != nil {
			return nil, &FormatError{Reason: "invalid filter property-size VLI: " + err.Error()}
		}
		body = body[n:]
		if uint64(len(body)) < sz {
			return nil, &FormatError{Reason: "truncated filter properties"}
		}
		props := append([]byte(nil), body[:sz]...)
		body = body[sz:]
		h.Filters = append(h.Filters, FilterEntry{ID: id, Properties: props})
	}

	for _, b := range body {
		if b != 0 {
			return nil, &FormatError{Reason: "non-zero block header padding"}
		}
	}

	if err := checkFilterChain(h.Filters); err != nil {
		return nil, err
	}
	return h, nil
}
