// Copyright (c) 2026 The Omnizip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later

package xz

import (
	"bytes"
	"io"

	"github.com/omnizip/omnizip-sub003/checksum"
	"github.com/omnizip/omnizip-sub003/vli"
)

// indexRecord is one block's entry in the stream index.
type indexRecord struct {
	UnpaddedSize     int64
	UncompressedSize int64
}

// marshalIndex serializes records as: indicator byte 0x00, VLI record
// count, the records themselves, zero padding to a 4-byte boundary, and a
// CRC32 over everything preceding the CRC32 field (including the padding).
func marshalIndex(records []indexRecord) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(0)
	cnt, err := vli.Encode(uint64(len(records)))
	if err != nil {
		return nil, err
	}
	buf.Write(cnt)
	for _, rec := range records {
		u, err := vli.Encode(uint64(rec.UnpaddedSize))
		if err != nil {
			return nil, err
		}
		buf.Write(u)
		c, err := vli.Encode(uint64(rec.UncompressedSize))
		if err != nil {
			return nil, err
		}
		buf.Write(c)
	}
	pad := (4 - buf.Len()%4) % 4
	buf.Write(make([]byte, pad))

	crc := checksum.CRC32(buf.Bytes())
	crcBuf := make([]byte, 4)
	checksum.PutUint32LE(crcBuf, crc)
	buf.Write(crcBuf)
	return buf.Bytes(), nil
}

// readIndex parses the index from r, having already consumed the leading
// indicator byte (0x00) via readBlockHeader's nil-header signal.
func readIndex(r io.Reader) ([]indexRecord, int64, error) {
	var consumed int64 = 1 // the indicator byte, already read by the caller

	br := &countingByteReader{r: asByteReader(r)}
	count, n, err := vli.Decode(br)
	consumed += int64(n)
	if err != nil {
		return nil, 0, &FormatError{Reason: "invalid index record count: " + err.Error()}
	}

	records := make([]indexRecord, count)
	for i := range records {
		u, n, err := vli.Decode(br)
		consumed += int64(n)
		if err != nil {
			return nil, 0, &FormatError{Reason: "invalid index unpadded-size VLI"}
		}
		c, n, err := vli.Decode(br)
		consumed += int64(n)
		if err != nil {
			return nil, 0, &FormatError{Reason: "invalid index uncompressed-size VLI"}
		}
		records[i] = indexRecord{UnpaddedSize: int64(u), UncompressedSize: int64(c)}
	}

	pad := (4 - consumed%4) % 4
	for i := int64(0); i < pad; i++ {
		b, err := br.ReadByte()
		consumed++
		if err != nil {
			return nil, 0, err
		}
		if b != 0 {
			return nil, 0, &FormatError{Reason: "non-zero index padding"}
		}
	}

	var crcBuf [4]byte
	if _, err := io.ReadFull(r, crcBuf[:]); err != nil {
		return nil, 0, err
	}
	consumed += 4
	if checksum.Uint32LE(crcBuf[:]) != br.sum() {
		return nil, 0, &FormatError{Reason: "index CRC32 mismatch"}
	}

	return records, consumed, nil
}

// countingByteReader wraps a byte reader, feeding every byte read into a
// running CRC32 so the index trailer's checksum can be verified without a
// second pass over the buffer.
type countingByteReader struct {
	r   io.ByteReader
	crc []byte
}

func (c *countingByteReader) ReadByte() (byte, error) {
	b, err := c.r.ReadByte()
	if err == nil {
		c.crc = append(c.crc, b)
	}
	return b, err
}

func (c *countingByteReader) sum() uint32 {
	// Include the leading indicator byte (0x00), consistent with the
	// encoder's CRC32, which covers the indicator through the padding.
	return checksum.CRC32(append([]byte{0}, c.crc...))
}

func asByteReader(r io.Reader) io.ByteReader {
	if br, ok := r.(io.ByteReader); ok {
		return br
	}
	return &byteReaderAdapter{r: r}
}

type byteReaderAdapter struct {
	r   io.Reader
	buf [1]byte
}

func (b *byteReaderAdapter) ReadByte() (byte, error) {
	n, err := b.r.Read(b.buf[:])
	if n == 1 {
		return b.buf[0], nil
	}
	if err == nil {
		err = io.ErrUnexpectedEOF
	}
	return 0, err
}
