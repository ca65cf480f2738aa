// Copyright (c) 2026 The Omnizip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later

// Package xz implements the XZ stream container: header/footer framing,
// block headers with filter chains, an index for seekability, and
// multi-stream concatenation, wrapping the lzma2, filters, and checksum
// packages.
package xz

import (
	"bytes"
	"fmt"
	"io"

	"github.com/omnizip/omnizip-sub003/checksum"
)

// CheckType identifies the integrity check applied to each block's
// uncompressed data.
type CheckType byte

const (
	CheckNone   CheckType = 0x00
	CheckCRC32  CheckType = 0x01
	CheckCRC64  CheckType = 0x04
	CheckSHA256 CheckType = 0x0A
)

func (c CheckType) size() int {
	switch c {
	case CheckNone:
		return 0
	case CheckCRC32:
		return 4
	case CheckCRC64:
		return 8
	case CheckSHA256:
		return 32
	default:
		return -1
	}
}

var streamMagic = [6]byte{0xFD, '7', 'z', 'X', 'Z', 0x00}
var footerMagic = [2]byte{'Y', 'Z'}

const headerLen = 12
const footerLen = 12

// writeStreamHeader emits the 12-byte stream header: magic, a null
// reserved flags byte, the check-type byte, and a CRC32 of those two flag
// bytes.
func writeStreamHeader(w io.Writer, check CheckType) error {
	if check.size() < 0 {
		return &ArgumentError{Name: "Check", Reason: fmt.Sprintf("unknown check type %d", check)}
	}
	var buf [headerLen]byte
	copy(buf[:6], streamMagic[:])
	buf[6] = 0
	buf[7] = byte(check)
	checksum.PutUint32LE(buf[8:12], checksum.CRC32(buf[6:8]))
	_, err := w.Write(buf[:])
	return err
}

// readStreamHeader parses and validates the 12-byte stream header.
func readStreamHeader(r io.Reader) (CheckType, error) {
	var buf [headerLen]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, &IOError{Op: "xz: reading stream header", Err: err}
	}
	if !bytes.Equal(buf[:6], streamMagic[:]) {
		return 0, &FormatError{Reason: "bad stream header magic"}
	}
	if buf[6] != 0 {
		return 0, &FormatError{Offset: 6, Reason: "reserved flags byte nonzero"}
	}
	check := CheckType(buf[7])
	if check.size() < 0 {
		return 0, &FormatError{Offset: 7, Reason: "unknown check type"}
	}
	if checksum.CRC32(buf[6:8]) != checksum.Uint32LE(buf[8:12]) {
		return 0, &FormatError{Reason: "stream header CRC32 mismatch"}
	}
	return check, nil
}

// writeStreamFooter emits the 12-byte stream footer given the exact byte
// length of the index that precedes it (must be a multiple of 4).
func writeStreamFooter(w io.Writer, check CheckType, indexLen int64) error {
	if indexLen%4 != 0 || indexLen < 4 {
		return fmt.Errorf("xz: index length %d not a positive multiple of 4", indexLen)
	}
	var buf [footerLen]byte
	backward := uint32(indexLen/4 - 1)
	checksum.PutUint32LE(buf[4:8], backward)
	buf[8] = 0
	buf[9] = byte(check)
	copy(buf[10:12], footerMagic[:])
	checksum.PutUint32LE(buf[0:4], checksum.CRC32(buf[4:10]))
	_, err := w.Write(buf[:])
	return err
}

// readStreamFooter parses the footer and returns the index's exact byte
// length.
func readStreamFooter(r io.Reader) (check CheckType, indexLen int64, err error) {
	var buf [footerLen]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, 0, &IOError{Op: "xz: reading stream footer", Err: err}
	}
	if !bytes.Equal(buf[10:12], footerMagic[:]) {
		return 0, 0, &FormatError{Reason: "bad stream footer magic"}
	}
	if checksum.CRC32(buf[4:10]) != checksum.Uint32LE(buf[0:4]) {
		return 0, 0, &FormatError{Reason: "stream footer CRC32 mismatch"}
	}
	if buf[8] != 0 {
		return 0, 0, &FormatError{Offset: 8, Reason: "reserved footer byte nonzero"}
	}
	check = CheckType(buf[9])
	if check.size() < 0 {
		return 0, 0, &FormatError{Offset: 9, Reason: "unknown check type"}
	}
	backward := checksum.Uint32LE(buf[0:4])
	indexLen = (int64(backward) + 1) * 4
	return check, indexLen, nil
}
