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

// Package checksum provides the CRC32 and CRC64 variants used by the XZ
// and PAR2 formats, always emitted little-endian regardless of host byte
// order. It builds on the standard library's crc32/crc64 table
// implementations (which already exercise the exact IEEE and ECMA
// polynomials bit-for-bit) rather than re-deriving a polynomial-division
// loop by hand.
package checksum

import (
	"hash/crc32"
	"hash/crc64"
)

// ieeeTable is built from the CRC32 polynomial used by XZ (0xEDB88320,
// reflected form of the standard IEEE 802.3 polynomial).
var ieeeTable = crc32.MakeTable(crc32.IEEE)

// ECMAPoly is the CRC64 polynomial used by XZ, 0xC96C5795D7870F42.
const ECMAPoly = 0xC96C5795D7870F42

var ecmaTable = crc64.MakeTable(ECMAPoly)

// CRC32 returns the IEEE CRC32 checksum of data.
func CRC32(data []byte) uint32 {
	return crc32.Checksum(data, ieeeTable)
}

// CRC64 returns the ECMA CRC64 checksum of data.
func CRC64(data []byte) uint64 {
	return crc64.Checksum(data, ecmaTable)
}

// PutUint32LE writes v into buf (which must be at least 4 bytes) in
// little-endian order.
func PutUint32LE(buf []byte, v uint32) {
	buf[0] = byte(v)
	buf[1] = byte(v >> 8)
	buf[2] = byte(v >> 16)
	buf[3] = byte(v >> 24)
}

// Uint32LE reads a little-endian uint32 from buf.
func Uint32LE(buf []byte) uint32 {
	return uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
}

// PutUint64LE writes v into buf (which must be at least 8 bytes) in
// little-endian order.
func PutUint64LE(buf []byte, v uint64) {
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> uint(8*i))
	}
}

// Uint64LE reads a little-endian uint64 from buf.
func Uint64LE(buf []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(buf[i]) << uint(8*i)
	}
	return v
}

// NewCRC32 returns a running CRC32 hash, for incremental checksums.
func NewCRC32() hash32 { return crc32.New(ieeeTable) }

type hash32 interface {
	Write([]byte) (int, error)
	Sum32() uint32
	Reset()
}
