// Copyright (c) 2026 The Omnizip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later

package checksum

import "testing"

func TestCRC32KnownVector(t *testing.T) {
	// CRC-32/ISO-HDLC of "123456789" is 0xCBF43926.
	got := CRC32([]byte("123456789"))
	if got != 0xCBF43926 {
		t.Fatalf("got %#x, want 0xcbf43926", got)
	}
}

func TestCRC64KnownVector(t *testing.T) {
	// CRC-64/XZ of "123456789" is 0x995DC9BBDF1939FA.
	got := CRC64([]byte("123456789"))
	if got != 0x995DC9BBDF1939FA {
		t.Fatalf("got %#x, want 0x995dc9bbdf1939fa", got)
	}
}

func TestLittleEndianRoundTrip(t *testing.T) {
	buf := make([]byte, 4)
	PutUint32LE(buf, 0x01020304)
	if got := Uint32LE(buf); got != 0x01020304 {
		t.Fatalf("got %#x want 0x01020304", got)
	}
	if buf[0] != 0x04 || buf[3] != 0x01 {
		t.Fatalf("not little-endian: %v", buf)
	}

	buf8 := make([]byte, 8)
	PutUint64LE(buf8, 0x0102030405060708)
	if got := Uint64LE(buf8); got != 0x0102030405060708 {
		t.Fatalf("got %#x want 0x0102030405060708", got)
	}
	if buf8[0] != 0x08 || buf8[7] != 0x01 {
		t.Fatalf("not little-endian: %v", buf8)
	}
}
