// Copyright (c) 2026 The Omnizip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later

package lzma

import (
	"bytes"
	"strings"
	"testing"
)

func roundTrip(t *testing.T, data []byte, props Properties, level int) []byte {
	t.Helper()
	var buf bytes.Buffer
	enc := NewEncoder(props, level)
	if err := enc.Encode(&buf, data); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	compressed := append([]byte(nil), buf.Bytes()...)
	dec := NewDecoder()
	out, gotProps, err := dec.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if gotProps.LC != props.LC || gotProps.LP != props.LP || gotProps.PB != props.PB {
		t.Fatalf("properties mismatch: got %+v want %+v", gotProps, props)
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("round trip mismatch: got %q want %q", out, data)
	}
	return compressed
}

func TestHelloWorldRoundTrip(t *testing.T) {
	data := []byte("Hello, World!")
	props := Properties{LC: 3, LP: 0, PB: 2, DictSize: 1 << 16}
	compressed := roundTrip(t, data, props, 5)
	if len(compressed) <= len(data) {
		t.Fatalf("expected overhead for tiny input, got %d bytes for %d-byte input", len(compressed), len(data))
	}
}

func TestEmptyInput(t *testing.T) {
	roundTrip(t, nil, DefaultProperties(), 5)
}

func TestRepetitiveInputUsesMatches(t *testing.T) {
	data := bytes.Repeat([]byte("abcdefgh"), 256)
	props := DefaultProperties()
	compressed := roundTrip(t, data, props, 9)
	if len(compressed) >= len(data) {
		t.Fatalf("expected compression on repetitive input: compressed=%d original=%d", len(compressed), len(data))
	}
}

func TestLongTextRoundTrip(t *testing.T) {
	data := []byte(strings.Repeat("the quick brown fox jumps over the lazy dog. ", 500))
	roundTrip(t, data, DefaultProperties(), 6)
}

func TestAllPropertyCombinations(t *testing.T) {
	data := []byte("a small sample of text used to exercise literal contexts")
	for lc := uint32(0); lc <= 4; lc++ {
		for lp := uint32(0); lp <= 2; lp++ {
			if lc+lp > 4 {
				continue
			}
			props := Properties{LC: lc, LP: lp, PB: 2, DictSize: 1 << 16}
			roundTrip(t, data, props, 3)
		}
	}
}

func TestBinaryDataRoundTrip(t *testing.T) {
	data := make([]byte, 4096)
	x := uint32(12345)
	for i := range data {
		x = x*1664525 + 1013904223
		data[i] = byte(x >> 24)
	}
	roundTrip(t, data, DefaultProperties(), 7)
}

func TestPropByteRoundTrip(t *testing.T) {
	p := Properties{LC: 4, LP: 1, PB: 3}
	b, err := p.PropByte()
	if err != nil {
		t.Fatalf("PropByte: %v", err)
	}
	lc, lp, pb, err := ParsePropByte(b)
	if err != nil {
		t.Fatalf("ParsePropByte: %v", err)
	}
	if lc != p.LC || lp != p.LP || pb != p.PB {
		t.Fatalf("got lc=%d lp=%d pb=%d, want lc=%d lp=%d pb=%d", lc, lp, pb, p.LC, p.LP, p.PB)
	}
}

func TestParsePropByteRejectsOutOfRange(t *testing.T) {
	if _, _, _, err := ParsePropByte(255); err == nil {
		t.Fatal("expected error for out-of-range properties byte")
	}
}

func TestDecodeRejectsTruncatedHeader(t *testing.T) {
	dec := NewDecoder()
	if _, _, err := dec.Decode(bytes.NewReader([]byte{0x5d, 0, 0})); err == nil {
		t.Fatal("expected error decoding truncated header")
	}
}

func TestSizeMismatchDetected(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(DefaultProperties(), 5)
	if err := enc.Encode(&buf, []byte("hello")); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	raw := buf.Bytes()
	// Corrupt the declared uncompressed size to provoke a mismatch.
	raw[5] = 99
	dec := NewDecoder()
	if _, _, err := dec.Decode(bytes.NewReader(raw)); err == nil {
		t.Fatal("expected size mismatch error")
	}
}
