// Copyright (c) 2026 The Omnizip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later

package filters

import (
	"bytes"
	"testing"
)

func roundTripFilter(t *testing.T, f Filter, data []byte, startOffset uint32) {
	t.Helper()
	buf := append([]byte(nil), data...)
	f.Encode(buf, startOffset)
	f.Decode(buf, startOffset)
	if !bytes.Equal(buf, data) {
		t.Fatalf("round trip mismatch:\n got  %x\n want %x", buf, data)
	}
}

func TestDeltaRoundTrip(t *testing.T) {
	for _, d := range []int{1, 2, 4, 16, 256} {
		f, err := New(KindDelta, d)
		if err != nil {
			t.Fatalf("New delta %d: %v", d, err)
		}
		data := make([]byte, 300)
		x := byte(7)
		for i := range data {
			x = x*31 + 1
			data[i] = x
		}
		roundTripFilter(t, f, data, 0)
	}
}

func TestDeltaRejectsOutOfRangeDistance(t *testing.T) {
	if _, err := New(KindDelta, 0); err == nil {
		t.Fatal("expected error for distance 0")
	}
	if _, err := New(KindDelta, 257); err == nil {
		t.Fatal("expected error for distance 257")
	}
}

func TestBCJX86RoundTrip(t *testing.T) {
	f, _ := New(KindBCJX86, 0)
	data := bytes.Repeat([]byte{0xE8, 0x00, 0x00, 0x00, 0x00}, 64)
	roundTripFilter(t, f, data, 0)
}

func TestBCJX86RoundTripRandomData(t *testing.T) {
	f, _ := New(KindBCJX86, 0)
	data := make([]byte, 512)
	x := uint32(42)
	for i := range data {
		x = x*1664525 + 1013904223
		data[i] = byte(x >> 16)
	}
	roundTripFilter(t, f, data, 0)
}

func TestBCJARMRoundTrip(t *testing.T) {
	f, _ := New(KindBCJARM, 0)
	data := []byte{0x01, 0x02, 0x03, 0xEB, 0x10, 0x20, 0x30, 0xEB}
	roundTripFilter(t, f, data, 0)
}

func TestBCJARMThumbRoundTrip(t *testing.T) {
	f, _ := New(KindBCJARMThumb, 0)
	data := []byte{0x00, 0xF0, 0x00, 0xF8, 0x00, 0xF0, 0x00, 0xF8}
	roundTripFilter(t, f, data, 0)
}

func TestBCJARM64RoundTrip(t *testing.T) {
	f, _ := New(KindBCJARM64, 0)
	data := []byte{0x00, 0x00, 0x00, 0x94, 0x01, 0x00, 0x00, 0x94}
	roundTripFilter(t, f, data, 0)
}

func TestBCJPowerPCRoundTrip(t *testing.T) {
	f, _ := New(KindBCJPowerPC, 0)
	data := []byte{0x48, 0x00, 0x00, 0x01, 0x48, 0x00, 0x10, 0x01}
	roundTripFilter(t, f, data, 0)
}

func TestBCJSPARCRoundTrip(t *testing.T) {
	f, _ := New(KindBCJSPARC, 0)
	data := []byte{0x40, 0x00, 0x00, 0x01, 0x40, 0x00, 0x10, 0x01}
	roundTripFilter(t, f, data, 0)
}

func TestBCJIA64RoundTrip(t *testing.T) {
	f, _ := New(KindBCJIA64, 0)
	data := make([]byte, 16)
	data[0] = 0x05 // a branch-capable template
	roundTripFilter(t, f, data, 0)
}

func TestFilterIDRoundTrip(t *testing.T) {
	kinds := []Kind{KindDelta, KindBCJX86, KindBCJARM, KindBCJARMThumb, KindBCJARM64, KindBCJPowerPC, KindBCJIA64, KindBCJSPARC}
	for _, k := range kinds {
		id := k.FilterID()
		got, err := KindFromFilterID(id)
		if err != nil {
			t.Fatalf("KindFromFilterID(%d): %v", id, err)
		}
		if got != k {
			t.Fatalf("got %v want %v", got, k)
		}
	}
}
