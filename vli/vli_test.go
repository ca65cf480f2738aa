// Copyright (c) 2026 The Omnizip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later

package vli

import (
	"math/rand"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 13, 127, 128, 129, 16383, 16384, 1 << 32, MaxValue}
	for _, v := range values {
		enc, err := Encode(v)
		if err != nil {
			t.Fatalf("encode %d: %v", v, err)
		}
		got, n, err := DecodeBytes(enc)
		if err != nil {
			t.Fatalf("decode %d: %v", v, err)
		}
		if got != v || n != len(enc) {
			t.Fatalf("round trip %d: got %d (n=%d, want %d)", v, got, n, len(enc))
		}
	}
}

func TestRoundTripRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 5000; i++ {
		v := uint64(rng.Int63n(int64(MaxValue)))
		enc, err := Encode(v)
		if err != nil {
			t.Fatalf("encode %d: %v", v, err)
		}
		got, _, err := DecodeBytes(enc)
		if err != nil || got != v {
			t.Fatalf("round trip %d: got %d err %v", v, got, err)
		}
	}
}

func TestScenario13DecodesTo13(t *testing.T) {
	v, n, err := DecodeBytes([]byte{0x0D})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v != 13 || n != 1 {
		t.Fatalf("got v=%d n=%d, want v=13 n=1", v, n)
	}
}

func TestNonMinimalEncodingRejected(t *testing.T) {
	// 0x8D 0x00 is a non-minimal 2-byte encoding of 13 (fits in one byte).
	_, _, err := DecodeBytes([]byte{0x8D, 0x00})
	if err != ErrNonMinimal {
		t.Fatalf("expected ErrNonMinimal, got %v", err)
	}
}

func TestOverflowRejected(t *testing.T) {
	if _, err := Encode(MaxValue + 1); err != ErrOverflow {
		t.Fatalf("expected ErrOverflow from Encode, got %v", err)
	}
	// 9 bytes all with continuation except encoding a value > 2^63-1.
	big := make([]byte, 9)
	for i := range big {
		big[i] = 0xFF
	}
	big[8] = 0x7F
	_, _, err := DecodeBytes(big)
	if err != ErrOverflow {
		t.Fatalf("expected ErrOverflow, got %v", err)
	}
}

func TestTooLongRejected(t *testing.T) {
	ten := make([]byte, 10)
	for i := range ten {
		ten[i] = 0xFF
	}
	_, _, err := DecodeBytes(ten)
	if err != ErrTooLong {
		t.Fatalf("expected ErrTooLong, got %v", err)
	}
}

func TestTruncatedInput(t *testing.T) {
	_, _, err := DecodeBytes([]byte{0x80})
	if err == nil {
		t.Fatal("expected error for truncated input")
	}
}
