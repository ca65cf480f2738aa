// Copyright (c) 2026 The Omnizip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later

package filters

import (
	"fmt"

	"github.com/omnizip/omnizip-sub003/errs"
)

// delta implements the byte-wise delta filter: out[i] = in[i] - in[i-d],
// wrapping mod 256, with d in 1..256.
type delta struct {
	d int
}

func newDelta(d int) (*delta, error) {
	if d < 1 || d > 256 {
		return nil, &errs.ArgumentError{Name: "DeltaDist", Reason: fmt.Sprintf("%d out of range 1..256", d)}
	}
	return &delta{d: d}, nil
}

// Encode overwrites buf in place with its forward difference; startOffset
// is unused since delta has no position dependence.
func (f *delta) Encode(buf []byte, startOffset uint32) {
	var history [256]byte
	d := f.d
	pos := 0
	for i := range buf {
		cur := buf[i]
		prev := history[pos]
		history[pos] = cur
		pos++
		if pos == d {
			pos = 0
		}
		buf[i] = cur - prev
	}
}

// Decode reverses Encode via a running prefix sum over the last d bytes.
func (f *delta) Decode(buf []byte, startOffset uint32) {
	var history [256]byte
	d := f.d
	pos := 0
	for i := range buf {
		v := buf[i] + history[pos]
		buf[i] = v
		history[pos] = v
		pos++
		if pos == d {
			pos = 0
		}
	}
}

func (f *delta) Kind() Kind { return KindDelta }

// DeltaDist returns the distance this filter was constructed with, so a
// caller holding only the Filter interface can recover it via the
// DeltaDistance interface.
func (f *delta) DeltaDist() int { return f.d }
