// Copyright (c) 2026 The Omnizip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later

package lzma

import (
	"fmt"

	"github.com/omnizip/omnizip-sub003/errs"
)

// Properties holds the lc/lp/pb triple and dictionary size that parameterize
// an LZMA stream, together with the single-byte encoding used in the LZMA1
// header and the LZMA2 property byte.
type Properties struct {
	LC, LP, PB uint32
	DictSize   uint32
}

// DefaultProperties returns the conventional lc=3, lp=0, pb=2 triple used by
// most LZMA encoders absent other guidance.
func DefaultProperties() Properties {
	return Properties{LC: 3, LP: 0, PB: 2, DictSize: 1 << 24}
}

// PropByte packs lc/lp/pb into the single byte used by the LZMA1 header,
// as (pb*5+lp)*9+lc.
func (p Properties) PropByte() (byte, error) {
	if p.LC > 8 || p.LP > 4 || p.PB > 4 {
		return 0, &errs.ArgumentError{Name: "LC/LP/PB", Reason: fmt.Sprintf("out of range: %d/%d/%d", p.LC, p.LP, p.PB)}
	}
	v := (p.PB*5+p.LP)*9 + p.LC
	if v > 255 {
		return 0, &errs.ArgumentError{Name: "LC/LP/PB", Reason: fmt.Sprintf("encoded properties byte overflow: %d", v)}
	}
	return byte(v), nil
}

// ParsePropByte decodes the packed lc/lp/pb byte written by PropByte.
func ParsePropByte(b byte) (lc, lp, pb uint32, err error) {
	v := uint32(b)
	if v >= 9*5*5 {
		return 0, 0, 0, &errs.FormatError{Reason: fmt.Sprintf("invalid properties byte 0x%02x", b)}
	}
	lc = v % 9
	v /= 9
	lp = v % 5
	pb = v / 5
	return lc, lp, pb, nil
}

// ValidDictSize reports whether size is an acceptable dictionary size: at
// least 4 KiB, per the format's minimum usable window.
func ValidDictSize(size uint32) bool {
	return size >= 1<<12
}
