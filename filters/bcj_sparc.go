// Copyright (c) 2026 The Omnizip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later

package filters

// bcjSPARC converts SPARC CALL instructions: 4-byte aligned, big-endian,
// top 2 bits == 01 (the CALL format's fixed "op" field), carrying a 30-bit
// word-granularity relative target. The op field is never modified, so
// the recognizer is stable across the transform and the filter is exactly
// reversible for any input.
type bcjSPARC struct{}

func (bcjSPARC) Encode(buf []byte, startOffset uint32) { sparcConvert(buf, startOffset, true) }
func (bcjSPARC) Decode(buf []byte, startOffset uint32) { sparcConvert(buf, startOffset, false) }

func (bcjSPARC) Kind() Kind { return KindBCJSPARC }

func sparcConvert(buf []byte, ip uint32, encoding bool) {
	for i := 0; i+4 <= len(buf); i += 4 {
		word := uint32(buf[i])<<24 | uint32(buf[i+1])<<16 | uint32(buf[i+2])<<8 | uint32(buf[i+3])
		if word>>30 != 0x01 {
			continue
		}
		src := word & 0x3FFFFFFF
		var dest uint32
		if encoding {
			dest = src + (ip+uint32(i))/4
		} else {
			dest = src - (ip+uint32(i))/4
		}
		dest &= 0x3FFFFFFF
		word = 0x40000000 | dest
		buf[i] = byte(word >> 24)
		buf[i+1] = byte(word >> 16)
		buf[i+2] = byte(word >> 8)
		buf[i+3] = byte(word)
	}
}
