// Copyright (c) 2026 The Omnizip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later

package filters

// bcjARM converts ARM BL (branch-with-link) target offsets, recognized by
// the fixed opcode byte 0xEB in the top byte of each 4-byte, little-endian,
// 4-byte-aligned instruction word. The opcode byte itself is never
// modified, so the recognizer gives identical results before and after
// conversion: this filter is exactly reversible for any input.
type bcjARM struct{}

func (bcjARM) Encode(buf []byte, startOffset uint32) { armConvert(buf, startOffset, true) }
func (bcjARM) Decode(buf []byte, startOffset uint32) { armConvert(buf, startOffset, false) }

func (bcjARM) Kind() Kind { return KindBCJARM }

func armConvert(buf []byte, ip uint32, encoding bool) {
	for i := 0; i+4 <= len(buf); i += 4 {
		if buf[i+3] != 0xEB {
			continue
		}
		src := uint32(buf[i]) | uint32(buf[i+1])<<8 | uint32(buf[i+2])<<16
		src <<= 2
		var dest uint32
		if encoding {
			dest = src + (ip + uint32(i) + 8)
		} else {
			dest = src - (ip + uint32(i) + 8)
		}
		dest >>= 2
		buf[i] = byte(dest)
		buf[i+1] = byte(dest >> 8)
		buf[i+2] = byte(dest >> 16)
	}
}
