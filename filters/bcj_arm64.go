// Copyright (c) 2026 The Omnizip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later

package filters

// bcjARM64 converts AArch64 BL (branch-with-link) instructions: 4-byte
// aligned, little-endian, bits 26..31 == 0x25 (opcode 0x94000000), with a
// 26-bit word-granularity immediate. Only the immediate bits are rewritten;
// the fixed opcode bits stay untouched by the transform, so the recognizer
// gives identical results before and after conversion and the filter is
// exactly reversible for any input.
type bcjARM64 struct{}

func (bcjARM64) Encode(buf []byte, startOffset uint32) { arm64Convert(buf, startOffset, true) }
func (bcjARM64) Decode(buf []byte, startOffset uint32) { arm64Convert(buf, startOffset, false) }

func (bcjARM64) Kind() Kind { return KindBCJARM64 }

func arm64Convert(buf []byte, ip uint32, encoding bool) {
	for i := 0; i+4 <= len(buf); i += 4 {
		word := uint32(buf[i]) | uint32(buf[i+1])<<8 | uint32(buf[i+2])<<16 | uint32(buf[i+3])<<24
		if word&0xFC000000 != 0x94000000 {
			continue
		}
		src := word & 0x03FFFFFF
		var dest uint32
		if encoding {
			dest = src + (ip+uint32(i))/4
		} else {
			dest = src - (ip+uint32(i))/4
		}
		dest &= 0x03FFFFFF
		word = 0x94000000 | dest
		buf[i] = byte(word)
		buf[i+1] = byte(word >> 8)
		buf[i+2] = byte(word >> 16)
		buf[i+3] = byte(word >> 24)
	}
}
