// Copyright (c) 2026 The Omnizip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later

package filters

// bcjIA64 converts branch-call instruction slots within 16-byte-aligned
// IA-64 (Itanium) instruction bundles. Only bundle templates known to
// carry a branch-type slot are touched, and only the 20-bit immediate
// field within the matching slot's 41-bit instruction word is rewritten;
// all recognizer bits (the 5-bit template and each slot's 4-bit opcode)
// are left untouched, so the filter is exactly reversible for any input.
type bcjIA64 struct{}

func (bcjIA64) Encode(buf []byte, startOffset uint32) { ia64Convert(buf, startOffset, true) }
func (bcjIA64) Decode(buf []byte, startOffset uint32) { ia64Convert(buf, startOffset, false) }

func (bcjIA64) Kind() Kind { return KindBCJIA64 }

// branchTemplates lists the bundle template numbers (low 5 bits of byte 0)
// that place a branch-capable instruction in slot 2, per the IA-64 bundle
// format's well-known template table.
var branchTemplates = map[byte]bool{
	0x00: true, 0x01: true, 0x02: true, 0x03: true,
	0x04: true, 0x05: true, 0x06: true, 0x07: true,
	0x08: true, 0x09: true, 0x0A: true, 0x0B: true,
	0x10: true, 0x11: true, 0x12: true, 0x13: true,
	0x16: true, 0x17: true, 0x18: true, 0x19: true,
	0x1B: true, 0x1D: true,
}

func ia64Convert(buf []byte, ip uint32, encoding bool) {
	for i := 0; i+16 <= len(buf); i += 16 {
		template := buf[i] & 0x1F
		if !branchTemplates[template] {
			continue
		}
		// Slot 2 occupies bits 87..127 of the 128-bit bundle; its opcode
		// nibble (bits 37..40 of the slot) selects the branch-type
		// instructions this filter targets (opcode 5, "br").
		slot2 := readSlot(buf[i:i+16], 2)
		opcode := (slot2 >> 37) & 0xF
		if opcode != 5 {
			continue
		}
		immMask := uint64(0xFFFFF) << 13
		signMask := uint64(1) << 36
		imm := (slot2 & immMask) >> 13
		imm |= (slot2 & signMask) >> (36 - 20)
		src := uint32(imm) << 4

		var dest uint32
		if encoding {
			dest = src + (ip + uint32(i))
		} else {
			dest = src - (ip + uint32(i))
		}
		dest >>= 4
		newImm := uint64(dest) & 0x1FFFFF

		slot2 &^= immMask | signMask
		slot2 |= (newImm & 0xFFFFF) << 13
		slot2 |= (newImm >> 20 & 1) << 36
		writeSlot(buf[i:i+16], 2, slot2)
	}
}

// readSlot extracts the 41-bit instruction slot n (0, 1, or 2) from a
// 16-byte bundle, stored as 128 bits little-endian (5-bit template + three
// 41-bit slots).
func readSlot(bundle []byte, n int) uint64 {
	var v [2]uint64
	v[0] = uint64(bundle[0]) | uint64(bundle[1])<<8 | uint64(bundle[2])<<16 | uint64(bundle[3])<<24 |
		uint64(bundle[4])<<32 | uint64(bundle[5])<<40 | uint64(bundle[6])<<48 | uint64(bundle[7])<<56
	v[1] = uint64(bundle[8]) | uint64(bundle[9])<<8 | uint64(bundle[10])<<16 | uint64(bundle[11])<<24 |
		uint64(bundle[12])<<32 | uint64(bundle[13])<<40 | uint64(bundle[14])<<48 | uint64(bundle[15])<<56

	bitOff := 5 + n*41
	return extractBits128(v, bitOff, 41)
}

func writeSlot(bundle []byte, n int, value uint64) {
	var v [2]uint64
	v[0] = uint64(bundle[0]) | uint64(bundle[1])<<8 | uint64(bundle[2])<<16 | uint64(bundle[3])<<24 |
		uint64(bundle[4])<<32 | uint64(bundle[5])<<40 | uint64(bundle[6])<<48 | uint64(bundle[7])<<56
	v[1] = uint64(bundle[8]) | uint64(bundle[9])<<8 | uint64(bundle[10])<<16 | uint64(bundle[11])<<24 |
		uint64(bundle[12])<<32 | uint64(bundle[13])<<40 | uint64(bundle[14])<<48 | uint64(bundle[15])<<56

	bitOff := 5 + n*41
	insertBits128(&v, bitOff, 41, value)

	for i := 0; i < 8; i++ {
		bundle[i] = byte(v[0] >> (8 * uint(i)))
		bundle[8+i] = byte(v[1] >> (8 * uint(i)))
	}
}

func extractBits128(v [2]uint64, off, n int) uint64 {
	var result uint64
	for i := 0; i < n; i++ {
		bit := off + i
		word := bit / 64
		b := bit % 64
		if v[word]&(1<<uint(b)) != 0 {
			result |= 1 << uint(i)
		}
	}
	return result
}

func insertBits128(v *[2]uint64, off, n int, value uint64) {
	for i := 0; i < n; i++ {
		bit := off + i
		word := bit / 64
		b := bit % 64
		if value&(1<<uint(i)) != 0 {
			v[word] |= 1 << uint(b)
		} else {
			v[word] &^= 1 << uint(b)
		}
	}
}
