// Copyright (c) 2026 The Omnizip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later

package lzma

import "github.com/omnizip/omnizip-sub003/rangecoder"

// bitTreeEncode encodes numBits of symbol MSB-first through a binary tree
// of probabilities (probs[1..2^numBits-1]; probs[0] is unused).
func bitTreeEncode(e *rangecoder.Encoder, probs []rangecoder.Prob, numBits int, symbol uint32) {
	m := uint32(1)
	for i := numBits - 1; i >= 0; i-- {
		b := int((symbol >> uint(i)) & 1)
		e.EncodeBit(&probs[m], b)
		m = (m << 1) | uint32(b)
	}
}

// bitTreeDecode decodes numBits MSB-first through the same tree shape.
func bitTreeDecode(d *rangecoder.Decoder, probs []rangecoder.Prob, numBits int) (uint32, error) {
	m := uint32(1)
	for i := 0; i < numBits; i++ {
		b, err := d.DecodeBit(&probs[m])
		if err != nil {
			return 0, err
		}
		m = (m << 1) | uint32(b)
	}
	return m - (1 << uint(numBits)), nil
}

// bitTreeReverseEncode encodes numBits of symbol LSB-first (used for the
// align coder and the small distance-footer model).
func bitTreeReverseEncode(e *rangecoder.Encoder, probs []rangecoder.Prob, base int, numBits int, symbol uint32) {
	m := uint32(1)
	for i := 0; i < numBits; i++ {
		b := int(symbol & 1)
		symbol >>= 1
		e.EncodeBit(&probs[base+int(m)], b)
		m = (m << 1) | uint32(b)
	}
}

// bitTreeReverseDecode decodes numBits LSB-first, writing into probs at
// offset base+m (base may be negative per the distance footer model's
// overlapping-window addressing; base+m is always >= 0 in valid use).
func bitTreeReverseDecode(d *rangecoder.Decoder, probs []rangecoder.Prob, base int, numBits int) (uint32, error) {
	m := uint32(1)
	var symbol uint32
	for i := 0; i < numBits; i++ {
		b, err := d.DecodeBit(&probs[base+int(m)])
		if err != nil {
			return 0, err
		}
		symbol |= uint32(b) << uint(i)
		m = (m << 1) | uint32(b)
	}
	return symbol, nil
}
