// Copyright (c) 2026 The Omnizip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later

package lzma

import "github.com/omnizip/omnizip-sub003/rangecoder"

// literalCoder encodes/decodes the 8-bit literal byte following any state,
// using a context selected by lc (high bits of the previous byte) and lp
// (low bits of the current position). When the previous symbol was a match,
// the coder additionally mixes in the bits of the matched byte (the byte at
// the match distance from the last match), giving an early mismatch escape.
type literalCoder struct {
	lc, lp uint32
	mask   uint32
	probs  []rangecoder.Prob // numSubModels * 0x300, indexed by base+symbolIndex
}

func newLiteralCoder(lc, lp uint32) *literalCoder {
	mask := uint32(0x100<<lp) - uint32(0x100>>lc)
	numSubModels := uint32(1) << (lc + lp)
	probs := make([]rangecoder.Prob, numSubModels*0x300)
	for i := range probs {
		probs[i] = rangecoder.NewProb()
	}
	return &literalCoder{lc: lc, lp: lp, mask: mask, probs: probs}
}

// subModelBase computes the offset of the 0x300-entry model selected by the
// output position and the previous output byte. The formula masks
// ((pos<<8)|prevByte) down to lc+lp significant bits and multiplies by
// 0x300, equivalent to the conventional ((pos & posMask)<<lc)+(prevByte>>(8-lc))
// indexing but expressed without a separate pos_state shift.
func (lco *literalCoder) subModelBase(pos uint32, prevByte byte) int {
	context := ((pos << 8) | uint32(prevByte)) & lco.mask
	return int(3 * (context << lco.lc))
}

// encodeNormal encodes a literal byte with no preceding match (or the first
// byte of the stream), as a plain 8-bit bit-tree.
func (lco *literalCoder) encodeNormal(e *rangecoder.Encoder, pos uint32, prevByte, symbol byte) {
	base := lco.subModelBase(pos, prevByte)
	probs := lco.probs[base : base+0x300]
	m := uint32(1)
	for i := 7; i >= 0; i-- {
		b := int((symbol >> uint(i)) & 1)
		e.EncodeBit(&probs[m], b)
		m = (m << 1) | uint32(b)
	}
}

// encodeMatched encodes a literal byte that immediately follows a match,
// mixing in the bits of matchByte (the byte the match would have produced)
// so that a literal diverging from the match can be coded cheaply at the
// point of divergence.
func (lco *literalCoder) encodeMatched(e *rangecoder.Encoder, pos uint32, prevByte, matchByte, symbol byte) {
	base := lco.subModelBase(pos, prevByte)
	probs := lco.probs[base : base+0x300]
	m := uint32(1)
	mb := matchByte
	for i := 7; i >= 0; i-- {
		matchBit := uint32((mb >> 7) & 1)
		mb <<= 1
		b := int((symbol >> uint(i)) & 1)
		idx := ((1 + matchBit) << 8) + m
		e.EncodeBit(&probs[idx], b)
		m = (m << 1) | uint32(b)
		if matchBit != uint32(b) {
			// divergence: fall back to the plain tree for the remaining bits
			for i--; i >= 0; i-- {
				b := int((symbol >> uint(i)) & 1)
				e.EncodeBit(&probs[m], b)
				m = (m << 1) | uint32(b)
			}
			return
		}
	}
}

// decodeNormal decodes a plain literal byte.
func (lco *literalCoder) decodeNormal(d *rangecoder.Decoder, pos uint32, prevByte byte) (byte, error) {
	base := lco.subModelBase(pos, prevByte)
	probs := lco.probs[base : base+0x300]
	m := uint32(1)
	for m < 0x100 {
		b, err := d.DecodeBit(&probs[m])
		if err != nil {
			return 0, err
		}
		m = (m << 1) | uint32(b)
	}
	return byte(m - 0x100), nil
}

// decodeMatched decodes a literal byte following a match, mirroring
// encodeMatched's context mixing and fallback.
func (lco *literalCoder) decodeMatched(d *rangecoder.Decoder, pos uint32, prevByte, matchByte byte) (byte, error) {
	base := lco.subModelBase(pos, prevByte)
	probs := lco.probs[base : base+0x300]
	m := uint32(1)
	mb := matchByte
	for m < 0x100 {
		matchBit := uint32((mb >> 7) & 1)
		mb <<= 1
		idx := ((1 + matchBit) << 8) + m
		b, err := d.DecodeBit(&probs[idx])
		if err != nil {
			return 0, err
		}
		m = (m << 1) | uint32(b)
		if matchBit != uint32(b) {
			for m < 0x100 {
				b, err := d.DecodeBit(&probs[m])
				if err != nil {
					return 0, err
				}
				m = (m << 1) | uint32(b)
			}
			break
		}
	}
	return byte(m - 0x100), nil
}
