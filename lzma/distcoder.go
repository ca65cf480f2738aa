// Copyright (c) 2026 The Omnizip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later

package lzma

import "github.com/omnizip/omnizip-sub003/rangecoder"

// distCoder encodes/decodes match distances per spec §4.5: a 6-bit
// distance-slot model selected by lenToPosState, slots 0..3 are the
// distance directly, slots >= endPosModelIndex (footer_bits >= 4) split
// into direct uniform bits plus a shared 4-bit align model, and slots in
// between (footer_bits 1..3) share a small overlapping reverse-tree model.
type distCoder struct {
	posSlot [numLenToPosStates][1 << numPosSlotBits]rangecoder.Prob
	specPos [specPosSize]rangecoder.Prob
	align   [alignTableSize]rangecoder.Prob
}

func newDistCoder() *distCoder {
	dc := &distCoder{}
	for t := range dc.posSlot {
		for i := range dc.posSlot[t] {
			dc.posSlot[t][i] = rangecoder.NewProb()
		}
	}
	for i := range dc.specPos {
		dc.specPos[i] = rangecoder.NewProb()
	}
	for i := range dc.align {
		dc.align[i] = rangecoder.NewProb()
	}
	return dc
}

// distSlot computes the 6-bit distance slot for a distance (dist-1, i.e.
// already zero-based) per the standard LZMA slot assignment: slots 0..3
// map directly, and slots >= 4 encode floor(log2(d)) with one extra bit
// distinguishing the lower/upper half of each power-of-two octave.
func distSlot(dist uint32) uint32 {
	if dist < 4 {
		return dist
	}
	n := 31 - leadingZeros32(dist)
	return uint32(n*2) + ((dist >> uint(n-1)) & 1)
}

func leadingZeros32(x uint32) int {
	n := 0
	for i := 31; i >= 0; i-- {
		if x&(1<<uint(i)) != 0 {
			return 31 - i
		}
		n++
	}
	return 32
}

func (dc *distCoder) encode(e *rangecoder.Encoder, length, dist uint32) {
	slot := distSlot(dist)
	lps := lenToPosState(length)
	bitTreeEncode(e, dc.posSlot[lps][:], numPosSlotBits, slot)

	if slot < 4 {
		return
	}
	numDirectBits := int(slot>>1) - 1
	base := (2 | (slot & 1)) << uint(numDirectBits)
	footer := numDirectBits

	if footer < numAlignBits { // footer_bits in 1..3: shared small model
		ofsBase := int(base) - int(slot) - 1
		bitTreeReverseEncode(e, dc.specPos[:], ofsBase, numDirectBits, dist-base)
		return
	}

	directBits := numDirectBits - numAlignBits
	rem := dist - base
	if directBits > 0 {
		e.EncodeDirectBits(rem>>uint(numAlignBits), directBits)
	}
	bitTreeReverseEncode(e, dc.align[:], 0, numAlignBits, rem&(alignTableSize-1))
}

func (dc *distCoder) decode(d *rangecoder.Decoder, length uint32) (uint32, error) {
	lps := lenToPosState(length)
	slot, err := bitTreeDecode(d, dc.posSlot[lps][:], numPosSlotBits)
	if err != nil {
		return 0, err
	}
	if slot < 4 {
		return slot, nil
	}
	numDirectBits := int(slot>>1) - 1
	base := (2 | (slot & 1)) << uint(numDirectBits)

	if numDirectBits < numAlignBits { // footer_bits in 1..3
		ofsBase := int(base) - int(slot) - 1
		rem, err := bitTreeReverseDecode(d, dc.specPos[:], ofsBase, numDirectBits)
		if err != nil {
			return 0, err
		}
		return base + rem, nil
	}

	directBits := numDirectBits - numAlignBits
	var direct uint32
	if directBits > 0 {
		direct, err = d.DecodeDirectBits(directBits)
		if err != nil {
			return 0, err
		}
	}
	align, err := bitTreeReverseDecode(d, dc.align[:], 0, numAlignBits)
	if err != nil {
		return 0, err
	}
	return base + (direct << uint(numAlignBits)) + align, nil
}
