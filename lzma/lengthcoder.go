// Copyright (c) 2026 The Omnizip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later

package lzma

import "github.com/omnizip/omnizip-sub003/rangecoder"

// lengthCoder encodes/decodes match lengths >= matchMinLen using three
// tiers selected by two binary choices: low (3 bits, 2..9) and mid (3
// bits, 10..17), each with its own sub-model per pos_state, and high (8
// bits, 18..273), one sub-model shared by all pos_states as in the LZMA
// bitstream format. A separate instance is kept for regular vs
// repeated-match lengths.
type lengthCoder struct {
	choice  rangecoder.Prob
	choice2 rangecoder.Prob
	low     [numPosStates][lowLenSymbols]rangecoder.Prob
	mid     [numPosStates][midLenSymbols]rangecoder.Prob
	high    [highLenSymbols]rangecoder.Prob
}

func newLengthCoder() *lengthCoder {
	lc := &lengthCoder{choice: rangecoder.NewProb(), choice2: rangecoder.NewProb()}
	for ps := 0; ps < numPosStates; ps++ {
		for i := range lc.low[ps] {
			lc.low[ps][i] = rangecoder.NewProb()
		}
		for i := range lc.mid[ps] {
			lc.mid[ps][i] = rangecoder.NewProb()
		}
	}
	for i := range lc.high {
		lc.high[i] = rangecoder.NewProb()
	}
	return lc
}

// encode writes length-matchMinLen (0..271) as the appropriate tier.
func (lc *lengthCoder) encode(e *rangecoder.Encoder, posState int, length uint32) {
	v := length - matchMinLen
	if v < lowLenSymbols {
		e.EncodeBit(&lc.choice, 0)
		bitTreeEncode(e, lc.low[posState][:], numLowLenBits, v)
		return
	}
	e.EncodeBit(&lc.choice, 1)
	v -= lowLenSymbols
	if v < midLenSymbols {
		e.EncodeBit(&lc.choice2, 0)
		bitTreeEncode(e, lc.mid[posState][:], numMidLenBits, v)
		return
	}
	e.EncodeBit(&lc.choice2, 1)
	v -= midLenSymbols
	bitTreeEncode(e, lc.high[:], numHighLenBits, v)
}

// decode returns the decoded length (matchMinLen..matchMaxLen).
func (lc *lengthCoder) decode(d *rangecoder.Decoder, posState int) (uint32, error) {
	b, err := d.DecodeBit(&lc.choice)
	if err != nil {
		return 0, err
	}
	if b == 0 {
		v, err := bitTreeDecode(d, lc.low[posState][:], numLowLenBits)
		if err != nil {
			return 0, err
		}
		return v + matchMinLen, nil
	}
	b2, err := d.DecodeBit(&lc.choice2)
	if err != nil {
		return 0, err
	}
	if b2 == 0 {
		v, err := bitTreeDecode(d, lc.mid[posState][:], numMidLenBits)
		if err != nil {
			return 0, err
		}
		return v + lowLenSymbols + matchMinLen, nil
	}
	v, err := bitTreeDecode(d, lc.high[:], numHighLenBits)
	if err != nil {
		return 0, err
	}
	return v + lowLenSymbols + midLenSymbols + matchMinLen, nil
}

// lenToPosState clips a match length to one of numLenToPosStates tiers,
// used to select the distance-slot model.
func lenToPosState(length uint32) int {
	v := int(length) - matchMinLen
	if v >= numLenToPosStates {
		return numLenToPosStates - 1
	}
	return v
}
