// Copyright (c) 2026 The Omnizip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later

package lzma

import (
	"encoding/binary"
	"io"

	"github.com/omnizip/omnizip-sub003/rangecoder"
)

// modelSet is the full collection of per-state/per-pos_state probability
// models shared by the encoder and decoder, separated from the range coder
// itself so the two can be constructed and reset independently (LZMA2 chunk
// resets touch this set without touching the range coder's byte position).
type modelSet struct {
	isMatch    [numStates][numPosStates]rangecoder.Prob
	isRep      [numStates]rangecoder.Prob
	isRepG0    [numStates]rangecoder.Prob
	isRepG1    [numStates]rangecoder.Prob
	isRepG2    [numStates]rangecoder.Prob
	isRep0Long [numStates][numPosStates]rangecoder.Prob

	literal  *literalCoder
	matchLen *lengthCoder
	repLen   *lengthCoder
	dist     *distCoder
}

func newModelSet(lc, lp uint32) *modelSet {
	ms := &modelSet{
		literal:  newLiteralCoder(lc, lp),
		matchLen: newLengthCoder(),
		repLen:   newLengthCoder(),
		dist:     newDistCoder(),
	}
	for s := 0; s < numStates; s++ {
		for ps := 0; ps < numPosStates; ps++ {
			ms.isMatch[s][ps] = rangecoder.NewProb()
			ms.isRep0Long[s][ps] = rangecoder.NewProb()
		}
		ms.isRep[s] = rangecoder.NewProb()
		ms.isRepG0[s] = rangecoder.NewProb()
		ms.isRepG1[s] = rangecoder.NewProb()
		ms.isRepG2[s] = rangecoder.NewProb()
	}
	return ms
}

// Encoder performs a greedy-or-lazy LZMA match search over an entire input
// buffer and range-codes the result. It does not implement the incremental
// push/pull suspension contract; callers needing that buffer whole messages
// through Encode, which is sufficient for the archive and XZ block
// collaborators that drive it.
type Encoder struct {
	props Properties
	level int
}

// NewEncoder returns an encoder for the given properties and SDK-style
// compression level (0..9, clamped), used to size the match finder.
func NewEncoder(props Properties, level int) *Encoder {
	return &Encoder{props: props, level: level}
}

// posState returns pos mod 2^pb.
func posState(pos uint32, pb uint32) int {
	return int(pos & ((1 << pb) - 1))
}

// Encode writes the LZMA1 header (properties byte, 4-byte dict size, 8-byte
// uncompressed size) followed by the range-coded payload and an explicit
// EOS marker, for data.
func (enc *Encoder) Encode(w io.Writer, data []byte) error {
	var hdr [13]byte
	pb, err := enc.props.PropByte()
	if err != nil {
		return err
	}
	hdr[0] = pb
	binary.LittleEndian.PutUint32(hdr[1:5], enc.props.DictSize)
	binary.LittleEndian.PutUint64(hdr[5:13], uint64(len(data)))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	return enc.EncodeRaw(w, data)
}

// EncodeRaw range-codes data with no header, for use under LZMA2 chunk
// framing where properties and size travel out of band.
func (enc *Encoder) EncodeRaw(w io.Writer, data []byte) error {
	params := levelParamsFor(enc.level)
	dictSize := enc.props.DictSize
	if dictSize == 0 {
		dictSize = params.dictSize
	}

	rc := rangecoder.NewEncoder(w)
	ms := newModelSet(enc.props.LC, enc.props.LP)
	dict := NewDictionary(dictSize)
	mf := newMatchFinder(len(data), params.chainLength, params.niceLen, dictSize)
	mf.Append(data)

	state := State(0)
	reps := [4]uint32{0, 0, 0, 0}
	pb := enc.props.PB

	pos := 0
	for pos < len(data) {
		best, ok := mf.findMatch(pos)
		mf.Advance(pos)

		useMatch := ok && (best.length >= 3 || (best.length == 2 && best.dist < 128))

		if params.lazy && useMatch && pos+1 < len(data) {
			next, nok := mf.findMatch(pos + 1)
			if nok && next.length > best.length {
				useMatch = false
			}
		}

		ps := posState(uint32(pos), pb)
		if !useMatch {
			enc.encodeLiteral(rc, ms, dict, state, reps, data[pos], ps)
			state = state.AfterLiteral()
			dict.PutByte(data[pos])
			pos++
			continue
		}

		repIdx, repLen := bestRep(reps, data, pos, mf)
		if repLen >= matchMinLen && repLen+1 >= best.length {
			enc.encodeRepMatch(rc, ms, state, ps, repIdx, repLen)
			if repIdx != 0 {
				d := reps[repIdx]
				copy(reps[1:repIdx+1], reps[:repIdx])
				reps[0] = d
			}
			if repLen == 1 {
				state = state.AfterShortRep()
			} else {
				state = state.AfterRep()
			}
			for i := uint32(0); i < repLen; i++ {
				dict.PutByte(data[pos+int(i)])
			}
			pos += int(repLen)
			continue
		}

		enc.encodeMatch(rc, ms, state, ps, best.length, best.dist)
		reps[3], reps[2], reps[1], reps[0] = reps[2], reps[1], reps[0], best.dist-1
		state = state.AfterMatch()
		for i := uint32(0); i < best.length; i++ {
			dict.PutByte(data[pos+int(i)])
		}
		pos += int(best.length)
	}

	enc.encodeEOS(rc, ms, state, posState(uint32(pos), pb))
	return rc.Flush()
}

func (enc *Encoder) encodeLiteral(rc *rangecoder.Encoder, ms *modelSet, dict *Dictionary, state State, reps [4]uint32, symbol byte, ps int) {
	rc.EncodeBit(&ms.isMatch[state][ps], 0)
	prevByte := byte(0)
	if dict.Pos() > 0 {
		prevByte = dict.GetByte(1)
	}
	if !state.IsLiteral() {
		matchByte := dict.GetByte(reps[0] + 1)
		ms.literal.encodeMatched(rc, dict.Pos(), prevByte, matchByte, symbol)
		return
	}
	ms.literal.encodeNormal(rc, dict.Pos(), prevByte, symbol)
}

func (enc *Encoder) encodeMatch(rc *rangecoder.Encoder, ms *modelSet, state State, ps int, length, dist uint32) {
	rc.EncodeBit(&ms.isMatch[state][ps], 1)
	rc.EncodeBit(&ms.isRep[state], 0)
	ms.matchLen.encode(rc, ps, length)
	ms.dist.encode(rc, length, dist-1)
}

func (enc *Encoder) encodeRepMatch(rc *rangecoder.Encoder, ms *modelSet, state State, ps int, repIdx int, length uint32) {
	rc.EncodeBit(&ms.isMatch[state][ps], 1)
	rc.EncodeBit(&ms.isRep[state], 1)
	if repIdx == 0 {
		rc.EncodeBit(&ms.isRepG0[state], 0)
		if length == 1 {
			rc.EncodeBit(&ms.isRep0Long[state][ps], 0)
			return
		}
		rc.EncodeBit(&ms.isRep0Long[state][ps], 1)
	} else {
		rc.EncodeBit(&ms.isRepG0[state], 1)
		if repIdx == 1 {
			rc.EncodeBit(&ms.isRepG1[state], 0)
		} else {
			rc.EncodeBit(&ms.isRepG1[state], 1)
			if repIdx == 2 {
				rc.EncodeBit(&ms.isRepG2[state], 0)
			} else {
				rc.EncodeBit(&ms.isRepG2[state], 1)
			}
		}
	}
	ms.repLen.encode(rc, ps, length)
}

func (enc *Encoder) encodeEOS(rc *rangecoder.Encoder, ms *modelSet, state State, ps int) {
	rc.EncodeBit(&ms.isMatch[state][ps], 1)
	rc.EncodeBit(&ms.isRep[state], 0)
	ms.matchLen.encode(rc, ps, matchMinLen)
	ms.dist.encode(rc, matchMinLen, eosDistance)
}

// bestRep checks the four rep-distances for a match at pos at least as
// good as what the hash finder found, since a repeated distance codes far
// cheaper than a fresh one of the same length.
func bestRep(reps [4]uint32, data []byte, pos int, mf *matchFinder) (idx int, length uint32) {
	best := -1
	var bestLen uint32
	for i, d := range reps {
		srcPos := pos - int(d) - 1
		if srcPos < 0 {
			continue
		}
		l := mf.matchLen(srcPos, pos)
		if l >= matchMinLen && l > bestLen {
			bestLen = l
			best = i
		}
	}
	if best < 0 {
		return 0, 0
	}
	return best, bestLen
}
