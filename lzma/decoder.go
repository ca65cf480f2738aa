// Copyright (c) 2026 The Omnizip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later

package lzma

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/omnizip/omnizip-sub003/rangecoder"
)

// ErrUnknownSize names the case of a header whose uncompressed-size field
// is all-ones (EOS-terminated). Decode and DecodeRaw do not return it: they
// decode such a stream up to its end-of-stream marker.
var ErrUnknownSize = errors.New("lzma: stream declares unknown size (EOS-terminated)")

const unknownSize = ^uint64(0)

// Decoder range-decodes an LZMA1 or raw LZMA payload into an in-memory
// buffer, mirroring Encoder's whole-buffer contract.
type Decoder struct{}

// NewDecoder returns a Decoder; it carries no state of its own since each
// Decode/DecodeRaw call is independent.
func NewDecoder() *Decoder { return &Decoder{} }

// Decode parses the 13-byte LZMA1 header and decodes the payload that
// follows in r.
func (dec *Decoder) Decode(r io.Reader) ([]byte, Properties, error) {
	var hdr [13]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, Properties{}, fmt.Errorf("lzma: reading header: %w", err)
	}
	lc, lp, pb, err := ParsePropByte(hdr[0])
	if err != nil {
		return nil, Properties{}, err
	}
	props := Properties{
		LC:       lc,
		LP:       lp,
		PB:       pb,
		DictSize: binary.LittleEndian.Uint32(hdr[1:5]),
	}
	size := binary.LittleEndian.Uint64(hdr[5:13])

	out, err := dec.DecodeRaw(r, props, size)
	return out, props, err
}

// DecodeRaw range-decodes a payload with no header, given properties from
// out of band (e.g. an LZMA2 chunk's property byte) and an expected size;
// pass unknownSize's all-ones value to decode until the EOS marker instead.
func (dec *Decoder) DecodeRaw(r io.Reader, props Properties, size uint64) ([]byte, error) {
	rc, err := rangecoder.NewDecoder(r)
	if err != nil {
		return nil, err
	}
	ms := newModelSet(props.LC, props.LP)
	dictSize := props.DictSize
	if dictSize == 0 {
		dictSize = 1 << 12
	}
	dict := NewDictionary(dictSize)

	state := State(0)
	reps := [4]uint32{0, 0, 0, 0}
	pb := props.PB

	var out []byte
	wantSize := size != unknownSize
	for {
		if wantSize && uint64(len(out)) >= size {
			break
		}
		ps := posState(dict.Pos(), pb)
		isMatch, err := rc.DecodeBit(&ms.isMatch[state][ps])
		if err != nil {
			return nil, err
		}
		if isMatch == 0 {
			prevByte := byte(0)
			if dict.Pos() > 0 {
				prevByte = dict.GetByte(1)
			}
			var sym byte
			if state.IsLiteral() {
				sym, err = ms.literal.decodeNormal(rc, dict.Pos(), prevByte)
			} else {
				matchByte := dict.GetByte(reps[0] + 1)
				sym, err = ms.literal.decodeMatched(rc, dict.Pos(), prevByte, matchByte)
			}
			if err != nil {
				return nil, err
			}
			dict.PutByte(sym)
			out = append(out, sym)
			state = state.AfterLiteral()
			continue
		}

		isRep, err := rc.DecodeBit(&ms.isRep[state])
		if err != nil {
			return nil, err
		}
		var length uint32
		if isRep == 0 {
			length, err = ms.matchLen.decode(rc, ps)
			if err != nil {
				return nil, err
			}
			dist, err := ms.dist.decode(rc, length)
			if err != nil {
				return nil, err
			}
			if dist == eosDistance {
				break
			}
			reps[3], reps[2], reps[1], reps[0] = reps[2], reps[1], reps[0], dist
			state = state.AfterMatch()
		} else {
			repG0, err := rc.DecodeBit(&ms.isRepG0[state])
			if err != nil {
				return nil, err
			}
			var repIdx int
			short := false
			if repG0 == 0 {
				isRep0Long, err := rc.DecodeBit(&ms.isRep0Long[state][ps])
				if err != nil {
					return nil, err
				}
				if isRep0Long == 0 {
					short = true
				}
				repIdx = 0
			} else {
				repG1, err := rc.DecodeBit(&ms.isRepG1[state])
				if err != nil {
					return nil, err
				}
				if repG1 == 0 {
					repIdx = 1
				} else {
					repG2, err := rc.DecodeBit(&ms.isRepG2[state])
					if err != nil {
						return nil, err
					}
					if repG2 == 0 {
						repIdx = 2
					} else {
						repIdx = 3
					}
				}
			}
			if short {
				length = 1
			} else {
				length, err = ms.repLen.decode(rc, ps)
				if err != nil {
					return nil, err
				}
			}
			if repIdx != 0 {
				d := reps[repIdx]
				copy(reps[1:repIdx+1], reps[:repIdx])
				reps[0] = d
			}
			if short {
				state = state.AfterShortRep()
			} else {
				state = state.AfterRep()
			}
		}

		dist := reps[0]
		if !dict.CheckDistance(dist + 1) {
			return nil, &DecompressionError{Offset: int64(len(out)), Reason: "distance exceeds available dictionary"}
		}
		out = dict.CopyMatch(dist+1, int(length), out)
	}

	if wantSize && uint64(len(out)) != size {
		return nil, &DecompressionError{Offset: int64(len(out)), Reason: fmt.Sprintf("size mismatch: header declared %d bytes, produced %d", size, uint64(len(out)))}
	}
	return out, nil
}
