// Copyright (c) 2026 The Omnizip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of omnizip.
//
// omnizip is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// omnizip is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with omnizip.  If not, see <https://www.gnu.org/licenses/>.

// Package lzma implements the LZMA entropy/dictionary core: the 12-state
// machine, literal/length/distance coders, a hash-chain match finder, and
// the full LZMA stream encoder/decoder (header + range-coded payload).
package lzma

const (
	numStates    = 12
	numPosStates = 1 << 4 // pb up to 4

	matchMinLen = 2
	matchMaxLen = 273

	numLenToPosStates = 4
	numPosSlotBits    = 6
	numAlignBits      = 4
	alignTableSize    = 1 << numAlignBits

	// endPosModelIndex is the distance-slot cutoff between the shared
	// small reverse-tree model and the direct-bits+align path. Unlike
	// the reference LZMA SDK's cutoff at footer_bits 6 (slot 14), this
	// core cuts over at footer_bits 4 (slot 10), per the component design.
	endPosModelIndex = 10
	// numFullDistances sizes the shared small-model array so that every
	// slot below endPosModelIndex packs into it without gaps, per the
	// 1<<(endPosModelIndex/2) construction.
	numFullDistances = 1 << (endPosModelIndex / 2)
	specPosSize      = numFullDistances - endPosModelIndex

	numLowLenBits  = 3
	numMidLenBits  = 3
	numHighLenBits = 8
	lowLenSymbols  = 1 << numLowLenBits
	midLenSymbols  = 1 << numMidLenBits
	highLenSymbols = 1 << numHighLenBits

	// eosDistance is the reserved distance value signaling end of payload.
	eosDistance = 0xFFFFFFFF
)
