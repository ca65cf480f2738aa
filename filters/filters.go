// Copyright (c) 2026 The Omnizip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later

// Package filters implements the reversible pre-filters that XZ applies
// ahead of LZMA2 to make executable code and structured binary data
// compress better: the Delta filter and the BCJ family of branch/call
// converters (x86, ARM, ARM-Thumb, ARM64, PowerPC, IA-64, SPARC).
package filters

import (
	"fmt"

	"github.com/omnizip/omnizip-sub003/errs"
)

// Kind identifies a filter implementation, matching the XZ filter-id space.
type Kind int

const (
	KindDelta Kind = iota
	KindBCJX86
	KindBCJARM
	KindBCJARMThumb
	KindBCJARM64
	KindBCJPowerPC
	KindBCJIA64
	KindBCJSPARC
)

// FilterID is the XZ wire filter identifier for each Kind.
func (k Kind) FilterID() uint64 {
	switch k {
	case KindDelta:
		return 0x03
	case KindBCJX86:
		return 0x04
	case KindBCJPowerPC:
		return 0x05
	case KindBCJIA64:
		return 0x06
	case KindBCJARM:
		return 0x07
	case KindBCJARMThumb:
		return 0x08
	case KindBCJSPARC:
		return 0x09
	case KindBCJARM64:
		return 0x0A
	default:
		return 0
	}
}

// KindFromFilterID reverses FilterID, rejecting any id outside the set this
// core understands (the LZMA2 id 0x21 is handled by the xz package, not here).
func KindFromFilterID(id uint64) (Kind, error) {
	switch id {
	case 0x03:
		return KindDelta, nil
	case 0x04:
		return KindBCJX86, nil
	case 0x05:
		return KindBCJPowerPC, nil
	case 0x06:
		return KindBCJIA64, nil
	case 0x07:
		return KindBCJARM, nil
	case 0x08:
		return KindBCJARMThumb, nil
	case 0x09:
		return KindBCJSPARC, nil
	case 0x0A:
		return KindBCJARM64, nil
	default:
		return 0, &errs.FormatError{Reason: fmt.Sprintf("unknown filter id 0x%x", id)}
	}
}

// Filter is a reversible in-place byte-stream transform taking a start
// offset (the position of buf[0] within the overall stream, used by
// position-dependent recognizers like BCJ-x86).
type Filter interface {
	Encode(buf []byte, startOffset uint32)
	Decode(buf []byte, startOffset uint32)
}

// Identifiable is implemented by every Filter this package constructs. A
// caller holding only the Filter interface (e.g. a container format writing
// a self-describing filter chain alongside its compressed payload) type-
// asserts to Identifiable to recover which Kind produced it.
type Identifiable interface {
	Filter
	Kind() Kind
}

// DeltaDistance is implemented by the Delta filter to expose the distance
// parameter a filter chain header needs to record; BCJ filters take no
// parameters and do not implement it.
type DeltaDistance interface {
	DeltaDist() int
}

// New constructs the Filter for kind, with d meaningful only for KindDelta
// (distance 1..256).
func New(kind Kind, d int) (Filter, error) {
	switch kind {
	case KindDelta:
		return newDelta(d)
	case KindBCJX86:
		return bcjX86{}, nil
	case KindBCJARM:
		return bcjARM{}, nil
	case KindBCJARMThumb:
		return bcjARMThumb{}, nil
	case KindBCJARM64:
		return bcjARM64{}, nil
	case KindBCJPowerPC:
		return bcjPowerPC{}, nil
	case KindBCJIA64:
		return bcjIA64{}, nil
	case KindBCJSPARC:
		return bcjSPARC{}, nil
	default:
		return nil, &errs.UnsupportedError{Feature: fmt.Sprintf("filter kind %d", kind)}
	}
}
