// Copyright (c) 2026 The Omnizip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later

package xz

import (
	"fmt"

	"github.com/omnizip/omnizip-sub003/filters"
)

const lzma2FilterID = 0x21

// FilterEntry is one link of a block header's filter chain: an id and its
// raw property bytes, as read off or written to the wire.
type FilterEntry struct {
	ID         uint64
	Properties []byte
}

// validFilterID reports whether id is one this core understands (0x03
// through 0x0A, and 0x21 for LZMA2): any other value is a format
// violation, not merely "unsupported".
func validFilterID(id uint64) bool {
	switch id {
	case 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A, lzma2FilterID:
		return true
	default:
		return false
	}
}

// checkFilterChain enforces: 1..4 filters, LZMA2 last, every id known, and
// at most one of each filter id appearing would be unusual but is not
// itself prohibited by the format.
func checkFilterChain(chain []FilterEntry) error {
	if len(chain) < 1 || len(chain) > 4 {
		return &FormatError{Reason: fmt.Sprintf("filter chain length %d out of range 1..4", len(chain))}
	}
	for i, f := range chain {
		if !validFilterID(f.ID) {
			return &FormatError{Reason: fmt.Sprintf("invalid filter id 0x%x", f.ID)}
		}
		isLast := i == len(chain)-1
		if f.ID == lzma2FilterID && !isLast {
			return &FormatError{Reason: "LZMA2 filter is not last"}
		}
		if isLast && f.ID != lzma2FilterID {
			return &FormatError{Reason: "last filter must be LZMA2"}
		}
	}
	return nil
}

// filterParams decodes a filter's property bytes: Delta carries a single
// byte holding distance-1; the BCJ family carries an optional 4-byte
// little-endian start offset (default 0 when absent).
func filterParams(f FilterEntry) (d int, startOffset uint32) {
	if f.ID == 0x03 { // Delta
		d = 1
		if len(f.Properties) >= 1 {
			d = int(f.Properties[0]) + 1
		}
		return d, 0
	}
	if len(f.Properties) >= 4 {
		startOffset = uint32(f.Properties[0]) | uint32(f.Properties[1])<<8 |
			uint32(f.Properties[2])<<16 | uint32(f.Properties[3])<<24
	}
	return 0, startOffset
}

// applyEncodeFilters runs every non-LZMA2 filter in chain (in order) over
// buf in place, then returns the bytes ready for LZMA2 compression.
func applyEncodeFilters(chain []FilterEntry, buf []byte) ([]byte, error) {
	for _, f := range chain {
		if f.ID == lzma2FilterID {
			continue
		}
		kind, err := filters.KindFromFilterID(f.ID)
		if err != nil {
			return nil, err
		}
		d, startOffset := filterParams(f)
		filt, err := filters.New(kind, d)
		if err != nil {
			return nil, err
		}
		filt.Encode(buf, startOffset)
	}
	return buf, nil
}

// applyDecodeFilters reverses applyEncodeFilters, undoing filters in
// reverse chain order.
func applyDecodeFilters(chain []FilterEntry, buf []byte) ([]byte, error) {
	for i := len(chain) - 1; i >= 0; i-- {
		f := chain[i]
		if f.ID == lzma2FilterID {
			continue
		}
		kind, err := filters.KindFromFilterID(f.ID)
		if err != nil {
			return nil, err
		}
		d, startOffset := filterParams(f)
		filt, err := filters.New(kind, d)
		if err != nil {
			return nil, err
		}
		filt.Decode(buf, startOffset)
	}
	return buf, nil
}
