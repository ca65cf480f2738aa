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

package omnizip

import (
	"bytes"
	"fmt"
	"io"

	"github.com/omnizip/omnizip-sub003/errs"
	"github.com/omnizip/omnizip-sub003/filters"
	"github.com/omnizip/omnizip-sub003/vli"
	"github.com/omnizip/omnizip-sub003/xz"
)

// marshalFilterChain records chain as a VLI count followed by, per filter,
// a Kind byte and (for Delta only) a VLI distance. A filter's BCJ start
// offset is not recorded: Compress always applies filters over the whole
// input starting at offset 0, so Decompress can reconstruct it the same
// way.
func marshalFilterChain(buf *bytes.Buffer, chain []filters.Filter) error {
	if err := appendVLI(buf, uint64(len(chain))); err != nil {
		return err
	}
	for _, f := range chain {
		id, ok := f.(filters.Identifiable)
		if !ok {
			return &errs.ArgumentError{Name: "Filters", Reason: fmt.Sprintf("filter %T does not implement filters.Identifiable", f)}
		}
		buf.WriteByte(byte(id.Kind()))
		if dd, ok := f.(filters.DeltaDistance); ok {
			if err := appendVLI(buf, uint64(dd.DeltaDist())); err != nil {
				return err
			}
		}
	}
	return nil
}

// unmarshalFilterChain reverses marshalFilterChain, reconstructing each
// Filter via filters.New.
func unmarshalFilterChain(br io.ByteReader) ([]filters.Filter, error) {
	count, _, err := vli.Decode(br)
	if err != nil {
		return nil, &errs.FormatError{Reason: fmt.Sprintf("reading filter chain count: %v", err)}
	}
	chain := make([]filters.Filter, 0, count)
	for i := uint64(0); i < count; i++ {
		kindByte, err := br.ReadByte()
		if err != nil {
			return nil, &errs.IOError{Op: "omnizip: reading filter kind", Err: err}
		}
		kind := filters.Kind(kindByte)
		dist := 1
		if kind == filters.KindDelta {
			d, _, err := vli.Decode(br)
			if err != nil {
				return nil, &errs.FormatError{Reason: fmt.Sprintf("reading delta distance: %v", err)}
			}
			dist = int(d)
		}
		f, err := filters.New(kind, dist)
		if err != nil {
			return nil, err
		}
		chain = append(chain, f)
	}
	return chain, nil
}

// marshalCheck appends the check type byte and, unless the type is
// CheckNone, the check value computed over data.
func marshalCheck(buf *bytes.Buffer, check xz.CheckType, data []byte) error {
	buf.WriteByte(byte(check))
	if check == xz.CheckNone {
		return nil
	}
	sum, err := computeCheck(check, data)
	if err != nil {
		return err
	}
	buf.Write(sum)
	return nil
}

// unmarshalCheck reverses marshalCheck.
func unmarshalCheck(br io.ByteReader) (xz.CheckType, []byte, error) {
	b, err := br.ReadByte()
	if err != nil {
		return 0, nil, &errs.IOError{Op: "omnizip: reading check type", Err: err}
	}
	check := xz.CheckType(b)
	if check == xz.CheckNone {
		return check, nil, nil
	}
	var n int
	switch check {
	case xz.CheckCRC32:
		n = 4
	case xz.CheckCRC64:
		n = 8
	case xz.CheckSHA256:
		n = 32
	default:
		return 0, nil, &errs.ArgumentError{Name: "CheckType", Reason: fmt.Sprintf("unsupported check type %d", check)}
	}
	sum := make([]byte, n)
	for i := range sum {
		v, err := br.ReadByte()
		if err != nil {
			return 0, nil, &errs.IOError{Op: "omnizip: reading check value", Err: err}
		}
		sum[i] = v
	}
	return check, sum, nil
}

// appendVLI writes v's minimal VLI encoding to buf.
func appendVLI(buf *bytes.Buffer, v uint64) error {
	enc, err := vli.Encode(v)
	if err != nil {
		return &errs.ArgumentError{Name: "size", Reason: err.Error()}
	}
	buf.Write(enc)
	return nil
}
