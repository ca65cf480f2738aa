// Copyright (c) 2026 The Omnizip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later

package lzma

import "github.com/omnizip/omnizip-sub003/errs"

// DecompressionError indicates the range-coded payload decoded to a value
// the state machine or dictionary could not accept (e.g. a distance
// beyond what has been produced so far, or a reserved EOS distance
// appearing where the stream's declared size says it should not), or
// that a fully decoded stream produced a different number of bytes than
// its header declared. Aliased onto errs.DecompressionError so every
// package in this module shares one taxonomy and one Kind() accessor.
type DecompressionError = errs.DecompressionError

// ArgumentError reports LC/LP/PB properties outside their declared coding
// range.
type ArgumentError = errs.ArgumentError
