// Copyright (c) 2026 The Omnizip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later

package xz

import "github.com/omnizip/omnizip-sub003/errs"

// FormatError reports a structural violation of the container format: bad
// magic, bad CRC, reserved bits set, a non-minimal VLI, misaligned
// padding, an invalid filter id, a filter chain longer than 4, or LZMA2
// not last. Aliased onto errs.FormatError so every package in this module
// shares one taxonomy and one Kind() accessor.
type FormatError = errs.FormatError

// IntegrityError reports a mismatch of a block's content check (CRC32,
// CRC64 or SHA-256 of the uncompressed data).
type IntegrityError = errs.IntegrityError

// UnsupportedError reports an XZ feature this decoder does not implement,
// such as decoding a block with no declared compressed size.
type UnsupportedError = errs.UnsupportedError

// ArgumentError reports a Compress option outside its declared range.
type ArgumentError = errs.ArgumentError

// IOError reports that the underlying reader or writer failed.
type IOError = errs.IOError
