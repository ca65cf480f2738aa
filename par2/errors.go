// Copyright (c) 2026 The Omnizip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later

package par2

import (
	"fmt"

	"github.com/omnizip/omnizip-sub003/errs"
)

// FormatError reports a structural violation of the PAR2 packet format: bad
// magic, a length that isn't a positive multiple of 4, a packet-body MD5
// mismatch, or an unrecognized packet type where one was required.
// Aliased onto errs.FormatError so every package in this module shares one
// taxonomy and one Kind() accessor.
type FormatError = errs.FormatError

// IntegrityError reports a checksum mismatch discovered while verifying
// protected file slices or reconstructing missing ones.
type IntegrityError = errs.IntegrityError

// ArgumentError reports a Create option outside its declared range, such
// as a block size that isn't a positive multiple of 4.
type ArgumentError = errs.ArgumentError

// IOError reports that reading a protected file or recovery volume failed.
type IOError = errs.IOError

// SingularMatrixError is returned when the recovery matrix selected for
// repair turns out not to be invertible. Given the Vandermonde structure
// of distinct encoding bases, this indicates a caller error (e.g. reusing
// an exponent or missing index) rather than a data problem, so it carries
// the same Kind as ArgumentError.
type SingularMatrixError struct {
	Size int
}

func (e *SingularMatrixError) Error() string {
	return fmt.Sprintf("par2: recovery matrix of size %d is singular", e.Size)
}

func (e *SingularMatrixError) Kind() errs.ErrorKind { return errs.KindArgument }

// UnrepairableError reports that too few recovery slices are available to
// reconstruct every missing or damaged block. This is an integrity
// failure: the protected data could not be restored to its recorded
// checksums with the redundancy on hand.
type UnrepairableError struct {
	Missing, Available int
}

func (e *UnrepairableError) Error() string {
	return fmt.Sprintf("par2: unrepairable: %d blocks missing, only %d recovery slices available", e.Missing, e.Available)
}

func (e *UnrepairableError) Kind() errs.ErrorKind { return errs.KindIntegrity }
