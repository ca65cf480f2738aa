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

// Package gf65536 implements GF(2^16) arithmetic over the PAR2 generator
// polynomial 0x1100B: log/antilog tables and the add/sub/mul/div/pow
// primitives the Reed-Solomon engine in package par2 builds on. Tables are
// built lazily, once, and are read-only afterward so concurrent streams
// never need to synchronize on them.
package gf65536

import (
	"errors"
	"sync"
)

const (
	// Bits is the field's exponent: GF(2^Bits).
	Bits = 16
	// Size is the number of field elements, 2^Bits.
	Size = 1 << Bits
	// order is the size of the multiplicative group (Size - 1), the
	// modulus for exponent arithmetic.
	order = Size - 1
	// Poly is the field's generator polynomial, x^16+x^12+x^3+x+1.
	Poly = 0x1100B
)

// ErrDivideByZero is returned by Div when the divisor is zero.
var ErrDivideByZero = errors.New("gf65536: division by zero")

var (
	logTable [Size]uint32 // logTable[0] is never read: 0 has no logarithm
	expTable [Size]uint16 // expTable[order] mirrors expTable[0] for cheap modular indexing
	once     sync.Once
)

func buildTables() {
	x := uint32(1)
	for i := 0; i < order; i++ {
		expTable[i] = uint16(x)
		logTable[x] = uint32(i)
		x <<= 1
		if x&Size != 0 {
			x ^= Poly
		}
	}
	expTable[order] = expTable[0]
}

func ensureTables() {
	once.Do(buildTables)
}

// Add returns a+b in GF(2^16), which is XOR.
func Add(a, b uint16) uint16 { return a ^ b }

// Sub returns a-b in GF(2^16), identical to Add in characteristic 2.
func Sub(a, b uint16) uint16 { return a ^ b }

// Mul returns a*b in GF(2^16).
func Mul(a, b uint16) uint16 {
	if a == 0 || b == 0 {
		return 0
	}
	ensureTables()
	s := logTable[a] + logTable[b]
	if s >= order {
		s -= order
	}
	return expTable[s]
}

// Div returns a/b in GF(2^16). Div returns ErrDivideByZero when b is zero.
func Div(a, b uint16) (uint16, error) {
	if b == 0 {
		return 0, ErrDivideByZero
	}
	if a == 0 {
		return 0, nil
	}
	ensureTables()
	la, lb := logTable[a], logTable[b]
	var s uint32
	if la >= lb {
		s = la - lb
	} else {
		s = order - (lb - la)
	}
	return expTable[s], nil
}

// Inverse returns 1/a in GF(2^16). Inverse panics on a==0, matching the
// PAR2 engine's invariant that only nonzero matrix entries are inverted.
func Inverse(a uint16) uint16 {
	if a == 0 {
		panic("gf65536: inverse of zero")
	}
	ensureTables()
	return expTable[order-logTable[a]]
}

// Pow returns base^n in GF(2^16) for n >= 0.
func Pow(base uint16, n uint32) uint16 {
	if base == 0 {
		if n == 0 {
			return 1
		}
		return 0
	}
	ensureTables()
	e := (uint64(logTable[base]) * uint64(n)) % order
	return expTable[e]
}

// Generator is the field's canonical generator, 2.
const Generator uint16 = 2

// Base returns the i-th PAR2 encoding base, antilog[i] — the i-th power of
// the generator 2. Exponents are taken modulo the multiplicative group
// order so Base never indexes out of range.
func Base(i uint32) uint16 {
	ensureTables()
	return expTable[i%order]
}

// SelectBases returns the first k encoding bases in order: Base(0),
// Base(1), ..., Base(k-1).
func SelectBases(k int) []uint16 {
	bases := make([]uint16, k)
	for i := range bases {
		bases[i] = Base(uint32(i))
	}
	return bases
}
