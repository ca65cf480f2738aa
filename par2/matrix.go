// Copyright (c) 2026 The Omnizip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later

package par2

import "github.com/omnizip/omnizip-sub003/gf65536"

// matrix is a square GF(2^16) matrix stored row-major, used to build and
// invert the recovery matrix during repair.
type matrix struct {
	n    int
	rows [][]uint16
}

func newMatrix(n int) *matrix {
	rows := make([][]uint16, n)
	for i := range rows {
		rows[i] = make([]uint16, n)
	}
	return &matrix{n: n, rows: rows}
}

func identity(n int) *matrix {
	m := newMatrix(n)
	for i := 0; i < n; i++ {
		m.rows[i][i] = 1
	}
	return m
}

// invert computes m^-1 by Gauss-Jordan elimination on [m | I], returning a
// SingularMatrixError if any pivot column is entirely zero.
func (m *matrix) invert() (*matrix, error) {
	n := m.n
	work := make([][]uint16, n)
	for i := range work {
		work[i] = append([]uint16(nil), m.rows[i]...)
	}
	inv := identity(n)

	for col := 0; col < n; col++ {
		pivot := -1
		for r := col; r < n; r++ {
			if work[r][col] != 0 {
				pivot = r
				break
			}
		}
		if pivot < 0 {
			return nil, &SingularMatrixError{Size: n}
		}
		if pivot != col {
			work[col], work[pivot] = work[pivot], work[col]
			inv.rows[col], inv.rows[pivot] = inv.rows[pivot], inv.rows[col]
		}

		pivotInv := gf65536.Inverse(work[col][col])
		for c := 0; c < n; c++ {
			work[col][c] = gf65536.Mul(work[col][c], pivotInv)
			inv.rows[col][c] = gf65536.Mul(inv.rows[col][c], pivotInv)
		}

		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := work[r][col]
			if factor == 0 {
				continue
			}
			for c := 0; c < n; c++ {
				work[r][c] = gf65536.Add(work[r][c], gf65536.Mul(factor, work[col][c]))
				inv.rows[r][c] = gf65536.Add(inv.rows[r][c], gf65536.Mul(factor, inv.rows[col][c]))
			}
		}
	}

	return inv, nil
}

// mulVector returns m applied to column vector v.
func (m *matrix) mulVector(v []uint16) []uint16 {
	out := make([]uint16, m.n)
	for r := 0; r < m.n; r++ {
		var acc uint16
		row := m.rows[r]
		for c := 0; c < m.n; c++ {
			acc = gf65536.Add(acc, gf65536.Mul(row[c], v[c]))
		}
		out[r] = acc
	}
	return out
}

// recoveryMatrix builds the |missing| x |missing| matrix A with
// A[r][c] = base[missingCols[c]] ^ exponent[r] (GF(2^16) pow), one row per
// chosen recovery exponent, one column per missing input-slice index.
func recoveryMatrix(missingCols []int, exponents []uint32) *matrix {
	n := len(missingCols)
	m := newMatrix(n)
	for r, e := range exponents {
		for c, col := range missingCols {
			base := gf65536.Base(uint32(col))
			m.rows[r][c] = gf65536.Pow(base, e)
		}
	}
	return m
}
