// Copyright (c) 2026 The Omnizip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later

package gf65536

import (
	"math/rand"
	"testing"
)

func TestFieldLaws(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		a := uint16(rng.Intn(Size-1) + 1)
		b := uint16(rng.Intn(Size-1) + 1)
		c := uint16(rng.Intn(Size-1) + 1)

		if Mul(a, b) != Mul(b, a) {
			t.Fatalf("mul not commutative: a=%d b=%d", a, b)
		}
		if Mul(Mul(a, b), c) != Mul(a, Mul(b, c)) {
			t.Fatalf("mul not associative: a=%d b=%d c=%d", a, b, c)
		}
		if Mul(a, 1) != a {
			t.Fatalf("mul identity failed for a=%d", a)
		}
		if Add(a, a) != 0 {
			t.Fatalf("add(a,a) != 0 for a=%d", a)
		}
		lhs := Mul(a, Add(b, c))
		rhs := Add(Mul(a, b), Mul(a, c))
		if lhs != rhs {
			t.Fatalf("distributivity failed: a=%d b=%d c=%d", a, b, c)
		}
		if Mul(a, Inverse(a)) != 1 {
			t.Fatalf("mul(a,inverse(a)) != 1 for a=%d", a)
		}
	}
}

func TestGeneratorOrder(t *testing.T) {
	if got := Pow(Generator, order); got != 1 {
		t.Fatalf("pow(generator, order) = %d, want 1", got)
	}
}

func TestDivMatchesMul(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		a := uint16(rng.Intn(Size-1) + 1)
		b := uint16(rng.Intn(Size-1) + 1)
		q, err := Div(a, b)
		if err != nil {
			t.Fatalf("div error: %v", err)
		}
		if Mul(q, b) != a {
			t.Fatalf("div(a,b)*b != a: a=%d b=%d q=%d", a, b, q)
		}
	}
}

func TestDivByZero(t *testing.T) {
	if _, err := Div(5, 0); err != ErrDivideByZero {
		t.Fatalf("expected ErrDivideByZero, got %v", err)
	}
}

func TestSelectBasesMatchesBase(t *testing.T) {
	bases := SelectBases(10)
	for i, b := range bases {
		if b != Base(uint32(i)) {
			t.Fatalf("SelectBases[%d]=%d != Base(%d)=%d", i, b, i, Base(uint32(i)))
		}
	}
	if bases[0] != 1 {
		t.Fatalf("Base(0) should be 1 (generator^0), got %d", bases[0])
	}
	if bases[1] != Generator {
		t.Fatalf("Base(1) should be generator %d, got %d", Generator, bases[1])
	}
}

func TestDistinctBases(t *testing.T) {
	seen := make(map[uint16]bool)
	for _, b := range SelectBases(100) {
		if seen[b] {
			t.Fatalf("duplicate base %d within first 100", b)
		}
		seen[b] = true
	}
}
