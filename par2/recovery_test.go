// Copyright (c) 2026 The Omnizip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later

package par2

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestEncodeRecoveryAndRepairSingleMissing(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	inputs := make([][]byte, 4)
	for i := range inputs {
		inputs[i] = make([]byte, 64)
		rnd.Read(inputs[i])
	}
	recovery, err := EncodeRecovery(inputs, []uint32{0, 1})
	if err != nil {
		t.Fatalf("EncodeRecovery: %v", err)
	}

	present := map[int][]byte{0: inputs[0], 1: inputs[1], 3: inputs[3]}
	recSlices := []RecoverySlice{{Exponent: 0, Data: recovery[0]}, {Exponent: 1, Data: recovery[1]}}
	out, err := Repair(present, 4, recSlices)
	if err != nil {
		t.Fatalf("Repair: %v", err)
	}
	if !bytes.Equal(out[2], inputs[2]) {
		t.Fatalf("reconstructed slice 2 mismatch")
	}
}

func TestRepairFullLoss(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	n := 10
	inputs := make([][]byte, n)
	for i := range inputs {
		inputs[i] = make([]byte, 32)
		rnd.Read(inputs[i])
	}
	exponents := make([]uint32, n)
	for i := range exponents {
		exponents[i] = uint32(i)
	}
	recovery, err := EncodeRecovery(inputs, exponents)
	if err != nil {
		t.Fatalf("EncodeRecovery: %v", err)
	}
	recSlices := make([]RecoverySlice, n)
	for i := range recSlices {
		recSlices[i] = RecoverySlice{Exponent: exponents[i], Data: recovery[i]}
	}

	out, err := Repair(map[int][]byte{}, n, recSlices)
	if err != nil {
		t.Fatalf("Repair: %v", err)
	}
	for i := 0; i < n; i++ {
		if !bytes.Equal(out[i], inputs[i]) {
			t.Fatalf("slice %d mismatch after full recovery", i)
		}
	}
}

func TestRepairUnrepairableWhenTooFewRecoverySlices(t *testing.T) {
	inputs := make([][]byte, 3)
	for i := range inputs {
		inputs[i] = make([]byte, 16)
	}
	recovery, err := EncodeRecovery(inputs, []uint32{0})
	if err != nil {
		t.Fatalf("EncodeRecovery: %v", err)
	}
	present := map[int][]byte{0: inputs[0]}
	_, err = Repair(present, 3, []RecoverySlice{{Exponent: 0, Data: recovery[0]}})
	if err == nil {
		t.Fatalf("expected an unrepairable error: two slices missing, one recovery slice")
	}
}

func TestRepairNoneMissing(t *testing.T) {
	inputs := map[int][]byte{0: {1, 2}, 1: {3, 4}}
	out, err := Repair(inputs, 2, nil)
	if err != nil {
		t.Fatalf("Repair: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected no reconstructed slices when nothing is missing")
	}
}
