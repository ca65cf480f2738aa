// Copyright (c) 2026 The Omnizip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later

package par2

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func writeTestFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

// TestSingleFileRecovery mirrors the scenario of losing one protected file
// entirely and repairing it from a 50%-redundancy recovery set.
func TestSingleFileRecovery(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "file1", bytes.Repeat([]byte("A"), 256))
	writeTestFile(t, dir, "file2", bytes.Repeat([]byte("B"), 256))

	res, err := Create(dir, []string{"file1", "file2"}, CreateOptions{BlockSize: 256, RedundancyPercent: 50})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := os.Remove(filepath.Join(dir, "file1")); err != nil {
		t.Fatalf("removing file1: %v", err)
	}

	vr, err := Verify(dir, res.Main)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !vr.Files[0].Missing {
		t.Fatalf("expected file1 to be reported missing")
	}

	if err := RepairFiles(dir, res.Main, [][]byte{res.Volume}); err != nil {
		t.Fatalf("RepairFiles: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dir, "file1"))
	if err != nil {
		t.Fatalf("reading repaired file1: %v", err)
	}
	if !bytes.Equal(got, bytes.Repeat([]byte("A"), 256)) {
		t.Fatalf("repaired file1 content mismatch")
	}
}

// TestFullSetRecovery mirrors losing every protected file under 100%
// redundancy (one recovery slice per input slice).
func TestFullSetRecovery(t *testing.T) {
	dir := t.TempDir()
	names := make([]string, 10)
	contents := make([][]byte, 10)
	for i := range names {
		names[i] = fileNameFor(i)
		contents[i] = bytes.Repeat([]byte{byte('a' + i)}, 64)
		writeTestFile(t, dir, names[i], contents[i])
	}

	res, err := Create(dir, names, CreateOptions{BlockSize: 64, RedundancyPercent: 100})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	for _, n := range names {
		if err := os.Remove(filepath.Join(dir, n)); err != nil {
			t.Fatalf("removing %s: %v", n, err)
		}
	}

	if err := RepairFiles(dir, res.Main, [][]byte{res.Volume}); err != nil {
		t.Fatalf("RepairFiles: %v", err)
	}

	for i, n := range names {
		got, err := os.ReadFile(filepath.Join(dir, n))
		if err != nil {
			t.Fatalf("reading repaired %s: %v", n, err)
		}
		if !bytes.Equal(got, contents[i]) {
			t.Fatalf("repaired %s content mismatch", n)
		}
	}
}

func fileNameFor(i int) string {
	return string(rune('a'+i)) + ".bin"
}

func TestVerifyDetectsDamagedBlock(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "file1", bytes.Repeat([]byte("Z"), 128))

	res, err := Create(dir, []string{"file1"}, CreateOptions{BlockSize: 64, RedundancyPercent: 50})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	data, _ := os.ReadFile(filepath.Join(dir, "file1"))
	data[0] ^= 0xFF
	writeTestFile(t, dir, "file1", data)

	vr, err := Verify(dir, res.Main)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(vr.Files[0].DamagedBlocks) != 1 {
		t.Fatalf("expected exactly one damaged block, got %v", vr.Files[0].DamagedBlocks)
	}

	if err := RepairFiles(dir, res.Main, [][]byte{res.Volume}); err != nil {
		t.Fatalf("RepairFiles: %v", err)
	}
	got, _ := os.ReadFile(filepath.Join(dir, "file1"))
	if !bytes.Equal(got, bytes.Repeat([]byte("Z"), 128)) {
		t.Fatalf("repaired file1 content mismatch after damaged-block repair")
	}
}

func TestWalkVolumesOrdersNumerically(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"set.vol002+02.par2", "set.vol000+01.par2", "set.vol001+01.par2"} {
		writeTestFile(t, dir, n, []byte("x"))
	}
	matches, err := WalkVolumes(filepath.Join(dir, "set.vol*.par2"))
	if err != nil {
		t.Fatalf("WalkVolumes: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
	want := []string{"set.vol000+01.par2", "set.vol001+01.par2", "set.vol002+02.par2"}
	for i, m := range matches {
		if filepath.Base(m) != want[i] {
			t.Fatalf("match %d: got %s, want %s", i, filepath.Base(m), want[i])
		}
	}
}
