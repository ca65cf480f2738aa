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

package archive_test

import (
	"errors"
	"testing"

	"github.com/omnizip/omnizip-sub003/archive"
)

func TestIsPayloadFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		filename string
		want     bool
	}{
		{"payload.bin", true},
		{"PAYLOAD.BIN", true},
		{"disk.iso", true},
		{"image.img", true},
		{"data.dat", true},

		// Sidecar files
		{"readme.txt", false},
		{"README.TXT", false},
		{"release.nfo", false},
		{"info.diz", false},
		{"checksums.sfv", false},
		{"hashes.md5", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			t.Parallel()

			got := archive.IsPayloadFile(tt.filename)
			if got != tt.want {
				t.Errorf("IsPayloadFile(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestDetectPayloadFile_FindsPayload(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()

	files := map[string][]byte{
		"readme.txt":  []byte("readme"),
		"payload.bin": make([]byte, 100),
		"notes.doc":   []byte("notes"),
	}
	zipPath := createTestZIP(t, tmpDir, "payload.zip", files)

	arc, err := archive.Open(zipPath)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer func() { _ = arc.Close() }()

	payloadPath, err := archive.DetectPayloadFile(arc)
	if err != nil {
		t.Fatalf("detect payload file: %v", err)
	}

	if payloadPath != "payload.bin" {
		t.Errorf("got %q, want %q", payloadPath, "payload.bin")
	}
}

func TestDetectPayloadFile_NoPayloads(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()

	files := map[string][]byte{
		"readme.txt": []byte("readme"),
		"hashes.md5": []byte("notes"),
	}
	zipPath := createTestZIP(t, tmpDir, "nopayload.zip", files)

	arc, err := archive.Open(zipPath)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer func() { _ = arc.Close() }()

	_, err = archive.DetectPayloadFile(arc)
	if err == nil {
		t.Error("expected error for archive with no payload files")
	}

	var noPayloadErr archive.NoPayloadFilesError
	if !errors.As(err, &noPayloadErr) {
		t.Errorf("expected NoPayloadFilesError, got %T", err)
	}
}

func TestDetectPayloadFile_MultiplePayloads(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()

	// ZIP iteration order may vary, but we want to ensure at least one is returned
	files := map[string][]byte{
		"payload1.bin": make([]byte, 100),
		"payload2.img": make([]byte, 200),
	}
	zipPath := createTestZIP(t, tmpDir, "multipayload.zip", files)

	arc, err := archive.Open(zipPath)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer func() { _ = arc.Close() }()

	payloadPath, err := archive.DetectPayloadFile(arc)
	if err != nil {
		t.Fatalf("detect payload file: %v", err)
	}

	if !archive.IsPayloadFile(payloadPath) {
		t.Errorf("returned path %q is not a payload file", payloadPath)
	}
}
