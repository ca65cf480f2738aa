// Copyright (c) 2026 The Omnizip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later

package omnizip

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/omnizip/omnizip-sub003/errs"
	"github.com/omnizip/omnizip-sub003/filters"
	"github.com/omnizip/omnizip-sub003/lzma"
	"github.com/omnizip/omnizip-sub003/xz"
)

func roundTrip(t *testing.T, opt CompressOptions, data []byte) []byte {
	t.Helper()
	var compressed bytes.Buffer
	if err := Compress(&compressed, bytes.NewReader(data), opt); err != nil {
		t.Fatalf("Compress: %v", err)
	}
	var out bytes.Buffer
	if err := Decompress(&out, &compressed); err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(out.Bytes(), data) {
		t.Fatalf("round trip mismatch: got %d bytes, want %d", out.Len(), len(data))
	}
	return out.Bytes()
}

func TestCompressDecompressEachAlgorithm(t *testing.T) {
	data := []byte(strings.Repeat("the quick brown fox jumps over the lazy dog. ", 200))
	props := lzma.DefaultProperties()

	algorithms := []Algorithm{
		AlgorithmStore,
		AlgorithmDeflate,
		AlgorithmLZMA,
		AlgorithmLZMA2,
	}
	for _, alg := range algorithms {
		t.Run(alg.String(), func(t *testing.T) {
			opt := CompressOptions{Algorithm: alg, LZMA: props, CheckType: xz.CheckCRC64}
			roundTrip(t, opt, data)
		})
	}
}

func TestCompressDecompressWithFilterChain(t *testing.T) {
	data := make([]byte, 4096)
	for i := range data {
		data[i] = byte(i * 7)
	}
	deltaFilter, err := filters.New(filters.KindDelta, 4)
	if err != nil {
		t.Fatalf("filters.New: %v", err)
	}
	opt := CompressOptions{
		Algorithm: AlgorithmLZMA2,
		LZMA:      lzma.DefaultProperties(),
		Filters:   []filters.Filter{deltaFilter},
		CheckType: xz.CheckCRC32,
	}
	roundTrip(t, opt, data)
}

func TestCompressDecompressIncludeBlockSizes(t *testing.T) {
	data := []byte("a self-describing envelope records its own original size")
	opt := CompressOptions{
		Algorithm:         AlgorithmDeflate,
		CheckType:         xz.CheckSHA256,
		IncludeBlockSizes: true,
	}
	roundTrip(t, opt, data)
}

func TestDecompressDetectsTamperedPayload(t *testing.T) {
	data := []byte("integrity checks must catch a flipped payload byte")
	opt := CompressOptions{Algorithm: AlgorithmStore, CheckType: xz.CheckCRC32}
	var compressed bytes.Buffer
	if err := Compress(&compressed, bytes.NewReader(data), opt); err != nil {
		t.Fatalf("Compress: %v", err)
	}
	tampered := compressed.Bytes()
	tampered[len(tampered)-1] ^= 0xFF

	var out bytes.Buffer
	err := Decompress(&out, bytes.NewReader(tampered))
	if err == nil {
		t.Fatal("expected an integrity error, got nil")
	}
	var integrityErr *errs.IntegrityError
	if !errors.As(err, &integrityErr) {
		t.Fatalf("got %T, want *errs.IntegrityError", err)
	}
}

func TestUnsupportedAlgorithmsReportUnsupportedError(t *testing.T) {
	data := []byte("ppmd, deflate64, bzip2, and zstd compression have no encoder here")
	unsupported := []Algorithm{AlgorithmDeflate64, AlgorithmBzip2, AlgorithmPPMd7, AlgorithmPPMd8, AlgorithmZstandard}
	for _, alg := range unsupported {
		t.Run(alg.String(), func(t *testing.T) {
			opt := CompressOptions{Algorithm: alg}
			var compressed bytes.Buffer
			err := Compress(&compressed, bytes.NewReader(data), opt)
			if err == nil {
				t.Fatal("expected an UnsupportedError, got nil")
			}
			var unsupportedErr *errs.UnsupportedError
			if !errors.As(err, &unsupportedErr) {
				t.Fatalf("got %T, want *errs.UnsupportedError", err)
			}
		})
	}
}

// TestZstandardDecompressOnly exercises the decode-only Zstandard path
// directly: Compress can't produce a Zstandard payload (AlgorithmZstandard
// compression is unsupported), so this builds a frame with the zstd library
// itself, standing in for the "future collaborator" spec.md's Open
// Questions leave room for, and assembles an envelope around it by hand.
func TestZstandardDecompressOnly(t *testing.T) {
	data := []byte(strings.Repeat("zstandard decode-only round trip. ", 50))
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatalf("zstd.NewWriter: %v", err)
	}
	payload := enc.EncodeAll(data, nil)
	enc.Close()

	var envelope bytes.Buffer
	envelope.WriteByte(byte(AlgorithmZstandard))
	if err := marshalFilterChain(&envelope, nil); err != nil {
		t.Fatalf("marshalFilterChain: %v", err)
	}
	if err := marshalCheck(&envelope, xz.CheckNone, nil); err != nil {
		t.Fatalf("marshalCheck: %v", err)
	}
	envelope.WriteByte(0)
	envelope.Write(payload)

	var out bytes.Buffer
	if err := Decompress(&out, &envelope); err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(out.Bytes(), data) {
		t.Fatalf("got %d bytes, want %d", out.Len(), len(data))
	}
}
