// Copyright (c) 2026 The Omnizip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later

// Package lzma2 frames LZMA bitstreams into the chunked LZMA2 format used
// by XZ and 7z: a sequence of compressed or uncompressed chunks, each able
// to independently reset the dictionary, the entropy models, or the
// lc/lp/pb properties. A compressed chunk carries up to 2 MiB of
// uncompressed data in at most 64 KiB of compressed data; an uncompressed
// chunk carries at most 64 KiB.
package lzma2

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/omnizip/omnizip-sub003/errs"
	"github.com/omnizip/omnizip-sub003/lzma"
)

const (
	maxUncompressedChunk = 1 << 21 // 2 MiB
	maxCompressedChunk   = 1 << 16 // 64 KiB

	ctrlEOS           = 0x00
	ctrlUncompNoReset = 0x01
	ctrlUncompReset   = 0x02
	ctrlCompMask      = 0x80
)

// DictSizeByte encodes a dictionary size into the single LZMA2 property
// byte: even p means 2^(p/2+12), odd p means 3*2^((p-1)/2+11), max 40.
func DictSizeByte(size uint32) (byte, error) {
	for p := 0; p <= 40; p++ {
		if dictSizeFromByte(byte(p)) >= size {
			return byte(p), nil
		}
	}
	return 0, &errs.ArgumentError{Name: "DictSize", Reason: fmt.Sprintf("%d too large to encode", size)}
}

func dictSizeFromByte(p byte) uint32 {
	if p > 40 {
		p = 40
	}
	if p == 40 {
		return 0xFFFFFFFF
	}
	if p%2 == 0 {
		return uint32(1) << (uint(p)/2 + 12)
	}
	return uint32(3) << (uint(p-1)/2 + 11)
}

// DictSizeFromByte decodes the LZMA2 dictionary-size property byte.
func DictSizeFromByte(p byte) (uint32, error) {
	if p > 40 {
		return 0, &errs.FormatError{Reason: fmt.Sprintf("invalid dictionary size byte 0x%02x", p)}
	}
	return dictSizeFromByte(p), nil
}

// Encoder frames Encode's input as a sequence of LZMA2 chunks.
type Encoder struct {
	props lzma.Properties
	level int
}

// NewEncoder returns an Encoder with the given base properties and
// compression level; the first chunk always carries a full reset.
func NewEncoder(props lzma.Properties, level int) *Encoder {
	return &Encoder{props: props, level: level}
}

// Encode writes data as one or more LZMA2 chunks terminated by the
// end-of-stream control byte.
func (enc *Encoder) Encode(w io.Writer, data []byte) error {
	first := true
	for len(data) > 0 {
		n := len(data)
		if n > maxUncompressedChunk {
			n = maxUncompressedChunk
		}
		chunk := data[:n]
		data = data[n:]

		var compBuf bytes.Buffer
		lzEnc := lzma.NewEncoder(enc.props, enc.level)
		if err := lzEnc.EncodeRaw(&compBuf, chunk); err != nil {
			return err
		}

		useUncompressed := compBuf.Len() >= len(chunk) || compBuf.Len() > maxCompressedChunk
		if useUncompressed {
			// An uncompressed chunk's 2-byte size field holds at most 64 KiB.
			for off := 0; off < len(chunk); off += maxCompressedChunk {
				end := off + maxCompressedChunk
				if end > len(chunk) {
					end = len(chunk)
				}
				ctrl := byte(ctrlUncompNoReset)
				if first {
					ctrl = ctrlUncompReset
				}
				if err := writeUncompressedChunk(w, ctrl, chunk[off:end]); err != nil {
					return err
				}
				first = false
			}
		} else {
			// 0xC0 base: reset state and set properties on every chunk, since
			// each chunk is compressed independently here (no cross-chunk
			// model carry); the first chunk additionally resets the
			// dictionary (0xE0 range), as the format requires.
			ctrl := byte(0xC0)
			if first {
				ctrl = 0xE0
			}
			propByte, err := enc.props.PropByte()
			if err != nil {
				return err
			}
			if err := writeCompressedChunk(w, ctrl, chunk, compBuf.Bytes(), propByte); err != nil {
				return err
			}
		}
		first = false
	}
	_, err := w.Write([]byte{ctrlEOS})
	return err
}

func writeUncompressedChunk(w io.Writer, ctrl byte, chunk []byte) error {
	var hdr [3]byte
	hdr[0] = ctrl
	binary.BigEndian.PutUint16(hdr[1:3], uint16(len(chunk)-1))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	_, err := w.Write(chunk)
	return err
}

func writeCompressedChunk(w io.Writer, ctrl byte, chunk, compressed []byte, propByte byte) error {
	if len(compressed) > maxCompressedChunk {
		return fmt.Errorf("lzma2: compressed chunk exceeds %d bytes", maxCompressedChunk)
	}
	u5 := byte((len(chunk) - 1) >> 16)
	hdr := make([]byte, 0, 6)
	hdr = append(hdr, ctrl|u5)
	var sizeBuf [2]byte
	binary.BigEndian.PutUint16(sizeBuf[:], uint16((len(chunk)-1)&0xFFFF))
	hdr = append(hdr, sizeBuf[:]...)
	var compBuf [2]byte
	binary.BigEndian.PutUint16(compBuf[:], uint16(len(compressed)-1))
	hdr = append(hdr, compBuf[:]...)
	hdr = append(hdr, propByte)
	if _, err := w.Write(hdr); err != nil {
		return err
	}
	_, err := w.Write(compressed)
	return err
}

// Decoder reassembles a byte stream from a sequence of LZMA2 chunks.
type Decoder struct{}

// NewDecoder returns a Decoder; it carries no state between calls.
func NewDecoder() *Decoder { return &Decoder{} }

// Decode reads chunks from r until the end-of-stream control byte.
func (dec *Decoder) Decode(r io.Reader) ([]byte, error) {
	var out []byte
	var props lzma.Properties
	havePropsEver := false
	first := true

	for {
		var ctrlBuf [1]byte
		if _, err := io.ReadFull(r, ctrlBuf[:]); err != nil {
			return nil, &errs.IOError{Op: "lzma2: reading control byte", Err: err}
		}
		ctrl := ctrlBuf[0]

		if ctrl == ctrlEOS {
			return out, nil
		}

		if ctrl < ctrlCompMask {
			if ctrl != ctrlUncompNoReset && ctrl != ctrlUncompReset {
				return nil, &errs.FormatError{Reason: fmt.Sprintf("invalid control byte 0x%02x", ctrl)}
			}
			if first && ctrl != ctrlUncompReset {
				return nil, &errs.FormatError{Reason: "first chunk must reset dictionary"}
			}
			var sizeBuf [2]byte
			if _, err := io.ReadFull(r, sizeBuf[:]); err != nil {
				return nil, &errs.IOError{Op: "lzma2: reading uncompressed chunk size", Err: err}
			}
			size := int(binary.BigEndian.Uint16(sizeBuf[:])) + 1
			buf := make([]byte, size)
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, &errs.IOError{Op: "lzma2: reading uncompressed chunk body", Err: err}
			}
			out = append(out, buf...)
			first = false
			continue
		}

		if first && ctrl < 0xE0 {
			return nil, &errs.FormatError{Reason: "first chunk must be a full reset"}
		}

		resetBits := (ctrl >> 5) & 0x03
		var hdrRest [4]byte
		if _, err := io.ReadFull(r, hdrRest[:]); err != nil {
			return nil, &errs.IOError{Op: "lzma2: reading compressed chunk header", Err: err}
		}
		uncompSize := int(ctrl&0x1F)<<16 | int(hdrRest[0])<<8 | int(hdrRest[1])
		uncompSize++
		compSize := int(hdrRest[2])<<8 | int(hdrRest[3])
		compSize++

		if resetBits >= 2 {
			var pb [1]byte
			if _, err := io.ReadFull(r, pb[:]); err != nil {
				return nil, &errs.IOError{Op: "lzma2: reading property byte", Err: err}
			}
			lc, lp, pbv, err := lzma.ParsePropByte(pb[0])
			if err != nil {
				return nil, err
			}
			props = lzma.Properties{LC: lc, LP: lp, PB: pbv}
			havePropsEver = true
		}
		if !havePropsEver {
			return nil, &errs.FormatError{Reason: "compressed chunk before any property byte"}
		}

		compBuf := make([]byte, compSize)
		if _, err := io.ReadFull(r, compBuf); err != nil {
			return nil, &errs.IOError{Op: "lzma2: reading compressed chunk body", Err: err}
		}
		// Each chunk is decoded with a fresh dictionary large enough for
		// every match distance inside that chunk.
		chunkProps := props
		chunkProps.DictSize = uint32(uncompSize)
		lzDec := lzma.NewDecoder()
		chunk, err := lzDec.DecodeRaw(bytes.NewReader(compBuf), chunkProps, uint64(uncompSize))
		if err != nil {
			return nil, &errs.DecompressionError{Reason: fmt.Sprintf("decoding chunk: %v", err)}
		}
		out = append(out, chunk...)
		first = false
	}
}
