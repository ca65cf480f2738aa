// Copyright (c) 2026 The Omnizip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later

// Package par2 implements the PAR2 parity archive format: GF(2^16)
// Reed-Solomon recovery-slice encoding and repair, packet framing and I/O,
// and the Create/Verify/Repair collaborator API.
package par2

import (
	"bytes"
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"io"
)

// magic is the 8-byte sequence that opens every PAR2 packet.
var magic = [8]byte{'P', 'A', 'R', '2', 0, 'P', 'K', 'T'}

// packetHeaderLen is magic(8) + length(8) + packetMD5(16) + setID(16) +
// type(16).
const packetHeaderLen = 64

// Packet type tags, 16 bytes each: "PAR 2.0\0" followed by an 8-byte type
// name, null-padded.
var (
	typeMain     = packetType("Main")
	typeFileDesc = packetType("FileDesc")
	typeIFSC     = packetType("IFSC")
	typeRecovery = packetType("RecvSlic")
	typeCreator  = packetType("Creator")
)

func packetType(name string) [16]byte {
	var t [16]byte
	copy(t[:8], "PAR 2.0\x00")
	copy(t[8:], name)
	return t
}

// packet is one raw PAR2 packet: its set ID, type tag, and body, with the
// header's declared length and MD5 available for round-tripping.
type packet struct {
	SetID [16]byte
	Type  [16]byte
	Body  []byte
}

// marshal serializes p into a full on-wire packet: magic, length, the
// packet MD5 (covering SetID, Type, and Body), SetID, Type, Body.
func (p *packet) marshal() []byte {
	total := packetHeaderLen + len(p.Body)
	if total%4 != 0 {
		pad := 4 - total%4
		p.Body = append(p.Body, make([]byte, pad)...)
		total += pad
	}

	out := make([]byte, total)
	copy(out[0:8], magic[:])
	binary.LittleEndian.PutUint64(out[8:16], uint64(total))
	copy(out[32:48], p.SetID[:])
	copy(out[48:64], p.Type[:])
	copy(out[64:], p.Body)

	sum := md5.Sum(out[32:])
	copy(out[16:32], sum[:])
	return out
}

// readPacketAfterMagic reads one packet's remaining header and body from
// r, assuming the caller (scanForMagic) has already consumed and matched
// the leading 8-byte magic.
func readPacketAfterMagic(r io.Reader) (*packet, error) {
	var rest [packetHeaderLen - 8]byte
	if _, err := io.ReadFull(r, rest[:]); err != nil {
		return nil, &IOError{Op: "par2: reading packet header", Err: err}
	}
	length := binary.LittleEndian.Uint64(rest[0:8])
	if length < packetHeaderLen || length%4 != 0 {
		return nil, &FormatError{Reason: fmt.Sprintf("invalid packet length %d", length)}
	}

	bodyLen := length - packetHeaderLen
	body := make([]byte, bodyLen)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, &IOError{Op: "par2: reading packet body", Err: err}
	}

	want := rest[8:24] // the packet MD5 field, immediately after length
	got := md5.New()
	got.Write(rest[24:]) // SetID, Type
	got.Write(body)
	if !bytes.Equal(want, got.Sum(nil)) {
		return nil, &FormatError{Reason: "packet MD5 mismatch"}
	}

	p := &packet{Body: body}
	copy(p.SetID[:], rest[24:40])
	copy(p.Type[:], rest[40:56])
	return p, nil
}

// scanForMagic advances r byte by byte until the next 8 bytes read match
// magic (leaving the stream positioned just after it), mirroring a real
// PAR2 reader's tolerance for interleaved non-packet bytes between
// packets.
func scanForMagic(r io.ByteReader) error {
	var window [8]byte
	filled := 0
	for {
		b, err := r.ReadByte()
		if err != nil {
			return err
		}
		if filled < 8 {
			window[filled] = b
			filled++
		} else {
			copy(window[:7], window[1:])
			window[7] = b
		}
		if filled == 8 && window == magic {
			return nil
		}
	}
}

// readPacket scans r for the next packet's magic and parses it whole,
// returning io.EOF once no further magic can be found.
func readPacket(r interface {
	io.Reader
	io.ByteReader
}) (*packet, error) {
	if err := scanForMagic(r); err != nil {
		return nil, io.EOF
	}
	return readPacketAfterMagic(r)
}
