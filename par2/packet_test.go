// Copyright (c) 2026 The Omnizip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later

package par2

import (
	"bufio"
	"bytes"
	"io"
	"testing"
)

func TestPacketRoundTrip(t *testing.T) {
	p := &packet{Type: typeCreator, Body: []byte("omnizip test")}
	copy(p.SetID[:], bytes.Repeat([]byte{0x42}, 16))
	wire := p.marshal()

	r := bufio.NewReader(bytes.NewReader(wire))
	got, err := readPacket(r)
	if err != nil {
		t.Fatalf("readPacket: %v", err)
	}
	if got.SetID != p.SetID {
		t.Fatalf("SetID mismatch")
	}
	if got.Type != typeCreator {
		t.Fatalf("Type mismatch")
	}
	if !bytes.HasPrefix(got.Body, []byte("omnizip test")) {
		t.Fatalf("Body mismatch: %q", got.Body)
	}
}

func TestPacketWithLeadingGarbageIsFound(t *testing.T) {
	p := &packet{Type: typeMain, Body: make([]byte, 16)}
	wire := p.marshal()
	garbage := append([]byte("not a packet, just noise"), wire...)

	r := bufio.NewReader(bytes.NewReader(garbage))
	got, err := readPacket(r)
	if err != nil {
		t.Fatalf("readPacket: %v", err)
	}
	if got.Type != typeMain {
		t.Fatalf("expected the Main packet to be found past the garbage")
	}
}

func TestPacketRejectsCorruptMD5(t *testing.T) {
	p := &packet{Type: typeCreator, Body: []byte("x")}
	wire := p.marshal()
	wire[20] ^= 0xFF // inside the packet MD5 field

	r := bufio.NewReader(bytes.NewReader(wire))
	if _, err := readPacket(r); err == nil {
		t.Fatalf("expected an MD5 mismatch error")
	}
}

func TestReadPacketEOFOnEmptyInput(t *testing.T) {
	r := bufio.NewReader(bytes.NewReader(nil))
	_, err := readPacket(r)
	if err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestMainFileDescIFSCRoundTrip(t *testing.T) {
	var setID [16]byte
	copy(setID[:], bytes.Repeat([]byte{0x07}, 16))
	fileID := computeFileID([16]byte{1, 2, 3}, 100, "a.bin")

	main := &MainPacket{SetID: setID, BlockSize: 256, FileIDs: [][16]byte{fileID}}
	mw := main.marshal()
	r := bufio.NewReader(bytes.NewReader(mw))
	p, err := readPacket(r)
	if err != nil {
		t.Fatalf("readPacket(main): %v", err)
	}
	parsedMain, err := parseMainPacket(p)
	if err != nil {
		t.Fatalf("parseMainPacket: %v", err)
	}
	if parsedMain.BlockSize != 256 || len(parsedMain.FileIDs) != 1 || parsedMain.FileIDs[0] != fileID {
		t.Fatalf("Main packet round trip mismatch: %+v", parsedMain)
	}

	fd := &FileDescPacket{SetID: setID, FileID: fileID, MD5: [16]byte{9}, Length: 100, Name: "a.bin"}
	fw := fd.marshal()
	r = bufio.NewReader(bytes.NewReader(fw))
	p, err = readPacket(r)
	if err != nil {
		t.Fatalf("readPacket(filedesc): %v", err)
	}
	parsedFD, err := parseFileDescPacket(p)
	if err != nil {
		t.Fatalf("parseFileDescPacket: %v", err)
	}
	if parsedFD.Name != "a.bin" || parsedFD.Length != 100 {
		t.Fatalf("FileDesc round trip mismatch: %+v", parsedFD)
	}

	ifsc := &IFSCPacket{SetID: setID, FileID: fileID, Slices: []SliceChecksum{{CRC32: 1}, {CRC32: 2}}}
	iw := ifsc.marshal()
	r = bufio.NewReader(bytes.NewReader(iw))
	p, err = readPacket(r)
	if err != nil {
		t.Fatalf("readPacket(ifsc): %v", err)
	}
	parsedIFSC, err := parseIFSCPacket(p)
	if err != nil {
		t.Fatalf("parseIFSCPacket: %v", err)
	}
	if len(parsedIFSC.Slices) != 2 || parsedIFSC.Slices[1].CRC32 != 2 {
		t.Fatalf("IFSC round trip mismatch: %+v", parsedIFSC)
	}
}
