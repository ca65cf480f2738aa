// Copyright (c) 2026 The Omnizip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later

package par2

import (
	"crypto/md5"
	"encoding/binary"
	"sort"
)

// MainPacket carries the recovery set's global parameters: the slice size
// every input and recovery slice is padded/generated to, and the file IDs
// (in recovery-set order) it protects.
type MainPacket struct {
	SetID     [16]byte
	BlockSize uint64
	FileIDs   [][16]byte
}

// FileDescPacket identifies one protected file: its id, whole-file MD5,
// byte length, and name.
type FileDescPacket struct {
	SetID  [16]byte
	FileID [16]byte
	MD5    [16]byte
	Length uint64
	Name   string
}

// SliceChecksum is one input slice's CRC32 and MD5, as recorded in an
// Input-File-Slice-Checksum packet.
type SliceChecksum struct {
	CRC32 uint32
	MD5   [16]byte
}

// IFSCPacket carries per-slice checksums for one protected file, in slice
// order.
type IFSCPacket struct {
	SetID  [16]byte
	FileID [16]byte
	Slices []SliceChecksum
}

// RecoveryPacket carries one Reed-Solomon recovery slice and the exponent
// it was generated under.
type RecoveryPacket struct {
	SetID    [16]byte
	Exponent uint32
	Data     []byte
}

// CreatorPacket records which implementation produced the recovery set.
type CreatorPacket struct {
	SetID [16]byte
	Text  string
}

// computeFileID derives a file's id from its whole-file MD5, byte length,
// and name, mirroring the real format's "16k MD5 + length + name" scheme
// simplified to a single full-file MD5 (the core never needs the 16k
// prefix hash independently of the full one).
func computeFileID(fileMD5 [16]byte, length uint64, name string) [16]byte {
	h := md5.New()
	h.Write(fileMD5[:])
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], length)
	h.Write(lenBuf[:])
	h.Write([]byte(name))
	var id [16]byte
	copy(id[:], h.Sum(nil))
	return id
}

// computeSetID derives the recovery set's id from the sorted file IDs it
// protects, so set membership (not insertion order) determines the id.
func computeSetID(fileIDs [][16]byte) [16]byte {
	sorted := append([][16]byte(nil), fileIDs...)
	sort.Slice(sorted, func(i, j int) bool {
		return string(sorted[i][:]) < string(sorted[j][:])
	})
	h := md5.New()
	for _, id := range sorted {
		h.Write(id[:])
	}
	var setID [16]byte
	copy(setID[:], h.Sum(nil))
	return setID
}

func (m *MainPacket) marshal() []byte {
	p := &packet{SetID: m.SetID, Type: typeMain}
	body := make([]byte, 8+4+16*len(m.FileIDs))
	binary.LittleEndian.PutUint64(body[0:8], m.BlockSize)
	binary.LittleEndian.PutUint32(body[8:12], uint32(len(m.FileIDs)))
	for i, id := range m.FileIDs {
		copy(body[12+i*16:], id[:])
	}
	p.Body = body
	return p.marshal()
}

func parseMainPacket(p *packet) (*MainPacket, error) {
	if len(p.Body) < 12 {
		return nil, &FormatError{Reason: "Main packet body too short"}
	}
	m := &MainPacket{SetID: p.SetID}
	m.BlockSize = binary.LittleEndian.Uint64(p.Body[0:8])
	n := binary.LittleEndian.Uint32(p.Body[8:12])
	if uint64(len(p.Body)) < 12+uint64(n)*16 {
		return nil, &FormatError{Reason: "Main packet file-id list truncated"}
	}
	m.FileIDs = make([][16]byte, n)
	for i := range m.FileIDs {
		copy(m.FileIDs[i][:], p.Body[12+i*16:])
	}
	return m, nil
}

func (f *FileDescPacket) marshal() []byte {
	p := &packet{SetID: f.SetID, Type: typeFileDesc}
	nameBytes := []byte(f.Name)
	body := make([]byte, 16+16+8+4+len(nameBytes))
	copy(body[0:16], f.FileID[:])
	copy(body[16:32], f.MD5[:])
	binary.LittleEndian.PutUint64(body[32:40], f.Length)
	binary.LittleEndian.PutUint32(body[40:44], uint32(len(nameBytes)))
	copy(body[44:], nameBytes)
	p.Body = body
	return p.marshal()
}

func parseFileDescPacket(p *packet) (*FileDescPacket, error) {
	if len(p.Body) < 44 {
		return nil, &FormatError{Reason: "FileDesc packet body too short"}
	}
	f := &FileDescPacket{SetID: p.SetID}
	copy(f.FileID[:], p.Body[0:16])
	copy(f.MD5[:], p.Body[16:32])
	f.Length = binary.LittleEndian.Uint64(p.Body[32:40])
	nameLen := binary.LittleEndian.Uint32(p.Body[40:44])
	if uint64(len(p.Body)) < 44+uint64(nameLen) {
		return nil, &FormatError{Reason: "FileDesc packet name truncated"}
	}
	f.Name = string(p.Body[44 : 44+nameLen])
	return f, nil
}

func (ifsc *IFSCPacket) marshal() []byte {
	p := &packet{SetID: ifsc.SetID, Type: typeIFSC}
	body := make([]byte, 16+20*len(ifsc.Slices))
	copy(body[0:16], ifsc.FileID[:])
	for i, s := range ifsc.Slices {
		off := 16 + i*20
		binary.LittleEndian.PutUint32(body[off:off+4], s.CRC32)
		copy(body[off+4:off+20], s.MD5[:])
	}
	p.Body = body
	return p.marshal()
}

func parseIFSCPacket(p *packet) (*IFSCPacket, error) {
	if len(p.Body) < 16 {
		return nil, &FormatError{Reason: "IFSC packet body too short"}
	}
	ifsc := &IFSCPacket{SetID: p.SetID}
	copy(ifsc.FileID[:], p.Body[0:16])
	rest := p.Body[16:]
	if len(rest)%20 != 0 {
		return nil, &FormatError{Reason: "IFSC packet slice list misaligned"}
	}
	ifsc.Slices = make([]SliceChecksum, len(rest)/20)
	for i := range ifsc.Slices {
		off := i * 20
		ifsc.Slices[i].CRC32 = binary.LittleEndian.Uint32(rest[off : off+4])
		copy(ifsc.Slices[i].MD5[:], rest[off+4:off+20])
	}
	return ifsc, nil
}

func (r *RecoveryPacket) marshal() []byte {
	p := &packet{SetID: r.SetID, Type: typeRecovery}
	body := make([]byte, 4+len(r.Data))
	binary.LittleEndian.PutUint32(body[0:4], r.Exponent)
	copy(body[4:], r.Data)
	p.Body = body
	return p.marshal()
}

func parseRecoveryPacket(p *packet) (*RecoveryPacket, error) {
	if len(p.Body) < 4 {
		return nil, &FormatError{Reason: "Recovery-Slice packet body too short"}
	}
	r := &RecoveryPacket{SetID: p.SetID}
	r.Exponent = binary.LittleEndian.Uint32(p.Body[0:4])
	r.Data = append([]byte(nil), p.Body[4:]...)
	return r, nil
}

func (c *CreatorPacket) marshal() []byte {
	p := &packet{SetID: c.SetID, Type: typeCreator, Body: []byte(c.Text)}
	return p.marshal()
}

func parseCreatorPacket(p *packet) (*CreatorPacket, error) {
	return &CreatorPacket{SetID: p.SetID, Text: string(p.Body)}, nil
}

// dispatch parses a raw packet into its typed form based on its type tag.
// Unrecognized type tags are returned as ("", nil, nil): callers skip
// them, per the format's tolerance for packet types it doesn't know.
func dispatch(p *packet) (kind string, typed interface{}, err error) {
	switch p.Type {
	case typeMain:
		v, err := parseMainPacket(p)
		return "main", v, err
	case typeFileDesc:
		v, err := parseFileDescPacket(p)
		return "filedesc", v, err
	case typeIFSC:
		v, err := parseIFSCPacket(p)
		return "ifsc", v, err
	case typeRecovery:
		v, err := parseRecoveryPacket(p)
		return "recovery", v, err
	case typeCreator:
		v, err := parseCreatorPacket(p)
		return "creator", v, err
	default:
		return "", nil, nil
	}
}
