// Copyright (c) 2026 The Omnizip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later

package par2

import (
	"bufio"
	"bytes"
	"crypto/md5"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/omnizip/omnizip-sub003/checksum"
)

// CreateOptions configures Create.
type CreateOptions struct {
	BlockSize         int
	RedundancyPercent int
	CreatorText       string
}

// CreateResult holds the generated main packet set and the recovery
// volume produced alongside it.
type CreateResult struct {
	Main   []byte
	Volume []byte
}

// Create builds a PAR2 recovery set for the named files (read from dir)
// and returns the main packet-set bytes and a single recovery volume's
// bytes. BlockSize must be a positive multiple of 4; the last slice of
// each file is zero-padded to BlockSize.
func Create(dir string, fileNames []string, opts CreateOptions) (*CreateResult, error) {
	if opts.BlockSize <= 0 || opts.BlockSize%4 != 0 {
		return nil, &ArgumentError{Name: "BlockSize", Reason: fmt.Sprintf("%d must be a positive multiple of 4", opts.BlockSize)}
	}
	if len(fileNames) == 0 {
		return nil, &ArgumentError{Name: "fileNames", Reason: "no files given to protect"}
	}

	type fileState struct {
		name   string
		data   []byte
		fileID [16]byte
		md5    [16]byte
		slices [][]byte
	}

	files := make([]fileState, len(fileNames))
	var allSlices [][]byte
	for i, name := range fileNames {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, &IOError{Op: fmt.Sprintf("par2: reading %s", name), Err: err}
		}
		fs := fileState{name: name, data: data, md5: md5.Sum(data)}
		fs.fileID = computeFileID(fs.md5, uint64(len(data)), name)

		numSlices := (len(data) + opts.BlockSize - 1) / opts.BlockSize
		if numSlices == 0 {
			numSlices = 1
		}
		fs.slices = make([][]byte, numSlices)
		for s := 0; s < numSlices; s++ {
			slice := make([]byte, opts.BlockSize)
			start := s * opts.BlockSize
			end := start + opts.BlockSize
			if end > len(data) {
				end = len(data)
			}
			copy(slice, data[start:end])
			fs.slices[s] = slice
			allSlices = append(allSlices, slice)
		}
		files[i] = fs
	}

	fileIDs := make([][16]byte, len(files))
	for i, fs := range files {
		fileIDs[i] = fs.fileID
	}
	setID := computeSetID(fileIDs)

	numRecovery := (len(allSlices)*opts.RedundancyPercent + 99) / 100
	exponents := make([]uint32, numRecovery)
	for i := range exponents {
		exponents[i] = uint32(i)
	}
	var recoveryData [][]byte
	var err error
	if numRecovery > 0 {
		recoveryData, err = EncodeRecovery(allSlices, exponents)
		if err != nil {
			return nil, err
		}
	}

	var main, volume bytes.Buffer
	main.Write((&MainPacket{SetID: setID, BlockSize: uint64(opts.BlockSize), FileIDs: fileIDs}).marshal())
	for _, fs := range files {
		main.Write((&FileDescPacket{SetID: setID, FileID: fs.fileID, MD5: fs.md5, Length: uint64(len(fs.data)), Name: fs.name}).marshal())

		slices := make([]SliceChecksum, len(fs.slices))
		for i, s := range fs.slices {
			slices[i] = SliceChecksum{CRC32: checksum.CRC32(s), MD5: md5.Sum(s)}
		}
		main.Write((&IFSCPacket{SetID: setID, FileID: fs.fileID, Slices: slices}).marshal())
	}
	creatorText := opts.CreatorText
	if creatorText == "" {
		creatorText = "omnizip"
	}
	main.Write((&CreatorPacket{SetID: setID, Text: creatorText}).marshal())

	for i, e := range exponents {
		volume.Write((&RecoveryPacket{SetID: setID, Exponent: e, Data: recoveryData[i]}).marshal())
	}

	return &CreateResult{Main: main.Bytes(), Volume: volume.Bytes()}, nil
}

// parsedSet is the result of reading a main packet set: the recovery set's
// parameters and per-file descriptors/checksums, keyed by file id.
type parsedSet struct {
	Main     *MainPacket
	FileDesc map[[16]byte]*FileDescPacket
	IFSC     map[[16]byte]*IFSCPacket
}

func parseMainData(data []byte) (*parsedSet, error) {
	r := bufio.NewReader(bytes.NewReader(data))
	set := &parsedSet{FileDesc: map[[16]byte]*FileDescPacket{}, IFSC: map[[16]byte]*IFSCPacket{}}
	for {
		p, err := readPacket(r)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		kind, typed, err := dispatch(p)
		if err != nil {
			return nil, err
		}
		switch kind {
		case "main":
			set.Main = typed.(*MainPacket)
		case "filedesc":
			fd := typed.(*FileDescPacket)
			set.FileDesc[fd.FileID] = fd
		case "ifsc":
			ifsc := typed.(*IFSCPacket)
			set.IFSC[ifsc.FileID] = ifsc
		}
	}
	if set.Main == nil {
		return nil, &FormatError{Reason: "no Main packet found"}
	}
	return set, nil
}

func parseRecoveryVolumes(volumes [][]byte) ([]RecoveryPacket, error) {
	var out []RecoveryPacket
	for _, vol := range volumes {
		r := bufio.NewReader(bytes.NewReader(vol))
		for {
			p, err := readPacket(r)
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, err
			}
			kind, typed, err := dispatch(p)
			if err != nil {
				return nil, err
			}
			if kind == "recovery" {
				out = append(out, *typed.(*RecoveryPacket))
			}
		}
	}
	return out, nil
}

// FileReport is one protected file's verification outcome.
type FileReport struct {
	Name          string
	Missing       bool
	TotalBlocks   int
	DamagedBlocks []int
}

// VerifyResult summarizes a verification pass over an entire recovery set.
type VerifyResult struct {
	Files       []FileReport
	TotalBlocks int
	BadBlocks   int // damaged plus missing-file blocks
}

// Repairable reports whether the available recovery slice count covers
// every damaged or missing block found.
func (v *VerifyResult) Repairable(availableRecovery int) bool {
	return v.BadBlocks <= availableRecovery
}

// Verify reads the protected files named in mainData (resolved relative
// to dir) and compares each slice's checksum against the Input-File-
// Slice-Checksum packets, per spec's non-fatal-per-file policy: a single
// file's failure to open or a checksum mismatch is recorded in its
// FileReport rather than aborting the whole verification.
func Verify(dir string, mainData []byte) (*VerifyResult, error) {
	set, err := parseMainData(mainData)
	if err != nil {
		return nil, err
	}

	result := &VerifyResult{}
	for _, fileID := range set.Main.FileIDs {
		fd, ok := set.FileDesc[fileID]
		if !ok {
			continue
		}
		ifsc := set.IFSC[fileID]
		var totalBlocks int
		if ifsc != nil {
			totalBlocks = len(ifsc.Slices)
		}
		report := FileReport{Name: fd.Name, TotalBlocks: totalBlocks}

		data, err := os.ReadFile(filepath.Join(dir, fd.Name))
		if err != nil {
			report.Missing = true
			result.BadBlocks += totalBlocks
		} else if ifsc != nil {
			blockSize := int(set.Main.BlockSize)
			for i, sc := range ifsc.Slices {
				start := i * blockSize
				end := start + blockSize
				slice := make([]byte, blockSize)
				if start < len(data) {
					e := end
					if e > len(data) {
						e = len(data)
					}
					copy(slice, data[start:e])
				}
				if checksum.CRC32(slice) != sc.CRC32 || md5.Sum(slice) != sc.MD5 {
					report.DamagedBlocks = append(report.DamagedBlocks, i)
					result.BadBlocks++
				}
			}
		}
		result.TotalBlocks += totalBlocks
		result.Files = append(result.Files, report)
	}
	return result, nil
}

// RepairFiles reconstructs missing or damaged blocks in the files named by
// mainData using the recovery slices found in volumes, writing repaired
// files back under dir. It returns an error if fewer recovery slices are
// available than blocks need repair.
func RepairFiles(dir string, mainData []byte, volumes [][]byte) error {
	set, err := parseMainData(mainData)
	if err != nil {
		return err
	}
	recovery, err := parseRecoveryVolumes(volumes)
	if err != nil {
		return err
	}
	blockSize := int(set.Main.BlockSize)

	type fileSpan struct {
		fd        *FileDescPacket
		ifsc      *IFSCPacket
		start     int // global slice index of this file's first slice
		numSlices int
	}

	var spans []fileSpan
	globalSlices := 0
	for _, fileID := range set.Main.FileIDs {
		fd, ok := set.FileDesc[fileID]
		if !ok {
			continue
		}
		ifsc := set.IFSC[fileID]
		n := 0
		if ifsc != nil {
			n = len(ifsc.Slices)
		}
		spans = append(spans, fileSpan{fd: fd, ifsc: ifsc, start: globalSlices, numSlices: n})
		globalSlices += n
	}

	inputs := map[int][]byte{}
	fileData := make([][]byte, len(spans))
	fileDamaged := make([][]bool, len(spans))
	for fi, sp := range spans {
		data, readErr := os.ReadFile(filepath.Join(dir, sp.fd.Name))
		fileData[fi] = data
		fileDamaged[fi] = make([]bool, sp.numSlices)
		if readErr != nil {
			for i := 0; i < sp.numSlices; i++ {
				fileDamaged[fi][i] = true
			}
			continue
		}
		for i := 0; i < sp.numSlices; i++ {
			start := i * blockSize
			end := start + blockSize
			slice := make([]byte, blockSize)
			if start < len(data) {
				e := end
				if e > len(data) {
					e = len(data)
				}
				copy(slice, data[start:e])
			}
			var want SliceChecksum
			if sp.ifsc != nil && i < len(sp.ifsc.Slices) {
				want = sp.ifsc.Slices[i]
			}
			if checksum.CRC32(slice) == want.CRC32 && md5.Sum(slice) == want.MD5 {
				inputs[sp.start+i] = slice
			} else {
				fileDamaged[fi][i] = true
			}
		}
	}

	recSlices := make([]RecoverySlice, len(recovery))
	for i, r := range recovery {
		recSlices[i] = RecoverySlice{Exponent: r.Exponent, Data: r.Data}
	}

	reconstructed, err := Repair(inputs, globalSlices, recSlices)
	if err != nil {
		return err
	}

	for fi, sp := range spans {
		damaged := false
		for _, d := range fileDamaged[fi] {
			if d {
				damaged = true
				break
			}
		}
		if !damaged {
			continue
		}
		out := make([]byte, 0, sp.numSlices*blockSize)
		for i := 0; i < sp.numSlices; i++ {
			if fileDamaged[fi][i] {
				slice, ok := reconstructed[sp.start+i]
				if !ok {
					return fmt.Errorf("par2: internal error: slice %d of %s was not reconstructed", i, sp.fd.Name)
				}
				out = append(out, slice...)
			} else {
				start := i * blockSize
				seg := make([]byte, blockSize)
				if start < len(fileData[fi]) {
					copy(seg, fileData[fi][start:])
				}
				out = append(out, seg...)
			}
		}
		if uint64(len(out)) > sp.fd.Length {
			out = out[:sp.fd.Length]
		}
		if got := md5.Sum(out); got != sp.fd.MD5 {
			return &IntegrityError{Reason: fmt.Sprintf("repaired file %s does not match its recorded MD5", sp.fd.Name)}
		}
		if err := os.WriteFile(filepath.Join(dir, sp.fd.Name), out, 0o644); err != nil {
			return &IOError{Op: fmt.Sprintf("par2: writing repaired file %s", sp.fd.Name), Err: err}
		}
	}
	return nil
}
