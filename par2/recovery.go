// Copyright (c) 2026 The Omnizip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later

package par2

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/omnizip/omnizip-sub003/gf65536"
)

// chunkWords bounds how many 16-bit words are processed at a time across
// all slices, keeping per-call memory at O(|slices| * chunkWords) rather
// than O(|slices| * sliceSize).
const chunkWords = 1 << 15

// EncodeRecovery produces one recovery slice per exponent in exponents,
// each the same byte length as the (equal-length, even-length) input
// slices. Slice word i of recovery[j] is the GF(2^16) sum over every input
// slice of input[k]'s word i times base[k]^exponents[j].
func EncodeRecovery(inputs [][]byte, exponents []uint32) ([][]byte, error) {
	if len(inputs) == 0 {
		return nil, &ArgumentError{Name: "inputs", Reason: "no input slices to encode"}
	}
	sliceSize := len(inputs[0])
	if sliceSize%2 != 0 {
		return nil, &ArgumentError{Name: "inputs", Reason: fmt.Sprintf("slice size %d is not even", sliceSize)}
	}
	for i, in := range inputs {
		if len(in) != sliceSize {
			return nil, &ArgumentError{Name: "inputs", Reason: fmt.Sprintf("slice %d has length %d, want %d", i, len(in), sliceSize)}
		}
	}

	bases := make([]uint16, len(inputs))
	for i := range bases {
		bases[i] = gf65536.Base(uint32(i))
	}

	recovery := make([][]byte, len(exponents))
	for j := range recovery {
		recovery[j] = make([]byte, sliceSize)
	}

	words := sliceSize / 2
	for start := 0; start < words; start += chunkWords {
		end := start + chunkWords
		if end > words {
			end = words
		}
		for j, e := range exponents {
			coeffs := make([]uint16, len(inputs))
			for i, b := range bases {
				coeffs[i] = gf65536.Pow(b, e)
			}
			for w := start; w < end; w++ {
				var acc uint16
				for i, in := range inputs {
					word := binary.LittleEndian.Uint16(in[w*2:])
					acc = gf65536.Add(acc, gf65536.Mul(word, coeffs[i]))
				}
				binary.LittleEndian.PutUint16(recovery[j][w*2:], acc)
			}
		}
	}
	return recovery, nil
}

// RecoverySlice pairs a recovery slice's bytes with the exponent it was
// generated under.
type RecoverySlice struct {
	Exponent uint32
	Data     []byte
}

// Repair reconstructs every slice in totalSlices not present in inputs
// (keyed by original index), using as many of the available recovery
// slices as there are missing inputs. It returns the reconstructed slices
// keyed by the original missing index.
func Repair(inputs map[int][]byte, totalSlices int, recovery []RecoverySlice) (map[int][]byte, error) {
	var missing []int
	var sliceSize int
	for i := 0; i < totalSlices; i++ {
		if s, ok := inputs[i]; ok {
			if sliceSize == 0 {
				sliceSize = len(s)
			} else if len(s) != sliceSize {
				return nil, &ArgumentError{Name: "inputs", Reason: fmt.Sprintf("slice %d has length %d, want %d", i, len(s), sliceSize)}
			}
		} else {
			missing = append(missing, i)
		}
	}
	if len(missing) == 0 {
		return map[int][]byte{}, nil
	}
	if sliceSize == 0 {
		if len(recovery) == 0 {
			return nil, &ArgumentError{Name: "inputs", Reason: "cannot determine slice size: no present inputs or recovery slices"}
		}
		sliceSize = len(recovery[0].Data)
	}
	if len(recovery) < len(missing) {
		return nil, &UnrepairableError{Missing: len(missing), Available: len(recovery)}
	}

	chosen := append([]RecoverySlice(nil), recovery...)
	sort.Slice(chosen, func(i, j int) bool { return chosen[i].Exponent < chosen[j].Exponent })
	chosen = chosen[:len(missing)]

	exponents := make([]uint32, len(chosen))
	for i, rs := range chosen {
		if len(rs.Data) != sliceSize {
			return nil, &ArgumentError{Name: "recovery", Reason: fmt.Sprintf("slice for exponent %d has length %d, want %d", rs.Exponent, len(rs.Data), sliceSize)}
		}
		exponents[i] = rs.Exponent
	}

	a := recoveryMatrix(missing, exponents)
	aInv, err := a.invert()
	if err != nil {
		return nil, err
	}

	out := make(map[int][]byte, len(missing))
	for _, idx := range missing {
		out[idx] = make([]byte, sliceSize)
	}

	presentIdx := make([]int, 0, len(inputs))
	for i := range inputs {
		presentIdx = append(presentIdx, i)
	}
	sort.Ints(presentIdx)

	words := sliceSize / 2
	for start := 0; start < words; start += chunkWords {
		end := start + chunkWords
		if end > words {
			end = words
		}
		for w := start; w < end; w++ {
			b := make([]uint16, len(exponents))
			for r, e := range exponents {
				b[r] = binary.LittleEndian.Uint16(chosen[r].Data[w*2:])
				for _, p := range presentIdx {
					base := gf65536.Base(uint32(p))
					coeff := gf65536.Pow(base, e)
					word := binary.LittleEndian.Uint16(inputs[p][w*2:])
					b[r] = gf65536.Add(b[r], gf65536.Mul(word, coeff))
				}
			}
			missingVals := aInv.mulVector(b)
			for c, idx := range missing {
				binary.LittleEndian.PutUint16(out[idx][w*2:], missingVals[c])
			}
		}
	}
	return out, nil
}
