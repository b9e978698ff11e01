package utils

import (
	"fmt"
)

type Index []int

func NewIndex(N int) (I Index) {
	return make(Index, N)
}

func NewRange(rmin, rmax int) (r Index) {
	var (
		size = rmax - rmin + 1 // INCLUSIVE RANGE
	)
	r = make(Index, size)
	for i := range r {
		r[i] = i + rmin
	}
	return
}

// Find returns the position of the first occurrence of val in I, or -1.
func (I Index) Find(val int) int {
	for i, v := range I {
		if v == val {
			return i
		}
	}
	return -1
}

const radixBits = 8

// ArgsortRadix fills perm with the stable ordering of keys, using a least
// significant digit radix sort over the key range.
func ArgsortRadix(keys, perm Index) {
	if len(perm) != len(keys) {
		panic(fmt.Errorf("argsort permutation length %d does not match key length %d", len(perm), len(keys)))
	}
	for i := range perm {
		perm[i] = i
	}
	if len(keys) < 2 {
		return
	}
	var (
		kMin, kMax = keys[0], keys[0]
		mask       = uint64(1<<radixBits - 1)
		tmp        = make(Index, len(perm))
	)
	for _, k := range keys {
		if k < kMin {
			kMin = k
		}
		if k > kMax {
			kMax = k
		}
	}
	span := uint64(kMax) - uint64(kMin)
	for shift := uint(0); shift < 64 && span>>shift > 0; shift += radixBits {
		var counts [1 << radixBits]int
		for _, p := range perm {
			counts[((uint64(keys[p])-uint64(kMin))>>shift)&mask]++
		}
		var offset int
		for b, c := range counts {
			counts[b] = offset
			offset += c
		}
		for _, p := range perm {
			b := ((uint64(keys[p]) - uint64(kMin)) >> shift) & mask
			tmp[counts[b]] = p
			counts[b]++
		}
		copy(perm, tmp)
	}
}

// SortCells groups entity positions by cell. On return perm holds the stable
// sorted permutation of cells, and the entities sharing uniqueCells[i] are
// perm[offsets[i]:offsets[i+1]].
func SortCells(cells, perm Index) (uniqueCells, offsets Index) {
	var (
		n = len(cells)
	)
	ArgsortRadix(cells, perm)
	if n == 0 {
		return Index{}, Index{0}
	}
	uniqueCells = make(Index, 0, n)
	offsets = make(Index, 1, n+1)
	for i := 0; i < n; i++ {
		c := cells[perm[i]]
		if i == 0 || c != uniqueCells[len(uniqueCells)-1] {
			if i > 0 {
				offsets = append(offsets, i)
			}
			uniqueCells = append(uniqueCells, c)
		}
	}
	offsets = append(offsets, n)
	return
}
