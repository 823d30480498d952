// Copyright 2025 ScyllaDB
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package engines

import (
	"math/bits"
	"sync"
)

// Forward calls below this many steps iterate the transition directly,
// above it the matrix powers are applied.
const directStepsLimit = 64

// bitMatrix is a square matrix over GF(2) stored column by column. Every
// column is a state vector of len(column) 64-bit words. Xor based engines
// are linear over GF(2), so the transition is fully described by the image
// of every unit vector.
type bitMatrix [][]uint64

// transition builds the matrix of step acting on states of n bits.
func transition(n int, step func(state []uint64)) bitMatrix {
	words := (n + 63) / 64
	m := make(bitMatrix, n)
	for i := range n {
		col := make([]uint64, words)
		col[i/64] = 1 << (i % 64)
		step(col)
		m[i] = col
	}
	return m
}

func (m bitMatrix) apply(v []uint64) []uint64 {
	out := make([]uint64, len(v))
	for w, word := range v {
		for word != 0 {
			bit := bits.TrailingZeros64(word)
			word &= word - 1
			col := m[w*64+bit]
			for k := range out {
				out[k] ^= col[k]
			}
		}
	}
	return out
}

// mul returns m*o, i.e. the transform applying o first and m second.
func (m bitMatrix) mul(o bitMatrix) bitMatrix {
	out := make(bitMatrix, len(o))
	for i, col := range o {
		out[i] = m.apply(col)
	}
	return out
}

// jumpTable holds M^(2^k) for k in [0, 64).
type jumpTable [64]bitMatrix

func newJumpTable(n int, step func(state []uint64)) *jumpTable {
	var t jumpTable
	t[0] = transition(n, step)
	for k := 1; k < len(t); k++ {
		t[k] = t[k-1].mul(t[k-1])
	}
	return &t
}

// forward advances state by steps transitions.
func (t *jumpTable) forward(state []uint64, steps uint64) []uint64 {
	for steps != 0 {
		k := bits.TrailingZeros64(steps)
		steps &= steps - 1
		state = t[k].apply(state)
	}
	return state
}

var (
	xorShift32Jumps = sync.OnceValue(func() *jumpTable {
		return newJumpTable(32, func(s []uint64) {
			x := uint32(s[0])
			s[0] = uint64(xorShift32Step(x))
		})
	})
	xorShift64Jumps = sync.OnceValue(func() *jumpTable {
		return newJumpTable(64, func(s []uint64) {
			s[0] = xorShift64Step(s[0])
		})
	})
	xoroshiro128PlusJumps = sync.OnceValue(func() *jumpTable {
		return newJumpTable(128, func(s []uint64) {
			s[0], s[1] = xoroshiro128PlusStep(s[0], s[1])
		})
	})
)

// advanceLCG computes the state reached after delta steps of
// state*mult + plus in O(log delta), see Brown, "Random Number Generation
// with Arbitrary Stride".
func advanceLCG(state, delta, mult, plus uint64) uint64 {
	accMult := uint64(1)
	accPlus := uint64(0)
	for delta > 0 {
		if delta&1 != 0 {
			accMult *= mult
			accPlus = accPlus*mult + plus
		}
		plus = (mult + 1) * plus
		mult *= mult
		delta /= 2
	}
	return accMult*state + accPlus
}
