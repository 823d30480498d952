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

import "math/bits"

/*
Translated from
	http://prng.di.unimi.it/xoroshiro128plus.c
	Scrambled Linear Pseudorandom Number Generators
	David Blackman, Sebastiano Vigna
	https://arxiv.org/abs/1805.01407
*/

// Jump polynomials equivalent to 2^64 and 2^96 steps.
var (
	xoroshiroJump     = [2]uint64{0xdf900294d8f554a5, 0x170865df4b3201fc}
	xoroshiroLongJump = [2]uint64{0xd2a98b26625eee7b, 0xdddf9b1090aa7ac1}
)

// Xoroshiro128Plus has a period of 2^128-1. The lowest bits of its output
// have low linear complexity, Float64 and Uint32 only use the high bits.
type Xoroshiro128Plus struct {
	s0, s1 uint64
}

func NewXoroshiro128Plus(s0, s1 uint64) (*Xoroshiro128Plus, error) {
	if s0 == 0 && s1 == 0 {
		return nil, ErrZeroSeed
	}
	return &Xoroshiro128Plus{s0: s0, s1: s1}, nil
}

func xoroshiro128PlusStep(s0, s1 uint64) (uint64, uint64) {
	s1 ^= s0
	return bits.RotateLeft64(s0, 24) ^ s1 ^ (s1 << 16), bits.RotateLeft64(s1, 37)
}

func (x *Xoroshiro128Plus) Uint64() uint64 {
	result := x.s0 + x.s1
	x.s0, x.s1 = xoroshiro128PlusStep(x.s0, x.s1)
	return result
}

func (x *Xoroshiro128Plus) Uint32() uint32 {
	return uint32(x.Uint64() >> 32)
}

func (x *Xoroshiro128Plus) Float32() float32 {
	return float32From24(x.Uint32())
}

func (x *Xoroshiro128Plus) Float64() float64 {
	return float64From53(x.Uint64())
}

func (x *Xoroshiro128Plus) Bool() bool {
	return x.Uint64()&(1<<63) != 0
}

func (x *Xoroshiro128Plus) IntRange(min, max int) int {
	return intRange(min, max, x.Uint64)
}

func (x *Xoroshiro128Plus) Forward(steps uint64) {
	if steps < directStepsLimit {
		for range steps {
			x.s0, x.s1 = xoroshiro128PlusStep(x.s0, x.s1)
		}
		return
	}
	state := xoroshiro128PlusJumps().forward([]uint64{x.s0, x.s1}, steps)
	x.s0, x.s1 = state[0], state[1]
}

// Jump is equivalent to 2^64 steps. It can be used to generate 2^64
// non-overlapping subsequences for parallel computations.
func (x *Xoroshiro128Plus) Jump() {
	x.jump(xoroshiroJump)
}

// LongJump is equivalent to 2^96 steps.
func (x *Xoroshiro128Plus) LongJump() {
	x.jump(xoroshiroLongJump)
}

func (x *Xoroshiro128Plus) jump(poly [2]uint64) {
	var s0, s1 uint64
	for _, word := range poly {
		for b := range 64 {
			if word&(1<<b) != 0 {
				s0 ^= x.s0
				s1 ^= x.s1
			}
			x.s0, x.s1 = xoroshiro128PlusStep(x.s0, x.s1)
		}
	}
	x.s0, x.s1 = s0, s1
}

func (x *Xoroshiro128Plus) Clone() Engine {
	cp := *x
	return &cp
}
