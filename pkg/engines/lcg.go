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

const (
	// Numerical Recipes.
	lcg32Multiplier = 1664525
	lcg32Increment  = 1013904223

	// Knuth MMIX.
	lcg64Multiplier = 6364136223846793005
	lcg64Increment  = 1442695040888963407
)

// LCG32 is a full period (2^32) linear congruential generator. Any seed,
// zero included, is valid.
type LCG32 struct {
	state uint32
}

func NewLCG32(seed uint32) *LCG32 {
	return &LCG32{state: seed}
}

func (l *LCG32) next() uint32 {
	l.state = l.state*lcg32Multiplier + lcg32Increment
	return l.state
}

func (l *LCG32) Uint32() uint32 {
	return l.next()
}

// Uint64 consumes two steps, the first one provides the high half.
func (l *LCG32) Uint64() uint64 {
	hi := uint64(l.next())
	return hi<<32 | uint64(l.next())
}

func (l *LCG32) Float32() float32 {
	return float32From24(l.next())
}

func (l *LCG32) Float64() float64 {
	return float64From32(l.next())
}

func (l *LCG32) Bool() bool {
	return l.next()&(1<<31) != 0
}

func (l *LCG32) IntRange(min, max int) int {
	return intRange(min, max, func() uint64 {
		return uint64(l.next()) << 32
	})
}

func (l *LCG32) Forward(steps uint64) {
	l.state = uint32(advanceLCG(uint64(l.state), steps, lcg32Multiplier, lcg32Increment))
}

func (l *LCG32) Clone() Engine {
	cp := *l
	return &cp
}

// LCG64 is a full period (2^64) linear congruential generator. Any seed,
// zero included, is valid.
type LCG64 struct {
	state uint64
}

func NewLCG64(seed uint64) *LCG64 {
	return &LCG64{state: seed}
}

func (l *LCG64) Uint64() uint64 {
	l.state = l.state*lcg64Multiplier + lcg64Increment
	return l.state
}

// Uint32 returns the high half, the low bits of a power of two LCG have
// short periods.
func (l *LCG64) Uint32() uint32 {
	return uint32(l.Uint64() >> 32)
}

func (l *LCG64) Float32() float32 {
	return float32From24(l.Uint32())
}

func (l *LCG64) Float64() float64 {
	return float64From53(l.Uint64())
}

func (l *LCG64) Bool() bool {
	return l.Uint64()&(1<<63) != 0
}

func (l *LCG64) IntRange(min, max int) int {
	return intRange(min, max, l.Uint64)
}

func (l *LCG64) Forward(steps uint64) {
	l.state = advanceLCG(l.state, steps, lcg64Multiplier, lcg64Increment)
}

func (l *LCG64) Clone() Engine {
	cp := *l
	return &cp
}
