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

// Marsaglia, "Xorshift RNGs", Journal of Statistical Software 8(14), 2003.

// XorShift32 has a period of 2^32-1.
type XorShift32 struct {
	state uint32
}

func NewXorShift32(seed uint32) (*XorShift32, error) {
	if seed == 0 {
		return nil, ErrZeroSeed
	}
	return &XorShift32{state: seed}, nil
}

func xorShift32Step(x uint32) uint32 {
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	return x
}

func (x *XorShift32) next() uint32 {
	x.state = xorShift32Step(x.state)
	return x.state
}

func (x *XorShift32) Uint32() uint32 {
	return x.next()
}

// Uint64 consumes two steps, the first one provides the high half.
func (x *XorShift32) Uint64() uint64 {
	hi := uint64(x.next())
	return hi<<32 | uint64(x.next())
}

func (x *XorShift32) Float32() float32 {
	return float32From24(x.next())
}

func (x *XorShift32) Float64() float64 {
	return float64From32(x.next())
}

func (x *XorShift32) Bool() bool {
	return x.next()&(1<<31) != 0
}

func (x *XorShift32) IntRange(min, max int) int {
	return intRange(min, max, func() uint64 {
		return uint64(x.next()) << 32
	})
}

func (x *XorShift32) Forward(steps uint64) {
	if steps < directStepsLimit {
		for range steps {
			x.next()
		}
		return
	}
	x.state = uint32(xorShift32Jumps().forward([]uint64{uint64(x.state)}, steps)[0])
}

func (x *XorShift32) Clone() Engine {
	cp := *x
	return &cp
}

// XorShift64 has a period of 2^64-1.
type XorShift64 struct {
	state uint64
}

func NewXorShift64(seed uint64) (*XorShift64, error) {
	if seed == 0 {
		return nil, ErrZeroSeed
	}
	return &XorShift64{state: seed}, nil
}

func xorShift64Step(x uint64) uint64 {
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	return x
}

func (x *XorShift64) Uint64() uint64 {
	x.state = xorShift64Step(x.state)
	return x.state
}

// Uint32 returns the high half, the low bits of xorshift are weaker.
func (x *XorShift64) Uint32() uint32 {
	return uint32(x.Uint64() >> 32)
}

func (x *XorShift64) Float32() float32 {
	return float32From24(x.Uint32())
}

func (x *XorShift64) Float64() float64 {
	return float64From53(x.Uint64())
}

func (x *XorShift64) Bool() bool {
	return x.Uint64()&(1<<63) != 0
}

func (x *XorShift64) IntRange(min, max int) int {
	return intRange(min, max, x.Uint64)
}

func (x *XorShift64) Forward(steps uint64) {
	if steps < directStepsLimit {
		for range steps {
			x.state = xorShift64Step(x.state)
		}
		return
	}
	x.state = xorShift64Jumps().forward([]uint64{x.state}, steps)[0]
}

func (x *XorShift64) Clone() Engine {
	cp := *x
	return &cp
}
