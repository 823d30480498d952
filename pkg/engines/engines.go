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

// Package engines implements small-state pseudo-random bit generators.
//
// Every engine mutates its state in place and is not safe for concurrent
// use. Copying an engine value copies its state, so a copy continues the
// same sequence independently of the original.
//
// A step is a single state transition. 64-bit engines consume one step per
// call of any method. 32-bit engines consume one step per call, except
// Uint64 which consumes two. Forward(n) advances the engine by n steps
// without producing the intermediate outputs.
//
// Floating point outputs are always in the half-open interval [0, 1).
// Callers taking logarithms must reject 0 themselves.
package engines

import (
	"math/bits"
	"math/rand/v2"
	"strings"

	"github.com/pkg/errors"
)

// ErrZeroSeed is returned by constructors of xor based engines when the
// initial state is all zero. Such a state is a fixed point of the
// transition and would produce zeros forever.
var ErrZeroSeed = errors.New("engine state must not be all zero")

type Engine interface {
	rand.Source

	Uint32() uint32
	Float32() float32
	Float64() float64
	Bool() bool
	// IntRange returns a value in [min, max). It returns min when max <= min.
	IntRange(min, max int) int
	Forward(steps uint64)
	// Clone returns an independent copy positioned at the same state.
	Clone() Engine
}

type Kind string

const (
	KindXorShift32       Kind = "xorshift32"
	KindXorShift64       Kind = "xorshift64"
	KindXoroshiro128Plus Kind = "xoroshiro128+"
	KindLCG32            Kind = "lcg32"
	KindLCG64            Kind = "lcg64"
)

var _ = []Engine{
	(*XorShift32)(nil),
	(*XorShift64)(nil),
	(*Xoroshiro128Plus)(nil),
	(*LCG32)(nil),
	(*LCG64)(nil),
}

func Kinds() []Kind {
	return []Kind{KindXorShift32, KindXorShift64, KindXoroshiro128Plus, KindLCG32, KindLCG64}
}

func ParseKind(value string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(value))); k {
	case KindXorShift32, KindXorShift64, KindXoroshiro128Plus, KindLCG32, KindLCG64:
		return k, nil
	case "xoroshiro", "xoroshiro128plus":
		return KindXoroshiro128Plus, nil
	default:
		return "", errors.Errorf("unsupported engine: %s", value)
	}
}

// New creates an engine of the given kind. The 64-bit seed is expanded with
// splitmix64, so any seed (including zero) yields a usable state.
func New(kind Kind, seed uint64) (Engine, error) {
	mix := seed

	switch kind {
	case KindXorShift32:
		state := uint32(nonZero(&mix))
		for state == 0 {
			state = uint32(nonZero(&mix))
		}
		return NewXorShift32(state)
	case KindXorShift64:
		return NewXorShift64(nonZero(&mix))
	case KindXoroshiro128Plus:
		return NewXoroshiro128Plus(splitmix64(&mix), splitmix64(&mix))
	case KindLCG32:
		return NewLCG32(uint32(splitmix64(&mix))), nil
	case KindLCG64:
		return NewLCG64(splitmix64(&mix)), nil
	default:
		return nil, errors.Errorf("unsupported engine: %s", kind)
	}
}

// Split returns n clones of e, the i-th forwarded by i*stride steps. The
// clones produce non-overlapping sequences as long as each one draws fewer
// than stride steps. e itself is left untouched.
func Split(e Engine, n int, stride uint64) []Engine {
	out := make([]Engine, 0, n)
	for i := range n {
		clone := e.Clone()
		clone.Forward(uint64(i) * stride)
		out = append(out, clone)
	}
	return out
}

// http://xoshiro.di.unimi.it/splitmix64.c
func splitmix64(state *uint64) uint64 {
	*state += 0x9e3779b97f4a7c15
	z := *state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

func nonZero(state *uint64) uint64 {
	for {
		if v := splitmix64(state); v != 0 {
			return v
		}
	}
}

func float64From53(v uint64) float64 {
	return float64(v>>11) * 0x1p-53
}

func float64From32(v uint32) float64 {
	return float64(v) * 0x1p-32
}

func float32From24(v uint32) float32 {
	return float32(v>>8) * 0x1p-24
}

func intRange(min, max int, next func() uint64) int {
	if max <= min {
		return min
	}
	span := uint64(max - min)
	return min + int(multiplyHigh(next(), span))
}

// multiplyHigh maps v uniformly onto [0, n) using the upper half of the
// 128-bit product.
func multiplyHigh(v, n uint64) uint64 {
	hi, _ := bits.Mul64(v, n)
	return hi
}
