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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestXoroshiroJumpPolynomials(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	table := xoroshiro128PlusJumps()
	pow64 := table[63].mul(table[63])
	pow96 := pow64
	for range 32 {
		pow96 = pow96.mul(pow96)
	}

	x, err := NewXoroshiro128Plus(0x0123456789abcdef, 0x0fedcba987654321)
	assert.NoError(err)

	want := pow64.apply([]uint64{x.s0, x.s1})
	x.Jump()
	assert.Equal([]uint64{0xecff9730102440cd, 0x195965a302361209}, want)
	assert.Equal(want, []uint64{x.s0, x.s1})

	want = pow96.apply([]uint64{x.s0, x.s1})
	x.LongJump()
	assert.Equal(want, []uint64{x.s0, x.s1})
}

func TestTransitionMatrix(t *testing.T) {
	t.Parallel()

	m := transition(64, func(s []uint64) {
		s[0] = xorShift64Step(s[0])
	})

	for _, v := range []uint64{1, 0xdeadbeef, 1 << 63, 0x5555555555555555} {
		require.Equal(t, xorShift64Step(v), m.apply([]uint64{v})[0])
	}
}

func TestAdvanceLCG(t *testing.T) {
	t.Parallel()

	state := uint64(42)
	for range 1000 {
		state = state*lcg64Multiplier + lcg64Increment
	}
	require.Equal(t, state, advanceLCG(42, 1000, lcg64Multiplier, lcg64Increment))
	require.Equal(t, uint64(42), advanceLCG(42, 0, lcg64Multiplier, lcg64Increment))
}
