// Copyright 2019 ScyllaDB
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/bits"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/twmb/murmur3"
)

// RandomSeed is the seed string resolved from the OS entropy source.
const RandomSeed = "random"

// Source provides seeds. It reads the OS entropy pool and falls back to a
// time mixed PCG when that is unavailable.
var Source rand.Source

type crandSource struct{}

func (c *crandSource) Uint64() uint64 {
	var out [8]byte
	_, _ = crand.Read(out[:])
	return binary.LittleEndian.Uint64(out[:])
}

type TimeSource struct {
	source rand.Source
}

func NewTimeSource() *TimeSource {
	now := time.Now()
	val := uint64(now.Nanosecond() * now.Second())

	return &TimeSource{
		source: rand.NewPCG(val, val),
	}
}

func (c *TimeSource) Uint64() uint64 {
	now := time.Now()
	val := c.source.Uint64()
	return bits.RotateLeft64(val^uint64(now.Nanosecond()*now.Second()), -int(val>>58))
}

func init() {
	var b [8]byte
	_, err := crand.Read(b[:])
	if err == nil {
		Source = &crandSource{}
	} else {
		Source = NewTimeSource()
	}
}

func RealRandom() uint64 {
	return Source.Uint64()
}

// SeedFromString resolves a user supplied seed: "random" draws a fresh seed,
// decimal numbers are used as is and any other text is hashed.
func SeedFromString(seed string) uint64 {
	seed = strings.TrimSpace(seed)
	if seed == "" || seed == RandomSeed {
		return RealRandom()
	}
	if val, err := strconv.ParseUint(seed, 10, 64); err == nil {
		return val
	}
	return murmur3.StringSum64(seed)
}

// DeriveSeed mixes a base seed with a label so that sibling generators
// configured from one seed draw unrelated sequences.
func DeriveSeed(seed uint64, label string) uint64 {
	return murmur3.SeedStringSum64(seed, label)
}
