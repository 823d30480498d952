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

package generators

import (
	"math/rand/v2"

	"github.com/scylladb/entropy/pkg/engines"
	"github.com/scylladb/entropy/pkg/random"
)

type (
	// Uniform draws from [Min, Max) using an engine.
	Uniform struct {
		engine engines.Engine
		min    float64
		max    float64
	}

	UniformInt struct {
		engine engines.Engine
		min    int
		max    int
	}

	UniformBool struct {
		engine engines.Engine
	}

	source struct {
		rnd *rand.Rand
		min float64
		max float64
	}

	platform struct {
		min float64
		max float64
	}
)

var (
	_ Continuous      = (*Uniform)(nil)
	_ Generator[int]  = (*UniformInt)(nil)
	_ Generator[bool] = (*UniformBool)(nil)
	_ Continuous      = (*source)(nil)
	_ Continuous      = platform{}
)

func NewUniform(engine engines.Engine, min, max float64) *Uniform {
	return &Uniform{engine: engine, min: min, max: max}
}

// NewUnit returns a uniform generator on [0, 1), the entropy source
// expected by the distribution transforms.
func NewUnit(engine engines.Engine) *Uniform {
	return NewUniform(engine, 0, 1)
}

func (u *Uniform) Generate() float64 {
	f := u.engine.Float64()
	if u.min == 0 && u.max == 1 {
		return f
	}
	return u.min + (u.max-u.min)*f
}

func (u *Uniform) Engine() engines.Engine {
	return u.engine
}

// NewUniformInt draws from [min, max).
func NewUniformInt(engine engines.Engine, min, max int) *UniformInt {
	return &UniformInt{engine: engine, min: min, max: max}
}

func (u *UniformInt) Generate() int {
	return u.engine.IntRange(u.min, u.max)
}

func NewUniformBool(engine engines.Engine) *UniformBool {
	return &UniformBool{engine: engine}
}

func (u *UniformBool) Generate() bool {
	return u.engine.Bool()
}

// FromSource draws from [min, max) using any math/rand/v2 source, such as
// rand.NewPCG or rand.NewChaCha8.
func FromSource(src rand.Source, min, max float64) Continuous {
	return &source{rnd: rand.New(src), min: min, max: max}
}

func (s *source) Generate() float64 {
	return s.min + (s.max-s.min)*s.rnd.Float64()
}

// Platform draws from [min, max) using the process wide generator. It is
// the only generator safe for concurrent use.
func Platform(min, max float64) Continuous {
	return platform{min: min, max: max}
}

func (p platform) Generate() float64 {
	return p.min + (p.max-p.min)*random.Global().Float64()
}
