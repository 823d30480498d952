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

// Package modificators post-process the output of a generator with one
// arithmetic operation per call.
package modificators

import (
	"math"

	"golang.org/x/exp/constraints"

	"github.com/scylladb/entropy/pkg/generators"
)

type Number interface {
	constraints.Integer | constraints.Float
}

type (
	add[T Number] struct {
		dep    generators.Generator[T]
		addend T
	}

	multiply[T Number] struct {
		dep    generators.Generator[T]
		factor T
	}

	clamp[T constraints.Ordered] struct {
		dep generators.Generator[T]
		min T
		max T
	}
)

// Add returns dep + addend.
func Add[T Number](dep generators.Generator[T], addend T) generators.Generator[T] {
	return add[T]{dep: dep, addend: addend}
}

func (a add[T]) Generate() T {
	return a.dep.Generate() + a.addend
}

// Multiply returns dep * factor.
func Multiply[T Number](dep generators.Generator[T], factor T) generators.Generator[T] {
	return multiply[T]{dep: dep, factor: factor}
}

func (m multiply[T]) Generate() T {
	return m.dep.Generate() * m.factor
}

// Clamp limits dep to [lo, hi]. Swapped bounds are put back in order.
func Clamp[T constraints.Ordered](dep generators.Generator[T], lo, hi T) generators.Generator[T] {
	if hi < lo {
		lo, hi = hi, lo
	}
	return clamp[T]{dep: dep, min: lo, max: hi}
}

// Generate maps NaN to the lower bound.
func (c clamp[T]) Generate() T {
	v := c.dep.Generate()
	if !(v >= c.min) {
		return c.min
	}
	if v > c.max {
		return c.max
	}
	return v
}

// Round rounds half away from zero.
func Round(dep generators.Continuous) generators.Continuous {
	return generators.Map(dep, math.Round)
}

// RoundToInt rounds like Round and converts to int.
func RoundToInt(dep generators.Continuous) generators.Generator[int] {
	return generators.Map(dep, func(v float64) int {
		return int(math.Round(v))
	})
}
