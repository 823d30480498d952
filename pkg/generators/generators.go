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

// Package generators defines the sampling contract shared by every
// generator in this module and the uniform adapters that feed them.
//
// Generators are stateful and must not be used from several goroutines at
// once, with the exception of Platform which is backed by a locked engine.
package generators

type (
	// Generator produces one value per call. Implementations never fail:
	// parameters are validated when the generator is constructed.
	Generator[T any] interface {
		Generate() T
	}

	Continuous = Generator[float64]

	// Func adapts a plain function to Generator.
	Func[T any] func() T

	mapped[From, To any] struct {
		dep Generator[From]
		fn  func(From) To
	}
)

func (f Func[T]) Generate() T {
	return f()
}

// Map returns a generator converting every value of dep with fn.
func Map[From, To any](dep Generator[From], fn func(From) To) Generator[To] {
	return mapped[From, To]{dep: dep, fn: fn}
}

func (m mapped[From, To]) Generate() To {
	return m.fn(m.dep.Generate())
}

// Take draws n values from g.
func Take[T any](g Generator[T], n int) []T {
	out := make([]T, n)
	for i := range out {
		out[i] = g.Generate()
	}
	return out
}

// Replay returns the values in order, starting over when exhausted. It is
// meant for feeding transforms with fixed draws.
func Replay[T any](values ...T) Generator[T] {
	idx := 0
	return Func[T](func() T {
		v := values[idx%len(values)]
		idx++
		return v
	})
}
