// Copyright 2019 ScyllaDB
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

package distributions

import (
	"math"
	"sort"

	"github.com/pkg/errors"
)

type (
	// WeightedSetup holds the cumulative weights of a discrete distribution.
	// It is immutable: changing the weights means building a new setup.
	WeightedSetup struct {
		cumulative []float64
		sum        float64
		last       int
	}

	// Weighted picks values with probability proportional to their weight.
	Weighted[T any] struct {
		src    Source
		values []T
		setup  WeightedSetup
	}
)

// NewWeightedSetup validates weights and precomputes their cumulative sums.
// Weights must be finite and non-negative with a positive total.
func NewWeightedSetup(weights []float64) (WeightedSetup, error) {
	if len(weights) == 0 {
		return WeightedSetup{}, ErrEmptyWeights
	}
	cumulative := make([]float64, len(weights))
	var sum float64
	last := -1
	for i, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return WeightedSetup{}, errors.Wrapf(ErrInvalidParameter, "weight %d is %v", i, w)
		}
		if w > 0 {
			last = i
		}
		sum += w
		cumulative[i] = sum
	}
	if last < 0 {
		return WeightedSetup{}, errors.Wrap(ErrInvalidParameter, "weights sum to zero")
	}
	if math.IsInf(sum, 0) {
		return WeightedSetup{}, errors.Wrap(ErrInvalidParameter, "weights sum overflows")
	}
	return WeightedSetup{cumulative: cumulative, sum: sum, last: last}, nil
}

func (w WeightedSetup) Len() int {
	return len(w.cumulative)
}

func (w WeightedSetup) Sum() float64 {
	return w.sum
}

// Probability returns the chance of drawing index i.
func (w WeightedSetup) Probability(i int) float64 {
	prev := 0.0
	if i > 0 {
		prev = w.cumulative[i-1]
	}
	return (w.cumulative[i] - prev) / w.sum
}

// Index draws an index. Indices with zero weight are never returned.
func (w WeightedSetup) Index(src Source) int {
	target := src.Generate() * w.sum
	idx := sort.Search(len(w.cumulative), func(i int) bool {
		return w.cumulative[i] > target
	})
	if idx >= len(w.cumulative) {
		return w.last
	}
	return idx
}

func NewWeighted[T any](src Source, values []T, weights []float64) (*Weighted[T], error) {
	if len(values) != len(weights) {
		return nil, errors.Wrapf(ErrWeightsMismatch, "%d values, %d weights", len(values), len(weights))
	}
	setup, err := NewWeightedSetup(weights)
	if err != nil {
		return nil, err
	}
	return &Weighted[T]{src: src, values: values, setup: setup}, nil
}

// NewWeightedIndex returns a generator of indices into weights.
func NewWeightedIndex(src Source, weights []float64) (*Weighted[int], error) {
	values := make([]int, len(weights))
	for i := range values {
		values[i] = i
	}
	return NewWeighted(src, values, weights)
}

func (w *Weighted[T]) Generate() T {
	return w.values[w.setup.Index(w.src)]
}

// SetWeights replaces the weights, keeping the current ones on error.
func (w *Weighted[T]) SetWeights(weights []float64) error {
	if len(weights) != len(w.values) {
		return errors.Wrapf(ErrWeightsMismatch, "%d values, %d weights", len(w.values), len(weights))
	}
	setup, err := NewWeightedSetup(weights)
	if err != nil {
		return err
	}
	w.setup = setup
	return nil
}

func (w *Weighted[T]) Setup() WeightedSetup {
	return w.setup
}
