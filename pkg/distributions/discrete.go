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

	"github.com/pkg/errors"
)

type (
	BinomialGenerator struct {
		src        Source
		p          float64
		upperBound int
	}

	GeometricGenerator struct {
		src Source
		p   float64
	}

	BernoulliGenerator struct {
		src Source
		p   float64
	}
)

// Binomial returns the number of successes in upperBound trials of
// probability p using Devroye's second waiting time method. The result is
// always within [0, upperBound].
func Binomial(src Source, p float64, upperBound int) int {
	if upperBound <= 0 || p <= 0 {
		return 0
	}
	if p >= 1 {
		return upperBound
	}
	q := -math.Log1p(-p)
	var sum float64
	x := 0
	for x < upperBound {
		sum += -math.Log(positiveComplement(src)) / float64(upperBound-x)
		if sum > q {
			break
		}
		x++
	}
	return x
}

// Geometric returns the number of failures before the first success of a
// trial with probability p. p must be positive. Results beyond the int
// range saturate at math.MaxInt.
func Geometric(src Source, p float64) int {
	if p <= 0 {
		panic("distributions: Geometric with non-positive probability")
	}
	if p >= 1 {
		return 0
	}
	f := math.Floor(math.Log(positive(src)) / math.Log1p(-p))
	if f >= math.MaxInt {
		return math.MaxInt
	}
	return int(f)
}

// Bernoulli returns true with probability p.
func Bernoulli(src Source, p float64) bool {
	return src.Generate() < p
}

func NewBinomial(src Source, p float64, upperBound int) (*BinomialGenerator, error) {
	if err := checkProbability(p); err != nil {
		return nil, err
	}
	if upperBound < 0 {
		return nil, errors.Wrapf(ErrInvalidParameter, "upper bound must not be negative, got %d", upperBound)
	}
	return &BinomialGenerator{src: src, p: p, upperBound: upperBound}, nil
}

func (g *BinomialGenerator) Generate() int {
	return Binomial(g.src, g.p, g.upperBound)
}

func NewGeometric(src Source, p float64) (*GeometricGenerator, error) {
	if err := checkProbability(p); err != nil {
		return nil, err
	}
	if p == 0 {
		return nil, errors.Wrap(ErrInvalidProbability, "geometric probability must be positive")
	}
	return &GeometricGenerator{src: src, p: p}, nil
}

func (g *GeometricGenerator) Generate() int {
	return Geometric(g.src, g.p)
}

func NewBernoulli(src Source, p float64) (*BernoulliGenerator, error) {
	if err := checkProbability(p); err != nil {
		return nil, err
	}
	return &BernoulliGenerator{src: src, p: p}, nil
}

func (g *BernoulliGenerator) Generate() bool {
	return Bernoulli(g.src, g.p)
}
