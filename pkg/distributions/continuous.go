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
	ExponentialGenerator struct {
		src    Source
		lambda float64
	}

	ExtremeValueGenerator struct {
		src      Source
		location float64
		scale    float64
	}

	WeibullGenerator struct {
		src   Source
		scale float64
		shape float64
	}
)

// Exponential returns an exponentially distributed value with rate lambda.
func Exponential(src Source, lambda float64) float64 {
	return -math.Log(positive(src)) / lambda
}

// ExtremeValue returns a Gumbel (type I extreme value) distributed value.
func ExtremeValue(src Source, location, scale float64) float64 {
	return location - scale*math.Log(-math.Log(positive(src)))
}

// Weibull returns a Weibull distributed value.
func Weibull(src Source, scale, shape float64) float64 {
	return scale * math.Pow(-math.Log(positiveComplement(src)), 1/shape)
}

func NewExponential(src Source, lambda float64) (*ExponentialGenerator, error) {
	if err := checkPositive("lambda", lambda); err != nil {
		return nil, err
	}
	return &ExponentialGenerator{src: src, lambda: lambda}, nil
}

func (g *ExponentialGenerator) Generate() float64 {
	return Exponential(g.src, g.lambda)
}

func NewExtremeValue(src Source, location, scale float64) (*ExtremeValueGenerator, error) {
	if math.IsNaN(location) || math.IsInf(location, 0) {
		return nil, errors.Wrapf(ErrInvalidParameter, "location must be finite, got %v", location)
	}
	if err := checkPositive("scale", scale); err != nil {
		return nil, err
	}
	return &ExtremeValueGenerator{src: src, location: location, scale: scale}, nil
}

func (g *ExtremeValueGenerator) Generate() float64 {
	return ExtremeValue(g.src, g.location, g.scale)
}

func NewWeibull(src Source, scale, shape float64) (*WeibullGenerator, error) {
	if err := checkPositive("scale", scale); err != nil {
		return nil, err
	}
	if err := checkPositive("shape", shape); err != nil {
		return nil, err
	}
	return &WeibullGenerator{src: src, scale: scale, shape: shape}, nil
}

func (g *WeibullGenerator) Generate() float64 {
	return Weibull(g.src, g.scale, g.shape)
}
