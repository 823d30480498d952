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

// Package distributions turns uniform draws into samples of other
// distributions.
//
// Every transform is a plain function of a Source, so any generator can
// feed any other: a normal generator may draw its entropy from an engine
// backed uniform, from math/rand/v2 or from the output of a third
// distribution. Sources are expected to return values in [0, 1).
//
// The functions panic on arguments that make the transform meaningless
// (e.g. zero iids), the same way math/rand does. The generator
// constructors validate their parameters and return an error instead.
package distributions

import (
	"math"
	"strings"

	"github.com/pkg/errors"

	"github.com/scylladb/entropy/pkg/engines"
	"github.com/scylladb/entropy/pkg/generators"
)

// Source supplies iid draws in [0, 1).
type Source = generators.Continuous

// MinNormal is the smallest positive normal float64. Draws below it are
// rejected by transforms that take their logarithm.
const MinNormal = 0x1p-1022

var (
	ErrInvalidParameter   = errors.New("invalid distribution parameter")
	ErrInvalidIIDs        = errors.New("iids must be positive")
	ErrInvalidProbability = errors.New("probability must be within [0, 1]")
	ErrEmptyWeights       = errors.New("weights must not be empty")
	ErrWeightsMismatch    = errors.New("values and weights lengths differ")
)

type (
	Kind string

	// Params is the union of the parameters of every Kind. Each kind reads
	// only the fields it documents.
	Params struct {
		Mean        float64   `mapstructure:"mean" json:"mean,omitempty"`
		Deviation   float64   `mapstructure:"deviation" json:"deviation,omitempty"`
		IIDs        int       `mapstructure:"iids" json:"iids,omitempty"`
		Lambda      float64   `mapstructure:"lambda" json:"lambda,omitempty"`
		Location    float64   `mapstructure:"location" json:"location,omitempty"`
		Scale       float64   `mapstructure:"scale" json:"scale,omitempty"`
		Shape       float64   `mapstructure:"shape" json:"shape,omitempty"`
		Probability float64   `mapstructure:"probability" json:"probability,omitempty"`
		UpperBound  int       `mapstructure:"upper_bound" json:"upper_bound,omitempty"`
		Alpha       float64   `mapstructure:"alpha" json:"alpha,omitempty"`
		Beta        float64   `mapstructure:"beta" json:"beta,omitempty"`
		Values      []float64 `mapstructure:"values" json:"values,omitempty"`
		Weights     []float64 `mapstructure:"weights" json:"weights,omitempty"`
	}
)

const (
	KindNormalBoxMuller Kind = "normal-box-muller"
	KindNormalMarsaglia Kind = "normal-marsaglia"
	KindBates           Kind = "bates"
	KindIrwinHall       Kind = "irwin-hall"
	KindExponential     Kind = "exponential"
	KindExtremeValue    Kind = "extreme-value"
	KindWeibull         Kind = "weibull"
	KindBinomial        Kind = "binomial"
	KindGeometric       Kind = "geometric"
	KindBernoulli       Kind = "bernoulli"
	KindWeighted        Kind = "weighted"
	KindLogNormal       Kind = "lognormal"
	KindGamma           Kind = "gamma"
	KindBeta            Kind = "beta"
	KindZipf            Kind = "zipf"
)

func Kinds() []Kind {
	return []Kind{
		KindNormalBoxMuller, KindNormalMarsaglia, KindBates, KindIrwinHall,
		KindExponential, KindExtremeValue, KindWeibull, KindBinomial,
		KindGeometric, KindBernoulli, KindWeighted, KindLogNormal,
		KindGamma, KindBeta, KindZipf,
	}
}

func ParseKind(value string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(value)))
	switch k {
	case "normal":
		return KindNormalMarsaglia, nil
	case "gumbel":
		return KindExtremeValue, nil
	}
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", errors.Errorf("unsupported distribution: %s", value)
}

// New builds a generator of the given kind drawing from src. Discrete
// kinds are converted to float64 so that every kind can be composed and
// post-processed the same way.
func New(kind Kind, params Params, src Source) (generators.Continuous, error) {
	switch kind {
	case KindNormalBoxMuller:
		return continuous(NewNormalBoxMuller(src, params.Mean, params.Deviation))
	case KindNormalMarsaglia:
		return continuous(NewNormalMarsaglia(src, params.Mean, params.Deviation))
	case KindBates:
		return continuous(NewBates(src, params.Mean, params.Deviation, params.IIDs))
	case KindIrwinHall:
		return continuous(NewIrwinHall(src, params.IIDs))
	case KindExponential:
		return continuous(NewExponential(src, params.Lambda))
	case KindExtremeValue:
		return continuous(NewExtremeValue(src, params.Location, params.Scale))
	case KindWeibull:
		return continuous(NewWeibull(src, params.Scale, params.Shape))
	case KindBinomial:
		g, err := NewBinomial(src, params.Probability, params.UpperBound)
		if err != nil {
			return nil, err
		}
		return generators.Map[int](g, toFloat), nil
	case KindGeometric:
		g, err := NewGeometric(src, params.Probability)
		if err != nil {
			return nil, err
		}
		return generators.Map[int](g, toFloat), nil
	case KindBernoulli:
		g, err := NewBernoulli(src, params.Probability)
		if err != nil {
			return nil, err
		}
		return generators.Map[bool](g, func(v bool) float64 {
			if v {
				return 1
			}
			return 0
		}), nil
	case KindWeighted:
		return continuous(NewWeighted(src, params.Values, params.Weights))
	case KindLogNormal:
		return continuous(NewLogNormal(bitSource(src), params.Mean, params.Deviation))
	case KindGamma:
		return continuous(NewGamma(bitSource(src), params.Alpha, params.Beta))
	case KindBeta:
		return continuous(NewBeta(bitSource(src), params.Alpha, params.Beta))
	case KindZipf:
		if params.UpperBound < 0 {
			return nil, errors.Wrapf(ErrInvalidParameter, "upper bound must not be negative, got %d", params.UpperBound)
		}
		return continuous(NewZipf(bitSource(src), params.Shape, max(params.Scale, 1), uint64(params.UpperBound)))
	default:
		return nil, errors.Errorf("unsupported distribution: %s", kind)
	}
}

// continuous drops the typed nil a failed constructor returns.
func continuous(g generators.Continuous, err error) (generators.Continuous, error) {
	if err != nil {
		return nil, err
	}
	return g, nil
}

func toFloat(v int) float64 {
	return float64(v)
}

// positive draws from src until the value is large enough for its
// logarithm to be finite.
func positive(src Source) float64 {
	for {
		if u := src.Generate(); u >= MinNormal {
			return u
		}
	}
}

// positiveComplement returns 1-u for a draw u, redrawing until the result
// is large enough for its logarithm to be finite.
func positiveComplement(src Source) float64 {
	for {
		if c := 1 - src.Generate(); c >= MinNormal {
			return c
		}
	}
}

func checkProbability(p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return errors.Wrapf(ErrInvalidProbability, "got %v", p)
	}
	return nil
}

func checkPositive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return errors.Wrapf(ErrInvalidParameter, "%s must be positive, got %v", name, v)
	}
	return nil
}

func checkNonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return errors.Wrapf(ErrInvalidParameter, "%s must not be negative, got %v", name, v)
	}
	return nil
}

// engineBacked is implemented by uniform generators that expose the engine
// behind them.
type engineBacked interface {
	Engine() engines.Engine
}
