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
	"math/rand/v2"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat/distuv"
)

type (
	// Reference wraps a gonum distribution drawing its bits from an engine.
	Reference struct {
		dist interface{ Rand() float64 }
	}

	ZipfGenerator struct {
		zipf *rand.Zipf
	}

	// floatBits turns a [0, 1) generator into a bit source. Only the top 53
	// bits of each value carry entropy.
	floatBits struct {
		src Source
	}
)

// bitSource returns the engine behind src when there is one.
func bitSource(src Source) rand.Source {
	if e, ok := src.(engineBacked); ok {
		return e.Engine()
	}
	return floatBits{src: src}
}

func (f floatBits) Uint64() uint64 {
	return uint64(f.src.Generate() * 0x1p64)
}

func (r *Reference) Generate() float64 {
	return r.dist.Rand()
}

// NewLogNormal returns exp(N(mu, sigma)).
func NewLogNormal(src rand.Source, mu, sigma float64) (*Reference, error) {
	if math.IsNaN(mu) || math.IsInf(mu, 0) {
		return nil, errors.Wrapf(ErrInvalidParameter, "mu must be finite, got %v", mu)
	}
	if err := checkPositive("sigma", sigma); err != nil {
		return nil, err
	}
	return &Reference{dist: distuv.LogNormal{Mu: mu, Sigma: sigma, Src: src}}, nil
}

// NewGamma returns a gamma distribution with shape alpha and rate beta.
func NewGamma(src rand.Source, alpha, beta float64) (*Reference, error) {
	if err := checkPositive("alpha", alpha); err != nil {
		return nil, err
	}
	if err := checkPositive("beta", beta); err != nil {
		return nil, err
	}
	return &Reference{dist: distuv.Gamma{Alpha: alpha, Beta: beta, Src: src}}, nil
}

func NewBeta(src rand.Source, alpha, beta float64) (*Reference, error) {
	if err := checkPositive("alpha", alpha); err != nil {
		return nil, err
	}
	if err := checkPositive("beta", beta); err != nil {
		return nil, err
	}
	return &Reference{dist: distuv.Beta{Alpha: alpha, Beta: beta, Src: src}}, nil
}

// NewZipf returns values in [0, imax] with P(k) proportional to (v+k)^-s.
func NewZipf(src rand.Source, s, v float64, imax uint64) (*ZipfGenerator, error) {
	if math.IsNaN(s) || s <= 1 {
		return nil, errors.Wrapf(ErrInvalidParameter, "zipf exponent must be greater than 1, got %v", s)
	}
	if math.IsNaN(v) || v < 1 {
		return nil, errors.Wrapf(ErrInvalidParameter, "zipf offset must be at least 1, got %v", v)
	}
	return &ZipfGenerator{zipf: rand.NewZipf(rand.New(src), s, v, imax)}, nil
}

func (z *ZipfGenerator) Generate() float64 {
	return float64(z.zipf.Uint64())
}
