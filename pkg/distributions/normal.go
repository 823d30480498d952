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
	"github.com/samber/mo"
)

type (
	// pairedNormal caches the second value produced by a polar transform and
	// hands it out on the next call.
	pairedNormal struct {
		src       Source
		transform func(Source) (float64, float64)
		spared    mo.Option[float64]
		mean      float64
		deviation float64
	}

	NormalBoxMuller struct {
		pairedNormal
	}

	NormalMarsaglia struct {
		pairedNormal
	}
)

// BoxMuller returns two independent standard normal values computed from
// two draws of src.
func BoxMuller(src Source) (float64, float64) {
	u1 := positive(src)
	u2 := src.Generate()
	r := math.Sqrt(-2 * math.Log(u1))
	sin, cos := math.Sincos(2 * math.Pi * u2)
	return r * cos, r * sin
}

// MarsagliaPolar returns two independent standard normal values. Pairs of
// draws falling outside the unit circle are rejected.
func MarsagliaPolar(src Source) (float64, float64) {
	for {
		u := 2*src.Generate() - 1
		v := 2*src.Generate() - 1
		s := u*u + v*v
		if s >= 1 || s < MinNormal {
			continue
		}
		f := math.Sqrt(-2 * math.Log(s) / s)
		return u * f, v * f
	}
}

func newPairedNormal(src Source, transform func(Source) (float64, float64), mean, deviation float64) (pairedNormal, error) {
	if math.IsNaN(mean) || math.IsInf(mean, 0) {
		return pairedNormal{}, errors.Wrapf(ErrInvalidParameter, "mean must be finite, got %v", mean)
	}
	if err := checkNonNegative("deviation", deviation); err != nil {
		return pairedNormal{}, err
	}
	return pairedNormal{
		src:       src,
		transform: transform,
		mean:      mean,
		deviation: deviation,
	}, nil
}

func NewNormalBoxMuller(src Source, mean, deviation float64) (*NormalBoxMuller, error) {
	p, err := newPairedNormal(src, BoxMuller, mean, deviation)
	if err != nil {
		return nil, err
	}
	return &NormalBoxMuller{pairedNormal: p}, nil
}

func NewNormalMarsaglia(src Source, mean, deviation float64) (*NormalMarsaglia, error) {
	p, err := newPairedNormal(src, MarsagliaPolar, mean, deviation)
	if err != nil {
		return nil, err
	}
	return &NormalMarsaglia{pairedNormal: p}, nil
}

// Generate returns the spared value of the previous transform if there is
// one, otherwise it runs the transform and spares its second value.
func (n *pairedNormal) Generate() float64 {
	if z, ok := n.spared.Get(); ok {
		n.spared = mo.None[float64]()
		return n.mean + n.deviation*z
	}
	z0, z1 := n.transform(n.src)
	n.spared = mo.Some(z1)
	return n.mean + n.deviation*z0
}

// Reset drops the spared value so the next call consumes fresh draws.
func (n *pairedNormal) Reset() {
	n.spared = mo.None[float64]()
}

func (n *pairedNormal) Mean() float64 {
	return n.mean
}

func (n *pairedNormal) Deviation() float64 {
	return n.deviation
}
