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
	IrwinHallGenerator struct {
		src  Source
		iids int
	}

	// BatesGenerator rescales the Bates mean so that the output has the
	// requested mean and standard deviation.
	BatesGenerator struct {
		src       Source
		iids      int
		mean      float64
		deviation float64
		scale     float64
	}
)

// IrwinHall returns the sum of iids draws of src.
func IrwinHall(src Source, iids int) float64 {
	if iids <= 0 {
		panic("distributions: IrwinHall with non-positive iids")
	}
	var sum float64
	for range iids {
		sum += src.Generate()
	}
	return sum
}

// Bates returns the mean of iids draws of src.
func Bates(src Source, iids int) float64 {
	if iids <= 0 {
		panic("distributions: Bates with non-positive iids")
	}
	return IrwinHall(src, iids) / float64(iids)
}

func NewIrwinHall(src Source, iids int) (*IrwinHallGenerator, error) {
	if iids <= 0 {
		return nil, errors.Wrapf(ErrInvalidIIDs, "got %d", iids)
	}
	return &IrwinHallGenerator{src: src, iids: iids}, nil
}

func (g *IrwinHallGenerator) Generate() float64 {
	return IrwinHall(g.src, g.iids)
}

// NewBates returns a generator of mean + deviation*z where z is the Bates
// value centred and scaled to unit variance.
func NewBates(src Source, mean, deviation float64, iids int) (*BatesGenerator, error) {
	if iids <= 0 {
		return nil, errors.Wrapf(ErrInvalidIIDs, "got %d", iids)
	}
	if math.IsNaN(mean) || math.IsInf(mean, 0) {
		return nil, errors.Wrapf(ErrInvalidParameter, "mean must be finite, got %v", mean)
	}
	if err := checkNonNegative("deviation", deviation); err != nil {
		return nil, err
	}
	return &BatesGenerator{
		src:       src,
		iids:      iids,
		mean:      mean,
		deviation: deviation,
		scale:     math.Sqrt(12 * float64(iids)),
	}, nil
}

func (g *BatesGenerator) Generate() float64 {
	return g.mean + g.deviation*(Bates(g.src, g.iids)-0.5)*g.scale
}
