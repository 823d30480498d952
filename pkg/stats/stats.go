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

package stats

import (
	"math"
	"slices"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var ErrNotEnoughSamples = errors.New("not enough samples")

type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	P50    float64 `json:"p50"`
	P99    float64 `json:"p99"`
	Max    float64 `json:"max"`
}

func Summarize(samples []float64) (Summary, error) {
	if len(samples) < 2 {
		return Summary{}, ErrNotEnoughSamples
	}

	sorted := slices.Clone(samples)
	slices.Sort(sorted)

	return Summary{
		Count:  len(samples),
		Mean:   stat.Mean(samples, nil),
		StdDev: stat.StdDev(samples, nil),
		Min:    floats.Min(samples),
		P50:    stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P99:    stat.Quantile(0.99, stat.Empirical, sorted, nil),
		Max:    floats.Max(samples),
	}, nil
}

// Histogram counts samples into bins equal-width bins spanning [min, max).
// Samples outside the range are dropped.
func Histogram(samples []float64, bins int, min, max float64) []float64 {
	counts := make([]float64, bins)
	width := (max - min) / float64(bins)
	for _, v := range samples {
		if v < min || v >= max || math.IsNaN(v) {
			continue
		}
		idx := int((v - min) / width)
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
	}
	return counts
}

// ChiSquare returns Pearson's statistic of the observed counts against the
// expected probabilities and the probability of a statistic at least as
// large under the null hypothesis.
func ChiSquare(observed, probabilities []float64) (statistic, pValue float64, err error) {
	if len(observed) != len(probabilities) {
		return 0, 0, errors.Errorf("observed has %d categories, probabilities %d", len(observed), len(probabilities))
	}
	if len(observed) < 2 {
		return 0, 0, ErrNotEnoughSamples
	}

	total := floats.Sum(observed)
	expected := make([]float64, len(probabilities))
	floats.ScaleTo(expected, total, probabilities)

	statistic = stat.ChiSquare(observed, expected)
	dist := distuv.ChiSquared{K: float64(len(observed) - 1)}

	return statistic, dist.Survival(statistic), nil
}

// UniformChiSquare tests samples against the continuous uniform
// distribution on [min, max).
func UniformChiSquare(samples []float64, bins int, min, max float64) (statistic, pValue float64, err error) {
	if len(samples) < bins*5 {
		return 0, 0, ErrNotEnoughSamples
	}

	probabilities := make([]float64, bins)
	for i := range probabilities {
		probabilities[i] = 1 / float64(bins)
	}

	return ChiSquare(Histogram(samples, bins, min, max), probabilities)
}
