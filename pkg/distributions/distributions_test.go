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

package distributions_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scylladb/entropy/pkg/distributions"
	"github.com/scylladb/entropy/pkg/engines"
	"github.com/scylladb/entropy/pkg/generators"
	"github.com/scylladb/entropy/pkg/stats"
)

type counting struct {
	dep   generators.Continuous
	calls int
}

func (c *counting) Generate() float64 {
	c.calls++
	return c.dep.Generate()
}

func replay(values ...float64) *counting {
	return &counting{dep: generators.Replay(values...)}
}

func unit(t *testing.T, seed uint64) *generators.Uniform {
	t.Helper()
	e, err := engines.New(engines.KindXoroshiro128Plus, seed)
	require.NoError(t, err)
	return generators.NewUnit(e)
}

func summarize(t *testing.T, g generators.Continuous, n int) stats.Summary {
	t.Helper()
	s, err := stats.Summarize(generators.Take(g, n))
	require.NoError(t, err)
	return s
}

func TestBoxMullerSparesSecondValue(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	src := replay(0.25, 0.125)
	g, err := distributions.NewNormalBoxMuller(src, 1, 2)
	assert.NoError(err)

	r := math.Sqrt(-2 * math.Log(0.25))
	first := g.Generate()
	second := g.Generate()
	assert.Equal(2, src.calls)
	assert.InDelta(1+2*r*math.Cos(math.Pi/4), first, 1e-12)
	assert.InDelta(1+2*r*math.Sin(math.Pi/4), second, 1e-12)

	g.Generate()
	assert.Equal(4, src.calls)
}

func TestBoxMullerRejectsZero(t *testing.T) {
	t.Parallel()

	src := replay(0, 0.5, 0.5)
	z0, z1 := distributions.BoxMuller(src)
	r := math.Sqrt(-2 * math.Log(0.5))
	require.Equal(t, 3, src.calls)
	require.InDelta(t, -r, z0, 1e-12)
	require.InDelta(t, 0, z1, 1e-12)
}

func TestMarsagliaPolar(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	// (0.99, 0.99) maps outside the unit circle and is rejected.
	src := replay(0.99, 0.99, 0.6, 0.8)
	g, err := distributions.NewNormalMarsaglia(src, 0, 1)
	assert.NoError(err)

	s := 0.2*0.2 + 0.6*0.6
	f := math.Sqrt(-2 * math.Log(s) / s)
	assert.InDelta(0.2*f, g.Generate(), 1e-12)
	assert.Equal(4, src.calls)
	assert.InDelta(0.6*f, g.Generate(), 1e-12)
	assert.Equal(4, src.calls)

	g.Reset()
	g.Generate()
	assert.Equal(8, src.calls)
}

func TestMarsagliaRejectsOrigin(t *testing.T) {
	t.Parallel()

	src := replay(0.5, 0.5, 0.75, 0.5)
	z0, z1 := distributions.MarsagliaPolar(src)
	require.Equal(t, 4, src.calls)
	require.InDelta(t, 0.5*math.Sqrt(-2*math.Log(0.25)/0.25), z0, 1e-12)
	require.InDelta(t, 0, z1, 1e-12)
}

func TestNormalMoments(t *testing.T) {
	t.Parallel()

	box, err := distributions.NewNormalBoxMuller(unit(t, 1), 10, 3)
	require.NoError(t, err)
	polar, err := distributions.NewNormalMarsaglia(unit(t, 2), 10, 3)
	require.NoError(t, err)
	bates, err := distributions.NewBates(unit(t, 3), 10, 3, 12)
	require.NoError(t, err)

	for name, g := range map[string]generators.Continuous{"box-muller": box, "marsaglia": polar, "bates": bates} {
		s := summarize(t, g, 200_000)
		require.InDelta(t, 10, s.Mean, 0.05, name)
		require.InDelta(t, 3, s.StdDev, 0.05, name)
	}
}

func TestIrwinHallAndBates(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	assert.InDelta(2, distributions.IrwinHall(replay(0.5), 4), 1e-12)
	assert.InDelta(0.5, distributions.Bates(replay(0.25, 0.75), 2), 1e-12)
	assert.Panics(func() { distributions.Bates(replay(0.5), 0) })

	g, err := distributions.NewIrwinHall(unit(t, 4), 6)
	assert.NoError(err)
	s := summarize(t, g, 100_000)
	assert.InDelta(3, s.Mean, 0.02)
	assert.GreaterOrEqual(s.Min, 0.0)
	assert.LessOrEqual(s.Max, 6.0)
}

func TestExponential(t *testing.T) {
	t.Parallel()

	require.InDelta(t, 0.5, distributions.Exponential(replay(math.Exp(-1)), 2), 1e-12)

	g, err := distributions.NewExponential(unit(t, 5), 2)
	require.NoError(t, err)
	s := summarize(t, g, 100_000)
	require.InDelta(t, 0.5, s.Mean, 0.01)
	require.GreaterOrEqual(t, s.Min, 0.0)
}

func TestExtremeValueAndWeibull(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	assert.InDelta(3, distributions.ExtremeValue(replay(math.Exp(-1)), 3, 2), 1e-12)
	assert.InDelta(4, distributions.Weibull(replay(1-math.Exp(-1)), 4, 1.5), 1e-9)
	assert.Equal(0.0, distributions.Weibull(replay(0), 4, 1.5))

	gumbel, err := distributions.NewExtremeValue(unit(t, 6), 0, 1)
	assert.NoError(err)
	s := summarize(t, gumbel, 100_000)
	assert.InDelta(0.5772156649, s.Mean, 0.02)

	weibull, err := distributions.NewWeibull(unit(t, 7), 2, 1)
	assert.NoError(err)
	s = summarize(t, weibull, 100_000)
	assert.InDelta(2, s.Mean, 0.04)
}

func TestBinomial(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	src := unit(t, 8)
	assert.Equal(0, distributions.Binomial(src, 0, 10))
	assert.Equal(10, distributions.Binomial(src, 1, 10))
	assert.Equal(0, distributions.Binomial(src, 0.5, 0))

	g, err := distributions.NewBinomial(src, 0.3, 10)
	assert.NoError(err)
	var sum float64
	for range 100_000 {
		v := g.Generate()
		assert.True(v >= 0 && v <= 10, "out of range: %d", v)
		sum += float64(v)
	}
	assert.InDelta(3, sum/100_000, 0.03)

	// probabilities close to one must still stay within the bound
	high, err := distributions.NewBinomial(src, 0.999999, 5)
	assert.NoError(err)
	for range 10_000 {
		v := high.Generate()
		assert.True(v >= 0 && v <= 5, "out of range: %d", v)
	}
}

func TestGeometric(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	assert.Equal(0, distributions.Geometric(replay(0.3), 1))
	// ln(0.25) / ln(0.5) = 2
	assert.Equal(2, distributions.Geometric(replay(0.25), 0.5))
	assert.Panics(func() { distributions.Geometric(replay(0.5), 0) })

	// the failure count of a tiny probability saturates instead of wrapping
	assert.Equal(math.MaxInt, distributions.Geometric(replay(0.5), 1e-20))
	tiny, err := distributions.NewGeometric(unit(t, 3), 1e-20)
	assert.NoError(err)
	for range 1000 {
		assert.GreaterOrEqual(tiny.Generate(), 0)
	}

	g, err := distributions.NewGeometric(unit(t, 9), 0.25)
	assert.NoError(err)
	var sum float64
	for range 100_000 {
		v := g.Generate()
		assert.GreaterOrEqual(v, 0)
		sum += float64(v)
	}
	assert.InDelta(3, sum/100_000, 0.06)
}

func TestBernoulli(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	assert.True(distributions.Bernoulli(replay(0.3), 0.5))
	assert.False(distributions.Bernoulli(replay(0.5), 0.5))
	assert.False(distributions.Bernoulli(replay(0), 0))
	assert.True(distributions.Bernoulli(replay(0.999), 1))

	g, err := distributions.NewBernoulli(unit(t, 10), 0.2)
	assert.NoError(err)
	trues := 0
	for range 100_000 {
		if g.Generate() {
			trues++
		}
	}
	assert.InDelta(20_000, trues, 600)
}

func TestWeightedSetup(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	setup, err := distributions.NewWeightedSetup([]float64{1, 0, 0})
	assert.NoError(err)
	src := unit(t, 11)
	for range 10_000 {
		assert.Equal(0, setup.Index(src))
	}

	setup, err = distributions.NewWeightedSetup([]float64{0, 0, 1})
	assert.NoError(err)
	assert.Equal(2, setup.Index(replay(0)))
	assert.Equal(2, setup.Index(replay(math.Nextafter(1, 0))))

	setup, err = distributions.NewWeightedSetup([]float64{1, 3, 0, 4})
	assert.NoError(err)
	assert.Equal(4, setup.Len())
	assert.InDelta(8, setup.Sum(), 1e-12)
	assert.InDelta(0.375, setup.Probability(1), 1e-12)
	assert.InDelta(0, setup.Probability(2), 1e-12)
	assert.Equal(0, setup.Index(replay(0)))
	assert.Equal(1, setup.Index(replay(0.125)))
	assert.Equal(3, setup.Index(replay(0.5)))
}

func TestWeightedSetupErrors(t *testing.T) {
	t.Parallel()

	tests := map[string][]float64{
		"empty":    nil,
		"negative": {1, -1},
		"nan":      {math.NaN()},
		"inf":      {math.Inf(1)},
		"zero":     {0, 0},
		"overflow": {1e308, 1e308},
	}
	for name, weights := range tests {
		_, err := distributions.NewWeightedSetup(weights)
		require.Error(t, err, name)
	}

	_, err := distributions.NewWeightedSetup(nil)
	require.ErrorIs(t, err, distributions.ErrEmptyWeights)
	_, err = distributions.NewWeightedSetup([]float64{0})
	require.ErrorIs(t, err, distributions.ErrInvalidParameter)
	_, err = distributions.NewWeightedSetup([]float64{1e308, 1e308})
	require.ErrorIs(t, err, distributions.ErrInvalidParameter)
}

func TestWeightedFrequencies(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	weights := []float64{1, 2, 3, 4}
	g, err := distributions.NewWeighted(unit(t, 12), []string{"a", "b", "c", "d"}, weights)
	assert.NoError(err)

	index := map[string]int{"a": 0, "b": 1, "c": 2, "d": 3}
	observed := make([]float64, 4)
	for range 100_000 {
		observed[index[g.Generate()]]++
	}
	_, pValue, err := stats.ChiSquare(observed, []float64{0.1, 0.2, 0.3, 0.4})
	assert.NoError(err)
	assert.Greater(pValue, 1e-4)

	_, err = distributions.NewWeighted(unit(t, 12), []string{"a"}, weights)
	assert.ErrorIs(err, distributions.ErrWeightsMismatch)

	assert.ErrorIs(g.SetWeights([]float64{1}), distributions.ErrWeightsMismatch)
	assert.NoError(g.SetWeights([]float64{0, 0, 0, 1}))
	for range 100 {
		assert.Equal("d", g.Generate())
	}
}

func TestWeightedIndex(t *testing.T) {
	t.Parallel()

	g, err := distributions.NewWeightedIndex(unit(t, 13), []float64{0, 5, 0})
	require.NoError(t, err)
	for range 1000 {
		require.Equal(t, 1, g.Generate())
	}
}

func TestInvalidParameters(t *testing.T) {
	t.Parallel()
	assert := require.New(t)
	src := unit(t, 14)

	_, err := distributions.NewNormalBoxMuller(src, 0, -1)
	assert.ErrorIs(err, distributions.ErrInvalidParameter)
	_, err = distributions.NewNormalMarsaglia(src, math.NaN(), 1)
	assert.ErrorIs(err, distributions.ErrInvalidParameter)
	_, err = distributions.NewBates(src, 0, 1, 0)
	assert.ErrorIs(err, distributions.ErrInvalidIIDs)
	_, err = distributions.NewIrwinHall(src, -2)
	assert.ErrorIs(err, distributions.ErrInvalidIIDs)
	_, err = distributions.NewExponential(src, 0)
	assert.ErrorIs(err, distributions.ErrInvalidParameter)
	_, err = distributions.NewExtremeValue(src, 0, 0)
	assert.ErrorIs(err, distributions.ErrInvalidParameter)
	_, err = distributions.NewWeibull(src, 1, -1)
	assert.ErrorIs(err, distributions.ErrInvalidParameter)
	_, err = distributions.NewBinomial(src, 1.5, 3)
	assert.ErrorIs(err, distributions.ErrInvalidProbability)
	_, err = distributions.NewBinomial(src, 0.5, -3)
	assert.ErrorIs(err, distributions.ErrInvalidParameter)
	_, err = distributions.NewGeometric(src, 0)
	assert.ErrorIs(err, distributions.ErrInvalidProbability)
	_, err = distributions.NewBernoulli(src, -0.1)
	assert.ErrorIs(err, distributions.ErrInvalidProbability)
}

func TestReferenceDistributions(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	e, err := engines.New(engines.KindXorShift64, 15)
	assert.NoError(err)

	lognormal, err := distributions.NewLogNormal(e, 0, 0.5)
	assert.NoError(err)
	gamma, err := distributions.NewGamma(e, 2, 4)
	assert.NoError(err)
	beta, err := distributions.NewBeta(e, 2, 5)
	assert.NoError(err)
	zipf, err := distributions.NewZipf(e, 1.5, 1, 100)
	assert.NoError(err)

	s := summarize(t, lognormal, 50_000)
	assert.Greater(s.Min, 0.0)
	assert.InDelta(math.Exp(0.125), s.Mean, 0.02)

	s = summarize(t, gamma, 50_000)
	assert.Greater(s.Min, 0.0)
	assert.InDelta(0.5, s.Mean, 0.02)

	s = summarize(t, beta, 50_000)
	assert.GreaterOrEqual(s.Min, 0.0)
	assert.LessOrEqual(s.Max, 1.0)
	assert.InDelta(2.0/7, s.Mean, 0.01)

	s = summarize(t, zipf, 50_000)
	assert.GreaterOrEqual(s.Min, 0.0)
	assert.LessOrEqual(s.Max, 100.0)

	_, err = distributions.NewLogNormal(e, 0, 0)
	assert.ErrorIs(err, distributions.ErrInvalidParameter)
	_, err = distributions.NewGamma(e, 0, 1)
	assert.ErrorIs(err, distributions.ErrInvalidParameter)
	_, err = distributions.NewZipf(e, 1, 1, 10)
	assert.ErrorIs(err, distributions.ErrInvalidParameter)
}

func TestNew(t *testing.T) {
	t.Parallel()

	params := distributions.Params{
		Mean:        1,
		Deviation:   2,
		IIDs:        4,
		Lambda:      1,
		Location:    0,
		Scale:       1,
		Shape:       2,
		Probability: 0.4,
		UpperBound:  8,
		Alpha:       2,
		Beta:        3,
		Values:      []float64{1, 2, 3},
		Weights:     []float64{1, 1, 1},
	}

	for _, kind := range distributions.Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			t.Parallel()

			g, err := distributions.New(kind, params, unit(t, 16))
			require.NoError(t, err)
			for range 1000 {
				v := g.Generate()
				require.False(t, math.IsNaN(v) || math.IsInf(v, 0), "got %v", v)
			}
		})
	}

	g, err := distributions.New(distributions.KindBates, distributions.Params{}, unit(t, 17))
	require.ErrorIs(t, err, distributions.ErrInvalidIIDs)
	require.Nil(t, g)

	_, err = distributions.New("cauchy", params, unit(t, 17))
	require.Error(t, err)
}

func TestNewDiscreteKinds(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	g, err := distributions.New(distributions.KindBernoulli, distributions.Params{Probability: 1}, unit(t, 18))
	assert.NoError(err)
	assert.Equal(1.0, g.Generate())

	g, err = distributions.New(distributions.KindBinomial, distributions.Params{Probability: 1, UpperBound: 7}, unit(t, 18))
	assert.NoError(err)
	assert.Equal(7.0, g.Generate())
}

func TestParseKind(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	for _, kind := range distributions.Kinds() {
		parsed, err := distributions.ParseKind(string(kind))
		assert.NoError(err)
		assert.Equal(kind, parsed)
	}

	parsed, err := distributions.ParseKind("Normal")
	assert.NoError(err)
	assert.Equal(distributions.KindNormalMarsaglia, parsed)

	parsed, err = distributions.ParseKind("gumbel")
	assert.NoError(err)
	assert.Equal(distributions.KindExtremeValue, parsed)

	_, err = distributions.ParseKind("cauchy")
	assert.Error(err)
}

func TestFloatSourceDrivesReference(t *testing.T) {
	t.Parallel()

	src := generators.FromSource(mustEngine(t), 0, 1)
	g, err := distributions.New(distributions.KindGamma, distributions.Params{Alpha: 3, Beta: 1}, src)
	require.NoError(t, err)
	s := summarize(t, g, 50_000)
	require.InDelta(t, 3, s.Mean, 0.05)
}

func mustEngine(t *testing.T) engines.Engine {
	t.Helper()
	e, err := engines.New(engines.KindLCG64, 19)
	require.NoError(t, err)
	return e
}
