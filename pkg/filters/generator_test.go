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

package filters_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/scylladb/entropy/pkg/engines"
	"github.com/scylladb/entropy/pkg/filters"
	"github.com/scylladb/entropy/pkg/generators"
	"github.com/scylladb/entropy/pkg/metrics"
)

func positiveFilter(t *testing.T) []filters.Filter[float64] {
	t.Helper()
	f, err := filters.Greater(0.0, 0)
	require.NoError(t, err)
	return []filters.Filter[float64]{f}
}

func TestGeneratorZeroAttemptsAcceptsFirstDraw(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	g, err := filters.NewGenerator(generators.Replay(5.0, -1), 0, positiveFilter(t))
	assert.NoError(err)

	assert.Equal(5.0, g.Generate())
	assert.Equal(filters.Stats{Draws: 1, Exhausted: 1}, g.Stats())
	assert.Equal(-1.0, g.Generate())
	assert.Equal(filters.Stats{Draws: 2, Exhausted: 1}, g.Stats())
}

func TestGeneratorRegenerates(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	g, err := filters.NewGenerator(generators.Replay(5.0, 6, -1), 3, positiveFilter(t))
	assert.NoError(err)

	assert.Equal(-1.0, g.Generate())
	assert.Equal(-1.0, g.Generate())
	assert.Equal(filters.Stats{Draws: 6, Regenerations: 4}, g.Stats())
}

func TestGeneratorFailsOpen(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	core, logs := observer.New(zapcore.DebugLevel)
	g, err := filters.NewGenerator(
		generators.Replay(5.0),
		3,
		positiveFilter(t),
		filters.WithLogger(zap.New(core)),
		filters.WithName("fails-open"),
	)
	assert.NoError(err)

	assert.Equal(5.0, g.Generate())
	assert.Equal(filters.Stats{Draws: 4, Regenerations: 3, Exhausted: 1}, g.Stats())

	entries := logs.FilterMessage("regenerate attempts exhausted, accepting value").All()
	assert.Len(entries, 1)
	assert.Equal("greater", entries[0].ContextMap()["filter"])
	assert.Equal("fails-open", entries[0].ContextMap()["generator"])

	assert.InDelta(1, testutil.ToFloat64(metrics.FilterExhausted.WithLabelValues("fails-open")), 0)
	assert.InDelta(3, testutil.ToFloat64(metrics.FilterRegenerations.WithLabelValues("fails-open", "greater")), 0)
	assert.InDelta(1, testutil.ToFloat64(metrics.GeneratedValues.WithLabelValues("fails-open")), 0)
}

func TestGeneratorSkipsFiltersUntilWindowFills(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	asc, err := filters.Ascendant[int](3)
	assert.NoError(err)

	g, err := filters.NewGenerator(generators.Replay(1, 2, 3, 4, 0), 5, []filters.Filter[int]{asc})
	assert.NoError(err)

	assert.Equal([]int{1, 2, 3, 0}, generators.Take[int](g, 4))
	assert.Equal([]int{2, 3, 0}, g.Window())
	assert.Equal(uint64(1), g.Stats().Regenerations)
}

func TestGeneratorSetFiltersClearsWindow(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	g, err := filters.NewGenerator(generators.Replay(1, 2, 3), 1, nil)
	assert.NoError(err)
	generators.Take[int](g, 3)
	assert.Empty(g.Window())

	pair, err := filters.Pair[int](2)
	assert.NoError(err)
	assert.NoError(g.SetFilters([]filters.Filter[int]{pair}))
	assert.Empty(g.Window())

	generators.Take[int](g, 3)
	assert.Equal([]int{2, 3}, g.Window())

	assert.Error(g.SetFilters([]filters.Filter[int]{nil}))
}

func TestGeneratorInvalid(t *testing.T) {
	t.Parallel()

	_, err := filters.NewGenerator[int](nil, 1, nil)
	require.Error(t, err)

	_, err = filters.NewGenerator(generators.Replay(1), -1, nil)
	require.ErrorIs(t, err, filters.ErrInvalidAttempts)
}

func TestGeneratorAvoidsFrequentValues(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	e, err := engines.New(engines.KindXorShift32, 99)
	assert.NoError(err)

	frequent, err := filters.FrequentValue[int](2, 1)
	assert.NoError(err)

	g, err := filters.NewGenerator[int](
		generators.NewUniformInt(e, 0, 3),
		100,
		[]filters.Filter[int]{frequent},
		filters.WithName("frequent"),
	)
	assert.NoError(err)

	values := generators.Take[int](g, 10_000)
	for i := 2; i < len(values); i++ {
		assert.NotEqual(values[i-1], values[i], "index %d", i)
		assert.NotEqual(values[i-2], values[i], "index %d", i)
	}
	assert.Zero(g.Stats().Exhausted)
}
