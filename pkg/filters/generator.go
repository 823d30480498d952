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

package filters

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/scylladb/entropy/pkg/generators"
	"github.com/scylladb/entropy/pkg/metrics"
)

type (
	Option func(*options)

	options struct {
		logger *zap.Logger
		name   string
	}

	// Stats counts what a Generator did since it was built.
	Stats struct {
		Draws         uint64 `json:"draws"`
		Regenerations uint64 `json:"regenerations"`
		Exhausted     uint64 `json:"exhausted"`
	}

	// Generator redraws from its dependency while any filter rejects the
	// candidate, at most attempts times. When the attempts run out the last
	// draw is accepted anyway.
	Generator[T any] struct {
		dep         generators.Generator[T]
		window      *Window[T]
		logger      *zap.Logger
		generated   prometheus.Counter
		exhausted   prometheus.Counter
		name        string
		filters     []Filter[T]
		regenerated []prometheus.Counter
		stats       Stats
		attempts    int
	}
)

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithName labels the generator in logs and metrics.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

func NewGenerator[T any](dep generators.Generator[T], attempts int, filters []Filter[T], opts ...Option) (*Generator[T], error) {
	if dep == nil {
		return nil, errors.New("filtered generator needs a dependency")
	}
	if attempts < 0 {
		return nil, errors.Wrapf(ErrInvalidAttempts, "got %d", attempts)
	}

	o := options{
		logger: zap.NewNop(),
		name:   "default",
	}
	for _, opt := range opts {
		opt(&o)
	}

	g := &Generator[T]{
		dep:       dep,
		attempts:  attempts,
		name:      o.name,
		logger:    o.logger.Named("filters").With(zap.String("generator", o.name)),
		generated: metrics.GeneratedValues.WithLabelValues(o.name),
		exhausted: metrics.FilterExhausted.WithLabelValues(o.name),
	}
	if err := g.SetFilters(filters); err != nil {
		return nil, err
	}

	return g, nil
}

// SetFilters replaces the filters and clears the window.
func (g *Generator[T]) SetFilters(filters []Filter[T]) error {
	capacity := 0
	regenerated := make([]prometheus.Counter, len(filters))
	for i, f := range filters {
		if f == nil {
			return errors.Errorf("filter %d is nil", i)
		}
		capacity = max(capacity, f.RequiredSequenceLength())
		regenerated[i] = metrics.FilterRegenerations.WithLabelValues(g.name, Name(f))
	}

	g.filters = append([]Filter[T](nil), filters...)
	g.regenerated = regenerated
	g.window = NewWindow[T](capacity)
	return nil
}

func (g *Generator[T]) Generate() T {
	v := g.dep.Generate()
	g.stats.Draws++

	for attempt := 0; ; attempt++ {
		idx := g.rejectedBy(v)
		if idx < 0 {
			break
		}
		if attempt >= g.attempts {
			g.stats.Exhausted++
			g.exhausted.Inc()
			g.logger.Debug("regenerate attempts exhausted, accepting value",
				zap.String("filter", Name(g.filters[idx])),
				zap.Int("attempts", g.attempts),
				zap.Any("value", v),
			)
			break
		}
		g.stats.Regenerations++
		g.regenerated[idx].Inc()
		v = g.dep.Generate()
		g.stats.Draws++
	}

	g.window.Push(v)
	g.generated.Inc()
	return v
}

// rejectedBy returns the index of the first filter asking to regenerate v,
// or -1. Filters needing more history than the window holds are skipped.
func (g *Generator[T]) rejectedBy(v T) int {
	for i, f := range g.filters {
		if f.RequiredSequenceLength() > g.window.Len() {
			continue
		}
		if f.NeedRegenerate(g.window, v) {
			return i
		}
	}
	return -1
}

// Window returns the accepted values still in the window, oldest first.
func (g *Generator[T]) Window() []T {
	return g.window.Values()
}

func (g *Generator[T]) Stats() Stats {
	return g.stats
}

func (g *Generator[T]) Name() string {
	return g.name
}
