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

package config

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/scylladb/entropy/pkg/distributions"
	"github.com/scylladb/entropy/pkg/engines"
	"github.com/scylladb/entropy/pkg/filters"
	"github.com/scylladb/entropy/pkg/generators"
	"github.com/scylladb/entropy/pkg/modificators"
	"github.com/scylladb/entropy/pkg/provider"
	"github.com/scylladb/entropy/pkg/random"
)

type (
	Providers map[string]*provider.Provider[generators.Continuous]

	Option func(*builder)

	builder struct {
		logger  *zap.Logger
		seed    uint64
		seedSet bool
		stream  int
	}
)

func WithLogger(logger *zap.Logger) Option {
	return func(b *builder) {
		b.logger = logger
	}
}

// WithSeed overrides the document seed.
func WithSeed(seed uint64) Option {
	return func(b *builder) {
		b.seed = seed
		b.seedSet = true
	}
}

// WithStream marks the providers as sampling stream n. Streams other than 0
// derive explicit node seeds from the stream number so that they do not
// replay stream 0.
func WithStream(n int) Option {
	return func(b *builder) {
		b.stream = n
	}
}

// Build validates every generator of doc and returns a provider per name.
// All invalid generators are reported at once.
func Build(doc *Document, opts ...Option) (Providers, error) {
	b := &builder{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	if !b.seedSet {
		b.seed = random.SeedFromString(doc.Seed)
	}
	b.logger = b.logger.Named("config")

	names := slices.Sorted(maps.Keys(doc.Generators))

	var err error
	out := make(Providers, len(names))
	for _, name := range names {
		raw := doc.Generators[name]
		if _, buildErr := b.build(name, raw); buildErr != nil {
			err = multierr.Append(err, errors.Wrapf(buildErr, "generator %q", name))
			continue
		}
		out[name] = provider.New(func() (generators.Continuous, error) {
			return b.build(name, raw)
		})
	}
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (b *builder) build(path string, raw map[string]any) (generators.Continuous, error) {
	n, err := decodeNode(raw)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}

	var g generators.Continuous
	switch n.Type {
	case KindUniform:
		g, err = b.uniform(path, n)
	case KindPlatform:
		p := RangeParams{Max: 1}
		err = decode(n.Params, &p, false)
		g = generators.Platform(p.Min, p.Max)
	case KindAdd, KindMultiply, KindClamp, KindRound, KindFiltered:
		g, err = b.modificator(path, n)
	default:
		g, err = b.distribution(path, n)
	}
	if err != nil {
		return nil, errors.Wrap(err, path)
	}

	if len(n.Filters) > 0 || n.Type == KindFiltered {
		if g, err = b.filtered(path, g, n); err != nil {
			return nil, errors.Wrap(err, path)
		}
	} else if n.Attempts != 0 {
		return nil, errors.Errorf("%s: attempts without filters", path)
	}

	b.logger.Debug("built generator", zap.String("path", path), zap.String("type", n.Type))
	return g, nil
}

func (b *builder) uniform(path string, n node) (generators.Continuous, error) {
	if n.Source != nil {
		return nil, errors.New("uniform generators do not take a source")
	}
	p := UniformParams{Engine: string(engines.KindXoroshiro128Plus), Max: 1}
	if err := decode(n.Params, &p, false); err != nil {
		return nil, err
	}
	kind, err := engines.ParseKind(p.Engine)
	if err != nil {
		return nil, err
	}
	seed := random.DeriveSeed(b.seed, path)
	if p.Seed != "" {
		seed = random.SeedFromString(p.Seed)
		if b.stream != 0 {
			seed = random.DeriveSeed(seed, "stream-"+strconv.Itoa(b.stream))
		}
	}
	e, err := engines.New(kind, seed)
	if err != nil {
		return nil, err
	}
	return generators.NewUniform(e, p.Min, p.Max), nil
}

// source builds the node's source, or the default engine backed unit
// uniform when there is none.
func (b *builder) source(path string, n node) (generators.Continuous, error) {
	if n.Source == nil {
		e, err := engines.New(engines.KindXoroshiro128Plus, random.DeriveSeed(b.seed, path))
		if err != nil {
			return nil, err
		}
		return generators.NewUnit(e), nil
	}
	return b.build(path+".source", n.Source)
}

func (b *builder) modificator(path string, n node) (generators.Continuous, error) {
	if n.Source == nil {
		return nil, errors.Errorf("%s needs a source", n.Type)
	}
	src, err := b.build(path+".source", n.Source)
	if err != nil {
		return nil, err
	}

	switch n.Type {
	case KindAdd, KindMultiply:
		var p ValueParams
		if err = decode(n.Params, &p, false); err != nil {
			return nil, err
		}
		if n.Type == KindAdd {
			return modificators.Add(src, p.Value), nil
		}
		return modificators.Multiply(src, p.Value), nil
	case KindClamp:
		var p RangeParams
		if err = decode(n.Params, &p, false); err != nil {
			return nil, err
		}
		return modificators.Clamp(src, p.Min, p.Max), nil
	case KindRound:
		if err = decode(n.Params, &struct{}{}, false); err != nil {
			return nil, err
		}
		return modificators.Round(src), nil
	default:
		if err = decode(n.Params, &struct{}{}, false); err != nil {
			return nil, err
		}
		return src, nil
	}
}

func (b *builder) distribution(path string, n node) (generators.Continuous, error) {
	kind, err := distributions.ParseKind(n.Type)
	if err != nil {
		return nil, err
	}
	var p distributions.Params
	if err = decode(n.Params, &p, false); err != nil {
		return nil, err
	}
	src, err := b.source(path, n)
	if err != nil {
		return nil, err
	}
	return distributions.New(kind, p, src)
}

func (b *builder) filtered(path string, g generators.Continuous, n node) (generators.Continuous, error) {
	var err error
	fs := make([]filters.Filter[float64], 0, len(n.Filters))
	for i, raw := range n.Filters {
		f, filterErr := BuildFilter(raw)
		if filterErr != nil {
			err = multierr.Append(err, errors.Wrapf(filterErr, "filter %d", i))
			continue
		}
		fs = append(fs, f)
	}
	if err != nil {
		return nil, err
	}
	return filters.NewGenerator(g, n.Attempts, fs,
		filters.WithLogger(b.logger),
		filters.WithName(path),
	)
}

// BuildFilter builds a float64 filter from its JSON description.
func BuildFilter(raw map[string]any) (filters.Filter[float64], error) {
	var spec FilterSpec
	if err := decode(raw, &spec, false); err != nil {
		return nil, err
	}

	switch strings.ToLower(spec.Type) {
	case "ascendant":
		return filters.Ascendant[float64](spec.Length)
	case "descendant":
		return filters.Descendant[float64](spec.Length)
	case "close":
		return filters.Close(spec.Reference, spec.Distance, spec.Length)
	case "greater":
		return filters.Greater(spec.Threshold, spec.Length)
	case "less":
		return filters.Less(spec.Threshold, spec.Length)
	case "in-range":
		return filters.InRange(spec.Min, spec.Max, spec.Length)
	case "not-in-range":
		return filters.NotInRange(spec.Min, spec.Max, spec.Length)
	case "extreme":
		return filters.Extreme[float64](spec.Mean, spec.Deviation, spec.Length)
	case "frequent-value":
		return filters.FrequentValue[float64](spec.Length, spec.AllowedRepeats)
	case "repeating-pattern":
		return filters.RepeatingPattern[float64](spec.Pattern, spec.Repetitions)
	case "same-pattern":
		return filters.SamePattern[float64](spec.Pattern)
	case "opposite-pattern":
		return filters.OppositePattern[float64](spec.Pattern)
	case "pair":
		return filters.Pair[float64](spec.Length)
	default:
		return nil, errors.Errorf("unsupported filter: %q", spec.Type)
	}
}
