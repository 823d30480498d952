// Copyright 2025 ScyllaDB
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/scylladb/entropy/pkg/config"
	"github.com/scylladb/entropy/pkg/filters"
	"github.com/scylladb/entropy/pkg/generators"
	"github.com/scylladb/entropy/pkg/metrics"
	"github.com/scylladb/entropy/pkg/random"
	"github.com/scylladb/entropy/pkg/sink"
	"github.com/scylladb/entropy/pkg/stats"
	"github.com/scylladb/entropy/pkg/status"
	"github.com/scylladb/entropy/pkg/stop"
	"github.com/scylladb/entropy/pkg/utils"
)

const defaultGenerator = "uniform"

var ErrSampleFailed = errors.New("sampling finished with errors")

type (
	filterStats interface {
		Stats() filters.Stats
	}

	drawConfig struct {
		count int
		batch int
		keep  int
	}
)

func Sample() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Draw values from a configured generator",
		Long: `Draw values from one generator of a generators JSON document and write
them one per line. Every stream builds its own generators from a seed derived
from the run seed, so runs with the same seed and stream count are repeatable.`,
		RunE: runSample,
	}

	setupSampleFlags(cmd)

	return cmd
}

//nolint:gocyclo
func runSample(cmd *cobra.Command, _ []string) error {
	if count < 0 {
		return errors.Errorf("--count must not be negative, got %d", count)
	}
	if streams < 1 {
		return errors.Errorf("--streams must be positive, got %d", streams)
	}
	if summarySamples < 0 {
		return errors.Errorf("--summary-samples must not be negative, got %d", summarySamples)
	}
	if batchSize < 1 {
		return errors.Errorf("--batch-size must be positive, got %d", batchSize)
	}

	comp, err := sink.ParseCompression(compression)
	if err != nil {
		return errors.Wrap(err, "failed to parse --compression argument")
	}

	doc, err := loadDocument(generatorsConfig, engineKind)
	if err != nil {
		return err
	}

	name, err := selectGenerator(doc, generatorName)
	if err != nil {
		return err
	}

	baseSeed := runSeed(doc, seed, cmd.Flags().Changed("seed"))
	gens, err := buildStreams(doc, name, baseSeed, streams, logger)
	if err != nil {
		return err
	}

	w, err := sink.New(outFileArg, comp, os.Stdout)
	if err != nil {
		return err
	}

	stopFlag := stop.NewFlag("sample")
	stopFlag.SetLogger(logger)
	stop.StartOsSignalsTransmitter(logger, stopFlag)

	logger.Info("sampling",
		zap.String("generator", name),
		zap.Uint64("seed", baseSeed),
		zap.Int("streams", streams),
		zap.Int("count", count),
		zap.String("outfile", outFileArg),
		zap.Stringer("compression", comp),
	)

	timer := metrics.ExecutionTimeStart("sample")
	start := time.Now()
	gs := status.NewGlobalStatus(maxErrorsToStore)
	ctx := stopFlag.CancelContextOnSignal(cmd.Context(), stop.SignalHardStop)
	kept := draw(ctx, stopFlag, gs, w, name, gens, drawConfig{
		count: count,
		batch: batchSize,
		keep:  summarySamples,
	})
	timer.Record()

	if err = w.Close(); err != nil {
		gs.AddStreamError(-1, err)
	}
	gs.Bytes.Store(w.Written())

	logger.Info("sampling finished",
		zap.Duration("took", time.Since(start)),
		zap.Stringer("status", gs),
		zap.String("stop", stopState(stopFlag)),
	)

	var summary any
	if s, summaryErr := stats.Summarize(kept); summaryErr == nil {
		summary = s
	}

	out, err := resultWriter(resultFile, outFileArg)
	if err != nil {
		return err
	}
	defer utils.IgnoreError(out.Close)

	gs.PrintResult(out, version, summary, map[string]any{
		"generator":   name,
		"seed":        strconv.FormatUint(baseSeed, 10),
		"streams":     streams,
		"count":       count,
		"outfile":     outFileArg,
		"compression": comp.String(),
		"stop":        stopState(stopFlag),
	})

	if gs.HasErrors() {
		return ErrSampleFailed
	}

	return nil
}

// draw runs one producer per stream and a single writer. It returns up to
// cfg.keep values of every stream.
func draw(
	ctx context.Context,
	stopFlag *stop.Flag,
	gs *status.GlobalStatus,
	w *sink.Writer,
	name string,
	gens []generators.Continuous,
	cfg drawConfig,
) []float64 {
	batches := make(chan []float64, 2*len(gens))
	channel := metrics.NewChannelMetrics("sample", name)
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		failed := false
		for batch := range batches {
			channel.Dec()
			if failed {
				continue
			}
			if err := w.Write(batch...); err != nil {
				failed = true
				gs.AddStreamError(-1, err)
				stopFlag.SetSoft(false)
			}
		}
	}()

	kept := make([][]float64, len(gens))
	g, gctx := errgroup.WithContext(ctx)
	for i, gen := range gens {
		g.Go(func() error {
			kept[i] = make([]float64, 0, min(cfg.count, cfg.keep))
			for drawn := 0; drawn < cfg.count && !stopFlag.IsHardOrSoft(); {
				batch := generators.Take(gen, min(cfg.batch, cfg.count-drawn))
				drawn += len(batch)
				gs.Values.Add(uint64(len(batch)))

				if room := cfg.keep - len(kept[i]); room > 0 {
					kept[i] = append(kept[i], batch[:min(room, len(batch))]...)
				}

				channel.Inc()
				select {
				case batches <- batch:
				case <-gctx.Done():
					channel.Dec()
					return gctx.Err()
				}
			}

			if f, ok := gen.(filterStats); ok {
				s := f.Stats()
				gs.Regenerations.Add(s.Regenerations)
				gs.Exhausted.Add(s.Exhausted)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		gs.AddStreamError(-1, err)
	}
	close(batches)
	<-writerDone

	return slices.Concat(kept...)
}

// loadDocument parses value, or describes a single unit uniform generator
// over engine when value is empty.
func loadDocument(value, engine string) (*config.Document, error) {
	if value != "" {
		return config.Load(value)
	}

	return &config.Document{
		Generators: map[string]map[string]any{
			defaultGenerator: {
				"type":   config.KindUniform,
				"engine": engine,
			},
		},
	}, nil
}

func selectGenerator(doc *config.Document, name string) (string, error) {
	names := slices.Sorted(maps.Keys(doc.Generators))
	switch {
	case name != "":
		if _, ok := doc.Generators[name]; !ok {
			return "", errors.Errorf("unknown generator %q, configured: %s", name, strings.Join(names, ", "))
		}
		return name, nil
	case len(names) == 1:
		return names[0], nil
	default:
		return "", errors.Errorf("--generator is required, configured: %s", strings.Join(names, ", "))
	}
}

// runSeed resolves the run seed. An explicitly set flag wins over the
// document seed.
func runSeed(doc *config.Document, flagValue string, flagSet bool) uint64 {
	if flagSet || doc.Seed == "" {
		return random.SeedFromString(flagValue)
	}
	return random.SeedFromString(doc.Seed)
}

// streamSeed keeps stream 0 on the run seed so a single stream run matches
// a plain build of the document.
func streamSeed(base uint64, stream int) uint64 {
	if stream == 0 {
		return base
	}
	return random.DeriveSeed(base, "stream-"+strconv.Itoa(stream))
}

func buildStreams(doc *config.Document, name string, base uint64, n int, logger *zap.Logger) ([]generators.Continuous, error) {
	gens := make([]generators.Continuous, 0, n)
	for i := range n {
		providers, err := config.Build(doc,
			config.WithSeed(streamSeed(base, i)),
			config.WithStream(i),
			config.WithLogger(logger),
		)
		if err != nil {
			return nil, err
		}
		g, err := providers[name].New()
		if err != nil {
			return nil, errors.Wrapf(err, "stream %d", i)
		}
		gens = append(gens, g)
	}
	return gens, nil
}

func resultWriter(name, valuesFile string) (io.WriteCloser, error) {
	if name != "" {
		return utils.CreateFile(name, os.Stdout)
	}
	if valuesFile == "" || valuesFile == "-" {
		return utils.CreateFile("-", os.Stderr)
	}
	return utils.CreateFile("-", os.Stdout)
}

func stopState(flag *stop.Flag) string {
	switch {
	case flag.IsHard():
		return stop.GetStateName(stop.SignalHardStop)
	case flag.IsSoft():
		return stop.GetStateName(stop.SignalSoftStop)
	default:
		return stop.GetStateName(stop.SignalNoop)
	}
}
