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
	"github.com/spf13/cobra"

	"github.com/scylladb/entropy/pkg/engines"
	"github.com/scylladb/entropy/pkg/sink"
)

var (
	level         string
	metricsPort   string
	profilingPort int
	logFile       string

	generatorsConfig  string
	generatorName     string
	engineKind        string
	seed              string
	count             int
	streams           int
	batchSize         int
	outFileArg        string
	resultFile        string
	compression       string
	summarySamples    int
	maxErrorsToStore  int
	forwardSteps      uint64
	forwardCount      int
	versionJSONOutput bool
)

//nolint:lll
func setupFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(&level, "level", "", "info", "Specify the logging level, debug|info|warn|error|dpanic|panic|fatal")
	cmd.PersistentFlags().
		StringVarP(&logFile, "log-file", "", "", "File to write JSON logs to in addition to stderr")
	cmd.PersistentFlags().
		StringVarP(&metricsPort, "bind", "b", "", "Specify the interface and port which to bind prometheus metrics on, e.g. '0.0.0.0:2112'. Disabled when empty")
	cmd.PersistentFlags().
		IntVarP(&profilingPort, "profiling-port", "", 0, "If non-zero starts pprof profiler on given port at 'http://0.0.0.0:<port>/debug/pprof/'")
}

//nolint:lll
func setupSampleFlags(cmd *cobra.Command) {
	cmd.Flags().
		StringVarP(&generatorsConfig, "generators", "g", "", "Generators JSON document or a path to a file holding one. Inline JSON may use single quotes")
	cmd.Flags().
		StringVarP(&generatorName, "generator", "", "", "Name of the generator to sample, required when the document defines more than one")
	cmd.Flags().
		StringVarP(&engineKind, "engine", "e", string(engines.KindXoroshiro128Plus), "Engine of the unit uniform generator sampled when no --generators are given")
	cmd.Flags().
		StringVarP(&seed, "seed", "s", "random", "Seed value, overrides the document seed when set")
	cmd.Flags().
		IntVarP(&count, "count", "n", 1000, "Number of values to draw per stream")
	cmd.Flags().
		IntVarP(&streams, "streams", "c", 1, "Number of independent streams to draw concurrently")
	cmd.Flags().
		IntVarP(&batchSize, "batch-size", "", 1024, "Number of values handed to the writer at once")
	cmd.Flags().
		StringVarP(&outFileArg, "outfile", "o", "-", "File to write the values to, '-' writes to stdout")
	cmd.Flags().
		StringVarP(&resultFile, "result-file", "", "", "File to write the run summary to, defaults to stdout or to stderr when values go to stdout")
	cmd.Flags().
		StringVarP(&compression, "compression", "", sink.NoCompression.String(), "Compression of the values file, none|gzip|zstd|lz4|snappy")
	cmd.Flags().
		IntVarP(&summarySamples, "summary-samples", "", 100_000, "Maximum number of values per stream kept for the summary")
	cmd.Flags().
		IntVarP(&maxErrorsToStore, "max-errors-to-store", "", 1000, "Maximum number of errors to store and output at the end")
}

func setupForwardFlags(cmd *cobra.Command) {
	cmd.Flags().
		StringVarP(&engineKind, "engine", "e", string(engines.KindXoroshiro128Plus), "Engine to forward")
	cmd.Flags().
		StringVarP(&seed, "seed", "s", "random", "Seed value")
	cmd.Flags().
		Uint64VarP(&forwardSteps, "steps", "", 0, "Number of draws to skip")
	cmd.Flags().
		IntVarP(&forwardCount, "count", "n", 5, "Number of raw 64 bit outputs to print after forwarding")
}
