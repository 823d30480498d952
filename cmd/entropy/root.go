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
	"net/http"
	"net/http/pprof"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/scylladb/entropy/pkg/metrics"
	"github.com/scylladb/entropy/pkg/utils"
)

var logger = zap.NewNop()

var rootCmd = &cobra.Command{
	Use:               "entropy",
	Short:             "Entropy samples seeded random engines, distributions and filtered generators.",
	PersistentPreRunE: preRun,
	SilenceUsage:      true,
}

func init() {
	setupFlags(rootCmd)

	rootCmd.AddCommand(Sample())
	rootCmd.AddCommand(Forward())
	rootCmd.AddCommand(Version())
}

func preRun(cmd *cobra.Command, _ []string) error {
	var err error
	if logger, err = createLogger(level, logFile); err != nil {
		return err
	}
	utils.AddFinalizer(func() { _ = logger.Sync() })

	if metricsPort != "" {
		if err = metrics.StartMetricsServer(cmd.Context(), metricsPort, logger); err != nil {
			return err
		}
	}

	if profilingPort != 0 {
		go func() {
			mux := http.NewServeMux()

			mux.HandleFunc("GET /debug/pprof/", pprof.Index)
			mux.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
			mux.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
			mux.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
			mux.HandleFunc("GET /debug/pprof/trace", pprof.Trace)

			if err := http.ListenAndServe("0.0.0.0:"+strconv.Itoa(profilingPort), mux); err != nil {
				logger.Fatal("profiling server failed", zap.Error(err))
			}
		}()
	}

	return nil
}

func createLogger(level, file string) (*zap.Logger, error) {
	lvl := zap.NewAtomicLevel()
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl.SetLevel(zap.InfoLevel)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	encoderCfg.EncodeDuration = zapcore.StringDurationEncoder
	encoderCfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	encoderCfg.EncodeCaller = nil

	syncers := []zapcore.WriteSyncer{zapcore.Lock(os.Stderr)}
	if file != "" {
		w, err := utils.CreateFile(file, nil)
		if err != nil {
			return nil, err
		}
		utils.AddFinalizer(func() { _ = w.Close() })
		syncers = append(syncers, zapcore.Lock(zapcore.AddSync(w)))
	}

	return zap.New(zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.NewMultiWriteSyncer(syncers...),
		lvl,
	)), nil
}
