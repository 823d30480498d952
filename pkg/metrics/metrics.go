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

package metrics

import (
	"context"
	"net"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var registerer = prometheus.NewRegistry()

var (
	ExecutionTime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "execution_time",
			Help:    "Time taken to execute a task.",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2, 5, 10, 20, 50, 100, 200, 500, 1000, 2000, 5000, 10000, 20000, 30000},
		},
		[]string{"task"},
	)

	GeneratedValues = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generated_values",
			Help: "Values accepted by filtered generators.",
		},
		[]string{"generator"},
	)

	FilterRegenerations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filter_regenerations",
			Help: "Draws rejected by a sequence filter.",
		},
		[]string{"generator", "filter"},
	)

	FilterExhausted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filter_exhausted",
			Help: "Values accepted after every regeneration attempt was used.",
		},
		[]string{"generator"},
	)

	EngineForwardSteps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_forward_steps",
		},
		[]string{"engine"},
	)

	SinkBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sink_bytes",
		},
		[]string{"file", "compression"},
	)

	ExecutionErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "execution_errors",
		},
		[]string{"ty"},
	)
)

func init() {
	r := prometheus.WrapRegistererWithPrefix("entropy_", registerer)

	r.MustRegister(channelMetrics, ExecutionTime)

	r.MustRegister(
		GeneratedValues,
		FilterRegenerations,
		FilterExhausted,
		EngineForwardSteps,
		SinkBytes,
		ExecutionErrors,
	)

	r.MustRegister(
		collectors.NewGoCollector(
			collectors.WithGoCollectorRuntimeMetrics(collectors.MetricsAll),
		),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{
			ReportErrors: true,
			PidFn: func() (int, error) {
				return os.Getpid(), nil
			},
		}),
		collectors.NewBuildInfoCollector(),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "go_goroutines_count",
			Help: "Number of goroutines currently active.",
		}, func() float64 {
			return float64(runtime.NumGoroutine())
		}),
	)
}

// Gatherer exposes the registry, mainly for tests.
func Gatherer() prometheus.Gatherer {
	return registerer
}

// StartMetricsServer serves /metrics on bind until ctx is done. It binds
// before returning so that an unusable address is reported to the caller.
func StartMetricsServer(ctx context.Context, bind string, logger *zap.Logger) error {
	listener, err := net.Listen("tcp", bind)
	if err != nil {
		return errors.Wrapf(err, "failed to start metrics server on %s", bind)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.InstrumentMetricHandler(
		registerer, promhttp.HandlerFor(registerer, promhttp.HandlerOpts{
			EnableOpenMetrics: true,
			Registry:          registerer,
			OfferedCompressions: []promhttp.Compression{
				promhttp.Zstd,
				promhttp.Gzip,
				promhttp.Identity,
			},
		}),
	))

	server := &http.Server{
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      1 * time.Minute,
		Handler:           mux,
	}

	logger = logger.Named("metrics")
	logger.Info("serving metrics", zap.Stringer("address", listener.Addr()))

	go func() {
		if serveErr := server.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("metrics server stopped", zap.Error(serveErr))
		}
	}()

	go func() {
		<-ctx.Done()
		if shutdownErr := server.Shutdown(context.Background()); shutdownErr != nil {
			logger.Warn("failed to shut down metrics server", zap.Error(shutdownErr))
		}
	}()

	return nil
}

type RunningTime struct {
	start    time.Time
	observer prometheus.Observer
	task     string
}

func ExecutionTimeStart(task string) RunningTime {
	return RunningTime{
		start:    time.Now(),
		task:     task,
		observer: ExecutionTime.WithLabelValues(task),
	}
}

func (r RunningTime) Record() {
	r.observer.Observe(float64(time.Since(r.start).Microseconds()))
}

// ExecutionTimeWithError times callback in microseconds and counts its
// failure under task.
func ExecutionTimeWithError(task string, callback func() error) error {
	start := time.Now()
	err := callback()
	ExecutionTime.
		WithLabelValues(task).
		Observe(float64(time.Since(start).Nanoseconds()) / 1e3)

	if err != nil {
		ExecutionErrors.WithLabelValues(task).Inc()
	}

	return err
}
