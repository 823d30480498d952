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
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/scylladb/entropy/pkg/engines"
	"github.com/scylladb/entropy/pkg/metrics"
	"github.com/scylladb/entropy/pkg/random"
)

func Forward() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forward",
		Short: "Skip an engine ahead and print its next raw outputs",
		Long: `Seed an engine, advance it by --steps draws without generating them and
print the next --count raw 64 bit outputs, one per line.`,
		RunE: runForward,
	}

	setupForwardFlags(cmd)

	return cmd
}

func runForward(cmd *cobra.Command, _ []string) error {
	if forwardCount < 0 {
		return errors.Errorf("--count must not be negative, got %d", forwardCount)
	}

	kind, err := engines.ParseKind(engineKind)
	if err != nil {
		return errors.Wrap(err, "failed to parse --engine argument")
	}

	var values []uint64
	err = metrics.ExecutionTimeWithError("forward", func() error {
		values, err = forward(kind, random.SeedFromString(seed), forwardSteps, forwardCount)
		return err
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, v := range values {
		if _, err = fmt.Fprintln(out, strconv.FormatUint(v, 10)); err != nil {
			return err
		}
	}

	return nil
}

func forward(kind engines.Kind, seed, steps uint64, n int) ([]uint64, error) {
	e, err := engines.New(kind, seed)
	if err != nil {
		return nil, err
	}

	e.Forward(steps)
	metrics.EngineForwardSteps.WithLabelValues(string(kind)).Add(float64(steps))

	values := make([]uint64, n)
	for i := range values {
		values[i] = e.Uint64()
	}
	return values, nil
}
