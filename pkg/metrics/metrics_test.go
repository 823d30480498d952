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

package metrics_test

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/scylladb/entropy/pkg/metrics"
)

func TestExecutionTimeWithError(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	errs := metrics.ExecutionErrors.WithLabelValues("metrics-test")
	before := testutil.ToFloat64(errs)

	assert.NoError(metrics.ExecutionTimeWithError("metrics-test", func() error { return nil }))
	assert.Equal(before, testutil.ToFloat64(errs))

	failure := errors.New("boom")
	assert.ErrorIs(metrics.ExecutionTimeWithError("metrics-test", func() error { return failure }), failure)
	assert.Equal(before+1, testutil.ToFloat64(errs))
}

func TestChannelMetrics(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	ch := metrics.NewChannelMetrics("metrics-test", "queue")
	ch.Inc()
	ch.Inc()
	ch.Dec()

	families, err := metrics.Gatherer().Gather()
	assert.NoError(err)

	found := false
	for _, family := range families {
		assert.True(strings.HasPrefix(family.GetName(), "entropy_"), family.GetName())
		if family.GetName() != "entropy_channel_size" {
			continue
		}
		for _, m := range family.GetMetric() {
			labels := map[string]string{}
			for _, label := range m.GetLabel() {
				labels[label.GetName()] = label.GetValue()
			}
			if labels["type"] == "metrics-test" && labels["context"] == "queue" {
				found = true
				assert.Equal(1.0, m.GetGauge().GetValue())
			}
		}
	}
	assert.True(found)
}
