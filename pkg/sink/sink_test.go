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

package sink_test

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/scylladb/entropy/pkg/metrics"
	"github.com/scylladb/entropy/pkg/sink"
)

var (
	values       = []float64{0, 1, -1.5, 0.1, 1e-300, 123456789.25, 0x1p-1022}
	compressions = []sink.Compression{
		sink.NoCompression,
		sink.ZSTDCompression,
		sink.GZIPCompression,
		sink.LZ4Compression,
		sink.SnappyCompression,
	}
)

func readValues(t *testing.T, compression sink.Compression, data []byte) []float64 {
	t.Helper()

	reader, err := compression.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { require.NoError(t, reader.Close()) }()

	var out []float64
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		v, err := strconv.ParseFloat(scanner.Text(), 64)
		require.NoError(t, err)
		out = append(out, v)
	}
	require.NoError(t, scanner.Err())

	return out
}

func TestWriterRoundTrip(t *testing.T) {
	t.Parallel()

	for _, compression := range compressions {
		t.Run(compression.String(), func(t *testing.T) {
			t.Parallel()
			assert := require.New(t)

			name := filepath.Join(t.TempDir(), "values.txt")
			w, err := sink.New(name, compression, nil)
			assert.NoError(err)

			assert.NoError(w.Write(values[:3]...))
			assert.NoError(w.Write(values[3:]...))
			assert.NoError(w.Close())
			assert.NoError(w.Close())
			assert.ErrorIs(w.Write(1), sink.ErrClosed)

			data, err := os.ReadFile(name)
			assert.NoError(err)

			if diff := cmp.Diff(values, readValues(t, compression, data)); diff != "" {
				t.Errorf("unexpected values (-want +got):\n%s", diff)
			}

			written := w.Written()
			assert.Positive(written)
			assert.Equal(float64(written), testutil.ToFloat64(metrics.SinkBytes.WithLabelValues(name, compression.String())))
		})
	}
}

func TestWriterDefaultOutput(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	var out bytes.Buffer
	w, err := sink.New("-", sink.NoCompression, &out)
	assert.NoError(err)

	assert.NoError(w.Write(0.5, 2))
	assert.Empty(out.String())
	assert.NoError(w.Flush())
	assert.Equal("0.5\n2\n", out.String())
	assert.NoError(w.Close())
	assert.Equal(uint64(6), w.Written())
}

func TestParseCompression(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	for _, c := range compressions {
		parsed, err := sink.ParseCompression(c.String())
		assert.NoError(err)
		assert.Equal(c, parsed)
	}

	assert.Equal(sink.NoCompression, sink.MustParseCompression(""))

	_, err := sink.ParseCompression("brotli")
	assert.Error(err)
	assert.Panics(func() { sink.MustParseCompression("brotli") })
}

func TestNewFailsOnMissingDirectory(t *testing.T) {
	t.Parallel()

	_, err := sink.New(filepath.Join(t.TempDir(), "missing", "values.txt"), sink.NoCompression, nil)
	require.Error(t, err)
}
