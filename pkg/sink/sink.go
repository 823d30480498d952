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

package sink

import (
	"io"
	"strconv"
	"sync"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/scylladb/entropy/pkg/metrics"
	"github.com/scylladb/entropy/pkg/utils"
)

const bufioWriterSize = 8192 * 4

var ErrClosed = errors.New("sink is closed")

type (
	flusher interface {
		io.Writer
		Flush() error
	}

	// Writer streams generated values as text, one value per line,
	// optionally compressed. It is safe for concurrent use.
	Writer struct {
		file    io.WriteCloser
		comp    io.Closer
		writer  flusher
		bytes   prometheus.Counter
		buf     []byte
		written uint64
		mu      sync.Mutex
		closed  bool
	}
)

// New opens name for writing. An empty name or "-" writes to def, which is
// left open on Close.
func New(name string, compression Compression, def io.Writer) (*Writer, error) {
	file, err := utils.CreateFile(name, def)
	if err != nil {
		return nil, err
	}

	writer, comp, err := compression.newWriter(file)
	if err != nil {
		_ = file.Close()
		return nil, errors.Wrapf(err, "failed to set up %s compression", compression)
	}

	label := name
	if label == "" {
		label = "-"
	}

	return &Writer{
		buf:    make([]byte, 0, 64),
		file:   file,
		comp:   comp,
		writer: writer,
		bytes:  metrics.SinkBytes.WithLabelValues(label, compression.String()),
	}, nil
}

// Write appends values in the shortest form that parses back to the same
// float64.
func (w *Writer) Write(values ...float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}

	for _, v := range values {
		w.buf = strconv.AppendFloat(w.buf[:0], v, 'g', -1, 64)
		w.buf = append(w.buf, '\n')

		n, err := w.writer.Write(w.buf)
		w.written += uint64(n)
		w.bytes.Add(float64(n))
		if err != nil {
			return errors.Wrap(err, "failed to write value")
		}
	}

	return nil
}

// Written returns the number of uncompressed bytes accepted so far.
func (w *Writer) Written() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.written
}

func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	return w.writer.Flush()
}

// Close flushes buffered data, finishes the compressed stream and closes the
// underlying file. Calling it more than once is a no-op.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	var err error
	if flushErr := w.writer.Flush(); flushErr != nil {
		err = errors.Wrap(flushErr, "failed to flush sink")
	}
	if w.comp != nil {
		if closeErr := w.comp.Close(); closeErr != nil && err == nil {
			err = errors.Wrap(closeErr, "failed to finish compressed stream")
		}
	}
	if closeErr := w.file.Close(); closeErr != nil && err == nil {
		err = errors.Wrap(closeErr, "failed to close sink file")
	}

	return err
}
