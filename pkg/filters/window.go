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

// Window keeps the last Cap() accepted values of a generator in a ring
// buffer. The zero capacity window stores nothing.
type Window[T any] struct {
	buf  []T
	head int
	size int
}

func NewWindow[T any](capacity int) *Window[T] {
	return &Window[T]{buf: make([]T, max(capacity, 0))}
}

// Push appends v, overwriting the oldest value when the window is full.
func (w *Window[T]) Push(v T) {
	if len(w.buf) == 0 {
		return
	}
	w.buf[w.head] = v
	w.head = (w.head + 1) % len(w.buf)
	if w.size < len(w.buf) {
		w.size++
	}
}

func (w *Window[T]) Len() int {
	return w.size
}

func (w *Window[T]) Cap() int {
	return len(w.buf)
}

// Last returns the k-th newest value, Last(0) being the most recent one.
// It panics when k is outside [0, Len()).
func (w *Window[T]) Last(k int) T {
	if k < 0 || k >= w.size {
		panic("filters: window index out of range")
	}
	idx := w.head - 1 - k
	if idx < 0 {
		idx += len(w.buf)
	}
	return w.buf[idx]
}

// Values returns a copy of the stored values, oldest first.
func (w *Window[T]) Values() []T {
	out := make([]T, w.size)
	for i := range out {
		out[i] = w.Last(w.size - 1 - i)
	}
	return out
}

func (w *Window[T]) Reset() {
	clear(w.buf)
	w.head = 0
	w.size = 0
}
