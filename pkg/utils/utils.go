// Copyright 2019 ScyllaDB
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

package utils

import (
	"io"
	"os"
	"strings"
	"sync"
	"unsafe"

	"github.com/pkg/errors"
)

// SingleToDoubleQuoteReplacer lets JSON be passed on the command line
// without escaping.
var SingleToDoubleQuoteReplacer = strings.NewReplacer("'", "\"")

var (
	finalizers   []func()
	finalizersMu sync.Mutex
)

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}

func IgnoreError(fn func() error) {
	_ = fn()
}

// IsFile reports whether path names an existing regular file.
func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func UnsafeBytes(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// CreateFile opens name for writing, truncating it. An empty name or "-"
// returns def, which is never closed.
func CreateFile(name string, def io.Writer) (io.WriteCloser, error) {
	switch name {
	case "", "-":
		return nopCloser{Writer: def}, nil
	}
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create %s", name)
	}
	return f, nil
}

// AddFinalizer registers f to run once on ExecuteFinalizers. Finalizers run
// in reverse order of registration, like deferred calls.
func AddFinalizer(f func()) {
	finalizersMu.Lock()
	defer finalizersMu.Unlock()

	finalizers = append(finalizers, sync.OnceFunc(f))
}

func ExecuteFinalizers() {
	finalizersMu.Lock()
	defer finalizersMu.Unlock()

	for i := len(finalizers) - 1; i >= 0; i-- {
		finalizers[i]()
	}
}
