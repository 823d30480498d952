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

package status

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"github.com/scylladb/entropy/pkg/metrics"
)

type (
	RunError struct {
		Timestamp time.Time `json:"timestamp"`
		Message   string    `json:"message"`
		Stream    int       `json:"stream"`
	}

	// ErrorList keeps the first limit errors reported by the streams.
	ErrorList struct {
		errors []RunError
		mu     sync.Mutex
		limit  int
	}

	// GlobalStatus is shared by every stream of a sampling run.
	GlobalStatus struct {
		Errors        *ErrorList    `json:"errors,omitempty"`
		Values        atomic.Uint64 `json:"values"`
		Regenerations atomic.Uint64 `json:"regenerations"`
		Exhausted     atomic.Uint64 `json:"exhausted"`
		Bytes         atomic.Uint64 `json:"bytes"`
		StreamErrors  atomic.Uint64 `json:"stream_errors"`
	}
)

func NewErrorList(limit int) *ErrorList {
	return &ErrorList{limit: limit, errors: make([]RunError, 0, limit)}
}

func (el *ErrorList) AddError(err RunError) {
	el.mu.Lock()
	defer el.mu.Unlock()

	if len(el.errors) < el.limit {
		el.errors = append(el.errors, err)
	}
}

func (el *ErrorList) Errors() []RunError {
	el.mu.Lock()
	defer el.mu.Unlock()

	return append([]RunError(nil), el.errors...)
}

func (el *ErrorList) Cap() int {
	return el.limit
}

func (el *ErrorList) MarshalJSON() ([]byte, error) {
	return json.Marshal(el.Errors())
}

func NewGlobalStatus(limit int) *GlobalStatus {
	return &GlobalStatus{
		Errors: NewErrorList(limit),
	}
}

func (gs *GlobalStatus) AddStreamError(stream int, err error) {
	gs.StreamErrors.Inc()
	metrics.ExecutionErrors.WithLabelValues("stream").Inc()
	gs.Errors.AddError(RunError{
		Timestamp: time.Now().UTC(),
		Stream:    stream,
		Message:   err.Error(),
	})
}

func (gs *GlobalStatus) HasErrors() bool {
	return gs.StreamErrors.Load() > 0
}

func (gs *GlobalStatus) String() string {
	return fmt.Sprintf("values: %v | regenerations: %v | exhausted: %v | bytes: %v | errors: %v",
		gs.Values.Load(), gs.Regenerations.Load(), gs.Exhausted.Load(), gs.Bytes.Load(), gs.StreamErrors.Load())
}

func (gs *GlobalStatus) PrintResultAsJSON(w io.Writer, version string, summary any, info map[string]any) error {
	result := map[string]any{
		"result":          gs,
		"entropy_version": version,
		"summary":         summary,
		"run":             info,
	}
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent(" ", "    ")
	if err := encoder.Encode(result); err != nil {
		return errors.Wrap(err, "unable to create json from result")
	}

	return nil
}

//nolint:forbidigo
func (gs *GlobalStatus) PrintResult(w io.Writer, version string, summary any, info map[string]any) {
	if err := gs.PrintResultAsJSON(w, version, summary, info); err != nil {
		fmt.Printf("Unable to print result as json, using plain text to stdout, error=%s\n", err)
		fmt.Printf("Entropy version: %s\n", version)
		fmt.Printf("Results: %s\n", gs)
		for i, runErr := range gs.Errors.Errors() {
			fmt.Printf("Error %d: stream %d: %s\n", i, runErr.Stream, runErr.Message)
		}
	}
}
