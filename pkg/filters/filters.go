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

// Package filters rejects draws that would extend an unwanted run or
// pattern in the recent output of a generator.
//
// A Filter only inspects the window of previously accepted values and the
// candidate, it holds no state of its own. Generator owns the window and
// redraws while any filter asks for it, up to a fixed number of attempts.
package filters

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

var (
	ErrInvalidLength   = errors.New("invalid sequence length")
	ErrInvalidAttempts = errors.New("regenerate attempts must not be negative")
)

type (
	Filter[T any] interface {
		// RequiredSequenceLength is the number of accepted values the filter
		// inspects besides the candidate.
		RequiredSequenceLength() int
		NeedRegenerate(window *Window[T], candidate T) bool
	}

	Number interface {
		constraints.Integer | constraints.Float
	}

	monotonic[T constraints.Ordered] struct {
		name   string
		length int
		before func(a, b T) bool
	}

	run[T any] struct {
		name   string
		length int
		match  func(T) bool
	}

	frequentValue[T comparable] struct {
		length  int
		repeats int
	}

	repeatingPattern[T comparable] struct {
		pattern     int
		repetitions int
	}

	directionPattern[T constraints.Ordered] struct {
		name     string
		pattern  int
		opposite bool
	}

	pair[T comparable] struct {
		length int
	}
)

// Name returns a short label for f, used in logs and metrics.
func Name[T any](f Filter[T]) string {
	if n, ok := f.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", f)
}

// Ascendant fires when the candidate would end a strictly increasing run
// of length+1 values.
func Ascendant[T constraints.Ordered](length int) (Filter[T], error) {
	if length < 1 {
		return nil, errors.Wrapf(ErrInvalidLength, "ascendant length %d", length)
	}
	return monotonic[T]{name: "ascendant", length: length, before: func(a, b T) bool { return a < b }}, nil
}

// Descendant fires when the candidate would end a strictly decreasing run
// of length+1 values.
func Descendant[T constraints.Ordered](length int) (Filter[T], error) {
	if length < 1 {
		return nil, errors.Wrapf(ErrInvalidLength, "descendant length %d", length)
	}
	return monotonic[T]{name: "descendant", length: length, before: func(a, b T) bool { return a > b }}, nil
}

func (m monotonic[T]) Name() string {
	return m.name
}

func (m monotonic[T]) RequiredSequenceLength() int {
	return m.length
}

func (m monotonic[T]) NeedRegenerate(window *Window[T], candidate T) bool {
	if window.Len() < m.length {
		return false
	}
	next := candidate
	for k := range m.length {
		v := window.Last(k)
		if !m.before(v, next) {
			return false
		}
		next = v
	}
	return true
}

func newRun[T any](name string, length int, match func(T) bool) (Filter[T], error) {
	if length < 0 {
		return nil, errors.Wrapf(ErrInvalidLength, "%s length %d", name, length)
	}
	return run[T]{name: name, length: length, match: match}, nil
}

// Close fires when the candidate and the last length values are all
// within distance of reference.
func Close[T Number](reference T, distance float64, length int) (Filter[T], error) {
	if math.IsNaN(distance) || distance < 0 {
		return nil, errors.Errorf("close distance must not be negative, got %v", distance)
	}
	return newRun("close", length, func(v T) bool {
		return math.Abs(float64(v)-float64(reference)) <= distance
	})
}

// Greater fires when the candidate and the last length values all exceed
// threshold.
func Greater[T constraints.Ordered](threshold T, length int) (Filter[T], error) {
	return newRun("greater", length, func(v T) bool { return v > threshold })
}

// Less fires when the candidate and the last length values are all below
// threshold.
func Less[T constraints.Ordered](threshold T, length int) (Filter[T], error) {
	return newRun("less", length, func(v T) bool { return v < threshold })
}

// InRange fires when the candidate and the last length values are all
// within [lo, hi].
func InRange[T constraints.Ordered](lo, hi T, length int) (Filter[T], error) {
	if hi < lo {
		return nil, errors.Errorf("in-range bounds are swapped: %v > %v", lo, hi)
	}
	return newRun("in-range", length, func(v T) bool { return lo <= v && v <= hi })
}

// NotInRange fires when the candidate and the last length values are all
// outside [lo, hi].
func NotInRange[T constraints.Ordered](lo, hi T, length int) (Filter[T], error) {
	if hi < lo {
		return nil, errors.Errorf("not-in-range bounds are swapped: %v > %v", lo, hi)
	}
	return newRun("not-in-range", length, func(v T) bool { return v < lo || v > hi })
}

// Extreme fires when the candidate and the last length values all lie
// further than deviation from mean.
func Extreme[T Number](mean, deviation float64, length int) (Filter[T], error) {
	if math.IsNaN(deviation) || deviation < 0 {
		return nil, errors.Errorf("extreme deviation must not be negative, got %v", deviation)
	}
	return newRun("extreme", length, func(v T) bool {
		return math.Abs(float64(v)-mean) > deviation
	})
}

func (r run[T]) Name() string {
	return r.name
}

func (r run[T]) RequiredSequenceLength() int {
	return r.length
}

func (r run[T]) NeedRegenerate(window *Window[T], candidate T) bool {
	if window.Len() < r.length || !r.match(candidate) {
		return false
	}
	for k := range r.length {
		if !r.match(window.Last(k)) {
			return false
		}
	}
	return true
}

// FrequentValue fires when the candidate already occurs allowedRepeats
// times among the last length values.
func FrequentValue[T comparable](length, allowedRepeats int) (Filter[T], error) {
	if length < 1 {
		return nil, errors.Wrapf(ErrInvalidLength, "frequent-value length %d", length)
	}
	if allowedRepeats < 1 {
		return nil, errors.Errorf("frequent-value allowed repeats must be positive, got %d", allowedRepeats)
	}
	return frequentValue[T]{length: length, repeats: allowedRepeats}, nil
}

func (f frequentValue[T]) Name() string {
	return "frequent-value"
}

func (f frequentValue[T]) RequiredSequenceLength() int {
	return f.length
}

func (f frequentValue[T]) NeedRegenerate(window *Window[T], candidate T) bool {
	seen := 0
	for k := range min(f.length, window.Len()) {
		if window.Last(k) == candidate {
			seen++
			if seen >= f.repeats {
				return true
			}
		}
	}
	return false
}

// RepeatingPattern fires when the candidate completes the same block of
// pattern values repetitions times in a row.
func RepeatingPattern[T comparable](pattern, repetitions int) (Filter[T], error) {
	if pattern < 1 {
		return nil, errors.Wrapf(ErrInvalidLength, "repeating-pattern length %d", pattern)
	}
	if repetitions < 2 {
		return nil, errors.Errorf("repeating-pattern repetitions must be at least 2, got %d", repetitions)
	}
	return repeatingPattern[T]{pattern: pattern, repetitions: repetitions}, nil
}

func (r repeatingPattern[T]) Name() string {
	return "repeating-pattern"
}

func (r repeatingPattern[T]) RequiredSequenceLength() int {
	return r.pattern*r.repetitions - 1
}

func (r repeatingPattern[T]) NeedRegenerate(window *Window[T], candidate T) bool {
	length := r.RequiredSequenceLength()
	if window.Len() < length {
		return false
	}
	at := sequence(window, candidate, length)
	newest := (r.repetitions - 1) * r.pattern
	for block := range r.repetitions - 1 {
		for i := range r.pattern {
			if at(block*r.pattern+i) != at(newest+i) {
				return false
			}
		}
	}
	return true
}

// SamePattern fires when the last pattern values, candidate included, move
// up and down exactly like the pattern values before them.
func SamePattern[T constraints.Ordered](pattern int) (Filter[T], error) {
	if pattern < 2 {
		return nil, errors.Wrapf(ErrInvalidLength, "same-pattern length %d", pattern)
	}
	return directionPattern[T]{name: "same-pattern", pattern: pattern}, nil
}

// OppositePattern fires when the last pattern values, candidate included,
// mirror the direction of every step of the pattern values before them.
func OppositePattern[T constraints.Ordered](pattern int) (Filter[T], error) {
	if pattern < 2 {
		return nil, errors.Wrapf(ErrInvalidLength, "opposite-pattern length %d", pattern)
	}
	return directionPattern[T]{name: "opposite-pattern", pattern: pattern, opposite: true}, nil
}

func (d directionPattern[T]) Name() string {
	return d.name
}

func (d directionPattern[T]) RequiredSequenceLength() int {
	return 2*d.pattern - 1
}

func (d directionPattern[T]) NeedRegenerate(window *Window[T], candidate T) bool {
	length := d.RequiredSequenceLength()
	if window.Len() < length {
		return false
	}
	at := sequence(window, candidate, length)
	for i := range d.pattern - 1 {
		prev := direction(at(i), at(i+1))
		cur := direction(at(d.pattern+i), at(d.pattern+i+1))
		switch {
		case d.opposite && (prev == 0 || cur != -prev):
			return false
		case !d.opposite && cur != prev:
			return false
		}
	}
	return true
}

// Pair fires when the newest value followed by the candidate already occurs
// as adjacent values within the last length values.
func Pair[T comparable](length int) (Filter[T], error) {
	if length < 2 {
		return nil, errors.Wrapf(ErrInvalidLength, "pair length %d", length)
	}
	return pair[T]{length: length}, nil
}

func (p pair[T]) Name() string {
	return "pair"
}

func (p pair[T]) RequiredSequenceLength() int {
	return p.length
}

func (p pair[T]) NeedRegenerate(window *Window[T], candidate T) bool {
	if window.Len() < p.length {
		return false
	}
	last := window.Last(0)
	for k := range p.length - 1 {
		if window.Last(k+1) == last && window.Last(k) == candidate {
			return true
		}
	}
	return false
}

// sequence indexes the last length values followed by the candidate,
// oldest first.
func sequence[T any](window *Window[T], candidate T, length int) func(int) T {
	return func(i int) T {
		if i == length {
			return candidate
		}
		return window.Last(length - 1 - i)
	}
}

func direction[T constraints.Ordered](a, b T) int {
	switch {
	case b > a:
		return 1
	case b < a:
		return -1
	default:
		return 0
	}
}
