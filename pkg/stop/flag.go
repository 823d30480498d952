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

// Package stop propagates soft and hard stop requests to the streams of a
// sampling run. A soft stop lets every stream flush the batch it is
// drawing, a hard stop cancels them.
package stop

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/atomic"
	"go.uber.org/zap"
)

const (
	SignalNoop uint32 = iota
	SignalSoftStop
	SignalHardStop
)

type Flag struct {
	log      *zap.Logger
	done     chan struct{}
	parent   *Flag
	name     string
	children []*Flag
	handlers []func(signal uint32)
	mu       sync.Mutex
	val      atomic.Uint32
	once     sync.Once
}

func NewFlag(name string) *Flag {
	return newFlag(name, nil)
}

func newFlag(name string, parent *Flag) *Flag {
	return &Flag{
		name:   name,
		parent: parent,
		log:    zap.NewNop(),
		done:   make(chan struct{}),
	}
}

func (s *Flag) Name() string {
	return s.name
}

func (s *Flag) SetLogger(log *zap.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = log
}

// sendSignal records the first signal only; a soft stop may still be
// escalated to a hard one.
func (s *Flag) sendSignal(signal uint32, sendToParent bool) bool {
	if !s.val.CompareAndSwap(SignalNoop, signal) && !(signal == SignalHardStop && s.val.CompareAndSwap(SignalSoftStop, signal)) {
		return false
	}

	s.mu.Lock()
	s.log.Debug(fmt.Sprintf("flag %s received signal %s", s.name, GetStateName(signal)))
	handlers := append(([]func(uint32))(nil), s.handlers...)
	children := append([]*Flag(nil), s.children...)
	s.mu.Unlock()

	s.once.Do(func() { close(s.done) })
	for _, handler := range handlers {
		handler(signal)
	}
	for _, child := range children {
		child.sendSignal(signal, false)
	}
	if sendToParent && s.parent != nil {
		s.parent.sendSignal(signal, true)
	}
	return true
}

func (s *Flag) SetHard(sendToParent bool) bool {
	return s.sendSignal(SignalHardStop, sendToParent)
}

func (s *Flag) SetSoft(sendToParent bool) bool {
	return s.sendSignal(SignalSoftStop, sendToParent)
}

// CreateChild returns a flag stopped together with s. A child of a stopped
// flag starts stopped.
func (s *Flag) CreateChild(name string) *Flag {
	child := newFlag(name, s)
	s.mu.Lock()
	child.log = s.log
	s.children = append(s.children, child)
	s.mu.Unlock()

	if val := s.val.Load(); val != SignalNoop {
		child.sendSignal(val, false)
	}
	return child
}

// Done is closed on the first signal.
func (s *Flag) Done() <-chan struct{} {
	return s.done
}

func (s *Flag) IsSoft() bool {
	return s.val.Load() == SignalSoftStop
}

func (s *Flag) IsHard() bool {
	return s.val.Load() == SignalHardStop
}

func (s *Flag) IsHardOrSoft() bool {
	return s.val.Load() != SignalNoop
}

// AddHandler registers handler for later signals and calls it right away
// when the flag is already stopped.
func (s *Flag) AddHandler(handler func(signal uint32)) {
	s.mu.Lock()
	s.handlers = append(s.handlers, handler)
	s.mu.Unlock()

	if val := s.val.Load(); val != SignalNoop {
		handler(val)
	}
}

// CancelContextOnSignal returns a context cancelled by expectedSignal, or
// by any signal when expectedSignal is SignalNoop.
func (s *Flag) CancelContextOnSignal(ctx context.Context, expectedSignal uint32) context.Context {
	ctx, cancel := context.WithCancel(ctx)
	s.AddHandler(func(signal uint32) {
		if expectedSignal == SignalNoop || signal == expectedSignal {
			cancel()
		}
	})
	return ctx
}

// StartOsSignalsTransmitter soft stops flags on the first SIGINT or SIGTERM
// and hard stops them on the second.
func StartOsSignalsTransmitter(logger *zap.Logger, flags ...*Flag) {
	graceful := make(chan os.Signal, 2)
	signal.Notify(graceful, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-graceful
		logger.Info("received signal, begin soft stop", zap.String("signal", sig.String()))
		for _, flag := range flags {
			flag.SetSoft(true)
		}

		sig = <-graceful
		logger.Info("received signal, begin hard stop", zap.String("signal", sig.String()))
		for _, flag := range flags {
			flag.SetHard(true)
		}
		signal.Stop(graceful)
	}()
}

func GetStateName(state uint32) string {
	switch state {
	case SignalSoftStop:
		return "soft"
	case SignalHardStop:
		return "hard"
	case SignalNoop:
		return "no-signal"
	default:
		panic(fmt.Sprintf("unexpected signal %d", state))
	}
}
