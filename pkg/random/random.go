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

package random

import (
	"sync"

	"github.com/scylladb/entropy/pkg/engines"
)

// GoRoutineSafeRandom serialises access to an engine. It backs the process
// wide platform generator, the only generator in this module meant to be
// shared between goroutines.
type GoRoutineSafeRandom struct {
	engine engines.Engine
	mu     sync.Mutex
}

func NewGoRoutineSafeRandom(engine engines.Engine) *GoRoutineSafeRandom {
	return &GoRoutineSafeRandom{
		engine: engine,
	}
}

func (g *GoRoutineSafeRandom) Uint32() uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.engine.Uint32()
}

func (g *GoRoutineSafeRandom) Uint64() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.engine.Uint64()
}

func (g *GoRoutineSafeRandom) IntRange(min, max int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.engine.IntRange(min, max)
}

func (g *GoRoutineSafeRandom) Bool() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.engine.Bool()
}

func (g *GoRoutineSafeRandom) Float64() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.engine.Float64()
}

// Reseed replaces the engine state, e.g. to make a run reproducible.
func (g *GoRoutineSafeRandom) Reseed(engine engines.Engine) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.engine = engine
}

var (
	globalOnce sync.Once
	global     *GoRoutineSafeRandom
)

// Global returns the platform generator, a xoroshiro128+ engine seeded from
// Source on first use.
func Global() *GoRoutineSafeRandom {
	globalOnce.Do(func() {
		engine, err := engines.New(engines.KindXoroshiro128Plus, RealRandom())
		if err != nil {
			panic(err)
		}
		global = NewGoRoutineSafeRandom(engine)
	})
	return global
}
