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

// Package provider gives every configured generator two accessors: New
// builds a private instance and Shared returns one cached instance until
// the configuration changes.
package provider

import (
	"sync"

	"github.com/samber/mo"
)

type (
	Factory[T any] func() (T, error)

	Provider[T any] struct {
		factory Factory[T]
		shared  mo.Option[T]
		mu      sync.Mutex
	}
)

func New[T any](factory Factory[T]) *Provider[T] {
	return &Provider[T]{factory: factory}
}

// New builds a fresh instance owned by the caller.
func (p *Provider[T]) New() (T, error) {
	p.mu.Lock()
	factory := p.factory
	p.mu.Unlock()

	return factory()
}

// Shared returns the cached instance, building it on first use. A failed
// build is not cached.
func (p *Provider[T]) Shared() (T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if v, ok := p.shared.Get(); ok {
		return v, nil
	}
	v, err := p.factory()
	if err != nil {
		return v, err
	}
	p.shared = mo.Some(v)
	return v, nil
}

// Invalidate drops the cached instance so the next Shared call rebuilds it.
func (p *Provider[T]) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.shared = mo.None[T]()
}

// Update replaces the factory and invalidates the cached instance.
func (p *Provider[T]) Update(factory Factory[T]) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.factory = factory
	p.shared = mo.None[T]()
}

func (p *Provider[T]) Cached() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.shared.IsPresent()
}
