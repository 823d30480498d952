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

package stop_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scylladb/entropy/pkg/stop"
)

func TestSoftStop(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	flag := stop.NewFlag("main")
	hardCtx := flag.CancelContextOnSignal(context.Background(), stop.SignalHardStop)
	anyCtx := flag.CancelContextOnSignal(context.Background(), stop.SignalNoop)

	assert.False(flag.IsHardOrSoft())
	assert.True(flag.SetSoft(false))
	assert.False(flag.SetSoft(false))

	assert.True(flag.IsSoft())
	assert.False(flag.IsHard())
	assert.NoError(hardCtx.Err())
	assert.Error(anyCtx.Err())

	select {
	case <-flag.Done():
	default:
		t.Fatal("done channel must be closed after a signal")
	}
}

func TestSoftStopEscalatesToHard(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	flag := stop.NewFlag("main")
	ctx := flag.CancelContextOnSignal(context.Background(), stop.SignalHardStop)

	assert.True(flag.SetSoft(false))
	assert.True(flag.SetHard(false))
	assert.False(flag.SetHard(false))
	assert.False(flag.SetSoft(false))
	assert.True(flag.IsHard())
	assert.Error(ctx.Err())
}

func TestChildren(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	parent := stop.NewFlag("parent")
	first := parent.CreateChild("first")
	second := parent.CreateChild("second")

	var signals []uint32
	second.AddHandler(func(signal uint32) {
		signals = append(signals, signal)
	})

	first.SetHard(true)
	assert.True(parent.IsHard())
	assert.True(second.IsHard())
	assert.Equal([]uint32{stop.SignalHardStop}, signals)

	late := parent.CreateChild("late")
	assert.True(late.IsHard())
	assert.Equal("late", late.Name())
}

func TestChildDoesNotStopParent(t *testing.T) {
	t.Parallel()

	parent := stop.NewFlag("parent")
	child := parent.CreateChild("child")
	child.SetSoft(false)

	require.False(t, parent.IsHardOrSoft())
	require.True(t, child.IsSoft())
}

func TestGetStateName(t *testing.T) {
	t.Parallel()

	require.Equal(t, "soft", stop.GetStateName(stop.SignalSoftStop))
	require.Equal(t, "hard", stop.GetStateName(stop.SignalHardStop))
	require.Equal(t, "no-signal", stop.GetStateName(stop.SignalNoop))
	require.Panics(t, func() { stop.GetStateName(42) })
}
