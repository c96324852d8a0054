// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package recognition_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/facegate/internal/recognition"
)

/*
TestMachine_Cycle walks IDLE → CAPTURING → AWAITING_RESULT → IDLE.
*/
func TestMachine_Cycle(t *testing.T) {
	machine := recognition.NewMachine()
	assert.Equal(t, recognition.StateIdle, machine.State())

	require.True(t, machine.Tick())
	assert.Equal(t, recognition.StateCapturing, machine.State())

	require.NoError(t, machine.Submit())
	assert.Equal(t, recognition.StateAwaitingResult, machine.State())

	machine.Complete()
	assert.Equal(t, recognition.StateIdle, machine.State())
	assert.True(t, machine.Tick(), "a finished cycle permits the next one")
}

/*
TestMachine_TickIgnoredWhileBusy keeps one call in flight.
*/
func TestMachine_TickIgnoredWhileBusy(t *testing.T) {
	machine := recognition.NewMachine()
	require.True(t, machine.Tick())

	assert.False(t, machine.Tick())
	assert.Equal(t, recognition.StateCapturing, machine.State())

	require.NoError(t, machine.Submit())
	assert.False(t, machine.Tick())
	assert.Equal(t, recognition.StateAwaitingResult, machine.State())
}

/*
TestMachine_SubmitRequiresCapture rejects out-of-order submits.
*/
func TestMachine_SubmitRequiresCapture(t *testing.T) {
	machine := recognition.NewMachine()
	assert.ErrorIs(t, machine.Submit(), recognition.ErrNotCapturing)

	require.True(t, machine.Tick())
	require.NoError(t, machine.Submit())
	assert.ErrorIs(t, machine.Submit(), recognition.ErrNotCapturing)
}

/*
TestMachine_CompleteFromCapturing abandons a capture that never reached the backend.
*/
func TestMachine_CompleteFromCapturing(t *testing.T) {
	machine := recognition.NewMachine()
	require.True(t, machine.Tick())
	machine.Complete()
	assert.Equal(t, recognition.StateIdle, machine.State())
}

/*
TestState_String names every state.
*/
func TestState_String(t *testing.T) {
	assert.Equal(t, "IDLE", recognition.StateIdle.String())
	assert.Equal(t, "CAPTURING", recognition.StateCapturing.String())
	assert.Equal(t, "AWAITING_RESULT", recognition.StateAwaitingResult.String())
	assert.Equal(t, "UNKNOWN", recognition.State(9).String())
}

/*
TestMachines_GetAndSweep shares a machine per key and drops idle ones only.
*/
func TestMachines_GetAndSweep(t *testing.T) {
	registry := recognition.NewMachines()

	first := registry.Get("browser-a")
	assert.Same(t, first, registry.Get("browser-a"))

	busy := registry.Get("browser-b")
	require.True(t, busy.Tick())
	assert.Equal(t, 2, registry.Len())

	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 1, registry.Sweep(time.Millisecond))
	assert.Equal(t, 1, registry.Len())
	assert.Same(t, busy, registry.Get("browser-b"))

	assert.Zero(t, registry.Sweep(time.Hour))
}
