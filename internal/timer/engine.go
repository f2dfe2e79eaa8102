// Package timer implements the stopwatch state machine behind a timed run.
//
// The engine has three states: idle (elapsed is zero), running, and stopped
// (elapsed frozen). Stopping does not discard elapsed time; starting again
// resumes from it, and only Reset returns to zero. The host's redraw loop
// reads the current value with Sample at whatever cadence it likes; the
// engine schedules nothing itself.
package timer

import (
	"fmt"
	"time"

	"github.com/pacedog/pacedog/internal/common"
)

// State identifies the engine's current phase.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateStopped State = "stopped"
)

// Engine is a resumable stopwatch. The zero value is not usable; construct
// with New.
type Engine struct {
	state   State
	startAt time.Time     // reference instant while running, already shifted back by elapsed
	elapsed time.Duration // frozen value while idle/stopped

	// now is a test seam; production engines use time.Now, which carries
	// a monotonic reading on every supported platform.
	now func() time.Time
}

func New() *Engine {
	return &Engine{state: StateIdle, now: time.Now}
}

// NewWithClock builds an engine on an injected clock. Tests use this to
// simulate elapsed time deterministically.
func NewWithClock(now func() time.Time) *Engine {
	return &Engine{state: StateIdle, now: now}
}

// State returns the current phase.
func (e *Engine) State() State {
	return e.state
}

// Start begins or resumes timing. Restarting from stopped continues from the
// frozen elapsed value; use Reset first to start from zero. Starting an
// already-running engine is rejected.
func (e *Engine) Start() error {
	if e.state == StateRunning {
		return fmt.Errorf("already running: %w", common.ErrInvalidState)
	}
	// Shift the reference back so that now-startAt already includes the
	// elapsed time accumulated before the previous stop. elapsed is zero
	// when idle, so a fresh start counts from the reference itself.
	e.startAt = e.now().Add(-e.elapsed)
	e.state = StateRunning
	return nil
}

// Stop freezes the elapsed value. Only legal while running.
func (e *Engine) Stop() error {
	if e.state != StateRunning {
		return fmt.Errorf("not running: %w", common.ErrInvalidState)
	}
	e.elapsed = e.now().Sub(e.startAt)
	e.state = StateStopped
	return nil
}

// Reset cancels any in-progress run and returns to idle with zero elapsed.
// Legal from every state.
func (e *Engine) Reset() {
	e.elapsed = 0
	e.state = StateIdle
}

// SetManual overwrites the elapsed value directly, e.g. from a hand-typed
// time. Rejected while running (stop first) and for non-positive durations;
// on rejection the current elapsed value is untouched.
func (e *Engine) SetManual(d time.Duration) error {
	if e.state == StateRunning {
		return fmt.Errorf("timer is running: %w", common.ErrInvalidState)
	}
	if d <= 0 {
		return fmt.Errorf("manual time must be positive: %w", common.ErrInvalidInput)
	}
	e.elapsed = d
	e.state = StateStopped
	return nil
}

// Sample returns the elapsed duration. While running it is computed fresh
// from the clock on every call and is monotonically non-decreasing within a
// single running span; while idle/stopped it returns the frozen value.
// Sampling never mutates state, so arbitrary, irregular polling is safe.
func (e *Engine) Sample() time.Duration {
	if e.state == StateRunning {
		return e.now().Sub(e.startAt)
	}
	return e.elapsed
}
