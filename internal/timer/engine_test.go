package timer

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pacedog/pacedog/internal/common"
)

// fakeClock advances only when told to, making elapsed time deterministic.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestEngine_StartStopSample(t *testing.T) {
	clk := newFakeClock()
	e := NewWithClock(clk.now)

	assert.Equal(t, StateIdle, e.State())
	assert.Equal(t, time.Duration(0), e.Sample())

	require.NoError(t, e.Start())
	assert.Equal(t, StateRunning, e.State())

	clk.advance(1500 * time.Millisecond)
	assert.Equal(t, 1500*time.Millisecond, e.Sample())

	clk.advance(500 * time.Millisecond)
	assert.Equal(t, 2*time.Second, e.Sample())

	require.NoError(t, e.Stop())
	assert.Equal(t, StateStopped, e.State())

	// frozen: time passing no longer changes the sample
	clk.advance(10 * time.Second)
	assert.Equal(t, 2*time.Second, e.Sample())
	assert.Equal(t, 2*time.Second, e.Sample())
}

func TestEngine_ResumeContinuesFromElapsed(t *testing.T) {
	clk := newFakeClock()
	e := NewWithClock(clk.now)

	require.NoError(t, e.Start())
	clk.advance(3 * time.Second)
	require.NoError(t, e.Stop())

	clk.advance(time.Minute) // pause does not count

	require.NoError(t, e.Start())
	clk.advance(2 * time.Second)
	assert.Equal(t, 5*time.Second, e.Sample())
}

func TestEngine_StartWhileRunningRejected(t *testing.T) {
	clk := newFakeClock()
	e := NewWithClock(clk.now)

	require.NoError(t, e.Start())
	clk.advance(time.Second)

	err := e.Start()
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidState))

	// the rejected start must not disturb the running measurement
	assert.Equal(t, time.Second, e.Sample())
}

func TestEngine_StopWhileNotRunningRejected(t *testing.T) {
	e := NewWithClock(newFakeClock().now)

	err := e.Stop()
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidState))

	require.NoError(t, e.Start())
	require.NoError(t, e.Stop())
	assert.True(t, errors.Is(e.Stop(), common.ErrInvalidState))
}

func TestEngine_ResetFromEveryState(t *testing.T) {
	clk := newFakeClock()
	e := NewWithClock(clk.now)

	// from idle
	e.Reset()
	assert.Equal(t, StateIdle, e.State())
	assert.Equal(t, time.Duration(0), e.Sample())

	// from running
	require.NoError(t, e.Start())
	clk.advance(4 * time.Second)
	e.Reset()
	assert.Equal(t, StateIdle, e.State())
	assert.Equal(t, time.Duration(0), e.Sample())

	// from stopped
	require.NoError(t, e.Start())
	clk.advance(time.Second)
	require.NoError(t, e.Stop())
	e.Reset()
	assert.Equal(t, StateIdle, e.State())
	assert.Equal(t, time.Duration(0), e.Sample())
}

func TestEngine_SetManual(t *testing.T) {
	clk := newFakeClock()
	e := NewWithClock(clk.now)

	require.NoError(t, e.SetManual(10520*time.Millisecond))
	assert.Equal(t, StateStopped, e.State())
	assert.Equal(t, 10520*time.Millisecond, e.Sample())

	// rejected while running, elapsed untouched
	e.Reset()
	require.NoError(t, e.Start())
	clk.advance(time.Second)
	err := e.SetManual(5 * time.Second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidState))
	assert.Equal(t, time.Second, e.Sample())

	// non-positive values rejected, previous elapsed kept
	require.NoError(t, e.Stop())
	for _, bad := range []time.Duration{0, -time.Second} {
		err := e.SetManual(bad)
		require.Error(t, err)
		assert.True(t, errors.Is(err, common.ErrInvalidInput))
		assert.Equal(t, time.Second, e.Sample())
	}
}

func TestEngine_SampleMonotonicWhileRunning(t *testing.T) {
	clk := newFakeClock()
	e := NewWithClock(clk.now)
	require.NoError(t, e.Start())

	prev := e.Sample()
	for i := 0; i < 50; i++ {
		clk.advance(time.Duration(i%7) * time.Millisecond) // irregular cadence
		cur := e.Sample()
		assert.GreaterOrEqual(t, cur, prev)
		prev = cur
	}
}

func TestEngine_RealClockSmoke(t *testing.T) {
	e := New()
	require.NoError(t, e.Start())
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, e.Stop())
	assert.Greater(t, e.Sample(), time.Duration(0))
}
