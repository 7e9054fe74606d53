package interview

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickerStartIsIdempotent(t *testing.T) {
	ticker := NewTicker()
	defer ticker.Stop()

	var ticks int64
	fn := func() { atomic.AddInt64(&ticks, 1) }

	ticker.Start(10*time.Millisecond, fn)
	ticker.Start(10*time.Millisecond, fn)
	ticker.Start(10*time.Millisecond, fn)
	assert.True(t, ticker.Running())

	time.Sleep(105 * time.Millisecond)
	ticker.Stop()

	// A second concurrent loop would roughly double the count.
	got := atomic.LoadInt64(&ticks)
	assert.GreaterOrEqual(t, got, int64(5))
	assert.LessOrEqual(t, got, int64(13))
}

func TestTickerStopHaltsTicks(t *testing.T) {
	ticker := NewTicker()

	var ticks int64
	ticker.Start(10*time.Millisecond, func() { atomic.AddInt64(&ticks, 1) })
	time.Sleep(35 * time.Millisecond)

	ticker.Stop()
	assert.False(t, ticker.Running())

	// Allow an in-flight callback to finish before sampling.
	time.Sleep(20 * time.Millisecond)
	settled := atomic.LoadInt64(&ticks)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, atomic.LoadInt64(&ticks))
}

func TestTickerStopBeforeStartIsSafe(t *testing.T) {
	ticker := NewTicker()
	ticker.Stop()
	ticker.Stop()
	assert.False(t, ticker.Running())
}

func TestTickerRestartAfterStop(t *testing.T) {
	ticker := NewTicker()
	defer ticker.Stop()

	var ticks int64
	ticker.Start(10*time.Millisecond, func() { atomic.AddInt64(&ticks, 1) })
	ticker.Stop()

	ticker.Start(10*time.Millisecond, func() { atomic.AddInt64(&ticks, 1) })
	assert.True(t, ticker.Running())

	time.Sleep(35 * time.Millisecond)
	assert.Greater(t, atomic.LoadInt64(&ticks), int64(0))
}
