package interview

import (
	"sync"
	"time"
)

// Ticker drives the one-second countdown for a single session. Start and
// Stop are idempotent: starting a running ticker does nothing, so no two
// tick loops can ever run concurrently for the same session. The ticker is
// stopped whenever the session leaves the Active state, the client reports
// itself hidden, or the session ends.
type Ticker struct {
	mu      sync.Mutex
	stop    chan struct{}
	running bool
}

func NewTicker() *Ticker {
	return &Ticker{}
}

// Start launches the tick loop, invoking fn once per interval until Stop.
func (t *Ticker) Start(interval time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return
	}
	t.running = true
	t.stop = make(chan struct{})

	go func(stop chan struct{}) {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				fn()
			}
		}
	}(t.stop)
}

// Stop halts the tick loop. Safe to call repeatedly or before Start.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return
	}
	t.running = false
	close(t.stop)
}

// Running reports whether a tick loop is live.
func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}
