package usecase

import (
	"sync"
	"time"
)

// HoldTimer is the single countdown driving seat-hold expiration for one
// session. It ticks once per second; onTick receives the remaining seconds
// and returns true when the countdown should stop (expiry reached). Start
// replaces any running countdown, so at most one is active per timer, and
// Stop is safe to call on every exit path.
type HoldTimer struct {
	mu      sync.Mutex
	stop    chan struct{}
	running bool
}

func NewHoldTimer() *HoldTimer {
	return &HoldTimer{}
}

// Start arms the countdown for durationSeconds. A previously running
// countdown is stopped first.
func (t *HoldTimer) Start(durationSeconds int, onTick func(remaining int) (stop bool)) {
	t.mu.Lock()
	if t.running {
		close(t.stop)
	}
	stop := make(chan struct{})
	t.stop = stop
	t.running = true
	t.mu.Unlock()

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		remaining := durationSeconds
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				remaining--
				if onTick(remaining) {
					t.mu.Lock()
					if t.stop == stop {
						t.running = false
					}
					t.mu.Unlock()
					return
				}
			}
		}
	}()
}

// Stop halts the countdown. Idempotent.
func (t *HoldTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		close(t.stop)
		t.running = false
	}
}

// Running reports whether a countdown goroutine is active.
func (t *HoldTimer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}
