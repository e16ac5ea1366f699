package usecase_test

import (
	"sync"
	"testing"
	"time"

	"ticket-desk/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func TestHoldTimer_CountsDownAndStopsOnExpiry(t *testing.T) {
	timer := usecase.NewHoldTimer()

	var mu sync.Mutex
	var ticks []int

	timer.Start(2, func(remaining int) bool {
		mu.Lock()
		ticks = append(ticks, remaining)
		mu.Unlock()
		return remaining <= 0
	})

	assert.Eventually(t, func() bool {
		return !timer.Running()
	}, 4*time.Second, 50*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{1, 0}, ticks)
}

func TestHoldTimer_StartReplacesRunningCountdown(t *testing.T) {
	timer := usecase.NewHoldTimer()

	var mu sync.Mutex
	firstTicks := 0

	timer.Start(600, func(remaining int) bool {
		mu.Lock()
		firstTicks++
		mu.Unlock()
		return false
	})

	// re-arm immediately; the first goroutine must die without ticking
	timer.Start(2, func(remaining int) bool {
		return remaining <= 0
	})

	assert.Eventually(t, func() bool {
		return !timer.Running()
	}, 4*time.Second, 50*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, firstTicks)
}

func TestHoldTimer_StopIsIdempotent(t *testing.T) {
	timer := usecase.NewHoldTimer()

	timer.Start(600, func(remaining int) bool { return false })
	assert.True(t, timer.Running())

	timer.Stop()
	timer.Stop()
	assert.False(t, timer.Running())
}

func TestHoldTimer_StopBeforeStartIsSafe(t *testing.T) {
	timer := usecase.NewHoldTimer()
	timer.Stop()
	assert.False(t, timer.Running())
}
