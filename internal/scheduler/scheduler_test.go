package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextTimes(t *testing.T) {
	s := NewAlignedScheduler(context.Background(), 5*time.Minute, 2*time.Second)

	now := time.Date(2025, 6, 2, 10, 3, 17, 0, time.UTC)
	nextClose, wakeAt, wait := s.nextTimes(now)

	assert.Equal(t, time.Date(2025, 6, 2, 10, 5, 0, 0, time.UTC), nextClose)
	assert.Equal(t, nextClose.Add(2*time.Second), wakeAt)
	assert.Equal(t, wakeAt.Sub(now), wait)
}

func TestNextTimesOnBoundary(t *testing.T) {
	s := NewAlignedScheduler(context.Background(), 5*time.Minute, 0)

	// Exactly on a close boundary the next close is a full interval away.
	now := time.Date(2025, 6, 2, 10, 5, 0, 0, time.UTC)
	nextClose, _, wait := s.nextTimes(now)
	assert.Equal(t, time.Date(2025, 6, 2, 10, 10, 0, 0, time.UTC), nextClose)
	assert.Equal(t, 5*time.Minute, wait)
}

func TestStartStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewAlignedScheduler(ctx, time.Hour, 0)

	done := make(chan struct{})
	go func() {
		s.Start(func(time.Time) {})
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not exit on context cancel")
	}
}

func TestStartRunImmediately(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := NewAlignedScheduler(ctx, time.Hour, 0)
	s.RunImmediately = true

	fired := make(chan time.Time, 1)
	go s.Start(func(barOpen time.Time) {
		select {
		case fired <- barOpen:
		default:
		}
	})

	select {
	case barOpen := <-fired:
		assert.True(t, barOpen.Before(time.Now()))
	case <-time.After(2 * time.Second):
		t.Fatal("immediate run did not fire")
	}
}
