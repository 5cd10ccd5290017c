package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunsImmediatelyAndOnTick(t *testing.T) {
	s := NewScheduler(0)
	var calls atomic.Int32
	s.AddJob("tick", 10*time.Millisecond, func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})

	s.Start()
	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	s.Stop()

	stopped := calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, calls.Load())
}

func TestScheduler_TimeoutBoundsInvocation(t *testing.T) {
	s := NewScheduler(20 * time.Millisecond)
	s.AddJob("slow", time.Hour, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	err := s.RunOnce(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestScheduler_RunOnceRunsAllAndReturnsFirstError(t *testing.T) {
	s := NewScheduler(0)
	var order []string
	boom := errors.New("boom")
	s.AddJob("a", time.Hour, func(ctx context.Context) error {
		order = append(order, "a")
		return boom
	})
	s.AddJob("b", time.Hour, func(ctx context.Context) error {
		order = append(order, "b")
		return nil
	})

	err := s.RunOnce(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, []string{"a", "b"}, s.Jobs())
}
