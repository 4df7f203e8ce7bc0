package bridge

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/querykiln/kiln/internal/domain"
	"github.com/querykiln/kiln/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func progressEvent(percent float64) domain.UpdateEvent {
	return domain.UpdateEvent{Kind: domain.UpdateEventProgress, Progress: &domain.UpdateProgress{Percent: percent}}
}

func TestNotifierDropsEventsWithoutSubscriber(t *testing.T) {
	n := NewNotifier(1, nil)
	defer n.Close()

	dropped := metrics.UpdateEventsDropped.WithLabelValues(string(domain.UpdateEventAvailable))
	before := testutil.ToFloat64(dropped)

	n.Publish(domain.UpdateEvent{Kind: domain.UpdateEventAvailable, Info: &domain.UpdateInfo{Version: "1.1.0"}})

	assert.False(t, n.HasSubscriber())
	assert.InDelta(t, before+1, testutil.ToFloat64(dropped), 0.001)
}

func TestNotifierDeliversInOrder(t *testing.T) {
	n := NewNotifier(4, nil)
	defer n.Close()

	events, cancel := n.Subscribe()
	defer cancel()

	n.Publish(progressEvent(10))
	n.Publish(progressEvent(20))

	assert.InDelta(t, 10, (<-events).Progress.Percent, 0.001)
	assert.InDelta(t, 20, (<-events).Progress.Percent, 0.001)
}

func TestNotifierDropsWhenBufferFull(t *testing.T) {
	n := NewNotifier(1, nil)
	defer n.Close()

	events, cancel := n.Subscribe()
	defer cancel()

	n.Publish(progressEvent(1))
	n.Publish(progressEvent(2))

	assert.InDelta(t, 1, (<-events).Progress.Percent, 0.001)
	select {
	case event := <-events:
		t.Fatalf("unexpected event %+v", event)
	default:
	}
}

func TestNotifierSubscribeReplacesPreviousSubscriber(t *testing.T) {
	n := NewNotifier(2, nil)
	defer n.Close()

	first, cancelFirst := n.Subscribe()
	second, cancelSecond := n.Subscribe()
	defer cancelSecond()

	_, open := <-first
	assert.False(t, open)

	cancelFirst()
	require.True(t, n.HasSubscriber())

	n.Publish(progressEvent(50))
	assert.InDelta(t, 50, (<-second).Progress.Percent, 0.001)
}

func TestNotifierCancelIsIdempotent(t *testing.T) {
	n := NewNotifier(1, nil)
	defer n.Close()

	events, cancel := n.Subscribe()
	cancel()
	cancel()

	_, open := <-events
	assert.False(t, open)
	assert.False(t, n.HasSubscriber())
}

func TestNotifierScheduleStartupCheckRunsOnce(t *testing.T) {
	n := NewNotifier(1, nil)

	var calls atomic.Int32
	done := make(chan struct{})
	n.ScheduleStartupCheck(context.Background(), time.Millisecond, func(context.Context) error {
		calls.Add(1)
		close(done)
		return nil
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("startup check did not run")
	}

	n.Close()
	assert.Equal(t, int32(1), calls.Load())
}

func TestNotifierCloseCancelsPendingStartupCheck(t *testing.T) {
	n := NewNotifier(1, nil)

	var calls atomic.Int32
	n.ScheduleStartupCheck(context.Background(), time.Hour, func(context.Context) error {
		calls.Add(1)
		return nil
	})

	events, _ := n.Subscribe()
	n.Close()

	_, open := <-events
	assert.False(t, open)
	assert.Equal(t, int32(0), calls.Load())

	n.ScheduleStartupCheck(context.Background(), time.Millisecond, func(context.Context) error {
		calls.Add(1)
		return nil
	})
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestNotifierStartupCheckSkipsCanceledContext(t *testing.T) {
	n := NewNotifier(1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	n.ScheduleStartupCheck(ctx, time.Millisecond, func(context.Context) error {
		calls.Add(1)
		return nil
	})

	time.Sleep(20 * time.Millisecond)
	n.Close()
	assert.Equal(t, int32(0), calls.Load())
}
