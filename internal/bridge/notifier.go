package bridge

import (
	"context"
	"sync"
	"time"

	"github.com/querykiln/kiln/internal/domain"
	"github.com/querykiln/kiln/internal/metrics"
	"github.com/querykiln/kiln/internal/ports"
	"go.uber.org/zap"
)

const DefaultEventBuffer = 16

// Notifier forwards updater events to the single current subscriber.
// Delivery is at most once: with no subscriber, or a full subscriber buffer,
// the event is dropped.
type Notifier struct {
	mu     sync.Mutex
	sub    chan domain.UpdateEvent
	seq    uint64
	buffer int
	closed bool
	timers []*time.Timer
	wg     sync.WaitGroup
	log    *zap.Logger
}

var _ ports.UpdateSink = (*Notifier)(nil)

func NewNotifier(buffer int, log *zap.Logger) *Notifier {
	if buffer <= 0 {
		buffer = DefaultEventBuffer
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Notifier{buffer: buffer, log: log}
}

// Subscribe makes the caller the active subscriber, closing the channel of
// any previous one. cancel is idempotent and only affects this subscription.
func (n *Notifier) Subscribe() (<-chan domain.UpdateEvent, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch := make(chan domain.UpdateEvent, n.buffer)
	if n.closed {
		close(ch)
		return ch, func() {}
	}

	if n.sub != nil {
		close(n.sub)
	}
	n.seq++
	n.sub = ch
	id := n.seq

	return ch, func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if n.sub != nil && n.seq == id {
			close(n.sub)
			n.sub = nil
		}
	}
}

func (n *Notifier) HasSubscriber() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.sub != nil
}

func (n *Notifier) Publish(event domain.UpdateEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.sub == nil {
		n.drop(event, "no subscriber")
		return
	}

	select {
	case n.sub <- event:
	default:
		n.drop(event, "subscriber buffer full")
	}
}

// ScheduleStartupCheck runs check once after delay unless ctx ends or the
// notifier is closed first. Errors from check are logged and dropped.
func (n *Notifier) ScheduleStartupCheck(ctx context.Context, delay time.Duration, check func(context.Context) error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}

	n.wg.Add(1)
	timer := time.AfterFunc(delay, func() {
		defer n.wg.Done()
		if ctx.Err() != nil {
			return
		}
		if err := check(ctx); err != nil {
			n.log.Debug("startup update check failed", zap.Error(err))
		}
	})
	n.timers = append(n.timers, timer)
}

// Close stops pending startup checks, waits for a running one and closes
// the subscriber channel.
func (n *Notifier) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	for _, timer := range n.timers {
		if timer.Stop() {
			n.wg.Done()
		}
	}
	n.timers = nil
	n.mu.Unlock()

	n.wg.Wait()

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.sub != nil {
		close(n.sub)
		n.sub = nil
	}
}

func (n *Notifier) drop(event domain.UpdateEvent, reason string) {
	metrics.UpdateEventsDropped.WithLabelValues(string(event.Kind)).Inc()
	n.log.Debug("update event dropped", zap.String("kind", string(event.Kind)), zap.String("reason", reason))
}
