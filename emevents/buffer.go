package emevents

import (
	"sort"
	"sync"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldtime"
	"golang.org/x/exp/slices"

	"github.com/emitlabs/go-emit-sdk/emevent"
)

type bufferEntry struct {
	readyAt ldtime.UnixMillisecondTime
	event   *emevent.Event
	isRetry bool
}

// InMemoryEventBuffer is the default EventBuffer: a single slice kept sorted by ready
// time under one mutex. Insertion keeps arrival order for equal ready times, so
// same-delay events are delivered in the order they were pushed.
type InMemoryEventBuffer struct {
	mu            sync.Mutex
	entries       []bufferEntry
	retryCount    int
	capacity      int
	flushInterval time.Duration
	retryDelays   []time.Duration
	notifyCh      chan struct{}
}

// NewInMemoryEventBuffer creates a buffer using the capacity, flush interval, and
// retry table from the configuration.
func NewInMemoryEventBuffer(config EventsConfiguration) *InMemoryEventBuffer {
	config = config.withDefaults()
	return &InMemoryEventBuffer{
		capacity:      config.BufferCapacity,
		flushInterval: config.FlushInterval,
		retryDelays:   config.RetryDelays,
		notifyCh:      make(chan struct{}, 1),
	}
}

// InMemoryEventBufferProvider is the default EventBufferProvider.
func InMemoryEventBufferProvider(config EventsConfiguration) EventBuffer {
	return NewInMemoryEventBuffer(config)
}

// Push adds an event with the backoff delay implied by its Retries count. New events
// (Retries == 0) are deliverable immediately under the default table.
func (b *InMemoryEventBuffer) Push(event *emevent.Event) error {
	return b.PushWithDelay(event, 0)
}

// PushWithDelay adds an event that becomes deliverable after the table-derived
// backoff plus the given extra delay.
//
// A retried event is rejected when it has exhausted the retry table, or when the
// buffer is over capacity. New events are never rejected; the host application
// controls its own event rate.
func (b *InMemoryEventBuffer) PushWithDelay(event *emevent.Event, delay time.Duration) error {
	if event.Retries >= len(b.retryDelays) {
		return MaxRetriesExceededError{MaxRetries: len(b.retryDelays)}
	}
	b.mu.Lock()
	if event.Retries > 0 && len(b.entries) > b.capacity {
		b.mu.Unlock()
		return ErrBufferFull
	}
	total := b.retryDelay(event.Retries) + delay
	readyAt := ldtime.UnixMillisNow() + ldtime.UnixMillisecondTime(total.Milliseconds())
	// Upper bound keeps insertion stable for equal ready times.
	i := sort.Search(len(b.entries), func(i int) bool { return b.entries[i].readyAt > readyAt })
	isRetry := event.Retries > 0
	b.entries = slices.Insert(b.entries, i, bufferEntry{readyAt: readyAt, event: event, isRetry: isRetry})
	if isRetry {
		b.retryCount++
	}
	b.mu.Unlock()

	select {
	case b.notifyCh <- struct{}{}:
	default:
	}
	return nil
}

// Pull removes and returns up to count events whose ready time has passed.
func (b *InMemoryEventBuffer) Pull(count int) []*emevent.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := ldtime.UnixMillisNow()
	n := 0
	for n < len(b.entries) && n < count && b.entries[n].readyAt <= now {
		n++
	}
	return b.take(n)
}

// PullAll removes and returns every buffered event regardless of ready time.
func (b *InMemoryEventBuffer) PullAll() []*emevent.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.take(len(b.entries))
}

func (b *InMemoryEventBuffer) take(n int) []*emevent.Event {
	if n == 0 {
		return nil
	}
	out := make([]*emevent.Event, n)
	for i := 0; i < n; i++ {
		out[i] = b.entries[i].event
		if b.entries[i].isRetry {
			b.retryCount--
		}
		b.entries[i].event = nil
	}
	b.entries = append(b.entries[:0], b.entries[n:]...)
	return out
}

// WaitTime returns the time until the earliest event is deliverable, capped at the
// flush interval. It is zero when a deliverable event is already waiting.
func (b *InMemoryEventBuffer) WaitTime() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.entries) == 0 {
		return b.flushInterval
	}
	now := ldtime.UnixMillisNow()
	first := b.entries[0].readyAt
	if first <= now {
		return 0
	}
	wait := time.Duration(first-now) * time.Millisecond
	if wait > b.flushInterval {
		return b.flushInterval
	}
	return wait
}

// NotifyCh returns the push notification channel.
func (b *InMemoryEventBuffer) NotifyCh() <-chan struct{} {
	return b.notifyCh
}

// Len returns the number of buffered events.
func (b *InMemoryEventBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// EventCounts returns the total number of buffered events and how many of them are
// retries.
func (b *InMemoryEventBuffer) EventCounts() (total, retries int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries), b.retryCount
}

func (b *InMemoryEventBuffer) retryDelay(retries int) time.Duration {
	if retries < 0 {
		return b.retryDelays[0]
	}
	if retries >= len(b.retryDelays) {
		return b.retryDelays[len(b.retryDelays)-1]
	}
	return b.retryDelays[retries]
}
