// Package emevents implements the delivery engine of the SDK: a delay-ordered event
// buffer, a dispatcher with a pool of send workers, HTTP delivery, and the
// response-driven retry logic.
//
// The only state shared between components is the EventBuffer; everything else
// communicates over channels, following the usual one-consumer-many-workers shape.
package emevents

import (
	"time"

	"github.com/emitlabs/go-emit-sdk/emevent"
)

// EventBuffer is the holding area for events awaiting delivery. Events become
// deliverable at a per-event ready time; the buffer keeps them ordered by that time.
//
// Implementations must be safe for concurrent use and must signal arrivals on the
// channel returned by NotifyCh.
type EventBuffer interface {
	// Push adds an event, scheduling it for delivery after the backoff delay that
	// corresponds to the event's Retries count. It returns ErrBufferFull or a
	// MaxRetriesExceededError when the event cannot be accepted.
	Push(event *emevent.Event) error

	// PushWithDelay is Push with an extra delay added on top of the backoff delay.
	PushWithDelay(event *emevent.Event, delay time.Duration) error

	// Pull removes and returns up to count events whose ready time has arrived,
	// oldest first.
	Pull(count int) []*emevent.Event

	// PullAll removes and returns every event, deliverable or not, oldest first.
	PullAll() []*emevent.Event

	// WaitTime returns how long the consumer may sleep before an event becomes
	// deliverable, never more than the flush interval.
	WaitTime() time.Duration

	// NotifyCh returns the channel signaled (without blocking) whenever an event is
	// pushed.
	NotifyCh() <-chan struct{}

	// Len returns the number of buffered events.
	Len() int
}

// EventBufferProvider constructs the buffer for a dispatcher, letting hosts
// substitute their own buffering.
type EventBufferProvider func(config EventsConfiguration) EventBuffer

// EventSender delivers one serialized payload and reports the classified outcome.
// Implementations never return errors; transport failures are folded into the
// Response status.
type EventSender interface {
	SendEventData(data []byte) Response
}
