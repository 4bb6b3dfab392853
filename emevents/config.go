package emevents

import (
	"net/http"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/emitlabs/go-emit-sdk/emevent"
)

// Default configuration values used when the corresponding EventsConfiguration field
// is zero.
const (
	DefaultFlushQueueSize = 200
	DefaultFlushInterval  = time.Second * 10
	DefaultBufferCapacity = 20000
	DefaultMaxWorkers     = 16
	DefaultConnectTimeout = time.Second * 10
)

// DefaultRetryDelays returns the standard backoff table. The value at index n is the
// delay applied when buffering an event that has already failed n deliveries, so new
// events (index 0) are deliverable immediately. An event whose failure count reaches
// the table length is permanently rejected.
func DefaultRetryDelays() []time.Duration {
	ms := func(n int) time.Duration { return time.Duration(n) * time.Millisecond }
	return []time.Duration{
		0, ms(100), ms(100), ms(200), ms(200), ms(400), ms(400),
		ms(800), ms(800), ms(1600), ms(1600), ms(3200), ms(3200),
	}
}

// EventsConfiguration contains options affecting the delivery engine. All fields are
// optional except APIKey and ServerURL; zero values are replaced by the defaults above.
type EventsConfiguration struct {
	// APIKey is the ingestion key sent with every payload.
	APIKey string

	// ServerURL is the full ingestion endpoint URL.
	ServerURL string

	// FlushQueueSize is the starting batch size for each delivery. It is halved
	// (down to 1) whenever the service reports a payload as too large.
	FlushQueueSize int

	// FlushInterval is the longest the consumer sleeps between looking for
	// deliverable events.
	FlushInterval time.Duration

	// RetryDelays is the backoff table; see DefaultRetryDelays.
	RetryDelays []time.Duration

	// BufferCapacity bounds how many events may sit in the buffer before pushes of
	// retried events are rejected. New events are always accepted.
	BufferCapacity int

	// MinIDLength, if positive, is sent to the service as the minimum acceptable
	// user/device ID length.
	MinIDLength int

	// MaxWorkers is the size of the send worker pool.
	MaxWorkers int

	// ConnectTimeout is the per-request timeout used when the engine constructs its
	// own HTTP client.
	ConnectTimeout time.Duration

	// HTTPClient, if set, is used for all deliveries instead of a default client.
	HTTPClient *http.Client

	// Callback, if set, receives the final outcome of every event in addition to any
	// per-event callback.
	Callback emevent.EventCallback

	// EventSender, if set, replaces the default HTTP delivery mechanism.
	EventSender EventSender

	// Loggers is the logging destination for the engine.
	Loggers ldlog.Loggers
}

func (c EventsConfiguration) withDefaults() EventsConfiguration {
	if c.FlushQueueSize <= 0 {
		c.FlushQueueSize = DefaultFlushQueueSize
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = DefaultFlushInterval
	}
	if len(c.RetryDelays) == 0 {
		c.RetryDelays = DefaultRetryDelays()
	}
	if c.BufferCapacity <= 0 {
		c.BufferCapacity = DefaultBufferCapacity
	}
	if c.MaxWorkers <= 0 {
		c.MaxWorkers = DefaultMaxWorkers
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	return c
}
