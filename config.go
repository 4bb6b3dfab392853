package emit

import (
	"net/http"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/emitlabs/go-emit-sdk/emevent"
	"github.com/emitlabs/go-emit-sdk/emevents"
	"github.com/emitlabs/go-emit-sdk/internal/endpoints"
)

// ServerZone selects the geographic instance of the ingestion service.
type ServerZone int

const (
	USZone ServerZone = iota
	EUZone
)

func (z ServerZone) toEndpointZone() endpoints.ServerZone {
	if z == EUZone {
		return endpoints.EUZone
	}
	return endpoints.USZone
}

// Config holds the optional settings for a Client. The zero value is a valid
// configuration; every field has a reasonable default.
type Config struct {
	// FlushQueueSize is the starting delivery batch size.
	FlushQueueSize int

	// FlushInterval is the longest the SDK waits before attempting delivery of
	// buffered events.
	FlushInterval time.Duration

	// RetryDelays overrides the delivery backoff table; see
	// emevents.DefaultRetryDelays.
	RetryDelays []time.Duration

	// BufferCapacity bounds the in-memory event buffer; see
	// emevents.EventsConfiguration.
	BufferCapacity int

	// MaxWorkers is the number of concurrent delivery workers.
	MaxWorkers int

	// MinIDLength, if positive, relaxes or tightens the service's minimum
	// user/device ID length.
	MinIDLength int

	// Callback, if set, receives the final outcome of every event.
	Callback emevent.EventCallback

	// ServerZone selects the US or EU ingestion service. Ignored when ServerURL is
	// set.
	ServerZone ServerZone

	// UseBatch selects the batch ingestion API instead of the standard one. Ignored
	// when ServerURL is set.
	UseBatch bool

	// ServerURL overrides the ingestion endpoint entirely.
	ServerURL string

	// ConnectTimeout is the per-request delivery timeout.
	ConnectTimeout time.Duration

	// HTTPClient, if set, is used for all deliveries. See the emhttp and emntlm
	// packages for building clients with custom transport options.
	HTTPClient *http.Client

	// EventBufferProvider, if set, supplies a custom buffer implementation to the
	// delivery engine.
	EventBufferProvider emevents.EventBufferProvider

	// Plan is attached to every event that does not carry its own tracking plan.
	Plan *emevent.Plan

	// OptOut starts the client in the opted-out state, in which tracked events are
	// discarded.
	OptOut bool

	// Loggers is the logging destination for the SDK.
	Loggers ldlog.Loggers
}
