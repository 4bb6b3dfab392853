package emevents

import (
	"sync"
	"testing"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emitlabs/go-emit-sdk/emevent"
)

type fakeSender struct {
	mu        sync.Mutex
	responses []Response
	payloads  [][]byte
}

func (s *fakeSender) SendEventData(data []byte) Response {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads = append(s.payloads, data)
	if len(s.responses) == 0 {
		return Response{Status: StatusSuccess, Code: 200}
	}
	res := s.responses[0]
	s.responses = s.responses[1:]
	return res
}

func (s *fakeSender) payloadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payloads)
}

func collectCallbacks(t *testing.T, ch <-chan callbackCall, n int) []callbackCall {
	t.Helper()
	calls := make([]callbackCall, 0, n)
	deadline := time.After(3 * time.Second)
	for len(calls) < n {
		select {
		case call := <-ch:
			calls = append(calls, call)
		case <-deadline:
			t.Fatalf("timed out waiting for callbacks, got %d of %d", len(calls), n)
		}
	}
	return calls
}

func TestFlushDeliversAllBufferedEventsBeforeReturning(t *testing.T) {
	sender := &fakeSender{}
	recorder := &callbackRecorder{}
	d := NewDispatcher(EventsConfiguration{
		APIKey:      "key",
		EventSender: sender,
		Callback:    recorder.callback,
	}, nil)

	const k = 25
	for _, e := range makeBatch(k) {
		require.NoError(t, d.Buffer().Push(e))
	}
	d.Flush()

	calls := recorder.getCalls()
	require.Len(t, calls, k)
	for _, call := range calls {
		assert.Equal(t, 200, call.code)
		assert.Equal(t, "Event sent successfully.", call.message)
	}
	assert.Equal(t, 1, sender.payloadCount())
	assert.Equal(t, 0, d.Buffer().Len())
}

func TestFlushIncludesEventsWhoseBackoffHasNotElapsed(t *testing.T) {
	sender := &fakeSender{}
	recorder := &callbackRecorder{}
	d := NewDispatcher(EventsConfiguration{
		APIKey:      "key",
		EventSender: sender,
		Callback:    recorder.callback,
	}, nil)

	e := &emevent.Event{EventType: "late", UserID: "u"}
	require.NoError(t, d.Buffer().PushWithDelay(e, time.Hour))
	d.Flush()

	require.Len(t, recorder.getCalls(), 1)
}

func TestDispatcherDeliversEventsInBackground(t *testing.T) {
	sender := &fakeSender{}
	callbackCh := make(chan callbackCall, 100)
	d := NewDispatcher(EventsConfiguration{
		APIKey:        "key",
		EventSender:   sender,
		FlushInterval: 50 * time.Millisecond,
		Callback: func(e *emevent.Event, code int, message string) {
			callbackCh <- callbackCall{event: e, code: code, message: message}
		},
	}, nil)
	d.Start()
	defer d.Stop()

	events := makeBatch(3)
	for _, e := range events {
		require.NoError(t, d.Buffer().Push(e))
	}

	calls := collectCallbacks(t, callbackCh, 3)
	for _, call := range calls {
		assert.Equal(t, 200, call.code)
	}
}

func TestDispatcherRedeliversAfterTransientFailure(t *testing.T) {
	sender := &fakeSender{responses: []Response{{Status: StatusFailed, Code: 500}}}
	callbackCh := make(chan callbackCall, 100)
	d := NewDispatcher(EventsConfiguration{
		APIKey:        "key",
		EventSender:   sender,
		FlushInterval: 20 * time.Millisecond,
		RetryDelays:   []time.Duration{0, 10 * time.Millisecond, 10 * time.Millisecond},
		Callback: func(e *emevent.Event, code int, message string) {
			callbackCh <- callbackCall{event: e, code: code, message: message}
		},
	}, nil)
	d.Start()
	defer d.Stop()

	require.NoError(t, d.Buffer().Push(&emevent.Event{EventType: "e", UserID: "u"}))

	calls := collectCallbacks(t, callbackCh, 1)
	assert.Equal(t, 200, calls[0].code)
	assert.Equal(t, 1, calls[0].event.Retries)
	assert.True(t, sender.payloadCount() >= 2)
}

func TestStopPerformsFinalFlushAndIsIdempotent(t *testing.T) {
	sender := &fakeSender{}
	recorder := &callbackRecorder{}
	d := NewDispatcher(EventsConfiguration{
		APIKey:      "key",
		EventSender: sender,
		Callback:    recorder.callback,
	}, nil)
	d.Start()

	for _, e := range makeBatch(5) {
		require.NoError(t, d.Buffer().Push(e))
	}
	d.Stop()
	d.Stop()

	assert.Len(t, recorder.getCalls(), 5)
	assert.Equal(t, 0, d.Buffer().Len())
}

func TestStopWithoutStartStillFlushes(t *testing.T) {
	sender := &fakeSender{}
	recorder := &callbackRecorder{}
	d := NewDispatcher(EventsConfiguration{
		APIKey:      "key",
		EventSender: sender,
		Callback:    recorder.callback,
	}, nil)
	require.NoError(t, d.Buffer().Push(&emevent.Event{EventType: "e", UserID: "u"}))
	d.Stop()
	assert.Len(t, recorder.getCalls(), 1)
}

func TestDispatcherDisablesDeliveryAfterInvalidAPIKey(t *testing.T) {
	fatal := Response{Status: StatusInvalidRequest, Code: 400, Body: ldvalue.ObjectBuild().
		Set("error", ldvalue.String("Invalid API key: key")).Build()}
	sender := &fakeSender{responses: []Response{fatal}}
	recorder := &callbackRecorder{}
	d := NewDispatcher(EventsConfiguration{
		APIKey:      "key",
		EventSender: sender,
		Callback:    recorder.callback,
	}, nil)

	require.NoError(t, d.Buffer().Push(&emevent.Event{EventType: "e", UserID: "u"}))
	d.Flush()
	assert.True(t, d.Disabled())
	assert.Empty(t, recorder.getCalls())

	// later sends are dropped without reaching the transport
	require.NoError(t, d.Buffer().Push(&emevent.Event{EventType: "e2", UserID: "u"}))
	d.Flush()
	assert.Equal(t, 1, sender.payloadCount())
	assert.Empty(t, recorder.getCalls())
}

func TestBatchSizeStartsAtFlushQueueSize(t *testing.T) {
	d := NewDispatcher(EventsConfiguration{APIKey: "key", FlushQueueSize: 42, EventSender: &fakeSender{}}, nil)
	assert.Equal(t, 42, d.BatchSize())
}
