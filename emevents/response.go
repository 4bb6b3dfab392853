package emevents

import (
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/emitlabs/go-emit-sdk/emevent"
)

// Status is the classified outcome of a delivery attempt.
type Status int

const (
	StatusUnknown Status = iota
	StatusSuccess
	StatusInvalidRequest
	StatusTimeout
	StatusPayloadTooLarge
	StatusTooManyRequests
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusInvalidRequest:
		return "INVALID_REQUEST"
	case StatusTimeout:
		return "TIMEOUT"
	case StatusPayloadTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case StatusTooManyRequests:
		return "TOO_MANY_REQUESTS"
	case StatusFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

func classifyStatusCode(code int) Status {
	switch {
	case code >= 200 && code < 300:
		return StatusSuccess
	case code == 429:
		return StatusTooManyRequests
	case code == 413:
		return StatusPayloadTooLarge
	case code == 408:
		return StatusTimeout
	case code >= 400 && code < 500:
		return StatusInvalidRequest
	case code >= 500:
		return StatusFailed
	default:
		return StatusUnknown
	}
}

// Response is a delivery outcome: the classified status, the HTTP status code (zero
// when no response was received), and the parsed response body. The accessors below
// expose the body fields the response processor acts on; each returns its zero value
// when the field is absent.
type Response struct {
	Status Status
	Code   int
	Body   ldvalue.Value
}

func newResponse(code int, body []byte) Response {
	return Response{
		Status: classifyStatusCode(code),
		Code:   code,
		Body:   ldvalue.Parse(body),
	}
}

// ErrorMessage returns the "error" field of the response body.
func (r Response) ErrorMessage() string {
	return r.Body.GetByKey("error").StringValue()
}

// MissingField returns the "missing_field" field of the response body.
func (r Response) MissingField() string {
	return r.Body.GetByKey("missing_field").StringValue()
}

// EventsWithInvalidFields maps each invalid field name to the payload indexes of the
// events carrying it.
func (r Response) EventsWithInvalidFields() map[string][]int {
	return indexMapFromValue(r.Body.GetByKey("events_with_invalid_fields"))
}

// EventsWithMissingFields maps each missing field name to the payload indexes of the
// events lacking it.
func (r Response) EventsWithMissingFields() map[string][]int {
	return indexMapFromValue(r.Body.GetByKey("events_with_missing_fields"))
}

// EventsWithInvalidIDLengths maps each too-short ID field name to the payload indexes
// of the offending events.
func (r Response) EventsWithInvalidIDLengths() map[string][]int {
	return indexMapFromValue(r.Body.GetByKey("events_with_invalid_id_lengths"))
}

// SilencedEvents returns the payload indexes of events the service silenced.
func (r Response) SilencedEvents() []int {
	return intsFromValue(r.Body.GetByKey("silenced_events"))
}

// ThrottledEvents returns the payload indexes of events the service throttled.
func (r Response) ThrottledEvents() []int {
	return intsFromValue(r.Body.GetByKey("throttled_events"))
}

// ExceedsDailyQuota reports whether the event's user or device appears in the
// response's exceeded-daily-quota sets.
func (r Response) ExceedsDailyQuota(event *emevent.Event) bool {
	if event.UserID != "" && !r.Body.GetByKey("exceeded_daily_quota_users").GetByKey(event.UserID).IsNull() {
		return true
	}
	if event.DeviceID != "" && !r.Body.GetByKey("exceeded_daily_quota_devices").GetByKey(event.DeviceID).IsNull() {
		return true
	}
	return false
}

func intsFromValue(v ldvalue.Value) []int {
	if v.Type() != ldvalue.ArrayType {
		return nil
	}
	out := make([]int, 0, v.Count())
	for i := 0; i < v.Count(); i++ {
		out = append(out, v.GetByIndex(i).IntValue())
	}
	return out
}

func indexMapFromValue(v ldvalue.Value) map[string][]int {
	if v.Type() != ldvalue.ObjectType {
		return nil
	}
	out := make(map[string][]int, v.Count())
	for _, key := range v.Keys(nil) {
		out[key] = intsFromValue(v.GetByKey(key))
	}
	return out
}
