package emevents

import (
	"errors"
	"fmt"
)

// ErrBufferFull is returned by EventBuffer.Push when a retried event is rejected
// because the buffer is over capacity. The event's terminal callback receives this
// message.
var ErrBufferFull = errors.New("buffer full, retry temporarily disabled")

// MaxRetriesExceededError is returned by EventBuffer.Push when an event has already
// failed as many deliveries as the retry table allows.
type MaxRetriesExceededError struct {
	MaxRetries int
}

func (e MaxRetriesExceededError) Error() string {
	return fmt.Sprintf("event reached max retry times %d", e.MaxRetries)
}

// InvalidAPIKeyError is the unrecoverable condition: the service rejected the
// configured API key. The dispatcher stops delivering when it sees this.
type InvalidAPIKeyError struct {
	APIKey string
}

func (e InvalidAPIKeyError) Error() string {
	return fmt.Sprintf("invalid API key: %s", e.APIKey)
}
