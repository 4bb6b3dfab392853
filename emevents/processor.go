package emevents

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/launchdarkly/ccache"

	"github.com/emitlabs/go-emit-sdk/emevent"
)

// Throttled events that have not exceeded a daily quota are deliberately parked for a
// long fixed delay so they stop contending with fresh traffic.
const throttleRetryDelay = 30 * time.Second

const (
	quotaWarningCacheSize = 1000
	quotaWarningTTL       = 24 * time.Hour
)

// responseProcessor maps one delivery outcome plus the original ordered batch to a
// final disposition per event: success callback, re-push with a delay, or terminal
// failure callback. It is the only component that increments an event's retry count.
type responseProcessor struct {
	dispatcher  *Dispatcher
	buffer      EventBuffer
	config      EventsConfiguration
	quotaWarned *ccache.Cache
}

func newResponseProcessor(dispatcher *Dispatcher, buffer EventBuffer, config EventsConfiguration) *responseProcessor {
	return &responseProcessor{
		dispatcher:  dispatcher,
		buffer:      buffer,
		config:      config,
		quotaWarned: ccache.New(ccache.Configure().MaxSize(quotaWarningCacheSize)),
	}
}

func (p *responseProcessor) close() {
	p.quotaWarned.Stop()
}

// processResponse resolves every event in the batch exactly once. The only error it
// can return is an InvalidAPIKeyError, which the dispatcher treats as unrecoverable;
// in that case no per-event callbacks are issued.
func (p *responseProcessor) processResponse(res Response, events []*emevent.Event) error {
	switch res.Status {
	case StatusSuccess:
		p.config.Loggers.Debugf("Delivered %d events", len(events))
		p.triggerCallbacks(events, res.Code, "Event sent successfully.")
	case StatusTimeout, StatusFailed:
		p.retryEvents(events, 0, res.Code)
	case StatusPayloadTooLarge:
		p.processPayloadTooLarge(res, events)
	case StatusInvalidRequest:
		return p.processInvalidRequest(res, events)
	case StatusTooManyRequests:
		p.processTooManyRequests(res, events)
	default:
		message := res.ErrorMessage()
		if message == "" {
			message = "Unknown error"
		}
		p.config.Loggers.Errorf("Event delivery failed: %s", message)
		p.triggerCallbacks(events, res.Code, message)
	}
	return nil
}

func (p *responseProcessor) processPayloadTooLarge(res Response, events []*emevent.Event) {
	if len(events) == 1 {
		message := res.ErrorMessage()
		if message == "" {
			message = "Event was too large to send"
		}
		p.triggerCallbacks(events, res.Code, message)
		return
	}
	p.dispatcher.reduceBatchSize()
	p.config.Loggers.Warnf("Payload of %d events too large, reducing batch size to %d",
		len(events), p.dispatcher.BatchSize())
	p.retryEvents(events, 0, res.Code)
}

func (p *responseProcessor) processInvalidRequest(res Response, events []*emevent.Event) error {
	if strings.HasPrefix(res.ErrorMessage(), "Invalid API key:") {
		return InvalidAPIKeyError{APIKey: p.config.APIKey}
	}
	if field := res.MissingField(); field != "" {
		p.triggerCallbacks(events, res.Code, fmt.Sprintf("Request missing required field %s", field))
		return nil
	}
	// Each index resolves to exactly one outcome; first match wins.
	terminal := make(map[int]string)
	markIndexes(terminal, res.EventsWithInvalidFields(), "Invalid field %s")
	markIndexes(terminal, res.EventsWithMissingFields(), "Missing field %s")
	markIndexes(terminal, res.EventsWithInvalidIDLengths(), "Invalid ID length for field %s")
	for _, i := range res.SilencedEvents() {
		if _, seen := terminal[i]; !seen {
			terminal[i] = "Silenced event for device"
		}
	}
	for i, e := range events {
		if message, ok := terminal[i]; ok {
			p.triggerCallbacks([]*emevent.Event{e}, res.Code, message)
		} else {
			p.retryEvents([]*emevent.Event{e}, 0, res.Code)
		}
	}
	return nil
}

func (p *responseProcessor) processTooManyRequests(res Response, events []*emevent.Event) {
	throttled := make(map[int]bool)
	for _, i := range res.ThrottledEvents() {
		throttled[i] = true
	}
	for i, e := range events {
		switch {
		case throttled[i] && res.ExceedsDailyQuota(e):
			p.warnQuotaOnce(e)
			p.triggerCallbacks([]*emevent.Event{e}, res.Code, "Exceeded daily quota")
		case throttled[i]:
			p.retryEvents([]*emevent.Event{e}, throttleRetryDelay, res.Code)
		default:
			p.retryEvents([]*emevent.Event{e}, 0, res.Code)
		}
	}
}

// retryEvents increments each event's retry count and re-pushes it with the
// table-derived backoff plus extraDelay. A rejected push escalates to a terminal
// failure callback carrying the rejection message.
func (p *responseProcessor) retryEvents(events []*emevent.Event, extraDelay time.Duration, code int) {
	for _, e := range events {
		e.Retries++
		if err := p.buffer.PushWithDelay(e, extraDelay); err != nil {
			p.config.Loggers.Warnf("Dropping event after failed re-push: %s", err)
			p.triggerCallbacks([]*emevent.Event{e}, code, err.Error())
		}
	}
}

func (p *responseProcessor) triggerCallbacks(events []*emevent.Event, code int, message string) {
	for _, e := range events {
		if p.config.Callback != nil {
			p.config.Callback(e, code, message)
		}
		if e.Callback != nil {
			e.Callback(e, code, message)
		}
	}
}

// warnQuotaOnce logs the daily-quota condition at most once per identity per day, so
// a steady stream of rejected events does not flood the log.
func (p *responseProcessor) warnQuotaOnce(e *emevent.Event) {
	key := "user:" + e.UserID
	if e.UserID == "" {
		key = "device:" + e.DeviceID
	}
	if item := p.quotaWarned.Get(key); item != nil && !item.Expired() {
		return
	}
	p.quotaWarned.Set(key, true, quotaWarningTTL)
	p.config.Loggers.Warnf("Daily ingestion quota exceeded for %s", key)
}

func markIndexes(terminal map[int]string, fields map[string][]int, format string) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, i := range fields[name] {
			if _, seen := terminal[i]; !seen {
				terminal[i] = fmt.Sprintf(format, name)
			}
		}
	}
}
