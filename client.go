package emit

import (
	"errors"
	"sync/atomic"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/emitlabs/go-emit-sdk/emevent"
)

// ErrInvalidEvent is returned by Track when an event lacks required fields or carries
// an invalid property bag.
var ErrInvalidEvent = errors.New("event must have an event type, an identity, and valid properties")

// Client is the top-level SDK object. Create one with NewClient, track events through
// it, and call Close before the host process exits so buffered events are delivered.
//
// All methods are safe for concurrent use.
type Client struct {
	apiKey   string
	config   Config
	loggers  ldlog.Loggers
	timeline *timeline
	optedOut int32
}

// NewClient creates a client and starts its background delivery engine.
func NewClient(apiKey string, config Config) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("api key is required")
	}
	c := &Client{
		apiKey:   apiKey,
		config:   config,
		loggers:  config.Loggers,
		timeline: newTimeline(),
	}
	if config.OptOut {
		atomic.StoreInt32(&c.optedOut, 1)
	}
	c.Add(NewContextPlugin())
	c.Add(NewEmitDestinationPlugin())
	return c, nil
}

// Track sends an event through the plugin timeline into the delivery engine.
func (c *Client) Track(event *emevent.Event) error {
	if c.OptedOut() {
		c.loggers.Debug("Skipped event for opt out config")
		return nil
	}
	return c.timeline.process(event)
}

// Identify sends a "$identify" event updating the user's properties.
func (c *Client) Identify(identify *emevent.Identify, options *emevent.EventOptions) error {
	if !identify.IsValid() {
		return errors.New("identify has no property operations")
	}
	event := emevent.NewIdentifyEvent(identify)
	emevent.LoadEventOptions(event, options)
	return c.Track(event)
}

// GroupIdentify sends a "$groupidentify" event updating one group's properties.
func (c *Client) GroupIdentify(groupType, groupName string, identify *emevent.Identify,
	options *emevent.EventOptions) error {
	if groupType == "" || groupName == "" {
		return errors.New("group type and group name are required")
	}
	if !identify.IsValid() {
		return errors.New("identify has no property operations")
	}
	event := emevent.NewGroupIdentifyEvent(groupType, groupName, identify)
	emevent.LoadEventOptions(event, options)
	return c.Track(event)
}

// SetGroup assigns the user to one or more groups of the given type.
func (c *Client) SetGroup(groupType string, groupNames []string, options *emevent.EventOptions) error {
	if groupType == "" || len(groupNames) == 0 {
		return errors.New("group type and at least one group name are required")
	}
	value := groupValue(groupNames)
	identify := emevent.NewIdentify().Set(groupType, value)
	event := emevent.NewIdentifyEvent(identify)
	event.Groups = map[string]ldvalue.Value{groupType: value}
	emevent.LoadEventOptions(event, options)
	return c.Track(event)
}

// Revenue sends a revenue event.
func (c *Client) Revenue(revenue *emevent.Revenue, options *emevent.EventOptions) error {
	if !revenue.IsValid() {
		return errors.New("revenue quantity must be positive")
	}
	event := revenue.ToRevenueEvent()
	emevent.LoadEventOptions(event, options)
	return c.Track(event)
}

// Flush synchronously delivers all buffered events.
func (c *Client) Flush() {
	c.timeline.flush()
}

// Close flushes buffered events and shuts the delivery engine down. The client is
// permanently opted out afterward; tracked events are discarded.
func (c *Client) Close() error {
	atomic.StoreInt32(&c.optedOut, 1)
	return c.timeline.shutdown()
}

// Add registers a plugin with the client's timeline and returns the client.
func (c *Client) Add(p Plugin) *Client {
	p.Setup(c)
	c.timeline.add(p)
	return c
}

// Remove unregisters a plugin from the client's timeline and returns the client.
func (c *Client) Remove(p Plugin) *Client {
	c.timeline.remove(p)
	return c
}

// OptOut sets whether the client discards tracked events.
func (c *Client) OptOut(optOut bool) {
	var v int32
	if optOut {
		v = 1
	}
	atomic.StoreInt32(&c.optedOut, v)
}

// OptedOut reports whether the client is discarding tracked events.
func (c *Client) OptedOut() bool {
	return atomic.LoadInt32(&c.optedOut) == 1
}

func groupValue(names []string) ldvalue.Value {
	if len(names) == 1 {
		return ldvalue.String(names[0])
	}
	b := ldvalue.ArrayBuild()
	for _, n := range names {
		b.Add(ldvalue.String(n))
	}
	return b.Build()
}
