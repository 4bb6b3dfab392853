package emit

import (
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	gocache "github.com/patrickmn/go-cache"

	"github.com/emitlabs/go-emit-sdk/emevent"
)

// DefaultDedupWindow is how long a device/insert ID pair is remembered by the
// deduplication plugin when no window is given.
const DefaultDedupWindow = 5 * time.Minute

// DedupPlugin is an optional enrichment plugin that drops events whose device ID and
// insert ID pair was already seen within the window. It protects against hosts that
// replay events on their own retry paths.
//
// It must be added after the built-in context plugin has had a chance to assign
// insert IDs, which is the normal ordering; events without an insert ID pass through.
type DedupPlugin struct {
	seen    *gocache.Cache
	loggers ldlog.Loggers
}

// NewDedupPlugin creates a deduplication plugin with the given window; a
// non-positive window means DefaultDedupWindow.
func NewDedupPlugin(window time.Duration) *DedupPlugin {
	if window <= 0 {
		window = DefaultDedupWindow
	}
	return &DedupPlugin{seen: gocache.New(window, window*2)}
}

func (p *DedupPlugin) Type() PluginType {
	return EnrichmentPluginType
}

func (p *DedupPlugin) Setup(client *Client) {
	p.loggers = client.loggers
}

func (p *DedupPlugin) Execute(event *emevent.Event) (*emevent.Event, error) {
	if event.InsertID == "" {
		return event, nil
	}
	key := event.DeviceID + ":" + event.InsertID
	if err := p.seen.Add(key, true, gocache.DefaultExpiration); err != nil {
		p.loggers.Debugf("Dropping duplicate event with insert_id %s", event.InsertID)
		return nil, nil
	}
	return event, nil
}
