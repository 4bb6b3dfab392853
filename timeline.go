package emit

import (
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/emitlabs/go-emit-sdk/emevent"
)

// timeline is the ordered plugin chain: before plugins, then enrichment plugins, then
// destination plugins. Plugins may be added or removed while events are flowing.
type timeline struct {
	mu           sync.RWMutex
	before       []EventPlugin
	enrichment   []EventPlugin
	destinations []DestinationPlugin
}

func newTimeline() *timeline {
	return &timeline{}
}

func (t *timeline) add(p Plugin) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch p.Type() {
	case BeforePluginType:
		if ep, ok := p.(EventPlugin); ok {
			t.before = append(t.before, ep)
		}
	case EnrichmentPluginType:
		if ep, ok := p.(EventPlugin); ok {
			t.enrichment = append(t.enrichment, ep)
		}
	case DestinationPluginType:
		if dp, ok := p.(DestinationPlugin); ok {
			t.destinations = append(t.destinations, dp)
		}
	}
}

func (t *timeline) remove(p Plugin) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, ep := range t.before {
		if Plugin(ep) == p {
			t.before = append(t.before[:i], t.before[i+1:]...)
			return
		}
	}
	for i, ep := range t.enrichment {
		if Plugin(ep) == p {
			t.enrichment = append(t.enrichment[:i], t.enrichment[i+1:]...)
			return
		}
	}
	for i, dp := range t.destinations {
		if Plugin(dp) == p {
			t.destinations = append(t.destinations[:i], t.destinations[i+1:]...)
			return
		}
	}
}

func (t *timeline) snapshot() (before, enrichment []EventPlugin, destinations []DestinationPlugin) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]EventPlugin(nil), t.before...),
		append([]EventPlugin(nil), t.enrichment...),
		append([]DestinationPlugin(nil), t.destinations...)
}

// process runs one event through the chain. A nil result from an event plugin drops
// the event silently; an error from any plugin stops processing.
func (t *timeline) process(event *emevent.Event) error {
	before, enrichment, destinations := t.snapshot()
	var err error
	for _, p := range append(before, enrichment...) {
		event, err = p.Execute(event)
		if err != nil {
			return err
		}
		if event == nil {
			return nil
		}
	}
	for _, dp := range destinations {
		if err := dp.Execute(event); err != nil {
			return err
		}
	}
	return nil
}

func (t *timeline) flush() {
	_, _, destinations := t.snapshot()
	group := &errgroup.Group{}
	for _, dp := range destinations {
		dp := dp
		group.Go(func() error {
			dp.Flush()
			return nil
		})
	}
	_ = group.Wait()
}

func (t *timeline) shutdown() error {
	_, _, destinations := t.snapshot()
	group := &errgroup.Group{}
	for _, dp := range destinations {
		dp := dp
		group.Go(dp.Shutdown)
	}
	return group.Wait()
}
