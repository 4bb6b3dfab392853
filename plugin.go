package emit

import (
	"github.com/emitlabs/go-emit-sdk/emevent"
)

// PluginType determines where in the timeline a plugin runs.
type PluginType int

const (
	// BeforePluginType plugins run first, before any enrichment.
	BeforePluginType PluginType = iota
	// EnrichmentPluginType plugins run after before-plugins and may mutate or drop
	// events.
	EnrichmentPluginType
	// DestinationPluginType plugins run last and deliver events somewhere.
	DestinationPluginType
)

// Plugin is the common interface of all timeline plugins.
type Plugin interface {
	// Type returns the timeline stage the plugin belongs to.
	Type() PluginType
	// Setup is called once when the plugin is added to a client.
	Setup(client *Client)
}

// EventPlugin is a before or enrichment plugin. Execute may return a modified event,
// the same event, or nil to drop the event from the timeline.
type EventPlugin interface {
	Plugin
	Execute(event *emevent.Event) (*emevent.Event, error)
}

// DestinationPlugin receives fully processed events for delivery.
type DestinationPlugin interface {
	Plugin
	Execute(event *emevent.Event) error
	Flush()
	Shutdown() error
}
