package emit

import (
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/emitlabs/go-emit-sdk/emevent"
	"github.com/emitlabs/go-emit-sdk/emevents"
	"github.com/emitlabs/go-emit-sdk/internal/endpoints"
)

// EmitDestinationPlugin is the built-in destination: it verifies events and hands
// them to the delivery engine. Every client gets one automatically.
type EmitDestinationPlugin struct {
	dispatcher *emevents.Dispatcher
	loggers    ldlog.Loggers
}

// NewEmitDestinationPlugin creates the default destination plugin.
func NewEmitDestinationPlugin() *EmitDestinationPlugin {
	return &EmitDestinationPlugin{}
}

func (p *EmitDestinationPlugin) Type() PluginType {
	return DestinationPluginType
}

func (p *EmitDestinationPlugin) Setup(client *Client) {
	config := client.config
	p.loggers = client.loggers
	engineConfig := emevents.EventsConfiguration{
		APIKey: client.apiKey,
		ServerURL: endpoints.SelectServerURL(
			config.ServerZone.toEndpointZone(), config.UseBatch, config.ServerURL),
		FlushQueueSize: config.FlushQueueSize,
		FlushInterval:  config.FlushInterval,
		RetryDelays:    config.RetryDelays,
		BufferCapacity: config.BufferCapacity,
		MinIDLength:    config.MinIDLength,
		MaxWorkers:     config.MaxWorkers,
		ConnectTimeout: config.ConnectTimeout,
		HTTPClient:     config.HTTPClient,
		Callback:       config.Callback,
		Loggers:        client.loggers,
	}
	var buffer emevents.EventBuffer
	if config.EventBufferProvider != nil {
		buffer = config.EventBufferProvider(engineConfig)
	}
	p.dispatcher = emevents.NewDispatcher(engineConfig, buffer)
	p.dispatcher.Start()
}

func (p *EmitDestinationPlugin) Execute(event *emevent.Event) error {
	if !emevent.VerifyEvent(event) {
		return ErrInvalidEvent
	}
	if !emevent.ValidProperties(event.EventProperties) ||
		!emevent.ValidProperties(event.UserProperties) ||
		!emevent.ValidProperties(event.Groups) ||
		!emevent.ValidProperties(event.GroupProperties) {
		return ErrInvalidEvent
	}
	return p.dispatcher.Buffer().Push(event)
}

func (p *EmitDestinationPlugin) Flush() {
	p.dispatcher.Flush()
}

func (p *EmitDestinationPlugin) Shutdown() error {
	p.dispatcher.Stop()
	return nil
}
