package emit

import (
	"github.com/google/uuid"
	"github.com/launchdarkly/go-sdk-common/v3/ldtime"

	"github.com/emitlabs/go-emit-sdk/emevent"
)

// ContextPlugin is the built-in before-plugin: it stamps each event with a timestamp,
// a unique insert ID, the SDK library tag, and the client's tracking plan, unless the
// caller already provided them.
type ContextPlugin struct {
	contextString string
	plan          *emevent.Plan
}

// NewContextPlugin creates the context plugin. Every client gets one automatically.
func NewContextPlugin() *ContextPlugin {
	return &ContextPlugin{contextString: libraryName + "/" + Version}
}

func (p *ContextPlugin) Type() PluginType {
	return BeforePluginType
}

func (p *ContextPlugin) Setup(client *Client) {
	p.plan = client.config.Plan
}

func (p *ContextPlugin) Execute(event *emevent.Event) (*emevent.Event, error) {
	if event.Time == 0 {
		event.Time = ldtime.UnixMillisNow()
	}
	if event.InsertID == "" {
		if id, err := uuid.NewRandom(); err == nil {
			event.InsertID = id.String()
		}
	}
	if event.Library == "" {
		event.Library = p.contextString
	}
	if event.Plan == nil {
		event.Plan = p.plan
	}
	return event, nil
}
