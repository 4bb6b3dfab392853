package emevents

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"

	"github.com/emitlabs/go-emit-sdk/emevent"
)

// makeEventPayload serializes a batch into the ingestion wire format:
//
//	{"api_key": "...", "events": [...], "options": {"min_id_length": n}}
//
// The options object is present only when minIDLength is positive.
func makeEventPayload(apiKey string, minIDLength int, events []*emevent.Event) ([]byte, error) {
	w := jwriter.NewWriter()
	obj := w.Object()
	obj.Name("api_key").String(apiKey)
	arr := obj.Name("events").Array()
	for _, e := range events {
		e.WriteBody(&w)
	}
	arr.End()
	if minIDLength > 0 {
		options := obj.Name("options").Object()
		options.Name("min_id_length").Int(minIDLength)
		options.End()
	}
	obj.End()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}
