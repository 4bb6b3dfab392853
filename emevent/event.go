// Package emevent defines the event model used by the SDK: the Event struct and its
// wire-format serialization, the Identify and Revenue builders, and the property
// validation and truncation rules applied before events are sent.
//
// Property bags are maps of string to ldvalue.Value, the closed JSON value type from
// go-sdk-common. Unset optional fields are represented by zero values and are omitted
// from the serialized body.
package emevent

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/launchdarkly/go-sdk-common/v3/ldtime"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// EventCallback is invoked with the final outcome of an event: the HTTP status code
// of the response that settled it (or zero when no response was involved) and a
// human-readable message.
type EventCallback func(event *Event, code int, message string)

// Event is a single telemetry event. EventType is required; either UserID or DeviceID
// must be set for the event to be accepted (group identify events are exempt).
//
// Retries counts how many delivery attempts have failed so far; it is managed by the
// delivery engine and should be left at zero by callers.
type Event struct {
	EventType string
	UserID    string
	DeviceID  string
	Time      ldtime.UnixMillisecondTime

	EventProperties map[string]ldvalue.Value
	UserProperties  map[string]ldvalue.Value
	Groups          map[string]ldvalue.Value
	GroupProperties map[string]ldvalue.Value

	AppVersion         string
	Platform           string
	OSName             string
	OSVersion          string
	DeviceBrand        string
	DeviceManufacturer string
	DeviceModel        string
	Carrier            string
	Country            string
	Region             string
	City               string
	DMA                string
	Language           string

	Price       float64
	Quantity    int
	Revenue     float64
	ProductID   string
	RevenueType string

	LocationLat float64
	LocationLng float64
	IP          string

	IDFA      string
	IDFV      string
	ADID      string
	AndroidID string

	EventID   int
	SessionID int64
	InsertID  string
	Library   string
	PartnerID string
	Plan      *Plan

	Callback EventCallback
	Retries  int
}

// Plan describes the tracking plan an event was produced under.
type Plan struct {
	Branch    string
	Source    string
	Version   string
	VersionID string
}

func (p *Plan) eventBody() ldvalue.Value {
	b := ldvalue.ObjectBuild()
	if p.Branch != "" {
		b.Set("branch", ldvalue.String(p.Branch))
	}
	if p.Source != "" {
		b.Set("source", ldvalue.String(p.Source))
	}
	if p.Version != "" {
		b.Set("version", ldvalue.String(p.Version))
	}
	if p.VersionID != "" {
		b.Set("versionId", ldvalue.String(p.VersionID))
	}
	return b.Build()
}

// EventBody returns the wire representation of the event as a JSON object value.
// Unset fields are omitted, strings are truncated to MaxStringLength characters, and
// property bags exceeding MaxPropertyKeys are replaced by empty objects.
func (e *Event) EventBody() ldvalue.Value { //nolint:gocyclo // straight field mapping
	b := ldvalue.ObjectBuild()
	setString := func(key, value string) {
		if value != "" {
			b.Set(key, ldvalue.String(truncateString(value)))
		}
	}
	setString("event_type", e.EventType)
	setString("user_id", e.UserID)
	setString("device_id", e.DeviceID)
	if e.Time > 0 {
		b.Set("time", ldvalue.Int(int(e.Time)))
	}
	if len(e.EventProperties) > 0 {
		b.Set("event_properties", objectFromMap(truncateProperties(e.EventProperties)))
	}
	if len(e.UserProperties) > 0 {
		b.Set("user_properties", objectFromMap(truncateProperties(e.UserProperties)))
	}
	if len(e.Groups) > 0 {
		b.Set("groups", objectFromMap(truncateProperties(e.Groups)))
	}
	if len(e.GroupProperties) > 0 {
		b.Set("group_properties", objectFromMap(truncateProperties(e.GroupProperties)))
	}
	setString("app_version", e.AppVersion)
	setString("platform", e.Platform)
	setString("os_name", e.OSName)
	setString("os_version", e.OSVersion)
	setString("device_brand", e.DeviceBrand)
	setString("device_manufacturer", e.DeviceManufacturer)
	setString("device_model", e.DeviceModel)
	setString("carrier", e.Carrier)
	setString("country", e.Country)
	setString("region", e.Region)
	setString("city", e.City)
	setString("dma", e.DMA)
	setString("language", e.Language)
	if e.Price != 0 {
		b.Set("price", ldvalue.Float64(e.Price))
	}
	if e.Quantity != 0 {
		b.Set("quantity", ldvalue.Int(e.Quantity))
	}
	if e.Revenue != 0 {
		b.Set("revenue", ldvalue.Float64(e.Revenue))
	}
	setString("productId", e.ProductID)
	setString("revenueType", e.RevenueType)
	if e.LocationLat != 0 {
		b.Set("location_lat", ldvalue.Float64(e.LocationLat))
	}
	if e.LocationLng != 0 {
		b.Set("location_lng", ldvalue.Float64(e.LocationLng))
	}
	setString("ip", e.IP)
	setString("idfa", e.IDFA)
	setString("idfv", e.IDFV)
	setString("adid", e.ADID)
	setString("android_id", e.AndroidID)
	if e.EventID != 0 {
		b.Set("event_id", ldvalue.Int(e.EventID))
	}
	if e.SessionID != 0 {
		b.Set("session_id", ldvalue.Int(int(e.SessionID)))
	}
	setString("insert_id", e.InsertID)
	setString("library", e.Library)
	setString("partner_id", e.PartnerID)
	if e.Plan != nil {
		b.Set("plan", e.Plan.eventBody())
	}
	return b.Build()
}

// WriteBody streams the event's wire representation to a JSON writer.
func (e *Event) WriteBody(w *jwriter.Writer) {
	e.EventBody().WriteToJSONWriter(w)
}

// VerifyEvent reports whether an event carries the fields the ingestion service
// requires: an event type, and at least one of user ID or device ID. Group identify
// events are exempt from the identity requirement.
func VerifyEvent(e *Event) bool {
	if e == nil || e.EventType == "" {
		return false
	}
	if e.EventType == GroupIdentifyEventType {
		return true
	}
	return e.UserID != "" || e.DeviceID != ""
}

// NewIdentifyEvent builds a "$identify" event from an Identify builder.
func NewIdentifyEvent(identify *Identify) *Event {
	return &Event{
		EventType:      IdentifyEventType,
		UserProperties: identify.Properties(),
	}
}

// NewGroupIdentifyEvent builds a "$groupidentify" event updating the properties of
// one group.
func NewGroupIdentifyEvent(groupType, groupName string, identify *Identify) *Event {
	return &Event{
		EventType:       GroupIdentifyEventType,
		Groups:          map[string]ldvalue.Value{groupType: ldvalue.String(groupName)},
		GroupProperties: identify.Properties(),
	}
}

func objectFromMap(m map[string]ldvalue.Value) ldvalue.Value {
	b := ldvalue.ObjectBuild()
	for k, v := range m {
		b.Set(k, v)
	}
	return b.Build()
}
