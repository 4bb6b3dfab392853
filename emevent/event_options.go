package emevent

import (
	"github.com/launchdarkly/go-sdk-common/v3/ldtime"
)

// EventOptions carries the optional identity and context fields that the convenience
// client methods (Identify, Revenue, SetGroup) accept alongside their main argument.
// Zero-valued fields are ignored.
type EventOptions struct {
	UserID    string
	DeviceID  string
	Time      ldtime.UnixMillisecondTime
	InsertID  string
	SessionID int64
	EventID   int

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

	LocationLat float64
	LocationLng float64
	IP          string

	IDFA      string
	IDFV      string
	ADID      string
	AndroidID string

	Library   string
	PartnerID string
	Plan      *Plan

	Callback EventCallback
}

// LoadEventOptions copies every non-zero field of options into the event. A nil
// options value is a no-op.
func LoadEventOptions(e *Event, options *EventOptions) { //nolint:gocyclo // straight field mapping
	if e == nil || options == nil {
		return
	}
	if options.UserID != "" {
		e.UserID = options.UserID
	}
	if options.DeviceID != "" {
		e.DeviceID = options.DeviceID
	}
	if options.Time > 0 {
		e.Time = options.Time
	}
	if options.InsertID != "" {
		e.InsertID = options.InsertID
	}
	if options.SessionID != 0 {
		e.SessionID = options.SessionID
	}
	if options.EventID != 0 {
		e.EventID = options.EventID
	}
	if options.AppVersion != "" {
		e.AppVersion = options.AppVersion
	}
	if options.Platform != "" {
		e.Platform = options.Platform
	}
	if options.OSName != "" {
		e.OSName = options.OSName
	}
	if options.OSVersion != "" {
		e.OSVersion = options.OSVersion
	}
	if options.DeviceBrand != "" {
		e.DeviceBrand = options.DeviceBrand
	}
	if options.DeviceManufacturer != "" {
		e.DeviceManufacturer = options.DeviceManufacturer
	}
	if options.DeviceModel != "" {
		e.DeviceModel = options.DeviceModel
	}
	if options.Carrier != "" {
		e.Carrier = options.Carrier
	}
	if options.Country != "" {
		e.Country = options.Country
	}
	if options.Region != "" {
		e.Region = options.Region
	}
	if options.City != "" {
		e.City = options.City
	}
	if options.DMA != "" {
		e.DMA = options.DMA
	}
	if options.Language != "" {
		e.Language = options.Language
	}
	if options.LocationLat != 0 {
		e.LocationLat = options.LocationLat
	}
	if options.LocationLng != 0 {
		e.LocationLng = options.LocationLng
	}
	if options.IP != "" {
		e.IP = options.IP
	}
	if options.IDFA != "" {
		e.IDFA = options.IDFA
	}
	if options.IDFV != "" {
		e.IDFV = options.IDFV
	}
	if options.ADID != "" {
		e.ADID = options.ADID
	}
	if options.AndroidID != "" {
		e.AndroidID = options.AndroidID
	}
	if options.Library != "" {
		e.Library = options.Library
	}
	if options.PartnerID != "" {
		e.PartnerID = options.PartnerID
	}
	if options.Plan != nil {
		e.Plan = options.Plan
	}
	if options.Callback != nil {
		e.Callback = options.Callback
	}
}
