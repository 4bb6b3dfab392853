package emevent

import (
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// Revenue describes a purchase to be reported as a revenue event.
type Revenue struct {
	Price       float64
	Quantity    int
	ProductID   string
	RevenueType string
	Receipt     string
	ReceiptSig  string
	Revenue     float64
	Properties  map[string]ldvalue.Value
}

// NewRevenue creates a Revenue for a single unit at the given price.
func NewRevenue(price float64) *Revenue {
	return &Revenue{Price: price, Quantity: 1}
}

// SetReceipt attaches a receipt and its signature for revenue verification.
func (r *Revenue) SetReceipt(receipt, signature string) *Revenue {
	r.Receipt = receipt
	r.ReceiptSig = signature
	return r
}

// IsValid reports whether the revenue has a positive quantity.
func (r *Revenue) IsValid() bool {
	return r.Quantity > 0
}

// GetEventProperties returns the event property bag for the revenue event, merging
// any custom Properties with the reserved revenue keys. Reserved keys win.
func (r *Revenue) GetEventProperties() map[string]ldvalue.Value {
	props := make(map[string]ldvalue.Value, len(r.Properties)+7)
	for k, v := range r.Properties {
		props[k] = v
	}
	if r.ProductID != "" {
		props[RevenueProductIDKey] = ldvalue.String(r.ProductID)
	}
	if r.RevenueType != "" {
		props[RevenueTypeKey] = ldvalue.String(r.RevenueType)
	}
	if r.Receipt != "" {
		props[RevenueReceiptKey] = ldvalue.String(r.Receipt)
	}
	if r.ReceiptSig != "" {
		props[RevenueReceiptSigKey] = ldvalue.String(r.ReceiptSig)
	}
	props[RevenueQuantityKey] = ldvalue.Int(r.Quantity)
	props[RevenuePriceKey] = ldvalue.Float64(r.Price)
	if r.Revenue != 0 {
		props[RevenueAmountKey] = ldvalue.Float64(r.Revenue)
	}
	return props
}

// ToRevenueEvent converts the revenue into a "revenue_amount" event.
func (r *Revenue) ToRevenueEvent() *Event {
	return &Event{
		EventType:       RevenueEventType,
		EventProperties: r.GetEventProperties(),
	}
}
