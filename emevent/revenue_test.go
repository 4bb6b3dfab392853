package emevent

import (
	"testing"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"github.com/stretchr/testify/assert"
)

func TestRevenueValidation(t *testing.T) {
	assert.True(t, NewRevenue(9.99).IsValid())
	assert.False(t, (&Revenue{Price: 9.99}).IsValid())
	assert.False(t, (&Revenue{Price: 9.99, Quantity: -1}).IsValid())
}

func TestRevenueEventProperties(t *testing.T) {
	r := NewRevenue(9.99)
	r.ProductID = "sku-1"
	r.RevenueType = "purchase"
	r.Revenue = 19.98
	r.Quantity = 2
	r.SetReceipt("receipt-data", "receipt-sig")
	r.Properties = map[string]ldvalue.Value{"coupon": ldvalue.String("SAVE10")}

	props := r.GetEventProperties()
	assert.Equal(t, ldvalue.String("sku-1"), props[RevenueProductIDKey])
	assert.Equal(t, ldvalue.String("purchase"), props[RevenueTypeKey])
	assert.Equal(t, ldvalue.Int(2), props[RevenueQuantityKey])
	assert.Equal(t, ldvalue.Float64(9.99), props[RevenuePriceKey])
	assert.Equal(t, ldvalue.Float64(19.98), props[RevenueAmountKey])
	assert.Equal(t, ldvalue.String("receipt-data"), props[RevenueReceiptKey])
	assert.Equal(t, ldvalue.String("receipt-sig"), props[RevenueReceiptSigKey])
	assert.Equal(t, ldvalue.String("SAVE10"), props["coupon"])
}

func TestRevenueReservedKeysWinOverCustomProperties(t *testing.T) {
	r := NewRevenue(1)
	r.ProductID = "real-sku"
	r.Properties = map[string]ldvalue.Value{RevenueProductIDKey: ldvalue.String("spoofed")}
	assert.Equal(t, ldvalue.String("real-sku"), r.GetEventProperties()[RevenueProductIDKey])
}

func TestToRevenueEvent(t *testing.T) {
	e := NewRevenue(5).ToRevenueEvent()
	assert.Equal(t, RevenueEventType, e.EventType)
	assert.Equal(t, ldvalue.Float64(5), e.EventProperties[RevenuePriceKey])
	assert.Equal(t, ldvalue.Int(1), e.EventProperties[RevenueQuantityKey])
}
