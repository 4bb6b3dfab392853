package emevent

// Special event types understood by the ingestion service.
const (
	IdentifyEventType      = "$identify"
	GroupIdentifyEventType = "$groupidentify"
	RevenueEventType       = "revenue_amount"
)

// Identity operation names for user property updates.
const (
	OpSet        = "$set"
	OpSetOnce    = "$setOnce"
	OpAppend     = "$append"
	OpPrepend    = "$prepend"
	OpPreInsert  = "$preInsert"
	OpPostInsert = "$postInsert"
	OpRemove     = "$remove"
	OpAdd        = "$add"
	OpUnset      = "$unset"
	OpClearAll   = "$clearAll"
)

// UnsetValue is the placeholder value the service expects for $unset operations.
const UnsetValue = "-"

// Reserved event property keys for revenue events.
const (
	RevenueProductIDKey  = "$productId"
	RevenueQuantityKey   = "$quantity"
	RevenuePriceKey      = "$price"
	RevenueTypeKey       = "$revenueType"
	RevenueReceiptKey    = "$receipt"
	RevenueReceiptSigKey = "$receiptSig"
	RevenueAmountKey     = "$revenue"
)

// Limits enforced when serializing property bags.
const (
	MaxPropertyKeys = 1024
	MaxStringLength = 1024
)
