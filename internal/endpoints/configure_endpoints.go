// Package endpoints contains the standard ingestion service URIs and the logic for
// choosing between them based on configuration.
package endpoints

import (
	"strings"
)

// ServerZone denotes which geographic instance of the ingestion service to use.
type ServerZone int

const (
	USZone ServerZone = iota //nolint:revive // internal constant
	EUZone ServerZone = iota //nolint:revive // internal constant
)

func (z ServerZone) String() string {
	switch z {
	case USZone:
		return "US"
	case EUZone:
		return "EU"
	default:
		return "???"
	}
}

// DefaultServerURLFor returns the standard endpoint for the given zone and API flavor.
func DefaultServerURLFor(zone ServerZone, useBatch bool) string {
	if zone == EUZone {
		if useBatch {
			return DefaultBatchServerURLEU
		}
		return DefaultServerURLEU
	}
	if useBatch {
		return DefaultBatchServerURL
	}
	return DefaultServerURL
}

// SelectServerURL is a helper for getting either a custom or a standard ingestion URL.
// An explicit override always wins; otherwise the URL is derived from the zone and
// whether the batch API was requested.
func SelectServerURL(zone ServerZone, useBatch bool, overrideValue string) string {
	if overrideValue != "" {
		return strings.TrimRight(overrideValue, "/")
	}
	return DefaultServerURLFor(zone, useBatch)
}
