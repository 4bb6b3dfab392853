package endpoints

const (
	// DefaultServerURL is the standard ingestion endpoint for the US zone.
	DefaultServerURL = "https://api2.emit.dev/2/httpapi"

	// DefaultServerURLEU is the standard ingestion endpoint for the EU zone.
	DefaultServerURLEU = "https://api.eu.emit.dev/2/httpapi"

	// DefaultBatchServerURL is the batch ingestion endpoint for the US zone.
	DefaultBatchServerURL = "https://api2.emit.dev/batch"

	// DefaultBatchServerURLEU is the batch ingestion endpoint for the EU zone.
	DefaultBatchServerURLEU = "https://api.eu.emit.dev/batch"
)
