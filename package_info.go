// Package emit is the main package of the Emit Go SDK. The host application creates a
// Client, tracks events through it, and the SDK buffers, batches, and delivers them
// to the ingestion service in the background.
package emit

// Version is the client version; it is reported in each event's library field.
const Version = "1.0.0"

// libraryName identifies this SDK on the wire.
const libraryName = "go-emit-sdk"
