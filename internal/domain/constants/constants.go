// Package constants holds shared domain-level constants.
package constants

// Pub/Sub provider identifiers used in configuration.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// Mail provider identifiers used in configuration.
const (
	MailProviderLog  = "log"
	MailProviderHTTP = "http"
)
