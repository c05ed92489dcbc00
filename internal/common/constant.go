// Package common contains shared constants used across the euem client.
package common

// HTTP header names and values used on every outbound API call.
const (
	ContentTypeHeader   = "Content-Type"
	AcceptHeader        = "Accept"
	AuthorizationHeader = "Authorization"
	RequestIDHeader     = "X-Request-ID"

	JSONContentType = "application/json"
)

// DefaultAPIBaseURL is used when no base URL is configured.
const DefaultAPIBaseURL = "https://euem.net/api"
