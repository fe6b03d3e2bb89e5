// Package common contains shared constants, sentinel errors, and small helpers
// used by both the console client and the sandbox directory server.
package common

const (
	// AuthorizationHeaderName carries the bearer credential on outbound requests.
	AuthorizationHeaderName = "Authorization"
	// BearerPrefix precedes the token in the Authorization header.
	BearerPrefix = "Bearer "
	// RequestIDHeaderName correlates a client request with server logs.
	RequestIDHeaderName = "X-Request-ID"
	// SessionNamespace is the durable-storage key the session is persisted under.
	SessionNamespace = "auth-storage"
)
