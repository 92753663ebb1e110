package ports

import "context"

// Identity is the authenticated caller as reported by the external
// authentication service.
type Identity struct {
	Name string
	Role string
}

// Authenticator is consulted once per request. The core never holds user or
// session state of its own; password and session management live outside
// this module.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (Identity, error)
}
