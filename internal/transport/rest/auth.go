package rest

import (
	"context"
	"crypto/subtle"
	"errors"

	"netcontrol/internal/ports"
)

// StaticTokenAuthenticator accepts one shared operator token. It exists to
// wire the per-request authentication seam; real deployments plug a proper
// authentication service into ports.Authenticator instead.
type StaticTokenAuthenticator struct {
	token string
}

func NewStaticTokenAuthenticator(token string) *StaticTokenAuthenticator {
	return &StaticTokenAuthenticator{token: token}
}

var _ ports.Authenticator = (*StaticTokenAuthenticator)(nil)

func (a *StaticTokenAuthenticator) Authenticate(_ context.Context, token string) (ports.Identity, error) {
	if a.token == "" {
		return ports.Identity{Name: "operator", Role: "operator"}, nil
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) != 1 {
		return ports.Identity{}, errors.New("invalid token")
	}
	return ports.Identity{Name: "operator", Role: "operator"}, nil
}
