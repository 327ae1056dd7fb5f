package auth

import "context"

// Roles recognized by the API.
const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
)

// Identity is the authenticated caller, derived from the session cookie.
// It is passed explicitly into workflow calls; nothing reads session state
// ambiently.
type Identity struct {
	ID    int64  `json:"user_id"`
	Role  string `json:"role"`
	Email string `json:"email"`
}

type contextKey string

const identityKey contextKey = "identity"

// WithIdentity returns a context carrying the identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns the caller's identity, if authenticated.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}
