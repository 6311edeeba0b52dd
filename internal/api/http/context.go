package http

import (
	"context"
	"net/http"

	"ugeco-backoffice/internal/domain"
)

type contextKey string

const principalKey contextKey = "principal"

// WithPrincipal stores the authenticated caller in ctx.
func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// GetPrincipalFromContext returns the caller placed by the auth middleware.
func GetPrincipalFromContext(ctx context.Context) (domain.Principal, error) {
	p, ok := ctx.Value(principalKey).(domain.Principal)
	if !ok || p == nil {
		return nil, domain.Unauthorized("", "Authentication required")
	}
	return p, nil
}

// principalOrFail writes a 401 when no caller is present.
func principalOrFail(w http.ResponseWriter, r *http.Request) (domain.Principal, bool) {
	p, err := GetPrincipalFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	return p, true
}

// callerAndID resolves the caller and a numeric route variable, writing the
// error response when either is missing.
func callerAndID(w http.ResponseWriter, r *http.Request, name string) (domain.Principal, int32, bool) {
	caller, ok := principalOrFail(w, r)
	if !ok {
		return nil, 0, false
	}
	id, err := pathID(r, name)
	if err != nil {
		writeError(w, r, err)
		return nil, 0, false
	}
	return caller, id, true
}
