package http

import (
	"context"
	"net/http"

	"kassan/internal/log"
	"kassan/internal/services"
)

// Identity headers asserted by the authenticating reverse proxy. Requests
// reaching this service without them are unauthenticated.
const (
	headerProfileID    = "X-Profile-Id"
	headerProfileEmail = "X-Profile-Email"
)

type identityKey struct{}

// profileID returns the authenticated profile id stored by the identity
// middleware.
func profileID(ctx context.Context) string {
	id, _ := ctx.Value(identityKey{}).(string)
	return id
}

// identityMiddleware upserts the asserted profile and stores its id in the
// request context. Missing headers yield 401.
func identityMiddleware(profiles *services.ProfileService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(headerProfileID)
			email := r.Header.Get(headerProfileEmail)
			if id == "" || email == "" {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing identity"})
				return
			}

			if _, err := profiles.Ensure(r.Context(), id, email); err != nil {
				log.FromContext(r.Context()).ErrorContext(r.Context(), "failed to ensure profile",
					log.FieldProfileID, id, log.FieldError, err.Error())
				writeError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
