package middleware

import (
	"context"
	"log"
	"net/http"

	"event-platform/models"
	"event-platform/repository"
	"event-platform/utils"
)

// Header names carrying the credential pair.
const (
	AuthTokenHeader   = "Auth-Token"
	DeviceTokenHeader = "Device-Token"
)

type contextKey int

const userContextKey contextKey = iota

// Authenticate resolves the token-pair headers into a user and stores
// it in the request context. A missing or unknown pair is not an error
// here; the request simply stays unauthenticated and RequireAuth (or
// the handler) decides.
func Authenticate(tokens repository.TokenRepository, users repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authToken := r.Header.Get(AuthTokenHeader)
			deviceToken := r.Header.Get(DeviceTokenHeader)
			if authToken != "" && deviceToken != "" {
				token, err := tokens.FindPair(authToken, deviceToken)
				if err == nil && token != nil {
					user, err := users.FindByID(token.UserID)
					if err == nil && user != nil && user.IsActive {
						if err := tokens.TouchLastUsed(token.ID); err != nil {
							log.Printf("failed to touch token last_used_at: %v", err)
						}
						ctx := context.WithValue(r.Context(), userContextKey, user)
						r = r.WithContext(ctx)
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserFrom returns the authenticated user, or nil.
func UserFrom(r *http.Request) *models.User {
	user, _ := r.Context().Value(userContextKey).(*models.User)
	return user
}

// WithUser injects a user into the request context; used by tests.
func WithUser(r *http.Request, user *models.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userContextKey, user))
}

// RequireAuth rejects unauthenticated requests with 403.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if UserFrom(r) == nil {
			utils.RespondWithError(w, http.StatusForbidden,
				models.Error{Message: "Authentication required"})
			return
		}
		next(w, r)
	}
}
