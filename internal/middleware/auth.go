package middleware

import (
	"context"
	"net/http"

	"github.com/islmaice/connect/internal/apperrors"
	"github.com/islmaice/connect/internal/auth"
)

type contextKey string

const (
	userIDKey    contextKey = "user_id"
	requestIDKey contextKey = "request_id"
	requestKey   contextKey = "request_state"
)

// AuthMiddleware resolves the caller from the session cookie and stores the
// user id in the request context. Requests without a valid session get 401.
func AuthMiddleware(sessions *auth.Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.CookieName)
			if err != nil {
				apperrors.Write(w, apperrors.ErrUnauthorized)
				return
			}

			userID, err := sessions.Verify(cookie.Value)
			if err != nil {
				apperrors.Write(w, apperrors.ErrUnauthorized)
				return
			}

			if st, ok := r.Context().Value(requestKey).(*requestState); ok {
				st.userID = userID
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// WithUserID returns a copy of ctx carrying the authenticated user id.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the authenticated user id, or false when the
// request did not pass through AuthMiddleware.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok && id > 0
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
