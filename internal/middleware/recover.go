package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/islmaice/connect/internal/apperrors"
	"github.com/islmaice/connect/internal/logger"
)

// RecoverMiddleware turns a panicking handler into a logged 500.
func RecoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				logger.Error().
					Str("request_id", RequestIDFromContext(r.Context())).
					Str("panic", fmt.Sprintf("%v", v)).
					Str("stack", string(debug.Stack())).
					Msg("panic recovered")
				apperrors.Write(w, apperrors.ErrInternalServer)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
