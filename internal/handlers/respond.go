package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/islmaice/connect/internal/apperrors"
	"github.com/islmaice/connect/internal/logger"
	"github.com/islmaice/connect/internal/middleware"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// serverError logs err against the request and answers with a generic 500.
func serverError(w http.ResponseWriter, r *http.Request, err error) {
	logger.Error().
		Err(err).
		Str("request_id", middleware.RequestIDFromContext(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("request failed")
	apperrors.Write(w, apperrors.ErrInternalServer)
}

// pathID parses a positive integer path variable.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// callerID reads the authenticated user. Routes that use it are mounted
// behind AuthMiddleware, so a missing id means a wiring error.
func callerID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		apperrors.Write(w, apperrors.ErrUnauthorized)
	}
	return id, ok
}
