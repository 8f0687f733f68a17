package apperrors

import (
	"encoding/json"
	"net/http"
)

// AppError is an error that carries the HTTP status it should be served with
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

func New(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

var (
	ErrInvalidRequest = New(http.StatusBadRequest, "Invalid request parameters")
	ErrUnauthorized   = New(http.StatusUnauthorized, "Unauthorized")
	ErrNotFound       = New(http.StatusNotFound, "Not found")
	ErrConflict       = New(http.StatusConflict, "Username already exists")
	ErrRateLimit      = New(http.StatusTooManyRequests, "Rate limit exceeded")
	ErrInternalServer = New(http.StatusInternalServerError, "Internal server error")
)

func BadRequest(msg string) *AppError {
	return New(http.StatusBadRequest, msg)
}

func NotFound(msg string) *AppError {
	return New(http.StatusNotFound, msg)
}

// Write serves e as a JSON body with e's status code.
func Write(w http.ResponseWriter, e *AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Code)
	json.NewEncoder(w).Encode(map[string]string{"error": e.Message})
}
