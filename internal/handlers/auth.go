package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/islmaice/connect/internal/apperrors"
	"github.com/islmaice/connect/internal/auth"
	"github.com/islmaice/connect/internal/clock"
	"github.com/islmaice/connect/internal/logger"
	"github.com/islmaice/connect/internal/models"
	"github.com/islmaice/connect/internal/store"
	"golang.org/x/crypto/bcrypt"
)

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SignupRequest struct {
	Username    string        `json:"username"`
	Password    string        `json:"password"`
	Email       string        `json:"email"`
	DisplayName string        `json:"display_name"`
	Gender      models.Gender `json:"gender"`
	Age         *int          `json:"age"`
}

type AuthHandler struct {
	Store    store.Store
	Sessions *auth.Sessions
	Clock    clock.Clock
}

// Signup creates the account together with its directory profile. The
// display name falls back to the username.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.Write(w, apperrors.ErrInvalidRequest)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		apperrors.Write(w, apperrors.BadRequest("username and password are required"))
		return
	}
	if req.Gender != "" && !req.Gender.Valid() {
		apperrors.Write(w, apperrors.BadRequest("gender must be male or female"))
		return
	}
	if req.Age != nil && *req.Age < 0 {
		apperrors.Write(w, apperrors.BadRequest("age must not be negative"))
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		serverError(w, r, err)
		return
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName = req.Username
	}
	now := h.Clock.Now()
	user := &models.User{
		Username:  req.Username,
		Email:     strings.TrimSpace(req.Email),
		Password:  string(hashedPassword),
		CreatedAt: now,
	}
	profile := &models.Profile{
		DisplayName: displayName,
		Age:         req.Age,
		Gender:      req.Gender,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = h.Store.CreateAccount(r.Context(), user, profile)
	if errors.Is(err, store.ErrConflict) {
		apperrors.Write(w, apperrors.ErrConflict)
		return
	}
	if err != nil {
		serverError(w, r, err)
		return
	}

	logger.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user signed up")
	writeJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		apperrors.Write(w, apperrors.ErrInvalidRequest)
		return
	}

	user, err := h.Store.GetUserByUsername(r.Context(), strings.TrimSpace(creds.Username))
	if errors.Is(err, store.ErrNotFound) {
		apperrors.Write(w, apperrors.New(http.StatusUnauthorized, "Invalid credentials"))
		return
	}
	if err != nil {
		serverError(w, r, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)); err != nil {
		apperrors.Write(w, apperrors.New(http.StatusUnauthorized, "Invalid credentials"))
		return
	}

	cookie, err := h.Sessions.Cookie(user.ID)
	if err != nil {
		serverError(w, r, err)
		return
	}
	http.SetCookie(w, cookie)
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, auth.ClearCookie())
	w.WriteHeader(http.StatusNoContent)
}
