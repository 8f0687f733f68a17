package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/islmaice/connect/internal/auth"
	"github.com/islmaice/connect/internal/clock"
	"github.com/islmaice/connect/internal/messaging"
	"github.com/islmaice/connect/internal/middleware"
	"github.com/islmaice/connect/internal/models"
	"github.com/islmaice/connect/internal/profiles"
	"github.com/islmaice/connect/internal/store/sqlstore"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store    *sqlstore.SQLStore
	clock    *clock.Manual
	sessions *auth.Sessions
	auth     *AuthHandler
	messages *MessageHandler
	profiles *ProfileHandler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s, err := sqlstore.New(sqlstore.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	c := clock.NewManual(time.Date(2025, time.April, 2, 12, 0, 0, 0, time.UTC))
	sessions := auth.NewSessions("test-secret", time.Hour, c)
	return &fixture{
		store:    s,
		clock:    c,
		sessions: sessions,
		auth:     &AuthHandler{Store: s, Sessions: sessions, Clock: c},
		messages: &MessageHandler{Messages: messaging.NewService(s, c)},
		profiles: &ProfileHandler{Profiles: profiles.NewService(s, profiles.DefaultPageSize)},
	}
}

func (f *fixture) user(t *testing.T, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Password: "x", CreatedAt: f.clock.Now()}
	require.NoError(t, f.store.CreateUser(context.Background(), u))
	return u
}

// serve runs h as userID with the given path variables set.
func serve(h http.HandlerFunc, req *http.Request, userID int64, vars map[string]string) *httptest.ResponseRecorder {
	if userID > 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func idVars(name string, id int64) map[string]string {
	return map[string]string{name: strconv.FormatInt(id, 10)}
}
