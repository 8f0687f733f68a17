package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/islmaice/connect/internal/auth"
	"github.com/islmaice/connect/internal/models"
	"github.com/islmaice/connect/internal/store"
	"github.com/islmaice/connect/internal/store/sqlstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func postJSON(path string, v any) *http.Request {
	body, _ := json.Marshal(v)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestSignup(t *testing.T) {
	f := newFixture(t)
	age := 29

	rr := serve(f.auth.Signup, postJSON("/signup", SignupRequest{
		Username:    "testuser",
		Password:    "password123",
		DisplayName: "Test User",
		Gender:      models.GenderFemale,
		Age:         &age,
	}), 0, nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.NotContains(t, rr.Body.String(), "password123")

	user, err := f.store.GetUserByUsername(context.Background(), "testuser")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))

	page, err := f.profiles.Profiles.List(context.Background(), models.ProfileFilter{Query: "test user"}, 1)
	require.NoError(t, err)
	require.Len(t, page.Profiles, 1)
	assert.Equal(t, user.ID, page.Profiles[0].UserID)
	assert.Equal(t, models.GenderFemale, page.Profiles[0].Gender)
	assert.Equal(t, 29, *page.Profiles[0].Age)

	// Duplicate username
	rr = serve(f.auth.Signup, postJSON("/signup", Credentials{Username: "testuser", Password: "other"}), 0, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestSignupValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		body any
	}{
		{"missing password", Credentials{Username: "a"}},
		{"blank username", Credentials{Username: "  ", Password: "p"}},
		{"bad gender", SignupRequest{Username: "a", Password: "p", Gender: "robot"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(f.auth.Signup, postJSON("/signup", tt.body), 0, nil)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewBufferString("{"))
	rr := serve(f.auth.Signup, req, 0, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	rr := serve(f.auth.Signup, postJSON("/signup", Credentials{Username: "testuser", Password: "password123"}), 0, nil)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = serve(f.auth.Login, postJSON("/login", Credentials{Username: "testuser", Password: "password123"}), 0, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var session *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == auth.CookieName {
			session = c
		}
	}
	require.NotNil(t, session, "expected session cookie")
	assert.True(t, session.HttpOnly)

	user, err := f.store.GetUserByUsername(context.Background(), "testuser")
	require.NoError(t, err)
	userID, err := f.sessions.Verify(session.Value)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newFixture(t)
	serve(f.auth.Signup, postJSON("/signup", Credentials{Username: "testuser", Password: "password123"}), 0, nil)

	for _, creds := range []Credentials{
		{Username: "testuser", Password: "wrong"},
		{Username: "nobody", Password: "password123"},
	} {
		rr := serve(f.auth.Login, postJSON("/login", creds), 0, nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Empty(t, rr.Result().Cookies())
	}
}

func TestLogout(t *testing.T) {
	f := newFixture(t)

	rr := serve(f.auth.Logout, httptest.NewRequest(http.MethodPost, "/logout", nil), 0, nil)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.CookieName, cookies[0].Name)
	assert.Negative(t, cookies[0].MaxAge)
}

// unreachableStore fails account creation the way a lost database
// connection would.
type unreachableStore struct {
	*sqlstore.SQLStore
}

func (s unreachableStore) CreateAccount(context.Context, *models.User, *models.Profile) error {
	return errors.New("dial tcp 127.0.0.1:5432: connection refused")
}

// rejectingProfileStore lets the user insert run but makes the profile
// insert in the same transaction violate a constraint.
type rejectingProfileStore struct {
	*sqlstore.SQLStore
}

func (s rejectingProfileStore) CreateAccount(ctx context.Context, u *models.User, p *models.Profile) error {
	p.Gender = "unset"
	return s.SQLStore.CreateAccount(ctx, u, p)
}

func TestSignupStoreFailureIsServerError(t *testing.T) {
	f := newFixture(t)
	h := &AuthHandler{Store: unreachableStore{f.store}, Sessions: f.sessions, Clock: f.clock}

	rr := serve(h.Signup, postJSON("/signup", Credentials{Username: "ana", Password: "pw"}), 0, nil)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "already exists")
}

func TestSignupProfileFailureLeavesNoUser(t *testing.T) {
	f := newFixture(t)
	h := &AuthHandler{Store: rejectingProfileStore{f.store}, Sessions: f.sessions, Clock: f.clock}

	rr := serve(h.Signup, postJSON("/signup", Credentials{Username: "ana", Password: "pw"}), 0, nil)
	require.Equal(t, http.StatusInternalServerError, rr.Code)

	_, err := f.store.GetUserByUsername(context.Background(), "ana")
	assert.ErrorIs(t, err, store.ErrNotFound)

	rr = serve(f.auth.Signup, postJSON("/signup", Credentials{Username: "ana", Password: "pw"}), 0, nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	page, err := f.profiles.Profiles.List(context.Background(), models.ProfileFilter{Query: "ana"}, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Count)
}
