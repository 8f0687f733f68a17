package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/islmaice/connect/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) profile(t *testing.T, displayName string, age int, gender models.Gender) *models.Profile {
	t.Helper()
	u := f.user(t, fmt.Sprintf("user%d", f.clock.Now().UnixNano()))
	f.clock.Advance(1)
	p := &models.Profile{
		UserID:      u.ID,
		DisplayName: displayName,
		Age:         &age,
		Gender:      gender,
		CreatedAt:   f.clock.Now(),
		UpdatedAt:   f.clock.Now(),
	}
	require.NoError(t, f.store.SaveProfile(context.Background(), p))
	return p
}

func listProfiles(t *testing.T, f *fixture, query string) *models.ProfilePage {
	t.Helper()
	rr := serve(f.profiles.List, httptest.NewRequest(http.MethodGet, "/profiles?"+query, nil), 1, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var page models.ProfilePage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	return &page
}

func TestListProfilesFilterAcrossPages(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 10; i++ {
		f.profile(t, fmt.Sprintf("Yusuf %d", i), 30, models.GenderMale)
	}
	var want []int64
	for i := 0; i < 13; i++ {
		want = append(want, f.profile(t, fmt.Sprintf("Hanan %d", i), 25, models.GenderFemale).ID)
	}
	want = append(want, f.profile(t, "SANA", 27, models.GenderFemale).ID)

	first := listProfiles(t, f, "q=ANA")
	second := listProfiles(t, f, "q=ANA&page=2")

	assert.Equal(t, 14, first.Count)
	assert.Equal(t, 2, first.NumPages)
	assert.Len(t, first.Profiles, 12)
	assert.True(t, first.HasNext)
	assert.Equal(t, 2, second.Number)

	var got []int64
	for _, p := range append(first.Profiles, second.Profiles...) {
		got = append(got, p.ID)
	}
	assert.Equal(t, want, got)
}

func TestListProfilesPageResolution(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 13; i++ {
		f.profile(t, fmt.Sprintf("Member %d", i), 20+i, models.GenderMale)
	}

	tests := []struct {
		query string
		want  int
	}{
		{"", 1},
		{"page=abc", 1},
		{"page=2", 2},
		{"page=0", 2},
		{"page=50", 2},
		{"page=-3", 2},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, listProfiles(t, f, tt.query).Number)
		})
	}
}

func TestListProfilesFilters(t *testing.T) {
	f := newFixture(t)
	f.profile(t, "Amina", 24, models.GenderFemale)
	f.profile(t, "Bilal", 31, models.GenderMale)
	f.profile(t, "Khadija", 35, models.GenderFemale)

	page := listProfiles(t, f, "gender=female&min_age=30")
	require.Len(t, page.Profiles, 1)
	assert.Equal(t, "Khadija", page.Profiles[0].DisplayName)

	page = listProfiles(t, f, "max_age=30&gender=nope&min_age=x")
	require.Len(t, page.Profiles, 1)
	assert.Equal(t, "Amina", page.Profiles[0].DisplayName)
}

func TestProfileDetail(t *testing.T) {
	f := newFixture(t)
	p := f.profile(t, "Amina", 24, models.GenderFemale)

	rr := serve(f.profiles.Detail, httptest.NewRequest(http.MethodGet, "/", nil), 1, idVars("id", p.ID))
	require.Equal(t, http.StatusOK, rr.Code)
	var got models.Profile
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "Amina", got.DisplayName)
	assert.NotEmpty(t, got.Username)

	rr = serve(f.profiles.Detail, httptest.NewRequest(http.MethodGet, "/", nil), 1, idVars("id", p.ID+1))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
