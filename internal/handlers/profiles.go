package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/islmaice/connect/internal/apperrors"
	"github.com/islmaice/connect/internal/models"
	"github.com/islmaice/connect/internal/profiles"
)

type ProfileHandler struct {
	Profiles *profiles.Service
}

// List serves one page of the directory. Unparseable query values are
// ignored rather than rejected: a bad page number means page 1 and a bad
// filter value means no filter.
func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := strconv.Atoi(q.Get("page"))
	if err != nil {
		page = 1
	}
	filter := models.ProfileFilter{
		Query:  q.Get("q"),
		Gender: models.Gender(q.Get("gender")),
		MinAge: nonNegative(q.Get("min_age")),
		MaxAge: nonNegative(q.Get("max_age")),
	}

	result, err := h.Profiles.List(r.Context(), filter, page)
	if err != nil {
		serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *ProfileHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		apperrors.Write(w, apperrors.NotFound("Profile not found"))
		return
	}

	profile, err := h.Profiles.Get(r.Context(), id)
	if errors.Is(err, profiles.ErrNotFound) {
		apperrors.Write(w, apperrors.NotFound("Profile not found"))
		return
	}
	if err != nil {
		serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func nonNegative(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
