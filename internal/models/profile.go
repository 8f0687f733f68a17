package models

import "time"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Valid reports whether g is one of the known genders. The empty value
// means "not stated" and is not valid as a filter.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

type Profile struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Bio         string    `json:"bio"`
	Age         *int      `json:"age,omitempty"`
	Gender      Gender    `json:"gender,omitempty"`
	Location    string    `json:"location"`
	Interests   string    `json:"interests"`
	Photo       string    `json:"photo,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProfileFilter narrows the profile directory. Zero values disable a
// criterion.
type ProfileFilter struct {
	Query  string `json:"q,omitempty"`
	Gender Gender `json:"gender,omitempty"`
	MinAge int    `json:"min_age,omitempty"`
	MaxAge int    `json:"max_age,omitempty"`
}

type ProfilePage struct {
	Profiles    []Profile     `json:"profiles"`
	Number      int           `json:"page"`
	PageSize    int           `json:"page_size"`
	NumPages    int           `json:"num_pages"`
	Count       int           `json:"count"`
	HasNext     bool          `json:"has_next"`
	HasPrevious bool          `json:"has_previous"`
	Filter      ProfileFilter `json:"filter"`
}
