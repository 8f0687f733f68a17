package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/islmaice/connect/internal/models"
	"github.com/islmaice/connect/internal/store"
)

const DefaultPageSize = 12

var ErrNotFound = errors.New("profiles: not found")

type Service struct {
	store    store.Store
	pageSize int
}

func NewService(s store.Store, pageSize int) *Service {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Service{store: s, pageSize: pageSize}
}

// List returns one page of the filtered directory. Pages are numbered from
// 1; a number outside 1..NumPages resolves to the last page. An empty
// directory still has a single empty page.
func (s *Service) List(ctx context.Context, filter models.ProfileFilter, page int) (*models.ProfilePage, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	if !filter.Gender.Valid() {
		filter.Gender = ""
	}

	count, err := s.store.CountProfiles(ctx, filter)
	if err != nil {
		return nil, err
	}

	numPages := (count + s.pageSize - 1) / s.pageSize
	if numPages == 0 {
		numPages = 1
	}
	if page < 1 || page > numPages {
		page = numPages
	}

	profiles, err := s.store.ListProfiles(ctx, filter, s.pageSize, (page-1)*s.pageSize)
	if err != nil {
		return nil, err
	}
	if profiles == nil {
		profiles = []models.Profile{}
	}

	return &models.ProfilePage{
		Profiles:    profiles,
		Number:      page,
		PageSize:    s.pageSize,
		NumPages:    numPages,
		Count:       count,
		HasNext:     page < numPages,
		HasPrevious: page > 1,
		Filter:      filter,
	}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*models.Profile, error) {
	p, err := s.store.GetProfile(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("profile %d: %w", id, ErrNotFound)
	}
	return p, err
}
