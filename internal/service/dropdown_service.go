package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"intersectionreg/internal/cache"
	"intersectionreg/internal/model"
	"intersectionreg/internal/repository"
)

const (
	dropdownCacheKey        = "dropdown:data"
	defaultDropdownCacheTTL = 10 * time.Minute
)

// DropdownData is the option lists shown on the registration form.
type DropdownData struct {
	Distributors   []model.DropdownOption `json:"distributors"`
	CabinetTypes   []model.DropdownOption `json:"cabinetTypes"`
	TLSConnections []model.DropdownOption `json:"tlsConnections"`
	DetectionIOs   []model.DropdownOption `json:"detectionIOs"`
}

// DropdownService serves the form option catalogue.
type DropdownService interface {
	Data(ctx context.Context) (*DropdownData, error)
	// EnsureDefaults inserts any missing default options.
	EnsureDefaults(ctx context.Context) error
}

type dropdownService struct {
	repo  repository.DropdownRepository
	cache *cache.Client
	ttl   time.Duration
}

// NewDropdownService creates a new dropdown service. A nil cache disables
// caching.
func NewDropdownService(repo repository.DropdownRepository, cache *cache.Client, ttl time.Duration) DropdownService {
	if ttl <= 0 {
		ttl = defaultDropdownCacheTTL
	}
	return &dropdownService{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
	}
}

// Data returns every category ordered by name, from cache when possible.
func (s *dropdownService) Data(ctx context.Context) (*DropdownData, error) {
	if raw, _ := s.cache.Get(ctx, dropdownCacheKey); raw != nil {
		var cached DropdownData
		if err := json.Unmarshal(raw, &cached); err == nil {
			return &cached, nil
		}
	}

	data := &DropdownData{}
	targets := []struct {
		category string
		dst      *[]model.DropdownOption
	}{
		{model.CategoryDistributor, &data.Distributors},
		{model.CategoryCabinetType, &data.CabinetTypes},
		{model.CategoryTLSConnection, &data.TLSConnections},
		{model.CategoryDetectionIO, &data.DetectionIOs},
	}
	for _, t := range targets {
		options, err := s.repo.ListByCategory(ctx, t.category)
		if err != nil {
			return nil, fmt.Errorf("list %s options: %w", t.category, err)
		}
		*t.dst = options
	}

	if payload, err := json.Marshal(data); err == nil {
		_ = s.cache.Set(ctx, dropdownCacheKey, payload, s.ttl)
	}
	return data, nil
}

func (s *dropdownService) EnsureDefaults(ctx context.Context) error {
	for category, names := range model.DefaultDropdownOptions {
		for _, name := range names {
			if err := s.repo.Ensure(ctx, category, name); err != nil {
				return fmt.Errorf("ensure %s option %q: %w", category, name, err)
			}
		}
	}
	return s.cache.Delete(ctx, dropdownCacheKey)
}
