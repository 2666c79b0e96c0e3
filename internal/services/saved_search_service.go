package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"estateBack/internal/models"
	"estateBack/internal/search"
)

type SavedSearchStore interface {
	Create(ctx context.Context, s models.SavedSearch) (models.SavedSearch, error)
	GetForUser(ctx context.Context, id string, userID int) (models.SavedSearch, error)
	ListByUser(ctx context.Context, userID int) ([]models.SavedSearch, error)
	Update(ctx context.Context, s models.SavedSearch) (models.SavedSearch, error)
	RecordExecution(ctx context.Context, id string, userID int, executedAt time.Time, count int) error
	Deactivate(ctx context.Context, id string, userID int, at time.Time) error
}

// ListingSearcher runs a compiled query against the listing store.
type ListingSearcher interface {
	Search(ctx context.Context, q search.Query) ([]models.Apartment, error)
}

type SavedSearchService struct {
	SavedSearchRepo SavedSearchStore
	Listings        ListingSearcher
	Logger          *zap.Logger
	Now             func() time.Time
	NewID           func() string
}

func (s *SavedSearchService) clock() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// now is second-precision to match the DATETIME columns.
func (s *SavedSearchService) now() time.Time {
	return s.clock().Truncate(time.Second)
}

func (s *SavedSearchService) CreateSavedSearch(ctx context.Context, userID int, req models.CreateSavedSearchRequest) (models.SavedSearch, error) {
	if req.Criteria == nil {
		verr := models.NewValidationError()
		verr.Add("search_criteria", "search criteria is required")
		return models.SavedSearch{}, verr
	}

	clock := s.clock()
	now := clock.Truncate(time.Second)
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = DefaultSearchName(clock)
	}
	emailAlerts := true
	if req.EmailAlerts != nil {
		emailAlerts = *req.EmailAlerts
	}

	saved := models.SavedSearch{
		ID:          s.NewID(),
		UserID:      userID,
		Name:        name,
		Criteria:    req.Criteria.Normalized(),
		EmailAlerts: emailAlerts,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	created, err := s.SavedSearchRepo.Create(ctx, saved)
	if err != nil {
		return models.SavedSearch{}, fmt.Errorf("create saved search: %w", err)
	}
	return created, nil
}

func (s *SavedSearchService) GetSavedSearches(ctx context.Context, userID int) ([]models.SavedSearch, error) {
	searches, err := s.SavedSearchRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list saved searches: %w", err)
	}
	return searches, nil
}

func (s *SavedSearchService) GetSavedSearch(ctx context.Context, id string, userID int) (models.SavedSearch, error) {
	saved, err := s.SavedSearchRepo.GetForUser(ctx, id, userID)
	if err != nil {
		return models.SavedSearch{}, wrapLookup(err, id)
	}
	return saved, nil
}

func (s *SavedSearchService) UpdateSavedSearch(ctx context.Context, id string, userID int, req models.UpdateSavedSearchRequest) (models.SavedSearch, error) {
	saved, err := s.SavedSearchRepo.GetForUser(ctx, id, userID)
	if err != nil {
		return models.SavedSearch{}, wrapLookup(err, id)
	}

	if req.Name != nil {
		if name := strings.TrimSpace(*req.Name); name != "" {
			saved.Name = name
		}
	}
	if req.Criteria != nil {
		saved.Criteria = req.Criteria.Normalized()
	}
	if req.EmailAlerts != nil {
		saved.EmailAlerts = *req.EmailAlerts
	}
	saved.UpdatedAt = s.now()

	updated, err := s.SavedSearchRepo.Update(ctx, saved)
	if err != nil {
		return models.SavedSearch{}, wrapLookup(err, id)
	}
	return updated, nil
}

func (s *SavedSearchService) DeleteSavedSearch(ctx context.Context, id string, userID int) error {
	if err := s.SavedSearchRepo.Deactivate(ctx, id, userID, s.now()); err != nil {
		return wrapLookup(err, id)
	}
	return nil
}

// ExecuteSavedSearch compiles the stored criteria, runs them against the
// listings and records when the search ran and how many listings it found.
// A failure to record that metadata is logged and does not fail the call.
func (s *SavedSearchService) ExecuteSavedSearch(ctx context.Context, id string, userID int) (models.SavedSearchExecution, error) {
	saved, err := s.SavedSearchRepo.GetForUser(ctx, id, userID)
	if err != nil {
		return models.SavedSearchExecution{}, wrapLookup(err, id)
	}

	q := search.Compile(&saved.Criteria)
	results, err := s.Listings.Search(ctx, q)
	if err != nil {
		return models.SavedSearchExecution{}, fmt.Errorf("execute saved search %s: %w", id, err)
	}

	executedAt := s.now()
	if err := s.SavedSearchRepo.RecordExecution(ctx, saved.ID, userID, executedAt, len(results)); err != nil {
		s.Logger.Warn("failed to record saved search execution",
			zap.String("saved_search_id", saved.ID),
			zap.Int("user_id", userID),
			zap.Error(err),
		)
	}
	saved.LastExecutedAt = &executedAt
	saved.ResultsCount = len(results)

	return models.SavedSearchExecution{Search: saved, Results: results, Count: len(results)}, nil
}

// DefaultSearchName labels an unnamed search with the day it was created and
// the last four digits of the millisecond timestamp.
func DefaultSearchName(now time.Time) string {
	return fmt.Sprintf("Search %d/%d/%d %04d", int(now.Month()), now.Day(), now.Year(), now.UnixMilli()%10000)
}

func wrapLookup(err error, id string) error {
	if errors.Is(err, models.ErrNoRecord) {
		return err
	}
	return fmt.Errorf("saved search %s: %w", id, err)
}
