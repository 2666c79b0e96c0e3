package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"estateBack/internal/models"
	"estateBack/internal/search"
)

type AlertSearchSource interface {
	ListAlertable(ctx context.Context, excludeUserID int) ([]models.SavedSearch, error)
}

type AlertPublisher interface {
	Push(ctx context.Context, alerts ...models.SavedSearchAlert) error
}

// AlertService matches a freshly created listing against every saved search
// that has email alerts switched on and queues one alert per match.
type AlertService struct {
	SavedSearchRepo AlertSearchSource
	Queue           AlertPublisher
	Logger          *zap.Logger
	Now             func() time.Time
}

func (s *AlertService) NotifyNewListing(ctx context.Context, apt models.Apartment) (int, error) {
	searches, err := s.SavedSearchRepo.ListAlertable(ctx, apt.OwnerID)
	if err != nil {
		return 0, fmt.Errorf("load alertable searches: %w", err)
	}

	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now().UTC()
	}

	var alerts []models.SavedSearchAlert
	for _, saved := range searches {
		if !search.Compile(&saved.Criteria).Matches(apt) {
			continue
		}
		alerts = append(alerts, models.SavedSearchAlert{
			SavedSearchID: saved.ID,
			UserID:        saved.UserID,
			ApartmentID:   apt.ID,
			MatchedAt:     now,
		})
	}
	if len(alerts) == 0 {
		return 0, nil
	}

	if err := s.Queue.Push(ctx, alerts...); err != nil {
		return 0, fmt.Errorf("queue %d alerts for apartment %d: %w", len(alerts), apt.ID, err)
	}
	s.Logger.Info("queued saved search alerts", zap.Int("apartment_id", apt.ID), zap.Int("alerts", len(alerts)))
	return len(alerts), nil
}
