package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"estateBack/internal/models"
)

// SavedSearchRepository scopes every read and write to the owning user and
// to active rows; anything else is reported as models.ErrNoRecord.
type SavedSearchRepository struct {
	DB *sql.DB
}

const savedSearchColumns = `id, user_id, search_name, criteria, email_alerts, last_executed, results_count, is_active, created_at, updated_at`

func (r *SavedSearchRepository) Create(ctx context.Context, s models.SavedSearch) (models.SavedSearch, error) {
	criteria, err := json.Marshal(s.Criteria)
	if err != nil {
		return models.SavedSearch{}, fmt.Errorf("encode criteria: %w", err)
	}

	query := `
        INSERT INTO saved_searches (id, user_id, search_name, criteria, email_alerts, results_count, is_active, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, 0, TRUE, ?, ?)
    `
	_, err = r.DB.ExecContext(ctx, query,
		s.ID, s.UserID, s.Name, criteria, s.EmailAlerts, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return models.SavedSearch{}, err
	}
	s.IsActive = true
	s.ResultsCount = 0
	s.LastExecutedAt = nil
	return s, nil
}

func (r *SavedSearchRepository) GetForUser(ctx context.Context, id string, userID int) (models.SavedSearch, error) {
	query := `SELECT ` + savedSearchColumns + ` FROM saved_searches WHERE id = ? AND user_id = ? AND is_active = TRUE`
	rows, err := r.DB.QueryContext(ctx, query, id, userID)
	if err != nil {
		return models.SavedSearch{}, err
	}
	searches, err := scanSavedSearches(rows)
	if err != nil {
		return models.SavedSearch{}, err
	}
	if len(searches) == 0 {
		return models.SavedSearch{}, models.ErrNoRecord
	}
	return searches[0], nil
}

func (r *SavedSearchRepository) ListByUser(ctx context.Context, userID int) ([]models.SavedSearch, error) {
	query := `SELECT ` + savedSearchColumns + ` FROM saved_searches
        WHERE user_id = ? AND is_active = TRUE
        ORDER BY created_at DESC, id DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return scanSavedSearches(rows)
}

// ListAlertable returns every active search with email alerts switched on,
// optionally excluding one user's own searches.
func (r *SavedSearchRepository) ListAlertable(ctx context.Context, excludeUserID int) ([]models.SavedSearch, error) {
	query := `SELECT ` + savedSearchColumns + ` FROM saved_searches
        WHERE is_active = TRUE AND email_alerts = TRUE AND user_id <> ?`
	rows, err := r.DB.QueryContext(ctx, query, excludeUserID)
	if err != nil {
		return nil, err
	}
	return scanSavedSearches(rows)
}

func (r *SavedSearchRepository) Update(ctx context.Context, s models.SavedSearch) (models.SavedSearch, error) {
	criteria, err := json.Marshal(s.Criteria)
	if err != nil {
		return models.SavedSearch{}, fmt.Errorf("encode criteria: %w", err)
	}

	query := `
        UPDATE saved_searches
        SET search_name = ?, criteria = ?, email_alerts = ?, updated_at = ?
        WHERE id = ? AND user_id = ? AND is_active = TRUE
    `
	result, err := r.DB.ExecContext(ctx, query, s.Name, criteria, s.EmailAlerts, s.UpdatedAt, s.ID, s.UserID)
	if err != nil {
		return models.SavedSearch{}, err
	}
	if err := expectRow(result); err != nil {
		return models.SavedSearch{}, err
	}
	return s, nil
}

// RecordExecution stores the time and result count of the latest run.
func (r *SavedSearchRepository) RecordExecution(ctx context.Context, id string, userID int, executedAt time.Time, count int) error {
	query := `
        UPDATE saved_searches
        SET last_executed = ?, results_count = ?
        WHERE id = ? AND user_id = ? AND is_active = TRUE
    `
	result, err := r.DB.ExecContext(ctx, query, executedAt, count, id, userID)
	if err != nil {
		return err
	}
	return expectRow(result)
}

func (r *SavedSearchRepository) Deactivate(ctx context.Context, id string, userID int, at time.Time) error {
	query := `
        UPDATE saved_searches
        SET is_active = FALSE, updated_at = ?
        WHERE id = ? AND user_id = ? AND is_active = TRUE
    `
	result, err := r.DB.ExecContext(ctx, query, at, id, userID)
	if err != nil {
		return err
	}
	return expectRow(result)
}

// expectRow maps a zero-row update to ErrNoRecord. The DSN must set
// clientFoundRows=true so that an unchanged row still counts as matched.
func expectRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return models.ErrNoRecord
	}
	return nil
}

func scanSavedSearches(rows *sql.Rows) ([]models.SavedSearch, error) {
	defer rows.Close()

	searches := []models.SavedSearch{}
	for rows.Next() {
		var (
			s            models.SavedSearch
			criteria     []byte
			lastExecuted sql.NullTime
		)
		err := rows.Scan(&s.ID, &s.UserID, &s.Name, &criteria, &s.EmailAlerts, &lastExecuted,
			&s.ResultsCount, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, err
		}
		if len(criteria) > 0 {
			if err := json.Unmarshal(criteria, &s.Criteria); err != nil {
				return nil, fmt.Errorf("saved search %s criteria: %w", s.ID, err)
			}
		}
		if lastExecuted.Valid {
			t := lastExecuted.Time
			s.LastExecutedAt = &t
		}
		searches = append(searches, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return searches, nil
}
