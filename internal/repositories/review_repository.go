package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"estateBack/internal/models"
)

type ReviewRepository struct {
	DB *sql.DB
}

func (r *ReviewRepository) CreateReview(ctx context.Context, rev models.Review) (models.Review, error) {
	var count int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM reviews WHERE user_id = ? AND apartment_id = ?`, rev.UserID, rev.ApartmentID).Scan(&count); err != nil {
		return models.Review{}, err
	}
	if count > 0 {
		return models.Review{}, models.ErrAlreadyReviewed
	}

	query := `
INSERT INTO reviews (apartment_id, user_id, rating, comment, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
	`
	rev.CreatedAt = time.Now().UTC()
	rev.UpdatedAt = &rev.CreatedAt
	result, err := r.DB.ExecContext(ctx, query,
		rev.ApartmentID, rev.UserID, rev.Rating, rev.Comment, rev.CreatedAt, rev.UpdatedAt,
	)
	if err != nil {
		return models.Review{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.Review{}, err
	}
	rev.ID = int(id)
	return rev, nil
}

func (r *ReviewRepository) GetReviewsByApartmentID(ctx context.Context, apartmentID int) ([]models.Review, error) {
	query := `
               SELECT r.id, r.apartment_id, r.user_id, u.name, r.rating, r.comment,
                      r.created_at, r.updated_at
               FROM reviews r
               JOIN users u ON r.user_id = u.id
               WHERE r.apartment_id = ?
               ORDER BY r.created_at DESC, r.id DESC
       `
	rows, err := r.DB.QueryContext(ctx, query, apartmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var rev models.Review
		err := rows.Scan(&rev.ID, &rev.ApartmentID, &rev.UserID, &rev.UserName, &rev.Rating, &rev.Comment,
			&rev.CreatedAt, &rev.UpdatedAt)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}

func (r *ReviewRepository) GetReviewByID(ctx context.Context, id int) (models.Review, error) {
	query := `
               SELECT r.id, r.apartment_id, r.user_id, u.name, r.rating, r.comment,
                      r.created_at, r.updated_at
               FROM reviews r
               JOIN users u ON r.user_id = u.id
               WHERE r.id = ?
       `
	var rev models.Review
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&rev.ID, &rev.ApartmentID, &rev.UserID, &rev.UserName,
		&rev.Rating, &rev.Comment, &rev.CreatedAt, &rev.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Review{}, models.ErrReviewNotFound
	}
	if err != nil {
		return models.Review{}, err
	}
	return rev, nil
}

func (r *ReviewRepository) UpdateReview(ctx context.Context, rev models.Review) (models.Review, error) {
	query := `
		UPDATE reviews
		SET rating = ?, comment = ?, updated_at = ?
		WHERE id = ?
	`
	updatedAt := time.Now().UTC()
	rev.UpdatedAt = &updatedAt
	result, err := r.DB.ExecContext(ctx, query, rev.Rating, rev.Comment, rev.UpdatedAt, rev.ID)
	if err != nil {
		return models.Review{}, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return models.Review{}, err
	}
	if rowsAffected == 0 {
		return models.Review{}, models.ErrReviewNotFound
	}
	return rev, nil
}

func (r *ReviewRepository) DeleteReview(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return models.ErrReviewNotFound
	}
	return nil
}
