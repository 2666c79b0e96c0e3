package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estateBack/internal/models"
)

func TestCreateReviewRejectsSecondReview(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := &ReviewRepository{DB: db}

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM reviews`).
		WithArgs(3, 10).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, err := repo.CreateReview(context.Background(), models.Review{ApartmentID: 10, UserID: 3, Rating: 4})
	assert.ErrorIs(t, err, models.ErrAlreadyReviewed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReview(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := &ReviewRepository{DB: db}

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM reviews`).
		WithArgs(3, 10).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("INSERT INTO reviews").
		WithArgs(10, 3, 5, "Lovely", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(21, 1))

	rev, err := repo.CreateReview(context.Background(), models.Review{ApartmentID: 10, UserID: 3, Rating: 5, Comment: "Lovely"})
	require.NoError(t, err)
	assert.Equal(t, 21, rev.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetReviewsByApartmentID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := &ReviewRepository{DB: db}

	now := time.Now().UTC()
	mock.ExpectQuery(`WHERE r.apartment_id = \?`).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "apartment_id", "user_id", "name", "rating", "comment", "created_at", "updated_at"}).
			AddRow(2, 10, 4, "Mona", 5, "great", now, nil).
			AddRow(1, 10, 3, "Ali", 3, "ok", now.Add(-time.Hour), now))

	reviews, err := repo.GetReviewsByApartmentID(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "Mona", reviews[0].UserName)
	assert.Nil(t, reviews[0].UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetReviewByIDMissing(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := &ReviewRepository{DB: db}

	mock.ExpectQuery(`WHERE r.id = \?`).WithArgs(77).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetReviewByID(context.Background(), 77)
	assert.ErrorIs(t, err, models.ErrReviewNotFound)
}
