package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estateBack/internal/models"
)

type memoryReviews struct {
	rows   map[int]models.Review
	nextID int
}

func (m *memoryReviews) CreateReview(_ context.Context, rev models.Review) (models.Review, error) {
	for _, r := range m.rows {
		if r.ApartmentID == rev.ApartmentID && r.UserID == rev.UserID {
			return models.Review{}, models.ErrAlreadyReviewed
		}
	}
	m.nextID++
	rev.ID = m.nextID
	m.rows[rev.ID] = rev
	return rev, nil
}

func (m *memoryReviews) GetReviewsByApartmentID(_ context.Context, apartmentID int) ([]models.Review, error) {
	out := []models.Review{}
	for id := m.nextID; id > 0; id-- {
		if r, ok := m.rows[id]; ok && r.ApartmentID == apartmentID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryReviews) GetReviewByID(_ context.Context, id int) (models.Review, error) {
	r, ok := m.rows[id]
	if !ok {
		return models.Review{}, models.ErrReviewNotFound
	}
	return r, nil
}

func (m *memoryReviews) UpdateReview(_ context.Context, rev models.Review) (models.Review, error) {
	m.rows[rev.ID] = rev
	return rev, nil
}

func (m *memoryReviews) DeleteReview(_ context.Context, id int) error {
	delete(m.rows, id)
	return nil
}

type knownApartments map[int]bool

func (k knownApartments) Exists(_ context.Context, id int) (bool, error) {
	return k[id], nil
}

func newReviewService() *ReviewService {
	return &ReviewService{
		ReviewsRepo: &memoryReviews{rows: make(map[int]models.Review)},
		Apartments:  knownApartments{10: true},
	}
}

func rating(n int) *int { return &n }

func TestCreateReview(t *testing.T) {
	svc := newReviewService()
	ctx := context.Background()

	_, err := svc.CreateReview(ctx, 11, 1, models.ReviewInput{Rating: rating(4)})
	assert.ErrorIs(t, err, models.ErrApartmentNotFound)

	_, err = svc.CreateReview(ctx, 10, 1, models.ReviewInput{Rating: rating(6)})
	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "rating")

	_, err = svc.CreateReview(ctx, 10, 1, models.ReviewInput{})
	require.True(t, errors.As(err, &verr))

	rev, err := svc.CreateReview(ctx, 10, 1, models.ReviewInput{Rating: rating(4)})
	require.NoError(t, err)
	assert.Equal(t, 10, rev.ApartmentID)

	_, err = svc.CreateReview(ctx, 10, 1, models.ReviewInput{Rating: rating(5)})
	assert.ErrorIs(t, err, models.ErrAlreadyReviewed)
}

func TestGetApartmentReviewsAverage(t *testing.T) {
	svc := newReviewService()
	ctx := context.Background()

	empty, err := svc.GetApartmentReviews(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Count)
	assert.Equal(t, 0.0, empty.AverageRating)

	for user, r := range map[int]int{1: 5, 2: 4, 3: 4} {
		_, err := svc.CreateReview(ctx, 10, user, models.ReviewInput{Rating: rating(r)})
		require.NoError(t, err)
	}
	out, err := svc.GetApartmentReviews(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Count)
	assert.Equal(t, 4.3, out.AverageRating)
}

func TestUpdateAndDeleteReviewPermissions(t *testing.T) {
	svc := newReviewService()
	ctx := context.Background()
	rev, err := svc.CreateReview(ctx, 10, 1, models.ReviewInput{Rating: rating(3)})
	require.NoError(t, err)

	_, err = svc.UpdateReview(ctx, rev.ID, 2, models.RoleTenant, models.ReviewInput{Rating: rating(1)})
	assert.ErrorIs(t, err, models.ErrForbidden)

	comment := " better now "
	updated, err := svc.UpdateReview(ctx, rev.ID, 1, models.RoleTenant, models.ReviewInput{Comment: &comment})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Rating)
	assert.Equal(t, "better now", updated.Comment)

	assert.ErrorIs(t, svc.DeleteReview(ctx, rev.ID, 2, models.RoleOwner), models.ErrForbidden)
	assert.NoError(t, svc.DeleteReview(ctx, rev.ID, 2, models.RoleAdmin))
	assert.ErrorIs(t, svc.DeleteReview(ctx, rev.ID, 1, models.RoleTenant), models.ErrReviewNotFound)
}
