package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/bmizerany/pat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"estateBack/internal/models"
)

type stubReviewService struct {
	apartmentID int
	reviewID    int
	userID      int
	in          models.ReviewInput
	err         error
}

func (s *stubReviewService) CreateReview(_ context.Context, apartmentID, userID int, in models.ReviewInput) (models.Review, error) {
	s.apartmentID, s.userID, s.in = apartmentID, userID, in
	return models.Review{ID: 1, ApartmentID: apartmentID, UserID: userID}, s.err
}

func (s *stubReviewService) GetApartmentReviews(_ context.Context, apartmentID int) (models.ApartmentReviews, error) {
	s.apartmentID = apartmentID
	return models.ApartmentReviews{Count: 2, AverageRating: 4.5, Data: []models.Review{{ID: 1}, {ID: 2}}}, s.err
}

func (s *stubReviewService) UpdateReview(_ context.Context, id, userID int, _ string, in models.ReviewInput) (models.Review, error) {
	s.reviewID, s.userID, s.in = id, userID, in
	return models.Review{ID: id}, s.err
}

func (s *stubReviewService) DeleteReview(_ context.Context, id, userID int, _ string) error {
	s.reviewID, s.userID = id, userID
	return s.err
}

func reviewRouter(h *ReviewHandler) http.Handler {
	mux := pat.New()
	mux.Post("/api/reviews/:apartment_id", http.HandlerFunc(h.CreateReview))
	mux.Get("/api/reviews/:apartment_id", http.HandlerFunc(h.GetApartmentReviews))
	mux.Put("/api/reviews/:id", http.HandlerFunc(h.UpdateReview))
	mux.Del("/api/reviews/:id", http.HandlerFunc(h.DeleteReview))
	return mux
}

func TestCreateReview(t *testing.T) {
	svc := &stubReviewService{}
	h := &ReviewHandler{Service: svc, Validator: newTestValidator(t), Logger: zap.NewNop()}

	rec, payload := doRequest(t, reviewRouter(h), http.MethodPost, "/api/reviews/8", `{"rating":5,"comment":"Great"}`, 2)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Review added successfully", payload["message"])
	assert.Equal(t, 8, svc.apartmentID)
	require.NotNil(t, svc.in.Rating)
	assert.Equal(t, 5, *svc.in.Rating)
}

func TestCreateReviewRatingOutOfRange(t *testing.T) {
	svc := &stubReviewService{}
	h := &ReviewHandler{Service: svc, Validator: newTestValidator(t), Logger: zap.NewNop()}

	rec, payload := doRequest(t, reviewRouter(h), http.MethodPost, "/api/reviews/8", `{"rating":9}`, 2)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, payload["errors"], "rating")
	assert.Zero(t, svc.apartmentID)
}

func TestCreateReviewDuplicate(t *testing.T) {
	h := &ReviewHandler{Service: &stubReviewService{err: models.ErrAlreadyReviewed}, Validator: newTestValidator(t), Logger: zap.NewNop()}

	rec, payload := doRequest(t, reviewRouter(h), http.MethodPost, "/api/reviews/8", `{"rating":4}`, 2)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "You have already reviewed this apartment", payload["message"])
}

func TestGetApartmentReviews(t *testing.T) {
	h := &ReviewHandler{Service: &stubReviewService{}, Validator: newTestValidator(t), Logger: zap.NewNop()}

	rec, payload := doRequest(t, reviewRouter(h), http.MethodGet, "/api/reviews/8", "", 0)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), payload["count"])
	assert.Equal(t, 4.5, payload["average_rating"])
}

func TestDeleteReviewForbidden(t *testing.T) {
	h := &ReviewHandler{Service: &stubReviewService{err: models.ErrForbidden}, Validator: newTestValidator(t), Logger: zap.NewNop()}

	rec, _ := doRequest(t, reviewRouter(h), http.MethodDelete, "/api/reviews/3", "", 2)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
