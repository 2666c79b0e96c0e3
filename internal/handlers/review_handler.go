package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"estateBack/internal/models"
	"estateBack/internal/validation"
)

type ReviewService interface {
	CreateReview(ctx context.Context, apartmentID, userID int, in models.ReviewInput) (models.Review, error)
	GetApartmentReviews(ctx context.Context, apartmentID int) (models.ApartmentReviews, error)
	UpdateReview(ctx context.Context, id, userID int, role string, in models.ReviewInput) (models.Review, error)
	DeleteReview(ctx context.Context, id, userID int, role string) error
}

type ReviewHandler struct {
	Service   ReviewService
	Validator BodyValidator
	Logger    *zap.Logger
}

func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	apartmentID, ok := getIntParam(r, "apartment_id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid apartment ID")
		return
	}

	var in models.ReviewInput
	if !decodeBody(w, r, h.Validator, validation.Review, &in) {
		return
	}

	review, err := h.Service.CreateReview(r.Context(), apartmentID, userID, in)
	if err != nil {
		respondError(w, r, h.Logger, err, "Apartment not found")
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"success": true, "message": "Review added successfully", "data": review})
}

func (h *ReviewHandler) GetApartmentReviews(w http.ResponseWriter, r *http.Request) {
	apartmentID, ok := getIntParam(r, "apartment_id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid apartment ID")
		return
	}

	reviews, err := h.Service.GetApartmentReviews(r.Context(), apartmentID)
	if err != nil {
		respondError(w, r, h.Logger, err, "Apartment not found")
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		"success":        true,
		"count":          reviews.Count,
		"average_rating": reviews.AverageRating,
		"data":           reviews.Data,
	})
}

func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := getIntParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid review ID")
		return
	}

	var in models.ReviewInput
	if !decodeBody(w, r, h.Validator, validation.Review, &in) {
		return
	}

	review, err := h.Service.UpdateReview(r.Context(), id, userID, role, in)
	if err != nil {
		respondError(w, r, h.Logger, err, "Review not found")
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "message": "Review updated successfully", "data": review})
}

func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := getIntParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid review ID")
		return
	}

	if err := h.Service.DeleteReview(r.Context(), id, userID, role); err != nil {
		respondError(w, r, h.Logger, err, "Review not found")
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "message": "Review deleted successfully"})
}
