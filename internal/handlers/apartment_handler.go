package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"estateBack/internal/models"
	"estateBack/internal/validation"
)

type ApartmentService interface {
	CreateApartment(ctx context.Context, ownerID int, role string, in models.ApartmentInput) (models.Apartment, error)
	GetApartments(ctx context.Context) ([]models.Apartment, error)
	GetMyApartments(ctx context.Context, ownerID int) ([]models.Apartment, error)
	GetApartment(ctx context.Context, id int) (models.Apartment, error)
	UpdateApartment(ctx context.Context, id, userID int, role string, in models.ApartmentInput) (models.Apartment, error)
	DeleteApartment(ctx context.Context, id, userID int, role string) error
	BookApartment(ctx context.Context, id, userID int) (models.Booking, error)
}

type ApartmentHandler struct {
	Service   ApartmentService
	Validator BodyValidator
	Logger    *zap.Logger
}

const apartmentNotFound = "Apartment not found"

func (h *ApartmentHandler) CreateApartment(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var in models.ApartmentInput
	if !decodeBody(w, r, h.Validator, validation.Apartment, &in) {
		return
	}

	apt, err := h.Service.CreateApartment(r.Context(), userID, role, in)
	if err != nil {
		respondError(w, r, h.Logger, err, apartmentNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"success": true, "message": "Apartment created successfully", "data": apt})
}

func (h *ApartmentHandler) GetApartments(w http.ResponseWriter, r *http.Request) {
	apartments, err := h.Service.GetApartments(r.Context())
	if err != nil {
		respondError(w, r, h.Logger, err, apartmentNotFound)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "data": apartments, "count": len(apartments)})
}

func (h *ApartmentHandler) GetMyApartments(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	apartments, err := h.Service.GetMyApartments(r.Context(), userID)
	if err != nil {
		respondError(w, r, h.Logger, err, apartmentNotFound)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "data": apartments, "count": len(apartments)})
}

func (h *ApartmentHandler) GetApartmentByID(w http.ResponseWriter, r *http.Request) {
	id, ok := getIntParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid apartment ID")
		return
	}

	apt, err := h.Service.GetApartment(r.Context(), id)
	if err != nil {
		respondError(w, r, h.Logger, err, apartmentNotFound)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "data": apt})
}

func (h *ApartmentHandler) UpdateApartment(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := getIntParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid apartment ID")
		return
	}

	var in models.ApartmentInput
	if !decodeBody(w, r, h.Validator, validation.Apartment, &in) {
		return
	}

	apt, err := h.Service.UpdateApartment(r.Context(), id, userID, role, in)
	if err != nil {
		respondError(w, r, h.Logger, err, apartmentNotFound)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "message": "Apartment updated successfully", "data": apt})
}

func (h *ApartmentHandler) DeleteApartment(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := getIntParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid apartment ID")
		return
	}

	if err := h.Service.DeleteApartment(r.Context(), id, userID, role); err != nil {
		respondError(w, r, h.Logger, err, apartmentNotFound)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "message": "Apartment deleted successfully"})
}

func (h *ApartmentHandler) BookApartment(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := getIntParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid apartment ID")
		return
	}

	booking, err := h.Service.BookApartment(r.Context(), id, userID)
	if err != nil {
		respondError(w, r, h.Logger, err, apartmentNotFound)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "message": "Apartment booked successfully", "data": booking})
}
