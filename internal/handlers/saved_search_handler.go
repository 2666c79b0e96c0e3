package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"estateBack/internal/models"
	"estateBack/internal/validation"
)

type SavedSearchService interface {
	CreateSavedSearch(ctx context.Context, userID int, req models.CreateSavedSearchRequest) (models.SavedSearch, error)
	GetSavedSearches(ctx context.Context, userID int) ([]models.SavedSearch, error)
	GetSavedSearch(ctx context.Context, id string, userID int) (models.SavedSearch, error)
	UpdateSavedSearch(ctx context.Context, id string, userID int, req models.UpdateSavedSearchRequest) (models.SavedSearch, error)
	DeleteSavedSearch(ctx context.Context, id string, userID int) error
	ExecuteSavedSearch(ctx context.Context, id string, userID int) (models.SavedSearchExecution, error)
}

type SavedSearchHandler struct {
	Service   SavedSearchService
	Validator BodyValidator
	Logger    *zap.Logger
}

const savedSearchNotFound = "Saved search not found"

func (h *SavedSearchHandler) CreateSavedSearch(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req models.CreateSavedSearchRequest
	if !decodeBody(w, r, h.Validator, validation.SavedSearchCreate, &req) {
		return
	}

	saved, err := h.Service.CreateSavedSearch(r.Context(), userID, req)
	if err != nil {
		respondError(w, r, h.Logger, err, savedSearchNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{
		"success": true,
		"message": "Search saved successfully",
		"data":    saved,
	})
}

func (h *SavedSearchHandler) GetSavedSearches(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	searches, err := h.Service.GetSavedSearches(r.Context(), userID)
	if err != nil {
		respondError(w, r, h.Logger, err, savedSearchNotFound)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "data": searches, "count": len(searches)})
}

func (h *SavedSearchHandler) GetSavedSearch(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	saved, err := h.Service.GetSavedSearch(r.Context(), pathParam(r, "id"), userID)
	if err != nil {
		respondError(w, r, h.Logger, err, savedSearchNotFound)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "data": saved})
}

func (h *SavedSearchHandler) ExecuteSavedSearch(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	execution, err := h.Service.ExecuteSavedSearch(r.Context(), pathParam(r, "id"), userID)
	if err != nil {
		respondError(w, r, h.Logger, err, savedSearchNotFound)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "data": execution})
}

func (h *SavedSearchHandler) UpdateSavedSearch(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req models.UpdateSavedSearchRequest
	if !decodeBody(w, r, h.Validator, validation.SavedSearchUpdate, &req) {
		return
	}

	saved, err := h.Service.UpdateSavedSearch(r.Context(), pathParam(r, "id"), userID, req)
	if err != nil {
		respondError(w, r, h.Logger, err, savedSearchNotFound)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		"success": true,
		"message": "Search updated successfully",
		"data":    saved,
	})
}

func (h *SavedSearchHandler) DeleteSavedSearch(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteSavedSearch(r.Context(), pathParam(r, "id"), userID); err != nil {
		respondError(w, r, h.Logger, err, savedSearchNotFound)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "message": "Search deleted successfully"})
}
