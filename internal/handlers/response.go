package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"estateBack/internal/models"
)

const maxBodyBytes = 1 << 20

type envelope map[string]interface{}

// BodyValidator checks a raw JSON body against a named schema.
type BodyValidator interface {
	Validate(name string, body []byte) error
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{"success": false, "message": message})
}

// decodeBody reads the request body, validates it against schema and decodes
// it into dst. It writes the 400 response itself and reports false on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v BodyValidator, schema string, dst interface{}) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := v.Validate(schema, body); err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			writeValidationError(w, verr)
			return false
		}
		writeError(w, http.StatusInternalServerError, "Server error")
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		verr := models.NewValidationError()
		verr.Add("body", err.Error())
		writeValidationError(w, verr)
		return false
	}
	return true
}

func writeValidationError(w http.ResponseWriter, verr *models.ValidationError) {
	writeJSON(w, http.StatusBadRequest, envelope{
		"success": false,
		"message": "Validation failed",
		"errors":  verr.Fields,
	})
}

// respondError maps service errors onto HTTP statuses. Unknown errors are
// logged and reported as a generic 500.
func respondError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error, notFound string) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		writeValidationError(w, verr)
	case errors.Is(err, models.ErrNoRecord),
		errors.Is(err, models.ErrApartmentNotFound),
		errors.Is(err, models.ErrReviewNotFound),
		errors.Is(err, models.ErrUserNotFound):
		writeError(w, http.StatusNotFound, notFound)
	case errors.Is(err, models.ErrForbidden):
		writeError(w, http.StatusForbidden, "You are not allowed to perform this action")
	case errors.Is(err, models.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, models.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, "Email is already registered")
	case isDuplicateEntryError(err):
		writeError(w, http.StatusConflict, "Record already exists")
	case errors.Is(err, models.ErrAlreadyReviewed):
		writeError(w, http.StatusBadRequest, "You have already reviewed this apartment")
	case errors.Is(err, models.ErrAlreadyBooked):
		writeError(w, http.StatusBadRequest, "You already booked this apartment")
	case errors.Is(err, models.ErrNotAvailable):
		writeError(w, http.StatusBadRequest, "Apartment is not available for booking")
	case isForeignKeyConstraintError(err):
		writeError(w, http.StatusBadRequest, "Referenced record does not exist")
	default:
		logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("uri", r.URL.RequestURI()),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "Server error")
	}
}
