package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"estateBack/internal/models"
	"estateBack/internal/validation"
)

type UserService interface {
	SignUp(ctx context.Context, req models.SignUpRequest) (models.AuthResponse, error)
	SignIn(ctx context.Context, req models.SignInRequest) (models.AuthResponse, error)
	GetUserByID(ctx context.Context, id int) (models.User, error)
}

type UserHandler struct {
	Service   UserService
	Validator BodyValidator
	Logger    *zap.Logger
}

const userNotFound = "User not found"

func (h *UserHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req models.SignUpRequest
	if !decodeBody(w, r, h.Validator, validation.Register, &req) {
		return
	}

	resp, err := h.Service.SignUp(r.Context(), req)
	if err != nil {
		respondError(w, r, h.Logger, err, userNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"success": true, "token": resp.Token, "user": resp.User})
}

func (h *UserHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req models.SignInRequest
	if !decodeBody(w, r, h.Validator, validation.Login, &req) {
		return
	}

	resp, err := h.Service.SignIn(r.Context(), req)
	if err != nil {
		respondError(w, r, h.Logger, err, userNotFound)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "token": resp.Token, "user": resp.User})
}

func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	user, err := h.Service.GetUserByID(r.Context(), userID)
	if err != nil {
		respondError(w, r, h.Logger, err, userNotFound)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "data": user})
}

func (h *UserHandler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	id, ok := getIntParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	user, err := h.Service.GetUserByID(r.Context(), id)
	if err != nil {
		respondError(w, r, h.Logger, err, userNotFound)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "data": user})
}
