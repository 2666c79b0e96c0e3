package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"estateBack/internal/models"
)

const minPasswordLength = 6

type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	GetUserByID(ctx context.Context, id int) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type TokenIssuer interface {
	NewJWT(userID int, role string) (string, error)
}

type UserService struct {
	UserRepo UserStore
	Tokens   TokenIssuer
	Logger   *zap.Logger
	// HashCost overrides bcrypt.DefaultCost when set.
	HashCost int
}

func (s *UserService) SignUp(ctx context.Context, req models.SignUpRequest) (models.AuthResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	req.NationalID = strings.TrimSpace(req.NationalID)
	if req.Role == "" {
		req.Role = models.RoleTenant
	}

	verr := models.NewValidationError()
	if req.Name == "" {
		verr.Add("name", "name is required")
	}
	if req.Email == "" {
		verr.Add("email", "email is required")
	} else if !strings.Contains(req.Email, "@") {
		verr.Add("email", "email is invalid")
	}
	if len(req.Password) < minPasswordLength {
		verr.Add("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if req.Password != req.PasswordConfirmation {
		verr.Add("password_confirmation", "passwords do not match")
	}
	if req.NationalID == "" {
		verr.Add("national_id", "national id is required")
	}
	if req.Role != models.RoleOwner && req.Role != models.RoleTenant {
		verr.Add("role", "role must be owner or tenant")
	}
	if err := verr.OrNil(); err != nil {
		return models.AuthResponse{}, err
	}

	exists, err := s.UserRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return models.AuthResponse{}, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return models.AuthResponse{}, models.ErrDuplicateEmail
	}

	cost := s.HashCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), cost)
	if err != nil {
		return models.AuthResponse{}, err
	}

	user, err := s.UserRepo.CreateUser(ctx, models.User{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Password:   string(hashedPassword),
		Role:       req.Role,
		NationalID: req.NationalID,
	})
	if err != nil {
		return models.AuthResponse{}, err
	}

	return s.authResponse(user)
}

func (s *UserService) SignIn(ctx context.Context, req models.SignInRequest) (models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.UserRepo.GetUserByEmail(ctx, email)
	if errors.Is(err, models.ErrUserNotFound) {
		s.Logger.Info("sign in for unknown email", zap.String("email", email))
		return models.AuthResponse{}, models.ErrInvalidCredentials
	}
	if err != nil {
		return models.AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		s.Logger.Info("invalid password", zap.Int("user_id", user.ID))
		return models.AuthResponse{}, models.ErrInvalidCredentials
	}

	return s.authResponse(user)
}

func (s *UserService) GetUserByID(ctx context.Context, id int) (models.User, error) {
	return s.UserRepo.GetUserByID(ctx, id)
}

func (s *UserService) authResponse(user models.User) (models.AuthResponse, error) {
	token, err := s.Tokens.NewJWT(user.ID, user.Role)
	if err != nil {
		return models.AuthResponse{}, fmt.Errorf("issue token: %w", err)
	}
	user.Password = ""
	return models.AuthResponse{Token: token, User: user}, nil
}
