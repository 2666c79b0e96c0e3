package models

import (
	"time"

	"github.com/golang-jwt/jwt"
)

const (
	RoleOwner  = "owner"
	RoleTenant = "tenant"
	RoleAdmin  = "admin"
)

type User struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone,omitempty"`
	Password   string     `json:"-"`
	Role       string     `json:"role"`
	NationalID string     `json:"national_id,omitempty"`
	AvatarPath *string    `json:"avatar,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

type Claims struct {
	UserID int    `json:"user_id"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

type SignUpRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
	Role                 string `json:"role"`
	Phone                string `json:"phone"`
	NationalID           string `json:"national_id"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
