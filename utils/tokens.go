package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"

	"estateBack/internal/models"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type Manager struct {
	signingKey string
	ttl        time.Duration
	now        func() time.Time
}

func NewManager(signingKey string, ttl time.Duration) (*Manager, error) {
	if signingKey == "" {
		return nil, errors.New("empty signing key")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &Manager{signingKey: signingKey, ttl: ttl, now: time.Now}, nil
}

// NewJWT issues an HS256 access token carrying the user id and role.
func (m *Manager) NewJWT(userID int, role string) (string, error) {
	now := m.now()
	claims := &models.Claims{
		UserID: userID,
		Role:   role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(m.ttl).Unix(),
			IssuedAt:  now.Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.signingKey))
}

func (m *Manager) Parse(accessToken string) (*models.Claims, error) {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(accessToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.signingKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID <= 0 {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
