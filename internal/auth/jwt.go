package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pawhaus/service-boarding/internal/domain"
)

// Claims are the JWT claims carried by access tokens.
type Claims struct {
	UserID   uuid.UUID `json:"uid"`
	Role     string    `json:"role"`
	Language string    `json:"lang,omitempty"`
	jwt.RegisteredClaims
}

// JWTManager issues and verifies access tokens.
type JWTManager struct {
	secret    []byte
	accessTTL time.Duration
}

// NewJWTManager creates a new JWTManager.
func NewJWTManager(secret string, accessTTL time.Duration) *JWTManager {
	return &JWTManager{secret: []byte(secret), accessTTL: accessTTL}
}

// Generate issues a signed access token for the principal.
func (m *JWTManager) Generate(userID uuid.UUID, role domain.Role, language string) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		UserID:   userID,
		Role:     string(role),
		Language: language,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses and validates a token, returning the acting principal.
func (m *JWTManager) Verify(tokenString string) (domain.Actor, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return domain.Actor{}, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return domain.Actor{}, fmt.Errorf("invalid token claims")
	}

	role := domain.Role(claims.Role)
	if !role.IsValid() {
		return domain.Actor{}, fmt.Errorf("invalid role claim: %s", claims.Role)
	}

	return domain.Actor{
		UserID:   claims.UserID,
		Role:     role,
		Language: claims.Language,
	}, nil
}
