package token

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWT issues and parses HS256 session tokens for authenticated clients.
type JWT struct {
	SecretKey string        // Secret key for signing tokens
	Exp       time.Duration // Token lifetime
}

// New creates a new JWT instance.
func New(secretKey string, expiration time.Duration) *JWT {
	return &JWT{
		SecretKey: secretKey,
		Exp:       expiration,
	}
}

// Issue creates a signed token for the given client id.
func (j *JWT) Issue(ctx context.Context, clientID uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"client_id": clientID.String(),
		"exp":       time.Now().Add(j.Exp).Unix(),
		"iat":       time.Now().Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(j.SecretKey))
}

// ParseClientID validates the token string and returns the client id it carries.
func (j *JWT) ParseClientID(ctx context.Context, tokenString string) (uuid.UUID, error) {
	t, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(j.SecretKey), nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok || !t.Valid {
		return uuid.Nil, errors.New("invalid token")
	}

	clientIDStr, ok := claims["client_id"].(string)
	if !ok {
		return uuid.Nil, errors.New("client_id not found in token")
	}
	clientID, err := uuid.Parse(clientIDStr)
	if err != nil {
		return uuid.Nil, errors.New("invalid client_id format")
	}
	return clientID, nil
}
