package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const guestPrefix = "guest_"

var ErrInvalidGuestToken = errors.New("invalid guest token")

// NewGuestID returns a fresh identifier for an anonymous browser.
func NewGuestID() string {
	return guestPrefix + uuid.NewString()
}

// IssueGuestToken signs a token binding the browser to guestID.
func IssueGuestToken(secret []byte, guestID string, ttl time.Duration) (string, time.Time, error) {
	expiresAt := time.Now().Add(ttl)
	claims := jwt.MapClaims{
		"user_id": guestID,
		"role":    "guest",
		"exp":     expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseGuestToken validates the token and returns the guest id it carries.
func ParseGuestToken(secret []byte, tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", ErrInvalidGuestToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["role"] != "guest" {
		return "", ErrInvalidGuestToken
	}
	guestID, _ := claims["user_id"].(string)
	if !strings.HasPrefix(guestID, guestPrefix) {
		return "", ErrInvalidGuestToken
	}
	return guestID, nil
}
