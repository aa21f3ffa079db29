package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// GenerateToken issues an HS256 token carrying the user's id and display
// name.
func GenerateToken(secret string, expiry time.Duration, userID uuid.UUID, name string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"name":    name,
		"exp":     time.Now().Add(expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates a token and returns the embedded user id and name.
func ParseToken(secret, tokenStr string) (uuid.UUID, string, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["user_id"] == nil {
		return uuid.Nil, "", ErrInvalidToken
	}

	idStr, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, "", ErrInvalidToken
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, "", ErrInvalidToken
	}

	name, _ := claims["name"].(string)
	return id, name, nil
}
