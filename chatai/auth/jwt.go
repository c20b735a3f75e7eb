package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"chatai/chatai/apperrors"
)

type Claims struct {
	UserID int `json:"user_id"`
	jwt.RegisteredClaims
}

// GenerateToken mints a signed session token for userID.
func GenerateToken(userID int, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString(secret)
}

// ParseToken verifies signature and expiry and returns the claims.
func ParseToken(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Auth, "invalid token", err)
	}
	if !token.Valid || claims.UserID < 1 {
		return nil, apperrors.New(apperrors.Auth, "invalid token")
	}
	return claims, nil
}

// TokenExpiry reads the expiry of a token without verifying the
// signature. The client uses it to tell a valid session from an
// expired one; it must never be used for authentication.
func TokenExpiry(tokenString string) (time.Time, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return time.Time{}, apperrors.Wrap(apperrors.Auth, "malformed token", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, apperrors.New(apperrors.Auth, "token has no expiry")
	}
	return claims.ExpiresAt.Time, nil
}
