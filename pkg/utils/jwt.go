package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of the backend access token we inspect. The BFF never
// holds the backend signing key, so tokens are parsed without verification and
// only used to decide when a stored session is stale.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

var parser = jwt.NewParser()

func InspectToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// TokenExpired reports whether the token expires within skew of now.
// Tokens without an exp claim are treated as not expired.
func TokenExpired(tokenString string, now time.Time, skew time.Duration) (bool, error) {
	claims, err := InspectToken(tokenString)
	if err != nil {
		return true, err
	}
	if claims.ExpiresAt == nil {
		return false, nil
	}
	return !now.Add(skew).Before(claims.ExpiresAt.Time), nil
}

// TokenExpiry returns the exp claim, or the zero time when absent.
func TokenExpiry(tokenString string) (time.Time, error) {
	claims, err := InspectToken(tokenString)
	if err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, errors.New("token has no expiry")
	}
	return claims.ExpiresAt.Time, nil
}
