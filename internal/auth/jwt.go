package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// PurposeReset marks short-lived tokens minted after a verified password
// reset OTP. Session tokens carry no purpose claim.
const PurposeReset = "reset"

type Claims struct {
	UserID  int64  `json:"uid"`
	Email   string `json:"email"`
	Purpose string `json:"purpose,omitempty"`
	jwt.RegisteredClaims
}

// MintSessionToken mints the 24h session JWT set as the auth cookie.
func MintSessionToken(userID int64, email, secret string, ttl time.Duration) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
	return t.SignedString([]byte(secret))
}

// MintResetToken mints a password-reset token, only accepted by ParseResetClaims.
func MintResetToken(userID int64, email, secret string, ttl time.Duration) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:  userID,
		Email:   email,
		Purpose: PurposeReset,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
	return t.SignedString([]byte(secret))
}

// ParseClaims parses and verifies a session token.
func ParseClaims(tokenStr, secret string) (*Claims, error) {
	c, err := parse(tokenStr, secret)
	if err != nil {
		return nil, err
	}
	if c.Purpose != "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return c, nil
}

// ParseResetClaims parses and verifies a password-reset token.
func ParseResetClaims(tokenStr, secret string) (*Claims, error) {
	c, err := parse(tokenStr, secret)
	if err != nil {
		return nil, err
	}
	if c.Purpose != PurposeReset {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return c, nil
}

func parse(tokenStr, secret string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid {
		return c, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}
