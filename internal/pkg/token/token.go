package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/OpenFormsApp/OpenForms/internal/pkg/env"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims carried by both access and refresh tokens.
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func accessSecret() []byte {
	return []byte(env.GetEnv("JWT_SECRET", ""))
}

func refreshSecret() []byte {
	return []byte(env.GetEnv("JWT_REFRESH_SECRET", ""))
}

func accessTTL() time.Duration {
	return time.Duration(env.GetEnvInt("JWT_EXPIRES_MINUTES", 7*24*60)) * time.Minute
}

func refreshTTL() time.Duration {
	return time.Duration(env.GetEnvInt("JWT_REFRESH_EXPIRES_MINUTES", 30*24*60)) * time.Minute
}

// GenerateTokenPair issues a signed access token and refresh token for the user.
func GenerateTokenPair(userID uint, email, role string) (string, string, error) {
	access, err := sign(userID, email, role, accessTTL(), accessSecret())
	if err != nil {
		return "", "", err
	}
	refresh, err := sign(userID, email, role, refreshTTL(), refreshSecret())
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func sign(userID uint, email, role string, ttl time.Duration, secret []byte) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// VerifyAccessToken parses and validates an access token.
func VerifyAccessToken(tokenString string) (*Claims, error) {
	return verify(tokenString, accessSecret())
}

// VerifyRefreshToken parses and validates a refresh token.
func VerifyRefreshToken(tokenString string) (*Claims, error) {
	return verify(tokenString, refreshSecret())
}

func verify(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
