package auth

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

// TokenClaims represents the claims in an access or refresh token
type TokenClaims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateAccessToken creates a short-lived access token for a user
func GenerateAccessToken(userID, email string) (string, error) {
	return generateToken(userID, email, accessTokenTTL, "JWT_SECRET")
}

// GenerateRefreshToken creates a longer-lived refresh token for a user
func GenerateRefreshToken(userID, email string) (string, error) {
	return generateToken(userID, email, refreshTokenTTL, "JWT_REFRESH_SECRET")
}

func generateToken(userID, email string, ttl time.Duration, secretEnv string) (string, error) {
	secretKey := secretFromEnv(secretEnv)
	if secretKey == "" {
		return "", fmt.Errorf("%s environment variable not set", secretEnv)
	}

	claims := TokenClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "taskhive",
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, nil
}

// ValidateAccessToken validates and parses an access token
func ValidateAccessToken(tokenString string) (*TokenClaims, error) {
	return validateToken(tokenString, "JWT_SECRET")
}

// ValidateRefreshToken validates and parses a refresh token
func ValidateRefreshToken(tokenString string) (*TokenClaims, error) {
	return validateToken(tokenString, "JWT_REFRESH_SECRET")
}

func validateToken(tokenString, secretEnv string) (*TokenClaims, error) {
	secretKey := secretFromEnv(secretEnv)
	if secretKey == "" {
		return nil, fmt.Errorf("%s environment variable not set", secretEnv)
	}

	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// secretFromEnv resolves the signing secret. The refresh secret falls back to
// the access secret when not configured separately.
func secretFromEnv(secretEnv string) string {
	secret := os.Getenv(secretEnv)
	if secret == "" && secretEnv == "JWT_REFRESH_SECRET" {
		secret = os.Getenv("JWT_SECRET")
	}
	return secret
}
