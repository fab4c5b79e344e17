package auth

import (
	"crypto/sha256"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext password for storage
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword compares a plaintext password against its stored hash
func CheckPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// HashRefreshToken hashes a refresh token before it is stored on the user
// document. The token is run through SHA-256 first because bcrypt only reads
// the first 72 bytes of its input and JWTs are longer than that.
func HashRefreshToken(token string) (string, error) {
	sum := sha256.Sum256([]byte(token))
	hashed, err := bcrypt.GenerateFromPassword(sum[:], bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckRefreshToken compares a presented refresh token against the stored hash
func CheckRefreshToken(hashedToken, token string) bool {
	sum := sha256.Sum256([]byte(token))
	return bcrypt.CompareHashAndPassword([]byte(hashedToken), sum[:]) == nil
}
