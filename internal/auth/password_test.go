package auth

import (
	"strings"
	"testing"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("Hash must not equal the plaintext password")
	}
	if !CheckPassword(hash, "s3cret-pass") {
		t.Error("CheckPassword rejected the correct password")
	}
	if CheckPassword(hash, "wrong-pass") {
		t.Error("CheckPassword accepted a wrong password")
	}
}

func TestHashAndCheckRefreshToken(t *testing.T) {
	// Longer than bcrypt's 72-byte input limit, like a real JWT
	token := strings.Repeat("eyJhbGciOiJIUzI1NiJ9.", 8)

	hash, err := HashRefreshToken(token)
	if err != nil {
		t.Fatalf("HashRefreshToken failed: %v", err)
	}
	if !CheckRefreshToken(hash, token) {
		t.Error("CheckRefreshToken rejected the original token")
	}
	if CheckRefreshToken(hash, token+"x") {
		t.Error("CheckRefreshToken accepted a modified token")
	}
}
