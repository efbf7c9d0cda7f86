package auth

import (
	"fmt"

	"gigflow/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword validates minimum strength and returns a bcrypt hash.
func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", models.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("auth.HashPassword: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext password against a stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
