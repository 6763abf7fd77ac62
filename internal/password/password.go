// Package password wraps bcrypt hashing for stored credentials.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/ctfe/ctfe/internal/model"
)

// Hash derives a one-way salted digest from a plaintext password.
// An empty plaintext is a programmer error.
func Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", fmt.Errorf("%w: empty password", model.ErrInvalidArgument)
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches the stored digest.
// Malformed digests verify as false rather than erroring, so a
// corrupted credential row behaves like a wrong password.
func Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
