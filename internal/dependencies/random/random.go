package random

import (
	"crypto/rand"
	"math/big"
)

// Random is the randomness source behind generated entity IDs,
// injectable so tests can pin the values.
type Random interface {
	// Intn returns a random int in [0, n)
	Intn(n int) int

	// String draws length characters from alphabet
	String(length int, alphabet string) string
}

// CryptoRandom draws from crypto/rand
type CryptoRandom struct{}

// New returns the production Random source
func New() *CryptoRandom {
	return &CryptoRandom{}
}

func (r *CryptoRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	result, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand read failure; callers get a degenerate but safe value
		return 0
	}
	return int(result.Int64())
}

func (r *CryptoRandom) String(length int, alphabet string) string {
	if length <= 0 || len(alphabet) == 0 {
		return ""
	}
	out := make([]byte, length)
	for i := range out {
		out[i] = alphabet[r.Intn(len(alphabet))]
	}
	return string(out)
}
