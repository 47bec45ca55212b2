package auth

import (
	"crypto/rand"
	"fmt"
)

// TokenLength is the number of characters in a session token.
const TokenLength = 128

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Bytes at or above this bound are rejected so every symbol is equally likely.
const tokenRejectBound = 256 - (256 % len(tokenAlphabet))

// GenerateToken returns a random alphanumeric session token of TokenLength
// characters drawn from crypto/rand.
func GenerateToken() (string, error) {
	token := make([]byte, 0, TokenLength)
	buf := make([]byte, TokenLength)

	for len(token) < TokenLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= tokenRejectBound {
				continue
			}
			token = append(token, tokenAlphabet[int(b)%len(tokenAlphabet)])
			if len(token) == TokenLength {
				break
			}
		}
	}

	return string(token), nil
}
