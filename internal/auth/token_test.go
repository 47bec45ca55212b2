package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	seen := make(map[string]struct{})

	for i := 0; i < 50; i++ {
		token, err := GenerateToken()
		require.NoError(t, err)
		require.Len(t, token, TokenLength)

		for _, r := range token {
			isAlnum := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
			require.True(t, isAlnum, "unexpected rune %q in token", r)
		}

		_, dup := seen[token]
		assert.False(t, dup, "token repeated")
		seen[token] = struct{}{}
	}
}
