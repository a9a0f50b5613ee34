// internal/utils/crypto_test.go
package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOrderNumber(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		n, err := GenerateOrderNumber()
		assert.NoError(t, err)
		assert.True(t, strings.HasPrefix(n, "VLR-"))
		assert.Len(t, n, len("VLR-")+10)

		// The charset drops ambiguous characters
		for _, r := range n[4:] {
			assert.NotContains(t, "01OI", string(r))
		}

		assert.False(t, seen[n], "duplicate order number %s", n)
		seen[n] = true
	}
}

func TestGenerateRandomStringLength(t *testing.T) {
	s, err := GenerateRandomString(16, "ab")
	assert.NoError(t, err)
	assert.Len(t, s, 16)
	for _, r := range s {
		assert.Contains(t, "ab", string(r))
	}
}
