package captcha

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	t.Run("produces requested length from alphabet", func(t *testing.T) {
		for _, length := range []int{1, 4, 8, 16} {
			code, err := GenerateCode(length)
			require.NoError(t, err)
			assert.Len(t, code, length)
			for _, ch := range code {
				assert.True(t, strings.ContainsRune(Alphabet, ch), "unexpected character %q", ch)
			}
		}
	})

	t.Run("rejects non-positive length", func(t *testing.T) {
		_, err := GenerateCode(0)
		assert.Error(t, err)
		_, err = GenerateCode(-3)
		assert.Error(t, err)
	})

	t.Run("never emits ambiguous glyphs", func(t *testing.T) {
		for i := 0; i < 200; i++ {
			code, err := GenerateCode(DefaultCodeLength)
			require.NoError(t, err)
			assert.NotContains(t, code, "0")
			assert.NotContains(t, code, "O")
			assert.NotContains(t, code, "1")
			assert.NotContains(t, code, "I")
		}
	})
}

func TestNewSessionKey(t *testing.T) {
	t.Run("is 64 hex characters", func(t *testing.T) {
		key, err := NewSessionKey()
		require.NoError(t, err)
		assert.Len(t, key, 64)
		for _, ch := range key {
			assert.True(t, strings.ContainsRune("0123456789abcdef", ch))
		}
	})

	t.Run("does not collide", func(t *testing.T) {
		seen := make(map[string]bool, 10000)
		for i := 0; i < 10000; i++ {
			key, err := NewSessionKey()
			require.NoError(t, err)
			assert.False(t, seen[key], "duplicate session key %s", key)
			seen[key] = true
		}
	})
}
