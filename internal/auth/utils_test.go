package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUserID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := NewUserID()
		require.NoError(t, err)
		assert.Len(t, id, 12)
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestPasswordHashing(t *testing.T) {
	hashed, salt, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEmpty(t, salt)
	assert.NotEqual(t, "correct horse battery staple", hashed)

	assert.NoError(t, VerifyPassword(hashed, "correct horse battery staple", salt))
	assert.Error(t, VerifyPassword(hashed, "wrong password", salt))
	assert.Error(t, VerifyPassword(hashed, "correct horse battery staple", "wrong salt"))
}
