package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("pw123456")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	// bcrypt output self-describes its cost and salt.
	assert.True(t, strings.HasPrefix(hash, "$2"))
	assert.NotEqual(t, "pw123456", hash)

	assert.True(t, VerifyPassword("pw123456", hash))
	assert.False(t, VerifyPassword("pw1234567", hash))
	assert.False(t, VerifyPassword("", hash))
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	assert.False(t, VerifyPassword("pw123456", "not-a-bcrypt-hash"))
	assert.False(t, VerifyPassword("pw123456", ""))
}

func TestHashPasswordSalted(t *testing.T) {
	h1, err := HashPassword("pw123456")
	require.NoError(t, err)
	h2, err := HashPassword("pw123456")
	require.NoError(t, err)

	// Random salt: equal passwords never share a hash.
	assert.NotEqual(t, h1, h2)
}
