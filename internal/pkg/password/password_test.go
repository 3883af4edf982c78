package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := HashWithCost("secret123", bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, Verify("secret123", hash))
	assert.False(t, Verify("secret124", hash))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("abcd1234"))
	assert.ErrorIs(t, Validate("abc123"), ErrWeakPassword)
	assert.ErrorIs(t, Validate("abcdefgh"), ErrWeakPassword)
	assert.ErrorIs(t, Validate("12345678"), ErrWeakPassword)
}

func TestHashToken(t *testing.T) {
	assert.Equal(t, HashToken("x"), HashToken("x"))
	assert.NotEqual(t, HashToken("x"), HashToken("y"))
	assert.Len(t, HashToken("x"), 64)
}

func TestRandomToken(t *testing.T) {
	a, err := RandomToken(16)
	require.NoError(t, err)
	b, err := RandomToken(16)
	require.NoError(t, err)
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}
