package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret", bcrypt.MinCost)
	require.NoError(t, err)

	ok, err := VerifyPassword("s3cret", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHashPasswordSaltFreshness(t *testing.T) {
	h1, err := HashPassword("same-password", bcrypt.MinCost)
	require.NoError(t, err)
	h2, err := HashPassword("same-password", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)

	// Both still verify despite differing salts.
	ok, err := VerifyPassword("same-password", h1)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = VerifyPassword("same-password", h2)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyPasswordMismatch(t *testing.T) {
	hash, err := HashPassword("right", bcrypt.MinCost)
	require.NoError(t, err)

	ok, err := VerifyPassword("wrong", hash)
	require.NoError(t, err, "a well-formed mismatch must not be an error")
	assert.False(t, ok)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	ok, err := VerifyPassword("whatever", "not-a-bcrypt-hash")
	assert.False(t, ok)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedHash)
}

func TestHashPasswordTooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("x", 100), bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}
