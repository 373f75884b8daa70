package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockroomhq/stockroom-backend/pkg/config"
)

func TestHashAndVerifyPassword(t *testing.T) {
	cfg := config.PasswordConfig{}

	hash, err := HashPassword("secret", cfg)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	ok, err := VerifyPassword("secret", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_SaltsEachHash(t *testing.T) {
	cfg := config.PasswordConfig{}

	first, err := HashPassword("secret", cfg)
	require.NoError(t, err)
	second, err := HashPassword("secret", cfg)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestHashPassword_RejectsEmpty(t *testing.T) {
	_, err := HashPassword("", config.PasswordConfig{})
	require.Error(t, err)
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	for _, encoded := range []string{
		"",
		"plainhash",
		"$bcrypt$v=19$m=8,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=bad,t=1,p=1$c2FsdA$aGFzaA",
	} {
		_, err := VerifyPassword("secret", encoded)
		assert.ErrorIs(t, err, ErrInvalidHash, "encoded=%q", encoded)
	}
}
