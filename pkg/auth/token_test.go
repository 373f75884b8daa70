package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockroomhq/stockroom-backend/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret: "test-secret-at-least-32-characters!!",
		Issuer: "stockroom-test",
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()
	now := time.Now().UTC()

	signed, err := MintAccessToken(cfg, now, 24*time.Hour, AccessTokenPayload{
		UserID: userID,
		Demo:   true,
		JTI:    "session-1",
	})
	require.NoError(t, err)

	claims, err := ParseAccessToken(cfg, signed)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.True(t, claims.Demo)
	assert.Equal(t, "session-1", claims.ID)
	assert.Equal(t, cfg.Issuer, claims.Issuer)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestMintAccessToken_GeneratesJTIWhenBlank(t *testing.T) {
	cfg := testJWTConfig()

	signed, err := MintAccessToken(cfg, time.Now(), time.Hour, AccessTokenPayload{UserID: uuid.New()})
	require.NoError(t, err)

	claims, err := ParseAccessToken(cfg, signed)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)
}

func TestMintAccessToken_Validation(t *testing.T) {
	cfg := testJWTConfig()
	payload := AccessTokenPayload{UserID: uuid.New()}

	_, err := MintAccessToken(config.JWTConfig{Issuer: cfg.Issuer}, time.Now(), time.Hour, payload)
	require.Error(t, err)

	_, err = MintAccessToken(config.JWTConfig{Secret: cfg.Secret}, time.Now(), time.Hour, payload)
	require.Error(t, err)

	_, err = MintAccessToken(cfg, time.Now(), 0, payload)
	require.Error(t, err)

	_, err = MintAccessToken(cfg, time.Now(), time.Hour, AccessTokenPayload{})
	require.Error(t, err)
}

func TestParseAccessToken_RejectsExpired(t *testing.T) {
	cfg := testJWTConfig()

	signed, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), time.Hour, AccessTokenPayload{UserID: uuid.New()})
	require.NoError(t, err)

	_, err = ParseAccessToken(cfg, signed)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseAccessToken_RejectsWrongIssuer(t *testing.T) {
	mintCfg := testJWTConfig()
	mintCfg.Issuer = "someone-else"

	signed, err := MintAccessToken(mintCfg, time.Now(), time.Hour, AccessTokenPayload{UserID: uuid.New()})
	require.NoError(t, err)

	_, err = ParseAccessToken(testJWTConfig(), signed)
	require.Error(t, err)
}

func TestParseAccessToken_RejectsWrongSecret(t *testing.T) {
	signed, err := MintAccessToken(testJWTConfig(), time.Now(), time.Hour, AccessTokenPayload{UserID: uuid.New()})
	require.NoError(t, err)

	badCfg := testJWTConfig()
	badCfg.Secret = "a-completely-different-signing-secret"
	_, err = ParseAccessToken(badCfg, signed)
	require.Error(t, err)
}

func TestParseAccessToken_RejectsUnexpectedSigningMethod(t *testing.T) {
	cfg := testJWTConfig()

	// tokens signed with none must never validate
	token := jwt.NewWithClaims(jwt.SigningMethodNone, AccessTokenClaims{
		UserID: uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseAccessToken(cfg, signed)
	require.Error(t, err)
}
