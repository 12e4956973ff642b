package crypto

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	token, jti, err := GenerateToken("secret", "ops", RoleImporter, time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, jti)

	claims, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Sub)
	assert.Equal(t, RoleImporter, claims.Role)
	assert.Equal(t, jti, claims.ID)
}

func TestParseToken_Rejects(t *testing.T) {
	t.Run("wrong secret", func(t *testing.T) {
		token, _, err := GenerateToken("secret", "ops", RoleImporter, time.Hour)
		require.NoError(t, err)
		_, err = ParseToken("other", token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		token, _, err := GenerateToken("secret", "ops", RoleImporter, -time.Minute)
		require.NoError(t, err)
		_, err = ParseToken("secret", token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("foreign issuer", func(t *testing.T) {
		c := Claims{Sub: "ops", RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = ParseToken("secret", token)
		assert.Error(t, err)
	})

	t.Run("other algorithm", func(t *testing.T) {
		c := Claims{Sub: "ops", RegisteredClaims: jwt.RegisteredClaims{Issuer: Issuer}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, c).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = ParseToken("secret", token)
		assert.Error(t, err)
	})

	t.Run("empty secret", func(t *testing.T) {
		_, _, err := GenerateToken("", "ops", RoleImporter, time.Hour)
		assert.Error(t, err)
	})
}
