package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret")
	assert.NoError(t, err)
	assert.NotEqual(t, "secret", hash)

	assert.True(t, CheckPasswordHash("secret", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestGenerateJWT(t *testing.T) {
	t.Run("NoSecret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		_, err := GenerateJWT(1, "admin", "admin@example.com", "ADMIN")
		assert.ErrorIs(t, err, ErrSecretNotSet)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "testsecret")

		tokenStr, err := GenerateJWT(7, "jdoe", "jdoe@example.com", "CUSTOMER")
		require.NoError(t, err)

		claims, err := ParseJWT(tokenStr)
		require.NoError(t, err)
		assert.Equal(t, int64(7), claims.UserID)
		assert.Equal(t, "jdoe", claims.Username)
		assert.Equal(t, "CUSTOMER", claims.Role)
		assert.WithinDuration(t, time.Now().Add(TokenTTL), claims.ExpiresAt.Time, time.Minute)
	})
}

func TestParseJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "testsecret")

	t.Run("InvalidToken", func(t *testing.T) {
		_, err := ParseJWT("not-a-token")
		assert.Error(t, err)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, CustomClaims{UserID: 1})
		signed, err := token.SignedString([]byte("other"))
		require.NoError(t, err)

		_, err = ParseJWT(signed)
		assert.Error(t, err)
	})

	t.Run("Expired", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, CustomClaims{
			UserID: 1,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		})
		signed, err := token.SignedString([]byte("testsecret"))
		require.NoError(t, err)

		_, err = ParseJWT(signed)
		assert.Error(t, err)
	})

	t.Run("MissingUser", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, CustomClaims{Role: "ADMIN"})
		signed, err := token.SignedString([]byte("testsecret"))
		require.NoError(t, err)

		_, err = ParseJWT(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
