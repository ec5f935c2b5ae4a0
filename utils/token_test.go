package authUtils

import (
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndSetToken(t *testing.T) {
	t.Run("token carries id, email and role claims", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")

		tokenString, err := GenerateAndSetToken("user-1", "admin@example.com", "admin")
		require.NoError(t, err)
		require.NotEmpty(t, tokenString)

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			return []byte("test-secret"), nil
		})
		require.NoError(t, err)
		require.True(t, token.Valid)

		claims, ok := token.Claims.(jwt.MapClaims)
		require.True(t, ok)
		assert.Equal(t, "user-1", claims["user_id"])
		assert.Equal(t, "admin@example.com", claims["email"])
		assert.Equal(t, "admin", claims["role"])
		assert.NotNil(t, claims["exp"])
	})

	t.Run("missing secret fails", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")

		_, err := GenerateAndSetToken("user-1", "a@example.com", "public")
		assert.Error(t, err)
	})
}
