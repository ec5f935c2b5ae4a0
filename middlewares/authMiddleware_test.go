package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	authUtils "fixitnow-be/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authedRouter() (*gin.Engine, *map[string]interface{}) {
	gin.SetMode(gin.TestMode)
	seen := map[string]interface{}{}
	r := gin.New()
	r.GET("/me", AuthMiddleware(), func(c *gin.Context) {
		seen["user_id"], _ = c.Get("user_id")
		seen["user_email"], _ = c.Get("user_email")
		seen["user_role"], _ = c.Get("user_role")
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	return r, &seen
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("valid bearer token populates the context", func(t *testing.T) {
		token, err := authUtils.GenerateAndSetToken("user-1", "admin@example.com", "admin")
		require.NoError(t, err)

		r, seen := authedRouter()
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user-1", (*seen)["user_id"])
		assert.Equal(t, "admin@example.com", (*seen)["user_email"])
		assert.Equal(t, "admin", (*seen)["user_role"])
	})

	t.Run("cookie token is accepted", func(t *testing.T) {
		token, err := authUtils.GenerateAndSetToken("user-2", "tech@example.com", "technician")
		require.NoError(t, err)

		r, seen := authedRouter()
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user-2", (*seen)["user_id"])
	})

	t.Run("missing token is unauthorized", func(t *testing.T) {
		r, _ := authedRouter()
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token is unauthorized", func(t *testing.T) {
		r, _ := authedRouter()
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token signed with another secret is unauthorized", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "other-secret")
		token, err := authUtils.GenerateAndSetToken("user-3", "x@example.com", "public")
		require.NoError(t, err)
		t.Setenv("JWT_SECRET", "test-secret")

		r, _ := authedRouter()
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
