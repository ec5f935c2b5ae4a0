package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"fixitnow-be/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func guardedRouter(role string, allowed ...models.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/guarded",
		func(c *gin.Context) {
			if role != "" {
				c.Set("user_role", role)
			}
		},
		RequireRoles(allowed...),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "ok"})
		},
	)
	return r
}

func TestRequireRoles(t *testing.T) {
	t.Run("allowed role passes", func(t *testing.T) {
		r := guardedRouter("admin", models.RoleAdmin, models.RoleGovernment)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("disallowed role is forbidden", func(t *testing.T) {
		r := guardedRouter("public", models.RoleAdmin)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing role is forbidden", func(t *testing.T) {
		r := guardedRouter("", models.RoleAdmin)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("unknown role string is forbidden", func(t *testing.T) {
		r := guardedRouter("superuser", models.RoleAdmin, models.RoleTechnician)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
