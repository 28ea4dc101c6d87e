package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("ops", RoleAdmin, testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Name)
	assert.Equal(t, RoleAdmin, claims.Role)

	_, err = ParseToken(token, "other-secret")
	assert.Error(t, err)

	_, err = GenerateToken("ops", RoleAdmin, "", time.Hour)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken("ops", RoleAdmin, testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, testSecret)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestRequireAdmin(t *testing.T) {
	r := gin.New()
	r.GET("/admin", RequireAdmin(testSecret), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("name"))
	})

	admin, err := GenerateToken("ops", RoleAdmin, testSecret, time.Hour)
	require.NoError(t, err)
	viewer, err := GenerateToken("guest", "viewer", testSecret, time.Hour)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"non admin", "Bearer " + viewer, http.StatusForbidden},
		{"admin", "Bearer " + admin, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
			if tc.status != http.StatusOK {
				assert.Contains(t, w.Body.String(), `"erro"`)
			}
		})
	}
}
