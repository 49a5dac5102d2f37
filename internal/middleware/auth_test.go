package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubValidator struct {
	claims *TokenClaims
	err    error
}

func (s *stubValidator) ValidateToken(token string) (*TokenClaims, error) {
	return s.claims, s.err
}

func setupRouter(v TokenValidator, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/", AuthMiddleware(v))
	if role != "" {
		group.Use(RequireRole(role))
	}
	group.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"email": c.GetString("email"),
			"role":  c.GetString("role"),
		})
	})
	return r
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	r := setupRouter(&stubValidator{}, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	r := setupRouter(&stubValidator{}, "")

	for _, header := range []string{"token-without-scheme", "Basic abc", "Bearer"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Authorization", header)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	r := setupRouter(&stubValidator{err: errors.New("expired")}, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareSetsIdentity(t *testing.T) {
	r := setupRouter(&stubValidator{claims: &TokenClaims{Email: "chef@example.com", Role: RoleChef}}, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "chef@example.com")
	assert.Contains(t, w.Body.String(), RoleChef)
}

func TestRequireRole(t *testing.T) {
	validator := &stubValidator{claims: &TokenClaims{Email: "user@example.com", Role: RoleUser}}

	r := setupRouter(validator, RoleChef)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	r = setupRouter(validator, RoleUser)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
