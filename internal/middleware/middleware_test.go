package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hugorgg/command-ai-nexus/internal/session"
	"github.com/hugorgg/command-ai-nexus/pkg/jwtutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthEcho(t *testing.T) (*echo.Echo, *jwtutil.JWTUtil) {
	t.Helper()
	j := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})
	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		id, err := session.Require(c.Request().Context())
		if err != nil {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.JSON(http.StatusOK, echo.Map{"tenant_id": id.TenantID, "email": id.Email})
	}, Auth(j))
	return e, j
}

func TestAuth(t *testing.T) {
	e, j := newAuthEcho(t)

	valid, err := j.GenerateToken("owner@acme.com", "user-1", "tenant-1", "owner")
	require.NoError(t, err)
	noTenant, err := j.GenerateToken("owner@acme.com", "user-1", "", "")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid token", "Bearer " + valid, http.StatusOK},
		{"lowercase scheme", "bearer " + valid, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"token without tenant", "Bearer " + noTenant, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"tenant_id":"tenant-1","email":"owner@acme.com"}`, rec.Body.String())
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get(RequestIDKey).(string))
	}, RequestID)

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		id := rec.Header().Get(RequestIDKey)
		assert.NotEmpty(t, id)
		assert.Equal(t, id, rec.Body.String())
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDKey, "abc-123")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", rec.Header().Get(RequestIDKey))
		assert.Equal(t, "abc-123", rec.Body.String())
	})
}
