package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/school_canteen/pkg/tokens"
)

var secret = []byte("test-jwt-secret")

func newRouter() *echo.Echo {
	e := echo.New()
	m := NewAuth(secret)

	e.GET("/me", func(c echo.Context) error {
		id, err := UserID(c)
		if err != nil {
			return err
		}
		return c.String(http.StatusOK, id.String()+" "+Role(c))
	}, m.RequireAuth)

	e.GET("/admin", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, m.RequireStaff)

	return e
}

func sign(t *testing.T, sub, role string, exp time.Time) string {
	t.Helper()
	tok, err := tokens.SignAccessToken(sub, role, exp, secret)
	require.NoError(t, err)
	return tok
}

func TestRequireAuth(t *testing.T) {
	e := newRouter()
	userID := uuid.NewString()
	valid := sign(t, userID, tokens.RoleParent, time.Now().Add(time.Hour))

	tests := []struct {
		name     string
		prepare  func(r *http.Request)
		wantCode int
	}{
		{name: "missing", prepare: func(r *http.Request) {}, wantCode: http.StatusUnauthorized},
		{name: "cookie", prepare: func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "accessToken", Value: valid})
		}, wantCode: http.StatusOK},
		{name: "bearer", prepare: func(r *http.Request) {
			r.Header.Set(echo.HeaderAuthorization, "Bearer "+valid)
		}, wantCode: http.StatusOK},
		{name: "expired", prepare: func(r *http.Request) {
			r.Header.Set(echo.HeaderAuthorization, "Bearer "+sign(t, userID, tokens.RoleParent, time.Now().Add(-time.Minute)))
		}, wantCode: http.StatusUnauthorized},
		{name: "bad subject", prepare: func(r *http.Request) {
			r.Header.Set(echo.HeaderAuthorization, "Bearer "+sign(t, "42", tokens.RoleParent, time.Now().Add(time.Hour)))
		}, wantCode: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			tt.prepare(req)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, userID+" parent", rec.Body.String())
			}
		})
	}
}

func TestRequireStaff(t *testing.T) {
	e := newRouter()

	for role, want := range map[string]int{
		tokens.RoleParent: http.StatusForbidden,
		tokens.RoleStaff:  http.StatusNoContent,
		tokens.RoleAdmin:  http.StatusNoContent,
	} {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+sign(t, uuid.NewString(), role, time.Now().Add(time.Hour)))
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, role)
	}
}
