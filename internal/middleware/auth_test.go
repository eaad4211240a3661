package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"github.com/shinyyama/blockguess-backend/internal/reqctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier map[string]string

func (f fakeVerifier) VerifyIDToken(_ context.Context, token string) (*auth.Token, error) {
	uid, ok := f[token]
	if !ok {
		return nil, errors.New("bad token")
	}
	return &auth.Token{UID: uid, Claims: map[string]interface{}{"name": "Admin"}}, nil
}

func TestRequireAdmin(t *testing.T) {
	m := NewAuthMiddlewareWithVerifier(
		fakeVerifier{"admin-token": "admin-uid", "user-token": "user-uid"},
		func(uid string) bool { return uid == "admin-uid" },
	)
	ok := func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get("uid").(string))
	}

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"not admin", "Bearer user-token", http.StatusForbidden},
		{"admin", "Bearer admin-token", http.StatusOK},
	}
	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/admin/rounds", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			require.NoError(t, m.RequireAdmin(ok)(c))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequestIDStoresContext(t *testing.T) {
	e := echo.New()
	e.Use(RequestID())
	var seen string
	e.GET("/", func(c echo.Context) error {
		seen = reqctx.RID(c.Request().Context())
		return c.NoContent(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(echo.HeaderXRequestID))
}
