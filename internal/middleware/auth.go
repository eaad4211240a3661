package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
)

// TokenVerifier checks a Firebase ID token. *auth.Client satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
	isAdmin  func(uid string) bool
}

func NewAuthMiddleware(ctx context.Context, projectID string, isAdmin func(uid string) bool) (*AuthMiddleware, error) {
	if projectID == "" {
		return nil, errors.New("FIREBASE_PROJECT_ID is not set")
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID})
	if err != nil {
		return nil, err
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, err
	}
	return NewAuthMiddlewareWithVerifier(client, isAdmin), nil
}

func NewAuthMiddlewareWithVerifier(v TokenVerifier, isAdmin func(uid string) bool) *AuthMiddleware {
	return &AuthMiddleware{verifier: v, isAdmin: isAdmin}
}

func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authz := c.Request().Header.Get("Authorization")
		if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
			return c.JSON(http.StatusUnauthorized, errorBody("unauthorized", "missing bearer token"))
		}
		tokenStr := strings.TrimPrefix(authz, "Bearer ")
		token, err := m.verifier.VerifyIDToken(c.Request().Context(), tokenStr)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, errorBody("invalid_token", "token verification failed"))
		}
		c.Set("uid", token.UID)
		if name, ok := token.Claims["name"].(string); ok {
			c.Set("name", name)
		}
		if pic, ok := token.Claims["picture"].(string); ok {
			c.Set("picture", pic)
		}
		return next(c)
	}
}

// RequireAdmin verifies the token and then checks the uid against the admin list.
func (m *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.RequireAuth(func(c echo.Context) error {
		uid, _ := c.Get("uid").(string)
		if m.isAdmin == nil || !m.isAdmin(uid) {
			return c.JSON(http.StatusForbidden, errorBody("forbidden", "admin only"))
		}
		return next(c)
	})
}

func errorBody(code, message string) map[string]map[string]string {
	return map[string]map[string]string{"error": {"code": code, "message": message}}
}
