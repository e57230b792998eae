package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

var testSecret = []byte("test-secret-that-is-long-enough-for-hs256")

func signToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func runMiddleware(t *testing.T, authHeader string) (*httptest.ResponseRecorder, echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/saved", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := MiddlewareWithSecret(testSecret)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	err := h(c)
	return rec, c, err
}

func statusOf(err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return 0
}

func TestMiddleware_ValidToken(t *testing.T) {
	userID := uuid.New()
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": userID.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	rec, c, err := runMiddleware(t, "Bearer "+token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	got, err := GetUserIDFromContext(c)
	if err != nil || got != userID {
		t.Fatalf("expected user %s, got %s (%v)", userID, got, err)
	}
	if TokenFromContext(c) != token {
		t.Fatal("expected raw token in context")
	}
}

func TestMiddleware_Rejections(t *testing.T) {
	expired := signToken(t, testSecret, jwt.MapClaims{
		"sub": uuid.New().String(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	wrongSecret := signToken(t, []byte("another-secret"), jwt.MapClaims{"sub": uuid.New().String()})
	badSubject := signToken(t, testSecret, jwt.MapClaims{"sub": "not-a-uuid"})

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"expired", "Bearer " + expired},
		{"wrong secret", "Bearer " + wrongSecret},
		{"bad subject", "Bearer " + badSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runMiddleware(t, tt.header)
			if statusOf(err) != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %v", err)
			}
		})
	}
}

func TestGetUserIDFromContext_Missing(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if _, err := GetUserIDFromContext(c); err == nil {
		t.Fatal("expected error when no user is set")
	}
	if TokenFromContext(c) != "" {
		t.Fatal("expected empty token")
	}
}
