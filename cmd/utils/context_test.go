package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret, subject string) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestSessionRequired(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	var gotUserID uint
	next := func(w http.ResponseWriter, r *http.Request) {
		id, err := GetUserIDFromContext(r)
		require.NoError(t, err)
		gotUserID = id
		w.WriteHeader(http.StatusOK)
	}

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "test-secret", "42"))
	rec := httptest.NewRecorder()
	SessionRequired(next)(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint(42), gotUserID)
}

func TestSessionRequiredRejections(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	cases := map[string]string{
		"no header":    "",
		"wrong secret": "Bearer " + signToken(t, "other-secret", "42"),
		"bad subject":  "Bearer " + signToken(t, "test-secret", "nope"),
		"not a token":  "Bearer garbage",
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			SessionRequired(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("handler must not run")
			})(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"error":"Please log in first"}`, rec.Body.String())
		})
	}
}

func TestSessionRequiredRejectsExpiredToken(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	claims := jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	SessionRequired(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
