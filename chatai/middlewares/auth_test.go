package middlewares

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatai/chatai/apperrors"
	"chatai/chatai/auth"
	"chatai/chatai/config"
)

func authTestHandler(t *testing.T) (http.Handler, *int) {
	t.Helper()
	var gotUserID int
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserID(r.Context())
		require.True(t, ok)
		gotUserID = id
		w.WriteHeader(http.StatusOK)
	})
	cfg := config.Config{JWTSecret: "test-secret"}
	return AuthMiddleware(cfg)(inner), &gotUserID
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	handler, gotUserID := authTestHandler(t)

	token, err := auth.GenerateToken(7, []byte("test-secret"), time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 7, *gotUserID)
}

func TestAuthMiddlewareRejects(t *testing.T) {
	handler, _ := authTestHandler(t)

	expired, err := auth.GenerateToken(7, []byte("test-secret"), -time.Minute)
	require.NoError(t, err)
	foreign, err := auth.GenerateToken(7, []byte("other-secret"), time.Hour)
	require.NoError(t, err)

	cases := map[string]string{
		"missing header": "",
		"not bearer":     "Basic abc",
		"garbage token":  "Bearer not-a-token",
		"expired":        "Bearer " + expired,
		"wrong secret":   "Bearer " + foreign,
	}
	for name, header := range cases {
		req := httptest.NewRequest("GET", "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, name)

		// Rejections carry the same machine-readable envelope as the
		// rest of the gateway.
		var envelope struct {
			Error struct {
				Kind    apperrors.Kind `json:"kind"`
				Message string         `json:"message"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope), name)
		assert.Equal(t, apperrors.Auth, envelope.Error.Kind, name)
		assert.NotEmpty(t, envelope.Error.Message, name)
	}
}
