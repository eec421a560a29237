package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/contractor-connect/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(t *testing.T, called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestAuth_ValidToken(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", 24*time.Hour)

	userID := uuid.New()
	token, err := jwtService.GenerateToken(userID, "test@example.com")
	require.NoError(t, err)

	handler := Auth(jwtService)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, userID, GetUserID(r.Context()))
		assert.Equal(t, "test@example.com", GetUserEmail(r.Context()))
		w.WriteHeader(http.StatusOK)
	}))

	for _, header := range []string{"Bearer " + token, "bearer " + token} {
		req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
		req.Header.Set("Authorization", header)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestAuth_Rejected(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", 24*time.Hour)
	otherService := auth.NewJWTService("different-secret", 24*time.Hour)
	expiredService := auth.NewJWTService("test-secret", -time.Hour)

	foreign, err := otherService.GenerateToken(uuid.New(), "a@b.com")
	require.NoError(t, err)
	expired, err := expiredService.GenerateToken(uuid.New(), "a@b.com")
	require.NoError(t, err)
	valid, err := jwtService.GenerateToken(uuid.New(), "a@b.com")
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		cookie  bool
		wantMsg string
	}{
		{name: "no header", wantMsg: "Missing or malformed authorization header"},
		{name: "cookie is not accepted", cookie: true, wantMsg: "Missing or malformed authorization header"},
		{name: "wrong scheme", header: "Basic " + valid, wantMsg: "Missing or malformed authorization header"},
		{name: "empty bearer", header: "Bearer ", wantMsg: "Missing or malformed authorization header"},
		{name: "garbage", header: "Bearer not-a-jwt", wantMsg: "Invalid token"},
		{name: "different secret", header: "Bearer " + foreign, wantMsg: "Invalid token"},
		{name: "expired", header: "Bearer " + expired, wantMsg: "Token has expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := Auth(jwtService)(okHandler(t, &called))

			req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie {
				req.AddCookie(&http.Cookie{Name: "token", Value: valid})
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.wantMsg, errorBody(t, rec))
			assert.False(t, called)
		})
	}
}

func TestContextHelpers_Empty(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, uuid.Nil, GetUserID(ctx))
	assert.Empty(t, GetUserEmail(ctx))
}
