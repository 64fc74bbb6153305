package mwAuth

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const secret = "test-secret"

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.RegisteredClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func TestNew(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))

	tests := []struct {
		name   string
		header string
		status int
		user   string
	}{
		{
			name:   "valid token",
			header: "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.RegisteredClaims{Subject: "guide-1", ExpiresAt: exp, Issuer: "tours"}),
			status: http.StatusOK,
			user:   "guide-1",
		},
		{
			name:   "missing header",
			status: http.StatusUnauthorized,
		},
		{
			name:   "wrong secret",
			header: "Bearer " + sign(t, jwt.SigningMethodHS256, []byte("other"), jwt.RegisteredClaims{Subject: "guide-1", ExpiresAt: exp, Issuer: "tours"}),
			status: http.StatusUnauthorized,
		},
		{
			name:   "expired",
			header: "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.RegisteredClaims{Subject: "guide-1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)), Issuer: "tours"}),
			status: http.StatusUnauthorized,
		},
		{
			name:   "no expiry",
			header: "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.RegisteredClaims{Subject: "guide-1", Issuer: "tours"}),
			status: http.StatusUnauthorized,
		},
		{
			name:   "wrong issuer",
			header: "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.RegisteredClaims{Subject: "guide-1", ExpiresAt: exp, Issuer: "someone"}),
			status: http.StatusUnauthorized,
		},
		{
			name:   "no subject",
			header: "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.RegisteredClaims{ExpiresAt: exp, Issuer: "tours"}),
			status: http.StatusUnauthorized,
		},
		{
			name:   "other algorithm",
			header: "Bearer " + sign(t, jwt.SigningMethodHS512, []byte(secret), jwt.RegisteredClaims{Subject: "guide-1", ExpiresAt: exp, Issuer: "tours"}),
			status: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := New(log, secret, "tours")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = UserID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/tours", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if got != tt.user {
				t.Errorf("user = %q, want %q", got, tt.user)
			}
		})
	}
}
