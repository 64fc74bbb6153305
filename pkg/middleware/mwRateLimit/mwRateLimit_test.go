package mwRateLimit

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"tours-service/pkg/middleware/mwAuth"
)

func newRouter(t *testing.T, cfg Config) (http.Handler, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(New(log, rdb, cfg))
		r.Get("/tours/{id}", func(w http.ResponseWriter, r *http.Request) {})
	})
	return r, mr
}

func TestNewThrottles(t *testing.T) {
	h, _ := newRouter(t, Config{Capacity: 2, RefillTokens: 1, RefillInterval: time.Minute, TTL: time.Hour, KeyStrategy: "ip", Prefix: "rl"})

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tours/1", nil))
		codes = append(codes, rec.Code)
		last = rec
	}

	want := []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("codes = %v, want %v", codes, want)
		}
	}
	if last.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header missing")
	}
	if got := last.Header().Get("X-RateLimit-Remaining"); got != "0" {
		t.Errorf("remaining = %q, want 0", got)
	}
}

func TestNewFailsOpen(t *testing.T) {
	h, mr := newRouter(t, Config{Capacity: 1, RefillTokens: 1, RefillInterval: time.Minute, TTL: time.Hour, Prefix: "rl"})
	mr.Close()

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tours/1", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, rec.Code)
		}
	}
}

func TestKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/tours/abc/lock", nil)
	req.RemoteAddr = "10.0.0.7:5555"
	req = req.WithContext(mwAuth.WithUserID(req.Context(), "guide-1"))

	tests := []struct {
		strategy string
		want     string
	}{
		{"ip", "rl:ip:10.0.0.7"},
		{"user", "rl:user:guide-1"},
		{"route", "rl:route:POST /tours/abc/lock"},
		{"user_route", "rl:user:guide-1:route:POST /tours/abc/lock"},
		{"", "rl:ip:10.0.0.7:user:guide-1:route:POST /tours/abc/lock"},
	}

	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			if got := Key(Config{Prefix: "rl", KeyStrategy: tt.strategy}, req); got != tt.want {
				t.Errorf("Key = %q, want %q", got, tt.want)
			}
		})
	}
}
