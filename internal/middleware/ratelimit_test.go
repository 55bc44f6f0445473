package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRateLimitMiddleware(t *testing.T) {
	t.Parallel()

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("auth endpoint uses the stricter limit", func(t *testing.T) {
		handler := NewRateLimitMiddleware(300, 1).Handler(okHandler)

		first := httptest.NewRecorder()
		handler.ServeHTTP(first, httptest.NewRequest("POST", "/api/auth/login", nil))
		require.Equal(t, http.StatusOK, first.Code)

		second := httptest.NewRecorder()
		handler.ServeHTTP(second, httptest.NewRequest("POST", "/api/auth/login", nil))
		require.Equal(t, http.StatusTooManyRequests, second.Code)
		require.Equal(t, "60", second.Header().Get("Retry-After"))
	})

	t.Run("general endpoints survive the auth burst", func(t *testing.T) {
		handler := NewRateLimitMiddleware(300, 1).Handler(okHandler)

		for i := 0; i < 20; i++ {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/categories", nil))
			require.Equal(t, http.StatusOK, rec.Code, "request %d", i)
		}
	})

	t.Run("limits are tracked per client ip", func(t *testing.T) {
		handler := NewRateLimitMiddleware(300, 1).Handler(okHandler)

		reqA := httptest.NewRequest("POST", "/api/auth/login", nil)
		reqA.Header.Set("X-Forwarded-For", "10.0.0.1")
		recA := httptest.NewRecorder()
		handler.ServeHTTP(recA, reqA)
		require.Equal(t, http.StatusOK, recA.Code)

		reqB := httptest.NewRequest("POST", "/api/auth/login", nil)
		reqB.Header.Set("X-Forwarded-For", "10.0.0.2")
		recB := httptest.NewRecorder()
		handler.ServeHTTP(recB, reqB)
		require.Equal(t, http.StatusOK, recB.Code)
	})

	t.Run("non-positive limits fall back to defaults", func(t *testing.T) {
		mw := NewRateLimitMiddleware(0, -1)
		require.Equal(t, 300, mw.generalRPM)
		require.Equal(t, 10, mw.authRPM)
	})
}

func TestExtractClientIP(t *testing.T) {
	t.Parallel()

	t.Run("prefers the first forwarded address", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
		require.Equal(t, "203.0.113.9", extractClientIP(req))
	})

	t.Run("falls back to the remote address host", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "192.0.2.4:51234"
		require.Equal(t, "192.0.2.4", extractClientIP(req))
	})
}
