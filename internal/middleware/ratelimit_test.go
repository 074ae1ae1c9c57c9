package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("1.2.3.4"))
	}
	assert.False(t, rl.Allow("1.2.3.4"))

	// Other addresses keep their own budget.
	assert.True(t, rl.Allow("5.6.7.8"))
}

func postLogin(limited http.HandlerFunc, remoteAddr, forwardedFor string) int {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	rec := httptest.NewRecorder()
	limited(rec, req)
	return rec.Code
}

func TestLoginLimitIgnoresSpoofedForwardedHeaders(t *testing.T) {
	limited := RateLimitLogin(false)(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Rotating the forwarded header must not reset the budget when no
	// trusted proxy is configured; the peer address is the key.
	for i := 0; i < 10; i++ {
		code := postLogin(limited, "10.0.0.1:5000", "198.51.100."+strconv.Itoa(i))
		assert.Equal(t, http.StatusNoContent, code, "attempt %d", i)
	}

	code := postLogin(limited, "10.0.0.1:5000", "198.51.100.250")
	assert.Equal(t, http.StatusTooManyRequests, code)

	// A genuinely different peer is still allowed.
	code = postLogin(limited, "10.0.0.2:5000", "")
	assert.Equal(t, http.StatusNoContent, code)
}

func TestLoginLimitKeysOnForwardedHeaderBehindProxy(t *testing.T) {
	limited := RateLimitLogin(true)(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Behind a trusted proxy all connections share the proxy's peer
	// address; the forwarded client address is the key.
	for i := 0; i < 10; i++ {
		code := postLogin(limited, "10.0.0.1:5000", "203.0.113.7")
		assert.Equal(t, http.StatusNoContent, code, "attempt %d", i)
	}

	code := postLogin(limited, "10.0.0.1:5000", "203.0.113.7")
	assert.Equal(t, http.StatusTooManyRequests, code)

	code = postLogin(limited, "10.0.0.1:5000", "203.0.113.8")
	assert.Equal(t, http.StatusNoContent, code)
}
