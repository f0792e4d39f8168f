package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cat-care-console/internal/platform/apperr"
	"cat-care-console/internal/platform/logger"
	"cat-care-console/internal/ports/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	claims auth.Claims
	err    error
}

func (s stubVerifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	if token != "good" {
		return auth.Claims{}, errors.New("bad token")
	}
	return s.claims, s.err
}

func claimsHandler(t *testing.T, want bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, ok := GetClaims(r.Context())
		assert.Equal(t, want, ok)
		if ok {
			_ = json.NewEncoder(w).Encode(map[string]string{"user": c.UserID, "role": string(c.Role)})
		}
	})
}

func TestAuthContext_DevModeHeaders(t *testing.T) {
	h := AuthContext(nil)(claimsHandler(t, true))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Debug-User-ID", "u-1")
	req.Header.Set("X-Debug-Role", "viewer")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var got map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "u-1", got["user"])
	assert.Equal(t, "viewer", got["role"])
}

func TestAuthContext_DevModeDefaultsToOwner(t *testing.T) {
	h := AuthContext(nil)(claimsHandler(t, true))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Debug-User-ID", "u-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Contains(t, rec.Body.String(), `"role":"owner"`)
}

func TestAuthContext_Verifier(t *testing.T) {
	v := stubVerifier{claims: auth.Claims{UserID: "u-2", Role: auth.RoleCaretaker}}

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer good")
		AuthContext(v)(claimsHandler(t, true)).ServeHTTP(httptest.NewRecorder(), req)
	})

	t.Run("invalid token passes through without claims", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer nope")
		AuthContext(v)(claimsHandler(t, false)).ServeHTTP(httptest.NewRecorder(), req)
	})

	t.Run("debug header ignored when verifier is set", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Debug-User-ID", "u-1")
		AuthContext(v)(claimsHandler(t, false)).ServeHTTP(httptest.NewRecorder(), req)
	})
}

func TestActorAndWriter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := Actor(req)
	assert.Equal(t, apperr.CodeNotAuthenticated, apperr.CodeOf(err))

	viewer := req.WithContext(WithClaims(req.Context(), auth.Claims{UserID: "v", Role: auth.RoleViewer}))
	_, err = Actor(viewer)
	require.NoError(t, err)
	_, err = Writer(viewer)
	assert.Equal(t, apperr.CodeNotAuthorized, apperr.CodeOf(err))

	caretaker := req.WithContext(WithClaims(req.Context(), auth.Claims{UserID: "c", Role: auth.RoleCaretaker}))
	claims, err := Writer(caretaker)
	require.NoError(t, err)
	assert.Equal(t, "c", claims.UserID)
}

func TestRequestID_PropagatesAndScopesLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: logger.Debug, Output: &buf})

	h := RequestID(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info("inside", nil)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "req-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get("X-Request-Id"))
	assert.Contains(t, buf.String(), `"request_id":"req-42"`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestRecoverer_WritesInternalEnvelope(t *testing.T) {
	h := Recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"INTERNAL_ERROR"`)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestLogging_RecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: logger.Info, Output: &buf})

	h := Logging(nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/cats", nil)
	req = req.WithContext(logger.IntoContext(req.Context(), log))
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, buf.String(), `"message":"request.complete"`)
	assert.Contains(t, buf.String(), `"status":418`)
}

func TestRateLimit_BlocksAfterBurst(t *testing.T) {
	l := NewIPRateLimiter(1, 2)
	base := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return base }

	h := RateLimit(l)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/webhooks/whatsapp", nil)
		req.RemoteAddr = ip + ":5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, call("10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, call("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1"))
	// Otra IP tiene su propio bucket.
	assert.Equal(t, http.StatusNoContent, call("10.0.0.2"))

	// Pasado un segundo se repone un token.
	base = base.Add(time.Second)
	assert.Equal(t, http.StatusNoContent, call("10.0.0.1"))
}

func TestIPRateLimiter_ForgetsIdleVisitors(t *testing.T) {
	l := NewIPRateLimiter(1, 1)
	base := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return base }

	l.Allow("a")
	base = base.Add(5 * time.Minute)
	l.Allow("b")

	l.mu.Lock()
	defer l.mu.Unlock()
	_, hasA := l.visitors["a"]
	assert.False(t, hasA)
	assert.Len(t, l.visitors, 1)
}
