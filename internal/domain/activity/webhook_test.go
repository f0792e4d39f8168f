package activity

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memGuard struct {
	seen    map[string]bool
	deleted []string
}

var errNoID = errors.New("message id is required")

// memGuard sigue el contrato de los guards reales: un id vacío es error.
func (g *memGuard) CheckAndMark(_ context.Context, id string) (bool, error) {
	if id == "" {
		return false, errNoID
	}
	if g.seen[id] {
		return true, nil
	}
	g.seen[id] = true
	return false, nil
}

func (g *memGuard) Delete(_ context.Context, id string) error {
	delete(g.seen, id)
	g.deleted = append(g.deleted, id)
	return nil
}

const secret = "app-secret"

func sign(body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

const samplePayload = `{"entry":[{"changes":[{"value":{
  "contacts":[{"wa_id":"62811","profile":{"name":"Rina"}}],
  "messages":[
    {"id":"wamid.A","from":"62811","timestamp":"1749513600","type":"text","text":{"body":"makan: Mochi habis 1 sachet"}},
    {"id":"wamid.B","from":"62811","timestamp":"1749513600","type":"image"}
  ]}}]}]}`

func newWebhookServer(t *testing.T, repo *testRepo, guard *memGuard) http.Handler {
	t.Helper()
	svc := NewService(repo, catsStub{}, jakarta)
	r := chi.NewRouter()
	RegisterWebhookRoutes(r, svc, WebhookOptions{VerifyToken: "verify-me", AppSecret: secret, Guard: guard})
	return r
}

func post(h http.Handler, body, sig string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/whatsapp", strings.NewReader(body))
	if sig != "" {
		req.Header.Set("X-Hub-Signature-256", sig)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestWebhook_Verify(t *testing.T) {
	h := newWebhookServer(t, &testRepo{}, &memGuard{seen: map[string]bool{}})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/webhooks/whatsapp?hub.mode=subscribe&hub.verify_token=verify-me&hub.challenge=42", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "42", rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/webhooks/whatsapp?hub.mode=subscribe&hub.verify_token=nope&hub.challenge=42", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestWebhook_StoresTextMessagesOnce(t *testing.T) {
	repo := &testRepo{}
	guard := &memGuard{seen: map[string]bool{}}
	h := newWebhookServer(t, repo, guard)

	rec := post(h, samplePayload, sign(samplePayload))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res webhookResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, webhookResult{Received: 2, Stored: 1, Ignored: 1}, res)
	require.Len(t, repo.entries, 1)
	assert.Equal(t, "wamid.A", repo.entries[0].ExternalID)
	assert.Equal(t, "Rina", repo.entries[0].Sender)
	assert.Equal(t, CategoryMakan, repo.entries[0].Category)

	// Reentrega de Meta: no duplica.
	rec = post(h, samplePayload, sign(samplePayload))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 1, res.Duplicates)
	assert.Len(t, repo.entries, 1)
}

func TestWebhook_RejectsBadSignature(t *testing.T) {
	repo := &testRepo{}
	h := newWebhookServer(t, repo, &memGuard{seen: map[string]bool{}})

	assert.Equal(t, http.StatusUnauthorized, post(h, samplePayload, "").Code)
	assert.Equal(t, http.StatusUnauthorized, post(h, samplePayload, sign("other")).Code)
	assert.Empty(t, repo.entries)
}

func TestWebhook_ReleasesGuardOnStoreFailure(t *testing.T) {
	repo := &testRepo{failOn: "wamid.A"}
	guard := &memGuard{seen: map[string]bool{}}
	h := newWebhookServer(t, repo, guard)

	rec := post(h, samplePayload, sign(samplePayload))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, []string{"wamid.A"}, guard.deleted)
	assert.False(t, guard.seen["wamid.A"], "message can be retried")
}

func TestWebhook_IgnoresTextMessageWithoutID(t *testing.T) {
	payload := `{"entry":[{"changes":[{"value":{"messages":[
    {"id":"","from":"62811","timestamp":"1749513600","type":"text","text":{"body":"makan: Mochi 1 sachet"}},
    {"id":"wamid.C","from":"62811","timestamp":"1749513600","type":"text","text":{"body":"grooming: Oyen"}}
  ]}}]}]}`
	repo := &testRepo{}
	guard := &memGuard{seen: map[string]bool{}}
	h := newWebhookServer(t, repo, guard)

	rec := post(h, payload, sign(payload))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res webhookResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, webhookResult{Received: 2, Stored: 1, Ignored: 1}, res)
	require.Len(t, repo.entries, 1)
	assert.Equal(t, "wamid.C", repo.entries[0].ExternalID)
	assert.NotContains(t, guard.seen, "")
}
