package router_test

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"cat-care-console/internal/config"
	"cat-care-console/internal/router"

	"github.com/go-chi/chi/v5"
)

const (
	ownerID  = "owner-1"
	viewerID = "viewer-1"
)

func newServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(router.NewRouter(router.Options{Config: cfg}))
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_EndToEnd_OverduePreventiveShowsOnDashboard(t *testing.T) {
	ts := newServer(t, nil)

	// 1) Alta de gatos
	mochiID := createCat(t, ts.URL, map[string]any{
		"name":     "Mochi",
		"badge":    "A-01",
		"location": "klinik",
	})
	createCat(t, ts.URL, map[string]any{
		"name":     "Oyen",
		"location": "rumah",
	})

	// 2) Flea vencido hace años => Needs Attention
	{
		st, body := doReq(t, ts.URL, "POST", "/cats/"+mochiID+"/health-logs", ownerID, map[string]any{
			"type":          "FLEA",
			"date":          "2020-01-01",
			"title":         "Revolution",
			"next_due_date": "2020-02-01",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create health log, got %d body=%s", st, string(body))
		}
	}

	// 3) Estado sugerido del gato
	{
		st, body := doReq(t, ts.URL, "GET", "/cats/"+mochiID+"/status", viewerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 cat status, got %d body=%s", st, string(body))
		}
		var out struct {
			Suggestion struct {
				Bucket  string   `json:"bucket"`
				Reasons []string `json:"reasons"`
			} `json:"suggestion"`
		}
		decode(t, body, &out)
		if out.Suggestion.Bucket != "Needs Attention" {
			t.Fatalf("expected Needs Attention, got %q", out.Suggestion.Bucket)
		}
		if len(out.Suggestion.Reasons) == 0 || out.Suggestion.Reasons[0] != "Flea terlambat" {
			t.Fatalf("unexpected reasons: %v", out.Suggestion.Reasons)
		}
	}

	// 4) Tablero: conteos y alerta crítica
	{
		st, body := doReq(t, ts.URL, "GET", "/dashboard", viewerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 dashboard, got %d body=%s", st, string(body))
		}
		var out struct {
			Counts struct {
				Cats           int `json:"cats"`
				NeedsAttention int `json:"needs_attention"`
			} `json:"counts"`
			Alerts []struct {
				Kind     string `json:"kind"`
				Severity string `json:"severity"`
				CatID    string `json:"cat_id"`
			} `json:"alerts"`
		}
		decode(t, body, &out)
		if out.Counts.Cats != 2 || out.Counts.NeedsAttention != 1 {
			t.Fatalf("unexpected counts: %+v", out.Counts)
		}
		if len(out.Alerts) != 1 || out.Alerts[0].Kind != "preventive_overdue" ||
			out.Alerts[0].Severity != "critical" || out.Alerts[0].CatID != mochiID {
			t.Fatalf("unexpected alerts: %+v", out.Alerts)
		}
	}

	// 5) Búsqueda por ubicación
	{
		names := searchCatNames(t, ts.URL, "kucing di klinik")
		if len(names) != 1 || names[0] != "Mochi" {
			t.Fatalf("expected [Mochi] for klinik search, got %v", names)
		}
	}

	// 6) Búsqueda "belum rabies": ninguno tiene vacuna con rabies
	{
		names := searchCatNames(t, ts.URL, "belum vaksin rabies")
		if len(names) != 2 {
			t.Fatalf("expected both cats without rabies, got %v", names)
		}
	}

	// 7) Dar de baja saca al gato del tablero
	{
		st, body := doReq(t, ts.URL, "DELETE", "/cats/"+mochiID, ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 deactivate cat, got %d body=%s", st, string(body))
		}
		names := searchCatNames(t, ts.URL, "")
		if len(names) != 1 || names[0] != "Oyen" {
			t.Fatalf("expected only Oyen after deactivation, got %v", names)
		}
	}
}

func TestHTTP_Roles(t *testing.T) {
	ts := newServer(t, nil)

	// Sin usuario => 401
	{
		st, _ := doReq(t, ts.URL, "GET", "/cats", "", nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 without user, got %d", st)
		}
	}

	// Viewer lee pero no escribe
	{
		st, _ := doReqRole(t, ts.URL, "POST", "/cats", viewerID, "viewer", map[string]any{"name": "Nope"})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 create cat as viewer, got %d", st)
		}
		st, body := doReqRole(t, ts.URL, "GET", "/cats", viewerID, "viewer", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list cats as viewer, got %d body=%s", st, string(body))
		}
	}

	// Caretaker escribe
	{
		st, body := doReqRole(t, ts.URL, "POST", "/cats", "care-1", "caretaker", map[string]any{"name": "Kiki"})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create cat as caretaker, got %d body=%s", st, string(body))
		}
	}
}

func TestHTTP_StockSearchAndAlerts(t *testing.T) {
	ts := newServer(t, nil)

	createItem(t, ts.URL, map[string]any{"name": "Royal Canin Kitten", "category": "makanan", "unit": "kg", "stock": "0"})
	createItem(t, ts.URL, map[string]any{"name": "Pasir Tofu", "category": "pasir", "unit": "sak", "stock": "2", "min_stock": "3"})
	createItem(t, ts.URL, map[string]any{"name": "Vitamin", "unit": "botol", "stock": "5", "min_stock": "1"})

	for _, tc := range []struct {
		q    string
		want []string
	}{
		{q: "stok habis", want: []string{"Royal Canin Kitten"}},
		{q: "stok hampir habis", want: []string{"Pasir Tofu"}},
	} {
		st, body := doReq(t, ts.URL, "GET", "/dashboard/search?q="+url.QueryEscape(tc.q), viewerID, nil)
		if st != http.StatusOK {
			t.Fatalf("%q: expected 200, got %d body=%s", tc.q, st, string(body))
		}
		var out struct {
			Query struct {
				Mode string `json:"mode"`
			} `json:"query"`
			Cats  []json.RawMessage `json:"cats"`
			Stock []struct {
				Name string `json:"name"`
			} `json:"stock"`
		}
		decode(t, body, &out)
		if len(out.Cats) != 0 {
			t.Fatalf("%q: stock search should not return cats", tc.q)
		}
		var got []string
		for _, it := range out.Stock {
			got = append(got, it.Name)
		}
		if strings.Join(got, ",") != strings.Join(tc.want, ",") {
			t.Fatalf("%q: expected %v, got %v (mode %s)", tc.q, tc.want, got, out.Query.Mode)
		}
	}

	st, body := doReq(t, ts.URL, "GET", "/dashboard", viewerID, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 dashboard, got %d body=%s", st, string(body))
	}
	var out struct {
		Counts struct {
			StockAlerts int `json:"stock_alerts"`
		} `json:"counts"`
		Alerts []struct {
			Kind string `json:"kind"`
		} `json:"alerts"`
	}
	decode(t, body, &out)
	if out.Counts.StockAlerts != 2 {
		t.Fatalf("expected 2 stock alerts, got %d", out.Counts.StockAlerts)
	}
	if len(out.Alerts) != 2 || out.Alerts[0].Kind != "stock_out" || out.Alerts[1].Kind != "stock_low" {
		t.Fatalf("unexpected alert order: %+v", out.Alerts)
	}
}

func TestHTTP_SearchRejectsLongQuery(t *testing.T) {
	ts := newServer(t, nil)

	st, body := doReq(t, ts.URL, "GET", "/dashboard/search?q="+strings.Repeat("a", 201), viewerID, nil)
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 for long query, got %d body=%s", st, string(body))
	}
}

func TestHTTP_PhotoUploadDisabledWithoutSigner(t *testing.T) {
	ts := newServer(t, nil)
	catID := createCat(t, ts.URL, map[string]any{"name": "Mochi"})

	st, body := doReq(t, ts.URL, "POST", "/cats/"+catID+"/photo-upload", ownerID, map[string]any{
		"content_type": "image/jpeg",
	})
	if st != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without signer, got %d body=%s", st, string(body))
	}
}

func TestHTTP_WhatsAppWebhook_StoresOnceAndListsActivity(t *testing.T) {
	const secret = "app-secret"
	cfg := &config.Config{
		App:      config.AppConfig{Env: config.AppEnvDev, Timezone: "UTC"},
		Auth:     config.AuthConfig{DevMode: true},
		Care:     config.CareConfig{WeightDropRatio: 0.9},
		WhatsApp: config.WhatsAppConfig{AppSecret: secret, VerifyToken: "vt", RatePerSecond: 100, Burst: 100, DedupeTTL: time.Hour},
	}
	ts := newServer(t, cfg)

	// Verificación de suscripción
	{
		res, err := http.Get(ts.URL + "/webhooks/whatsapp?hub.mode=subscribe&hub.verify_token=vt&hub.challenge=42")
		if err != nil {
			t.Fatalf("verify request: %v", err)
		}
		b, _ := io.ReadAll(res.Body)
		_ = res.Body.Close()
		if res.StatusCode != http.StatusOK || string(b) != "42" {
			t.Fatalf("expected challenge echo, got %d %q", res.StatusCode, string(b))
		}
	}

	sentAt := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	payload := []byte(`{"entry":[{"changes":[{"value":{` +
		`"contacts":[{"wa_id":"628111","profile":{"name":"Sari"}}],` +
		`"messages":[{"id":"wamid.1","from":"628111","timestamp":"` + strconv.FormatInt(sentAt.Unix(), 10) + `","type":"text","text":{"body":"makan: Mochi habis 1 mangkok"}}]` +
		`}}]}]}`)

	post := func(sig string) (int, []byte) {
		req, _ := http.NewRequest("POST", ts.URL+"/webhooks/whatsapp", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		if sig != "" {
			req.Header.Set("X-Hub-Signature-256", sig)
		}
		res, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("webhook request: %v", err)
		}
		defer res.Body.Close()
		b, _ := io.ReadAll(res.Body)
		return res.StatusCode, b
	}

	if st, _ := post(""); st != http.StatusUnauthorized {
		t.Fatalf("expected 401 without signature, got %d", st)
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	sig := "sha256=" + hex.EncodeToString(mac.Sum(nil))

	var first, second struct {
		Stored     int `json:"stored"`
		Duplicates int `json:"duplicates"`
	}
	st, body := post(sig)
	if st != http.StatusOK {
		t.Fatalf("expected 200 webhook, got %d body=%s", st, string(body))
	}
	decode(t, body, &first)
	st, body = post(sig)
	if st != http.StatusOK {
		t.Fatalf("expected 200 webhook retry, got %d body=%s", st, string(body))
	}
	decode(t, body, &second)
	if first.Stored != 1 || second.Stored != 0 || second.Duplicates != 1 {
		t.Fatalf("expected stored once, got first=%+v second=%+v", first, second)
	}

	st, body = doReq(t, ts.URL, "GET", "/activity?date=2025-06-10", viewerID, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 list activity, got %d body=%s", st, string(body))
	}
	var entries []struct {
		Category string `json:"category"`
		Source   string `json:"source"`
		Sender   string `json:"sender"`
	}
	decode(t, body, &entries)
	if len(entries) != 1 || entries[0].Category != "makan" || entries[0].Source != "whatsapp" || entries[0].Sender != "Sari" {
		t.Fatalf("unexpected activity: %+v", entries)
	}
}

func TestHTTP_OpsEndpoints(t *testing.T) {
	ts := newServer(t, nil)

	res, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	_ = res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 health, got %d", res.StatusCode)
	}

	// genera al menos una request con ruta conocida
	doReq(t, ts.URL, "GET", "/cats", viewerID, nil)

	res, err = http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	b, _ := io.ReadAll(res.Body)
	_ = res.Body.Close()
	if !strings.Contains(string(b), `catcare_http_requests_total{method="GET",route="/cats",status="200"}`) {
		t.Fatalf("expected request counter for /cats, got:\n%s", string(b))
	}
}

func TestHTTP_SwaggerDocCoversEveryRoute(t *testing.T) {
	h := router.NewRouter(router.Options{})
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	res, err := http.Get(ts.URL + "/swagger/doc.json")
	if err != nil {
		t.Fatalf("doc.json: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 doc.json, got %d", res.StatusCode)
	}
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		t.Fatalf("decode doc.json: %v", err)
	}

	routes, ok := h.(chi.Routes)
	if !ok {
		t.Fatalf("router is %T, expected chi.Routes", h)
	}
	undocumented := map[string]bool{"/health": true, "/metrics": true, "/swagger/*": true}
	walk := func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		if len(route) > 1 {
			route = strings.TrimSuffix(route, "/")
		}
		if undocumented[route] {
			return nil
		}
		if _, ok := doc.Paths[route][strings.ToLower(method)]; !ok {
			t.Errorf("%s %s missing from swagger doc", method, route)
		}
		return nil
	}
	if err := chi.Walk(routes, walk); err != nil {
		t.Fatalf("walk: %v", err)
	}
}

// ---------------- helpers ----------------

func doReq(t *testing.T, baseURL, method, path, userID string, body any) (int, []byte) {
	return doReqRole(t, baseURL, method, path, userID, "", body)
}

func doReqRole(t *testing.T, baseURL, method, path, userID, role string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-Debug-User-ID", userID)
	}
	if role != "" {
		req.Header.Set("X-Debug-Role", role)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	b, _ := io.ReadAll(res.Body)
	return res.StatusCode, b
}

func decode(t *testing.T, body []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(body, v); err != nil {
		t.Fatalf("unmarshal: %v body=%s", err, string(body))
	}
}

func createCat(t *testing.T, baseURL string, payload map[string]any) string {
	t.Helper()
	st, body := doReq(t, baseURL, "POST", "/cats", ownerID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create cat, got %d body=%s", st, string(body))
	}
	var out struct {
		ID string `json:"id"`
	}
	decode(t, body, &out)
	if out.ID == "" {
		t.Fatalf("expected cat id")
	}
	return out.ID
}

func createItem(t *testing.T, baseURL string, payload map[string]any) {
	t.Helper()
	st, body := doReq(t, baseURL, "POST", "/inventory", ownerID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create item, got %d body=%s", st, string(body))
	}
}

func searchCatNames(t *testing.T, baseURL, q string) []string {
	t.Helper()
	st, body := doReq(t, baseURL, "GET", "/dashboard/search?q="+url.QueryEscape(q), viewerID, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 search %q, got %d body=%s", q, st, string(body))
	}
	var out struct {
		Cats []struct {
			Cat struct {
				Name string `json:"name"`
			} `json:"cat"`
		} `json:"cats"`
	}
	decode(t, body, &out)
	names := make([]string, 0, len(out.Cats))
	for _, c := range out.Cats {
		names = append(names, c.Cat.Name)
	}
	return names
}
