package activity

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cat-care-console/internal/middleware"
	"cat-care-console/internal/platform/apperr"
	"cat-care-console/internal/platform/httpx"
	"cat-care-console/internal/platform/logger"
	"cat-care-console/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
)

const maxWebhookBody = 1 << 20

// Guard marca ids de mensajes ya procesados (Redis en prod, memoria en dev).
type Guard interface {
	CheckAndMark(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}

type WebhookOptions struct {
	VerifyToken string
	AppSecret   string
	Guard       Guard
	Limiter     *middleware.IPRateLimiter
	Metrics     *metrics.Metrics
}

// RegisterWebhookRoutes expone el webhook de WhatsApp Cloud API (sin auth de usuario;
// se valida con verify token y firma HMAC).
func RegisterWebhookRoutes(r chi.Router, svc *Service, opts WebhookOptions) {
	r.Route("/webhooks/whatsapp", func(wr chi.Router) {
		wr.Use(middleware.RateLimit(opts.Limiter))
		wr.Get("/", verifyWebhookHandler(opts.VerifyToken))
		wr.Post("/", receiveWebhookHandler(svc, opts))
	})
}

// @Summary Verificación del webhook de WhatsApp
// @Tags webhooks
// @Produce plain
// @Param hub.mode query string true "subscribe"
// @Param hub.verify_token query string true "Token configurado"
// @Param hub.challenge query string true "Challenge a devolver"
// @Success 200 {string} string "challenge"
// @Failure 403 {object} httpx.ErrorEnvelope
// @Router /webhooks/whatsapp [get]
func verifyWebhookHandler(verifyToken string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		token := q.Get("hub.verify_token")
		if verifyToken == "" || q.Get("hub.mode") != "subscribe" ||
			!hmac.Equal([]byte(token), []byte(verifyToken)) {
			httpx.WriteError(w, r, apperr.New(apperr.CodeNotAuthorized, "verification failed"))
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(q.Get("hub.challenge")))
	}
}

type webhookPayload struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Contacts []struct {
					WaID    string `json:"wa_id"`
					Profile struct {
						Name string `json:"name"`
					} `json:"profile"`
				} `json:"contacts"`
				Messages []struct {
					ID        string `json:"id"`
					From      string `json:"from"`
					Timestamp string `json:"timestamp"`
					Type      string `json:"type"`
					Text      struct {
						Body string `json:"body"`
					} `json:"text"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type webhookResult struct {
	Received   int `json:"received"`
	Stored     int `json:"stored"`
	Duplicates int `json:"duplicates"`
	Ignored    int `json:"ignored"`
}

// @Summary Mensajes entrantes de WhatsApp
// @Description Cada mensaje de texto se guarda como actividad con source=whatsapp. Requiere X-Hub-Signature-256. Idempotente por id de mensaje.
// @Tags webhooks
// @Accept json
// @Produce json
// @Param X-Hub-Signature-256 header string true "sha256=<hmac hex del body>"
// @Success 200 {object} webhookResult
// @Failure 401 {object} httpx.ErrorEnvelope
// @Failure 429 {object} httpx.ErrorEnvelope
// @Router /webhooks/whatsapp [post]
func receiveWebhookHandler(svc *Service, opts WebhookOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.FromContext(ctx)

		if opts.Guard == nil {
			httpx.WriteError(w, r, apperr.New(apperr.CodeUnavailable, "idempotency guard unavailable"))
			return
		}

		payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
		if err != nil {
			httpx.WriteError(w, r, apperr.Wrap(apperr.CodeValidation, err, "read request body"))
			return
		}

		if !validSignature(payload, opts.AppSecret, r.Header.Get("X-Hub-Signature-256")) {
			opts.Metrics.IncWebhookMessage("rejected")
			httpx.WriteError(w, r, apperr.New(apperr.CodeNotAuthenticated, "invalid signature"))
			return
		}

		var body webhookPayload
		if err := json.Unmarshal(payload, &body); err != nil {
			httpx.WriteError(w, r, apperr.Wrap(apperr.CodeValidation, err, "decode payload"))
			return
		}

		var res webhookResult
		for _, msg := range extractMessages(body) {
			res.Received++

			if strings.TrimSpace(msg.Text) == "" || strings.TrimSpace(msg.ID) == "" {
				res.Ignored++
				opts.Metrics.IncWebhookMessage("ignored")
				continue
			}

			dup, err := opts.Guard.CheckAndMark(ctx, msg.ID)
			if err != nil {
				httpx.WriteError(w, r, apperr.Wrap(apperr.CodeUnavailable, err, "check idempotency"))
				return
			}
			if dup {
				res.Duplicates++
				opts.Metrics.IncWebhookMessage("duplicate")
				continue
			}

			if _, err := svc.IngestMessage(ctx, msg); err != nil {
				_ = opts.Guard.Delete(ctx, msg.ID)
				if errors.Is(err, ErrInvalidInput) {
					res.Ignored++
					opts.Metrics.IncWebhookMessage("ignored")
					continue
				}
				opts.Metrics.IncWebhookMessage("error")
				httpx.WriteError(w, r, err)
				return
			}
			res.Stored++
			opts.Metrics.IncWebhookMessage("stored")
		}

		log.Info("whatsapp.webhook.processed", map[string]any{
			"received":   res.Received,
			"stored":     res.Stored,
			"duplicates": res.Duplicates,
		})
		httpx.WriteJSON(w, http.StatusOK, res)
	}
}

// extractMessages aplana el payload; mensajes que no son texto llegan con Text vacío.
func extractMessages(p webhookPayload) []InboundMessage {
	out := make([]InboundMessage, 0)
	for _, entry := range p.Entry {
		for _, change := range entry.Changes {
			names := make(map[string]string, len(change.Value.Contacts))
			for _, c := range change.Value.Contacts {
				names[c.WaID] = c.Profile.Name
			}
			for _, m := range change.Value.Messages {
				msg := InboundMessage{
					ID:         m.ID,
					From:       m.From,
					SenderName: names[m.From],
				}
				if m.Type == "text" {
					msg.Text = m.Text.Body
				}
				if ts, err := strconv.ParseInt(m.Timestamp, 10, 64); err == nil {
					msg.SentAt = time.Unix(ts, 0)
				}
				out = append(out, msg)
			}
		}
	}
	return out
}

func validSignature(payload []byte, secret, header string) bool {
	if secret == "" || header == "" {
		return false
	}
	got, ok := strings.CutPrefix(header, "sha256=")
	if !ok {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(got)))
}
