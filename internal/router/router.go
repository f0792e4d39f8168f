package router

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"cat-care-console/internal/adapters/dedupe"
	mem "cat-care-console/internal/adapters/storage/memory"
	pg "cat-care-console/internal/adapters/storage/postgres"
	"cat-care-console/internal/config"
	"cat-care-console/internal/domain/activity"
	"cat-care-console/internal/domain/cats"
	"cat-care-console/internal/domain/dashboard"
	"cat-care-console/internal/domain/grooming"
	"cat-care-console/internal/domain/healthlogs"
	"cat-care-console/internal/domain/inventory"
	"cat-care-console/internal/domain/snapshot"
	"cat-care-console/internal/domain/weights"
	"cat-care-console/internal/middleware"
	"cat-care-console/internal/platform/apperr"
	"cat-care-console/internal/platform/httpx"
	"cat-care-console/internal/platform/logger"
	"cat-care-console/internal/platform/metrics"
	"cat-care-console/internal/ports/auth"
	"cat-care-console/internal/ports/photos"

	_ "cat-care-console/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"
)

type Options struct {
	Config *config.Config // nil = defaults de dev
	Logger logger.Logger

	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Guard de mensajes de WhatsApp; nil = en memoria.
	Guard activity.Guard

	// Signer de fotos; nil = subida deshabilitada (503).
	Signer photos.Signer

	// Registry de Prometheus; nil = uno nuevo con collectors de proceso y Go.
	Registry *prometheus.Registry
}

type repos struct {
	cats      cats.Repository
	health    healthlogs.Repository
	weights   weights.Repository
	grooming  grooming.Repository
	inventory inventory.Repository
	activity  activity.Repository
}

func newRepos(db *sql.DB) repos {
	if db != nil {
		return repos{
			cats:      pg.NewCatsRepo(db),
			health:    pg.NewHealthLogsRepo(db),
			weights:   pg.NewWeightsRepo(db),
			grooming:  pg.NewGroomingRepo(db),
			inventory: pg.NewInventoryRepo(db),
			activity:  pg.NewActivityRepo(db),
		}
	}
	return repos{
		cats:      mem.NewCatRepo(),
		health:    mem.NewHealthLogRepo(),
		weights:   mem.NewWeightRepo(),
		grooming:  mem.NewGroomingRepo(),
		inventory: mem.NewInventoryRepo(),
		activity:  mem.NewActivityRepo(),
	}
}

func defaultConfig() *config.Config {
	return &config.Config{
		App:  config.AppConfig{Env: config.AppEnvDev, Name: "cat-care-console", Timezone: "Asia/Jakarta"},
		Auth: config.AuthConfig{DevMode: true},
		Care: config.CareConfig{
			DueSoonDays:            7,
			NotificationWindowDays: 14,
			GroomingGapDays:        30,
			WeightDropRatio:        0.9,
		},
		WhatsApp: config.WhatsAppConfig{RatePerSecond: 5, Burst: 10, DedupeTTL: 24 * time.Hour},
	}
}

func NewRouter(opts Options) http.Handler {
	cfg := opts.Config
	if cfg == nil {
		cfg = defaultConfig()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	m := metrics.New(reg)
	loc := cfg.App.Location()

	r := chi.NewRouter()

	r.Use(middleware.RequestID(log))
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(m))
	r.Use(middleware.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", healthHandler(opts.DB))
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	rp := newRepos(opts.DB)

	// Services por módulo
	catsSvc := cats.NewService(rp.cats, opts.Signer)
	healthSvc := healthlogs.NewService(rp.health, catsSvc)
	weightsSvc := weights.NewService(rp.weights, catsSvc)
	groomingSvc := grooming.NewService(rp.grooming, catsSvc)
	inventorySvc := inventory.NewService(rp.inventory)
	activitySvc := activity.NewService(rp.activity, catsSvc, loc)

	dashSvc := dashboard.NewService(dashboard.Deps{
		Snapshots: snapshot.NewLoader(rp.cats, rp.health, rp.weights, rp.grooming),
		Stock:     inventorySvc,
		Cats:      catsSvc,
		Health:    healthSvc,
		Weights:   weightsSvc,
		Metrics:   m,
	}, dashboard.Options{
		DueSoonDays:            cfg.Care.DueSoonDays,
		NotificationWindowDays: cfg.Care.NotificationWindowDays,
		GroomingGapDays:        cfg.Care.GroomingGapDays,
		WeightDropRatio:        cfg.Care.WeightDropRatio,
		Location:               loc,
	})

	guard := opts.Guard
	if guard == nil {
		guard = dedupe.NewMemoryGuard(cfg.WhatsApp.DedupeTTL)
	}

	// Rutas por módulo
	cats.RegisterRoutes(r, catsSvc)
	healthlogs.RegisterRoutes(r, healthSvc)
	weights.RegisterRoutes(r, weightsSvc)
	grooming.RegisterRoutes(r, groomingSvc)
	inventory.RegisterRoutes(r, inventorySvc)
	activity.RegisterRoutes(r, activitySvc)
	activity.RegisterWebhookRoutes(r, activitySvc, activity.WebhookOptions{
		VerifyToken: cfg.WhatsApp.VerifyToken,
		AppSecret:   cfg.WhatsApp.AppSecret,
		Guard:       guard,
		Limiter:     middleware.NewIPRateLimiter(rate.Limit(cfg.WhatsApp.RatePerSecond), cfg.WhatsApp.Burst),
		Metrics:     m,
	})
	dashboard.RegisterRoutes(r, dashSvc)

	return r
}

// healthHandler responde ok; con DB además exige un ping exitoso.
func healthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				httpx.WriteError(w, r, apperr.Wrap(apperr.CodeUnavailable, err, "database unreachable"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
