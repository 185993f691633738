package router

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"time"

	mem "clinic-data-exchange/internal/adapters/storage/memory"
	pg "clinic-data-exchange/internal/adapters/storage/postgres"
	"clinic-data-exchange/internal/domain/accounts"
	"clinic-data-exchange/internal/domain/records"
	"clinic-data-exchange/internal/domain/requests"
	"clinic-data-exchange/internal/domain/scoring"
	"clinic-data-exchange/internal/middleware"
	"clinic-data-exchange/internal/platform/logger"
	"clinic-data-exchange/internal/platform/metrics"
	"clinic-data-exchange/internal/ports/auth"
	"clinic-data-exchange/internal/ports/capabilities"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory con catálogo seed.
	DB *sql.DB

	// Opcional: gate de features por plan. nil => sin gate.
	Caps capabilities.CapabilitiesResolver

	// Scheduler de resolución de solicitudes. nil => timers reales.
	Scheduler     requests.Scheduler
	ApprovalDelay time.Duration

	Logger  logger.Logger
	Metrics *metrics.Metrics
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	var (
		accountsRepo accounts.Repository
		recordsRepo  records.Repository
		requestsRepo requests.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warn("postgres unavailable, falling back to memory", map[string]any{"error": err.Error()})
			}
		}
	}

	if db != nil {
		accountsRepo = pg.NewAccountsRepo(db)
		recordsRepo = pg.NewRecordsRepo(db)
		requestsRepo = pg.NewRequestsRepo(db)
	} else {
		accountsRepo = mem.NewAccountsRepo()
		recordsRepo = mem.NewRecordsRepo()
		requestsRepo = mem.NewRequestsRepo()

		if err := mem.SeedNetworkRecords(context.Background(), recordsRepo); err != nil {
			log.Error("seed network records", map[string]any{"error": err.Error()})
		}
	}

	// Services por módulo
	accountsSvc := accounts.NewService(accountsRepo)
	recordsSvc := records.NewService(recordsRepo)
	requestsSvc := requests.NewService(
		requestsRepo,
		accountsSvc,
		recordsSvc,
		opts.Scheduler,
		opts.ApprovalDelay,
		log.With(map[string]any{"module": "requests"}),
		opts.Metrics,
	)

	// Rutas por módulo
	scoring.RegisterRoutes(r)
	accounts.RegisterRoutes(r, accountsSvc, opts.Metrics)
	records.RegisterRoutes(r, recordsSvc, accountsSvc)
	requests.RegisterRoutes(r, requestsSvc, opts.Caps)

	return r
}
