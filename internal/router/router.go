package router

import (
	"net/http"

	mem "moltmon/internal/adapters/storage/memory"
	"moltmon/internal/domain/archive"
	"moltmon/internal/domain/care"
	"moltmon/internal/domain/journal"
	_ "moltmon/internal/docs"
	"moltmon/internal/middleware"
	"moltmon/internal/platform/logger"
	"moltmon/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	prom "github.com/prometheus/client_golang/prometheus"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Care *care.Service

	// Opcionales: si no vienen se usan repos in-memory.
	Journal *journal.Service
	Archive *archive.Service

	// Registry de Prometheus para /metrics. nil = sin endpoint.
	Metrics *prom.Registry

	Logger logger.Logger
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recover(log))
	r.Use(middleware.RequestLog(log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	journalSvc := opts.Journal
	if journalSvc == nil {
		journalSvc = journal.NewService(mem.NewJournalRepo(), log)
	}
	archiveSvc := opts.Archive
	if archiveSvc == nil {
		archiveSvc = archive.NewService(mem.NewArchiveRepo())
	}

	// Rutas por módulo
	care.RegisterRoutes(r, opts.Care)
	journal.RegisterRoutes(r, journalSvc)
	archive.RegisterRoutes(r, archiveSvc)

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics.HTTPHandler(opts.Metrics))
	}

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	return r
}
