package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"stockDashboard/internal/catalog"
	"stockDashboard/internal/chart"
	"stockDashboard/internal/dashboard"
)

// Catalog is the part of *catalog.Catalog the API exposes.
type Catalog interface {
	Markets() []string
	Sectors(market string) ([]string, error)
	Companies(market, sector string) map[string]string
	Add(ctx context.Context, e catalog.Entry) (catalog.Entry, error)
}

// Analyzer recomputes an analysis; *dashboard.Service satisfies it.
type Analyzer interface {
	Analyze(ctx context.Context, st dashboard.State) (*dashboard.Analysis, error)
}

type Config struct {
	Addr          string
	Log           zerolog.Logger
	Catalog       Catalog
	Dashboard     Analyzer
	Charts        *chart.Renderer
	DefaultPeriod string
	Webhook       http.HandlerFunc // mounted at /telegram/webhook when set
}

type Server struct {
	router  *chi.Mux
	server  *http.Server
	log     zerolog.Logger
	catalog Catalog
	dash    Analyzer
	charts  *chart.Renderer
	period  string
	webhook http.HandlerFunc
}

func New(cfg Config) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		log:     cfg.Log.With().Str("component", "server").Logger(),
		catalog: cfg.Catalog,
		dash:    cfg.Dashboard,
		charts:  cfg.Charts,
		period:  cfg.DefaultPeriod,
		webhook: cfg.Webhook,
	}
	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/markets", s.handleMarkets)
		r.Get("/markets/{market}/sectors", s.handleSectors)
		r.Get("/companies", s.handleCompanies)
		r.Post("/companies", s.handleAddCompany)
		r.Post("/analysis", s.handleAnalysis)
		r.Post("/charts/{kind}.png", s.handleChart)
	})

	if s.webhook != nil {
		s.router.Post("/telegram/webhook", s.webhook)
	}
}

func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("http: listening")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("http: shutting down")
	return s.server.Shutdown(ctx)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("took", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("http request")
	})
}
