// Package server provides the HTTP server and routing for WardNavi.
package server

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/estatelab/wardnavi/internal/config"
	"github.com/estatelab/wardnavi/internal/database"
	"github.com/estatelab/wardnavi/internal/modules/appraisal"
	appraisalhandlers "github.com/estatelab/wardnavi/internal/modules/appraisal/handlers"
	"github.com/estatelab/wardnavi/internal/modules/estimator"
	"github.com/estatelab/wardnavi/internal/modules/listings"
	"github.com/estatelab/wardnavi/internal/modules/simulation"
	simulationhandlers "github.com/estatelab/wardnavi/internal/modules/simulation/handlers"
	"github.com/estatelab/wardnavi/pkg/embedded"
)

// Config holds server configuration
type Config struct {
	Log        zerolog.Logger
	ListingsDB *database.DB
	Config     *config.Config
	Port       int
	DevMode    bool
	Estimator  estimator.Estimator // nil when the artifact failed to load
}

// Server represents the HTTP server
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	listingsDB     *database.DB
	cfg            *config.Config
	est            estimator.Estimator
	listingsRepo   *listings.Repository
	systemHandlers *SystemHandlers
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	// Register common MIME types to ensure correct Content-Type headers
	_ = mime.AddExtensionType(".js", "application/javascript")
	_ = mime.AddExtensionType(".mjs", "application/javascript")
	_ = mime.AddExtensionType(".css", "text/css")

	listingsRepo := listings.NewRepository(cfg.ListingsDB.Conn(), cfg.Log)

	s := &Server{
		router:       chi.NewRouter(),
		log:          cfg.Log.With().Str("component", "server").Logger(),
		listingsDB:   cfg.ListingsDB,
		cfg:          cfg.Config,
		est:          cfg.Estimator,
		listingsRepo: listingsRepo,
	}

	s.systemHandlers = NewSystemHandlers(
		cfg.Log,
		cfg.Config.DataDir,
		cfg.ListingsDB,
		listingsRepo,
		cfg.Estimator != nil,
	)

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes(cfg.Log)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// Timeout
	s.router.Use(middleware.Timeout(60 * time.Second))

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Compress responses
	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(log zerolog.Logger) {
	// Health check (before SPA routing)
	s.router.Get("/health", s.handleHealth)

	// Ward reference data and stored transaction stats
	s.router.Get("/api/wards", s.handleWards)
	s.router.Get("/api/wards/{ward}/stats", s.handleWardStats)

	// System monitoring
	s.router.Route("/api/system", func(r chi.Router) {
		r.Get("/status", s.systemHandlers.HandleSystemStatus)
		r.Get("/database/stats", s.systemHandlers.HandleDatabaseStats)
		r.Get("/disk", s.systemHandlers.HandleDiskUsage)
	})

	// Simulation module
	simulator := simulation.NewSimulator(log)
	simulationHandler := simulationhandlers.NewHandler(simulator, s.est, s.listingsRepo, log)
	simulationHandler.RegisterRoutes(s.router)

	// Appraisal module. The service stays nil when no artifact is loaded so
	// the handler can answer 503 instead of degrading silently.
	var appraisalService *appraisal.Service
	if s.est != nil {
		appraisalService = appraisal.NewService(s.est, s.cfg.Valuation, log)
	}
	appraisalHandler := appraisalhandlers.NewHandler(appraisalService, s.listingsRepo, log)
	appraisalHandler.RegisterRoutes(s.router)

	// Serve the built frontend from the embedded filesystem
	frontendFS, err := fs.Sub(embedded.Files, "frontend/dist")
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to create frontend filesystem from embedded files")
		return
	}

	assetsFS, err := fs.Sub(frontendFS, "assets")
	if err != nil {
		s.log.Warn().Err(err).Msg("Frontend assets directory not found in embedded files")
	} else {
		fileServer := http.FileServer(http.FS(assetsFS))
		assetsHandler := s.assetsHandler(fileServer)
		s.router.Handle("/assets/*", http.StripPrefix("/assets/", assetsHandler))
	}

	// Serve index.html for root and all non-API routes (SPA routing)
	s.router.Get("/", s.handleDashboard)
	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api") || strings.HasPrefix(r.URL.Path, "/health") {
			http.NotFound(w, r)
			return
		}
		s.serveIndex(w, frontendFS)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// assetsHandler wraps the file server to set correct MIME types
func (s *Server) assetsHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ext := filepath.Ext(r.URL.Path)

		contentType := mime.TypeByExtension(ext)
		if contentType == "" {
			switch ext {
			case ".js", ".mjs":
				contentType = "application/javascript"
			case ".css":
				contentType = "text/css"
			case ".json":
				contentType = "application/json"
			case ".svg":
				contentType = "image/svg+xml"
			default:
				contentType = "application/octet-stream"
			}
		}

		w.Header().Set("Content-Type", contentType)
		next.ServeHTTP(w, r)
	})
}

// handleDashboard serves the main dashboard HTML from the embedded filesystem
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	frontendFS, err := fs.Sub(embedded.Files, "frontend/dist")
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to create frontend filesystem from embedded files")
		http.Error(w, "Frontend not available", http.StatusInternalServerError)
		return
	}
	s.serveIndex(w, frontendFS)
}

// serveIndex writes the embedded index.html
func (s *Server) serveIndex(w http.ResponseWriter, frontendFS fs.FS) {
	indexFile, err := frontendFS.Open("index.html")
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to open embedded index.html")
		http.Error(w, "Frontend not available", http.StatusInternalServerError)
		return
	}
	defer indexFile.Close()

	data, err := io.ReadAll(indexFile)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to read embedded index.html")
		http.Error(w, "Frontend not available", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to write index.html response")
	}
}

// loggingMiddleware logs HTTP requests
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
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
