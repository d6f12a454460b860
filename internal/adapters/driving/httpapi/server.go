// Package httpapi exposes the analysis pipeline over a small REST API.
// It mirrors the MCP tool surface for callers that speak plain HTTP.
package httpapi

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/matcha-labs/matcha-cli/internal/core/ports/driving"
)

// Required port errors.
var (
	ErrMissingCorpusService   = errors.New("httpapi: corpus query service is required")
	ErrMissingDetectorService = errors.New("httpapi: detector service is required")
)

// Ports aggregates the driving port interfaces the HTTP API serves.
type Ports struct {
	// Corpus provides read access to the loaded test case corpus.
	Corpus driving.CorpusQueryService

	// Detector scores bug text against the configured areas.
	Detector driving.DetectorService

	// Analyzer runs the full analysis pipeline. Optional; without it
	// the analyze and similar endpoints return 503.
	Analyzer driving.AnalyzerService

	// Duplicates scans shards for near-identical pairs. Optional.
	Duplicates driving.DuplicateService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Corpus == nil {
		return ErrMissingCorpusService
	}
	if p.Detector == nil {
		return ErrMissingDetectorService
	}
	return nil
}

// Config holds HTTP server options.
type Config struct {
	// ExportDir is served under /download; empty disables downloads.
	ExportDir string
}

// Server is the HTTP API server.
type Server struct {
	ports *Ports
	cfg   Config
	app   *fiber.App
}

// NewServer creates the server and registers all routes.
func NewServer(ports *Ports, cfg Config) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		AppName:      "matcha",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // analysis runs can be slow
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())

	s := &Server{ports: ports, cfg: cfg, app: app}
	s.registerRoutes()
	return s, nil
}

// Listen serves until the context is cancelled or the listener fails.
func (s *Server) Listen(ctx context.Context, addr string) error {
	go func() {
		<-ctx.Done()
		s.app.Shutdown() //nolint:errcheck
	}()
	return s.app.Listen(addr)
}

// App exposes the underlying fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) registerRoutes() {
	s.app.Get("/health", s.handleHealth)
	s.app.Get("/areas", s.handleAreas)
	s.app.Get("/stats", s.handleStats)
	s.app.Get("/test-cases/:id", s.handleGetTestCase)
	s.app.Get("/search", s.handleSearch)
	s.app.Post("/detect-areas", s.handleDetect)
	s.app.Post("/analyze", s.handleAnalyze)
	s.app.Post("/similar", s.handleSimilar)
	s.app.Post("/duplicates", s.handleDuplicates)

	if s.cfg.ExportDir != "" {
		s.app.Get("/download/:name", s.handleDownload)
	}
}
