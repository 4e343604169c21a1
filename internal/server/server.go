package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"reelgrab/internal/downloader"
	"reelgrab/pkg/config"
	"reelgrab/pkg/logger"
	"reelgrab/pkg/orchestrator"
)

//go:embed web/index.html
var webFS embed.FS

// Response is the JSON body of every API reply that is not a video
type Response struct {
	Success bool        `json:"success"`
	Kind    string      `json:"kind,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ReelRequest is the request body for POST /api/reel
type ReelRequest struct {
	URL string `json:"url"`
}

// Options wires a Server
type Options struct {
	Config    *config.Config
	Extractor orchestrator.Extractor
	Fetcher   orchestrator.AssetFetcher
	Logger    logger.Logger
	Version   string
}

// Server is the web form for downloading reels from a browser
type Server struct {
	cfg       *config.Config
	extractor orchestrator.Extractor
	fetcher   orchestrator.AssetFetcher
	logger    logger.Logger
	version   string

	pool     *downloader.WorkerPool
	sessions *sessionStore
	engine   *gin.Engine
	server   *http.Server
	started  time.Time
}

// New creates a Server and its routes. Call Run to serve.
func New(opts Options) (*Server, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if opts.Extractor == nil || opts.Fetcher == nil {
		return nil, fmt.Errorf("extractor and fetcher are required")
	}
	if opts.Logger == nil {
		opts.Logger = logger.GetLogger()
	}

	s := &Server{
		cfg:       opts.Config,
		extractor: opts.Extractor,
		fetcher:   opts.Fetcher,
		logger:    opts.Logger.WithField("component", "server"),
		version:   opts.Version,
		started:   time.Now(),
	}

	srvCfg := opts.Config.Server
	s.pool = downloader.NewWorkerPool(srvCfg.MaxConcurrent, srvCfg.MaxConcurrent*2, s.logger)
	s.sessions = newSessionStore(srvCfg.SessionTTL, srvCfg.RequestsPerMinute, s.newOrchestrator)

	s.engine = gin.New()
	s.engine.Use(gin.Recovery())
	s.engine.Use(s.loggingMiddleware())

	// health checks and unknown paths never get a session
	withSession := s.sessionMiddleware()

	s.engine.GET("/", withSession, s.handleIndex)

	api := s.engine.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/status", withSession, s.handleStatus)
	api.POST("/reel", withSession, s.handleReel)

	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, Response{Message: "not found"})
	})

	return s, nil
}

// Handler returns the HTTP handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start starts the workers and the session sweeper without listening.
// Run calls it.
func (s *Server) Start(ctx context.Context) {
	s.pool.Start()
	go s.sessions.sweep(ctx, s.cfg.Server.SessionTTL/2)
}

// Run serves until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.Start(ctx)
	defer s.pool.Stop()

	s.server = &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.LogComponentStart("server", map[string]interface{}{
		"addr":           s.cfg.Server.Addr,
		"max_concurrent": s.cfg.Server.MaxConcurrent,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	err := s.server.Shutdown(shutdownCtx)
	logger.LogComponentStop("server", "shutdown")
	return err
}

// Stop releases the workers. Run does this itself.
func (s *Server) Stop() {
	s.pool.Stop()
}

func (s *Server) newOrchestrator(sessionID string) (*orchestrator.Orchestrator, error) {
	return orchestrator.New(orchestrator.Options{
		Extractor: s.extractor,
		Fetcher:   s.fetcher,
		Filename:  s.cfg.Download.Filename,
		Logger:    s.logger.WithField("session", shortID(sessionID)),
	})
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
