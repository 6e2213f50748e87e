// Package api exposes the calculators over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/rpgo/finplan/internal/calculation"
	"github.com/rpgo/finplan/internal/config"
	"github.com/rpgo/finplan/internal/domain"
)

// Server wires the gin router, CORS and the calculation engine together.
type Server struct {
	cfg    *config.ServerConfig
	engine *calculation.CalculationEngine
	parser *config.InputParser
	logger *zap.Logger
	router *gin.Engine
}

// NewServer builds the router. A nil engine gets a fresh one logging through logger.
func NewServer(cfg *config.ServerConfig, engine *calculation.CalculationEngine, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if engine == nil {
		engine = calculation.NewCalculationEngine()
		engine.SetLogger(logger.Named("calc").Sugar())
	}
	if cfg.MaxMCRuns > 0 {
		engine.MonteCarlo.MaxRuns = cfg.MaxMCRuns
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:    cfg,
		engine: engine,
		parser: config.NewInputParser(),
		logger: logger.Named("api"),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.Use(Recovery(s.logger))
	router.Use(Tracing())
	router.Use(RequestLogger(s.logger))

	router.GET("/health", s.health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/investment", s.projectInvestment)
		v1.POST("/debt", s.amortizeDebt)
		v1.POST("/montecarlo", s.monteCarlo)
		v1.POST("/plan", s.runPlan)
		v1.GET("/months", s.months)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: ErrorDetail{Code: "NOT_FOUND", Message: "Not found"}})
	})
	return router
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine { return s.router }

// Handler returns the router wrapped with CORS handling.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"X-Run-ID"},
	})
	return c.Handler(s.router)
}

// ListenAndServe serves until ctx is done and then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", server.Addr), zap.String("env", s.cfg.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutting down")
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

func fmtInvalid(msg string) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, msg)
}
