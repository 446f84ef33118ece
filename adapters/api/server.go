package api

import (
	"context"
	"net/http"
	"time"

	"qisim/internal"
	"qisim/internal/config"
	"qisim/internal/errors"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// Server exposes the Service over HTTP
type Server struct {
	cfg     *config.Config
	service *Service
	log     *internal.Logger
	router  *gin.Engine
}

// NewServer builds the router and registers every route
func NewServer(cfg *config.Config, service *Service, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	gin.SetMode(cfg.Server.GinMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	s := &Server{cfg: cfg, service: service, log: logger, router: router}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	cohortGroup := s.router.Group("/api/cohort")
	{
		cohortGroup.POST("/simulate", s.handleSimulate)
		cohortGroup.POST("/import", s.handleImport)
		cohortGroup.POST("/derive", s.handleDerive)
		cohortGroup.GET("", s.handleList)
		cohortGroup.GET("/summary", s.handleSummary)
		cohortGroup.GET("/export", s.handleExport)
	}

	analysisGroup := s.router.Group("/api/analysis")
	{
		analysisGroup.POST("/correlation", s.handleCorrelation)
		analysisGroup.GET("/correlations", s.handleCorrelations)
		analysisGroup.POST("/line", s.handleLine)
		analysisGroup.POST("/regression", s.handleRegression)
		analysisGroup.POST("/clusters", s.handleClusters)
		analysisGroup.POST("/report", s.handleReport)
	}
}

// Handler returns the router for embedding or testing
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	addr := ":" + s.cfg.Server.Port
	srv := &http.Server{Addr: addr, Handler: s.router, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "http server")
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	return nil
}

// requestLogger logs one line per request at Debug, or Warn for failures
func requestLogger(logger *internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		if status >= http.StatusBadRequest {
			logger.Warn("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, status, time.Since(start))
			return
		}
		logger.Debug("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, status, time.Since(start))
	}
}

// fail maps err onto an HTTP status and a JSON error body. Errors without a code are
// logged and answered as internal errors.
func (s *Server) fail(c *gin.Context, err error) {
	if !errors.IsAppError(err) {
		s.log.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		err = errors.InternalError("internal error")
	}
	c.JSON(errors.HTTPStatus(err), gin.H{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}
