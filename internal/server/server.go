package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nao1215/newsverdict/internal/model"
	"github.com/nao1215/newsverdict/internal/pipeline"
)

const (
	// DefaultBodyLimit caps request bodies.
	DefaultBodyLimit = "1M"

	shutdownTimeout = 10 * time.Second
)

// Analyzer is the subset of pipeline.Analyzer the server needs.
type Analyzer interface {
	AnalyzeTopic(ctx context.Context, topic string) (*model.AnalysisResult, error)
	ClassifyText(ctx context.Context, text string) (*model.AnalysisResult, error)
}

// Server hosts the HTTP API.
type Server struct {
	echo      *echo.Echo
	analyzer  Analyzer
	logger    *slog.Logger
	gatherer  prometheus.Gatherer
	bodyLimit string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for request and error logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithGatherer sets the registry served on /metrics.
// Defaults to prometheus.DefaultGatherer.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithBodyLimit sets the maximum request body size, e.g. "512K".
func WithBodyLimit(limit string) Option {
	return func(s *Server) {
		s.bodyLimit = limit
	}
}

// New creates a Server with its routes registered.
func New(analyzer Analyzer, opts ...Option) *Server {
	s := &Server{
		analyzer:  analyzer,
		gatherer:  prometheus.DefaultGatherer,
		bodyLimit: DefaultBodyLimit,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.BodyLimit(s.bodyLimit))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Debug("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			)
			return nil
		},
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	api := e.Group("/api")
	api.POST("/classify", s.classify)
	api.POST("/analyze", s.analyze)

	s.echo = e
	return s
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start(addr)
	}()

	s.logger.Info("listening", "address", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	}
}

// handleError writes every error as {"error": message}.
// Messages of non-HTTP errors are logged, never sent.
func (s *Server) handleError(err error, c echo.Context) {
	code := http.StatusInternalServerError
	msg := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
	}

	req := c.Request()
	level := slog.LevelWarn
	if code >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	s.logger.Log(req.Context(), level, "request failed",
		"status", code,
		"method", req.Method,
		"path", req.URL.Path,
		"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
		"error", err,
	)

	if !c.Response().Committed {
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type classifyRequest struct {
	Text string `json:"text"`
}

type analyzeRequest struct {
	Topic string `json:"topic"`
}

func (s *Server) classify(c echo.Context) error {
	var req classifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := s.analyzer.ClassifyText(c.Request().Context(), req.Text)
	return s.respond(c, result, err)
}

func (s *Server) analyze(c echo.Context) error {
	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := s.analyzer.AnalyzeTopic(c.Request().Context(), req.Topic)
	return s.respond(c, result, err)
}

func (s *Server) respond(c echo.Context, result *model.AnalysisResult, err error) error {
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, result)
	case pipeline.IsValidationError(err):
		return echo.NewHTTPError(http.StatusBadRequest, model.MessageInvalidInput).SetInternal(err)
	case errors.Is(err, pipeline.ErrNoFetcher):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error()).SetInternal(err)
	default:
		return err
	}
}
