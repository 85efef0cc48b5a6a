// Package http serves the catalog browser as a JSON API.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/openplayground/catalog/internal/bookmarks"
	"github.com/openplayground/catalog/internal/catalog"
	perrors "github.com/openplayground/catalog/internal/errors"
	"github.com/openplayground/catalog/internal/live"
	"github.com/openplayground/catalog/internal/shell"
	"github.com/openplayground/catalog/internal/telemetry"
	"github.com/openplayground/catalog/internal/theme"
)

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
	// RateLimit is requests per second across all clients. Zero disables
	// limiting.
	RateLimit   float64
	Burst       int
	DefaultSort shell.Sort
}

// Server provides HTTP endpoints over the live catalog.
type Server struct {
	echo     *echo.Echo
	config   *Config
	searcher *live.Searcher
	theme    *theme.Preference
	registry *prometheus.Registry
	metrics  *httpMetrics
}

// NewServer creates a new HTTP server.
func NewServer(searcher *live.Searcher, cfg *Config) (*Server, error) {
	if searcher == nil || searcher.Holder == nil {
		return nil, fmt.Errorf("searcher with a catalog holder is required")
	}
	if searcher.KV == nil {
		return nil, fmt.Errorf("searcher store is required for bookmarks and theme")
	}
	if cfg == nil {
		cfg = &Config{Host: "127.0.0.1", Port: 8787}
	}
	if cfg.DefaultSort == "" {
		cfg.DefaultSort = shell.SortDefault
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:     e,
		config:   cfg,
		searcher: searcher,
		theme:    theme.New(searcher.KV),
		registry: reg,
		metrics:  newHTTPMetrics(reg),
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger())
	e.Use(s.metrics.middleware())
	if cfg.RateLimit > 0 {
		e.Use(rateLimiter(rate.NewLimiter(rate.Limit(cfg.RateLimit), max(cfg.Burst, 1))))
	}

	s.registerRoutes()
	return s, nil
}

// Echo exposes the router for tests and extra routes.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	v1 := s.echo.Group("/api/v1")
	v1.GET("/projects", s.handleProjects)
	v1.GET("/categories", s.handleCategories)
	v1.GET("/bookmarks", s.handleBookmarks)
	v1.POST("/bookmarks/:id", s.handleToggleBookmark)
	v1.GET("/theme", s.handleGetTheme)
	v1.PUT("/theme", s.handleSetTheme)
	v1.POST("/theme/toggle", s.handleToggleTheme)
	v1.GET("/stats", s.handleStats)
}

func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			slog.Info("http_request",
				slog.String("method", c.Request().Method),
				slog.String("uri", c.Request().RequestURI),
				slog.Int("status", c.Response().Status),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return nil
		}
	}
}

func rateLimiter(l *rate.Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Path() == "/health" {
				return next(c)
			}
			if !l.Allow() {
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}

// toHTTPError maps a structured error onto a status code. The body is the
// error's JSON form.
func toHTTPError(err error) *echo.HTTPError {
	status := http.StatusInternalServerError
	switch {
	case perrors.GetCode(err) == perrors.ErrCodeProjectNotFound:
		status = http.StatusNotFound
	case perrors.GetCode(err) == perrors.ErrCodeStorageLocked:
		status = http.StatusServiceUnavailable
	case perrors.GetCategory(err) == perrors.CategoryValidation:
		status = http.StatusBadRequest
	}
	if status >= http.StatusInternalServerError {
		slog.Error("http_handler_failed", perrors.FormatForLog(err)...)
	}
	return echo.NewHTTPError(status, perrors.ToJSON(err))
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Projects int    `json:"projects"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:   "ok",
		Projects: s.searcher.Holder.Current().Catalog.Len(),
	})
}

func (s *Server) handleProjects(c echo.Context) error {
	state, err := shell.ParseState(
		c.QueryParam("q"),
		c.QueryParam("category"),
		c.QueryParam("sort"),
		c.QueryParam("page"),
		s.config.DefaultSort,
	)
	if err != nil {
		return toHTTPError(err)
	}

	view, err := s.searcher.Search(c.Request().Context(), state, telemetry.SourceHTTP)
	if err != nil {
		return toHTTPError(err)
	}
	s.metrics.searchResults.Observe(float64(view.TotalItems))
	return c.JSON(http.StatusOK, view)
}

// CategoriesResponse is the response body for GET /api/v1/categories.
type CategoriesResponse struct {
	Categories []catalog.CategoryCount `json:"categories"`
}

func (s *Server) handleCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, CategoriesResponse{
		Categories: s.searcher.Holder.Current().Catalog.Categories(),
	})
}

// BookmarksResponse is the response body for GET /api/v1/bookmarks.
type BookmarksResponse struct {
	Bookmarks []bookmarks.Bookmark `json:"bookmarks"`
}

func (s *Server) handleBookmarks(c echo.Context) error {
	list, err := s.searcher.Bookmarks(c.Request().Context()).List()
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, BookmarksResponse{Bookmarks: list})
}

// ToggleResponse is the response body for POST /api/v1/bookmarks/:id.
type ToggleResponse struct {
	ID         string `json:"id"`
	Bookmarked bool   `json:"bookmarked"`
	Message    string `json:"message"`
}

func (s *Server) handleToggleBookmark(c echo.Context) error {
	id, err := pathParam(c, "id")
	if err != nil {
		return toHTTPError(err)
	}
	if _, ok := s.searcher.Holder.Lookup(id); !ok {
		return toHTTPError(perrors.New(perrors.ErrCodeProjectNotFound, "no project with id \""+id+"\"", nil))
	}

	added, err := s.searcher.Bookmarks(c.Request().Context()).Toggle(id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, ToggleResponse{ID: id, Bookmarked: added, Message: bookmarks.Message(added)})
}

// pathParam returns the decoded path parameter. echo routes on URL.RawPath
// when the path holds an escaped slash, leaving params percent-encoded.
func pathParam(c echo.Context, name string) (string, error) {
	v := c.Param(name)
	if c.Request().URL.RawPath == "" {
		return v, nil
	}
	decoded, err := url.PathUnescape(v)
	if err != nil {
		return "", perrors.ValidationError("malformed "+name+" in path", err)
	}
	return decoded, nil
}

// ThemeRequest and ThemeResponse carry the theme preference.
type ThemeRequest struct {
	Theme string `json:"theme"`
}

type ThemeResponse struct {
	Theme theme.Theme `json:"theme"`
}

func (s *Server) handleGetTheme(c echo.Context) error {
	t, err := s.theme.Get(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, ThemeResponse{Theme: t})
}

func (s *Server) handleSetTheme(c echo.Context) error {
	var req ThemeRequest
	if err := c.Bind(&req); err != nil {
		return toHTTPError(perrors.ValidationError("invalid request body", err))
	}
	t, err := theme.Parse(req.Theme)
	if err != nil {
		return toHTTPError(err)
	}
	if err := s.theme.Set(c.Request().Context(), t); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, ThemeResponse{Theme: t})
}

func (s *Server) handleToggleTheme(c echo.Context) error {
	t, err := s.theme.Toggle(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, ThemeResponse{Theme: t})
}

func (s *Server) handleStats(c echo.Context) error {
	if s.searcher.Metrics == nil {
		return c.JSON(http.StatusOK, telemetry.Snapshot{})
	}
	return c.JSON(http.StatusOK, s.searcher.Metrics.Snapshot())
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http_server_started", slog.String("addr", s.Addr()))
		errCh <- s.echo.Start(s.Addr())
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	slog.Info("http_server_stopping")
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
