// Package api serves progress data over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/roadready/roadready/internal/catalog"
	"github.com/roadready/roadready/internal/logger"
	"github.com/roadready/roadready/internal/progress"
	"github.com/roadready/roadready/internal/store"
)

// Progress is the service surface the API needs. *progress.Service
// satisfies it.
type Progress interface {
	Catalog(ctx context.Context, teacherID string) (*catalog.Catalog, error)
	AddStudent(ctx context.Context, teacherID, name string) (*store.Student, error)
	Students(ctx context.Context, teacherID string) ([]store.Student, error)
	Report(ctx context.Context, teacherID, studentID string) (*progress.Report, error)
	RateSkill(ctx context.Context, in progress.RateInput) (*progress.Transition, error)
	History(ctx context.Context, teacherID, studentID string, limit int) ([]store.Snapshot, error)
	ScoreEvents(ctx context.Context, teacherID, studentID string, opts store.QueryOpts) ([]store.ScoreEvent, error)
}

// MetricsRecorder observes requests and exposes the scrape endpoint.
type MetricsRecorder interface {
	HTTPRecorder
	Handler() http.Handler
}

// Options configures a Server.
type Options struct {
	Addr      string
	TeacherID string
	Progress  Progress
	Metrics   MetricsRecorder
	Logger    logger.Logger
}

// Server is the HTTP API.
type Server struct {
	opts Options
	app  *echo.Echo
	log  logger.Logger
}

// NewServer builds the echo application and registers all routes.
func NewServer(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	s := &Server{opts: opts, app: echo.New(), log: log.Named("api")}
	s.setup()
	return s
}

func (s *Server) setup() {
	rv := newRequestValidator()

	s.app.HideBanner = true
	s.app.HidePort = true
	s.app.Validator = rv
	s.app.HTTPErrorHandler = newHTTPErrorHandler(s.log, rv)

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.Recover())
	if s.opts.Metrics != nil {
		s.app.Use(observe(s.opts.Metrics, s.log))
		s.app.GET("/metrics", echo.WrapHandler(s.opts.Metrics.Handler()))
	}

	s.app.GET("/healthz", healthz)

	v1 := s.app.Group("/v1", teacher(s.opts.TeacherID))
	h := &handlers{progress: s.opts.Progress}
	v1.GET("/levels", h.levels)
	v1.GET("/catalog", h.catalog)
	v1.GET("/students", h.listStudents)
	v1.POST("/students", h.createStudent)

	sg := v1.Group("/students/:id")
	sg.GET("/readiness", h.readiness)
	sg.GET("/history", h.history)
	sg.GET("/events", h.events)
	sg.PUT("/skills/:skill", h.rateSkill)
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info(ctx, "listening", logger.String("addr", s.opts.Addr))
		errCh <- s.app.Start(s.opts.Addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info(ctx, "shutting down")
	return s.app.Shutdown(shutdownCtx)
}

// ServeHTTP lets tests drive the server without a listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.app.ServeHTTP(w, r)
}

func healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
