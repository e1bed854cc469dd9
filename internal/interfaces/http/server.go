package http

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/labstack/echo/v4"

	"riad/internal/application/usecases/intake"
	"riad/internal/application/usecases/prearrival"
	"riad/internal/domain/bookings"
)

type IntakeUsecase interface {
	Accept(ctx context.Context, n bookings.Notification) (intake.Outcome, error)
}

type PreArrivalJob interface {
	Run(ctx context.Context) (prearrival.Report, error)
}

type Config struct {
	Addr         string
	CronSecret   string
	DashboardURL string
}

type Server struct {
	e      *echo.Echo
	config Config

	intake     IntakeUsecase
	preArrival PreArrivalJob
}

func NewServer(
	e *echo.Echo,
	config Config,
	intakeUsecase IntakeUsecase,
	preArrivalJob PreArrivalJob,
	routerIsRunning func() bool,
) *Server {
	if config.Addr == "" {
		config.Addr = ":8080"
	}

	srv := &Server{
		e:          e,
		config:     config,
		intake:     intakeUsecase,
		preArrival: preArrivalJob,
	}

	// logging middleware
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log.FromContext(c.Request().Context()).
				WithField("method", c.Request().Method).
				WithField("path", c.Request().URL.Path).
				Info("Handling a request")

			err := next(c)
			if err != nil {
				log.FromContext(c.Request().Context()).
					WithField("error", err).
					Error("Request handling error")
			}

			return err
		}
	})

	e.POST("/api/bookings", srv.CreateBookingHandler)
	e.GET("/api/bookings", srv.BookingsInfoHandler)
	e.GET("/api/cron/pre-arrival", srv.PreArrivalHandler, srv.requireCronSecret)

	e.GET("/health", func(c echo.Context) error {
		if routerIsRunning != nil && !routerIsRunning() {
			return c.String(http.StatusServiceUnavailable, "router is not running")
		}
		return c.String(http.StatusOK, "ok")
	})

	return srv
}

// requireCronSecret accepts only "Authorization: Bearer <CRON_SECRET>". An
// unset secret rejects every call.
func (s *Server) requireCronSecret(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
		if !ok || s.config.CronSecret == "" ||
			subtle.ConstantTimeCompare([]byte(token), []byte(s.config.CronSecret)) != 1 {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		}
		return next(c)
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.e.ServeHTTP(w, r)
}

func (s *Server) Start() error {
	err := s.e.Start(s.config.Addr)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
