package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/the-user01/Study-Platform-Server/core"
	"github.com/the-user01/Study-Platform-Server/core/auth"
	"github.com/the-user01/Study-Platform-Server/core/booking"
	"github.com/the-user01/Study-Platform-Server/core/material"
	"github.com/the-user01/Study-Platform-Server/core/note"
	"github.com/the-user01/Study-Platform-Server/core/payment"
	"github.com/the-user01/Study-Platform-Server/core/session"
	"github.com/the-user01/Study-Platform-Server/core/user"
	"github.com/the-user01/Study-Platform-Server/services/metrics"
)

const livenessMessage = "Study Platform is running"

type (
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator
		Metrics    *metrics.Metrics // optional

		Tokens      *auth.TokenService
		UserSvc     user.Service
		SessionSvc  session.Service
		MaterialSvc *material.Service
		NoteSvc     *note.Service
		BookingSvc  *booking.Service
		PaymentSvc  *payment.Service
	}

	Server struct {
		conf     *core.Config
		deps     ServerDeps
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		conf:     deps.Conf,
		deps:     deps,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	s.app.HideBanner = true
	s.app.Debug = s.conf.Debug
	s.app.Server.ReadTimeout = s.conf.Server.ReadTimeout
	s.app.Server.WriteTimeout = s.conf.Server.WriteTimeout
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.SignalShutdown)

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	if !s.conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(s.conf.Debug || s.conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     s.conf.Server.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowCredentials: true,
	}))
	if s.deps.Metrics != nil {
		s.app.Use(metricsMiddleware(s.deps.Metrics))
	}

	s.app.GET("/", home)

	guards := newAuthMiddlewares(s.deps.Tokens, s.deps.UserSvc)
	registerAuthAPI(s.app, s.deps.Tokens, s.deps.Validate)
	registerUserAPI(s.app, guards, s.deps.UserSvc, s.deps.Validate)
	registerSessionAPI(s.app, guards, s.deps.SessionSvc, s.deps.Validate, s.deps.Metrics)
	registerMaterialAPI(s.app, guards, s.deps.MaterialSvc, s.deps.Validate)
	registerNoteAPI(s.app, guards, s.deps.NoteSvc, s.deps.Validate)
	registerBookingAPI(s.app, guards, s.deps.BookingSvc, s.deps.Validate)
	registerPaymentAPI(s.app, guards, s.deps.PaymentSvc, s.deps.Validate, s.deps.Metrics)
}

// Start listens on the configured address. Any error other than a clean shutdown is sent on Errors.
func (s *Server) Start() {
	s.deps.Logger.Info("API listening on " + s.conf.Server.Address)
	if err := s.app.Start(s.conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error { return s.errors }

func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

// SignalShutdown asks the owner of the Server to shut it down gracefully.
func (s *Server) SignalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, livenessMessage)
}
