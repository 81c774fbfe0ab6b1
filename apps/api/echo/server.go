package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/trezcool/mentori/core"
	"github.com/trezcool/mentori/core/assignment"
	"github.com/trezcool/mentori/core/dashboard"
	"github.com/trezcool/mentori/core/events"
	"github.com/trezcool/mentori/core/feedback"
	"github.com/trezcool/mentori/core/memo"
	"github.com/trezcool/mentori/core/notification"
	"github.com/trezcool/mentori/core/plan"
	"github.com/trezcool/mentori/core/qna"
	"github.com/trezcool/mentori/core/report"
	"github.com/trezcool/mentori/core/study"
	"github.com/trezcool/mentori/core/todo"
	"github.com/trezcool/mentori/core/user"
	"github.com/trezcool/mentori/services/objectstore"
)

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mentori",
		Name:      "http_requests_total",
		Help:      "HTTP requests served, by method, route and status code.",
	}, []string{"method", "route", "code"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mentori",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latencies, by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

func init() {
	prometheus.MustRegister(httpRequests, httpDuration)
}

type (
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator
		Broker     *events.Broker

		UserSvc         *user.Service
		AssignmentSvc   *assignment.Service
		TodoSvc         *todo.Service
		PlanSvc         *plan.Service
		FeedbackSvc     *feedback.Service
		QnASvc          *qna.Service
		StudySvc        *study.Service
		Timers          *study.Timers
		ReportSvc       *report.Service
		MemoSvc         *memo.Service
		NotificationSvc *notification.Service
		DashboardSvc    *dashboard.Service
		FileSvc         *objectstore.Service
	}

	Server struct {
		ServerDeps
		app      *echo.Echo
		jwt      echo.MiddlewareFunc
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		ServerDeps: deps,
		app:        echo.New(),
		errors:     make(chan error, 1),
		shutdown:   make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.Server.DisableRequestLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: conf.Server.AllowedOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	s.app.Use(metricsMiddleware)

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.Logger, s.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", s.home)
	if conf.Storage.Backend == "local" && conf.Storage.LocalDir != "" {
		s.app.Static("/uploads", conf.Storage.LocalDir)
	}

	v1 := s.app.Group("/v1")
	s.jwt = middleware.JWTWithConfig(newJWTConfig(conf))
	authed := v1.Group("", s.jwt, s.sessionMiddleware)

	s.registerUserAPI(v1, authed)
	s.registerDashboardAPI(authed)
	s.registerAssignmentAPI(authed)
	s.registerTodoAPI(authed)
	s.registerPlanAPI(authed)
	s.registerFeedbackAPI(authed)
	s.registerQnAAPI(authed)
	s.registerStudyAPI(authed)
	s.registerReportAPI(authed)
	s.registerMemoAPI(authed)
	s.registerNotificationAPI(authed)
	s.registerFileAPI(authed)
	s.registerEventsAPI(authed)
}

func (s *Server) Start() {
	if err := s.app.Start(s.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

// Errors receives the error that made the server stop listening.
func (s *Server) Errors() <-chan error {
	return s.errors
}

// ShutdownSignal receives OS interrupts and internal shutdown requests.
func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	s.stopBackground()
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	signal.Stop(s.shutdown)
	s.stopBackground()
	return s.app.Close()
}

// stopBackground ends the event streams and the running timers' tickers.
func (s *Server) stopBackground() {
	if s.Broker != nil {
		s.Broker.Close()
	}
	if s.Timers != nil {
		s.Timers.Close()
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *Server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+s.Conf.AppName+" API!")
}

func metricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		start := time.Now()
		if err := next(ctx); err != nil {
			ctx.Error(err) // commits the status code
		}

		route := ctx.Path()
		httpDuration.WithLabelValues(ctx.Request().Method, route).Observe(time.Since(start).Seconds())
		httpRequests.WithLabelValues(ctx.Request().Method, route, strconv.Itoa(ctx.Response().Status)).Inc()
		return nil
	}
}
