package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/worklog-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/worklog-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/worklog-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterOptions carries the settings the router needs from config.
type RouterOptions struct {
	Logger         *slog.Logger
	LogLevel       slog.Level
	AllowedOrigins []string
	ManagersGroup  string
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, workLogHandler WorkLogHandler, reportHandler ReportHandler, eventHandler EventHandler) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	managersGroup := opts.ManagersGroup
	if managersGroup == "" {
		managersGroup = auth.ManagersGroup
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Token travels in the query string
		r.Get("/events/stream", eventHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/clock", func(r chi.Router) {
				r.Get("/status", workLogHandler.Status)
				r.Post("/in", workLogHandler.ClockIn)
				r.Post("/out", workLogHandler.ClockOut)
			})

			r.Post("/work-orders", workLogHandler.AddWorkOrder)
			r.Post("/events/token", eventHandler.GetSSEToken)

			// Managers only
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireGroup(managersGroup))
				r.Get("/reports/worklogs", reportHandler.SearchWorkLogs)
			})
		})
	})
	return r
}

// NewLogger builds the JSON logger shared by the service and request logging.
func NewLogger(level slog.Level, app, version, env string) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(false)
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", app),
		slog.String("version", version),
		slog.String("env", env),
	)
}
