package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/kerjahub/attendance-backend-go/internal/config"
	"github.com/kerjahub/attendance-backend-go/internal/handler/http/middleware"
	"github.com/kerjahub/attendance-backend-go/internal/pkg/jwt"
)

func NewRouter(
	cfg *config.Config,
	jwtService jwt.Service,
	attendanceHandler AttendanceHandler,
	payrollHandler PayrollHandler,
	reportHandler ReportHandler,
	eventsHandler EventsHandler,
) *chi.Mux {
	r := chi.NewRouter()

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-backend"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.App.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/clock-in", attendanceHandler.ClockIn)
				r.Post("/clock-out", attendanceHandler.ClockOut)
				r.Post("/breaks/start", attendanceHandler.StartBreak)
				r.Post("/breaks/end", attendanceHandler.EndBreak)
				r.Get("/me", attendanceHandler.GetMyAttendance)
				r.Get("/{id}", reportHandler.GetAttendanceLog)
			})

			r.Get("/events", eventsHandler.Stream)

			// Admin/manager reporting surface
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireManager)

				r.Route("/logs", func(r chi.Router) {
					r.Get("/daily", reportHandler.GetDailyLogs)
					r.Get("/summary", reportHandler.GetDailySummary)
				})

				r.Route("/reports", func(r chi.Router) {
					r.Get("/late", reportHandler.GetLateReport)
					r.Get("/deductions", payrollHandler.GetDeductionSummary)
					r.Get("/payroll", payrollHandler.GetMonthlyReport)
				})

				r.Route("/payroll", func(r chi.Router) {
					r.Get("/policy", payrollHandler.GetPolicy)

					// Policy writes stay admin only
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireAdmin)
						r.Put("/policy", payrollHandler.UpdatePolicy)
					})
				})
			})
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	return r
}
