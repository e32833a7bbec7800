package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
	"github.com/cmlabs-hris/hr-admin-backend/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/metrics"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/time/rate"
)

// Handlers groups every route handler mounted by NewRouter.
type Handlers struct {
	Auth          AuthHandler
	Attendance    AttendanceHandler
	Leave         LeaveHandler
	SalaryAdvance SalaryAdvanceHandler
	Vacation      VacationHandler
	User          UserHandler
	Company       CompanyHandler
	Project       ProjectHandler
	Notification  NotificationHandler
	Settings      SettingsHandler
	Fingerprint   FingerprintHandler
	Dashboard     DashboardHandler
	Terminal      TerminalHandler
}

type RouterConfig struct {
	AppName        string
	Version        string
	Env            string
	AllowedOrigins []string

	// DeviceKeys maps terminal device id to its shared key.
	DeviceKeys    map[string]string
	TerminalRate  rate.Limit
	TerminalBurst int
}

// Dependencies are the shared collaborators of the middleware chain.
type Dependencies struct {
	JWTService  jwt.Service
	Authorizer  middleware.Authorizer
	Idempotency middleware.IdempotencyStore
	Metrics     *metrics.Metrics
}

func NewRouter(cfg RouterConfig, deps Dependencies, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.AppName),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", middleware.IdempotencyKeyHeader},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))
	r.Use(middleware.Metrics(deps.Metrics))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())

	perm := func(p access.Permission) func(http.Handler) http.Handler {
		return middleware.RequirePermission(deps.Authorizer, p)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chiMiddleware.AllowContentType("application/json"))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(deps.JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired(deps.JWTService.JWTAuth()))
				r.Get("/me", h.Auth.Me)
			})
		})

		// Biometric terminal, authenticated by device key
		r.Route("/terminal", func(r chi.Router) {
			limiter := middleware.NewDeviceRateLimiter(cfg.TerminalRate, cfg.TerminalBurst, deps.Metrics)
			r.Use(middleware.DeviceAuth(cfg.DeviceKeys))
			r.Use(limiter.Handler)

			r.Get("/health", h.Terminal.Health)
			r.Get("/next-employee-id", h.Terminal.NextEmployeeID)
			r.Get("/users", h.Terminal.ListUsers)
			r.Get("/users/{employeeID}", h.Terminal.GetUser)
			r.Get("/fingerprint/templates", h.Terminal.Templates)
			r.Get("/attendance/last/{employeeID}", h.Terminal.LastAttendance)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Idempotency(deps.Idempotency, deps.Metrics))
				r.Post("/users", h.Terminal.CreateUser)
				r.Post("/fingerprint/update-template/{employeeID}", h.Terminal.UpdateTemplate)
				r.Post("/attendance", h.Terminal.SubmitAttendance)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(deps.JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(deps.JWTService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/", h.Attendance.List)
				r.Get("/last/{employeeID}", h.Attendance.Last)
				r.Get("/employee/{employeeID}", h.Attendance.EmployeeDay)
				r.Get("/daily-summary/{employeeID}", h.Attendance.DailySummary)
				r.Get("/summary", h.Attendance.RangeSummary)
				r.With(perm(access.PermissionAttendanceRecord)).Post("/", h.Attendance.Record)
				r.With(perm(access.PermissionAttendanceManual)).Post("/manual", h.Attendance.RecordManual)
				r.With(perm(access.PermissionAttendanceExport)).Get("/export", h.Attendance.Export)
				r.With(perm(access.PermissionAttendanceExport)).Get("/summary/export", h.Attendance.ExportSummary)
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Get("/", h.Leave.List)
				r.Get("/statistics", h.Leave.Statistics)
				r.Get("/{id}", h.Leave.Get)
				r.Delete("/{id}", h.Leave.Delete)
				r.With(perm(access.PermissionLeaveCreate)).Post("/", h.Leave.Create)
				r.Group(func(r chi.Router) {
					r.Use(perm(access.PermissionLeaveReview))
					r.Post("/{id}/approve", h.Leave.Approve)
					r.Post("/{id}/reject", h.Leave.Reject)
				})
			})

			r.Route("/salary-advances", func(r chi.Router) {
				r.Get("/", h.SalaryAdvance.List)
				r.Get("/statistics", h.SalaryAdvance.Statistics)
				r.Get("/{id}", h.SalaryAdvance.Get)
				r.Delete("/{id}", h.SalaryAdvance.Delete)
				r.With(perm(access.PermissionSalaryAdvanceCreate)).Post("/", h.SalaryAdvance.Create)
				r.Group(func(r chi.Router) {
					r.Use(perm(access.PermissionSalaryAdvanceReview))
					r.Post("/{id}/approve", h.SalaryAdvance.Approve)
					r.Post("/{id}/reject", h.SalaryAdvance.Reject)
				})
			})

			r.Route("/vacation", func(r chi.Router) {
				r.Get("/balance/{userID}", h.Vacation.Balance)
				r.With(perm(access.PermissionVacationRecalculate)).Post("/recalculate/{userID}", h.Vacation.Recalculate)
				r.With(perm(access.PermissionVacationRecalculateAll)).Post("/recalculate", h.Vacation.RecalculateAll)
				r.With(perm(access.PermissionVacationList)).Get("/balances", h.Vacation.List)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/me", h.User.Me)
				r.Get("/{id}", h.User.Get)
				// The service decides which fields and targets the caller may change.
				r.Put("/{id}", h.User.Update)
				r.With(perm(access.PermissionUserList)).Get("/", h.User.List)
				r.Group(func(r chi.Router) {
					r.Use(perm(access.PermissionUserManage))
					r.Post("/", h.User.Create)
					r.Delete("/{id}", h.User.Deactivate)
					r.Post("/{id}/activate", h.User.Activate)
				})
			})

			r.Route("/companies", func(r chi.Router) {
				r.Get("/", h.Company.List)
				r.Get("/{id}", h.Company.GetByID)
				r.With(perm(access.PermissionCompanyCreate)).Post("/", h.Company.Create)
				r.With(perm(access.PermissionCompanyManage)).Put("/{id}", h.Company.Update)
				r.With(perm(access.PermissionCompanyManage)).Delete("/{id}", h.Company.Delete)
			})

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", h.Project.List)
				r.Get("/{id}", h.Project.Get)
				r.Group(func(r chi.Router) {
					r.Use(perm(access.PermissionProjectManage))
					r.Post("/", h.Project.Create)
					r.Put("/{id}", h.Project.Update)
					r.Delete("/{id}", h.Project.Delete)
					r.Post("/{id}/assign", h.Project.Assign)
					r.Post("/{id}/remove/{userID}", h.Project.Unassign)
				})
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.Notification.List)
				r.Get("/unread-count", h.Notification.UnreadCount)
				r.Put("/read-all", h.Notification.MarkAllAsRead)
				r.Put("/{id}/read", h.Notification.MarkAsRead)
				r.Delete("/{id}", h.Notification.Delete)
			})

			r.Route("/settings", func(r chi.Router) {
				r.Get("/", h.Settings.Get)
				r.Group(func(r chi.Router) {
					r.Use(perm(access.PermissionSettingsManage))
					r.Put("/", h.Settings.UpdateGeneral)
					r.Put("/attendance", h.Settings.UpdateAttendance)
				})
			})

			r.Route("/fingerprint", func(r chi.Router) {
				r.Use(perm(access.PermissionFingerprintManage))
				r.Post("/enroll", h.Fingerprint.Enroll)
				r.Get("/check/{employeeID}", h.Fingerprint.Check)
				r.Get("/templates", h.Fingerprint.Templates)
				r.Delete("/remove/{employeeID}", h.Fingerprint.Remove)
				r.Get("/pending", h.Fingerprint.Pending)
				r.Post("/confirm", h.Fingerprint.Confirm)
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/statistics", h.Dashboard.Statistics)
				r.With(perm(access.PermissionDashboardReview)).Get("/pending-approvals", h.Dashboard.PendingApprovals)
			})
		})
	})
	return r
}
