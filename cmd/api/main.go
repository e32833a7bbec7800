package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/config"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/leave"
	appHTTP "github.com/cmlabs-hris/hr-admin-backend/internal/handler/http"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/authz"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/cron"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/database"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/idempotency"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/metrics"
	"github.com/cmlabs-hris/hr-admin-backend/internal/repository/postgresql"
	advanceService "github.com/cmlabs-hris/hr-admin-backend/internal/service/advance"
	attendanceService "github.com/cmlabs-hris/hr-admin-backend/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/hr-admin-backend/internal/service/auth"
	serviceCompany "github.com/cmlabs-hris/hr-admin-backend/internal/service/company"
	dashboardService "github.com/cmlabs-hris/hr-admin-backend/internal/service/dashboard"
	fingerprintService "github.com/cmlabs-hris/hr-admin-backend/internal/service/fingerprint"
	leaveService "github.com/cmlabs-hris/hr-admin-backend/internal/service/leave"
	notificationService "github.com/cmlabs-hris/hr-admin-backend/internal/service/notification"
	projectService "github.com/cmlabs-hris/hr-admin-backend/internal/service/project"
	settingsService "github.com/cmlabs-hris/hr-admin-backend/internal/service/settings"
	userService "github.com/cmlabs-hris/hr-admin-backend/internal/service/user"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel(cfg.App.LogLevel)})).
		With("app", cfg.App.Name, "env", cfg.App.Env))

	// Amounts go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), database.PoolConfig{
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		// Terminal submissions answer 503 until redis is reachable.
		slog.Warn("redis unavailable", "addr", cfg.Redis.Addr, "error", err)
	}

	authorizer, err := authz.New()
	if err != nil {
		return fmt.Errorf("failed to load access policy: %w", err)
	}
	appMetrics := metrics.New()

	userRepo := postgresql.NewUserRepository(db)
	companyRepo := postgresql.NewCompanyRepository(db)
	refreshTokenRepo := postgresql.NewRefreshTokenRepository(db)
	eventRepo := postgresql.NewEventRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	advanceRepo := postgresql.NewSalaryAdvanceRepository(db)
	projectRepo := postgresql.NewProjectRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	settingsRepo := postgresql.NewSettingsRepository(db)
	fingerprintRepo := postgresql.NewFingerprintRepository(db)
	dashboardRepo := postgresql.NewDashboardRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, cfg.JWT.SecureCookie)
	notifications := notificationService.NewNotificationService(notificationRepo, notificationService.Config{})
	defer notifications.Stop()

	// Balances read settings and settings changes recalculate balances.
	var balanceSvc leave.BalanceService
	settingsSvc := settingsService.NewSettingsService(settingsRepo, settingsService.RecalculatorFunc(
		func(ctx context.Context) (leave.RecalculateAllResponse, error) {
			return balanceSvc.RecalculateAll(ctx)
		},
	))
	balanceSvc = leaveService.NewBalanceService(userRepo, leaveRequestRepo, settingsSvc, appMetrics, cfg.Vacation.Parallelism)
	authSvc := serviceAuth.NewAuthService(db, userRepo, JWTService, refreshTokenRepo)
	userSvc := userService.NewUserService(userRepo, companyRepo, balanceSvc)
	companySvc := serviceCompany.NewCompanyService(companyRepo)
	attendanceSvc := attendanceService.NewAttendanceService(eventRepo, userRepo, settingsSvc, cfg.Location(), cfg.Attendance.MaxRangeDays, appMetrics)
	leaveSvc := leaveService.NewLeaveService(db, leaveRequestRepo, userRepo, balanceSvc, notifications)
	advanceSvc := advanceService.NewSalaryAdvanceService(advanceRepo, userRepo, notifications)
	projectSvc := projectService.NewProjectService(projectRepo, userRepo, notifications)
	fingerprintSvc := fingerprintService.NewFingerprintService(fingerprintRepo, userRepo, notifications)
	dashboardSvc := dashboardService.NewDashboardService(dashboardRepo, projectRepo, leaveSvc, advanceSvc, cfg.Location())

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			AppName:        cfg.App.Name,
			Version:        cfg.App.Version,
			Env:            cfg.App.Env,
			AllowedOrigins: cfg.App.AllowedOrigins,
			DeviceKeys:     cfg.Terminal.DeviceKeys,
			TerminalRate:   rate.Limit(cfg.Terminal.RateLimit),
			TerminalBurst:  cfg.Terminal.Burst,
		},
		appHTTP.Dependencies{
			JWTService:  JWTService,
			Authorizer:  authorizer,
			Idempotency: idempotency.NewStore(rdb, cfg.Redis.IdempotencyTTL),
			Metrics:     appMetrics,
		},
		appHTTP.Handlers{
			Auth:          appHTTP.NewAuthHandler(JWTService, authSvc),
			Attendance:    appHTTP.NewAttendanceHandler(attendanceSvc),
			Leave:         appHTTP.NewLeaveHandler(leaveSvc),
			SalaryAdvance: appHTTP.NewSalaryAdvanceHandler(advanceSvc),
			Vacation:      appHTTP.NewVacationHandler(balanceSvc),
			User:          appHTTP.NewUserHandler(userSvc),
			Company:       appHTTP.NewCompanyHandler(companySvc),
			Project:       appHTTP.NewProjectHandler(projectSvc),
			Notification:  appHTTP.NewNotificationHandler(notifications),
			Settings:      appHTTP.NewSettingsHandler(settingsSvc),
			Fingerprint:   appHTTP.NewFingerprintHandler(fingerprintSvc),
			Dashboard:     appHTTP.NewDashboardHandler(dashboardSvc),
			Terminal:      appHTTP.NewTerminalHandler(userSvc, fingerprintSvc, attendanceSvc),
		},
	)

	scheduler := cron.NewScheduler()
	cron.NewVacationJobs(balanceSvc).RegisterJobs(scheduler, cfg.Vacation.RecalcInterval)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server running", "addr", server.Addr, "version", cfg.App.Version)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
