// Package main is the entry point for the attendance service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/staffdeck/attendance-service/internal/config"
	"github.com/staffdeck/attendance-service/internal/database"
	"github.com/staffdeck/attendance-service/internal/handlers"
	"github.com/staffdeck/attendance-service/internal/loader"
	"github.com/staffdeck/attendance-service/internal/notifier"
	"github.com/staffdeck/attendance-service/internal/policy"
	"github.com/staffdeck/attendance-service/internal/repository"
	"github.com/staffdeck/attendance-service/internal/routes"
	"github.com/staffdeck/attendance-service/internal/service"
	"github.com/staffdeck/attendance-service/pkg/redis"
)

// @title Attendance Service API
// @version 1.0
// @description Employee, subject and attendance management with OTP-verified accounts
// @host localhost:8086
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load configuration
	cfg := config.Load()

	logger := newLogger(cfg.Environment)
	slog.SetDefault(logger)

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Initialize Redis
	redisClient, err := redis.NewClient(redis.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}

	// Initialize notifier
	otpNotifier, cleanup, err := newNotifier(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize notifier", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)

	// Initialize services
	jwtService := service.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry, 7*24*time.Hour)
	otpService := service.NewOTPService(userRepo, otpNotifier, cfg.OTPExpiry, logger)
	authService := service.NewAuthService(userRepo, jwtService, otpService, redisClient, logger)
	employeeService := service.NewEmployeeService(employeeRepo, userRepo)
	subjectService := service.NewSubjectService(subjectRepo, employeeRepo)
	attendanceService := service.NewAttendanceService(attendanceRepo, employeeRepo)

	gate := policy.NewGate(otpService, logger)

	// Initialize handlers
	h := routes.Handlers{
		Auth:       handlers.NewAuthHandler(authService),
		Employee:   handlers.NewEmployeeHandler(employeeService, gate),
		Subject:    handlers.NewSubjectHandler(subjectService, gate),
		Attendance: handlers.NewAttendanceHandler(attendanceService, gate),
		Health:     handlers.NewHealthHandler(),
	}

	repos := loader.Repositories{
		Users:      userRepo,
		Employees:  employeeRepo,
		Subjects:   subjectRepo,
		Attendance: attendanceRepo,
	}

	// Seed the bootstrap admin when configured
	if email := os.Getenv("ADMIN_EMAIL"); email != "" {
		if err := authService.EnsureAdmin(context.Background(), email, os.Getenv("ADMIN_PASSWORD")); err != nil {
			logger.Error("failed to ensure admin account", "error", err)
			os.Exit(1)
		}
	}

	// Setup router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	routes.Setup(router, h, authService, repos)

	// Start server
	logger.Info("starting attendance service", "port", cfg.Port)
	if err := router.Run(fmt.Sprintf(":%s", cfg.Port)); err != nil {
		logger.Error("failed to start server", "error", err)
		os.Exit(1)
	}
}

func newLogger(environment string) *slog.Logger {
	if environment == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// newNotifier picks the OTP delivery path. With NATS_URL set, mail jobs
// go to the external broker. Without it, development logs the codes and
// any other environment runs an embedded broker so the mailer worker can
// attach to the service process itself.
func newNotifier(cfg *config.Config, logger *slog.Logger) (notifier.Notifier, func(), error) {
	if cfg.NATSURL == "" && cfg.Environment == "development" {
		return notifier.NewLog(logger), func() {}, nil
	}

	url := cfg.NATSURL
	cleanup := func() {}

	if url == "" {
		srv, err := natsserver.NewServer(&natsserver.Options{Host: "127.0.0.1", Port: -1})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create embedded nats server: %w", err)
		}
		go srv.Start()
		if !srv.ReadyForConnections(5 * time.Second) {
			return nil, nil, fmt.Errorf("embedded nats server did not become ready")
		}
		url = srv.ClientURL()
		cleanup = srv.Shutdown
		logger.Info("started embedded nats server", "url", url)
	}

	conn, err := nats.Connect(url)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	connCleanup := func() {
		conn.Close()
		cleanup()
	}
	return notifier.NewNATS(conn, logger), connCleanup, nil
}
