package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"telemedicine-core/config"
	deliveryHttp "telemedicine-core/internal/delivery/http"
	"telemedicine-core/internal/delivery/http/handler"
	"telemedicine-core/internal/delivery/http/middleware"
	"telemedicine-core/internal/infrastructure/cache"
	"telemedicine-core/internal/infrastructure/database"
	"telemedicine-core/internal/repository"
	"telemedicine-core/internal/service"
	"telemedicine-core/internal/usecase"
	"telemedicine-core/pkg/jwt"
	"telemedicine-core/pkg/lookupcode"
	"telemedicine-core/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
	Log         *logrus.Logger

	counter *service.NotificationCounterService
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	log := setupLogger()
	app.Log = log

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	if level, err := logrus.ParseLevel(cfg.App.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.Warnf("Unknown log level %q, keeping %s", cfg.App.LogLevel, log.GetLevel())
	}
	log.Info("Configuration loaded successfully")

	db, err := database.NewPostgresConnection(cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	if cfg.DB.AutoMigrate {
		if err := database.RunMigrations(db, log); err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	redisClient, err := cache.NewRedisClient(cfg.Redis, log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	app.Server = app.initializeServer()

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)
	return log
}

// initializeServer wires every layer and returns the HTTP server
func (app *App) initializeServer() *http.Server {
	cfg, db, redisClient, log := app.Config, app.DB, app.RedisClient, app.Log

	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()
	encoder := lookupcode.NewEncoder(cfg.App.BaseURL)

	// Repositories
	userRepo := repository.NewUserRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	consultationRepo := repository.NewConsultationRepository()
	chatMessageRepo := repository.NewChatMessageRepository()
	notificationRepo := repository.NewNotificationRepository()
	recordRepo := repository.NewMedicalRecordRepository()
	prescriptionRepo := repository.NewPrescriptionRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Services
	counter := service.NewNotificationCounterService(db, redisClient, log, notificationRepo)
	app.counter = counter
	syncCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := counter.SyncOnStartup(syncCtx); err != nil {
		log.Warnf("Unread counters will be rebuilt lazily: %+v", err)
	}
	cancel()

	auditService := service.NewAuditService(log, auditLogRepo)
	notificationService := service.NewNotificationService(log, notificationRepo, counter)

	// Usecases
	idAttempts := cfg.Lifecycle.IdentifierMaxAttempts
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, redisClient)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, appointmentRepo, consultationRepo, userRepo, auditService, notificationService, idAttempts)
	consultationUsecase := usecase.NewConsultationUsecase(db, log, appointmentRepo, consultationRepo, chatMessageRepo, auditService, notificationService, cfg.Lifecycle.ConsultationOpenMaxAttempts)
	notificationUsecase := usecase.NewNotificationUsecase(db, log, notificationRepo, counter)
	recordUsecase := usecase.NewMedicalRecordUsecase(db, log, appointmentRepo, recordRepo, auditService, notificationService, encoder, idAttempts)
	prescriptionUsecase := usecase.NewPrescriptionUsecase(db, log, appointmentRepo, prescriptionRepo, auditService, notificationService, encoder, idAttempts)
	verificationUsecase := usecase.NewVerificationUsecase(db, log, recordRepo, prescriptionRepo, encoder)

	// Handlers
	authHandler := handler.NewAuthHandler(authUsecase, log)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator, log)
	consultationHandler := handler.NewConsultationHandler(consultationUsecase, customValidator, log)
	notificationHandler := handler.NewNotificationHandler(notificationUsecase, log)
	recordHandler := handler.NewMedicalRecordHandler(recordUsecase, customValidator, log)
	prescriptionHandler := handler.NewPrescriptionHandler(prescriptionUsecase, customValidator, log)
	verificationHandler := handler.NewVerificationHandler(verificationUsecase, log)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient, log)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigin)

	router := deliveryHttp.NewRouter(
		authHandler,
		appointmentHandler,
		consultationHandler,
		notificationHandler,
		recordHandler,
		prescriptionHandler,
		verificationHandler,
		authMiddleware,
		corsMiddleware,
	)

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close stops background workers and closes connections
func (app *App) Close() {
	if app.counter != nil {
		app.counter.Stop()
	}

	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
