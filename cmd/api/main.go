package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"procurify-api/config"
	"procurify-api/controllers"
	"procurify-api/logger"
	"procurify-api/middleware"
	"procurify-api/monitor"
	"procurify-api/realtime"
	"procurify-api/routes"
	"procurify-api/services"
	"procurify-api/store"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	logFile, logWriter := config.InitLogging(cfg.Logging.File)
	if logFile != nil {
		defer logFile.Close()
	}
	appLog := logger.New(logWriter, cfg.Logging.Level)
	logger.SetGlobal(appLog)
	defer func() { _ = appLog.Sync() }()

	// Initialize database
	db, err := config.InitDB(cfg.Database, cfg.Server.IsRelease())
	if err != nil {
		appLog.Fatalw("failed to connect to database", "error", err)
	}

	// Set Gin mode
	if cfg.Server.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = logWriter
	gin.DefaultErrorWriter = logWriter

	sqlDB, err := db.DB()
	if err != nil {
		appLog.Fatalw("failed to access database handle", "error", err)
	}
	checks := []monitor.Check{{Name: "database", Ping: sqlDB.PingContext}}

	var publisher services.Publisher = realtime.NoopPublisher{}
	if client := config.NewRedisClient(cfg.Redis); client != nil {
		defer client.Close()
		publisher = realtime.NewRedisPublisher(client)
		checks = append(checks, monitor.Check{Name: "redis", Ping: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}})
		appLog.Infow("live notifications enabled", "redis", cfg.Redis.Address)
	}
	mailer := config.NewMailer(cfg.SMTP)
	if !mailer.Enabled() {
		appLog.Infow("SMTP not configured, notification e-mail disabled")
	}

	// Stores
	submissionStore := store.NewSubmissionStore(db)
	historyStore := store.NewHistoryStore(db)
	procurementStore := store.NewProcurementStore(db)
	userStore := store.NewUserStore(db)
	notificationStore := store.NewNotificationStore(db)
	transactor := store.NewTransactor(db)

	// Services
	activityService := services.NewActivityService(store.NewActivityStore(db), appLog)
	dispatcher := services.NewNotificationDispatcher(notificationStore, userStore, publisher, mailer, appLog)
	procurementService := services.NewProcurementService(transactor, procurementStore, historyStore, userStore, dispatcher, activityService, appLog)
	transitionService := services.NewTransitionService(transactor, dispatcher, procurementService, activityService, appLog)
	batchService := services.NewBatchService(transitionService, activityService, appLog)
	submissionService := services.NewSubmissionService(transactor, submissionStore, historyStore, procurementStore, procurementService, activityService, appLog)
	ratingService := services.NewRatingService(submissionStore, procurementStore, store.NewRatingStore(db), activityService, appLog)

	// Create Gin router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(middleware.RateLimitMiddleware(middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)))
	router.Use(middleware.RequestMeta())

	routes.SetupRoutes(router, routes.Handlers{
		Profile:          controllers.NewProfileController(userStore),
		Procurements:     controllers.NewProcurementController(procurementService),
		Submissions:      controllers.NewSubmissionController(submissionService),
		AdminSubmissions: controllers.NewAdminSubmissionController(transitionService, batchService, ratingService),
		Notifications:    controllers.NewNotificationController(services.NewNotificationService(notificationStore)),
		Activity:         controllers.NewActivityController(activityService),
		Monitor:          monitor.New(cfg.Logging.File, checks...),
	}, middleware.AuthMiddleware(cfg.JWT.Secret, cfg.JWT.Issuer, userStore))

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLog.Infow("server starting", "port", cfg.Server.Port, "release", cfg.Server.IsRelease())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatalw("failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Infow("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLog.Errorw("graceful shutdown failed", "error", err)
	}
}
