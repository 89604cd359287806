package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"fitbook/config"
	"fitbook/cron"
	"fitbook/database"
	bookingRepoPkg "fitbook/database/repository/booking"
	clientRepoPkg "fitbook/database/repository/client"
	requestRepoPkg "fitbook/database/repository/request"
	schedulerRepoPkg "fitbook/database/repository/scheduler"
	timeslotRepoPkg "fitbook/database/repository/timeslot"
	trainerRepoPkg "fitbook/database/repository/trainer"
	"fitbook/handlers"
	"fitbook/middleware"
	"fitbook/routes"
	"fitbook/services"
	"fitbook/services/booking"
	"fitbook/services/notification"
	"fitbook/utils"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	slotRepo := timeslotRepoPkg.NewMongoTimeSlotRepo()
	reqRepo := requestRepoPkg.NewMongoRequestRepo()
	bkgRepo := bookingRepoPkg.NewMongoBookingRepo()
	trnRepo := trainerRepoPkg.NewMongoTrainerRepo()
	clRepo := clientRepoPkg.NewMongoClientRepo()
	schedRepo := schedulerRepoPkg.NewMongoSchedulerRepo()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	for _, ensure := range []func(context.Context) error{
		slotRepo.EnsureIndexes,
		reqRepo.EnsureIndexes,
		bkgRepo.EnsureIndexes,
		trnRepo.EnsureIndexes,
		clRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			logger.Sugar().Fatalf("main: failed to ensure indexes: %v", err)
		}
	}
	cancel()

	// services.
	granularity := config.AppConfig.SlotGranularityMinutes
	notifier := &notification.LogService{Logger: logger}

	resolver := &booking.Resolver{
		Slots:       slotRepo,
		Granularity: granularity,
	}
	coordinator := &booking.Coordinator{
		Repo:    schedRepo,
		LockTTL: time.Duration(config.AppConfig.SlotLockTTLMinutes) * time.Minute,
		Logger:  logger,
	}
	workflow := &booking.Workflow{
		Requests:     reqRepo,
		Bookings:     bkgRepo,
		Trainers:     trnRepo,
		Clients:      clRepo,
		Resolver:     resolver,
		Coordinator:  coordinator,
		Cache:        utils.GetCacheClient(),
		Notifier:     notifier,
		ExpiryWindow: time.Duration(config.AppConfig.RequestExpiryHours) * time.Hour,
		Logger:       logger,
	}
	availabilityService := &services.DefaultAvailabilityService{
		Slots:       slotRepo,
		Granularity: granularity,
	}
	slotService := &services.DefaultSlotService{
		Slots:       slotRepo,
		Trainers:    trnRepo,
		Granularity: granularity,
		Logger:      logger,
	}

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Requests: handlers.NewRequestHandler(workflow, reqRepo),
		Bookings: handlers.NewBookingHandler(workflow, bkgRepo),
		Slots:    handlers.NewSlotHandler(availabilityService, slotService, granularity),
		Trainers: handlers.NewTrainerHandler(trnRepo),
		Clients:  handlers.NewClientHandler(clRepo),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Background sweeps and health monitoring.
	cron.InitSweepWorker(workflow, slotRepo)
	utils.StartHealthMonitor([]*redis.Client{utils.GetCacheClient()}, database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
