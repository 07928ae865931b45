package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pawhaus/service-boarding/internal/application"
	"github.com/pawhaus/service-boarding/internal/auth"
	"github.com/pawhaus/service-boarding/internal/config"
	"github.com/pawhaus/service-boarding/internal/database"
	"github.com/pawhaus/service-boarding/internal/domain"
	"github.com/pawhaus/service-boarding/internal/events"
	"github.com/pawhaus/service-boarding/internal/handler"
	"github.com/pawhaus/service-boarding/internal/logger"
	"github.com/pawhaus/service-boarding/internal/middleware"
	"github.com/pawhaus/service-boarding/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.NewNamed(cfg.AppEnv, "service-boarding")
	if err != nil {
		panic("failed to build logger: " + err.Error())
	}
	defer log.Sync()

	db, err := database.Connect(cfg.DB, log)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&repository.BookingModel{},
		&repository.PetModel{},
		&repository.SettingsModel{},
	); err != nil {
		log.Fatal("database migration failed", zap.Error(err))
	}

	producer := events.NewProducer(cfg.Kafka.Brokers, log)
	defer producer.Close()
	notifier := events.NewKafkaNotifier(producer, log)

	bookingRepo := repository.NewGormBookingRepository(db)
	petRepo := repository.NewGormPetRepository(db)
	settingsProvider := repository.NewGormSettingsProvider(db)
	uow := repository.NewGormUnitOfWork(db)

	bookingService := application.NewBookingService(bookingRepo, petRepo, settingsProvider, uow, notifier, log)
	petService := application.NewPetService(petRepo, uow, log)

	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, 24*time.Hour)

	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		middleware.RequestIDMiddleware(),
		middleware.LoggerMiddleware(log),
		middleware.RecoveryMiddleware(log),
	)

	handler.NewHealthHandler(db).RegisterRoutes(router)

	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(jwtManager))

	handler.NewBookingHandler(bookingService).RegisterRoutes(api)
	handler.NewPetHandler(petService).RegisterRoutes(api)

	admin := api.Group("/admin")
	admin.Use(middleware.RequireRole(domain.RoleAdmin))
	handler.NewAdminHandler(bookingService).RegisterRoutes(admin)

	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
