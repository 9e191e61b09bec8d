package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carwash-booking-api/internal/auth"
	"carwash-booking-api/internal/client"
	"carwash-booking-api/internal/config"
	"carwash-booking-api/internal/logger"
	"carwash-booking-api/internal/repository"
	"carwash-booking-api/internal/schema"
	"carwash-booking-api/internal/server"
	"carwash-booking-api/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log)
	log.WithField("environment", cfg.Environment.Name).Info("starting car wash booking api")

	db, err := client.InitDBClient(&cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}

	paypalClient, err := client.NewPaypalClient(&cfg.Paypal, cfg.FrontendURL)
	if err != nil {
		log.WithError(err).Fatal("paypal client configuration")
	}

	bookingRepo := repository.NewBookingRepository(db)
	userRepo := repository.NewUserRepository(db)
	serviceRepo := repository.NewServiceRepository(db)

	schema.NewManager(db, userRepo, serviceRepo, cfg.Admin, log).Ensure(context.Background())

	paymentService := service.NewPaymentService(db, paypalClient, bookingRepo, log)
	userService := service.NewUserService(userRepo)

	srv := server.NewServer(
		paymentService,
		userService,
		auth.NewVerifier(cfg.JWT.Secret),
		cfg.FrontendURL,
		log,
	)

	serverAddr := cfg.ServerAddr()

	log.WithField("addr", serverAddr).Info("starting HTTP server")
	go func() {
		if err := srv.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info("signal received, starting graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown error")
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	log.Info("server stopped")
}
