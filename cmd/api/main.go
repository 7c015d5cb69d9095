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

	"github.com/sirupsen/logrus"

	"github.com/Dan9191/loan-service/internal/config"
	"github.com/Dan9191/loan-service/internal/database"
	"github.com/Dan9191/loan-service/internal/handler"
	"github.com/Dan9191/loan-service/internal/jobs"
	"github.com/Dan9191/loan-service/internal/repository"
	"github.com/Dan9191/loan-service/internal/service"
	"github.com/Dan9191/loan-service/internal/utils"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	if err := config.LoadENV(); err != nil {
		logger.Fatalf("Failed to load .env: %v", err)
	}

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.Open(ctx, cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := database.Migrate(ctx, db, logger); err != nil {
		logger.Fatalf("Failed to apply migrations: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	cipher := utils.NewDocumentCipher(cfg.EncryptionKey, cfg.HMACSecret)
	clock := service.NewClock(cfg.Location)
	activities := service.NewActivities(repo, logger)
	svc := handler.Services{
		Clients:       service.NewClients(repo, cipher, activities, logger),
		Loans:         service.NewLoans(repo, cipher, activities, logger),
		Charges:       service.NewCharges(repo, cipher, activities, clock, logger),
		Reports:       service.NewReports(repo, cipher, clock, logger),
		Users:         service.NewUsers(repo, logger, cfg.JWTSecret, cfg.TokenTTL),
		Notifications: service.NewNotifications(repo, logger),
		Activities:    activities,
		Entities:      service.NewEntities(repo),
	}
	if err := svc.Users.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.Fatalf("Failed to bootstrap admin user: %v", err)
	}

	overdue, err := jobs.NewOverdueJob(svc.Charges, cfg.OverdueCron, cfg.Location, logger)
	if err != nil {
		logger.Fatalf("Failed to schedule overdue job: %v", err)
	}
	overdue.Start()

	h := handler.NewHandler(svc, repo, logger)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler.NewRouter(h, logger, cfg.JWTSecret, cfg.AllowedOrigins),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
	overdue.Stop(shutdownCtx)
}
