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

	"finflow/internal/config"
	"finflow/internal/events"
	"finflow/internal/logger"
	"finflow/internal/server"
	"finflow/internal/services"
	"finflow/internal/storage"
	"finflow/internal/validator"
)

// @title           FinFlow API
// @version         1.0
// @description     FinFlow is a personal finance ledger: record income and expenses, search them, and export reports.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description Shared API key, required when API_KEY is set.

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	validator.Register()

	res, err := storage.Open(ctx, appConfig)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := res.Close(); err != nil {
			log.Warnf("storage close error: %v", err)
		}
	}()

	var publisher events.Publisher = events.NopPublisher{}
	if appConfig.EventsAMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(appConfig.EventsAMQPURL, appConfig.EventsExchange)
		if err != nil {
			return fmt.Errorf("failed to connect event publisher: %w", err)
		}
		publisher = amqpPublisher
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warnf("event publisher close error: %v", err)
		}
	}()

	ledger := services.NewLedgerService(res.Backend, res.Categories, publisher, services.LedgerSettings{
		Location:    appConfig.Location,
		ReportTitle: appConfig.ReportTitle,
	})
	if err := ledger.Load(ctx); err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}

	// audit entries go to the database when there is one, otherwise to the log
	auditService := services.NewAuditService(res.DB)

	router := server.NewRouter(server.Options{
		Ledger:   ledger,
		Audit:    auditService,
		APIKey:   appConfig.APIKey,
		Location: appConfig.Location,
		Backend:  appConfig.StorageBackend,
	})

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting FinFlow server on port %s (storage: %s)", appConfig.Port, appConfig.StorageBackend)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
