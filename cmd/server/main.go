package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/riteshkumar/banking-ledger/internal/account"
	"github.com/riteshkumar/banking-ledger/internal/handler"
	"github.com/riteshkumar/banking-ledger/internal/models"
	"github.com/riteshkumar/banking-ledger/internal/repository"
	"github.com/riteshkumar/banking-ledger/internal/service"
)

type Config struct {
	ServerPort         string
	CycleIntervalHours int
	SeedDemoData       bool

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
}

func main() {
	// Initialise logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	config := loadConfig()

	// Initialise registries
	accountRepo := repository.NewAccountRepository()
	clientRepo := repository.NewClientRepository()
	auditRepo := repository.NewAuditRepository()

	// Shared transaction sequence and clock for every account
	seq := account.NewSequence()
	clock := account.SystemClock()

	// Notifications are active only when SMTP is configured
	var notifier service.Notifier = service.NoopNotifier{}
	if config.SMTPHost != "" {
		notifier = service.NewEmailNotifier(config.SMTPHost, config.SMTPPort, config.SMTPUsername, config.SMTPPassword, config.SMTPFrom)
		logger.Info("email notifications enabled", "smtp_host", config.SMTPHost)
	}

	// Initialise services
	clientService := service.NewClientService(clientRepo, auditRepo, logger)
	accountService := service.NewAccountService(accountRepo, clientRepo, auditRepo, notifier, seq, clock, logger)
	transferService := service.NewTransferService(accountRepo, clientRepo, auditRepo, notifier, logger)
	cycleService := service.NewCycleService(accountRepo, logger)

	if config.SeedDemoData {
		seedDemoData(clientService, accountService, logger)
	}

	// Initialise handlers
	clientHandler := handler.NewClientHandler(clientService, logger)
	accountHandler := handler.NewAccountHandler(accountService, logger)
	transferHandler := handler.NewTransferHandler(transferService, logger)
	adminHandler := handler.NewAdminHandler(cycleService, auditRepo, logger)

	// Setup router
	router := mux.NewRouter()
	clientHandler.RegisterRoutes(router)
	accountHandler.RegisterRoutes(router)
	transferHandler.RegisterRoutes(router)
	adminHandler.RegisterRoutes(router)

	// Add health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	// Add middleware for logging
	router.Use(loggingMiddleware(logger))

	// Start the monthly cycle scheduler
	cycleService.Start(time.Duration(config.CycleIntervalHours) * time.Hour)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + config.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a go routine
	go func() {
		logger.Info("starting server on port " + config.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("failed to start server", "error", err.Error())
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cycleService.Stop()

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err.Error())
	}

	logger.Info("server exited gracefully")
}

// loads config from environment variables
func loadConfig() Config {
	return Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		CycleIntervalHours: getEnvInt("CYCLE_INTERVAL_HOURS", 720),
		SeedDemoData:       getEnv("SEED_DEMO_DATA", "false") == "true",
		SMTPHost:           getEnv("SMTP_HOST", ""),
		SMTPPort:           getEnvInt("SMTP_PORT", 587),
		SMTPUsername:       getEnv("SMTP_USERNAME", ""),
		SMTPPassword:       getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:           getEnv("SMTP_FROM", ""),
	}
}

// getEnv fetches environment variable or returns default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// seedDemoData registers a couple of clients with starter accounts.
func seedDemoData(clients service.ClientService, accounts service.AccountService, logger *slog.Logger) {
	ctx := context.Background()

	demo := []struct {
		client  models.RegisterClientRequest
		variant string
		balance float64
	}{
		{
			client:  models.RegisterClientRequest{ID: "DNI001", Name: "Juan Perez", Email: "juan@email.com", Tier: "PREMIUM"},
			variant: string(models.VariantSavings),
			balance: 1000,
		},
		{
			client:  models.RegisterClientRequest{ID: "DNI002", Name: "Maria Garcia", Email: "maria@email.com", Tier: "REGULAR"},
			variant: string(models.VariantChecking),
			balance: 500,
		},
	}

	for _, d := range demo {
		if _, err := clients.RegisterClient(ctx, &d.client); err != nil {
			logger.Error("failed to seed demo client", "client_id", d.client.ID, "error", err.Error())
			continue
		}
		if _, err := accounts.CreateAccount(ctx, &models.CreateAccountRequest{
			ClientID:       d.client.ID,
			Variant:        d.variant,
			InitialBalance: d.balance,
		}); err != nil {
			logger.Error("failed to seed demo account", "client_id", d.client.ID, "error", err.Error())
		}
	}
	logger.Info("demo data seeded")
}

// loggingMiddleware logs incoming HTTP requests
func loggingMiddleware(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			logger.Info("incoming request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
