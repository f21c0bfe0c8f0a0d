package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"bookforge/internal/auth"
	"bookforge/internal/config"
	"bookforge/internal/handler"
	"bookforge/internal/middleware"
	"bookforge/internal/plans"
	"bookforge/internal/repository/postgres"
	"bookforge/internal/service"
	"bookforge/internal/service/backup"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger) // Set as default logger

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create JWT verifier for Supabase authentication
	jwtVerifier, err := auth.NewJWTVerifier(cfg.SupabaseJWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	profileRepo := postgres.NewProfileRepository(repoConfig)
	bookRepo := postgres.NewBookRepository(repoConfig)
	summaryRepo := postgres.NewChapterSummaryRepository(repoConfig)
	usageRepo := postgres.NewUsageEventRepository(repoConfig)
	auditRepo := postgres.NewBackupAuditRepository(repoConfig)

	// Initialize plan registry
	planRegistry, err := plans.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize plan registry: %v", err)
	}
	logger.Info("plan registry initialized")

	// Create services
	profileService := service.NewProfileService(profileRepo, logger)
	bookService := service.NewBookService(bookRepo, logger)
	summaryService := service.NewChapterSummaryService(summaryRepo, bookRepo, logger)
	usageService := service.NewUsageService(usageRepo, profileRepo, planRegistry, logger)
	txManager := postgres.NewTransactionManager(pool)
	backupService := backup.NewService(profileRepo, bookRepo, summaryRepo, usageRepo, auditRepo, txManager, nil, logger)

	// Create handlers
	bookHandler := handler.NewBookHandler(bookService, summaryService, logger)
	profileHandler := handler.NewProfileHandler(profileService, logger)
	usageHandler := handler.NewUsageHandler(usageService, logger)
	backupHandler := handler.NewBackupHandler(backupService, logger)
	plansHandler := handler.NewPlansHandler(planRegistry, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", bookHandler.HealthCheck)

	// Book routes
	mux.HandleFunc("GET /api/books", bookHandler.ListBooks)
	mux.HandleFunc("POST /api/books", bookHandler.CreateBook)
	mux.HandleFunc("GET /api/books/{id}", bookHandler.GetBook)
	mux.HandleFunc("PATCH /api/books/{id}", bookHandler.UpdateBook)
	mux.HandleFunc("DELETE /api/books/{id}", bookHandler.DeleteBook)

	// Chapter summary routes
	mux.HandleFunc("GET /api/books/{id}/summaries", bookHandler.ListSummaries)
	mux.HandleFunc("PUT /api/books/{id}/summaries", bookHandler.PutSummary)

	// Profile routes
	mux.HandleFunc("GET /api/profile", profileHandler.GetProfile)
	mux.HandleFunc("PATCH /api/profile", profileHandler.UpdateProfile)

	// Usage ledger routes
	mux.HandleFunc("GET /api/usage", usageHandler.ListUsage)
	mux.HandleFunc("POST /api/usage", usageHandler.RecordUsage)

	// Backup and restore routes
	mux.HandleFunc("GET /api/backup", backupHandler.CreateBackup)
	mux.HandleFunc("POST /api/restore", backupHandler.Restore)
	mux.HandleFunc("GET /api/backup/audit", backupHandler.ListAudit)

	// Plan registry routes
	mux.HandleFunc("GET /api/plans", plansHandler.ListPlans)

	// Build middleware chain
	var httpHandler http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	httpHandler = middleware.AuthMiddleware(jwtVerifier)(httpHandler)
	httpHandler = middleware.Recovery(logger)(httpHandler)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	httpHandler = corsHandler.Handler(httpHandler)

	// Optional automatic backup loop for a single operator-designated owner.
	// Most deployments drive backups through backupctl instead.
	if cfg.AutoBackup {
		startAutoBackup(ctx, cfg, backupService, logger)
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// startAutoBackup launches the background scheduler for the owner named in
// AUTO_BACKUP_OWNER. Without an owner the loop has nothing to back up.
func startAutoBackup(ctx context.Context, cfg *config.Config, backupService *backup.Service, logger *slog.Logger) {
	ownerID := os.Getenv("AUTO_BACKUP_OWNER")
	if ownerID == "" {
		logger.Warn("AUTO_BACKUP enabled but AUTO_BACKUP_OWNER is empty, scheduler not started")
		return
	}

	exporter, err := backup.NewExporter(cfg.BackupDir)
	if err != nil {
		log.Fatalf("Failed to create backup exporter: %v", err)
	}
	stateStore, err := backup.NewFileStateStore(cfg.BackupDir)
	if err != nil {
		log.Fatalf("Failed to create backup state store: %v", err)
	}

	scheduler := backup.NewScheduler(
		backup.SchedulerConfig{
			Enabled:  true,
			OwnerID:  ownerID,
			Interval: cfg.BackupInterval,
		},
		backupService,
		backupService,
		exporter,
		stateStore,
		nil,
		nil,
		logger,
	)

	go scheduler.Run(ctx)
	logger.Info("automatic backup scheduler started",
		"owner_id", ownerID,
		"interval", cfg.BackupInterval.String(),
	)
}
