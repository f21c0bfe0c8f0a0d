package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"bookforge/internal/auth"
	"bookforge/internal/config"
	"bookforge/internal/repository/postgres"
	"bookforge/internal/seed"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed demo data")
	createUser := flag.Bool("create-user", false, "Create a test auth user via the Supabase admin API")
	owner := flag.String("owner", "00000000-0000-0000-0000-000000000001", "Owner id for the demo account")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("BLOCKED: cannot run --drop-tables in production environment")
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log.Printf("Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)

	// Create database connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Drop tables if requested
	if *dropTables {
		log.Println("Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("Tables dropped")
	}

	// Run schema to ensure tables exist
	log.Println("Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("Schema ready")

	if *schemaOnly {
		log.Println("Schema setup complete (schema-only mode)")
		return
	}

	// Optionally register a matching auth user so the demo account can log in
	if *createUser {
		adminClient := auth.NewAdminClient(cfg.SupabaseURL, cfg.SupabaseKey)
		userID, err := adminClient.CreateUser("demo@bookforge.dev", "demo-password-1")
		if err != nil {
			log.Printf("Warning: could not create test auth user: %v", err)
		} else {
			log.Printf("Created test auth user %s", userID)
			*owner = userID
		}
	}

	// Seed the demo account
	seeder := seed.NewDemoSeeder(pool, tables, logger)
	if err := seeder.SeedAccount(ctx, *owner); err != nil {
		log.Fatalf("Failed to seed demo account: %v", err)
	}

	log.Println("Seeding complete!")
}

// dropAllTables removes every application table for the configured prefix.
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	drops := []string{
		`DROP TABLE IF EXISTS ` + tables.ChapterSummaries + ` CASCADE`,
		`DROP TABLE IF EXISTS ` + tables.UsageEvents + ` CASCADE`,
		`DROP TABLE IF EXISTS ` + tables.BackupAudit + ` CASCADE`,
		`DROP TABLE IF EXISTS ` + tables.Books + ` CASCADE`,
		`DROP TABLE IF EXISTS ` + tables.Profiles + ` CASCADE`,
	}
	for _, stmt := range drops {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// runSchema creates tables if they don't exist
func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	createProfiles := `
		CREATE TABLE IF NOT EXISTS ` + tables.Profiles + ` (
			owner_id UUID PRIMARY KEY,
			display_name TEXT NOT NULL DEFAULT '',
			bio TEXT NOT NULL DEFAULT '',
			language TEXT NOT NULL DEFAULT 'en',
			timezone TEXT NOT NULL DEFAULT 'UTC',
			avatar_url TEXT,
			ai_processing_consent BOOLEAN NOT NULL DEFAULT FALSE,
			training_opt_in BOOLEAN NOT NULL DEFAULT FALSE,
			content_retention_days INTEGER NOT NULL DEFAULT 365,
			log_retention_days INTEGER NOT NULL DEFAULT 90,
			default_visibility TEXT NOT NULL DEFAULT 'private',
			plan_tier TEXT NOT NULL DEFAULT 'free',
			words_used_this_month INTEGER NOT NULL DEFAULT 0,
			billing_customer_id TEXT,
			consent_version TEXT NOT NULL DEFAULT '',
			consent_updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createProfiles); err != nil {
		return err
	}

	createBooks := `
		CREATE TABLE IF NOT EXISTS ` + tables.Books + ` (
			id UUID PRIMARY KEY,
			owner_id UUID NOT NULL,
			title TEXT NOT NULL,
			genre TEXT NOT NULL DEFAULT '',
			subgenre TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL DEFAULT '',
			word_count INTEGER NOT NULL DEFAULT 0,
			total_chapters INTEGER NOT NULL DEFAULT 0,
			chapters_read INTEGER NOT NULL DEFAULT 0,
			cover_url TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createBooks); err != nil {
		return err
	}

	createIndexBooksOwner := `
		CREATE INDEX IF NOT EXISTS idx_` + tables.Books + `_owner
		ON ` + tables.Books + ` (owner_id)
	`
	if _, err := pool.Exec(ctx, createIndexBooksOwner); err != nil {
		return err
	}

	createSummaries := `
		CREATE TABLE IF NOT EXISTS ` + tables.ChapterSummaries + ` (
			book_id UUID NOT NULL REFERENCES ` + tables.Books + `(id) ON DELETE CASCADE,
			chapter_number INTEGER NOT NULL,
			summary TEXT NOT NULL,
			owner_id UUID NOT NULL,
			content_hash TEXT,
			PRIMARY KEY (book_id, chapter_number)
		)
	`
	if _, err := pool.Exec(ctx, createSummaries); err != nil {
		return err
	}

	createUsageEvents := `
		CREATE TABLE IF NOT EXISTS ` + tables.UsageEvents + ` (
			id UUID PRIMARY KEY,
			owner_id UUID NOT NULL,
			feature TEXT NOT NULL,
			words INTEGER NOT NULL DEFAULT 0,
			tokens INTEGER NOT NULL DEFAULT 0,
			billable BOOLEAN NOT NULL DEFAULT FALSE,
			reason TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createUsageEvents); err != nil {
		return err
	}

	createIndexUsageOwner := `
		CREATE INDEX IF NOT EXISTS idx_` + tables.UsageEvents + `_owner_created
		ON ` + tables.UsageEvents + ` (owner_id, created_at DESC)
	`
	if _, err := pool.Exec(ctx, createIndexUsageOwner); err != nil {
		return err
	}

	createBackupAudit := `
		CREATE TABLE IF NOT EXISTS ` + tables.BackupAudit + ` (
			id UUID PRIMARY KEY,
			owner_id UUID NOT NULL,
			total_books INTEGER NOT NULL DEFAULT 0,
			total_chapters INTEGER NOT NULL DEFAULT 0,
			total_words INTEGER NOT NULL DEFAULT 0,
			backup_size_mb DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createBackupAudit); err != nil {
		return err
	}

	return nil
}
