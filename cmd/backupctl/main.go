package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"bookforge/internal/config"
	"bookforge/internal/domain"
	"bookforge/internal/repository/postgres"
	"bookforge/internal/service/backup"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// engine bundles the database-backed backup service with its pool so
// commands can defer a single Close.
type engine struct {
	pool   *pgxpool.Pool
	backup *backup.Service
	cfg    *config.Config
	logger *slog.Logger
}

func newEngine(ctx context.Context) (*engine, error) {
	_ = godotenv.Load()
	cfg := config.Load()

	logLevel := slog.LevelWarn
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}

	svc := backup.NewService(
		postgres.NewProfileRepository(repoConfig),
		postgres.NewBookRepository(repoConfig),
		postgres.NewChapterSummaryRepository(repoConfig),
		postgres.NewUsageEventRepository(repoConfig),
		postgres.NewBackupAuditRepository(repoConfig),
		postgres.NewTransactionManager(pool),
		nil,
		logger,
	)

	return &engine{pool: pool, backup: svc, cfg: cfg, logger: logger}, nil
}

func (e *engine) Close() {
	e.pool.Close()
}

var rootCmd = &cobra.Command{
	Use:   "backupctl",
	Short: "Account backup and restore tool",
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Build a snapshot and write it to a file",
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, _ := cmd.Flags().GetString("owner")
		outDir, _ := cmd.Flags().GetString("out")

		ctx := cmd.Context()
		e, err := newEngine(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		snapshot, err := e.backup.Build(ctx, owner)
		if err != nil {
			return fmt.Errorf("building snapshot: %w", err)
		}

		if outDir == "" {
			outDir = e.cfg.BackupDir
		}
		exporter, err := backup.NewExporter(outDir)
		if err != nil {
			return err
		}

		path, err := exporter.Write(snapshot, backup.ManualFileName(snapshot.CreatedAt))
		if err != nil {
			return fmt.Errorf("writing snapshot: %w", err)
		}

		fmt.Printf("Wrote %s\n", path)
		fmt.Printf("Books:    %d\n", snapshot.Metadata.TotalBooks)
		fmt.Printf("Chapters: %d\n", snapshot.Metadata.TotalChapters)
		fmt.Printf("Words:    %d\n", snapshot.Metadata.TotalWords)
		fmt.Printf("Size:     %.2f MB\n", snapshot.Metadata.BackupSizeMB)
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore FILE",
	Short: "Restore a snapshot file into an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, _ := cmd.Flags().GetString("owner")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading snapshot file: %w", err)
		}

		snapshot, err := backup.DecodeSnapshot(data)
		if err != nil {
			return err
		}

		if dryRun {
			fmt.Printf("Snapshot of owner %s, created %s (schema %s)\n",
				snapshot.OwnerID,
				snapshot.CreatedAt.Format(time.RFC3339),
				snapshot.SchemaVersion,
			)
			fmt.Printf("Books:            %d\n", len(snapshot.Books))
			fmt.Printf("Chapter summaries: %d\n", len(snapshot.ChapterSummaries))
			fmt.Printf("Usage events:      %d (informational, never restored)\n", len(snapshot.UsageEvents))
			return nil
		}

		if owner == "" {
			owner = snapshot.OwnerID
		}

		ctx := cmd.Context()
		e, err := newEngine(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		report, err := e.backup.Restore(ctx, snapshot, owner)
		if err != nil {
			var restoreErr *domain.RestoreFailedError
			if !errors.As(err, &restoreErr) {
				return err
			}
			fmt.Println("Restore failed completely:")
			for _, msg := range restoreErr.Errors {
				fmt.Printf("  - %s\n", msg)
			}
			os.Exit(1)
		}

		switch {
		case report.Success:
			fmt.Println("Restore succeeded")
		case report.PartialSuccess:
			fmt.Println("Restore partially succeeded:")
			for _, msg := range report.Errors {
				fmt.Printf("  - %s\n", msg)
			}
		}
		fmt.Printf("Profile restored:   %t\n", report.Restored.Profile)
		fmt.Printf("Books restored:     %d\n", report.Restored.Books)
		fmt.Printf("Summaries restored: %d\n", report.Restored.Summaries)
		return nil
	},
}

var autoCmd = &cobra.Command{
	Use:   "auto",
	Short: "Run the automatic backup loop for one account",
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, _ := cmd.Flags().GetString("owner")
		interval, _ := cmd.Flags().GetDuration("interval")

		ctx := cmd.Context()
		e, err := newEngine(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		exporter, err := backup.NewExporter(e.cfg.BackupDir)
		if err != nil {
			return err
		}
		stateStore, err := backup.NewFileStateStore(e.cfg.BackupDir)
		if err != nil {
			return err
		}

		onResult := func(result backup.SchedulerResult) {
			if result.Err != nil {
				fmt.Fprintf(os.Stderr, "automatic backup failed: %v\n", result.Err)
				return
			}
			fmt.Printf("Wrote %s\n", result.Path)
		}

		scheduler := backup.NewScheduler(
			backup.SchedulerConfig{
				Enabled:  true,
				OwnerID:  owner,
				Interval: interval,
			},
			e.backup,
			e.backup,
			exporter,
			stateStore,
			nil,
			onResult,
			e.logger,
		)

		fmt.Printf("Automatic backups for %s every %s, Ctrl-C to stop\n", owner, interval)
		scheduler.Run(ctx)
		return nil
	},
}

func init() {
	backupCmd.Flags().String("owner", "", "Owner id to back up")
	backupCmd.Flags().String("out", "", "Output directory (defaults to BACKUP_DIR)")
	_ = backupCmd.MarkFlagRequired("owner")

	restoreCmd.Flags().String("owner", "", "Acting owner id (defaults to the snapshot's owner)")
	restoreCmd.Flags().Bool("dry-run", false, "Inspect the snapshot without writing anything")

	autoCmd.Flags().String("owner", "", "Owner id to back up")
	autoCmd.Flags().Duration("interval", 24*time.Hour, "Minimum time between backups")
	_ = autoCmd.MarkFlagRequired("owner")

	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(autoCmd)
}
