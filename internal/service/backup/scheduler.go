package backup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bookforge/internal/domain/models"
	"bookforge/internal/domain/services"
)

// DefaultCheckInterval is how often a running scheduler wakes up to decide
// whether a backup is due.
const DefaultCheckInterval = 15 * time.Minute

// SchedulerConfig configures the automatic backup policy for one owner.
type SchedulerConfig struct {
	Enabled  bool
	OwnerID  string
	Interval time.Duration // minimum time between backups

	// CheckEvery is the wake-up cadence of Run. Zero means
	// DefaultCheckInterval.
	CheckEvery time.Duration
}

// SchedulerResult is reported to the caller's callback after each attempted
// backup.
type SchedulerResult struct {
	OwnerID string
	Path    string // file written, empty on failure
	Err     error  // nil on success
}

// ResultFunc receives the outcome of each attempted automatic backup.
type ResultFunc func(SchedulerResult)

// Scheduler periodically decides whether enough time has elapsed since the
// owner's last automatic backup and, if so, builds and exports a snapshot.
//
// It is advisory and best-effort: it only runs while its process is alive
// and carries no server-side execution guarantee. Surfacing that limitation
// to the end user is the caller's job.
type Scheduler struct {
	cfg      SchedulerConfig
	builder  services.BackupService
	audit    AuditRecorder
	exporter *Exporter
	state    StateStore
	clock    Clock
	onResult ResultFunc
	logger   *slog.Logger
}

// AuditRecorder records metrics of system-initiated snapshots. The backup
// Service satisfies it; tests substitute fakes.
type AuditRecorder interface {
	RecordAudit(ctx context.Context, snapshot *models.Snapshot) error
}

// NewScheduler creates a scheduler. onResult may be nil.
func NewScheduler(
	cfg SchedulerConfig,
	builder services.BackupService,
	audit AuditRecorder,
	exporter *Exporter,
	state StateStore,
	clock Clock,
	onResult ResultFunc,
	logger *slog.Logger,
) *Scheduler {
	if clock == nil {
		clock = RealClock{}
	}
	if cfg.CheckEvery == 0 {
		cfg.CheckEvery = DefaultCheckInterval
	}
	return &Scheduler{
		cfg:      cfg,
		builder:  builder,
		audit:    audit,
		exporter: exporter,
		state:    state,
		clock:    clock,
		onResult: onResult,
		logger:   logger,
	}
}

// Check runs one scheduling decision. It returns true only when a backup was
// actually performed.
//
// Disabled or owner-less schedulers do nothing. When the recorded last
// backup is more recent than the configured interval the check skips. A
// failed build or export reports the error through the callback and leaves
// the last-backup timestamp untouched, so the next check retries.
func (s *Scheduler) Check(ctx context.Context) (bool, error) {
	if !s.cfg.Enabled || s.cfg.OwnerID == "" {
		return false, nil
	}

	state, err := s.state.Load(s.cfg.OwnerID)
	if err != nil {
		return false, fmt.Errorf("load scheduler state: %w", err)
	}

	now := s.clock.Now()
	if !state.LastBackupAt.IsZero() && now.Sub(state.LastBackupAt) < s.cfg.Interval {
		s.logger.Debug("automatic backup not due",
			"owner_id", s.cfg.OwnerID,
			"last_backup_at", state.LastBackupAt,
			"interval", s.cfg.Interval,
		)
		return false, nil
	}

	snapshot, err := s.builder.Build(ctx, s.cfg.OwnerID)
	if err != nil {
		s.report(SchedulerResult{OwnerID: s.cfg.OwnerID, Err: err})
		return false, fmt.Errorf("automatic backup build: %w", err)
	}

	path, err := s.exporter.Write(snapshot, AutoFileName(now))
	if err != nil {
		s.report(SchedulerResult{OwnerID: s.cfg.OwnerID, Err: err})
		return false, fmt.Errorf("automatic backup export: %w", err)
	}

	// Audit failure is not worth losing the backup over.
	if s.audit != nil {
		if err := s.audit.RecordAudit(ctx, snapshot); err != nil {
			s.logger.Warn("backup audit record failed", "owner_id", s.cfg.OwnerID, "error", err)
		}
	}

	state.OwnerID = s.cfg.OwnerID
	state.Enabled = true
	state.LastBackupAt = now
	if err := s.state.Save(state); err != nil {
		return true, fmt.Errorf("save scheduler state: %w", err)
	}

	s.logger.Info("automatic backup written", "owner_id", s.cfg.OwnerID, "path", path)
	s.report(SchedulerResult{OwnerID: s.cfg.OwnerID, Path: path})

	return true, nil
}

// Run checks once immediately, then on every tick until the context is
// cancelled or the scheduler is disabled.
func (s *Scheduler) Run(ctx context.Context) {
	if !s.cfg.Enabled || s.cfg.OwnerID == "" {
		return
	}

	if _, err := s.Check(ctx); err != nil {
		s.logger.Warn("scheduled backup check failed", "error", err)
	}

	ticker := time.NewTicker(s.cfg.CheckEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Check(ctx); err != nil {
				s.logger.Warn("scheduled backup check failed", "error", err)
			}
		}
	}
}

func (s *Scheduler) report(result SchedulerResult) {
	if s.onResult != nil {
		s.onResult(result)
	}
}
