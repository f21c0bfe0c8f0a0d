package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"bookforge/internal/domain/models"
)

// ManualFileName is the download name for a user-initiated backup.
func ManualFileName(t time.Time) string {
	return fmt.Sprintf("backup-%s.json", t.Format("2006-01-02"))
}

// AutoFileName is the download name for a scheduled backup.
func AutoFileName(t time.Time) string {
	return fmt.Sprintf("auto-backup-%d.json", t.UnixMilli())
}

// Exporter serializes snapshots to files in a target directory.
type Exporter struct {
	dir string
}

// NewExporter creates an exporter writing into dir, creating it if needed.
func NewExporter(dir string) (*Exporter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	return &Exporter{dir: dir}, nil
}

// Write serializes the snapshot as pretty-printed UTF-8 JSON under the given
// file name and returns the full path.
func (e *Exporter) Write(snapshot *models.Snapshot, filename string) (string, error) {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize snapshot: %w", err)
	}

	path := filepath.Join(e.dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write snapshot file: %w", err)
	}

	return path, nil
}
