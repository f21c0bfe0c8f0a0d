package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// SchedulerState is the small persisted record the scheduler keeps per owner.
type SchedulerState struct {
	OwnerID      string    `json:"owner_id"`
	LastBackupAt time.Time `json:"last_backup_at"`
	Enabled      bool      `json:"enabled"`
}

// StateStore persists scheduler state. Implementations decide the medium;
// scheduling logic never touches storage directly.
type StateStore interface {
	// Load returns the state for an owner, or a zero-value state (never an
	// error) when none has been recorded yet.
	Load(ownerID string) (*SchedulerState, error)

	// Save persists the state record.
	Save(state *SchedulerState) error
}

// FileStateStore keeps one JSON state file per owner in a directory, the
// server-side analog of the client's local storage.
type FileStateStore struct {
	dir string
}

// NewFileStateStore creates a file-backed state store rooted at dir.
func NewFileStateStore(dir string) (*FileStateStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	return &FileStateStore{dir: dir}, nil
}

func (s *FileStateStore) path(ownerID string) string {
	return filepath.Join(s.dir, fmt.Sprintf("backup-state-%s.json", ownerID))
}

// Load returns the recorded state for an owner, or a fresh zero-value state
// if nothing has been recorded yet.
func (s *FileStateStore) Load(ownerID string) (*SchedulerState, error) {
	data, err := os.ReadFile(s.path(ownerID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &SchedulerState{OwnerID: ownerID}, nil
		}
		return nil, fmt.Errorf("read scheduler state: %w", err)
	}

	var state SchedulerState
	if err := json.Unmarshal(data, &state); err != nil {
		// A corrupt state file only costs one early backup; start over.
		return &SchedulerState{OwnerID: ownerID}, nil
	}

	return &state, nil
}

// Save persists the state record.
func (s *FileStateStore) Save(state *SchedulerState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal scheduler state: %w", err)
	}

	if err := os.WriteFile(s.path(state.OwnerID), data, 0o644); err != nil {
		return fmt.Errorf("write scheduler state: %w", err)
	}

	return nil
}
