package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"bookforge/internal/config"
	"bookforge/internal/domain"
	"bookforge/internal/httputil"
	"bookforge/internal/service/backup"
)

// BackupHandler handles backup and restore HTTP requests
type BackupHandler struct {
	service *backup.Service
	logger  *slog.Logger
}

// NewBackupHandler creates a new backup handler
func NewBackupHandler(service *backup.Service, logger *slog.Logger) *BackupHandler {
	return &BackupHandler{
		service: service,
		logger:  logger,
	}
}

// CreateBackup builds a snapshot of the caller's account and returns it as a
// downloadable JSON document.
// GET /api/backup
func (h *BackupHandler) CreateBackup(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)

	snapshot, err := h.service.Build(r.Context(), ownerID)
	if err != nil {
		handleError(w, err)
		return
	}

	filename := backup.ManualFileName(time.Now())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	httputil.RespondJSON(w, http.StatusOK, snapshot)
}

// Restore applies an uploaded snapshot to the caller's account.
//
// Responses distinguish the three outcomes the UI must present: full success
// and partial success return the report (the report itemizes what to re-run),
// complete failure returns the error detail with no report. The operation is
// best effort; there is no server-side resumable transaction.
// POST /api/restore
func (h *BackupHandler) Restore(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)

	// Snapshot documents carry whole books; allow a generous body.
	r.Body = http.MaxBytesReader(w, r.Body, 100<<20)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	snapshot, err := backup.DecodeSnapshot(body)
	if err != nil {
		handleError(w, err)
		return
	}

	report, err := h.service.Restore(r.Context(), snapshot, ownerID)
	if err != nil {
		var failed *domain.RestoreFailedError
		if errors.As(err, &failed) {
			httputil.RespondErrorWithExtras(w, http.StatusBadGateway,
				"restore failed completely; nothing was written",
				map[string]interface{}{"errors": failed.Errors},
			)
			return
		}
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, report)
}

// ListAudit returns the metrics-only log of system-initiated backups.
// GET /api/backup/audit
func (h *BackupHandler) ListAudit(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)

	entries, err := h.service.ListAuditEntries(r.Context(), ownerID, config.MaxAuditListLimit)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, entries)
}
