package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileNames(t *testing.T) {
	at := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

	if got := ManualFileName(at); got != "backup-2025-06-01.json" {
		t.Errorf("ManualFileName = %q", got)
	}

	want := "auto-backup-1748770200000.json"
	if got := AutoFileName(at); got != want {
		t.Errorf("AutoFileName = %q, want %q", got, want)
	}
}

func TestExporter_WriteAndDecode(t *testing.T) {
	st := newTestStore()
	st.seedOwner("U1")
	snapshot, err := st.service.Build(context.Background(), "U1")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	dir := t.TempDir()
	exporter, err := NewExporter(dir)
	if err != nil {
		t.Fatalf("NewExporter failed: %v", err)
	}

	path, err := exporter.Write(snapshot, ManualFileName(snapshot.CreatedAt))
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("file written outside export dir: %s", path)
	}

	// The written file is a valid snapshot document
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read exported file: %v", err)
	}
	decoded, err := DecodeSnapshot(data)
	if err != nil {
		t.Fatalf("exported file failed to decode: %v", err)
	}
	if decoded.OwnerID != "U1" || len(decoded.Books) != 3 {
		t.Errorf("decoded snapshot lost data: owner=%q books=%d", decoded.OwnerID, len(decoded.Books))
	}
}
