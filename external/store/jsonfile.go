package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	internalstore "github.com/sabawlabs/kudos/internal/store"
)

// FileStore persists the snapshot as a single JSON document plus a full
// backup copy written on every save. The backup exists so a write torn
// by a crash never leaves the only copy corrupt.
type FileStore struct {
	path       string
	backupPath string
}

func NewFileStore(path, backupPath string) internalstore.Store {
	return &FileStore{path: path, backupPath: backupPath}
}

// Load reads the primary document, falling back to the backup copy when
// the primary is corrupt or unreadable. A missing file is a normal first
// run and yields an empty snapshot without error.
func (s *FileStore) Load(_ context.Context) (internalstore.Snapshot, error) {
	snapshot, err := readSnapshotFile(s.path)
	if err == nil {
		return snapshot, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return internalstore.Snapshot{}, nil
	}
	slog.Warn("primary xp document unreadable; trying backup", "error", err, "path", s.path)

	snapshot, backupErr := readSnapshotFile(s.backupPath)
	if backupErr == nil {
		return snapshot, nil
	}
	return internalstore.Snapshot{}, fmt.Errorf("load xp document: %w", err)
}

func (s *FileStore) Save(_ context.Context, snapshot internalstore.Snapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal xp document: %w", err)
	}
	primaryErr := writeFileAtomic(s.path, data)
	backupErr := writeFileAtomic(s.backupPath, data)
	if primaryErr != nil {
		return fmt.Errorf("write xp document: %w", primaryErr)
	}
	if backupErr != nil {
		return fmt.Errorf("write xp backup: %w", backupErr)
	}
	return nil
}

func readSnapshotFile(path string) (internalstore.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snapshot internalstore.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, err
	}
	if snapshot == nil {
		snapshot = internalstore.Snapshot{}
	}
	return snapshot, nil
}

// writeFileAtomic writes via a temp file and rename so readers never see
// a half-written document.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
