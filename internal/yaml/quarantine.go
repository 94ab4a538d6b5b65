package yaml

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const quarantineDir = "quarantine"

// Recovery describes what Recover did with a state file that failed to load.
type Recovery struct {
	QuarantinedTo string
	Restored      bool
	// BackupErr explains why the backup was not restored. It is nil when
	// Restored is true.
	BackupErr error
}

// Recover moves the unreadable state file at path into
// <stateDir>/quarantine and puts its backup back only when the backup
// carries a valid header for fileType. Without a usable backup path is left
// absent and the next load starts empty.
func Recover(stateDir, path, fileType string, now time.Time) (Recovery, error) {
	moved, err := Quarantine(stateDir, path, now)
	if err != nil {
		return Recovery{}, err
	}
	rec := Recovery{QuarantinedTo: moved}
	if err := RestoreFromBackup(path, fileType); err != nil {
		rec.BackupErr = err
		return rec, nil
	}
	rec.Restored = true
	return rec, nil
}

// Quarantine renames path to quarantine/<name>.<timestamp>.corrupt.
func Quarantine(stateDir, path string, now time.Time) (string, error) {
	dir := filepath.Join(stateDir, quarantineDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create quarantine dir: %w", err)
	}
	dst := filepath.Join(dir, fmt.Sprintf("%s.%s.corrupt", filepath.Base(path), now.UTC().Format("20060102T150405.000000000Z")))
	if err := os.Rename(path, dst); err != nil {
		return "", fmt.Errorf("quarantine %s: %w", filepath.Base(path), err)
	}
	return dst, nil
}

// RestoreFromBackup reinstates path from path + ".bak". A backup whose
// header does not match fileType is left where it is.
func RestoreFromBackup(path, fileType string) error {
	content, err := os.ReadFile(path + backupSuffix)
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}
	if err := ValidateSchemaHeaderFromBytes(content, fileType); err != nil {
		return fmt.Errorf("backup unusable: %w", err)
	}
	return replace(path, content)
}
