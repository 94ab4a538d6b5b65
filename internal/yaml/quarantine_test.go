package yaml

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var recoverAt = time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)

func TestQuarantine(t *testing.T) {
	stateDir := t.TempDir()
	path := filepath.Join(stateDir, "baselines.yaml")
	require.NoError(t, os.WriteFile(path, []byte("conferences: [\n"), 0644))

	moved, err := Quarantine(stateDir, path, recoverAt)
	require.NoError(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
	assert.Equal(t, filepath.Join(stateDir, "quarantine", "baselines.yaml.20261019T083000.000000000Z.corrupt"), moved)
	_, err = os.Stat(moved)
	assert.NoError(t, err)
}

func TestRecover_RestoresMatchingBackup(t *testing.T) {
	stateDir := t.TempDir()
	path := filepath.Join(stateDir, "baselines.yaml")
	good := "schema_version: 1\nfile_type: state_baselines\nconferences: {}\n"
	require.NoError(t, os.WriteFile(path, []byte("conferences: [\n"), 0644))
	require.NoError(t, os.WriteFile(path+".bak", []byte(good), 0644))

	rec, err := Recover(stateDir, path, FileTypeBaselines, recoverAt)
	require.NoError(t, err)
	assert.True(t, rec.Restored)
	assert.NoError(t, rec.BackupErr)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, good, string(data))
	_, err = os.Stat(path + ".bak")
	assert.NoError(t, err, "backup stays in place after a restore")
}

func TestRecover_BackupWithWrongFileTypeIsNotRestored(t *testing.T) {
	stateDir := t.TempDir()
	path := filepath.Join(stateDir, "baselines.yaml")
	require.NoError(t, os.WriteFile(path, []byte("conferences: [\n"), 0644))
	require.NoError(t, os.WriteFile(path+".bak", []byte("schema_version: 1\nfile_type: state_notify\n"), 0644))

	rec, err := Recover(stateDir, path, FileTypeBaselines, recoverAt)
	require.NoError(t, err)
	assert.False(t, rec.Restored)
	require.Error(t, rec.BackupErr)
	assert.Contains(t, rec.BackupErr.Error(), "file_type")

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "a mismatched backup must not be put back")
}

func TestRecover_WithoutBackup(t *testing.T) {
	stateDir := t.TempDir()
	path := filepath.Join(stateDir, "notify.yaml")
	require.NoError(t, os.WriteFile(path, []byte("last_notified_at: [\n"), 0644))

	rec, err := Recover(stateDir, path, FileTypeNotify, recoverAt)
	require.NoError(t, err)
	assert.False(t, rec.Restored)
	assert.Error(t, rec.BackupErr)
	assert.True(t, strings.HasSuffix(rec.QuarantinedTo, ".corrupt"))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRecover_MissingFile(t *testing.T) {
	stateDir := t.TempDir()
	_, err := Recover(stateDir, filepath.Join(stateDir, "baselines.yaml"), FileTypeBaselines, recoverAt)
	assert.Error(t, err)
}
