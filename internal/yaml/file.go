package yaml

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	yamlv3 "gopkg.in/yaml.v3"
)

const backupSuffix = ".bak"

// WriteState marshals doc and replaces path with it. The encoded document
// must carry a header for fileType; anything else is refused before the
// file is touched.
func WriteState(path, fileType string, doc any) error {
	content, err := yamlv3.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := ValidateSchemaHeaderFromBytes(content, fileType); err != nil {
		return fmt.Errorf("refusing to write %s: %w", filepath.Base(path), err)
	}
	return replace(path, content)
}

// WriteDocument replaces path with content after checking it parses as YAML.
// It is used for files without a schema header such as mcuwatch.yaml.
func WriteDocument(path string, content []byte) error {
	var node yamlv3.Node
	if err := yamlv3.Unmarshal(content, &node); err != nil {
		return fmt.Errorf("refusing to write %s: %w", filepath.Base(path), err)
	}
	return replace(path, content)
}

// ReadState decodes the state file at path into doc after checking its
// header against fileType. found is false only when the file does not exist.
func ReadState(path, fileType string, doc any) (found bool, err error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := ValidateSchemaHeaderFromBytes(content, fileType); err != nil {
		return true, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if err := yamlv3.Unmarshal(content, doc); err != nil {
		return true, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return true, nil
}

// replace swaps content in under path via a synced temp file and a rename.
// The file being replaced stays reachable as path + ".bak".
func replace(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}

	if err := keepBackup(path); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into %s: %w", filepath.Base(path), err)
	}
	committed = true
	syncDir(dir)
	return nil
}

// keepBackup hard-links the current file to its .bak name so the rename
// that follows leaves the old contents behind. It falls back to a copy on
// filesystems without hard links.
func keepBackup(path string) error {
	if _, err := os.Lstat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	bak := path + backupSuffix
	if err := os.Remove(bak); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove stale backup: %w", err)
	}
	if err := os.Link(path, bak); err == nil {
		return nil
	}
	old, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read for backup: %w", err)
	}
	if err := os.WriteFile(bak, old, 0644); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	return nil
}

func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
