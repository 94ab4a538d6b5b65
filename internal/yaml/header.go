// Package yaml reads and writes the watchdog's YAML state files. Every state
// file opens with a schema header naming its file type, and nothing without
// the expected header is written, loaded, or restored from backup.
package yaml

import (
	"fmt"

	"github.com/samber/lo"
	yamlv3 "gopkg.in/yaml.v3"
)

const CurrentSchemaVersion = 1

const (
	FileTypeBaselines = "state_baselines"
	FileTypeNotify    = "state_notify"
)

var knownFileTypes = []string{FileTypeBaselines, FileTypeNotify}

// SchemaHeader is inlined at the top of every state document.
type SchemaHeader struct {
	SchemaVersion int    `yaml:"schema_version"`
	FileType      string `yaml:"file_type"`
}

// NewHeader stamps a document of the given file type at the current version.
func NewHeader(fileType string) SchemaHeader {
	return SchemaHeader{SchemaVersion: CurrentSchemaVersion, FileType: fileType}
}

// ValidateSchemaHeaderFromBytes decodes only the header of content and checks
// it against fileType.
func ValidateSchemaHeaderFromBytes(content []byte, fileType string) error {
	var h SchemaHeader
	if err := yamlv3.Unmarshal(content, &h); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	return h.Check(fileType)
}

func (h SchemaHeader) Check(fileType string) error {
	switch {
	case h.SchemaVersion < 1:
		return fmt.Errorf("invalid schema_version %d", h.SchemaVersion)
	case h.SchemaVersion > CurrentSchemaVersion:
		return fmt.Errorf("schema_version %d is newer than supported %d", h.SchemaVersion, CurrentSchemaVersion)
	case h.FileType == "":
		return fmt.Errorf("missing file_type")
	case !lo.Contains(knownFileTypes, h.FileType):
		return fmt.Errorf("unknown file_type %q", h.FileType)
	case h.FileType != fileType:
		return fmt.Errorf("file_type is %q, want %q", h.FileType, fileType)
	}
	return nil
}
