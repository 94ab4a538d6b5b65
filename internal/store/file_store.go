package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/msageha/mcuwatch/internal/fault"
	"github.com/msageha/mcuwatch/internal/model"
	yamlutil "github.com/msageha/mcuwatch/internal/yaml"
)

const (
	BaselinesFile = "baselines.yaml"
	NotifyFile    = "notify.yaml"
)

type baselineFile struct {
	yamlutil.SchemaHeader `yaml:",inline"`
	Conferences           model.BaselineSet `yaml:"conferences"`
	UpdatedAt             string            `yaml:"updated_at,omitempty"`
}

type notifyFile struct {
	yamlutil.SchemaHeader `yaml:",inline"`
	LastNotifiedAt        string `yaml:"last_notified_at,omitempty"`
}

// FileStore keeps state as YAML under stateDir:
//
//	baselines.yaml  conference → participant → {audio, video}
//	notify.yaml     last_notified_at
//
// The baseline file is read once when the store is opened and rewritten
// atomically on every save.
type FileStore struct {
	stateDir string
	log      *slog.Logger
	doc      baselineFile
}

func OpenFileStore(stateDir string, log *slog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fault.Data("open state dir", err)
	}

	s := &FileStore{
		stateDir: stateDir,
		log:      log,
		doc: baselineFile{
			SchemaHeader: yamlutil.NewHeader(yamlutil.FileTypeBaselines),
			Conferences:  model.BaselineSet{},
		},
	}

	path := s.baselinesPath()
	var doc baselineFile
	found, err := yamlutil.ReadState(path, yamlutil.FileTypeBaselines, &doc)
	if err != nil {
		if found {
			s.quarantine(path, yamlutil.FileTypeBaselines)
		}
		return nil, fault.Data("load baselines", err)
	}
	if found {
		if doc.Conferences == nil {
			doc.Conferences = model.BaselineSet{}
		}
		s.doc = doc
	}
	return s, nil
}

func (s *FileStore) LoadBaseline(conference, participant string) (model.PacketBaseline, bool, error) {
	b, ok := s.doc.Conferences.Get(conference, participant)
	return b, ok, nil
}

func (s *FileStore) SaveBaseline(conference, participant string, b model.PacketBaseline) error {
	s.doc.Conferences.Set(conference, participant, b)
	s.doc.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	if err := yamlutil.WriteState(s.baselinesPath(), yamlutil.FileTypeBaselines, s.doc); err != nil {
		return fault.Data("save baseline", err)
	}
	return nil
}

func (s *FileStore) Snapshot() (model.BaselineSet, error) {
	out := model.BaselineSet{}
	for conf, participants := range s.doc.Conferences {
		for name, b := range participants {
			out.Set(conf, name, b)
		}
	}
	return out, nil
}

func (s *FileStore) LastNotified() (time.Time, bool, error) {
	path := filepath.Join(s.stateDir, NotifyFile)
	var doc notifyFile
	found, err := yamlutil.ReadState(path, yamlutil.FileTypeNotify, &doc)
	if err != nil {
		if found {
			s.quarantine(path, yamlutil.FileTypeNotify)
		}
		return time.Time{}, false, fault.Data("load notify state", err)
	}
	if !found || doc.LastNotifiedAt == "" {
		return time.Time{}, false, nil
	}
	at, err := time.Parse(time.RFC3339Nano, doc.LastNotifiedAt)
	if err != nil {
		return time.Time{}, false, fault.Data("load notify state", fmt.Errorf("parse last_notified_at: %w", err))
	}
	return at, true, nil
}

func (s *FileStore) MarkNotified(at time.Time) error {
	doc := notifyFile{
		SchemaHeader:   yamlutil.NewHeader(yamlutil.FileTypeNotify),
		LastNotifiedAt: at.UTC().Format(time.RFC3339Nano),
	}
	if err := yamlutil.WriteState(filepath.Join(s.stateDir, NotifyFile), yamlutil.FileTypeNotify, doc); err != nil {
		return fault.Data("save notify state", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) baselinesPath() string {
	return filepath.Join(s.stateDir, BaselinesFile)
}

func (s *FileStore) quarantine(path, fileType string) {
	rec, err := yamlutil.Recover(s.stateDir, path, fileType, time.Now())
	if err != nil {
		s.log.Error("quarantine corrupt state file failed", "file", path, "error", err)
		return
	}
	if rec.Restored {
		s.log.Warn("quarantined corrupt state file, backup restored", "file", path, "moved_to", rec.QuarantinedTo)
		return
	}
	s.log.Warn("quarantined corrupt state file", "file", path, "moved_to", rec.QuarantinedTo, "backup", rec.BackupErr)
}
