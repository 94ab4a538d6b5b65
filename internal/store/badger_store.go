package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/msageha/mcuwatch/internal/fault"
	"github.com/msageha/mcuwatch/internal/model"
)

const (
	baselinePrefix  = "baseline:"
	lastNotifiedKey = "notify:last_notified_at"
)

// BadgerStore keeps the same state as FileStore inside a Badger database.
// Keys are "baseline:{conference}:{participant}" with both names
// query-escaped; values are JSON so `mcuwatch state` can print them.
type BadgerStore struct {
	db  *badger.DB
	log *slog.Logger
}

func OpenBadgerStore(stateDir string, log *slog.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(filepath.Join(stateDir, "badger")).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fault.Data("open badger", err)
	}
	return NewBadgerStore(db, log), nil
}

// NewBadgerStore wraps an already opened database. Close closes it.
func NewBadgerStore(db *badger.DB, log *slog.Logger) *BadgerStore {
	return &BadgerStore{db: db, log: log}
}

func baselineKey(conference, participant string) []byte {
	return []byte(baselinePrefix + url.QueryEscape(conference) + ":" + url.QueryEscape(participant))
}

func parseBaselineKey(key []byte) (conference, participant string, err error) {
	rest := strings.TrimPrefix(string(key), baselinePrefix)
	escConf, escPart, ok := strings.Cut(rest, ":")
	if !ok {
		return "", "", fmt.Errorf("malformed baseline key %q", key)
	}
	if conference, err = url.QueryUnescape(escConf); err != nil {
		return "", "", fmt.Errorf("malformed baseline key %q: %w", key, err)
	}
	if participant, err = url.QueryUnescape(escPart); err != nil {
		return "", "", fmt.Errorf("malformed baseline key %q: %w", key, err)
	}
	return conference, participant, nil
}

func (s *BadgerStore) LoadBaseline(conference, participant string) (model.PacketBaseline, bool, error) {
	var b model.PacketBaseline
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(baselineKey(conference, participant))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(v []byte) error {
			return json.Unmarshal(v, &b)
		})
	})
	if err != nil {
		return model.PacketBaseline{}, false, fault.Data("load baseline", err)
	}
	return b, found, nil
}

func (s *BadgerStore) SaveBaseline(conference, participant string, b model.PacketBaseline) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fault.Data("save baseline", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(baselineKey(conference, participant), data)
	})
	if err != nil {
		return fault.Data("save baseline", err)
	}
	return nil
}

func (s *BadgerStore) Snapshot() (model.BaselineSet, error) {
	out := model.BaselineSet{}
	prefix := []byte(baselinePrefix)
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			conf, participant, err := parseBaselineKey(item.Key())
			if err != nil {
				return err
			}
			var b model.PacketBaseline
			if err := item.Value(func(v []byte) error {
				return json.Unmarshal(v, &b)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", item.Key(), err)
			}
			out.Set(conf, participant, b)
		}
		return nil
	})
	if err != nil {
		return nil, fault.Data("snapshot baselines", err)
	}
	return out, nil
}

func (s *BadgerStore) LastNotified() (time.Time, bool, error) {
	var raw string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(lastNotifiedKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		v, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		raw = string(v)
		return nil
	})
	if err != nil {
		return time.Time{}, false, fault.Data("load notify state", err)
	}
	if raw == "" {
		return time.Time{}, false, nil
	}
	at, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false, fault.Data("load notify state", err)
	}
	return at, true, nil
}

func (s *BadgerStore) MarkNotified(at time.Time) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(lastNotifiedKey), []byte(at.UTC().Format(time.RFC3339Nano)))
	})
	if err != nil {
		return fault.Data("save notify state", err)
	}
	return nil
}

func (s *BadgerStore) Close() error {
	s.log.Debug("closing badger state store")
	return s.db.Close()
}
