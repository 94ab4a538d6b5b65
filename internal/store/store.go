//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=../mocks/mock_store.go -package=mocks

// Package store persists what a reconciliation run needs to remember for the
// next one: per-participant packet baselines and the notification cooldown.
//
// Two backends implement the same interfaces: a human-readable YAML file
// (default) and an embedded Badger database.
package store

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/msageha/mcuwatch/internal/model"
)

const (
	BackendYAML   = "yaml"
	BackendBadger = "badger"
)

// BaselineStore is keyed by (conference, participant). Saving one pair never
// disturbs any other entry, including entries for participants that are no
// longer configured.
type BaselineStore interface {
	LoadBaseline(conference, participant string) (model.PacketBaseline, bool, error)
	SaveBaseline(conference, participant string, b model.PacketBaseline) error
	Snapshot() (model.BaselineSet, error)
}

// CooldownStore remembers when the last operator notification went out.
type CooldownStore interface {
	LastNotified() (time.Time, bool, error)
	MarkNotified(at time.Time) error
}

type Store interface {
	BaselineStore
	CooldownStore
	Close() error
}

// Open returns the backend named by backend rooted at stateDir. Errors are
// data faults: the run cannot proceed without its baselines.
func Open(backend, stateDir string, log *slog.Logger) (Store, error) {
	switch backend {
	case "", BackendYAML:
		return OpenFileStore(stateDir, log)
	case BackendBadger:
		return OpenBadgerStore(stateDir, log)
	default:
		return nil, fmt.Errorf("unknown state backend %q", backend)
	}
}
