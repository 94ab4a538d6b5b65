package notify

import (
	"log/slog"

	"github.com/msageha/mcuwatch/internal/events"
)

// JournalWriter is satisfied by *events.FaultJournal.
type JournalWriter interface {
	Append(entry events.FaultEntry) error
}

// Journal records every event in the fault journal. It is never rate
// limited.
type Journal struct {
	w   JournalWriter
	log *slog.Logger
}

func NewJournal(w JournalWriter, log *slog.Logger) *Journal {
	return &Journal{w: w, log: log}
}

func (j *Journal) ReportError(ev Event) {
	err := j.w.Append(events.FaultEntry{
		Timestamp:   ev.Time,
		RunID:       ev.RunID,
		Kind:        ev.Kind.String(),
		Operation:   ev.Operation,
		Conference:  ev.Conference,
		Participant: ev.Participant,
		Message:     ev.Message,
	})
	if err != nil {
		j.log.Warn("fault journal write failed", "error", err, "fault", ev.Message)
	}
}
