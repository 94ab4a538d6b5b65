package reconcile

import (
	"time"

	"github.com/samber/lo"

	"github.com/msageha/mcuwatch/internal/model"
)

// Report is the outcome of one run, in the order work was done.
type Report struct {
	RunID       string
	StartedAt   time.Time
	FinishedAt  time.Time
	Conferences []ConferenceReport
}

type ConferenceReport struct {
	Name    string
	Status  model.ConferenceStatus
	Skipped bool
	// Locked is set when this run locked the conference.
	Locked       bool
	Err          error
	Participants []ParticipantReport
}

type ParticipantReport struct {
	Conference string
	Name       string
	Entry      EntryState
	Actions    []Action
	// Baseline is the value persisted this run, nil when nothing was written.
	Baseline *model.PacketBaseline
	Err      error
}

// Participants flattens the per-conference results.
func (r *Report) Participants() []ParticipantReport {
	return lo.FlatMap(r.Conferences, func(c ConferenceReport, _ int) []ParticipantReport {
		return c.Participants
	})
}

// Faults counts every reported fault, conference and participant level.
func (r *Report) Faults() int {
	conf := lo.CountBy(r.Conferences, func(c ConferenceReport) bool { return c.Err != nil })
	part := lo.CountBy(r.Participants(), func(p ParticipantReport) bool { return p.Err != nil })
	return conf + part
}

// Actions counts corrective calls, conference locks included.
func (r *Report) Actions() int {
	locks := lo.CountBy(r.Conferences, func(c ConferenceReport) bool { return c.Locked })
	return locks + lo.SumBy(r.Participants(), func(p ParticipantReport) int { return len(p.Actions) })
}

// Remedied lists participants that received at least one corrective call.
func (r *Report) Remedied() []ParticipantReport {
	return lo.Filter(r.Participants(), func(p ParticipantReport, _ int) bool { return len(p.Actions) > 0 })
}
