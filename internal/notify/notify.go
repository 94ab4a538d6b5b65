// Package notify delivers fault reports: always to the fault journal, and to
// operators by email at most once per cooldown window.
package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/msageha/mcuwatch/internal/fault"
)

// Event is one reported fault together with where it happened.
type Event struct {
	Time        time.Time
	RunID       string
	Kind        fault.Kind
	Operation   string
	Conference  string
	Participant string
	Message     string
}

// NewEvent describes err. The operation is taken from the fault when err
// carries one.
func NewEvent(at time.Time, err error, conference, participant string) Event {
	ev := Event{
		Time:        at,
		Kind:        fault.KindOf(err),
		Conference:  conference,
		Participant: participant,
	}
	if err != nil {
		ev.Message = err.Error()
	}
	if fe, ok := fault.As(err); ok {
		ev.Operation = fe.Op
	}
	return ev
}

// Summary renders the event as a single line: time | conference | participant | message.
func (e Event) Summary() string {
	parts := []string{e.Time.Format(time.RFC3339)}
	if e.Conference != "" {
		parts = append(parts, e.Conference)
	}
	if e.Participant != "" {
		parts = append(parts, e.Participant)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, " | ")
}

func (e Event) String() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Summary())
}

// Notifier receives fault reports. Delivery is fire-and-forget: a notifier
// logs its own failures and never fails the caller.
type Notifier interface {
	ReportError(ev Event)
}

// Multi fans an event out to every notifier in order.
type Multi []Notifier

func (m Multi) ReportError(ev Event) {
	for _, n := range m {
		if n != nil {
			n.ReportError(ev)
		}
	}
}

type discard struct{}

func (discard) ReportError(Event) {}

// Discard drops every event.
var Discard Notifier = discard{}
