package reconcile

import (
	"github.com/msageha/mcuwatch/internal/freeze"
	"github.com/msageha/mcuwatch/internal/model"
)

// EntryState is what the reconciler concluded about a participant before
// acting on it.
type EntryState int

const (
	StatusUnavailable EntryState = iota
	Dormant
	ConnectedHealthy
	ConnectedDegraded
	ConnectedFrozen
	NotConnected
)

func (s EntryState) String() string {
	switch s {
	case StatusUnavailable:
		return "status_unavailable"
	case Dormant:
		return "dormant"
	case ConnectedHealthy:
		return "connected_healthy"
	case ConnectedDegraded:
		return "connected_degraded"
	case ConnectedFrozen:
		return "connected_frozen"
	case NotConnected:
		return "not_connected"
	default:
		return "unknown"
	}
}

// Action is one corrective call made against the bridge.
type Action string

const (
	ActionLock          Action = "lock"
	ActionDisconnect    Action = "disconnect"
	ActionConnect       Action = "connect"
	ActionAdd           Action = "add"
	ActionRestoreLayout Action = "restore_layout"
)

// plan is the remedy for each entry state. The connect step becomes an add
// when the bridge does not know the participant.
var plan = map[EntryState][]Action{
	Dormant:           {ActionDisconnect},
	ConnectedDegraded: {ActionDisconnect, ActionConnect, ActionRestoreLayout},
	ConnectedFrozen:   {ActionDisconnect, ActionConnect, ActionRestoreLayout},
	NotConnected:      {ActionConnect, ActionRestoreLayout},
}

// Classify maps a successful status read and the stored baseline to an entry
// state. A connected participant seen for the first time is healthy.
func Classify(policy freeze.Policy, st model.ParticipantStatus, previous model.PacketBaseline, hasPrevious bool) EntryState {
	switch st.CallState {
	case model.CallStateDormant:
		return Dormant
	case model.CallStateConnected:
	default:
		return NotConnected
	}

	if !st.HasCounters() {
		return ConnectedDegraded
	}
	if !hasPrevious {
		return ConnectedHealthy
	}
	switch freeze.Classify(policy, previous, freeze.CountersOf(st)) {
	case freeze.Healthy:
		return ConnectedHealthy
	case freeze.Frozen:
		return ConnectedFrozen
	default:
		return ConnectedDegraded
	}
}
