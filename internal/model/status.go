package model

import "strings"

type CallState string

const (
	CallStateConnected    CallState = "connected"
	CallStateDormant      CallState = "dormant"
	CallStateDisconnected CallState = "disconnected"
	CallStateOther        CallState = "other"
)

// ParseCallState maps the bridge's callState string onto the states the
// watchdog distinguishes. Anything unrecognised collapses to CallStateOther.
func ParseCallState(s string) CallState {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "connected":
		return CallStateConnected
	case "dormant":
		return CallStateDormant
	case "disconnected":
		return CallStateDisconnected
	default:
		return CallStateOther
	}
}

// ConferenceStatus is a point-in-time view of one conference. Never persisted.
type ConferenceStatus struct {
	Active bool `json:"active" yaml:"active"`
	Locked bool `json:"locked" yaml:"locked"`
}

// ParticipantStatus is a point-in-time view of one participant leg.
//
// Known is false when the bridge has no record of the participant at all;
// that is a normal "not connected" situation, not an error. The packet
// counters are nil when the bridge did not report them.
type ParticipantStatus struct {
	CallState            CallState `json:"call_state" yaml:"call_state"`
	RawCallState         string    `json:"raw_call_state,omitempty" yaml:"raw_call_state,omitempty"`
	Known                bool      `json:"known" yaml:"known"`
	AudioPacketsReceived *uint64   `json:"audio_packets_received,omitempty" yaml:"audio_packets_received,omitempty"`
	VideoPacketsReceived *uint64   `json:"video_packets_received,omitempty" yaml:"video_packets_received,omitempty"`
}

// HasCounters reports whether both packet counters were reported.
func (s ParticipantStatus) HasCounters() bool {
	return s.AudioPacketsReceived != nil && s.VideoPacketsReceived != nil
}

// Baseline converts the reported counters into a baseline. ok is false when
// either counter is missing.
func (s ParticipantStatus) Baseline() (PacketBaseline, bool) {
	if !s.HasCounters() {
		return PacketBaseline{}, false
	}
	return PacketBaseline{Audio: *s.AudioPacketsReceived, Video: *s.VideoPacketsReceived}, true
}
