package mcu

import (
	"errors"
	"fmt"
)

// StatusOperationSuccessful is what the bridge puts in "status" when an
// action went through.
const StatusOperationSuccessful = "operation successful"

var ErrOperationUnsuccessful = errors.New("operation unsuccessful")

// ConferenceStatusResult is the part of a conference.status reply the
// watchdog relies on.
type ConferenceStatusResult struct {
	Active bool
	Locked bool
}

type ParticipantStatusResult struct {
	CallState     string
	AudioReceived *uint64
	VideoReceived *uint64
}

type ActionResult struct {
	Status string
}

// Replies carry many more fields than these; only the ones listed are
// required and type-checked.

func decodeConferenceStatus(reply map[string]any) (ConferenceStatusResult, error) {
	active, err := requireBool(reply, "conferenceActive")
	if err != nil {
		return ConferenceStatusResult{}, err
	}
	locked, err := requireBool(reply, "locked")
	if err != nil {
		return ConferenceStatusResult{}, err
	}
	return ConferenceStatusResult{Active: active, Locked: locked}, nil
}

func decodeParticipantStatus(reply map[string]any) (ParticipantStatusResult, error) {
	callState, err := requireString(reply, "callState")
	if err != nil {
		return ParticipantStatusResult{}, err
	}
	audio, err := optionalCounter(reply, "audioRxReceived")
	if err != nil {
		return ParticipantStatusResult{}, err
	}
	video, err := optionalCounter(reply, "videoRxReceived")
	if err != nil {
		return ParticipantStatusResult{}, err
	}
	return ParticipantStatusResult{CallState: callState, AudioReceived: audio, VideoReceived: video}, nil
}

func decodeAction(reply map[string]any) (ActionResult, error) {
	status, err := requireString(reply, "status")
	if err != nil {
		return ActionResult{}, err
	}
	return ActionResult{Status: status}, nil
}

func (r ActionResult) Err() error {
	if r.Status == StatusOperationSuccessful {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrOperationUnsuccessful, r.Status)
}

func requireBool(reply map[string]any, field string) (bool, error) {
	v, ok := reply[field]
	if !ok {
		return false, fmt.Errorf("reply missing field %q", field)
	}
	switch b := v.(type) {
	case bool:
		return b, nil
	default:
		return false, fmt.Errorf("field %q: expected boolean, got %T", field, v)
	}
}

func requireString(reply map[string]any, field string) (string, error) {
	v, ok := reply[field]
	if !ok {
		return "", fmt.Errorf("reply missing field %q", field)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("field %q: expected string, got %T", field, v)
	}
	return s, nil
}

func optionalCounter(reply map[string]any, field string) (*uint64, error) {
	v, ok := reply[field]
	if !ok {
		return nil, nil
	}
	var n int64
	switch x := v.(type) {
	case int64:
		n = x
	case int:
		n = int64(x)
	case int32:
		n = int64(x)
	default:
		return nil, fmt.Errorf("field %q: expected integer, got %T", field, v)
	}
	if n < 0 {
		return nil, fmt.Errorf("field %q: negative counter %d", field, n)
	}
	u := uint64(n)
	return &u, nil
}
