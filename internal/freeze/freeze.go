// Package freeze decides whether a connected participant's media is still
// flowing by comparing its packet counters with the previous run's baseline.
package freeze

import (
	"fmt"

	"github.com/msageha/mcuwatch/internal/model"
)

type Verdict int

const (
	Healthy Verdict = iota
	Frozen
	// Indeterminate: the bridge reported the leg connected but omitted at
	// least one counter. Callers treat it as a broken media path.
	Indeterminate
)

func (v Verdict) String() string {
	switch v {
	case Healthy:
		return "healthy"
	case Frozen:
		return "frozen"
	case Indeterminate:
		return "indeterminate"
	default:
		return fmt.Sprintf("verdict(%d)", int(v))
	}
}

// Policy selects how many streams must stall before a leg counts as frozen.
type Policy string

const (
	// PolicyBothStall flags a leg only when neither audio nor video advanced.
	PolicyBothStall Policy = "both_stall"
	// PolicyAnyStall flags a leg as soon as one stream stops advancing.
	PolicyAnyStall Policy = "any_stall"

	DefaultPolicy = PolicyBothStall
)

// ParsePolicy accepts the configuration spelling of a policy. Empty means default.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "":
		return DefaultPolicy, nil
	case PolicyBothStall, PolicyAnyStall:
		return Policy(s), nil
	default:
		return "", fmt.Errorf("unknown freeze policy %q (want %q or %q)", s, PolicyBothStall, PolicyAnyStall)
	}
}

// Counters are the packet counters read from the bridge this run. A nil
// field was not reported.
type Counters struct {
	Audio *uint64
	Video *uint64
}

// CountersOf extracts the counters from a participant snapshot.
func CountersOf(s model.ParticipantStatus) Counters {
	return Counters{Audio: s.AudioPacketsReceived, Video: s.VideoPacketsReceived}
}

// Classify compares current counters against the previous baseline.
// Counters that wrapped around since the last run look like a stall and are
// reported as Frozen.
func Classify(policy Policy, previous model.PacketBaseline, current Counters) Verdict {
	if current.Audio == nil || current.Video == nil {
		return Indeterminate
	}

	audioStalled := *current.Audio <= previous.Audio
	videoStalled := *current.Video <= previous.Video

	var frozen bool
	switch policy {
	case PolicyAnyStall:
		frozen = audioStalled || videoStalled
	default:
		frozen = audioStalled && videoStalled
	}

	if frozen {
		return Frozen
	}
	return Healthy
}
