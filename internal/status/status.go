// Package status reports what the bridge looks like right now and what the
// next run would do about it, without acting or writing any state.
package status

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/msageha/mcuwatch/internal/freeze"
	"github.com/msageha/mcuwatch/internal/model"
	"github.com/msageha/mcuwatch/internal/reconcile"
)

// DefaultConcurrency bounds simultaneous status reads against the bridge.
const DefaultConcurrency = 4

// Reader is the read-only part of reconcile.Executor.
type Reader interface {
	ConferenceStatus(ctx context.Context, conference string) (model.ConferenceStatus, error)
	ParticipantStatus(ctx context.Context, conference, participant string) (model.ParticipantStatus, error)
}

type Snapshot struct {
	Policy      string               `json:"policy"`
	Conferences []ConferenceSnapshot `json:"conferences"`
}

type ConferenceSnapshot struct {
	Name         string                `json:"name"`
	Active       bool                  `json:"active"`
	Locked       bool                  `json:"locked"`
	WantLocked   bool                  `json:"want_locked"`
	Error        string                `json:"error,omitempty"`
	Participants []ParticipantSnapshot `json:"participants,omitempty"`
}

type ParticipantSnapshot struct {
	Name      string                `json:"name"`
	CallState string                `json:"call_state,omitempty"`
	Known     bool                  `json:"known"`
	Audio     *uint64               `json:"audio,omitempty"`
	Video     *uint64               `json:"video,omitempty"`
	Baseline  *model.PacketBaseline `json:"baseline,omitempty"`
	Entry     string                `json:"entry"`
	Error     string                `json:"error,omitempty"`
}

// Collect reads every configured conference and participant concurrently.
// Read failures are recorded in the snapshot; the error is non-nil only
// when ctx ends first.
func Collect(
	ctx context.Context,
	reader Reader,
	baselines model.BaselineSet,
	policy freeze.Policy,
	conferences []model.ConferenceConfig,
	concurrency int,
) (Snapshot, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	snap := Snapshot{Policy: string(policy), Conferences: make([]ConferenceSnapshot, len(conferences))}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, conf := range conferences {
		cs := &snap.Conferences[i]
		cs.Name, cs.WantLocked = conf.Name, conf.Locked
		cs.Participants = make([]ParticipantSnapshot, len(conf.Participants))

		g.Go(func() error {
			st, err := reader.ConferenceStatus(gctx, conf.Name)
			if err != nil {
				cs.Error = err.Error()
				return nil
			}
			cs.Active, cs.Locked = st.Active, st.Locked
			return nil
		})
		for j, p := range conf.Participants {
			ps := &cs.Participants[j]
			ps.Name = p.Name
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				st, err := reader.ParticipantStatus(gctx, conf.Name, p.Name)
				if err != nil {
					ps.Entry = reconcile.StatusUnavailable.String()
					ps.Error = err.Error()
					return nil
				}
				previous, hasPrevious := baselines.Get(conf.Name, p.Name)
				ps.CallState = lo.Ternary(st.RawCallState != "", st.RawCallState, string(st.CallState))
				ps.Known = st.Known
				ps.Audio, ps.Video = st.AudioPacketsReceived, st.VideoPacketsReceived
				if hasPrevious {
					ps.Baseline = &previous
				}
				ps.Entry = reconcile.Classify(policy, st, previous, hasPrevious).String()
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return snap, err
	}
	return snap, nil
}

// Write prints snap as indented JSON or as a plain table.
func Write(w io.Writer, snap Snapshot, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}
	printSnapshot(w, snap)
	return nil
}

func printSnapshot(w io.Writer, s Snapshot) {
	fmt.Fprintf(w, "Freeze policy: %s\n", s.Policy)
	for _, c := range s.Conferences {
		fmt.Fprintf(w, "\nConference %s: ", c.Name)
		switch {
		case c.Error != "":
			fmt.Fprintf(w, "unavailable (%s)\n", c.Error)
		case !c.Active:
			fmt.Fprintln(w, "inactive")
		default:
			lock := lo.Ternary(c.Locked, "locked", "unlocked")
			if c.WantLocked && !c.Locked {
				lock += " (will lock)"
			}
			fmt.Fprintf(w, "active, %s\n", lock)
		}

		if len(c.Participants) == 0 {
			continue
		}
		fmt.Fprintf(w, "  %-20s  %-14s  %12s  %12s  %-20s\n", "PARTICIPANT", "CALL_STATE", "AUDIO", "VIDEO", "NEXT_RUN")
		for _, p := range c.Participants {
			if p.Error != "" {
				fmt.Fprintf(w, "  %-20s  %-14s  %12s  %12s  %-20s  %s\n", p.Name, "-", "-", "-", p.Entry, p.Error)
				continue
			}
			fmt.Fprintf(w, "  %-20s  %-14s  %12s  %12s  %-20s\n",
				p.Name, p.CallState, counter(p.Audio), counter(p.Video), p.Entry)
		}
		healthy := lo.CountBy(c.Participants, func(p ParticipantSnapshot) bool {
			return p.Entry == reconcile.ConnectedHealthy.String()
		})
		fmt.Fprintf(w, "  %d/%d healthy\n", healthy, len(c.Participants))
	}
}

func counter(v *uint64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}
