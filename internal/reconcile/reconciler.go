// Package reconcile drives one reconciliation run: for every configured
// conference it reads the bridge, decides what each participant needs and
// applies the remedy, one call at a time.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/msageha/mcuwatch/internal/clock"
	"github.com/msageha/mcuwatch/internal/fault"
	"github.com/msageha/mcuwatch/internal/freeze"
	"github.com/msageha/mcuwatch/internal/model"
	"github.com/msageha/mcuwatch/internal/notify"
	"github.com/msageha/mcuwatch/internal/store"
)

// DefaultSettleDelay is the pause after every corrective call.
const DefaultSettleDelay = 5 * time.Second

var ErrConferenceInactive = errors.New("conference is not active")

type Options struct {
	Policy      freeze.Policy
	SettleDelay time.Duration
	RunID       string
}

// Reconciler holds everything a run needs. Build one per run.
type Reconciler struct {
	exec      Executor
	baselines store.BaselineStore
	notifier  notify.Notifier
	clock     clock.Clock
	log       *slog.Logger
	policy    freeze.Policy
	settle    time.Duration
	runID     string
}

func New(
	exec Executor,
	baselines store.BaselineStore,
	notifier notify.Notifier,
	clk clock.Clock,
	log *slog.Logger,
	opts Options,
) *Reconciler {
	policy := opts.Policy
	if policy == "" {
		policy = freeze.DefaultPolicy
	}
	if notifier == nil {
		notifier = notify.Discard
	}
	return &Reconciler{
		exec:      exec,
		baselines: baselines,
		notifier:  notifier,
		clock:     clk,
		log:       log,
		policy:    policy,
		settle:    opts.SettleDelay,
		runID:     opts.RunID,
	}
}

// Run reconciles every conference in order. Bridge faults are reported and
// the run moves on; the returned error is non-nil only when the run had to
// stop (a data or config fault, or ctx ended). The report covers whatever
// was done before that point.
func (r *Reconciler) Run(ctx context.Context, conferences []model.ConferenceConfig) (*Report, error) {
	report := &Report{RunID: r.runID, StartedAt: r.clock.Now()}
	r.log.Info("reconciliation run started", "conferences", len(conferences), "policy", string(r.policy))

	for _, conf := range conferences {
		if err := ctx.Err(); err != nil {
			report.FinishedAt = r.clock.Now()
			return report, err
		}
		cr, err := r.reconcileConference(ctx, conf)
		report.Conferences = append(report.Conferences, cr)
		if err != nil {
			report.FinishedAt = r.clock.Now()
			r.log.Error("reconciliation run aborted", "conference", conf.Name, "error", err)
			return report, err
		}
	}

	report.FinishedAt = r.clock.Now()
	r.log.Info("reconciliation run finished",
		"participants", len(report.Participants()),
		"actions", report.Actions(),
		"faults", report.Faults(),
		"duration", report.FinishedAt.Sub(report.StartedAt).String())
	return report, nil
}

// reconcileConference stops between participants once ctx ends. Bridge
// calls run on a context detached from cancellation so a remedy that has
// started always finishes.
func (r *Reconciler) reconcileConference(ctx context.Context, conf model.ConferenceConfig) (ConferenceReport, error) {
	cr := ConferenceReport{Name: conf.Name}
	callCtx := context.WithoutCancel(ctx)

	status, err := r.exec.ConferenceStatus(callCtx, conf.Name)
	if err != nil {
		cr.Skipped, cr.Err = true, err
		r.reportFault(err, conf.Name, "")
		return cr, nil
	}
	cr.Status = status

	if !status.Active {
		err := fault.Application("conference.status", fmt.Errorf("conference %s: %w", conf.Name, ErrConferenceInactive))
		cr.Skipped, cr.Err = true, err
		r.reportFault(err, conf.Name, "")
		return cr, nil
	}

	if conf.Locked && !status.Locked {
		if err := r.exec.LockConference(callCtx, conf.Name); err != nil {
			cr.Err = err
			r.reportFault(err, conf.Name, "")
		} else {
			cr.Locked = true
			r.log.Info("conference locked", "conference", conf.Name)
		}
	}

	for _, p := range conf.Participants {
		if err := ctx.Err(); err != nil {
			return cr, err
		}
		pr, err := r.reconcileParticipant(callCtx, conf.Name, p)
		cr.Participants = append(cr.Participants, pr)
		if err != nil {
			return cr, err
		}
	}
	return cr, nil
}

// reconcileParticipant returns an error only for faults that end the run.
func (r *Reconciler) reconcileParticipant(ctx context.Context, conference string, p model.ParticipantConfig) (ParticipantReport, error) {
	pr := ParticipantReport{Conference: conference, Name: p.Name}

	status, err := r.exec.ParticipantStatus(ctx, conference, p.Name)
	if err != nil {
		pr.Entry, pr.Err = StatusUnavailable, err
		r.reportFault(err, conference, p.Name)
		return pr, nil
	}

	previous, hasPrevious, err := r.baselines.LoadBaseline(conference, p.Name)
	if err != nil {
		return pr, asDataFault("load baseline", err)
	}

	pr.Entry = Classify(r.policy, status, previous, hasPrevious)
	logger := r.log.With("conference", conference, "participant", p.Name)
	logger.Debug("participant classified",
		"entry", pr.Entry.String(),
		"call_state", status.RawCallState,
		"has_baseline", hasPrevious)

	steps := plan[pr.Entry]
	if len(steps) == 0 {
		current, ok := status.Baseline()
		if !ok {
			return pr, nil
		}
		return pr, r.saveBaseline(&pr, current)
	}

	logger.Info("remedying participant", "entry", pr.Entry.String(), "call_state", status.RawCallState)
	for _, step := range steps {
		done, err := r.apply(ctx, conference, p, step, status.Known)
		if err != nil {
			pr.Err = err
			r.reportFault(err, conference, p.Name)
			return pr, nil
		}
		pr.Actions = append(pr.Actions, done)
		r.clock.Sleep(r.settle)
	}

	after, err := r.exec.ParticipantStatus(ctx, conference, p.Name)
	if err != nil {
		pr.Err = err
		r.reportFault(err, conference, p.Name)
		return pr, nil
	}
	current, ok := after.Baseline()
	if !ok {
		logger.Warn("no packet counters after remedy, baseline not written", "call_state", after.RawCallState)
		return pr, nil
	}
	logger.Info("participant remedied", "actions", len(pr.Actions), "audio", current.Audio, "video", current.Video)
	return pr, r.saveBaseline(&pr, current)
}

// apply performs one remedy step and returns the action actually taken.
func (r *Reconciler) apply(ctx context.Context, conference string, p model.ParticipantConfig, step Action, known bool) (Action, error) {
	switch step {
	case ActionDisconnect:
		return step, r.exec.DisconnectParticipant(ctx, conference, p.Name)
	case ActionConnect:
		if !known {
			return ActionAdd, r.exec.AddParticipant(ctx, conference, p)
		}
		return step, r.exec.ConnectParticipant(ctx, conference, p.Name)
	case ActionRestoreLayout:
		return step, r.exec.RestoreLayout(ctx, conference, p.Name, p.LayoutIndex)
	default:
		return step, fmt.Errorf("unsupported remedy step %q", step)
	}
}

func (r *Reconciler) saveBaseline(pr *ParticipantReport, b model.PacketBaseline) error {
	if err := r.baselines.SaveBaseline(pr.Conference, pr.Name, b); err != nil {
		return asDataFault("save baseline", err)
	}
	pr.Baseline = &b
	return nil
}

func (r *Reconciler) reportFault(err error, conference, participant string) {
	r.log.Error("fault",
		"kind", fault.KindOf(err).String(),
		"conference", conference,
		"participant", participant,
		"error", err)
	ev := notify.NewEvent(r.clock.Now(), err, conference, participant)
	ev.RunID = r.runID
	r.notifier.ReportError(ev)
}

func asDataFault(op string, err error) error {
	if fault.KindOf(err) != fault.KindUnknown {
		return err
	}
	return fault.Data(op, err)
}
