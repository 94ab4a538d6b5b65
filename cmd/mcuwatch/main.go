package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/msageha/mcuwatch/internal/clock"
	"github.com/msageha/mcuwatch/internal/config"
	"github.com/msageha/mcuwatch/internal/events"
	"github.com/msageha/mcuwatch/internal/fault"
	"github.com/msageha/mcuwatch/internal/freeze"
	"github.com/msageha/mcuwatch/internal/lock"
	"github.com/msageha/mcuwatch/internal/logging"
	"github.com/msageha/mcuwatch/internal/mcu"
	"github.com/msageha/mcuwatch/internal/model"
	"github.com/msageha/mcuwatch/internal/notify"
	"github.com/msageha/mcuwatch/internal/reconcile"
	"github.com/msageha/mcuwatch/internal/setup"
	"github.com/msageha/mcuwatch/internal/status"
	"github.com/msageha/mcuwatch/internal/store"
)

const version = "1.0.0"

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// FaultJournalFile lives in the log directory.
const FaultJournalFile = "faults" + events.JournalFileExtension

func main() {
	os.Exit(dispatch(os.Args[1:], os.Stdout, os.Stderr))
}

func dispatch(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || len(args[0]) > 0 && args[0][0] == '-' && args[0] != "-h" && args[0] != "--help" {
		return runWatchdog(args, stdout, stderr)
	}

	switch args[0] {
	case "run":
		return runWatchdog(args[1:], stdout, stderr)
	case "status":
		return runStatus(args[1:], stdout, stderr)
	case "state":
		return runState(args[1:], stdout, stderr)
	case "faults":
		return runFaults(args[1:], stdout, stderr)
	case "init":
		return runInit(args[1:], stdout, stderr)
	case "version":
		fmt.Fprintf(stdout, "mcuwatch %s\n", version)
		return exitOK
	case "help", "--help", "-h":
		printUsage(stdout)
		return exitOK
	default:
		fmt.Fprintf(stderr, "unknown command: %s\n\n", args[0])
		printUsage(stderr)
		return exitUsage
	}
}

func newFlagSet(name string, stderr io.Writer) (*pflag.FlagSet, *string) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	cfgPath := fs.StringP("config", "c", "", "path to mcuwatch.yaml (default: $"+config.EnvConfigPath+" or search upward)")
	return fs, cfgPath
}

func loadConfig(explicit string) (model.Config, error) {
	path, err := config.Find(explicit)
	if err != nil {
		return model.Config{}, fault.Config("locate config", err)
	}
	return config.Load(path)
}

func runWatchdog(args []string, stdout, stderr io.Writer) int {
	fs, cfgPath := newFlagSet("run", stderr)
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected argument: %s\nusage: mcuwatch run [--config path]\n", fs.Arg(0))
		return exitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := reconcileOnce(ctx, *cfgPath, stdout); err != nil {
		fmt.Fprintf(stderr, "mcuwatch: %v\n", err)
		return exitFailure
	}
	return exitOK
}

// reconcileOnce wires one run together. Its error is non-nil only for
// faults that kept the run from completing.
func reconcileOnce(ctx context.Context, cfgPath string, stdout io.Writer) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	baseLog, closeLogs, err := logging.New(cfg.Logging.Level, cfg.Logging.Dir)
	if err != nil {
		return fault.Config("open logs", err)
	}
	defer func() { _ = closeLogs() }()
	log := baseLog.With("run_id", runID)

	clk := clock.Real()
	journal, err := events.OpenFaultJournal(filepath.Join(cfg.Logging.Dir, FaultJournalFile), 0)
	if err != nil {
		log.Error("fault journal unavailable", "dir", cfg.Logging.Dir, "error", err)
		return fault.Data("open fault journal", err)
	}
	defer func() { _ = journal.Close() }()
	journalNotifier := notify.NewJournal(journal, log)

	report := func(n notify.Notifier, err error) {
		ev := notify.NewEvent(clk.Now(), err, "", "")
		ev.RunID = runID
		n.ReportError(ev)
	}

	if cfg.Watchdog.LockFile != "" {
		rl := lock.NewRunLock(cfg.Watchdog.LockFile)
		if err := rl.TryLock(); err != nil {
			log.Error("another run holds the lock", "lock_file", rl.Path(), "error", err)
			ev := notify.NewEvent(clk.Now(), err, "", "")
			ev.RunID = runID
			ev.Operation = "acquire run lock"
			journalNotifier.ReportError(ev)
			return err
		}
		defer func() {
			if err := rl.Unlock(); err != nil {
				log.Warn("release run lock", "error", err)
			}
		}()
	}

	operators := operatorNotifiers(cfg.Notify, log)

	st, err := store.Open(cfg.Watchdog.StateBackend, cfg.Watchdog.StateDir, log)
	if err != nil {
		err = dataFault("open state store", err)
		log.Error("state store unavailable", "dir", cfg.Watchdog.StateDir, "error", err)
		// Without the store there is no cooldown to consult.
		report(append(notify.Multi{journalNotifier}, operators...), err)
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Warn("close state store", "error", err)
		}
	}()

	notifier := notify.Multi{journalNotifier}
	if len(operators) > 0 {
		notifier = append(notifier, notify.NewCooldown(operators, st, clk, cfg.Notify.Cooldown(), log))
	}

	policy, err := freeze.ParsePolicy(cfg.Watchdog.FreezePolicy)
	if err != nil {
		err = fault.Config("freeze policy", err)
		report(notifier, err)
		return err
	}

	client := mcu.NewClient(newCaller(cfg.MCU), log)
	rec := reconcile.New(client, st, notifier, clk, log, reconcile.Options{
		Policy:      policy,
		SettleDelay: cfg.Watchdog.SettleDelay(),
		RunID:       runID,
	})

	result, err := rec.Run(ctx, cfg.Conferences)
	if err != nil {
		if fault.Fatal(err) {
			report(notifier, err)
		}
		return err
	}
	printSummary(stdout, result)
	return nil
}

func newCaller(cfg model.MCUConfig) *mcu.XMLRPCCaller {
	return mcu.NewXMLRPCCaller(cfg.URL,
		mcu.Credentials{Username: cfg.Username, Password: cfg.Password},
		mcu.CallerOptions{
			Timeout:            time.Duration(cfg.TimeoutSec) * time.Second,
			InsecureSkipVerify: cfg.InsecureSkipVerify,
		})
}

// operatorNotifiers returns the channels that reach a person. They sit
// behind the cooldown gate.
func operatorNotifiers(cfg model.NotifyConfig, log *slog.Logger) notify.Multi {
	var out notify.Multi
	if cfg.Email.Enabled {
		out = append(out, notify.NewMailer(cfg.Email, log))
	}
	if cfg.Desktop {
		out = append(out, notify.NewDesktop(cfg.Email.Subject, log))
	}
	return out
}

func printSummary(w io.Writer, r *reconcile.Report) {
	participants := r.Participants()
	fmt.Fprintf(w, "run %s: %d conferences, %d participants, %d actions, %d faults (%s)\n",
		r.RunID, len(r.Conferences), len(participants), r.Actions(), r.Faults(),
		r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond))
	for _, p := range r.Remedied() {
		outcome := "ok"
		if p.Err != nil {
			outcome = p.Err.Error()
		}
		fmt.Fprintf(w, "  %s/%s: %s %v -> %s\n", p.Conference, p.Name, p.Entry, p.Actions, outcome)
	}
}

func runStatus(args []string, stdout, stderr io.Writer) int {
	fs, cfgPath := newFlagSet("status", stderr)
	jsonOutput := fs.Bool("json", false, "print the snapshot as JSON")
	concurrency := fs.Int("concurrency", status.DefaultConcurrency, "simultaneous status reads")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintf(stderr, "status: %v\n", err)
		return exitFailure
	}
	log := logs.GetLoggerFromString(cfg.Logging.Level)

	policy, err := freeze.ParsePolicy(cfg.Watchdog.FreezePolicy)
	if err != nil {
		fmt.Fprintf(stderr, "status: %v\n", err)
		return exitFailure
	}
	baselines, err := readBaselines(cfg.Watchdog, log)
	if err != nil {
		fmt.Fprintf(stderr, "status: %v\n", err)
		return exitFailure
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := mcu.NewClient(newCaller(cfg.MCU), log)
	snap, err := status.Collect(ctx, client, baselines, policy, cfg.Conferences, *concurrency)
	if err != nil {
		fmt.Fprintf(stderr, "status: %v\n", err)
		return exitFailure
	}
	if err := status.Write(stdout, snap, *jsonOutput); err != nil {
		fmt.Fprintf(stderr, "status: %v\n", err)
		return exitFailure
	}
	return exitOK
}

func readBaselines(cfg model.WatchdogConfig, log *slog.Logger) (model.BaselineSet, error) {
	st, err := store.Open(cfg.StateBackend, cfg.StateDir, log)
	if err != nil {
		return nil, dataFault("open state store", err)
	}
	defer func() { _ = st.Close() }()
	set, err := st.Snapshot()
	if err != nil {
		return nil, dataFault("read baselines", err)
	}
	return set, nil
}

// dataFault classifies a store error as a data fault unless it already
// carries a kind.
func dataFault(op string, err error) error {
	if fault.KindOf(err) != fault.KindUnknown {
		return err
	}
	return fault.Data(op, err)
}

func runState(args []string, stdout, stderr io.Writer) int {
	fs, cfgPath := newFlagSet("state", stderr)
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintf(stderr, "state: %v\n", err)
		return exitFailure
	}
	baselines, err := readBaselines(cfg.Watchdog, logs.GetLoggerFromString(cfg.Logging.Level))
	if err != nil {
		fmt.Fprintf(stderr, "state: %v\n", err)
		return exitFailure
	}

	enc := yaml.NewEncoder(stdout)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]any{"baselines": baselines}); err != nil {
		fmt.Fprintf(stderr, "state: %v\n", err)
		return exitFailure
	}
	if err := enc.Close(); err != nil {
		fmt.Fprintf(stderr, "state: %v\n", err)
		return exitFailure
	}
	return exitOK
}

func runFaults(args []string, stdout, stderr io.Writer) int {
	fs, cfgPath := newFlagSet("faults", stderr)
	verify := fs.Bool("verify", false, "check entry checksums instead of listing")
	limit := fs.IntP("limit", "n", 20, "show only the most recent entries (0 for all)")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintf(stderr, "faults: %v\n", err)
		return exitFailure
	}
	path := filepath.Join(cfg.Logging.Dir, FaultJournalFile)

	if *verify {
		total, valid, err := events.VerifyJournal(path)
		if err != nil {
			fmt.Fprintf(stderr, "faults: %v\n", err)
			return exitFailure
		}
		fmt.Fprintf(stdout, "%s: %d entries, %d valid\n", path, total, valid)
		if valid != total {
			return exitFailure
		}
		return exitOK
	}

	entries, err := events.ReadJournal(path)
	if errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(stdout, "no faults recorded")
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "faults: %v\n", err)
		return exitFailure
	}
	if *limit > 0 && len(entries) > *limit {
		entries = entries[len(entries)-*limit:]
	}
	for _, e := range entries {
		fmt.Fprintf(stdout, "%s  %-11s  %-20s  %-20s  %s\n",
			e.Timestamp.Format(time.RFC3339), e.Kind, dash(e.Conference), dash(e.Participant), e.Message)
	}
	return exitOK
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func runInit(args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("init", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	var opts setup.Options
	fs.StringVar(&opts.MCUURL, "mcu-url", "", "bridge XML-RPC endpoint to write into the config")
	fs.StringVar(&opts.Username, "username", "", "bridge API user to write into the config")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	dir := "."
	if fs.NArg() > 0 {
		dir = fs.Arg(0)
	}

	if err := setup.Run(dir, opts); err != nil {
		fmt.Fprintf(stderr, "init: %v\n", err)
		return exitFailure
	}
	absDir, _ := filepath.Abs(dir)
	fmt.Fprintf(stdout, "Initialized mcuwatch in %s\n", absDir)
	return exitOK
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `mcuwatch %s - MCU conference watchdog

Usage: mcuwatch [command] [options]

Commands:
  run [--config path]       Reconcile every configured conference once (default)
  status [--json]           Show live bridge status and what the next run would do
  state                     Print the persisted packet baselines
  faults [--verify] [-n N]  Show the fault journal
  init [dir]                Write a starter mcuwatch.yaml
  version                   Show version
  help                      Show this help

Every command except init and version accepts --config.

`, version)
}
