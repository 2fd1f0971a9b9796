package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/termfx/jsxfix/core"
	"github.com/termfx/jsxfix/history"
	"github.com/termfx/jsxfix/rules"
)

var (
	flagReport    string
	flagExclude   []string
	flagInclude   []string
	flagWorkers   int
	flagVerbose   bool
	flagJSON      bool
	flagNoHistory bool
	flagHistory   string
)

func main() {
	// Local overrides for e.g. JSXFIX_LIBSQL_AUTH_TOKEN.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "jsxfix",
		Short:         "Detect and auto-fix common JSX mistakes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flagReport, "report", "", "path for the JSON report artifact")
	root.PersistentFlags().StringSliceVar(&flagExclude, "exclude", nil, "glob patterns to skip")
	root.PersistentFlags().StringSliceVar(&flagInclude, "include", nil, "restrict the scan to matching globs")
	root.PersistentFlags().IntVar(&flagWorkers, "workers", 0, "concurrent file workers, 0 means all CPUs")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log per-file detail and print diffs")
	root.PersistentFlags().BoolVar(&flagJSON, "json", false, "print the report as JSON instead of a summary")
	root.PersistentFlags().BoolVar(&flagNoHistory, "no-history", false, "skip recording the run")
	root.PersistentFlags().StringVar(&flagHistory, "history-dsn", "", "run-history database path or libsql URL")

	root.AddCommand(
		runCommand("check", "Scan for issues without modifying files", false),
		runCommand("fix", "Scan and rewrite files in place", true),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runCommand(name, short string, fix bool) *cobra.Command {
	return &cobra.Command{
		Use:   name + " [root]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return run(cmd.Context(), dir, fix)
		},
	}
}

func run(ctx context.Context, dir string, fix bool) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log, err := buildLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	cfg, err := core.LoadConfig(dir)
	if err != nil {
		return err
	}
	cfg.Fix = fix
	cfg.Verbose = flagVerbose
	if flagReport != "" {
		cfg.ReportPath = flagReport
	}
	if len(flagExclude) > 0 {
		cfg.Exclude = append(cfg.Exclude, flagExclude...)
	}
	if len(flagInclude) > 0 {
		cfg.Include = append(cfg.Include, flagInclude...)
	}
	if flagWorkers > 0 {
		cfg.Workers = flagWorkers
	}
	if flagNoHistory {
		cfg.History = false
	}
	if flagHistory != "" {
		cfg.HistoryDSN = flagHistory
	}

	started := time.Now()
	report, err := core.NewPipeline(cfg, rules.Default(), log.Sugar()).Run(ctx)
	if err != nil {
		var envErr *core.EnvironmentError
		if errors.As(err, &envErr) {
			return envErr
		}
		return err
	}

	if err := report.WriteArtifact(cfg.ArtifactPath()); err != nil {
		log.Sugar().Errorw("report not written", "path", cfg.ArtifactPath(), "error", err)
	}

	if cfg.History {
		recordRun(report, cfg, fix, started, log.Sugar())
	}

	printReport(report, cfg)
	if code := report.ExitCode(); code != 0 {
		log.Sync()
		os.Exit(code)
	}
	return nil
}

// recordRun is best effort; history failures never change the run outcome.
func recordRun(report *core.Report, cfg core.Config, fix bool, started time.Time, log *zap.SugaredLogger) {
	store, err := history.Open(cfg.HistoryDSN, log)
	if err != nil {
		log.Warnw("history unavailable", "dsn", cfg.HistoryDSN, "error", err)
		return
	}
	defer store.Close()

	mode := "check"
	if fix {
		mode = "fix"
	}
	if _, err := store.Record(report, mode, started); err != nil {
		log.Warnw("run not recorded", "error", err)
	}
}

func printReport(report *core.Report, cfg core.Config) {
	if flagJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err == nil {
			fmt.Println(string(data))
		}
		return
	}
	fmt.Print(report.Summary())
	if cfg.Verbose {
		for _, f := range report.Files {
			if f.Diff != "" {
				fmt.Println(f.Diff)
			}
		}
	}
}

func buildLogger() (*zap.Logger, error) {
	level := zap.WarnLevel
	if flagVerbose {
		level = zap.DebugLevel
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}
