package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pinchtab/swiftcheck/internal/bridge"
	"github.com/pinchtab/swiftcheck/internal/catalog"
	"github.com/pinchtab/swiftcheck/internal/config"
	"github.com/pinchtab/swiftcheck/internal/report"
	"github.com/pinchtab/swiftcheck/internal/runner"
)

type selection struct {
	Filter string
	IDs    []string
	// YAML makes list print a catalog file instead of one line per case.
	YAML bool
}

// parseFlags applies command-line overrides onto cfg and returns the case
// selection. Flags win over the environment and the config file.
func parseFlags(name string, cfg *config.RuntimeConfig, args []string) (selection, error) {
	var sel selection
	var ids string

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&sel.Filter, "filter", "", "")
	fs.StringVar(&ids, "ids", "", "")
	fs.StringVar(&cfg.CasesFile, "cases", cfg.CasesFile, "")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "")
	fs.BoolVar(&cfg.Headless, "headless", cfg.Headless, "")
	fs.StringVar(&cfg.InputMode, "mode", cfg.InputMode, "")
	fs.StringVar(&cfg.ReportFormat, "format", cfg.ReportFormat, "")
	fs.StringVar(&cfg.ResultsDir, "results", cfg.ResultsDir, "")
	fs.StringVar(&cfg.TargetURL, "url", cfg.TargetURL, "")
	if name == "list" {
		fs.BoolVar(&sel.YAML, "yaml", false, "")
	}
	if err := fs.Parse(args); err != nil {
		return sel, err
	}
	if fs.NArg() > 0 {
		return sel, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	for _, id := range strings.Split(ids, ",") {
		if id = strings.TrimSpace(id); id != "" {
			sel.IDs = append(sel.IDs, id)
		}
	}
	return sel, nil
}

// selectCases loads the catalog and narrows it by ids, then filter.
func selectCases(cfg *config.RuntimeConfig, sel selection) ([]catalog.Case, error) {
	cases := catalog.Builtin()
	if cfg.CasesFile != "" {
		var err error
		if cases, err = catalog.Load(cfg.CasesFile); err != nil {
			return nil, err
		}
	}
	if len(sel.IDs) > 0 {
		var err error
		if cases, err = catalog.Lookup(cases, sel.IDs...); err != nil {
			return nil, err
		}
	}
	cases, err := catalog.Filter(cases, sel.Filter)
	if err != nil {
		return nil, err
	}
	if len(cases) == 0 {
		return nil, fmt.Errorf("no cases selected")
	}
	return cases, nil
}

func listCommand(cfg *config.RuntimeConfig, args []string, w io.Writer) int {
	sel, err := parseFlags("list", cfg, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	cases, err := selectCases(cfg, sel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if sel.YAML {
		data, err := catalog.Marshal(cases)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		_, _ = w.Write(data)
		return 0
	}
	for _, c := range cases {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", c.ID, c.Input)
	}
	return 0
}

func runCommand(cfg *config.RuntimeConfig, args []string) int {
	sel, err := parseFlags("run", cfg, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		return 2
	}
	cases, err := selectCases(cfg, sel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b := bridge.New(cfg)
	defer b.Shutdown()

	rec := report.NewRecorder()
	sink := report.NewAsync(len(cases), report.NewList(os.Stdout), rec)
	suite := &runner.Suite{
		Provisioner: runner.FromBridge(b),
		Runner:      runner.New(cfg),
		Workers:     cfg.Workers,
		Sink:        sink,
	}

	results := suite.Run(ctx, cases)
	sink.Close()

	summary := rec.Summary()
	summary.Dropped = sink.Dropped()

	if cfg.ResultsDir != "" {
		path, err := report.WriteFile(cfg.ResultsDir, cfg.ReportFormat, report.Run{
			RunID:      rec.RunID,
			TargetURL:  cfg.TargetURL,
			StartedAt:  rec.StartedAt,
			FinishedAt: time.Now(),
			Summary:    summary,
			Results:    results,
		})
		if err != nil {
			slog.Error("write results", "err", err)
		} else {
			slog.Info("results written", "path", path)
		}
	}

	report.PrintSummary(os.Stdout, summary)
	printVerdict(os.Stdout, summary)
	if !summary.OK() {
		return 1
	}
	return 0
}
