package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pinchtab/swiftcheck/internal/config"
)

var version = "dev"

func main() {
	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
	os.Exit(dispatch(cfg, os.Args[1:]))
}

// dispatch runs one subcommand and returns the process exit code: 0 when
// everything passed, 1 when a case failed or the run broke, 2 on usage errors.
func dispatch(cfg *config.RuntimeConfig, args []string) int {
	if len(args) == 0 {
		return runCommand(cfg, nil)
	}

	switch args[0] {
	case "--version", "-v", "version":
		fmt.Printf("swiftcheck %s\n", version)
		return 0
	case "help", "-h", "--help":
		printHelp(os.Stdout)
		return 0
	case "config":
		return config.HandleConfigCommand(cfg, args[1:])
	case "list":
		return listCommand(cfg, args[1:], os.Stdout)
	case "run":
		return runCommand(cfg, args[1:])
	case "serve":
		return serveCommand(cfg, args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", args[0])
		printHelp(os.Stderr)
		return 2
	}
}

func printHelp(w io.Writer) {
	_, _ = fmt.Fprintf(w, `swiftcheck %s - UI checks for a Singlish to Sinhala transliterator

USAGE:
  swiftcheck [run] [flags]         Run catalog cases in Chrome (default)
  swiftcheck list [-yaml] [flags]  Print the selected cases (-yaml: as a catalog file)
  swiftcheck serve [flags]         Start the HTTP API and result streams
  swiftcheck config init|show      Manage the config file
  swiftcheck --version             Print the version

RUN / LIST FLAGS:
  -filter REGEXP     Only cases whose ID matches
  -ids A,B           Only the named cases, in that order
  -cases FILE        YAML catalog instead of the built-in cases
  -workers N         Concurrent sessions (default 1)
  -headless          Run Chrome headless
  -mode fill|type    How input reaches the page
  -format json|yaml  Result file format
  -results DIR       Result file directory ("" disables)
  -url URL           Page under test

ENVIRONMENT:
  SWIFTCHECK_URL, SWIFTCHECK_HEADLESS, SWIFTCHECK_WORKERS, SWIFTCHECK_TIMEOUT,
  SWIFTCHECK_DETECT_TIMEOUT, SWIFTCHECK_POLL_INTERVAL, SWIFTCHECK_TOKEN, CDP_URL,
  CHROME_BINARY, CHROME_FLAGS (see "swiftcheck config show")
`, version)
}
