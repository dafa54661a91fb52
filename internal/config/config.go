package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultTargetURL = "https://www.swifttranslator.com/"
	InputModeFill    = "fill"
	InputModeType    = "type"
)

type RuntimeConfig struct {
	TargetURL        string
	CdpURL           string
	Headless         bool
	ChromeBinary     string
	ChromeExtraFlags string
	ViewportWidth    int
	ViewportHeight   int
	BlockImages      bool
	BlockMedia       bool
	BlockAds         bool
	NoAnimations     bool

	InputRole     string
	InputMode     string
	RequireChange bool
	PreviewLen    int
	Workers       int
	NavRate       float64

	ActionTimeout   time.Duration
	NavigateTimeout time.Duration
	DetectTimeout   time.Duration
	PollInterval    time.Duration
	ShutdownTimeout time.Duration

	CasesFile    string
	ResultsDir   string
	ReportFormat string
	LogLevel     string

	Bind  string
	Port  string
	Token string
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func envFloatOr(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return fallback
	}
	return f
}

func envBoolOr(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

// envDurationOr accepts Go durations ("750ms", "20s") or a bare number of milliseconds.
func envDurationOr(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	if ms, err := strconv.Atoi(v); err == nil {
		if ms <= 0 {
			return fallback
		}
		return time.Duration(ms) * time.Millisecond
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func homeDir() string {
	h, _ := os.UserHomeDir()
	return h
}

func (c *RuntimeConfig) ListenAddr() string {
	return c.Bind + ":" + c.Port
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c *RuntimeConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type FileConfig struct {
	TargetURL      string  `json:"targetUrl,omitempty"`
	CdpURL         string  `json:"cdpUrl,omitempty"`
	Headless       *bool   `json:"headless,omitempty"`
	ViewportWidth  int     `json:"viewportWidth,omitempty"`
	ViewportHeight int     `json:"viewportHeight,omitempty"`
	InputRole      string  `json:"inputRole,omitempty"`
	InputMode      string  `json:"inputMode,omitempty"`
	RequireChange  bool    `json:"requireChange,omitempty"`
	PreviewLen     int     `json:"previewLen,omitempty"`
	Workers        int     `json:"workers,omitempty"`
	NavRate        float64 `json:"navRate,omitempty"`
	TimeoutSec     int     `json:"timeoutSec,omitempty"`
	NavigateSec    int     `json:"navigateSec,omitempty"`
	DetectSec      int     `json:"detectSec,omitempty"`
	PollMs         int     `json:"pollMs,omitempty"`
	CasesFile      string  `json:"casesFile,omitempty"`
	ResultsDir     string  `json:"resultsDir,omitempty"`
	Port           string  `json:"port,omitempty"`
	Token          string  `json:"token,omitempty"`
}

func defaultStateDir() string {
	return filepath.Join(homeDir(), ".swiftcheck")
}

// ConfigPath is where Load looks for the JSON config file.
func ConfigPath() string {
	return envOr("SWIFTCHECK_CONFIG", filepath.Join(defaultStateDir(), "config.json"))
}

// Load builds the runtime config from defaults, the JSON config file and
// SWIFTCHECK_* environment variables, in increasing order of precedence.
// Defaults: headed Chrome, 1280x720, 15s actions, 30s navigation.
func Load() *RuntimeConfig {
	cfg := &RuntimeConfig{
		TargetURL:        envOr("SWIFTCHECK_URL", DefaultTargetURL),
		CdpURL:           os.Getenv("CDP_URL"),
		Headless:         envBoolOr("SWIFTCHECK_HEADLESS", false),
		ChromeBinary:     os.Getenv("CHROME_BINARY"),
		ChromeExtraFlags: os.Getenv("CHROME_FLAGS"),
		ViewportWidth:    envIntOr("SWIFTCHECK_VIEWPORT_WIDTH", 1280),
		ViewportHeight:   envIntOr("SWIFTCHECK_VIEWPORT_HEIGHT", 720),
		BlockImages:      envBoolOr("SWIFTCHECK_BLOCK_IMAGES", false),
		BlockMedia:       envBoolOr("SWIFTCHECK_BLOCK_MEDIA", false),
		BlockAds:         envBoolOr("SWIFTCHECK_BLOCK_ADS", false),
		NoAnimations:     envBoolOr("SWIFTCHECK_NO_ANIMATIONS", false),
		InputRole:        envOr("SWIFTCHECK_INPUT_ROLE", "textbox"),
		InputMode:        envOr("SWIFTCHECK_INPUT_MODE", InputModeFill),
		RequireChange:    envBoolOr("SWIFTCHECK_REQUIRE_CHANGE", false),
		PreviewLen:       envIntOr("SWIFTCHECK_PREVIEW_LEN", 400),
		Workers:          envIntOr("SWIFTCHECK_WORKERS", 1),
		NavRate:          envFloatOr("SWIFTCHECK_NAV_RATE", 0),
		ActionTimeout:    envDurationOr("SWIFTCHECK_TIMEOUT", 15*time.Second),
		NavigateTimeout:  envDurationOr("SWIFTCHECK_NAV_TIMEOUT", 30*time.Second),
		DetectTimeout:    envDurationOr("SWIFTCHECK_DETECT_TIMEOUT", 15*time.Second),
		PollInterval:     envDurationOr("SWIFTCHECK_POLL_INTERVAL", 100*time.Millisecond),
		ShutdownTimeout:  10 * time.Second,
		CasesFile:        os.Getenv("SWIFTCHECK_CASES"),
		ResultsDir:       envOr("SWIFTCHECK_RESULTS_DIR", filepath.Join(defaultStateDir(), "results")),
		ReportFormat:     envOr("SWIFTCHECK_REPORT_FORMAT", "json"),
		LogLevel:         envOr("SWIFTCHECK_LOG_LEVEL", "info"),
		Bind:             envOr("SWIFTCHECK_BIND", "127.0.0.1"),
		Port:             envOr("SWIFTCHECK_PORT", "9870"),
		Token:            os.Getenv("SWIFTCHECK_TOKEN"),
	}

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		return cfg
	}

	var fc FileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		slog.Warn("ignoring malformed config file", "path", ConfigPath(), "err", err)
		return cfg
	}
	applyFileConfig(cfg, fc)
	return cfg
}

func unset(key string) bool {
	return os.Getenv(key) == ""
}

func applyFileConfig(cfg *RuntimeConfig, fc FileConfig) {
	if fc.TargetURL != "" && unset("SWIFTCHECK_URL") {
		cfg.TargetURL = fc.TargetURL
	}
	if fc.CdpURL != "" && unset("CDP_URL") {
		cfg.CdpURL = fc.CdpURL
	}
	if fc.Headless != nil && unset("SWIFTCHECK_HEADLESS") {
		cfg.Headless = *fc.Headless
	}
	if fc.ViewportWidth > 0 && unset("SWIFTCHECK_VIEWPORT_WIDTH") {
		cfg.ViewportWidth = fc.ViewportWidth
	}
	if fc.ViewportHeight > 0 && unset("SWIFTCHECK_VIEWPORT_HEIGHT") {
		cfg.ViewportHeight = fc.ViewportHeight
	}
	if fc.InputRole != "" && unset("SWIFTCHECK_INPUT_ROLE") {
		cfg.InputRole = fc.InputRole
	}
	if fc.InputMode != "" && unset("SWIFTCHECK_INPUT_MODE") {
		cfg.InputMode = fc.InputMode
	}
	if fc.RequireChange && unset("SWIFTCHECK_REQUIRE_CHANGE") {
		cfg.RequireChange = true
	}
	if fc.PreviewLen > 0 && unset("SWIFTCHECK_PREVIEW_LEN") {
		cfg.PreviewLen = fc.PreviewLen
	}
	if fc.Workers > 0 && unset("SWIFTCHECK_WORKERS") {
		cfg.Workers = fc.Workers
	}
	if fc.NavRate > 0 && unset("SWIFTCHECK_NAV_RATE") {
		cfg.NavRate = fc.NavRate
	}
	if fc.TimeoutSec > 0 && unset("SWIFTCHECK_TIMEOUT") {
		cfg.ActionTimeout = time.Duration(fc.TimeoutSec) * time.Second
	}
	if fc.NavigateSec > 0 && unset("SWIFTCHECK_NAV_TIMEOUT") {
		cfg.NavigateTimeout = time.Duration(fc.NavigateSec) * time.Second
	}
	if fc.DetectSec > 0 && unset("SWIFTCHECK_DETECT_TIMEOUT") {
		cfg.DetectTimeout = time.Duration(fc.DetectSec) * time.Second
	}
	if fc.PollMs > 0 && unset("SWIFTCHECK_POLL_INTERVAL") {
		cfg.PollInterval = time.Duration(fc.PollMs) * time.Millisecond
	}
	if fc.CasesFile != "" && unset("SWIFTCHECK_CASES") {
		cfg.CasesFile = fc.CasesFile
	}
	if fc.ResultsDir != "" && unset("SWIFTCHECK_RESULTS_DIR") {
		cfg.ResultsDir = fc.ResultsDir
	}
	if fc.Port != "" && unset("SWIFTCHECK_PORT") {
		cfg.Port = fc.Port
	}
	if fc.Token != "" && unset("SWIFTCHECK_TOKEN") {
		cfg.Token = fc.Token
	}
}

// Validate rejects settings the engine cannot run with.
func (c *RuntimeConfig) Validate() error {
	if c.TargetURL == "" {
		return fmt.Errorf("target url required")
	}
	if c.InputMode != InputModeFill && c.InputMode != InputModeType {
		return fmt.Errorf("input mode must be %q or %q, got %q", InputModeFill, InputModeType, c.InputMode)
	}
	if c.InputRole == "" {
		return fmt.Errorf("input role required")
	}
	if c.PollInterval <= 0 || c.DetectTimeout <= 0 || c.ActionTimeout <= 0 || c.NavigateTimeout <= 0 {
		return fmt.Errorf("timeouts and poll interval must be positive")
	}
	if c.PollInterval > c.DetectTimeout {
		return fmt.Errorf("poll interval %v exceeds detect timeout %v", c.PollInterval, c.DetectTimeout)
	}
	if c.PreviewLen <= 0 {
		return fmt.Errorf("preview length must be positive")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	return nil
}

func DefaultFileConfig() FileConfig {
	h := false
	return FileConfig{
		TargetURL:      DefaultTargetURL,
		Headless:       &h,
		ViewportWidth:  1280,
		ViewportHeight: 720,
		InputRole:      "textbox",
		InputMode:      InputModeFill,
		PreviewLen:     400,
		Workers:        1,
		TimeoutSec:     15,
		NavigateSec:    30,
		DetectSec:      15,
		PollMs:         100,
		ResultsDir:     filepath.Join(defaultStateDir(), "results"),
		Port:           "9870",
	}
}

func HandleConfigCommand(cfg *RuntimeConfig, args []string) int {
	if len(args) < 1 {
		fmt.Println("Usage: swiftcheck config <command>")
		fmt.Println("Commands:")
		fmt.Println("  init    - Create default config file")
		fmt.Println("  show    - Show current configuration")
		return 2
	}

	switch args[0] {
	case "init":
		configPath := ConfigPath()

		if _, err := os.Stat(configPath); err == nil {
			fmt.Printf("Config file already exists at %s\n", configPath)
			fmt.Print("Overwrite? (y/N): ")
			var response string
			_, _ = fmt.Scanln(&response)
			if response != "y" && response != "Y" {
				return 0
			}
		}

		if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
			fmt.Printf("Error creating directory: %v\n", err)
			return 1
		}

		data, _ := json.MarshalIndent(DefaultFileConfig(), "", "  ")
		if err := os.WriteFile(configPath, data, 0644); err != nil {
			fmt.Printf("Error writing config: %v\n", err)
			return 1
		}
		fmt.Printf("Config file created at %s\n", configPath)

	case "show":
		fmt.Println("Current configuration:")
		fmt.Printf("  Target:     %s\n", cfg.TargetURL)
		fmt.Printf("  CDP URL:    %s\n", cfg.CdpURL)
		fmt.Printf("  Headless:   %v\n", cfg.Headless)
		fmt.Printf("  Viewport:   %dx%d\n", cfg.ViewportWidth, cfg.ViewportHeight)
		fmt.Printf("  Input:      role=%s mode=%s\n", cfg.InputRole, cfg.InputMode)
		fmt.Printf("  Detector:   deadline=%v interval=%v requireChange=%v\n", cfg.DetectTimeout, cfg.PollInterval, cfg.RequireChange)
		fmt.Printf("  Timeouts:   action=%v navigate=%v\n", cfg.ActionTimeout, cfg.NavigateTimeout)
		fmt.Printf("  Preview:    %d\n", cfg.PreviewLen)
		fmt.Printf("  Workers:    %d (navRate=%g/s)\n", cfg.Workers, cfg.NavRate)
		fmt.Printf("  Results:    %s (%s)\n", cfg.ResultsDir, cfg.ReportFormat)
		fmt.Printf("  Token:      %s\n", MaskToken(cfg.Token))

	default:
		fmt.Printf("Unknown command: %s\n", args[0])
		return 2
	}
	return 0
}

func MaskToken(t string) string {
	if t == "" {
		return "(none)"
	}
	if len(t) <= 8 {
		return "***"
	}
	return t[:4] + "..." + t[len(t)-4:]
}
