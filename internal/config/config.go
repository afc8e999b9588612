package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config is the root configuration for lcal, stored in ~/.lcal/config.json.
// The file supports single-line // comments for documentation purposes.
// Secrets never live in the file; they come from the environment.
type Config struct {
	Portal   PortalConfig   `json:"portal"`
	Browser  BrowserConfig  `json:"browser"`
	Timeouts TimeoutConfig  `json:"timeouts"`
	Storage  StorageConfig  `json:"storage"`
	Server   ServerConfig   `json:"server"`
	Webhook  WebhookConfig  `json:"webhook"`
	// RosterFile is an optional YAML file with names, leave types and
	// company holidays. Relative paths are resolved against the config
	// file's directory.
	RosterFile string `json:"roster_file"`

	Credentials Credentials `json:"-"`
	Roster      Roster      `json:"-"`
}

// PortalConfig locates the HR portal.
type PortalConfig struct {
	BaseURL      string `json:"base_url"`
	LoginPath    string `json:"login_path"`
	CalendarPath string `json:"calendar_path"`
	// LoginIndicator is a URL substring present only on the login page.
	LoginIndicator string `json:"login_indicator"`
}

// LoginURL returns the absolute login page URL.
func (p PortalConfig) LoginURL() string { return joinURL(p.BaseURL, p.LoginPath) }

// CalendarURL returns the absolute leave calendar URL.
func (p PortalConfig) CalendarURL() string { return joinURL(p.BaseURL, p.CalendarPath) }

// BrowserConfig controls the automated browser.
type BrowserConfig struct {
	// Headed shows the browser window; the default runs headless.
	Headed   bool   `json:"headed"`
	ExecPath string `json:"exec_path"`
}

// TimeoutConfig bounds every wait of a run.
type TimeoutConfig struct {
	RunSeconds        int `json:"run_seconds"`
	NavigationSeconds int `json:"navigation_seconds"`
	LoginSeconds      int `json:"login_seconds"`
	CalendarSeconds   int `json:"calendar_seconds"`
	OverflowSeconds   int `json:"overflow_seconds"`
	SelectSettleMS    int `json:"select_settle_ms"`
	FilterSettleMS    int `json:"filter_settle_ms"`
}

// Run returns the overall budget of one scrape.
func (t TimeoutConfig) Run() time.Duration { return seconds(t.RunSeconds) }

// Navigation returns the page load budget.
func (t TimeoutConfig) Navigation() time.Duration { return seconds(t.NavigationSeconds) }

// Login returns how long to wait for the redirect after signing in.
func (t TimeoutConfig) Login() time.Duration { return seconds(t.LoginSeconds) }

// Calendar returns how long to wait for the calendar grid.
func (t TimeoutConfig) Calendar() time.Duration { return seconds(t.CalendarSeconds) }

// Overflow returns how long to wait for a "+N more" detail view.
func (t TimeoutConfig) Overflow() time.Duration { return seconds(t.OverflowSeconds) }

// SelectSettle returns the delay after changing the month or year.
func (t TimeoutConfig) SelectSettle() time.Duration {
	return time.Duration(t.SelectSettleMS) * time.Millisecond
}

// FilterSettle returns the delay after applying the calendar filter.
func (t TimeoutConfig) FilterSettle() time.Duration {
	return time.Duration(t.FilterSettleMS) * time.Millisecond
}

// StorageConfig locates the JSON output.
type StorageConfig struct {
	DataDir string `json:"data_dir"`
	// DebugDir receives raw calendar markup of every run when set.
	DebugDir string `json:"debug_dir"`
}

// ServerConfig configures the trigger server.
type ServerConfig struct {
	Addr string `json:"addr"`
	// SiteDir is a static calendar site served at "/" when set.
	SiteDir string `json:"site_dir"`
}

// WebhookConfig points the refresh command at a trigger server.
type WebhookConfig struct {
	URL   string `json:"url"`
	Token string `json:"-"`
}

const (
	DefaultBaseURL        = "https://essportal.goldbell.com.sg"
	DefaultLoginPath      = "/HR/Main/Login.aspx"
	DefaultCalendarPath   = "/LEAVE/Leave/eLeave/ViewLeaveCalendar2.aspx"
	DefaultLoginIndicator = "login"
	DefaultServerAddr     = ":3847"
	DefaultWebhookURL     = "http://localhost:3847"
)

// Environment variables holding secrets and overrides.
const (
	EnvUserID       = "HRIQ_USER_ID"
	EnvPassword     = "HRIQ_PASSWORD"
	EnvWebhookToken = "HRIQ_WEBHOOK_TOKEN"
	EnvWebhookURL   = "HRIQ_WEBHOOK_URL"
)

// Default returns a Config pre-filled with built-in defaults.
func Default() *Config {
	cfg := &Config{}
	cfg.fillDefaults("")
	cfg.Roster = DefaultRoster()
	return cfg
}

func (c *Config) fillDefaults(baseDir string) {
	p := &c.Portal
	if p.BaseURL == "" {
		p.BaseURL = DefaultBaseURL
	}
	if p.LoginPath == "" {
		p.LoginPath = DefaultLoginPath
	}
	if p.CalendarPath == "" {
		p.CalendarPath = DefaultCalendarPath
	}
	if p.LoginIndicator == "" {
		p.LoginIndicator = DefaultLoginIndicator
	}

	t := &c.Timeouts
	defaultInt(&t.RunSeconds, 180)
	defaultInt(&t.NavigationSeconds, 60)
	defaultInt(&t.LoginSeconds, 30)
	defaultInt(&t.CalendarSeconds, 10)
	defaultInt(&t.OverflowSeconds, 5)
	defaultInt(&t.SelectSettleMS, 1000)
	defaultInt(&t.FilterSettleMS, 2000)

	if c.Storage.DataDir == "" {
		if baseDir == "" {
			baseDir = "."
		}
		c.Storage.DataDir = filepath.Join(baseDir, "data")
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.Webhook.URL == "" {
		c.Webhook.URL = DefaultWebhookURL
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// lcal configuration – ~/.lcal/config.json
//
// All settings are optional; empty values fall back to the defaults shown.
// Credentials are read from the environment (or a .env file):
//   HRIQ_USER_ID, HRIQ_PASSWORD     portal login
//   HRIQ_WEBHOOK_TOKEN              trigger server bearer token
//   HRIQ_WEBHOOK_URL                trigger server used by "lcal refresh"
{
  // ── HR portal ────────────────────────────────────────────────────────────
  "portal": {
    "base_url": "https://essportal.goldbell.com.sg",
    "login_path": "/HR/Main/Login.aspx",
    "calendar_path": "/LEAVE/Leave/eLeave/ViewLeaveCalendar2.aspx",
    // A successful login leaves every URL containing this text.
    "login_indicator": "login"
  },

  // ── Browser ──────────────────────────────────────────────────────────────
  "browser": {
    // Show the browser window while scraping.
    "headed": false,
    // Chrome binary; empty looks it up on the PATH.
    "exec_path": ""
  },

  // ── Timeouts ─────────────────────────────────────────────────────────────
  "timeouts": {
    "run_seconds": 180,
    "navigation_seconds": 60,
    "login_seconds": 30,
    "calendar_seconds": 10,
    "overflow_seconds": 5,
    // Fixed waits after postbacks that give no completion signal.
    "select_settle_ms": 1000,
    "filter_settle_ms": 2000
  },

  // ── Output ───────────────────────────────────────────────────────────────
  "storage": {
    // Empty means ~/.lcal/data. leaves.json and history/ are written here.
    "data_dir": "",
    "debug_dir": ""
  },

  // ── Trigger server (lcal serve) ──────────────────────────────────────────
  "server": {
    "addr": ":3847",
    // Static calendar site served at /, with the data directory at /data/.
    "site_dir": ""
  },

  "webhook": {
    "url": "http://localhost:3847"
  },

  // YAML file with names, leave_types, aliases and holidays.
  "roster_file": ""
}
`

// DefaultPath returns the path to ~/.lcal/config.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".lcal", "config.json"), nil
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads the config file at path (DefaultPath when empty), creating it
// with annotated defaults on first run, then applies the roster file and
// environment. The returned Config is not modified afterwards.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	dir := filepath.Dir(path)

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
	case err != nil:
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	default:
		if err := json.Unmarshal(stripLineComments(data), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
		}
	}
	cfg.fillDefaults(dir)

	cfg.Roster = DefaultRoster()
	if cfg.RosterFile != "" {
		rf := cfg.RosterFile
		if !filepath.IsAbs(rf) {
			rf = filepath.Join(dir, rf)
		}
		r, err := LoadRoster(rf)
		if err != nil {
			return nil, err
		}
		cfg.Roster = cfg.Roster.Merge(r)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Credentials = Credentials{
		UserID:   os.Getenv(EnvUserID),
		Password: os.Getenv(EnvPassword),
	}
	c.Webhook.Token = os.Getenv(EnvWebhookToken)
	if u := os.Getenv(EnvWebhookURL); u != "" {
		c.Webhook.URL = u
	}
}

// Validate checks the fields every command relies on.
func (c *Config) Validate() error {
	var errs []error
	for name, raw := range map[string]string{
		"portal login URL":    c.Portal.LoginURL(),
		"portal calendar URL": c.Portal.CalendarURL(),
		"webhook URL":         c.Webhook.URL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("invalid %s %q", name, raw))
		}
	}
	if c.Storage.DataDir == "" {
		errs = append(errs, errors.New("storage.data_dir is empty"))
	}
	for name, v := range map[string]int{
		"run_seconds":        c.Timeouts.RunSeconds,
		"navigation_seconds": c.Timeouts.NavigationSeconds,
		"login_seconds":      c.Timeouts.LoginSeconds,
		"calendar_seconds":   c.Timeouts.CalendarSeconds,
		"overflow_seconds":   c.Timeouts.OverflowSeconds,
	} {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("timeouts.%s must be positive", name))
		}
	}
	return errors.Join(errs...)
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}

func joinURL(base, path string) string {
	if path == "" {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

func defaultInt(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }
