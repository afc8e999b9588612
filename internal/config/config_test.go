package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Tiliavir/leave-calendar/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{config.EnvUserID, config.EnvPassword, config.EnvWebhookToken, config.EnvWebhookURL} {
		t.Setenv(k, "")
	}
}

func TestLoadFirstRunWritesTemplate(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".lcal", "config.json")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("template not written: %v", err)
	}
	if cfg.Portal.LoginURL() != "https://essportal.goldbell.com.sg/HR/Main/Login.aspx" {
		t.Errorf("LoginURL = %q", cfg.Portal.LoginURL())
	}
	if cfg.Storage.DataDir != filepath.Join(filepath.Dir(path), "data") {
		t.Errorf("DataDir = %q", cfg.Storage.DataDir)
	}
	if cfg.Timeouts.Run() != 180*time.Second || cfg.Timeouts.SelectSettle() != time.Second {
		t.Errorf("timeouts = %+v", cfg.Timeouts)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	// The written template must load back to the same settings.
	again, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load template: %v", err)
	}
	if again.Portal != cfg.Portal || again.Timeouts != cfg.Timeouts || again.Server != cfg.Server {
		t.Errorf("template settings differ from defaults:\n%+v\n%+v", again, cfg)
	}
}

func TestLoadPartialFileAndEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `// custom
{
  "portal": {"base_url": "https://hr.example.com/"},
  // shorter waits
  "timeouts": {"overflow_seconds": 2},
  "storage": {"data_dir": "/srv/leaves"}
}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(config.EnvUserID, "alice")
	t.Setenv(config.EnvPassword, "s3cret")
	t.Setenv(config.EnvWebhookToken, "tok")
	t.Setenv(config.EnvWebhookURL, "http://scraper:3847")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.Portal.CalendarURL(); got != "https://hr.example.com/LEAVE/Leave/eLeave/ViewLeaveCalendar2.aspx" {
		t.Errorf("CalendarURL = %q", got)
	}
	if cfg.Timeouts.Overflow() != 2*time.Second || cfg.Timeouts.LoginSeconds != 30 {
		t.Errorf("timeouts = %+v", cfg.Timeouts)
	}
	if cfg.Storage.DataDir != "/srv/leaves" {
		t.Errorf("DataDir = %q", cfg.Storage.DataDir)
	}
	if cfg.Credentials.UserID != "alice" || cfg.Credentials.Password != "s3cret" {
		t.Errorf("credentials = %+v", cfg.Credentials)
	}
	if cfg.Webhook.Token != "tok" || cfg.Webhook.URL != "http://scraper:3847" {
		t.Errorf("webhook = %+v", cfg.Webhook)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := config.Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestCredentialsValidate(t *testing.T) {
	tests := []struct {
		name    string
		creds   config.Credentials
		wantErr bool
		mention string
	}{
		{"complete", config.Credentials{UserID: "a", Password: "b"}, false, ""},
		{"no password", config.Credentials{UserID: "a"}, true, config.EnvPassword},
		{"empty", config.Credentials{}, true, config.EnvUserID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.creds.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			if !errors.Is(err, config.ErrMissingCredentials) {
				t.Errorf("error %v does not wrap ErrMissingCredentials", err)
			}
			if !strings.Contains(err.Error(), tt.mention) {
				t.Errorf("error %q does not mention %s", err, tt.mention)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := config.Default()
	cfg.Portal.BaseURL = "not a url"
	cfg.Timeouts.LoginSeconds = -1
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"portal login URL", "login_seconds"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	env := filepath.Join(dir, ".env")
	if err := os.WriteFile(env, []byte("HRIQ_USER_ID=bob\nHRIQ_PASSWORD=pw\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(config.EnvPassword, "from-env")
	os.Unsetenv(config.EnvUserID)

	if err := config.LoadDotEnv(env); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv(config.EnvUserID); got != "bob" {
		t.Errorf("%s = %q, want bob", config.EnvUserID, got)
	}
	if got := os.Getenv(config.EnvPassword); got != "from-env" {
		t.Errorf("existing variable overridden: %q", got)
	}

	if err := config.LoadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("missing .env should be ignored, got %v", err)
	}
}

func TestRosterFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	roster := `names:
  JOHN YANG JIA HAN: Johnny
  NEW PERSON: Newbie
leave_types:
  TL: {label: Training Leave, color: "#123456"}
aliases:
  ANNU 2: ANNU
holidays:
  - {day: 2, month: 3, year: 2026, name: Offsite}
`
	if err := os.WriteFile(filepath.Join(dir, "roster.yaml"), []byte(roster), 0o600); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"roster_file": "roster.yaml"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	dirTable := cfg.Roster.Directory()
	if dirTable.DisplayName("JOHN YANG JIA HAN") != "Johnny" || dirTable.DisplayName("CHUA SIN HAI") != "Sin Hai" {
		t.Errorf("names not merged: %v", cfg.Roster.Names)
	}
	types := cfg.Roster.Types()
	if m := types.Meta("TL"); m.Label != "Training Leave" || m.Color != "#123456" {
		t.Errorf("TL meta = %+v", m)
	}
	if m := types.Meta("ANNU 2"); m.Label != "Annual Leave" {
		t.Errorf("ANNU 2 meta = %+v", m)
	}
	if m := types.Meta("WFH 2"); m.Label != "Work From Home" {
		t.Errorf("built-in alias lost: %+v", m)
	}
	var found bool
	for _, h := range cfg.Roster.Holidays {
		if h.Name == "Offsite" && h.Day == 2 && h.Month == 3 && h.Year == 2026 {
			found = true
		}
	}
	if !found || len(cfg.Roster.Holidays) != 3 {
		t.Errorf("holidays = %+v", cfg.Roster.Holidays)
	}
}
