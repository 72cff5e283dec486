package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate points the profile directory at a fresh temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", root)
	t.Setenv("HOME", root)
	t.Setenv("APPDATA", root)
	t.Setenv("DODGE_PROFILE", "test")
	return filepath.Join(root, "Dodgescape", "test")
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerURL != "ws://127.0.0.1:7878/" || cfg.Transport != "ws" || cfg.Format != "auto" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.SendInterval != 30*time.Millisecond {
		t.Fatalf("SendInterval = %v", cfg.SendInterval)
	}
	if cfg.ReferenceWidth != 1920 {
		t.Fatalf("ReferenceWidth = %v", cfg.ReferenceWidth)
	}
	if cfg.LogFile != filepath.Join(dir, "client.log") {
		t.Fatalf("LogFile = %q", cfg.LogFile)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("DODGE_TRANSPORT", "http")
	t.Setenv("DODGE_SEND_INTERVAL", "50ms")
	t.Setenv("DODGE_SEND_RETRIES", "3")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Transport != "http" || cfg.SendInterval != 50*time.Millisecond || cfg.SendRetries != 3 {
		t.Fatalf("env not applied: %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	dir := isolate(t)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	body := "server_url: ws://example.com:9000/\nformat: legacy\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerURL != "ws://example.com:9000/" || cfg.Format != "legacy" {
		t.Fatalf("file not applied: %+v", cfg)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"DODGE_TRANSPORT":     "carrier-pigeon",
		"DODGE_FORMAT":        "xml",
		"DODGE_SEND_INTERVAL": "0s",
		"DODGE_SERVER_URL":    "http://127.0.0.1:7878/",
	}
	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			isolate(t)
			t.Setenv(k, v)
			if _, err := Load(""); err == nil {
				t.Fatalf("%s=%s accepted", k, v)
			}
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "nope.yaml") {
		t.Fatalf("err = %v", err)
	}
}

func TestUsernameRoundTrip(t *testing.T) {
	isolate(t)
	if got := LoadUsername(); got != "" {
		t.Fatalf("fresh profile username = %q", got)
	}
	if err := SaveUsername("  ann \n"); err != nil {
		t.Fatal(err)
	}
	if got := LoadUsername(); got != "ann" {
		t.Fatalf("LoadUsername = %q", got)
	}
}

func TestProfileSlug(t *testing.T) {
	if got := profileSlug(" My Profile!"); got != "my_profile" {
		t.Fatalf("profileSlug = %q", got)
	}
	if got := profileSlug("!!"); got != "default" {
		t.Fatalf("profileSlug = %q", got)
	}
}

func TestProfileFolder(t *testing.T) {
	root := isolate(t)
	t.Setenv("DODGE_PROFILE", "LAN Party")
	if got := ProfileName(); got != "lan_party" {
		t.Fatalf("ProfileName = %q", got)
	}
	want := filepath.Join(filepath.Dir(root), "lan_party")
	if got := ConfigDir(); got != want {
		t.Fatalf("ConfigDir = %q, want %q", got, want)
	}
	if st, err := os.Stat(want); err != nil || !st.IsDir() {
		t.Fatalf("profile folder not created: %v", err)
	}

	t.Setenv("DODGE_PROFILE", "")
	exe := ProfileName()
	if i := strings.LastIndex(exe, "-"); i <= 0 || len(exe)-i-1 != 8 {
		t.Fatalf("executable profile = %q, want <name>-<8 hex>", exe)
	}
}
