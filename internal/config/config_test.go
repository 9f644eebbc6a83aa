package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if cfg.Shell != "sh" {
		t.Errorf("Shell = %q, want sh", cfg.Shell)
	}
	if cfg.Join != "rule" {
		t.Errorf("Join = %q, want rule", cfg.Join)
	}
	if !cfg.History || cfg.HistoryLimit != DefaultHistoryLimit {
		t.Errorf("History = %v/%d, want enabled/%d", cfg.History, cfg.HistoryLimit, DefaultHistoryLimit)
	}
	if !strings.HasSuffix(cfg.RulesPath, filepath.Join(".envcmd", "config.json")) {
		t.Errorf("RulesPath = %q, want ~/.envcmd/config.json", cfg.RulesPath)
	}
	if strings.HasPrefix(cfg.RulesPath, "~") {
		t.Errorf("RulesPath = %q, want ~ expanded", cfg.RulesPath)
	}
}

func TestLoadFile_Nonexistent(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("missing file should load defaults (-want +got):\n%s", diff)
	}
}

func TestLoadFile_AllFields(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
rules_path = "/etc/envcmd/rules.json"
shell = "bash"
join = "end"
strict = true
first_match = true
color = "never"
history = false
history_limit = 5
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	want := Config{
		RulesPath:    "/etc/envcmd/rules.json",
		Shell:        "bash",
		Join:         "end",
		Strict:       true,
		FirstMatch:   true,
		Color:        "never",
		History:      false,
		HistoryLimit: 5,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFile_HistoryLimitZeroKeepsAll(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFile(writeConfig(t, `history_limit = 0`))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.HistoryLimit != 0 {
		t.Errorf("HistoryLimit = %d, want 0 (unlimited)", cfg.HistoryLimit)
	}
}

func TestLoadFile_PartialKeepsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFile(writeConfig(t, `strict = true`))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	want := Default()
	want.Strict = true
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFile_ExpandsHome(t *testing.T) {
	t.Parallel()

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	cfg, err := LoadFile(writeConfig(t, `rules_path = "~/rules/envcmd.json"`))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if want := filepath.Join(home, "rules", "envcmd.json"); cfg.RulesPath != want {
		t.Errorf("RulesPath = %q, want %q", cfg.RulesPath, want)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"relative rules path", `rules_path = "rules.json"`, "rules_path must be absolute"},
		{"bad join", `join = "never"`, `invalid join "never": must be "rule" or "end"`},
		{"bad color", `color = "sometimes"`, `invalid color "sometimes": must be "auto", "always", or "never"`},
		{"negative limit", `history_limit = -1`, "history_limit must not be negative"},
		{"bad toml", `join = `, "failed to parse config file"},
		{"wrong type", `strict = "yes"`, "failed to parse config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := LoadFile(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("LoadFile() error = nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
			if diff := cmp.Diff(Default(), cfg); diff != "" {
				t.Errorf("invalid file should return defaults (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		EnvRules: "/srv/rules.json",
		EnvShell: "zsh",
	}
	cfg := Default()
	if err := cfg.applyEnv(func(k string) string { return env[k] }); err != nil {
		t.Fatalf("applyEnv() error = %v", err)
	}
	if cfg.RulesPath != "/srv/rules.json" || cfg.Shell != "zsh" {
		t.Errorf("got rules=%q shell=%q, want env values", cfg.RulesPath, cfg.Shell)
	}

	cfg = Default()
	err := cfg.applyEnv(func(k string) string {
		if k == EnvRules {
			return "relative.json"
		}
		return ""
	})
	if err == nil {
		t.Error("applyEnv() with relative ENVCMD_RULES = nil error")
	}
}

func TestSetRulesPath(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if err := cfg.SetRulesPath("/tmp/rules.json"); err != nil {
		t.Fatalf("SetRulesPath() error = %v", err)
	}
	if cfg.RulesPath != "/tmp/rules.json" {
		t.Errorf("RulesPath = %q", cfg.RulesPath)
	}
	if err := cfg.SetRulesPath("./rules.json"); err == nil {
		t.Error("SetRulesPath(relative) = nil error")
	}
}

func TestValidateFlags(t *testing.T) {
	t.Parallel()

	if err := ValidateJoin("end"); err != nil {
		t.Errorf("ValidateJoin(end) = %v", err)
	}
	if err := ValidateJoin("later"); err == nil {
		t.Error("ValidateJoin(later) = nil")
	}
	if err := ValidateColor("always"); err != nil {
		t.Errorf("ValidateColor(always) = %v", err)
	}
	if err := ValidateColor("rainbow"); err == nil {
		t.Error("ValidateColor(rainbow) = nil")
	}
}

func TestFormatOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		opts []string
		want string
	}{
		{[]string{"a"}, `"a"`},
		{[]string{"a", "b"}, `"a" or "b"`},
		{[]string{"a", "b", "c"}, `"a", "b", or "c"`},
	}
	for _, tt := range tests {
		if got := formatOptions(tt.opts); got != tt.want {
			t.Errorf("formatOptions(%v) = %s, want %s", tt.opts, got, tt.want)
		}
	}
}

func TestContext(t *testing.T) {
	t.Parallel()

	if got := FromContext(context.Background()); got.Join != "rule" {
		t.Errorf("FromContext without config = %+v, want defaults", got)
	}

	cfg := &Config{Shell: "fish"}
	if got := FromContext(WithConfig(context.Background(), cfg)); got != cfg {
		t.Errorf("FromContext = %p, want %p", got, cfg)
	}
}

func TestInitFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := InitFile(path, false); err != nil {
		t.Fatalf("InitFile() error = %v", err)
	}

	// The written template must itself be a valid config.
	var decoded Config
	if _, err := toml.DecodeFile(path, &decoded); err != nil {
		t.Fatalf("default config does not parse: %v", err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile(default) error = %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("default template differs from Default() (-want +got):\n%s", diff)
	}

	if err := InitFile(path, false); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("second InitFile() error = %v, want already exists", err)
	}
	if err := InitFile(path, true); err != nil {
		t.Errorf("InitFile(force) error = %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvRules, "/srv/envcmd/rules.json")
	t.Setenv(EnvShell, "bash")

	cfg, err := Load(writeConfig(t, `shell = "zsh"`), t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.RulesPath != "/srv/envcmd/rules.json" {
		t.Errorf("RulesPath = %q, want env value", cfg.RulesPath)
	}
	if cfg.Shell != "bash" {
		t.Errorf("Shell = %q, env should win over the file", cfg.Shell)
	}
}

func TestLoad_Priority(t *testing.T) {
	t.Setenv(EnvShell, "")

	dir := t.TempDir()
	local := "shell = \"fish\"\njoin = \"end\"\n"
	if err := os.WriteFile(filepath.Join(dir, LocalConfigFileName), []byte(local), 0644); err != nil {
		t.Fatalf("write local config: %v", err)
	}
	settings := writeConfig(t, "shell = \"zsh\"\nstrict = true\n")

	cfg, err := Load(settings, dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Shell != "fish" || cfg.Join != "end" {
		t.Errorf("Shell, Join = %q, %q; local file should win over the settings file", cfg.Shell, cfg.Join)
	}
	if !cfg.Strict {
		t.Error("Strict = false, settings file value lost")
	}

	t.Setenv(EnvShell, "bash")
	cfg, err = Load(settings, dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Shell != "bash" {
		t.Errorf("Shell = %q, env should win over the local file", cfg.Shell)
	}
}

func TestLoad_InvalidLocal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, LocalConfigFileName), []byte(`join = "never"`), 0644); err != nil {
		t.Fatalf("write local config: %v", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.toml"), dir); err == nil {
		t.Error("Load() should fail on an invalid local file")
	}
}
