package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type testEnv struct {
	dir      string
	settings string
	rules    string
}

// newTestEnv writes a settings file with history and colour disabled and
// returns paths for a rules file in a temp dir.
func newTestEnv(t *testing.T, settings string) testEnv {
	t.Helper()
	dir := t.TempDir()
	env := testEnv{
		dir:      dir,
		settings: filepath.Join(dir, "config.toml"),
		rules:    filepath.Join(dir, ".envcmd", "config.json"),
	}
	content := "history = false\ncolor = \"never\"\n" + settings
	if err := os.WriteFile(env.settings, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return env
}

func (e testEnv) writeRules(t *testing.T, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(e.rules), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(e.rules, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

type result struct {
	code   int
	stdout string
	stderr string
}

func (e testEnv) run(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	args = append([]string{"--config", e.settings, "--rules", e.rules}, args...)
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// cwdName is the directory rule target that matches the test process.
func cwdName(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	return filepath.Base(wd)
}

func TestRoot_RunsMatchingRules(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "")
	env.writeRules(t, `[
  {"async": false, "kind": "directory", "target": "`+cwdName(t)+`", "commands": ["echo hello", "echo world 1>&2"]},
  {"async": false, "kind": "directory", "target": "no-such-dir", "commands": ["echo skipped"]}
]`)

	res := env.run(t, "")
	if res.code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", res.code, res.stderr)
	}

	want := "I " + cwdName(t) + " (directory)\n0 hello\n1 world\n"
	if res.stdout != want {
		t.Errorf("stdout = %q, want %q", res.stdout, want)
	}
	if res.stderr != "" {
		t.Errorf("stderr = %q, want empty", res.stderr)
	}
}

func TestRoot_MissingRules(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "")
	res := env.run(t, "")

	if res.code != 1 {
		t.Errorf("exit code = %d, want 1", res.code)
	}
	if want := "E no config found at " + env.rules + "\n"; res.stderr != want {
		t.Errorf("stderr = %q, want %q", res.stderr, want)
	}
}

func TestRoot_Strict(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "")
	env.writeRules(t, `[{"async": true, "kind": "directory", "target": "`+cwdName(t)+`", "commands": ["exit 3", "true"]}]`)

	if res := env.run(t, ""); res.code != 0 {
		t.Errorf("without --strict exit code = %d, stderr %q", res.code, res.stderr)
	}

	res := env.run(t, "", "--strict")
	if res.code != 1 {
		t.Errorf("with --strict exit code = %d, want 1", res.code)
	}
	if !strings.Contains(res.stderr, "1 of 2 commands exited non-zero") {
		t.Errorf("stderr = %q", res.stderr)
	}
	if strings.Count(res.stderr, "\n") != 1 {
		t.Errorf("stderr should be one line, got %q", res.stderr)
	}
}

func TestRoot_InvalidFlags(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "")

	tests := []struct {
		args    []string
		wantErr string
	}{
		{[]string{"--join", "later"}, `invalid join "later"`},
		{[]string{"--color", "rainbow"}, `invalid color "rainbow"`},
		{[]string{"-v", "-q"}, "none of the others can be"},
	}
	for _, tt := range tests {
		res := env.run(t, "", tt.args...)
		if res.code != 1 {
			t.Errorf("%v: exit code = %d, want 1", tt.args, res.code)
		}
		if !strings.Contains(res.stderr, tt.wantErr) {
			t.Errorf("%v: stderr = %q, want %q", tt.args, res.stderr, tt.wantErr)
		}
	}
}

func TestRulesLifecycle(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "")

	res := env.run(t, "", "create")
	if res.code != 0 {
		t.Fatalf("create: exit code = %d, stderr %q", res.code, res.stderr)
	}
	if !strings.Contains(res.stdout, "created "+env.rules) {
		t.Errorf("create stdout = %q", res.stdout)
	}

	res = env.run(t, "", "c")
	if res.code != 1 || !strings.Contains(res.stderr, "config already exists") {
		t.Errorf("second create = %+v, want already exists", res)
	}

	res = env.run(t, "", "show")
	if res.code != 0 {
		t.Fatalf("show: exit code = %d, stderr %q", res.code, res.stderr)
	}
	for _, want := range []string{"TARGET", "example", "directory", "sync", "echo 'Hello, world!'"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("show output missing %q:\n%s", want, res.stdout)
		}
	}

	res = env.run(t, "", "show", "zzz")
	if res.code != 0 || !strings.Contains(res.stdout, `no rules match "zzz"`) {
		t.Errorf("show zzz = %+v", res)
	}

	res = env.run(t, "", "path")
	if res.stdout != env.rules+"\n" {
		t.Errorf("path stdout = %q, want %q", res.stdout, env.rules+"\n")
	}

	res = env.run(t, "n\n", "delete")
	if res.code != 0 || !strings.Contains(res.stdout, "delete "+env.rules+"? [y/N]") {
		t.Errorf("delete declined = %+v", res)
	}
	if _, err := os.Stat(env.rules); err != nil {
		t.Fatalf("rules file removed after declining: %v", err)
	}

	res = env.run(t, "", "d", "--yes")
	if res.code != 0 {
		t.Fatalf("delete --yes: exit code = %d, stderr %q", res.code, res.stderr)
	}
	if _, err := os.Stat(filepath.Dir(env.rules)); !os.IsNotExist(err) {
		t.Errorf("rules directory should be removed, stat error = %v", err)
	}

	res = env.run(t, "", "delete", "--yes")
	if res.code != 1 || !strings.Contains(res.stderr, "no config found") {
		t.Errorf("delete missing = %+v", res)
	}
}

func TestConfigCommands(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, `join = "end"`+"\n")

	res := env.run(t, "", "config", "show")
	if res.code != 0 {
		t.Fatalf("config show: exit code = %d, stderr %q", res.code, res.stderr)
	}
	for _, want := range []string{`join = "end"`, `rules_path = "` + env.rules + `"`, "history = false"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("config show missing %q:\n%s", want, res.stdout)
		}
	}

	fresh := filepath.Join(env.dir, "fresh", "config.toml")
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--config", fresh, "config", "init"}, strings.NewReader(""), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("config init: exit code = %d, stderr %q", code, stderr.String())
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Errorf("config init did not create %s: %v", fresh, err)
	}
}

func TestDoctorCmd(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "")

	res := env.run(t, "", "doctor")
	if res.code != 1 {
		t.Errorf("doctor with missing rules: exit code = %d, want 1", res.code)
	}
	if !strings.Contains(res.stdout, "envcmd doctor --fix") {
		t.Errorf("doctor stdout = %q", res.stdout)
	}

	res = env.run(t, "", "doctor", "--fix")
	if res.code != 0 {
		t.Fatalf("doctor --fix: exit code = %d, stdout %q, stderr %q", res.code, res.stdout, res.stderr)
	}
	if _, err := os.Stat(env.rules); err != nil {
		t.Errorf("doctor --fix did not create the rules file: %v", err)
	}
}

func TestVersionString(t *testing.T) {
	t.Parallel()

	if got := versionString(); !strings.HasPrefix(got, "envcmd dev (none, unknown, go") {
		t.Errorf("versionString() = %q", got)
	}
}

func TestSettingsPriority(t *testing.T) {
	env := newTestEnv(t, "shell = \"from-settings\"\n")
	local := t.TempDir()
	if err := os.WriteFile(filepath.Join(local, ".envcmd.toml"), []byte(`shell = "from-local"`), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(local)

	t.Setenv("ENVCMD_SHELL", "")
	res := env.run(t, "", "config", "show")
	if res.code != 0 {
		t.Fatalf("config show: exit code = %d, stderr %q", res.code, res.stderr)
	}
	if !strings.Contains(res.stdout, `shell = "from-local"`) {
		t.Errorf("local file should win over the settings file:\n%s", res.stdout)
	}

	t.Setenv("ENVCMD_SHELL", "from-env")
	res = env.run(t, "", "config", "show")
	if res.code != 0 {
		t.Fatalf("config show: exit code = %d, stderr %q", res.code, res.stderr)
	}
	if !strings.Contains(res.stdout, `shell = "from-env"`) {
		t.Errorf("ENVCMD_SHELL should win over the local file:\n%s", res.stdout)
	}
}

func TestDoctorCmd_InvalidSettings(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "join = \"sometimes\"\n")
	env.writeRules(t, `[]`)

	res := env.run(t, "", "config", "show")
	if res.code != 1 {
		t.Errorf("config show with invalid settings: exit code = %d, want 1", res.code)
	}

	res = env.run(t, "", "doctor")
	if res.code != 1 {
		t.Errorf("doctor: exit code = %d, want 1", res.code)
	}
	if !strings.Contains(res.stdout, "[settings]") || !strings.Contains(res.stdout, "join") {
		t.Errorf("doctor should report the invalid settings file:\n%s", res.stdout)
	}
}
