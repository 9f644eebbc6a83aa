package history

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/brooknullsh/envcmd/internal/engine"
	"github.com/brooknullsh/envcmd/internal/rule"
	"github.com/brooknullsh/envcmd/internal/runner"
)

func TestRecord(t *testing.T) {
	t.Parallel()

	historyFile := filepath.Join(t.TempDir(), "state", "history.json")
	e := Entry{ID: "one", Dir: "/src/api", Matched: []string{"api"}, Commands: 2, Failed: 1}

	if err := Record(historyFile, e, 10); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	h, err := Load(historyFile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff([]Entry{e}, h.Entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestRecord_KeepsNewest(t *testing.T) {
	t.Parallel()

	historyFile := filepath.Join(t.TempDir(), "history.json")
	for i := range 5 {
		if err := Record(historyFile, Entry{ID: fmt.Sprint(i)}, 3); err != nil {
			t.Fatalf("Record %d failed: %v", i, err)
		}
	}

	h, err := Load(historyFile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	var ids []string
	for _, e := range h.Entries {
		ids = append(ids, e.ID)
	}
	if diff := cmp.Diff([]string{"2", "3", "4"}, ids); diff != "" {
		t.Errorf("kept entries mismatch (-want +got):\n%s", diff)
	}
}

func TestRecord_Concurrent(t *testing.T) {
	t.Parallel()

	historyFile := filepath.Join(t.TempDir(), "history.json")

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := Record(historyFile, Entry{ID: fmt.Sprint(i)}, 0); err != nil {
				t.Errorf("Record %d failed: %v", i, err)
			}
		}()
	}
	wg.Wait()

	h, err := Load(historyFile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(h.Entries) != 8 {
		t.Errorf("got %d entries, want 8 (none lost)", len(h.Entries))
	}
}

func TestLoad_MissingOrCorrupted(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	h, err := Load(filepath.Join(dir, "missing.json"))
	if err != nil || len(h.Entries) != 0 {
		t.Errorf("Load(missing) = %+v, %v; want empty history", h, err)
	}

	corrupted := filepath.Join(dir, "corrupted.json")
	if err := os.WriteFile(corrupted, []byte(`{"entries": [`), 0o600); err != nil {
		t.Fatal(err)
	}
	h, err = Load(corrupted)
	if err != nil || len(h.Entries) != 0 {
		t.Errorf("Load(corrupted) = %+v, %v; want empty history", h, err)
	}
}

func TestRecent(t *testing.T) {
	t.Parallel()

	h := &History{Entries: []Entry{{ID: "a"}, {ID: "b"}, {ID: "c"}}}

	tests := []struct {
		n    int
		want []string
	}{
		{0, []string{"c", "b", "a"}},
		{2, []string{"c", "b"}},
		{10, []string{"c", "b", "a"}},
	}
	for _, tt := range tests {
		var got []string
		for _, e := range h.Recent(tt.n) {
			got = append(got, e.ID)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Recent(%d) mismatch (-want +got):\n%s", tt.n, diff)
		}
	}

	if h.Entries[0].ID != "a" {
		t.Error("Recent must not reorder the stored entries")
	}
}

func TestNewEntry(t *testing.T) {
	t.Parallel()

	started := time.Now().Add(-time.Second)
	report := engine.Report{
		Matched: []engine.MatchedRule{
			{Index: 0, Rule: rule.Rule{Target: "api"}},
			{Index: 2, Rule: rule.Rule{Target: "main"}},
		},
		Results: []runner.Result{{ExitCode: 0}, {ExitCode: 3}, {ExitCode: -1}},
	}

	e := NewEntry(started, "/src/api", report)

	if _, err := uuid.Parse(e.ID); err != nil {
		t.Errorf("ID %q is not a uuid: %v", e.ID, err)
	}
	if diff := cmp.Diff([]string{"api", "main"}, e.Matched); diff != "" {
		t.Errorf("Matched mismatch (-want +got):\n%s", diff)
	}
	if e.Commands != 3 || e.Failed != 2 {
		t.Errorf("Commands/Failed = %d/%d, want 3/2", e.Commands, e.Failed)
	}
	if e.Duration < time.Second {
		t.Errorf("Duration = %v, want at least 1s", e.Duration)
	}
}
