// Package history records envcmd runs so they can be reviewed with
// `envcmd history`.
//
// Entries are kept in $XDG_STATE_HOME/envcmd/history.json, newest last.
// Writers hold an flock on a sibling lock file, so concurrent shells that
// run envcmd at the same time don't lose entries.
package history

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/adrg/xdg"
	"github.com/google/uuid"

	"github.com/brooknullsh/envcmd/internal/engine"
	"github.com/brooknullsh/envcmd/internal/storage"
)

// Entry describes one run.
type Entry struct {
	ID        string        `json:"id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Dir       string        `json:"dir"`
	Matched   []string      `json:"matched"`
	Commands  int           `json:"commands"`
	Failed    int           `json:"failed"`
}

// History is the on-disk list of runs, oldest first.
type History struct {
	Entries []Entry `json:"entries"`
}

// Path returns the path to the history file
func Path() string {
	return filepath.Join(xdg.StateHome, "envcmd", "history.json")
}

// NewEntry summarises an engine report.
func NewEntry(started time.Time, dir string, report engine.Report) Entry {
	matched := make([]string, 0, len(report.Matched))
	for _, m := range report.Matched {
		matched = append(matched, m.Rule.Target)
	}
	return Entry{
		ID:        uuid.NewString(),
		StartedAt: started,
		Duration:  time.Since(started),
		Dir:       dir,
		Matched:   matched,
		Commands:  len(report.Results),
		Failed:    len(report.Failed()),
	}
}

// Load reads the history from path. A missing or corrupted file yields an
// empty history.
func Load(path string) (*History, error) {
	var h History
	if err := storage.LoadJSON(path, &h); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if errors.Is(err, os.ErrNotExist) || errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
			return &History{}, nil
		}
		return nil, err
	}
	return &h, nil
}

// Record appends e to the history at path, keeping only the newest limit
// entries. A limit of zero or less keeps everything.
func Record(path string, e Entry, limit int) error {
	return storage.WithLock(path+".lock", func() error {
		h, err := Load(path)
		if err != nil {
			return err
		}
		h.Entries = append(h.Entries, e)
		if limit > 0 && len(h.Entries) > limit {
			h.Entries = slices.Clone(h.Entries[len(h.Entries)-limit:])
		}
		return storage.SaveJSON(path, h)
	})
}

// Recent returns up to n entries, newest first. n <= 0 returns all.
func (h *History) Recent(n int) []Entry {
	entries := slices.Clone(h.Entries)
	slices.Reverse(entries)
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
