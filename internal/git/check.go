package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// ErrGitNotFound indicates git is not installed or not in PATH
var ErrGitNotFound = errors.New("git not found: please install git (https://git-scm.com)")

// Check verifies that git is on PATH and runs.
func Check(ctx context.Context) error {
	if _, err := exec.LookPath("git"); err != nil {
		return ErrGitNotFound
	}
	if err := runGit(ctx, "", "--version"); err != nil {
		return fmt.Errorf("git --version: %w", err)
	}
	return nil
}
