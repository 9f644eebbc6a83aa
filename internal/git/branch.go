package git

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/brooknullsh/envcmd/internal/cmd"
)

// notRepoExitCode is what git exits with outside a repository.
const notRepoExitCode = 128

var (
	// ErrNotRepository means git ran but the directory is not inside a repository.
	ErrNotRepository = errors.New("not a git repository")
	// ErrBranchLookup means git ran but failed for another reason.
	ErrBranchLookup = errors.New("failed to read git branch")
	// ErrInvalidBranch means git printed a branch name that is not valid UTF-8.
	ErrInvalidBranch = errors.New("git branch is not valid text")
)

// CurrentBranch returns the abbreviated name of HEAD for the repository
// containing dir (the working directory when dir is empty). A detached HEAD
// is reported as "HEAD", as git prints it.
//
// A non-zero git exit is reported as ErrNotRepository (exit 128) or
// ErrBranchLookup. Any other error means git could not be run at all.
func CurrentBranch(ctx context.Context, dir string) (string, error) {
	out, err := outputGit(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		var exitErr *cmd.ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Code == notRepoExitCode {
				return "", fmt.Errorf("%w: %s", ErrNotRepository, exitErr.Error())
			}
			return "", fmt.Errorf("%w: %s", ErrBranchLookup, exitErr.Error())
		}
		return "", fmt.Errorf("run git: %w", err)
	}

	if !utf8.Valid(out) {
		return "", ErrInvalidBranch
	}
	return strings.TrimRight(string(out), " \t\r\n"), nil
}
