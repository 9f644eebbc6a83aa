// Package git provides the git queries envcmd needs via the git CLI.
//
// All operations use [os/exec] to call git directly rather than a Go git
// library, so the user's git configuration (worktrees, safe.directory,
// includes) is honoured exactly as in their shell.
//
//   - [CurrentBranch]: abbreviated name of HEAD, with non-repository and
//     lookup failures reported as [ErrNotRepository] and [ErrBranchLookup]
//   - [Check]: git is installed and runs, or [ErrGitNotFound]
package git
