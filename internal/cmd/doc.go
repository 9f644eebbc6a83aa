// Package cmd provides helpers for executing external commands with proper
// error handling.
//
// This package wraps [os/exec.Cmd] to capture stderr and report it through
// [ExitError], so callers can tell a command that ran and failed (and with
// which exit code) apart from a command that could not be started at all.
//
// # Usage
//
//	out, err := cmd.OutputContext(ctx, "", "git", "rev-parse", "--abbrev-ref", "HEAD")
//	var exitErr *cmd.ExitError
//	if errors.As(err, &exitErr) && exitErr.Code == 128 {
//	    // not a git repository
//	}
//
// Every invocation is traced through the context logger when verbose.
package cmd
