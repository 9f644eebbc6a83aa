// Package runner spawns configured shell commands and multiplexes their
// output.
//
// Each command runs as "<shell> -c <command>" with stdout and stderr piped.
// Both pipes are drained concurrently, line by line, and every line is
// printed through an [output.TaggedWriter] under the command's ordinal, so
// a command's stdout and stderr share one tag. Execute returns once both
// drains finished and the process exited.
//
// A command's own exit status never changes control flow: it is recorded in
// the [Result] and logged when verbose. Only failures to start a command
// are returned as errors.
package runner
