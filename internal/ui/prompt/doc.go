// Package prompt provides simple interactive prompts.
//
// Available prompts:
//   - [Confirm]: Yes/No confirmation prompt
//
// Prompts run as a bubbletea program when stdin is a terminal and fall back
// to reading one line otherwise, so they also work with piped input.
package prompt
