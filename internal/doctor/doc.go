// Package doctor diagnoses an envcmd installation.
//
// The checks cover:
//
//   - Tools: git and the configured shell are on PATH.
//   - Settings: the settings file parses and validates.
//   - Rules: the rules file exists, decodes, and has no rules that can never
//     match or never do anything.
//
// # Usage
//
//	report := doctor.Run(ctx, doctor.Options{Config: cfg, SettingsPath: config.Path()})
//	report.Print(os.Stdout)
//
// A missing rules file can be repaired with [Fix], which writes the default
// rules file.
package doctor
