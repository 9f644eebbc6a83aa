// Package rule defines the configured match rules envcmd evaluates.
//
// A rule pairs a match condition (a directory name or a git branch) with an
// ordered list of shell commands and a flag controlling whether those
// commands run one after another or all at once.
//
// Rules are decoded from a JSON array:
//
//	[
//	  {
//	    "async": true,
//	    "kind": "branch",
//	    "target": "main",
//	    "commands": ["make build", "make lint"]
//	  }
//	]
//
// All four fields are required. Decoding fails on a missing field, a field of
// the wrong JSON type or an unknown kind. Unknown extra fields are ignored.
package rule
