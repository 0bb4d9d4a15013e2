// Package cli holds the pieces shared by the linkedin-mcp commands: common
// flags, typed errors that map to exit codes, output rendering (go-pretty
// tables, JSON and YAML) and a progress spinner.
//
// # Output Formats
//
// Every command that prints a result honours --output:
//   - table: rounded go-pretty tables with colored status text
//   - json: indented JSON, suitable for jq
//   - yaml: the same document rendered as YAML
//
// # Exit Codes
//
// Errors returned by commands are passed through ClassifyAuthError so that
// scripts can distinguish "log in first" (2) from "login failed" (3).
package cli
