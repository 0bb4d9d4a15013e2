// Package logging provides the subsystem-scoped structured logger used across
// linkedin-mcp.
//
// It is a thin layer over log/slog. Every entry carries a subsystem attribute
// so output from the authorization flow, the token store and the API client
// can be filtered independently:
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("AuthFlow", "Waiting for OAuth callback on %s", addr)
//	logging.Debug("LinkedIn", "Candidate %s returned %d", name, status)
//	logging.Error("TokenStore", err, "Failed to persist token record")
//
// Output defaults to stderr. The MCP server speaks its protocol over stdout,
// so nothing in this package may ever write there unless asked to.
package logging
