// Package logging configures the process-wide slog logger. Logs are JSON
// lines written to a size-rotated file under ~/.openplayground/logs/, and
// optionally mirrored to stderr. Stdio transports (the MCP server) must
// never log to stdout or stderr, see SetupStdioMode.
package logging
