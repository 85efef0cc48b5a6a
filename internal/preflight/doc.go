// Package preflight checks that playground can run with a configuration
// before any surface starts.
//
// The package validates:
//   - The catalog file exists and parses
//   - The bookmark/theme store opens and round-trips a value
//   - Disk space at the store location (minimum 10MB)
//   - File descriptor limits (256 recommended)
//   - The log directory is writable
//
// Use the Checker type to run all validations:
//
//	checker := preflight.New()
//	results := checker.RunAll(ctx, cfg)
//	if checker.HasCriticalFailures(results) {
//	    // Handle failures
//	}
package preflight
