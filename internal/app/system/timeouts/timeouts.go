// Package timeouts provides centralized timeout values for handler
// operations.
//
// These timeouts are used with context.WithTimeout for database work in
// HTTP handlers. Centralizing them keeps the per-operation budget
// consistent across features.
//
// Guidelines for choosing a timeout:
//   - Ping: health checks and connectivity verification
//   - Short: single-document reads or membership lookups
//   - Medium: list queries, simple creates/updates
//   - Long: cascading deletes and multi-collection transactions
package timeouts

import "time"

const (
	ping   = 2 * time.Second
	short  = 5 * time.Second
	medium = 10 * time.Second
	long   = 30 * time.Second
)

// Ping returns the timeout for health checks.
func Ping() time.Duration { return ping }

// Short returns the timeout for simple single-document operations.
// Examples: get by ID, the four membership fact lookups.
func Short() time.Duration { return short }

// Medium returns the timeout for list queries and simple writes.
func Medium() time.Duration { return medium }

// Long returns the timeout for operations touching multiple collections.
// Examples: workspace deletion, member removal with cascades.
func Long() time.Duration { return long }
