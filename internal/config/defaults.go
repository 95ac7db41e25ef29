// internal/config/defaults.go
//
// Fallback tunables applied when the YAML/env layers leave a field unset.
package config

import "time"

const (
	// DefaultCacheTTL bounds domain-mapping snapshot staleness.
	DefaultCacheTTL = 5 * time.Minute

	// DefaultTxTimeout caps the template-application transaction.  Bulk
	// page inserts carry large text payloads, so this is deliberately
	// generous.
	DefaultTxTimeout = 30 * time.Second

	// DefaultDevPort marks a host as a local development instance.
	DefaultDevPort = "3000"
)
