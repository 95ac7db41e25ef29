// internal/config/model.go
//
// Typed configuration model for Weave.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                         – dotenv values,
//   • `conf/weave.yaml`                       – primary static file,
//   • `WEAVE_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client *before* unmarshalling, so the model never
// stores Vault URIs—only plain strings.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`—Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.  DevPort is the port token that marks a
// request host as a local development instance; the routing middleware
// never attempts tenant resolution for it.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	ForceHTTPS bool   `koanf:"force_https"`
	DevPort    string `koanf:"dev_port"`
}

//
// Database section
//

// Database holds the control-plane DSN.  The DSN template lives in YAML so
// operators can tweak host, port, or flags without touching Vault; the
// password is stored in Vault and injected at runtime via the `vault:`
// prefix, keeping credentials out of flat files and git history.
type Database struct {
	DSN      string `koanf:"dsn"      validate:"required"`
	Password string `koanf:"password"`
}

//
// Resolver section
//

// Resolver tunes the domain-mapping cache.  TTL bounds staleness; an
// expired snapshot is still served when a refresh fails.
type Resolver struct {
	CacheTTL time.Duration `koanf:"cache_ttl" validate:"required"`
}

//
// Apply section
//

// Apply tunes the template-application transaction.  The timeout is
// generous because the bulk insert can carry many large text payloads.
type Apply struct {
	TxTimeout time.Duration `koanf:"tx_timeout" validate:"required"`
}

//
// Geo section
//

// Geo points at an optional GeoLite2 database for request enrichment.
// Empty path disables geo lookups.
type Geo struct {
	DBPath string `koanf:"db_path"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime—never set in YAML or env.  The loader
// discovers `Root` (repo root or WEAVE_ROOT override) so later code can
// build absolute file paths.
type Paths struct {
	Root string // WEAVE_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Database Database `koanf:"database"`
	Resolver Resolver `koanf:"resolver"`
	Apply    Apply    `koanf:"apply"`
	Geo      Geo      `koanf:"geo"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}
