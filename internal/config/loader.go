// internal/config/loader.go
//
// Configuration loader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from three layers (highest
precedence last):

  1. Optional `.env` — `<root>/conf/.env`.
  2. `conf/weave.yaml`.
  3. Environment variables prefixed `WEAVE_`, where `__` maps to “.”
     (e.g., `WEAVE_HTTP__LISTEN_ADDR → http.listen_addr`).

After merging, any string value of the form `vault:<path>#<key>` is
resolved through the Vault client, the tree is unmarshalled into
strongly-typed structs, validated, enriched with the runtime root path,
and cached in an `atomic.Pointer` for lock-free reads.  `Reload()` simply
calls `Load()` again and swaps the pointer.

Notes
-----
  • `rootDir()` climbs the cwd tree until it finds `conf/weave.yaml`;
    this lets `go run ./cmd/web` work from any sub-directory.
  • Vault resolution is skipped entirely when no `vault:` values exist,
    so dev instances run without a Vault server.
  • Oxford commas, two spaces after periods.
*/
package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/yanizio/weave/internal/vault"
)

var current atomic.Pointer[Config]

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves WEAVE_ROOT or climbs directories until conf/weave.yaml
// is found.  Falls back to executable heuristic for production layout.
func rootDir() string {
	if r := os.Getenv("WEAVE_ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", "weave.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load reads .env, YAML, env overrides, resolves Vault refs, validates,
// and caches Config.
func Load() (*Config, error) {
	root := rootDir()
	zap.S().Debugw("config root resolved", "root", root)

	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")

	yamlPath := filepath.Join(root, "conf", "weave.yaml")
	if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
		zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
		return nil, err
	}

	// Env overrides: WEAVE_HTTP__LISTEN_ADDR → http.listen_addr
	if err := k.Load(env.Provider("WEAVE_", ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(
			strings.TrimPrefix(s, "WEAVE_"), "__", "."))
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	if err := resolveVaultRefs(k); err != nil {
		zap.S().Errorw("config vault resolution failed", "err", err)
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}

	cfg.Paths.Root = root
	applyDefaults(&cfg)
	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	current.Store(&cfg)
	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"cache_ttl", cfg.Resolver.CacheTTL,
		"tx_timeout", cfg.Apply.TxTimeout,
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

/*──────────────────────────── vault overlay ───────────────────────────────*/

// resolveVaultRefs walks the flat key set and replaces every value of the
// form `vault:<secret path>#<key>` with the secret it names.  The Vault
// client is created lazily so installs without any `vault:` values never
// contact a Vault server.
func resolveVaultRefs(k *koanf.Koanf) error {
	var cli *vault.Client

	for _, key := range k.Keys() {
		raw, ok := k.Get(key).(string)
		if !ok || !strings.HasPrefix(raw, "vault:") {
			continue
		}

		if cli == nil {
			var err error
			cli, err = vault.New(context.Background(), zap.S().Infof)
			if err != nil {
				return err
			}
		}

		secretPath, secretKey, _ := strings.Cut(strings.TrimPrefix(raw, "vault:"), "#")
		val, err := cli.GetKV(context.Background(), secretPath, secretKey, 0)
		if err != nil {
			return err
		}
		if err := k.Set(key, val); err != nil {
			return err
		}
	}
	return nil
}

/*──────────────────────────── defaults ────────────────────────────────────*/

// applyDefaults fills tunables that have a sensible fallback so a minimal
// YAML file still validates.
func applyDefaults(c *Config) {
	if c.Resolver.CacheTTL == 0 {
		c.Resolver.CacheTTL = DefaultCacheTTL
	}
	if c.Apply.TxTimeout == 0 {
		c.Apply.TxTimeout = DefaultTxTimeout
	}
	if c.HTTP.DevPort == "" {
		c.HTTP.DevPort = DefaultDevPort
	}
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

func Get() *Config  { return current.Load() }
func Reload() error { _, err := Load(); return err }
