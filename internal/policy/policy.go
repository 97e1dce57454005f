// Package policy loads the process-wide configuration that gates and
// parameterizes dispatch: strict mode, the action allowlist, cache
// location, and the live-data provider endpoints. It is decoded once per
// invocation from the environment, the same way the teacher's pkg/config
// decodes its Config from env vars.
package policy

import (
	"strconv"
	"strings"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Policy is the environment-derived configuration for a single dispatch.
type Policy struct {
	CacheDir     string `env:"ZIG_CORE_CACHE_DIR"`
	Strict       bool   `env:"ZIG_CORE_STRICT"`
	AllowBroadcast bool `env:"ZIG_CORE_ALLOW_BROADCAST"`
	AllowlistRaw string `env:"ZIG_CORE_ALLOWLIST"`

	LlamaPoolsURL  string `env:"DEFI_LLAMA_POOLS_URL"`
	MorphoPoolsURL string `env:"DEFI_MORPHO_POOLS_URL"`
	AavePoolsURL   string `env:"DEFI_AAVE_POOLS_URL"`
	KaminoPoolsURL string `env:"DEFI_KAMINO_POOLS_URL"`

	LiveMarketsTTLSeconds  int  `env:"DEFI_LIVE_MARKETS_TTL_SECONDS"`
	LiveMarketsAllowStale  bool `env:"DEFI_LIVE_MARKETS_ALLOW_STALE"`
	LiveHTTPTransport      string `env:"DEFI_LIVE_HTTP_TRANSPORT"`

	LogLevel  string `env:"LOG_LEVEL"`
	LogFormat string `env:"LOG_FORMAT"`
}

// Load reads a .env file best-effort (ignored if absent, mirroring the
// teacher's config.Load), decodes the tagged Policy struct from the
// environment, and fills in defaults for anything left unset.
func Load() (*Policy, error) {
	_ = godotenv.Load()

	p := &Policy{
		CacheDir:              "/tmp/gradience-cache",
		LiveMarketsTTLSeconds: 300,
		LiveHTTPTransport:     "curl",
		LogLevel:              "info",
		LogFormat:             "json",
	}

	if err := envdecode.Decode(p); err != nil {
		if !strings.Contains(err.Error(), "none of the target fields were set") {
			return nil, err
		}
	}

	p.normalize()
	return p, nil
}

func (p *Policy) normalize() {
	p.CacheDir = strings.TrimSpace(p.CacheDir)
	if p.CacheDir == "" {
		p.CacheDir = "/tmp/gradience-cache"
	}
	p.LiveHTTPTransport = strings.ToLower(strings.TrimSpace(p.LiveHTTPTransport))
	if p.LiveHTTPTransport == "" {
		p.LiveHTTPTransport = "curl"
	}
	if p.LiveMarketsTTLSeconds <= 0 {
		p.LiveMarketsTTLSeconds = 300
	}
}

// Allowlist returns the configured action allowlist as a set, or nil when
// unset (meaning: no allowlist restriction beyond strict mode).
func (p *Policy) Allowlist() map[string]bool {
	raw := strings.TrimSpace(p.AllowlistRaw)
	if raw == "" {
		return nil
	}
	set := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			set[part] = true
		}
	}
	return set
}

// Allows reports whether action is dispatchable under the current
// allowlist. An empty/unset allowlist allows everything.
func (p *Policy) Allows(action string) bool {
	allow := p.Allowlist()
	if allow == nil {
		return true
	}
	return allow[action]
}

// ParseEnvBool mirrors the teacher's lenient boolean env parsing
// (GetEnvBool in infrastructure/config/loader.go) for call sites outside
// envdecode's reach.
func ParseEnvBool(raw string, fallback bool) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}
