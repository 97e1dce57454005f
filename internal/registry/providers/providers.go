// Package providers holds the compiled-in provider registry: the closed set
// of bridge/swap/lend/yield providers this dispatcher can quote against,
// their capabilities, required auth env vars, and deterministic quote
// parameters (fee/eta for bridge and swap synthesis).
package providers

import "strings"

// CapabilityAuth names the env var required to authenticate a capability.
type CapabilityAuth struct {
	Capability string `json:"capability"`
	Auth       string `json:"auth"`
}

// Provider is one row of the registry.
type Provider struct {
	Name             string
	Categories       []string // e.g. "bridge", "swap", "lend", "yield"
	Capabilities     []string // e.g. "bridge.quote", "swap.quote.exactOutput"
	CapabilityAuth   []CapabilityAuth
	FeeBps           int // bridge fee, parts per 10,000
	FeeMicros        int // swap fee, parts per 1,000,000 (finer granularity)
	EtaSeconds       int
	ExactOutput      bool // swap providers only: supports exact-output trades
	SlippageSupported bool // swap providers only: accepts a slippagePct request field
}

var registry = []Provider{
	{
		Name: "lifi", Categories: []string{"bridge"}, Capabilities: []string{"bridge.quote"},
		CapabilityAuth: []CapabilityAuth{{Capability: "bridge.quote", Auth: "LIFI_API_KEY"}},
		FeeBps: 7, EtaSeconds: 900,
	},
	{
		Name: "across", Categories: []string{"bridge"}, Capabilities: []string{"bridge.quote"},
		CapabilityAuth: []CapabilityAuth{{Capability: "bridge.quote", Auth: "ACROSS_API_KEY"}},
		FeeBps: 4, EtaSeconds: 600,
	},
	{
		Name: "bungee", Categories: []string{"bridge"}, Capabilities: []string{"bridge.quote"},
		CapabilityAuth: []CapabilityAuth{{Capability: "bridge.quote", Auth: "BUNGEE_API_KEY"}},
		FeeBps: 10, EtaSeconds: 150,
	},
	{
		Name: "1inch", Categories: []string{"swap"}, Capabilities: []string{"swap.quote"},
		CapabilityAuth: []CapabilityAuth{{Capability: "swap.quote", Auth: "1INCH_API_KEY"}},
		FeeMicros: 1099, EtaSeconds: 12, SlippageSupported: true,
	},
	{
		Name: "uniswap", Categories: []string{"swap"}, Capabilities: []string{"swap.quote", "swap.quote.exactOutput"},
		CapabilityAuth: []CapabilityAuth{{Capability: "swap.quote", Auth: "UNISWAP_API_KEY"}},
		FeeMicros: 1499, EtaSeconds: 15, ExactOutput: true, SlippageSupported: true,
	},
	{
		Name: "paraswap", Categories: []string{"swap"}, Capabilities: []string{"swap.quote"},
		CapabilityAuth: []CapabilityAuth{{Capability: "swap.quote", Auth: "PARASWAP_API_KEY"}},
		FeeMicros: 1800, EtaSeconds: 20, SlippageSupported: true,
	},
	{
		Name: "jupiter", Categories: []string{"swap"}, Capabilities: []string{"swap.quote"},
		CapabilityAuth: []CapabilityAuth{{Capability: "swap.quote", Auth: "JUPITER_API_KEY"}},
		FeeMicros: 1600, EtaSeconds: 8,
	},
	{
		Name: "aave", Categories: []string{"lend"}, Capabilities: []string{"lend.markets", "lend.rates"},
		CapabilityAuth: []CapabilityAuth{{Capability: "lend.rates", Auth: "AAVE_API_KEY"}},
	},
	{
		Name: "morpho", Categories: []string{"lend", "yield"}, Capabilities: []string{"lend.markets", "lend.rates", "yield.opportunities"},
		CapabilityAuth: []CapabilityAuth{{Capability: "lend.rates", Auth: "MORPHO_API_KEY"}},
	},
	{
		Name: "kamino", Categories: []string{"lend", "yield"}, Capabilities: []string{"lend.markets", "yield.opportunities"},
		CapabilityAuth: []CapabilityAuth{{Capability: "yield.opportunities", Auth: "KAMINO_API_KEY"}},
	},
	{
		Name: "defillama", Categories: []string{"yield"}, Capabilities: []string{"yield.opportunities"},
	},
}

// All returns every registered provider.
func All() []Provider {
	out := make([]Provider, len(registry))
	copy(out, registry)
	return out
}

// ByName looks up a provider by case-insensitive exact name.
func ByName(name string) (Provider, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, p := range registry {
		if strings.ToLower(p.Name) == name {
			return p, true
		}
	}
	return Provider{}, false
}

// HasCategory reports whether the provider is registered under category.
func (p Provider) HasCategory(category string) bool {
	category = strings.ToLower(category)
	for _, c := range p.Categories {
		if strings.ToLower(c) == category {
			return true
		}
	}
	return false
}

// HasCapability reports whether the provider declares capability.
func (p Provider) HasCapability(capability string) bool {
	capability = strings.ToLower(capability)
	for _, c := range p.Capabilities {
		if strings.ToLower(c) == capability {
			return true
		}
	}
	return false
}

// ByCategory returns every provider registered under category.
func ByCategory(category string) []Provider {
	var out []Provider
	for _, p := range registry {
		if p.HasCategory(category) {
			out = append(out, p)
		}
	}
	return out
}

// ByCapability returns every provider declaring capability.
func ByCapability(capability string) []Provider {
	var out []Provider
	for _, p := range registry {
		if p.HasCapability(capability) {
			out = append(out, p)
		}
	}
	return out
}

// BridgeDefault is the route-default bridge provider used both when no
// provider/providers/strategy param is given and as the terminal fallback
// when a caller-supplied providers list matches nothing registered.
const BridgeDefault = "across"

// SwapDefault is the route-default swap provider (same dual role as
// BridgeDefault) for exact-input trades.
const SwapDefault = "1inch"

// SwapExactOutputDefault is the only provider in this registry offering
// exact-output swap quotes.
const SwapExactOutputDefault = "uniswap"
