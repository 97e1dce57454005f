// Package assets holds the compiled-in per-chain asset registry and CAIP-19
// identifier construction, plus stablecoin "family" matching (e.g. USDC and
// a wrapped variant like BBQUSDC are treated as the same family for quote
// and yield matching purposes).
package assets

import "strings"

// Asset is one row of the registry: a token (or native currency) on a
// specific chain.
type Asset struct {
	ChainCAIP2 string
	Symbol     string // canonical uppercase symbol
	Address    string // lowercase hex contract address; "" for native
	Decimals   int
	Family     string // e.g. "USDC"; defaults to Symbol when unset
	Native     bool
}

var registry = []Asset{
	{ChainCAIP2: "eip155:1", Symbol: "USDC", Address: "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", Decimals: 6, Family: "USDC"},
	{ChainCAIP2: "eip155:1", Symbol: "DAI", Address: "0x6b175474e89094c44da98b954eedeac495271d0f", Decimals: 18, Family: "DAI"},
	{ChainCAIP2: "eip155:1", Symbol: "ETH", Decimals: 18, Native: true, Family: "ETH"},

	{ChainCAIP2: "eip155:8453", Symbol: "USDC", Address: "0x833589fcd6edb6e08f4c7c32d4f71b54bda02913", Decimals: 6, Family: "USDC"},
	{ChainCAIP2: "eip155:8453", Symbol: "ETH", Decimals: 18, Native: true, Family: "ETH"},

	{ChainCAIP2: "eip155:42161", Symbol: "USDC", Address: "0xaf88d065e77c8cc2239327c5edb3a432268e5831", Decimals: 6, Family: "USDC"},
	{ChainCAIP2: "eip155:42161", Symbol: "ETH", Decimals: 18, Native: true, Family: "ETH"},

	{ChainCAIP2: "solana:5eykt4UsFv8P8NJdTREpY1vzqKqZKvdpKuc147dw2N9d", Symbol: "USDC", Address: "epjfwdd5aufqssqem2qn1xzybapc8g4weggkzwytdt1v", Decimals: 6, Family: "USDC"},
}

// familyAliases maps a non-canonical symbol spelling to the family it
// belongs to, for providers that quote wrapped/rebased variants of a
// mainstream stablecoin (e.g. "BBQUSDC" quoting against the USDC family).
var familyAliases = map[string]string{
	"BBQUSDC": "USDC",
}

// FamilyOf returns the stablecoin family a symbol belongs to.
func FamilyOf(symbol string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if f, ok := familyAliases[symbol]; ok {
		return f
	}
	return symbol
}

// SameFamily reports whether two symbols resolve to the same family.
func SameFamily(a, b string) bool {
	return FamilyOf(a) == FamilyOf(b)
}

// ByChainAndSymbol looks up a registered asset by chain CAIP-2 and symbol
// (case-insensitive, exact symbol match — not family-fuzzy).
func ByChainAndSymbol(chainCAIP2, symbol string) (Asset, bool) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	for _, a := range registry {
		if a.ChainCAIP2 == chainCAIP2 && a.Symbol == symbol {
			return a, true
		}
	}
	return Asset{}, false
}

// OnChain returns every registered asset for a given chain CAIP-2 id.
func OnChain(chainCAIP2 string) []Asset {
	var out []Asset
	for _, a := range registry {
		if a.ChainCAIP2 == chainCAIP2 {
			out = append(out, a)
		}
	}
	return out
}

// CAIP19 renders an asset's canonical CAIP-19 identifier.
func (a Asset) CAIP19() string {
	if a.Native {
		return a.ChainCAIP2 + "/slip44:60"
	}
	return a.ChainCAIP2 + "/erc20:" + strings.ToLower(a.Address)
}

// ResolveRaw builds a CAIP-19 id directly from a raw 0x-address on a chain,
// without requiring the address be in the registry (assetsResolve's
// fallback path for arbitrary token addresses). The address is lowercased.
func ResolveRaw(chainCAIP2, rawAddress string) string {
	return chainCAIP2 + "/erc20:" + strings.ToLower(strings.TrimSpace(rawAddress))
}

// IsRawAddress reports whether input looks like a raw hex address rather
// than a registered symbol.
func IsRawAddress(input string) bool {
	return strings.HasPrefix(input, "0x") || strings.HasPrefix(input, "0X")
}
