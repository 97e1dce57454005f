// Package chains holds the compiled-in chain registry: the closed set of
// chains this dispatcher knows about, their CAIP-2 identifiers, and a top-N
// ranking used by chainsTop.
package chains

import "strings"

// Chain is one row of the registry.
type Chain struct {
	Name   string // canonical lowercase name, e.g. "ethereum"
	CAIP2  string // e.g. "eip155:1"
	NumID  string // numeric chain id as it appears in aliases, e.g. "1"
	Rank   int
	TVLUSD float64
}

var registry = []Chain{
	{Name: "ethereum", CAIP2: "eip155:1", NumID: "1", Rank: 1, TVLUSD: 61_200_000_000},
	{Name: "base", CAIP2: "eip155:8453", NumID: "8453", Rank: 2, TVLUSD: 8_400_000_000},
	{Name: "arbitrum", CAIP2: "eip155:42161", NumID: "42161", Rank: 3, TVLUSD: 5_100_000_000},
	{Name: "solana", CAIP2: "solana:5eykt4UsFv8P8NJdTREpY1vzqKqZKvdpKuc147dw2N9d", NumID: "", Rank: 4, TVLUSD: 4_300_000_000},
	{Name: "monad", CAIP2: "eip155:10143", NumID: "10143", Rank: 5, TVLUSD: 520_000_000},
}

// aliasIndex maps any input spelling (name, numeric id, or the CAIP-2 string
// itself) to the registry index.
var aliasIndex = buildAliasIndex()

func buildAliasIndex() map[string]int {
	idx := make(map[string]int)
	for i, c := range registry {
		idx[strings.ToLower(c.Name)] = i
		idx[strings.ToLower(c.CAIP2)] = i
		if c.NumID != "" {
			idx[c.NumID] = i
		}
	}
	return idx
}

// Resolve looks up a chain by name, numeric chain id, or CAIP-2 string.
// The lookup is exact after trimming/lowercasing; it does not fuzzy-match.
func Resolve(input string) (Chain, bool) {
	key := strings.ToLower(strings.TrimSpace(input))
	if key == "" {
		return Chain{}, false
	}
	i, ok := aliasIndex[key]
	if !ok {
		return Chain{}, false
	}
	return registry[i], true
}

// All returns every registered chain, ordered by Rank ascending.
func All() []Chain {
	out := make([]Chain, len(registry))
	copy(out, registry)
	return out
}

// Top returns the first limit chains ordered by rank. limit <= 0 returns
// every chain.
func Top(limit int) []Chain {
	all := All()
	if limit <= 0 || limit >= len(all) {
		return all
	}
	return all[:limit]
}
