// Package markets holds the compiled-in, registry-backed lend market and
// yield opportunity rows used as the non-live fallback source (and, when
// liveMode is off, the sole source) for lendMarkets, lendRates, and
// yieldOpportunities.
package markets

import "strings"

// LendMarket is one provider/chain/asset lending row, shared by lendMarkets
// and lendRates (the latter returns only the first matching row).
type LendMarket struct {
	Provider  string
	Chain     string // CAIP-2
	Asset     string // symbol
	SupplyApy float64
	BorrowApy float64
	TvlUsd    float64
}

// YieldOpportunity is one provider/chain/asset yield row.
type YieldOpportunity struct {
	Provider string
	Chain    string // CAIP-2
	Asset    string // symbol
	Apy      float64
	TvlUsd   float64
	PoolID   string
}

var lendSeed = []LendMarket{
	{Provider: "aave", Chain: "eip155:1", Asset: "USDC", SupplyApy: 0.031, BorrowApy: 0.045, TvlUsd: 1_200_000_000},
	{Provider: "morpho", Chain: "eip155:8453", Asset: "USDC", SupplyApy: 0.028, BorrowApy: 0.038, TvlUsd: 300_000_000},
	{Provider: "kamino", Chain: "solana:5eykt4UsFv8P8NJdTREpY1vzqKqZKvdpKuc147dw2N9d", Asset: "USDC", SupplyApy: 0.036, BorrowApy: 0.049, TvlUsd: 90_000_000},
}

var yieldSeed = []YieldOpportunity{
	{Provider: "morpho", Chain: "eip155:8453", Asset: "USDC", Apy: 0.041, TvlUsd: 150_000_000, PoolID: "morpho-base-usdc"},
	{Provider: "kamino", Chain: "solana:5eykt4UsFv8P8NJdTREpY1vzqKqZKvdpKuc147dw2N9d", Asset: "USDC", Apy: 0.052, TvlUsd: 80_000_000, PoolID: "kamino-sol-usdc"},
	{Provider: "defillama", Chain: "eip155:1", Asset: "USDC", Apy: 0.035, TvlUsd: 300_000_000, PoolID: "defillama-eth-usdc"},
}

// LendMarketFilter narrows the lend market/rate table.
type LendMarketFilter struct {
	Chain    string // CAIP-2; "" means any
	Asset    string // symbol; "" means any
	Provider string // "" means any
	MinTvlUsd float64
}

// FilterLendMarkets returns every seeded lend row matching filter.
func FilterLendMarkets(f LendMarketFilter) []LendMarket {
	var out []LendMarket
	for _, m := range lendSeed {
		if f.Chain != "" && m.Chain != f.Chain {
			continue
		}
		if f.Asset != "" && !strings.EqualFold(m.Asset, f.Asset) {
			continue
		}
		if f.Provider != "" && !strings.EqualFold(m.Provider, f.Provider) {
			continue
		}
		if f.MinTvlUsd > 0 && m.TvlUsd < f.MinTvlUsd {
			continue
		}
		out = append(out, m)
	}
	return out
}

// YieldFilter narrows the yield opportunity table.
type YieldFilter struct {
	Chain     string
	Asset     string
	Provider  string
	MinTvlUsd float64
	MinApy    float64
}

// FilterYield returns every seeded yield opportunity matching filter.
func FilterYield(f YieldFilter) []YieldOpportunity {
	var out []YieldOpportunity
	for _, y := range yieldSeed {
		if f.Chain != "" && y.Chain != f.Chain {
			continue
		}
		if f.Asset != "" && !strings.EqualFold(y.Asset, f.Asset) {
			continue
		}
		if f.Provider != "" && !strings.EqualFold(y.Provider, f.Provider) {
			continue
		}
		if f.MinTvlUsd > 0 && y.TvlUsd < f.MinTvlUsd {
			continue
		}
		if f.MinApy > 0 && y.Apy < f.MinApy {
			continue
		}
		out = append(out, y)
	}
	return out
}
