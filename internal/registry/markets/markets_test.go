package markets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterLendMarkets_ByChain(t *testing.T) {
	rows := FilterLendMarkets(LendMarketFilter{Chain: "eip155:8453"})
	require.Len(t, rows, 1)
	assert.Equal(t, "morpho", rows[0].Provider)
}

func TestFilterLendMarkets_ByProviderCaseInsensitive(t *testing.T) {
	rows := FilterLendMarkets(LendMarketFilter{Provider: "AAVE"})
	require.Len(t, rows, 1)
	assert.Equal(t, "aave", rows[0].Provider)
}

func TestFilterLendMarkets_MinTvlExcludesBelowThreshold(t *testing.T) {
	rows := FilterLendMarkets(LendMarketFilter{MinTvlUsd: 1_000_000_000})
	require.Len(t, rows, 1)
	assert.Equal(t, "aave", rows[0].Provider)
}

func TestFilterLendMarkets_NoFilterReturnsAll(t *testing.T) {
	rows := FilterLendMarkets(LendMarketFilter{})
	assert.Len(t, rows, 3)
}

func TestFilterYield_ByAssetAndMinApy(t *testing.T) {
	rows := FilterYield(YieldFilter{Asset: "usdc", MinApy: 0.04})
	require.Len(t, rows, 2)
	for _, y := range rows {
		assert.GreaterOrEqual(t, y.Apy, 0.04)
	}
}

func TestFilterYield_ByProviderNoMatch(t *testing.T) {
	rows := FilterYield(YieldFilter{Provider: "nonexistent"})
	assert.Empty(t, rows)
}
