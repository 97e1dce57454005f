package quote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBridge_DefaultProviderAppliesFeeBps(t *testing.T) {
	res, err := Bridge(BridgeRequest{AmountIn: "1000000"})
	require.NoError(t, err)
	assert.Equal(t, "across", res.Provider)
	assert.Equal(t, "1000000", res.AmountIn)
	assert.Equal(t, "999600", res.EstimatedAmountOut) // across: 4 bps
	assert.Equal(t, 4, res.FeeBps)
	assert.Equal(t, 600, res.EtaSeconds)
	assert.Equal(t, "provider", res.Source)
	assert.Equal(t, 4, res.PriceImpactBps)
}

func TestBridge_PinnedProvider(t *testing.T) {
	res, err := Bridge(BridgeRequest{AmountIn: "1000000", Provider: "bungee"})
	require.NoError(t, err)
	assert.Equal(t, "bungee", res.Provider)
	assert.Equal(t, 10, res.FeeBps)
}

func TestBridge_UnknownProviderIsError(t *testing.T) {
	_, err := Bridge(BridgeRequest{AmountIn: "1000000", Provider: "nonexistent"})
	require.Error(t, err)
}

func TestBridge_InvalidAmountIsError(t *testing.T) {
	_, err := Bridge(BridgeRequest{AmountIn: "not-an-amount"})
	require.Error(t, err)
}
