package quote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r3e-network/defi-dispatcher/internal/apperr"
)

func TestSwap_ExactInputDefaultProvider(t *testing.T) {
	res, err := Swap(SwapRequest{TradeType: ExactInput, AmountIn: "1000000"})
	require.NoError(t, err)
	assert.Equal(t, "1inch", res.Provider)
	assert.Equal(t, "1000000", res.EstimatedAmountIn)
	assert.Equal(t, "998901", res.EstimatedAmountOut)
	assert.Equal(t, ExactInput, res.TradeType)
	assert.Equal(t, 10, res.FeeBps) // 1099 micros / 100, truncated
	assert.Equal(t, 10, res.PriceImpactBps)
	assert.Equal(t, "provider", res.Source)
}

func TestSwap_ExactOutputDefaultProviderIsUniswap(t *testing.T) {
	res, err := Swap(SwapRequest{TradeType: ExactOutput, AmountOut: "998901"})
	require.NoError(t, err)
	assert.Equal(t, "uniswap", res.Provider)
	assert.Equal(t, "998901", res.EstimatedAmountOut)
	assert.Equal(t, ExactOutput, res.TradeType)
	assert.Equal(t, "default_exact_output", res.Source)
}

func TestSwap_ExactOutputRejectsNonSupportingProvider(t *testing.T) {
	_, err := Swap(SwapRequest{TradeType: ExactOutput, AmountOut: "1000000", Provider: "1inch"})
	require.Error(t, err)
	de := apperr.AsDispatchError(err)
	require.NotNil(t, de)
	assert.Equal(t, apperr.CodeUnsupported, de.Code)
}

func TestSwap_SlippageRejectedByUnsupportingProvider(t *testing.T) {
	_, err := Swap(SwapRequest{TradeType: ExactInput, AmountIn: "1000000", Provider: "jupiter", SlippagePct: 0.5})
	require.Error(t, err)
	de := apperr.AsDispatchError(err)
	require.NotNil(t, de)
	assert.Equal(t, apperr.CodeValidation, de.Code)
}

func TestSwap_SlippageAcceptedBySupportingProvider(t *testing.T) {
	res, err := Swap(SwapRequest{TradeType: ExactInput, AmountIn: "1000000", Provider: "uniswap", SlippagePct: 0.5})
	require.NoError(t, err)
	assert.Equal(t, "uniswap", res.Provider)
}

func TestSwap_InvalidAmountOutIsError(t *testing.T) {
	_, err := Swap(SwapRequest{TradeType: ExactOutput, AmountOut: "not-a-number", Provider: "uniswap"})
	require.Error(t, err)
}

func TestPriceImpactFromMicros_TruncatesDown(t *testing.T) {
	assert.Equal(t, 10, priceImpactFromMicros(1099))
	assert.Equal(t, 0, priceImpactFromMicros(99))
}
