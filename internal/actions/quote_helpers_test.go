package actions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r3e-network/defi-dispatcher/internal/apperr"
)

func TestValidateBaseAmount_AcceptsDigitsOnly(t *testing.T) {
	assert.Nil(t, validateBaseAmount("1000000"))
	assert.Nil(t, validateBaseAmount("0"))
}

func TestValidateBaseAmount_RejectsNonDigits(t *testing.T) {
	for _, bad := range []string{"1.5", "-5", "1e6", "", "abc", " 5"} {
		err := validateBaseAmount(bad)
		require.NotNil(t, err, "expected error for %q", bad)
		assert.Equal(t, apperr.CodeValidation, err.Code)
	}
}

func TestAmountOutFromDecimal_ShiftsByDecimals(t *testing.T) {
	out, err := amountOutFromDecimal("0.5", 6)
	require.Nil(t, err)
	assert.Equal(t, "500000", out)
}

func TestAmountOutFromDecimal_TruncatesExcessPrecision(t *testing.T) {
	out, err := amountOutFromDecimal("0.0000001", 6)
	require.Nil(t, err)
	assert.Equal(t, "0", out)
}

func TestAmountOutFromDecimal_RejectsNegative(t *testing.T) {
	_, err := amountOutFromDecimal("-1", 6)
	require.NotNil(t, err)
	assert.Equal(t, apperr.CodeValidation, err.Code)
}

func TestAmountOutFromDecimal_RejectsUnparseable(t *testing.T) {
	_, err := amountOutFromDecimal("not-a-number", 6)
	require.NotNil(t, err)
}

func TestProviderSelectionParams_AllAbsentIsZeroValue(t *testing.T) {
	provider, providersList, strategy, err := providerSelectionParams(map[string]interface{}{})
	require.Nil(t, err)
	assert.Equal(t, "", provider)
	assert.Nil(t, providersList)
	assert.Equal(t, "", strategy)
}

func TestProviderSelectionParams_BlankProviderIsError(t *testing.T) {
	_, _, _, err := providerSelectionParams(map[string]interface{}{"provider": "   "})
	require.NotNil(t, err)
	assert.Equal(t, apperr.CodeValidation, err.Code)
}

func TestProviderSelectionParams_BlankProvidersListIsError(t *testing.T) {
	_, _, _, err := providerSelectionParams(map[string]interface{}{"providers": "   "})
	require.NotNil(t, err)
	assert.Equal(t, apperr.CodeValidation, err.Code)
}

func TestProviderSelectionParams_PopulatedFields(t *testing.T) {
	p := map[string]interface{}{"provider": " lifi ", "strategy": " fastest "}
	provider, _, strategy, err := providerSelectionParams(p)
	require.Nil(t, err)
	assert.Equal(t, "lifi", provider)
	assert.Equal(t, "fastest", strategy)
}

func TestProviderSelectionParams_SplitsProvidersList(t *testing.T) {
	p := map[string]interface{}{"providers": "lifi, across"}
	_, providersList, _, err := providerSelectionParams(p)
	require.Nil(t, err)
	assert.Equal(t, []string{"lifi", "across"}, providersList)
}

func TestResolveOptionalChain_AbsentIsEmptyNoError(t *testing.T) {
	c, err := resolveOptionalChain(map[string]interface{}{}, "chain")
	require.Nil(t, err)
	assert.Equal(t, "", c)
}

func TestResolveOptionalChain_ResolvesKnownChain(t *testing.T) {
	c, err := resolveOptionalChain(map[string]interface{}{"chain": "ethereum"}, "chain")
	require.Nil(t, err)
	assert.Equal(t, "eip155:1", c)
}

func TestResolveOptionalChain_UnknownIsUnsupportedError(t *testing.T) {
	_, err := resolveOptionalChain(map[string]interface{}{"chain": "bogus-chain"}, "chain")
	require.NotNil(t, err)
	assert.Equal(t, apperr.CodeUnsupported, err.Code)
}
