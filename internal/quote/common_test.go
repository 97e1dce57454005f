package quote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r3e-network/defi-dispatcher/internal/apperr"
)

func TestSelect_PinnedProviderWins(t *testing.T) {
	sel, err := Select(SelectInput{Provider: "lifi", Category: "bridge"}, "across")
	require.Nil(t, err)
	assert.Equal(t, "lifi", sel.Provider.Name)
	assert.Equal(t, "provider", sel.Source)
}

func TestSelect_PinnedProviderWrongCategoryIsUnsupported(t *testing.T) {
	_, err := Select(SelectInput{Provider: "aave", Category: "bridge"}, "across")
	require.NotNil(t, err)
	de := apperr.AsDispatchError(err)
	require.NotNil(t, de)
	assert.Equal(t, apperr.CodeUnsupported, de.Code)
}

func TestSelect_ProvidersListFirstMatchWins(t *testing.T) {
	sel, err := Select(SelectInput{Providers: []string{"bogus", "bungee", "lifi"}, Category: "bridge"}, "across")
	require.Nil(t, err)
	assert.Equal(t, "bungee", sel.Provider.Name)
	assert.Equal(t, "providers", sel.Source)
}

func TestSelect_ProvidersListAllMissFallsBackToRouteDefault(t *testing.T) {
	sel, err := Select(SelectInput{Providers: []string{"bogus", "alsobogus"}, Category: "bridge"}, "across")
	require.Nil(t, err)
	assert.Equal(t, "across", sel.Provider.Name)
	assert.Equal(t, "providers", sel.Source)
}

func TestSelect_ProvidersListExactOutputOnlyAllMissIsUnsupported(t *testing.T) {
	_, err := Select(SelectInput{Providers: []string{"1inch", "jupiter"}, Category: "swap", ExactOutputOnly: true}, "uniswap")
	require.NotNil(t, err)
	de := apperr.AsDispatchError(err)
	require.NotNil(t, de)
	assert.Equal(t, apperr.CodeUnsupported, de.Code)
}

func TestSelect_StrategyFastestPicksLowestEta(t *testing.T) {
	sel, err := Select(SelectInput{Strategy: "fastest", Category: "bridge"}, "across")
	require.Nil(t, err)
	assert.Equal(t, "bungee", sel.Provider.Name) // 150s, lowest eta among bridge providers
	assert.Equal(t, "strategy", sel.Source)
}

func TestSelect_StrategyLowestFeePicksCheapest(t *testing.T) {
	sel, err := Select(SelectInput{Strategy: "lowestFee", Category: "bridge"}, "across")
	require.Nil(t, err)
	assert.Equal(t, "across", sel.Provider.Name) // 4 bps, lowest among bridge providers
	assert.Equal(t, "strategy", sel.Source)
}

func TestSelect_StrategyCaseInsensitive(t *testing.T) {
	sel, err := Select(SelectInput{Strategy: "LOWESTFEE", Category: "bridge"}, "across")
	require.Nil(t, err)
	assert.Equal(t, "across", sel.Provider.Name)
}

func TestSelect_InvalidStrategyIsValidationError(t *testing.T) {
	_, err := Select(SelectInput{Strategy: "cheapest", Category: "bridge"}, "across")
	require.NotNil(t, err)
	de := apperr.AsDispatchError(err)
	require.NotNil(t, de)
	assert.Equal(t, apperr.CodeValidation, de.Code)
}

func TestSelect_NoneGivenUsesRouteDefault(t *testing.T) {
	sel, err := Select(SelectInput{Category: "bridge"}, "across")
	require.Nil(t, err)
	assert.Equal(t, "across", sel.Provider.Name)
	assert.Equal(t, "provider", sel.Source)
}

func TestSelect_NoneGivenExactOutputUsesDefaultExactOutputSource(t *testing.T) {
	sel, err := Select(SelectInput{Category: "swap", ExactOutputOnly: true}, "uniswap")
	require.Nil(t, err)
	assert.Equal(t, "uniswap", sel.Provider.Name)
	assert.Equal(t, "default_exact_output", sel.Source)
}

func TestApplyFeeBps_TruncatesTowardZero(t *testing.T) {
	out, err := applyFeeBps("1000000", 7)
	require.NoError(t, err)
	assert.Equal(t, "999300", out)
}

func TestApplyFeeBps_InvalidAmountIsError(t *testing.T) {
	_, err := applyFeeBps("not-a-number", 7)
	require.Error(t, err)
}

func TestApplyFeeMicros_TruncatesTowardZero(t *testing.T) {
	out, err := applyFeeMicros("1000000", 1099)
	require.NoError(t, err)
	assert.Equal(t, "998901", out)
}

func TestInvertFeeMicros_RoundsUp(t *testing.T) {
	out, err := invertFeeMicros("998901", 1499)
	require.NoError(t, err)
	// (998901 * 1_000_000) / 998501 ceiling
	assert.Equal(t, "1000401", out)
}

func TestInvertFeeMicros_InvalidAmountIsError(t *testing.T) {
	_, err := invertFeeMicros("abc", 1499)
	require.Error(t, err)
}
