package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName_CaseInsensitive(t *testing.T) {
	p, ok := ByName("LiFi")
	require.True(t, ok)
	assert.Equal(t, "lifi", p.Name)
}

func TestByName_NotFound(t *testing.T) {
	_, ok := ByName("nonexistent")
	assert.False(t, ok)
}

func TestHasCategory(t *testing.T) {
	p, _ := ByName("morpho")
	assert.True(t, p.HasCategory("lend"))
	assert.True(t, p.HasCategory("YIELD"))
	assert.False(t, p.HasCategory("bridge"))
}

func TestHasCapability(t *testing.T) {
	p, _ := ByName("uniswap")
	assert.True(t, p.HasCapability("swap.quote.exactOutput"))
	assert.False(t, p.HasCapability("swap.quote.exactOutputBogus"))
}

func TestByCategory_ReturnsOnlyMatchingCategory(t *testing.T) {
	bridges := ByCategory("bridge")
	require.Len(t, bridges, 3)
	for _, p := range bridges {
		assert.Contains(t, p.Categories, "bridge")
	}
}

func TestByCapability_ReturnsOnlyDeclaring(t *testing.T) {
	exactOutput := ByCapability("swap.quote.exactOutput")
	require.Len(t, exactOutput, 1)
	assert.Equal(t, "uniswap", exactOutput[0].Name)
}

func TestRouteDefaults_ResolveToRegisteredProviders(t *testing.T) {
	for _, name := range []string{BridgeDefault, SwapDefault, SwapExactOutputDefault} {
		_, ok := ByName(name)
		assert.True(t, ok, "default %q must be registered", name)
	}
}
