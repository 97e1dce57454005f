package chains

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_ByName(t *testing.T) {
	c, ok := Resolve("Ethereum")
	require.True(t, ok)
	assert.Equal(t, "eip155:1", c.CAIP2)
}

func TestResolve_ByNumericID(t *testing.T) {
	c, ok := Resolve("8453")
	require.True(t, ok)
	assert.Equal(t, "base", c.Name)
}

func TestResolve_ByCAIP2CaseInsensitive(t *testing.T) {
	c, ok := Resolve("EIP155:42161")
	require.True(t, ok)
	assert.Equal(t, "arbitrum", c.Name)
}

func TestResolve_UnknownIsFalse(t *testing.T) {
	_, ok := Resolve("fantom")
	assert.False(t, ok)
}

func TestResolve_BlankIsFalse(t *testing.T) {
	_, ok := Resolve("   ")
	assert.False(t, ok)
}

func TestTop_OrdersByRankAndRespectsLimit(t *testing.T) {
	top := Top(2)
	require.Len(t, top, 2)
	assert.Equal(t, "ethereum", top[0].Name)
	assert.Equal(t, "base", top[1].Name)
}

func TestTop_NonPositiveLimitReturnsAll(t *testing.T) {
	assert.Equal(t, All(), Top(0))
	assert.Equal(t, All(), Top(-1))
}

func TestTop_LimitBeyondLengthReturnsAll(t *testing.T) {
	assert.Len(t, Top(1000), len(All()))
}
