package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByChainAndSymbol_Found(t *testing.T) {
	a, ok := ByChainAndSymbol("eip155:1", "usdc")
	require.True(t, ok)
	assert.Equal(t, 6, a.Decimals)
	assert.False(t, a.Native)
}

func TestByChainAndSymbol_NativeAsset(t *testing.T) {
	a, ok := ByChainAndSymbol("eip155:1", "ETH")
	require.True(t, ok)
	assert.True(t, a.Native)
	assert.Equal(t, "", a.Address)
}

func TestByChainAndSymbol_NotFound(t *testing.T) {
	_, ok := ByChainAndSymbol("eip155:1", "BOGUS")
	assert.False(t, ok)
}

func TestOnChain_ReturnsOnlyThatChain(t *testing.T) {
	rows := OnChain("eip155:8453")
	require.Len(t, rows, 2)
	for _, a := range rows {
		assert.Equal(t, "eip155:8453", a.ChainCAIP2)
	}
}

func TestFamilyOf_AliasesToCanonicalFamily(t *testing.T) {
	assert.Equal(t, "USDC", FamilyOf("bbqusdc"))
	assert.Equal(t, "DAI", FamilyOf("DAI"))
}

func TestSameFamily(t *testing.T) {
	assert.True(t, SameFamily("USDC", "BBQUSDC"))
	assert.False(t, SameFamily("USDC", "DAI"))
}

func TestCAIP19_NativeUsesSlip44(t *testing.T) {
	a := Asset{ChainCAIP2: "eip155:1", Native: true}
	assert.Equal(t, "eip155:1/slip44:60", a.CAIP19())
}

func TestCAIP19_Erc20LowercasesAddress(t *testing.T) {
	a := Asset{ChainCAIP2: "eip155:1", Address: "0xABCDEF"}
	assert.Equal(t, "eip155:1/erc20:0xabcdef", a.CAIP19())
}

func TestResolveRaw_LowercasesAddress(t *testing.T) {
	assert.Equal(t, "eip155:1/erc20:0xabc", ResolveRaw("eip155:1", " 0xABC "))
}

func TestIsRawAddress(t *testing.T) {
	assert.True(t, IsRawAddress("0xabc"))
	assert.True(t, IsRawAddress("0XABC"))
	assert.False(t, IsRawAddress("USDC"))
}
