package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowlist_UnsetMeansNil(t *testing.T) {
	p := &Policy{}
	assert.Nil(t, p.Allowlist())
}

func TestAllowlist_ParsesTrimsAndSplits(t *testing.T) {
	p := &Policy{AllowlistRaw: " chainsTop, bridgeQuote ,,swapQuote"}
	got := p.Allowlist()
	assert.Equal(t, map[string]bool{"chainsTop": true, "bridgeQuote": true, "swapQuote": true}, got)
}

func TestAllows_NoAllowlistAllowsEverything(t *testing.T) {
	p := &Policy{}
	assert.True(t, p.Allows("anything"))
}

func TestAllows_RestrictsToListedActions(t *testing.T) {
	p := &Policy{AllowlistRaw: "chainsTop"}
	assert.True(t, p.Allows("chainsTop"))
	assert.False(t, p.Allows("bridgeQuote"))
}

func TestNormalize_DefaultsEmptyCacheDir(t *testing.T) {
	p := &Policy{LiveHTTPTransport: "curl"}
	p.normalize()
	assert.Equal(t, "/tmp/gradience-cache", p.CacheDir)
}

func TestNormalize_LowercasesTransportAndDefaultsBlank(t *testing.T) {
	p := &Policy{LiveHTTPTransport: " CURL "}
	p.normalize()
	assert.Equal(t, "curl", p.LiveHTTPTransport)

	p2 := &Policy{}
	p2.normalize()
	assert.Equal(t, "curl", p2.LiveHTTPTransport)
}

func TestNormalize_NonPositiveTTLDefaultsTo300(t *testing.T) {
	p := &Policy{LiveMarketsTTLSeconds: -5}
	p.normalize()
	assert.Equal(t, 300, p.LiveMarketsTTLSeconds)
}

func TestParseEnvBool(t *testing.T) {
	assert.True(t, ParseEnvBool("true", false))
	assert.False(t, ParseEnvBool("0", true))
	assert.True(t, ParseEnvBool("  ", true))
	assert.False(t, ParseEnvBool("notabool", false))
}
