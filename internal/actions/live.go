package actions

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/r3e-network/defi-dispatcher/internal/apperr"
	"github.com/r3e-network/defi-dispatcher/internal/dispatch"
	"github.com/r3e-network/defi-dispatcher/internal/envelope"
	"github.com/r3e-network/defi-dispatcher/internal/livedata"
	"github.com/r3e-network/defi-dispatcher/internal/params"
	"github.com/r3e-network/defi-dispatcher/internal/registry/markets"
	"github.com/r3e-network/defi-dispatcher/internal/registry/providers"
)

// liveRequest bundles the liveMode/liveProvider axes shared by
// yieldOpportunities, lendMarkets, and lendRates.
type liveRequest struct {
	Mode     livedata.Mode
	Provider string // "" means auto: try the natural primary, fall back to defillama
}

func parseLiveRequest(p map[string]interface{}) liveRequest {
	mode := strings.ToLower(params.String(p, "liveMode"))
	switch mode {
	case "auto", "live":
	default:
		mode = "off"
	}
	provider := params.String(p, "liveProvider")
	if strings.EqualFold(provider, "auto") {
		provider = ""
	}
	return liveRequest{Mode: livedata.Mode(mode), Provider: provider}
}

// providerURL returns the configured live endpoint for a provider name, or
// "" when unset.
func providerURL(env *dispatch.Env, name string) string {
	switch strings.ToLower(name) {
	case "defillama":
		return env.Policy.LlamaPoolsURL
	case "morpho":
		return env.Policy.MorphoPoolsURL
	case "aave":
		return env.Policy.AavePoolsURL
	case "kamino":
		return env.Policy.KaminoPoolsURL
	default:
		return ""
	}
}

func newLiveLayer(env *dispatch.Env) *livedata.Layer {
	return &livedata.Layer{
		Cache:      env.Cache,
		Fetcher:    env.Fetcher,
		TTL:        time.Duration(env.Policy.LiveMarketsTTLSeconds) * time.Second,
		AllowStale: env.Policy.LiveMarketsAllowStale,
	}
}

// liveResolve runs the §4.H state machine for a live-eligible action.
//
// A pinned liveProvider is tried alone: its failure is fatal under
// liveMode=live (no cross-provider fallback), per the documented
// invariant. An unpinned ("auto") liveProvider always degrades to the
// registry on exhaustion, even under liveMode=live, because defillama is
// itself the catch-all source of last resort — so a bare liveMode=live
// with liveProvider=auto is treated as auto for the purpose of the final
// fallback decision.
func liveResolve(ctx context.Context, env *dispatch.Env, req liveRequest, capability, requestedProvider, fingerprint string, registryRows func() json.RawMessage) (livedata.Result, *apperr.DispatchError) {
	layer := newLiveLayer(env)

	if req.Mode == livedata.ModeOff {
		name := requestedProvider
		if name == "" {
			name = "defillama"
		}
		return livedata.Result{Data: registryRows(), SourceProvider: name, Source: livedata.SourceRegistry}, nil
	}

	effectiveMode := req.Mode
	var candidates []livedata.Candidate
	if req.Provider != "" {
		candidates = []livedata.Candidate{{Name: req.Provider, URL: providerURL(env, req.Provider)}}
	} else {
		primary := requestedProvider
		if primary == "" {
			if pool := providers.ByCapability(capability); len(pool) > 0 {
				primary = pool[0].Name
			}
		}
		if primary != "" && !strings.EqualFold(primary, "defillama") {
			candidates = append(candidates, livedata.Candidate{Name: primary, URL: providerURL(env, primary)})
		}
		candidates = append(candidates, livedata.Candidate{Name: "defillama", URL: providerURL(env, "defillama")})
		if effectiveMode == livedata.ModeLive {
			effectiveMode = livedata.ModeAuto
		}
	}

	return layer.Resolve(ctx, effectiveMode, candidates, capability+":"+fingerprint, registryRows)
}

// liveMeta renders a livedata.Result into the response fields shared by
// every live-eligible action's envelope.
func liveMeta(res livedata.Result) envelope.Fields {
	return envelope.Fields{
		"source":         string(res.Source),
		"sourceProvider": res.SourceProvider,
		"fetchedAtUnix":  res.FetchedAtUnix,
		"sourceUrl":      res.SourceURL,
	}
}

// parseYieldPools extracts yield rows from a DeFiLlama/Morpho/Kamino-shaped
// pool JSON array using gjson, without needing a dedicated struct per
// provider response shape.
func parseYieldPools(raw []byte, provider, chain, asset string) []markets.YieldOpportunity {
	var out []markets.YieldOpportunity
	gjson.ParseBytes(raw).ForEach(func(_, pool gjson.Result) bool {
		sym := pool.Get("symbol").String()
		if sym == "" {
			sym = pool.Get("asset").String()
		}
		if asset != "" && !strings.EqualFold(sym, asset) {
			return true
		}
		out = append(out, markets.YieldOpportunity{
			Provider: provider,
			Chain:    chain,
			Asset:    strings.ToUpper(sym),
			Apy:      pool.Get("apy").Float(),
			TvlUsd:   pool.Get("tvlUsd").Float(),
			PoolID:   pool.Get("pool").String(),
		})
		return true
	})
	return out
}

// parseLendPools extracts lend rows the same way, for lendMarkets/lendRates.
func parseLendPools(raw []byte, provider, chain, asset string) []markets.LendMarket {
	var out []markets.LendMarket
	gjson.ParseBytes(raw).ForEach(func(_, pool gjson.Result) bool {
		sym := pool.Get("symbol").String()
		if sym == "" {
			sym = pool.Get("asset").String()
		}
		if asset != "" && !strings.EqualFold(sym, asset) {
			return true
		}
		out = append(out, markets.LendMarket{
			Provider:  provider,
			Chain:     chain,
			Asset:     strings.ToUpper(sym),
			SupplyApy: pool.Get("supplyApy").Float(),
			BorrowApy: pool.Get("borrowApy").Float(),
			TvlUsd:    pool.Get("tvlUsd").Float(),
		})
		return true
	})
	return out
}
