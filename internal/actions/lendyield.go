package actions

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/r3e-network/defi-dispatcher/internal/apperr"
	"github.com/r3e-network/defi-dispatcher/internal/dispatch"
	"github.com/r3e-network/defi-dispatcher/internal/envelope"
	"github.com/r3e-network/defi-dispatcher/internal/livedata"
	"github.com/r3e-network/defi-dispatcher/internal/params"
	"github.com/r3e-network/defi-dispatcher/internal/registry/chains"
	"github.com/r3e-network/defi-dispatcher/internal/registry/markets"
)

var lendMarketAliases = envelope.NewAliases("provider", "chain", "asset", "supply_apy", "borrow_apy", "tvl_usd", "source", "source_provider", "fetched_at_unix", "source_url")
var yieldAliases = envelope.NewAliases("provider", "chain", "asset", "apy", "tvl_usd", "pool_id", "source", "source_provider", "fetched_at_unix", "source_url")
var lendRateAliases = envelope.NewAliases("provider", "chain", "asset", "supplyApy", "borrowApy", "tvlUsd", "source", "sourceProvider", "fetchedAtUnix", "sourceUrl")

func resolveOptionalChain(p map[string]interface{}, key string) (string, *apperr.DispatchError) {
	raw := params.String(p, key)
	if raw == "" {
		return "", nil
	}
	c, ok := chains.Resolve(raw)
	if !ok {
		return "", apperr.Unsupportedf("unsupported chain %q", raw)
	}
	return c.CAIP2, nil
}

func handleLendMarkets(ctx context.Context, env *dispatch.Env, p map[string]interface{}) (envelope.Fields, *apperr.DispatchError) {
	return lendList(ctx, env, p, "markets", "lend.markets")
}

// handleLendRates returns a single provider's lend rate row, unlike
// lendMarkets which lists every matching row: a caller asking for one
// provider's rate wants a scalar answer, not a one-element list.
func handleLendRates(ctx context.Context, env *dispatch.Env, p map[string]interface{}) (envelope.Fields, *apperr.DispatchError) {
	chainCAIP2, cerr := resolveOptionalChain(p, "chain")
	if cerr != nil {
		return nil, cerr
	}
	asset := params.String(p, "asset")
	provider, perr := params.RequireString(p, "provider")
	if perr != nil {
		return nil, perr
	}
	selectRaw := params.String(p, "select")
	resultsOnly := params.Bool(p, "resultsOnly", false)
	liveReq := parseLiveRequest(p)

	filter := markets.LendMarketFilter{Chain: chainCAIP2, Asset: asset, Provider: provider}
	registryData := func() json.RawMessage {
		raw, _ := json.Marshal(markets.FilterLendMarkets(filter))
		return raw
	}

	res, lerr := liveResolve(ctx, env, liveReq, "lend.rates", provider, fmt.Sprintf("%s:%s:%s", chainCAIP2, asset, provider), registryData)
	if lerr != nil {
		return nil, lerr
	}

	var rows []markets.LendMarket
	if res.Source == livedata.SourceRegistry {
		rows = markets.FilterLendMarkets(filter)
	} else {
		rows = parseLendPools(res.Data, res.SourceProvider, chainCAIP2, asset)
	}
	if len(rows) == 0 {
		return nil, apperr.Unsupportedf("no lend rate for provider %q", provider)
	}
	m := rows[0]

	fields := envelope.Fields{
		"provider":  m.Provider,
		"chain":     m.Chain,
		"asset":     m.Asset,
		"supplyApy": m.SupplyApy,
		"borrowApy": m.BorrowApy,
		"tvlUsd":    m.TvlUsd,
	}
	for k, v := range liveMeta(res) {
		fields[k] = v
	}

	if params.Present(p, "select") && selectRaw == "" {
		return nil, apperr.Validation("select must not be blank")
	}
	return envelope.ShapeScalar(fields, "rates", selectRaw, resultsOnly, lendRateAliases)
}

func lendList(ctx context.Context, env *dispatch.Env, p map[string]interface{}, rowsKey, capability string) (envelope.Fields, *apperr.DispatchError) {
	chainCAIP2, cerr := resolveOptionalChain(p, "chain")
	if cerr != nil {
		return nil, cerr
	}
	asset := params.String(p, "asset")
	provider := params.String(p, "provider")
	filter := markets.LendMarketFilter{
		Chain:     chainCAIP2,
		Asset:     asset,
		Provider:  provider,
		MinTvlUsd: params.Float(p, "minTvlUsd", 0),
	}
	sortBy := params.String(p, "sortBy")
	order := params.String(p, "order")
	limit := params.Int(p, "limit", 0)
	selectRaw := params.String(p, "select")
	resultsOnly := params.Bool(p, "resultsOnly", false)
	liveReq := parseLiveRequest(p)

	registryData := func() json.RawMessage {
		raw, _ := json.Marshal(markets.FilterLendMarkets(filter))
		return raw
	}

	res, lerr := liveResolve(ctx, env, liveReq, capability, provider, fmt.Sprintf("%s:%s:%s", chainCAIP2, asset, provider), registryData)
	if lerr != nil {
		return nil, lerr
	}

	var rows []markets.LendMarket
	if res.Source == livedata.SourceRegistry {
		rows = markets.FilterLendMarkets(filter)
	} else {
		rows = parseLendPools(res.Data, res.SourceProvider, chainCAIP2, asset)
	}

	if sortBy != "" {
		sortLendMarkets(rows, sortBy, order)
	}
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}

	fieldRows := make([]envelope.Fields, len(rows))
	for i, m := range rows {
		fieldRows[i] = envelope.Fields{
			"provider":   m.Provider,
			"chain":      m.Chain,
			"asset":      m.Asset,
			"supply_apy": m.SupplyApy,
			"borrow_apy": m.BorrowApy,
			"tvl_usd":    m.TvlUsd,
		}
	}

	if params.Present(p, "select") {
		keys, serr := envelope.ParseSelect(selectRaw, lendMarketAliases)
		if serr != nil {
			return nil, serr
		}
		fieldRows = envelope.ProjectRows(fieldRows, keys)
	}

	payload := envelope.Fields{rowsKey: fieldRows}
	for k, v := range liveMeta(res) {
		payload[k] = v
	}
	return envelope.Shape(payload, "", resultsOnly, nil)
}

func sortLendMarkets(rows []markets.LendMarket, sortBy, order string) {
	desc := strings.EqualFold(order, "desc")
	less := func(i, j int) bool {
		var a, b float64
		switch strings.ToLower(strings.ReplaceAll(sortBy, "_", "")) {
		case "supplyapy":
			a, b = rows[i].SupplyApy, rows[j].SupplyApy
		case "borrowapy":
			a, b = rows[i].BorrowApy, rows[j].BorrowApy
		case "tvlusd":
			a, b = rows[i].TvlUsd, rows[j].TvlUsd
		default:
			a, b = rows[i].SupplyApy, rows[j].SupplyApy
		}
		if desc {
			return a > b
		}
		return a < b
	}
	sort.SliceStable(rows, less)
}

func handleYieldOpportunities(ctx context.Context, env *dispatch.Env, p map[string]interface{}) (envelope.Fields, *apperr.DispatchError) {
	chainCAIP2, cerr := resolveOptionalChain(p, "chain")
	if cerr != nil {
		return nil, cerr
	}
	asset := params.String(p, "asset")
	provider := params.String(p, "provider")
	filter := markets.YieldFilter{
		Chain:     chainCAIP2,
		Asset:     asset,
		Provider:  provider,
		MinTvlUsd: params.Float(p, "minTvlUsd", 0),
		MinApy:    params.Float(p, "minApy", 0),
	}
	sortBy := params.String(p, "sortBy")
	order := params.String(p, "order")
	limit := params.Int(p, "limit", 0)
	selectRaw := params.String(p, "select")
	resultsOnly := params.Bool(p, "resultsOnly", false)
	liveReq := parseLiveRequest(p)

	registryData := func() json.RawMessage {
		raw, _ := json.Marshal(markets.FilterYield(filter))
		return raw
	}

	res, lerr := liveResolve(ctx, env, liveReq, "yield.opportunities", provider, fmt.Sprintf("%s:%s:%s", chainCAIP2, asset, provider), registryData)
	if lerr != nil {
		return nil, lerr
	}

	var rows []markets.YieldOpportunity
	if res.Source == livedata.SourceRegistry {
		rows = markets.FilterYield(filter)
	} else {
		rows = parseYieldPools(res.Data, res.SourceProvider, chainCAIP2, asset)
	}

	if sortBy != "" {
		sortYield(rows, sortBy, order)
	}
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}

	fieldRows := make([]envelope.Fields, len(rows))
	for i, y := range rows {
		fieldRows[i] = envelope.Fields{
			"provider": y.Provider,
			"chain":    y.Chain,
			"asset":    y.Asset,
			"apy":      y.Apy,
			"tvl_usd":  y.TvlUsd,
			"pool_id":  y.PoolID,
		}
	}

	if params.Present(p, "select") {
		keys, serr := envelope.ParseSelect(selectRaw, yieldAliases)
		if serr != nil {
			return nil, serr
		}
		fieldRows = envelope.ProjectRows(fieldRows, keys)
	}

	payload := envelope.Fields{"opportunities": fieldRows}
	for k, v := range liveMeta(res) {
		payload[k] = v
	}
	return envelope.Shape(payload, "", resultsOnly, nil)
}

func sortYield(rows []markets.YieldOpportunity, sortBy, order string) {
	desc := strings.EqualFold(order, "desc")
	less := func(i, j int) bool {
		var a, b float64
		switch strings.ToLower(strings.ReplaceAll(sortBy, "_", "")) {
		case "apy":
			a, b = rows[i].Apy, rows[j].Apy
		case "tvlusd":
			a, b = rows[i].TvlUsd, rows[j].TvlUsd
		default:
			a, b = rows[i].Apy, rows[j].Apy
		}
		if desc {
			return a > b
		}
		return a < b
	}
	sort.SliceStable(rows, less)
}
