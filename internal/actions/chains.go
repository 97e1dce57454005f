package actions

import (
	"context"
	"strings"

	"github.com/r3e-network/defi-dispatcher/internal/apperr"
	"github.com/r3e-network/defi-dispatcher/internal/dispatch"
	"github.com/r3e-network/defi-dispatcher/internal/envelope"
	"github.com/r3e-network/defi-dispatcher/internal/params"
	"github.com/r3e-network/defi-dispatcher/internal/registry/assets"
	"github.com/r3e-network/defi-dispatcher/internal/registry/chains"
)

var chainsTopAliases = envelope.NewAliases("rank", "chain", "chain_id", "tvl_usd")

func handleChainsTop(ctx context.Context, env *dispatch.Env, p map[string]interface{}) (envelope.Fields, *apperr.DispatchError) {
	limit := params.Int(p, "limit", 0)
	selectRaw := params.String(p, "select")
	resultsOnly := params.Bool(p, "resultsOnly", false)

	top := chains.Top(limit)
	rows := make([]envelope.Fields, len(top))
	for i, c := range top {
		row := envelope.Fields{
			"rank":     c.Rank,
			"chain":    c.Name,
			"tvl_usd":  c.TVLUSD,
		}
		if c.NumID != "" {
			row["chain_id"] = c.NumID
		} else {
			row["chain_id"] = ""
		}
		rows[i] = row
	}

	if params.Present(p, "select") {
		keys, err := envelope.ParseSelect(selectRaw, chainsTopAliases)
		if err != nil {
			return nil, err
		}
		rows = envelope.ProjectRows(rows, keys)
	}

	return envelope.Shape(envelope.Fields{"chains": rows}, "", resultsOnly, nil)
}

func handleChainsAssets(ctx context.Context, env *dispatch.Env, p map[string]interface{}) (envelope.Fields, *apperr.DispatchError) {
	chainInput, err := params.RequireString(p, "chain")
	if err != nil {
		return nil, err
	}
	assetFilter := params.String(p, "asset")
	resultsOnly := params.Bool(p, "resultsOnly", false)

	c, ok := chains.Resolve(chainInput)
	if !ok {
		return nil, apperr.Unsupportedf("unsupported chain %q", chainInput)
	}

	all := assets.OnChain(c.CAIP2)
	var rows []envelope.Fields
	for _, a := range all {
		if assetFilter != "" && !strings.EqualFold(a.Symbol, assetFilter) {
			continue
		}
		rows = append(rows, envelope.Fields{
			"symbol":   a.Symbol,
			"caip19":   a.CAIP19(),
			"decimals": a.Decimals,
		})
	}

	fields := envelope.Fields{
		"chain":  c.CAIP2,
		"assets": rows,
	}
	return envelope.Shape(fields, "", resultsOnly, nil)
}
