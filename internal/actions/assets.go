package actions

import (
	"context"

	"github.com/r3e-network/defi-dispatcher/internal/apperr"
	"github.com/r3e-network/defi-dispatcher/internal/dispatch"
	"github.com/r3e-network/defi-dispatcher/internal/envelope"
	"github.com/r3e-network/defi-dispatcher/internal/params"
	"github.com/r3e-network/defi-dispatcher/internal/registry/assets"
	"github.com/r3e-network/defi-dispatcher/internal/registry/chains"
)

func handleAssetsResolve(ctx context.Context, env *dispatch.Env, p map[string]interface{}) (envelope.Fields, *apperr.DispatchError) {
	chainInput, err := params.RequireString(p, "chain")
	if err != nil {
		return nil, err
	}
	assetInput, err := params.RequireString(p, "asset")
	if err != nil {
		return nil, err
	}
	resultsOnly := params.Bool(p, "resultsOnly", false)

	c, ok := chains.Resolve(chainInput)
	if !ok {
		return nil, apperr.Unsupportedf("unsupported chain %q", chainInput)
	}

	var caip19 string
	if assets.IsRawAddress(assetInput) {
		caip19 = assets.ResolveRaw(c.CAIP2, assetInput)
	} else {
		a, ok := assets.ByChainAndSymbol(c.CAIP2, assetInput)
		if !ok {
			return nil, apperr.Unsupportedf("unsupported asset %q on chain %q", assetInput, chainInput)
		}
		caip19 = a.CAIP19()
	}

	fields := envelope.Fields{"caip19": caip19}
	return envelope.Shape(fields, "", resultsOnly, nil)
}
