package actions

import (
	"context"

	"github.com/google/uuid"

	"github.com/r3e-network/defi-dispatcher/internal/apperr"
	"github.com/r3e-network/defi-dispatcher/internal/dispatch"
	"github.com/r3e-network/defi-dispatcher/internal/envelope"
	"github.com/r3e-network/defi-dispatcher/internal/params"
	"github.com/r3e-network/defi-dispatcher/internal/quote"
	"github.com/r3e-network/defi-dispatcher/internal/registry/chains"
	"github.com/r3e-network/defi-dispatcher/internal/registry/providers"
)

// handleLifiGetQuote is bridgeQuote pinned to the lifi provider: lifi is a
// bridge aggregator in its own right, so its "get quote" call is this
// dispatcher's bridge quote with the provider forced rather than selected.
func handleLifiGetQuote(ctx context.Context, env *dispatch.Env, p map[string]interface{}) (envelope.Fields, *apperr.DispatchError) {
	pinned := make(map[string]interface{}, len(p)+1)
	for k, v := range p {
		pinned[k] = v
	}
	pinned["provider"] = "lifi"
	return handleBridgeQuote(ctx, env, pinned)
}

// handleLifiGetRoutes lists every bridge-capable provider's quote for the
// same request, the way lifi's own routes endpoint returns multiple
// candidate paths instead of a single pick.
func handleLifiGetRoutes(ctx context.Context, env *dispatch.Env, p map[string]interface{}) (envelope.Fields, *apperr.DispatchError) {
	from, err := params.RequireString(p, "from")
	if err != nil {
		return nil, err
	}
	to, err := params.RequireString(p, "to")
	if err != nil {
		return nil, err
	}
	amount, err := params.RequireString(p, "amount")
	if err != nil {
		return nil, err
	}
	if aerr := validateBaseAmount(amount); aerr != nil {
		return nil, aerr
	}
	if _, ok := chains.Resolve(from); !ok {
		return nil, apperr.Unsupportedf("unsupported chain %q", from)
	}
	if _, ok := chains.Resolve(to); !ok {
		return nil, apperr.Unsupportedf("unsupported chain %q", to)
	}
	resultsOnly := params.Bool(p, "resultsOnly", false)

	var routes []envelope.Fields
	for _, pr := range providers.ByCategory("bridge") {
		result, qerr := quote.Bridge(quote.BridgeRequest{AmountIn: amount, Provider: pr.Name})
		if qerr != nil {
			continue
		}
		routes = append(routes, envelope.Fields{
			"provider":           result.Provider,
			"estimatedAmountOut": result.EstimatedAmountOut,
			"feeBps":             result.FeeBps,
			"etaSeconds":         result.EtaSeconds,
		})
	}

	return envelope.Shape(envelope.Fields{"routes": routes}, "", resultsOnly, nil)
}

// handleLifiRunWorkflow chains a route lookup and a quote pick into one
// call, returning a workflow id a caller could use to correlate the two
// steps in logs; it performs no actual bridging.
func handleLifiRunWorkflow(ctx context.Context, env *dispatch.Env, p map[string]interface{}) (envelope.Fields, *apperr.DispatchError) {
	routesFields, rerr := handleLifiGetRoutes(ctx, env, p)
	if rerr != nil {
		return nil, rerr
	}
	quoteFields, qerr := handleBridgeQuote(ctx, env, p)
	if qerr != nil {
		return nil, qerr
	}
	delete(quoteFields, "status")

	return envelope.Shape(envelope.Fields{
		"workflowId": uuid.NewString(),
		"routes":     routesFields["routes"],
		"quote":      quoteFields,
	}, "", params.Bool(p, "resultsOnly", false), nil)
}
