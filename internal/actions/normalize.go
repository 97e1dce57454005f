package actions

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/r3e-network/defi-dispatcher/internal/apperr"
	"github.com/r3e-network/defi-dispatcher/internal/dispatch"
	"github.com/r3e-network/defi-dispatcher/internal/envelope"
	"github.com/r3e-network/defi-dispatcher/internal/params"
	"github.com/r3e-network/defi-dispatcher/internal/registry/chains"
)

func handleNormalizeChain(ctx context.Context, env *dispatch.Env, p map[string]interface{}) (envelope.Fields, *apperr.DispatchError) {
	chain, err := params.RequireString(p, "chain")
	if err != nil {
		return nil, err
	}
	resultsOnly := params.Bool(p, "resultsOnly", false)

	c, ok := chains.Resolve(chain)
	if !ok {
		return nil, apperr.Unsupportedf("unsupported chain %q", chain)
	}
	fields := envelope.Fields{"caip2": c.CAIP2}
	return envelope.Shape(fields, "", resultsOnly, nil)
}

func handleNormalizeAmount(ctx context.Context, env *dispatch.Env, p map[string]interface{}) (envelope.Fields, *apperr.DispatchError) {
	decimalAmount, err := params.RequireString(p, "decimalAmount")
	if err != nil {
		return nil, err
	}
	decimalsFloat := params.Float(p, "decimals", -1)
	if decimalsFloat < 0 {
		return nil, apperr.Validation("decimals is required")
	}
	decimals := int32(decimalsFloat)
	resultsOnly := params.Bool(p, "resultsOnly", false)

	amt, parseErr := decimal.NewFromString(decimalAmount)
	if parseErr != nil {
		return nil, apperr.Validationf("invalid decimalAmount %q", decimalAmount)
	}
	base := amt.Shift(decimals).Truncate(0)
	fields := envelope.Fields{"baseAmount": base.String()}
	return envelope.Shape(fields, "", resultsOnly, nil)
}
