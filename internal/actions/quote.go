package actions

import (
	"context"
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/r3e-network/defi-dispatcher/internal/apperr"
	"github.com/r3e-network/defi-dispatcher/internal/dispatch"
	"github.com/r3e-network/defi-dispatcher/internal/envelope"
	"github.com/r3e-network/defi-dispatcher/internal/params"
	"github.com/r3e-network/defi-dispatcher/internal/quote"
	"github.com/r3e-network/defi-dispatcher/internal/registry/assets"
	"github.com/r3e-network/defi-dispatcher/internal/registry/chains"
)

var baseAmountPattern = regexp.MustCompile(`^[0-9]+$`)

func validateBaseAmount(raw string) *apperr.DispatchError {
	if !baseAmountPattern.MatchString(raw) {
		return apperr.Validationf("invalid amount %q", raw)
	}
	return nil
}

// providerSelectionParams reads the shared provider/providers/strategy
// triad for bridgeQuote and swapQuote. Each is optional, but if present it
// must not be blank after trimming/splitting: a caller that bothers to
// supply "providers": "   " meant something by it.
func providerSelectionParams(p map[string]interface{}) (provider string, providersList []string, strategy string, derr *apperr.DispatchError) {
	provider, derr = params.RequireNonBlankIfPresent(p, "provider")
	if derr != nil {
		return
	}
	strategy, derr = params.RequireNonBlankIfPresent(p, "strategy")
	if derr != nil {
		return
	}
	if params.Present(p, "providers") {
		providersList = params.StringList(p, "providers")
		if len(providersList) == 0 {
			derr = apperr.Validation("providers must not be blank")
			return
		}
	}
	return
}

var bridgeQuoteAliases = envelope.NewAliases("provider", "amountIn", "estimatedAmountOut", "feeBps", "etaSeconds", "source", "priceImpactBps")

func handleBridgeQuote(ctx context.Context, env *dispatch.Env, p map[string]interface{}) (envelope.Fields, *apperr.DispatchError) {
	from, err := params.RequireString(p, "from")
	if err != nil {
		return nil, err
	}
	to, err := params.RequireString(p, "to")
	if err != nil {
		return nil, err
	}
	asset, err := params.RequireString(p, "asset")
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
	_ = asset

	provider, providersList, strategy, perr := providerSelectionParams(p)
	if perr != nil {
		return nil, perr
	}
	selectRaw := params.String(p, "select")
	resultsOnly := params.Bool(p, "resultsOnly", false)

	result, qerr := quote.Bridge(quote.BridgeRequest{
		AmountIn:  amount,
		Provider:  provider,
		Providers: providersList,
		Strategy:  strategy,
	})
	if qerr != nil {
		de, _ := qerr.(*apperr.DispatchError)
		if de == nil {
			de = apperr.Wrap(apperr.CodeUnsupported, qerr.Error(), qerr)
		}
		return nil, de
	}

	fields := envelope.Fields{
		"provider":           result.Provider,
		"amountIn":           result.AmountIn,
		"estimatedAmountOut": result.EstimatedAmountOut,
		"feeBps":             result.FeeBps,
		"etaSeconds":         result.EtaSeconds,
		"source":             result.Source,
		"priceImpactBps":     result.PriceImpactBps,
	}
	if params.Present(p, "select") && selectRaw == "" {
		return nil, apperr.Validation("select must not be blank")
	}
	return envelope.ShapeScalar(fields, "quote", selectRaw, resultsOnly, bridgeQuoteAliases)
}

var swapQuoteAliases = envelope.NewAliases("provider", "fromAsset", "toAsset", "amountIn", "estimatedAmountOut", "tradeType", "feeBps", "etaSeconds", "source", "priceImpactBps")

// amountOutFromDecimal converts a human-readable decimal amount (e.g.
// "0.5") into the to-asset's base units, truncating toward zero.
func amountOutFromDecimal(raw string, decimals int) (string, *apperr.DispatchError) {
	d, derr := decimal.NewFromString(raw)
	if derr != nil {
		return "", apperr.Validationf("invalid amountOutDecimal %q", raw)
	}
	if d.IsNegative() {
		return "", apperr.Validationf("invalid amountOutDecimal %q", raw)
	}
	return d.Shift(int32(decimals)).Truncate(0).String(), nil
}

func handleSwapQuote(ctx context.Context, env *dispatch.Env, p map[string]interface{}) (envelope.Fields, *apperr.DispatchError) {
	chain, err := params.RequireString(p, "chain")
	if err != nil {
		return nil, err
	}
	resolvedChain, ok := chains.Resolve(chain)
	if !ok {
		return nil, apperr.Unsupportedf("unsupported chain %q", chain)
	}
	chainCAIP2 := resolvedChain.CAIP2
	fromAsset, err := params.RequireString(p, "fromAsset")
	if err != nil {
		return nil, err
	}
	toAsset, err := params.RequireString(p, "toAsset")
	if err != nil {
		return nil, err
	}

	amount, err := params.AnyConflict(p, "amount", "amountIn", "amount_in")
	if err != nil {
		return nil, err
	}
	amountOut, err := params.AnyConflict(p, "amountOut", "amount_out")
	if err != nil {
		return nil, err
	}
	amountOutDecimal, err := params.AnyConflict(p, "amountOutDecimal", "amount_out_decimal")
	if err != nil {
		return nil, err
	}

	if amountOut != "" && amountOutDecimal != "" {
		return nil, apperr.Validation("exactly one of amountOut, amountOutDecimal is required")
	}

	tradeTypeRaw, err := params.AnyConflict(p, "type", "tradeType")
	if err != nil {
		return nil, err
	}
	tradeType, terr := params.Enum(tradeTypeRaw, string(quote.ExactInput), string(quote.ExactOutput))
	if terr != nil {
		return nil, terr
	}
	if tradeType == "" {
		if amountOut != "" || amountOutDecimal != "" {
			tradeType = string(quote.ExactOutput)
		} else {
			tradeType = string(quote.ExactInput)
		}
	}

	exactOutput := tradeType == string(quote.ExactOutput)
	if exactOutput && amount != "" {
		return nil, apperr.Validation("exact-output trades do not accept amount")
	}
	if !exactOutput && (amountOut != "" || amountOutDecimal != "") {
		return nil, apperr.Validation("exact-input trades do not accept amountOut/amountOutDecimal")
	}

	provider, providersList, strategy, perr := providerSelectionParams(p)
	if perr != nil {
		return nil, perr
	}
	selectRaw := params.String(p, "select")
	resultsOnly := params.Bool(p, "resultsOnly", false)

	req := quote.SwapRequest{
		Provider:  provider,
		Providers: providersList,
		Strategy:  strategy,
	}
	if exactOutput {
		if amountOut == "" && amountOutDecimal == "" {
			return nil, apperr.Validation("exactly one of amountOut, amountOutDecimal is required")
		}
		if amountOut != "" {
			if aerr := validateBaseAmount(amountOut); aerr != nil {
				return nil, aerr
			}
		} else {
			asset, ok := assets.ByChainAndSymbol(chainCAIP2, toAsset)
			if !ok {
				return nil, apperr.Unsupportedf("unsupported asset %q on chain %q", toAsset, chain)
			}
			converted, aerr := amountOutFromDecimal(amountOutDecimal, asset.Decimals)
			if aerr != nil {
				return nil, aerr
			}
			amountOut = converted
		}
		req.TradeType = quote.ExactOutput
		req.AmountOut = amountOut
	} else {
		if amount == "" {
			return nil, apperr.Validation("amount is required")
		}
		if aerr := validateBaseAmount(amount); aerr != nil {
			return nil, aerr
		}
		req.TradeType = quote.ExactInput
		req.AmountIn = amount
	}

	slippageRaw, err := params.AnyConflict(p, "slippagePct", "slippage_pct")
	if err != nil {
		return nil, err
	}
	if slippageRaw != "" {
		slippage, serr := decimal.NewFromString(slippageRaw)
		if serr != nil || !slippage.IsPositive() {
			return nil, apperr.Validationf("slippagePct must be a strictly positive number, got %q", slippageRaw)
		}
		req.SlippagePct = slippage.InexactFloat64()
	}

	result, qerr := quote.Swap(req)
	if qerr != nil {
		de, _ := qerr.(*apperr.DispatchError)
		if de == nil {
			de = apperr.Wrap(apperr.CodeUnsupported, qerr.Error(), qerr)
		}
		if exactOutput && provider != "" && de.Code == apperr.CodeUnsupported {
			de = apperr.Unsupportedf("%s does not support exact-output", provider).WithDetails("cause", de.Message)
		}
		return nil, de
	}

	fields := envelope.Fields{
		"provider":           result.Provider,
		"fromAsset":          fromAsset,
		"toAsset":            toAsset,
		"amountIn":           result.EstimatedAmountIn,
		"estimatedAmountOut": result.EstimatedAmountOut,
		"tradeType":          string(result.TradeType),
		"feeBps":             result.FeeBps,
		"etaSeconds":         result.EtaSeconds,
		"source":             result.Source,
		"priceImpactBps":     result.PriceImpactBps,
	}
	if params.Present(p, "select") && selectRaw == "" {
		return nil, apperr.Validation("select must not be blank")
	}
	return envelope.ShapeScalar(fields, "quote", selectRaw, resultsOnly, swapQuoteAliases)
}
