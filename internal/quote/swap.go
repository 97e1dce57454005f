package quote

import (
	"github.com/r3e-network/defi-dispatcher/internal/apperr"
	"github.com/r3e-network/defi-dispatcher/internal/registry/providers"
)

// TradeType is the axis distinguishing which side of a swap the caller
// supplied.
type TradeType string

const (
	ExactInput  TradeType = "exact-input"
	ExactOutput TradeType = "exact-output"
)

// SwapRequest is the resolved input to a swap quote.
type SwapRequest struct {
	TradeType TradeType
	AmountIn  string // set when TradeType == ExactInput
	AmountOut string // set when TradeType == ExactOutput
	Provider    string
	Providers   []string
	Strategy    string
	SlippagePct float64 // 0 means not supplied
}

// SwapResult is the synthesized swap quote.
type SwapResult struct {
	Provider            string
	EstimatedAmountIn   string
	EstimatedAmountOut  string
	TradeType           TradeType
	EtaSeconds          int
	Source              string
	FeeBps              int
	PriceImpactBps      int
}

// priceImpactFromMicros converts a swap provider's fee granularity (parts
// per 1,000,000) down to basis points (parts per 10,000), truncating. Used
// for both the quoted feeBps and the price-impact proxy: this registry has
// no separate market-depth signal, so the provider's own fee is the only
// number available for either.
func priceImpactFromMicros(feeMicros int) int {
	return feeMicros / 100
}

// Swap synthesizes a swap quote. Exact-output trades restrict the provider
// pool to those supporting it (only "uniswap" in this registry) and invert
// the fee formula to derive the required amountIn.
func Swap(req SwapRequest) (SwapResult, error) {
	exactOutput := req.TradeType == ExactOutput

	sel, err := Select(SelectInput{
		Provider:        req.Provider,
		Providers:       req.Providers,
		Strategy:        req.Strategy,
		Category:        "swap",
		ExactOutputOnly: exactOutput,
	}, defaultFor(exactOutput))
	if err != nil {
		return SwapResult{}, err
	}

	if req.SlippagePct > 0 && !sel.Provider.SlippageSupported {
		return SwapResult{}, apperr.Validationf("provider %q does not accept slippagePct", sel.Provider.Name)
	}

	if exactOutput {
		in, err := invertFeeMicros(req.AmountOut, sel.Provider.FeeMicros)
		if err != nil {
			return SwapResult{}, err
		}
		return SwapResult{
			Provider:           sel.Provider.Name,
			EstimatedAmountIn:  in,
			EstimatedAmountOut: req.AmountOut,
			TradeType:          ExactOutput,
			EtaSeconds:         sel.Provider.EtaSeconds,
			Source:             sel.Source,
			FeeBps:             priceImpactFromMicros(sel.Provider.FeeMicros),
			PriceImpactBps:     priceImpactFromMicros(sel.Provider.FeeMicros),
		}, nil
	}

	out, err := applyFeeMicros(req.AmountIn, sel.Provider.FeeMicros)
	if err != nil {
		return SwapResult{}, err
	}
	return SwapResult{
		Provider:           sel.Provider.Name,
		EstimatedAmountIn:  req.AmountIn,
		EstimatedAmountOut: out,
		TradeType:          ExactInput,
		EtaSeconds:         sel.Provider.EtaSeconds,
		Source:             sel.Source,
		FeeBps:             priceImpactFromMicros(sel.Provider.FeeMicros),
		PriceImpactBps:     priceImpactFromMicros(sel.Provider.FeeMicros),
	}, nil
}

func defaultFor(exactOutput bool) string {
	if exactOutput {
		return providers.SwapExactOutputDefault
	}
	return providers.SwapDefault
}
