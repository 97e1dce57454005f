package quote

import "github.com/r3e-network/defi-dispatcher/internal/registry/providers"

// BridgeRequest is the resolved input to a bridge quote.
type BridgeRequest struct {
	AmountIn  string
	Provider  string
	Providers []string
	Strategy  string
}

// BridgeResult is the synthesized bridge quote.
type BridgeResult struct {
	Provider           string
	AmountIn           string
	EstimatedAmountOut string
	FeeBps             int
	EtaSeconds         int
	Source             string
	PriceImpactBps     int
}

// Bridge synthesizes a bridge quote using provider-selection precedence:
// pinned provider, ordered providers list, strategy, then route default.
func Bridge(req BridgeRequest) (BridgeResult, error) {
	sel, err := Select(SelectInput{
		Provider:  req.Provider,
		Providers: req.Providers,
		Strategy:  req.Strategy,
		Category:  "bridge",
	}, providers.BridgeDefault)
	if err != nil {
		return BridgeResult{}, err
	}

	out, err := applyFeeBps(req.AmountIn, sel.Provider.FeeBps)
	if err != nil {
		return BridgeResult{}, err
	}

	return BridgeResult{
		Provider:           sel.Provider.Name,
		AmountIn:           req.AmountIn,
		EstimatedAmountOut: out,
		FeeBps:             sel.Provider.FeeBps,
		EtaSeconds:         sel.Provider.EtaSeconds,
		Source:             sel.Source,
		PriceImpactBps:     sel.Provider.FeeBps,
	}, nil
}
