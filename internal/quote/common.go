// Package quote synthesizes deterministic bridge and swap quotes from the
// compiled-in provider registry. No network call is ever made: every
// provider has a fixed fee/eta in the registry and the engine computes
// amounts from it, per the "deterministic rate" invariant.
package quote

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/r3e-network/defi-dispatcher/internal/apperr"
	"github.com/r3e-network/defi-dispatcher/internal/registry/providers"
)

// Selection records how a provider was chosen, for the response's "source"
// field.
type Selection struct {
	Provider providers.Provider
	Source   string // "provider" | "providers" | "strategy" | "default_exact_output"
}

// SelectInput bundles the precedence-driving request fields shared by
// bridge and swap quoting.
type SelectInput struct {
	Provider  string
	Providers []string
	Strategy  string
	Category  string // "bridge" or "swap"
	ExactOutputOnly bool
}

// Select resolves provider precedence: pinned provider, then an ordered
// providers list, then a strategy, then the route default. A providers
// list that matches nothing registered still falls through to the route
// default while keeping source="providers", mirroring the documented
// behavior of the original implementation.
func Select(in SelectInput, routeDefault string) (Selection, error) {
	pool := providers.ByCategory(in.Category)
	if in.ExactOutputOnly {
		pool = filterExactOutput(pool)
	}

	if in.Provider != "" {
		p, ok := providers.ByName(in.Provider)
		if !ok || !p.HasCategory(in.Category) || (in.ExactOutputOnly && !p.ExactOutput) {
			return Selection{}, apperr.Unsupportedf("provider %q does not support %s", in.Provider, in.Category)
		}
		return Selection{Provider: p, Source: "provider"}, nil
	}

	if len(in.Providers) > 0 {
		for _, name := range in.Providers {
			p, ok := providers.ByName(name)
			if ok && p.HasCategory(in.Category) && (!in.ExactOutputOnly || p.ExactOutput) {
				return Selection{Provider: p, Source: "providers"}, nil
			}
		}
		if in.ExactOutputOnly {
			return Selection{}, apperr.Unsupportedf("none of the listed providers support exact-output")
		}
		p, ok := providers.ByName(routeDefault)
		if !ok {
			return Selection{}, apperr.Unsupportedf("no registered %s providers", in.Category)
		}
		return Selection{Provider: p, Source: "providers"}, nil
	}

	if in.Strategy != "" {
		p, err := byStrategy(pool, in.Strategy)
		if err != nil {
			return Selection{}, err
		}
		return Selection{Provider: p, Source: "strategy"}, nil
	}

	p, ok := providers.ByName(routeDefault)
	if !ok {
		return Selection{}, apperr.Unsupportedf("no registered %s providers", in.Category)
	}
	source := "provider"
	if in.ExactOutputOnly {
		source = "default_exact_output"
	}
	return Selection{Provider: p, Source: source}, nil
}

func filterExactOutput(in []providers.Provider) []providers.Provider {
	var out []providers.Provider
	for _, p := range in {
		if p.ExactOutput {
			out = append(out, p)
		}
	}
	return out
}

func byStrategy(pool []providers.Provider, strategy string) (providers.Provider, error) {
	if len(pool) == 0 {
		return providers.Provider{}, apperr.Unsupported("no registered providers for strategy selection")
	}
	switch strings.ToLower(strategy) {
	case "fastest":
		best := pool[0]
		for _, p := range pool[1:] {
			if p.EtaSeconds < best.EtaSeconds {
				best = p
			}
		}
		return best, nil
	case "lowestfee":
		best := pool[0]
		for _, p := range pool[1:] {
			if feeOf(p) < feeOf(best) {
				best = p
			}
		}
		return best, nil
	default:
		return providers.Provider{}, apperr.Validationf("unsupported strategy %q", strategy)
	}
}

func feeOf(p providers.Provider) int {
	if p.FeeMicros > 0 {
		return p.FeeMicros
	}
	return p.FeeBps * 100
}

// applyFeeBps computes amountIn scaled by (10000-feeBps)/10000, truncated
// toward zero (the spec's stated rounding convention).
func applyFeeBps(amountIn string, feeBps int) (string, error) {
	amt, err := decimal.NewFromString(amountIn)
	if err != nil {
		return "", apperr.Validationf("invalid amount %q", amountIn)
	}
	out := amt.Mul(decimal.NewFromInt(int64(10000 - feeBps))).Div(decimal.NewFromInt(10000)).Truncate(0)
	return out.String(), nil
}

// applyFeeMicros computes amountIn scaled by (1_000_000-feeMicros)/1_000_000,
// truncated toward zero.
func applyFeeMicros(amountIn string, feeMicros int) (string, error) {
	amt, err := decimal.NewFromString(amountIn)
	if err != nil {
		return "", apperr.Validationf("invalid amount %q", amountIn)
	}
	out := amt.Mul(decimal.NewFromInt(int64(1_000_000 - feeMicros))).Div(decimal.NewFromInt(1_000_000)).Truncate(0)
	return out.String(), nil
}

// invertFeeMicros computes the amountIn required to produce amountOut after
// a feeMicros deduction, rounding up (ceiling) so the quoted output is
// actually achievable.
func invertFeeMicros(amountOut string, feeMicros int) (string, error) {
	amt, err := decimal.NewFromString(amountOut)
	if err != nil {
		return "", apperr.Validationf("invalid amount %q", amountOut)
	}
	denom := decimal.NewFromInt(int64(1_000_000 - feeMicros))
	if denom.IsZero() {
		return "", apperr.Unsupported("provider fee configuration is invalid")
	}
	out := amt.Mul(decimal.NewFromInt(1_000_000)).Div(denom).Ceil()
	return out.String(), nil
}
