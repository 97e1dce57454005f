// Package livedata implements the fresh/cache/stale/registry state machine
// that backs yieldOpportunities, lendMarkets, and lendRates when liveMode is
// not "off". It is adapted from the teacher's infrastructure/fallback
// Handler.Execute chain, simplified because this process never retries: a
// candidate either succeeds (live, cache, or stale cache when stale reads
// are allowed) or the layer moves straight to the next candidate/registry,
// with no backoff delay.
package livedata

import (
	"context"
	"encoding/json"
	"time"

	"github.com/r3e-network/defi-dispatcher/internal/apperr"
	"github.com/r3e-network/defi-dispatcher/internal/cachestore"
	"github.com/r3e-network/defi-dispatcher/internal/fetch"
)

// Mode is the liveMode axis of the state machine.
type Mode string

const (
	ModeOff  Mode = "off"
	ModeAuto Mode = "auto"
	ModeLive Mode = "live"
)

// Source tags where the returned data ultimately came from.
type Source string

const (
	SourceLive    Source = "live"
	SourceCache   Source = "cache"
	SourceStale   Source = "stale_cache"
	SourceRegistry Source = "registry"
)

// Candidate is one provider the layer may try, in preference order.
type Candidate struct {
	Name string
	URL  string // "" means no live endpoint configured for this provider
}

// Result is the outcome of Resolve.
type Result struct {
	Data           json.RawMessage
	SourceProvider string
	Source         Source
	FetchedAtUnix  int64
	SourceURL      string
}

// Layer wires a cache store and fetcher together.
type Layer struct {
	Cache      *cachestore.Store
	Fetcher    *fetch.Fetcher
	TTL        time.Duration
	AllowStale bool
}

// Resolve runs the state machine for one request. candidates must be
// pre-filtered to just the pinned provider when the caller pinned one;
// otherwise it is the full ordered auto-try list. registryData supplies the
// non-live fallback payload (used for ModeOff directly, and as the ModeAuto
// exhaustion fallback).
func (l *Layer) Resolve(ctx context.Context, mode Mode, candidates []Candidate, cacheKeyPrefix string, registryData func() json.RawMessage) (Result, *apperr.DispatchError) {
	if mode == ModeOff || len(candidates) == 0 {
		name := ""
		if len(candidates) > 0 {
			name = candidates[0].Name
		}
		return Result{Data: registryData(), SourceProvider: name, Source: SourceRegistry}, nil
	}

	now := time.Now()
	var lastErr *fetch.FetchError
	lastCandidate := candidates[len(candidates)-1].Name

	for _, c := range candidates {
		key := cacheKeyPrefix + ":" + c.Name
		entry, state, _ := l.Cache.Get(key, now)
		if state == cachestore.Fresh {
			return Result{Data: entry.Value, SourceProvider: c.Name, Source: SourceCache, FetchedAtUnix: entry.FetchedAt, SourceURL: c.URL}, nil
		}

		raw, ferr := l.Fetcher.FetchJSON(ctx, c.URL)
		if ferr == nil {
			_ = l.Cache.Put(key, raw, l.TTL, now)
			return Result{Data: raw, SourceProvider: c.Name, Source: SourceLive, FetchedAtUnix: now.Unix(), SourceURL: c.URL}, nil
		}
		fe, _ := ferr.(*fetch.FetchError)
		lastErr = fe
		lastCandidate = c.Name

		if state == cachestore.Stale && l.AllowStale {
			return Result{Data: entry.Value, SourceProvider: c.Name, Source: SourceStale, FetchedAtUnix: entry.FetchedAt, SourceURL: c.URL}, nil
		}
		// mode == ModeLive: do not silently continue to the next candidate
		// when the caller pinned a single provider; with an auto candidate
		// list under ModeLive, try the remaining candidates before failing.
	}

	if mode == ModeAuto {
		// Tag with the last-resort candidate (defillama, for the auto
		// try-chain), not the first one tried: that is the provider
		// identity "auto" canonically degrades to once every live
		// option is exhausted.
		name := candidates[len(candidates)-1].Name
		return Result{Data: registryData(), SourceProvider: name, Source: SourceRegistry}, nil
	}

	transport := l.Fetcher.TransportName()
	reason := "unreachable"
	if lastErr != nil {
		reason = string(lastErr.Kind)
	}
	return Result{}, apperr.Unavailable(lastCandidate, transport, reason)
}
