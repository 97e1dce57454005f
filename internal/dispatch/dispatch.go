// Package dispatch routes one decoded request to its action handler,
// enforcing the allowlist and mutating-action gate before the handler ever
// runs, and rendering whatever the handler returns into the final response
// envelope.
package dispatch

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/r3e-network/defi-dispatcher/internal/apperr"
	"github.com/r3e-network/defi-dispatcher/internal/cachestore"
	"github.com/r3e-network/defi-dispatcher/internal/envelope"
	"github.com/r3e-network/defi-dispatcher/internal/fetch"
	"github.com/r3e-network/defi-dispatcher/internal/policy"
)

// Env bundles everything an action handler needs: policy, cache, a
// transport-selected fetcher, and per-process identity (instance id and
// start time) reported by runtimeInfo.
type Env struct {
	Policy     *policy.Policy
	Cache      *cachestore.Store
	Fetcher    *fetch.Fetcher
	InstanceID string
	StartedAt  time.Time
}

// NewEnv builds an Env from policy, wiring the cache store and fetcher the
// policy's configuration selects.
func NewEnv(p *policy.Policy) *Env {
	return &Env{
		Policy:     p,
		Cache:      cachestore.New(p.CacheDir),
		Fetcher:    fetch.NewFetcher(p.LiveHTTPTransport, 10*time.Second),
		InstanceID: uuid.NewString(),
		StartedAt:  time.Now(),
	}
}

// HandlerFunc implements one action. It returns the fully shaped success
// envelope (handlers call envelope.Shape themselves, since only they know
// the action-specific alias set) or a *apperr.DispatchError.
type HandlerFunc func(ctx context.Context, env *Env, params map[string]interface{}) (envelope.Fields, *apperr.DispatchError)

// Registry maps action name to handler.
type Registry map[string]HandlerFunc

// Names returns every registered action name, sorted, for the schema
// action.
func (r Registry) Names() []string {
	out := make([]string, 0, len(r))
	for name := range r {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// mutatingActions names every action that can have an external side
// effect (here: broadcasting a transaction). Every other action is a pure
// read, regardless of allowlist/strict configuration.
var mutatingActions = map[string]bool{
	"sendSignedTransaction": true,
}

// IsMutating reports whether action has an external side effect.
func IsMutating(action string) bool {
	return mutatingActions[action]
}

// Dispatch routes action to its handler, applying the allowlist and
// mutating-action gates first, and renders the outcome into a response
// envelope.
func Dispatch(ctx context.Context, env *Env, reg Registry, action string, params map[string]interface{}) envelope.Fields {
	handler, ok := reg[action]
	if !ok {
		return envelope.Error(apperr.Unsupportedf("unknown action %q", action))
	}

	if !env.Policy.Allows(action) {
		return envelope.Error(apperr.Unsupportedf("action %q is not allowlisted", action))
	}

	if IsMutating(action) {
		if env.Policy.Strict {
			return envelope.Error(apperr.Unsupportedf("action %q disabled under strict policy", action))
		}
		if !env.Policy.AllowBroadcast {
			return envelope.Error(apperr.Unsupportedf("action %q requires broadcast permission", action))
		}
	}

	fields, derr := handler(ctx, env, params)
	if derr != nil {
		return envelope.Error(derr)
	}
	return fields
}

// CheckPolicy reports whether targetAction is currently dispatchable
// without running it — the policyCheck action's primitive.
func CheckPolicy(env *Env, reg Registry, targetAction string) (registered, allowlisted, mutating, dispatchable bool) {
	_, registered = reg[targetAction]
	allowlisted = env.Policy.Allows(targetAction)
	mutating = IsMutating(targetAction)
	dispatchable = registered && allowlisted
	if mutating {
		dispatchable = dispatchable && !env.Policy.Strict && env.Policy.AllowBroadcast
	}
	return
}
