package actions

import (
	"context"

	"github.com/r3e-network/defi-dispatcher/internal/apperr"
	"github.com/r3e-network/defi-dispatcher/internal/dispatch"
	"github.com/r3e-network/defi-dispatcher/internal/envelope"
	"github.com/r3e-network/defi-dispatcher/internal/params"
)

func handlePolicyCheck(ctx context.Context, env *dispatch.Env, p map[string]interface{}) (envelope.Fields, *apperr.DispatchError) {
	target, err := params.RequireString(p, "targetAction")
	if err != nil {
		return nil, err
	}

	registered, allowlisted, mutating, dispatchable := dispatch.CheckPolicy(env, Handlers(), target)

	return envelope.Shape(envelope.Fields{
		"targetAction": target,
		"registered":   registered,
		"allowlisted":  allowlisted,
		"mutating":     mutating,
		"dispatchable": dispatchable,
		"strict":       env.Policy.Strict,
		"allowBroadcast": env.Policy.AllowBroadcast,
	}, "", false, nil)
}
