package dispatch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r3e-network/defi-dispatcher/internal/apperr"
	"github.com/r3e-network/defi-dispatcher/internal/envelope"
	"github.com/r3e-network/defi-dispatcher/internal/policy"
)

func okHandler(ctx context.Context, env *Env, p map[string]interface{}) (envelope.Fields, *apperr.DispatchError) {
	return envelope.Fields{"status": "ok", "value": 1}, nil
}

func errHandler(ctx context.Context, env *Env, p map[string]interface{}) (envelope.Fields, *apperr.DispatchError) {
	return nil, apperr.Validation("boom")
}

func TestIsMutating(t *testing.T) {
	assert.True(t, IsMutating("sendSignedTransaction"))
	assert.False(t, IsMutating("chainsTop"))
}

func TestRegistry_NamesIsSorted(t *testing.T) {
	reg := Registry{"b": okHandler, "a": okHandler, "c": okHandler}
	assert.Equal(t, []string{"a", "b", "c"}, reg.Names())
}

func TestDispatch_UnknownActionIsUnsupportedError(t *testing.T) {
	env := &Env{Policy: &policy.Policy{}}
	resp := Dispatch(context.Background(), env, Registry{}, "nonexistent", nil)
	assert.Equal(t, "error", resp["status"])
	assert.Equal(t, apperr.CodeUnsupported, resp["code"])
}

func TestDispatch_NotAllowlistedIsUnsupportedError(t *testing.T) {
	env := &Env{Policy: &policy.Policy{AllowlistRaw: "otherAction"}}
	reg := Registry{"chainsTop": okHandler}
	resp := Dispatch(context.Background(), env, reg, "chainsTop", nil)
	assert.Equal(t, "error", resp["status"])
	assert.Equal(t, apperr.CodeUnsupported, resp["code"])
}

func TestDispatch_MutatingBlockedUnderStrict(t *testing.T) {
	env := &Env{Policy: &policy.Policy{Strict: true, AllowBroadcast: true}}
	reg := Registry{"sendSignedTransaction": okHandler}
	resp := Dispatch(context.Background(), env, reg, "sendSignedTransaction", nil)
	assert.Equal(t, "error", resp["status"])
	assert.Equal(t, apperr.CodeUnsupported, resp["code"])
}

func TestDispatch_MutatingBlockedWithoutBroadcastPermission(t *testing.T) {
	env := &Env{Policy: &policy.Policy{AllowBroadcast: false}}
	reg := Registry{"sendSignedTransaction": okHandler}
	resp := Dispatch(context.Background(), env, reg, "sendSignedTransaction", nil)
	assert.Equal(t, "error", resp["status"])
	assert.Equal(t, apperr.CodeUnsupported, resp["code"])
}

func TestDispatch_MutatingAllowedWhenPermittedAndNotStrict(t *testing.T) {
	env := &Env{Policy: &policy.Policy{AllowBroadcast: true}}
	reg := Registry{"sendSignedTransaction": okHandler}
	resp := Dispatch(context.Background(), env, reg, "sendSignedTransaction", nil)
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, 1, resp["value"])
}

func TestDispatch_HandlerErrorRendersErrorEnvelope(t *testing.T) {
	env := &Env{Policy: &policy.Policy{}}
	reg := Registry{"chainsTop": errHandler}
	resp := Dispatch(context.Background(), env, reg, "chainsTop", nil)
	assert.Equal(t, "error", resp["status"])
	assert.Equal(t, apperr.CodeValidation, resp["code"])
	assert.Equal(t, "boom", resp["error"])
}

func TestCheckPolicy_UnregisteredAction(t *testing.T) {
	env := &Env{Policy: &policy.Policy{}}
	registered, allowlisted, mutating, dispatchable := CheckPolicy(env, Registry{}, "nonexistent")
	assert.False(t, registered)
	assert.True(t, allowlisted)
	assert.False(t, mutating)
	assert.False(t, dispatchable)
}

func TestCheckPolicy_MutatingRequiresBroadcastAndNonStrict(t *testing.T) {
	reg := Registry{"sendSignedTransaction": okHandler}

	env := &Env{Policy: &policy.Policy{Strict: true, AllowBroadcast: true}}
	_, _, mutating, dispatchable := CheckPolicy(env, reg, "sendSignedTransaction")
	require.True(t, mutating)
	assert.False(t, dispatchable)

	env2 := &Env{Policy: &policy.Policy{AllowBroadcast: true}}
	_, _, _, dispatchable2 := CheckPolicy(env2, reg, "sendSignedTransaction")
	assert.True(t, dispatchable2)
}

func TestCheckPolicy_ReadActionIgnoresBroadcastPermission(t *testing.T) {
	reg := Registry{"chainsTop": okHandler}
	env := &Env{Policy: &policy.Policy{AllowBroadcast: false}}
	registered, allowlisted, mutating, dispatchable := CheckPolicy(env, reg, "chainsTop")
	assert.True(t, registered)
	assert.True(t, allowlisted)
	assert.False(t, mutating)
	assert.True(t, dispatchable)
}
