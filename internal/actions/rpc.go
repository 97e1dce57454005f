package actions

import (
	"context"
	"encoding/json"
	"math/big"
	"strings"
	"time"

	"github.com/r3e-network/defi-dispatcher/internal/apperr"
	"github.com/r3e-network/defi-dispatcher/internal/cachestore"
	"github.com/r3e-network/defi-dispatcher/internal/dispatch"
	"github.com/r3e-network/defi-dispatcher/internal/envelope"
	"github.com/r3e-network/defi-dispatcher/internal/params"
	"github.com/r3e-network/defi-dispatcher/internal/rpcchain"
)

var rpcClient = rpcchain.NewClient(15 * time.Second)

// cachedRPCResult is the outcome of rpcCallCached and its thin wrappers.
type cachedRPCResult struct {
	Result        json.RawMessage
	Source        string
	FetchedAtUnix int64
}

// cacheEnvelope is the self-describing shape stored as a cache Value for
// every RPC result: the raw result plus the moment it was actually
// fetched, so a stale read can still report how old its data is.
type cacheEnvelope struct {
	Result        json.RawMessage `json:"result"`
	FetchedAtUnix int64           `json:"fetchedAtUnix"`
}

func ttlForMethod(env *dispatch.Env, method string) time.Duration {
	if seconds, ok := rpcMethodTTL[strings.ToLower(method)]; ok {
		return time.Duration(seconds) * time.Second
	}
	return time.Duration(env.Policy.LiveMarketsTTLSeconds) * time.Second
}

func unwrapCacheEnvelope(raw json.RawMessage) (json.RawMessage, int64) {
	var env cacheEnvelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Result != nil {
		return env.Result, env.FetchedAtUnix
	}
	return raw, 0
}

// callCached wires the RPC client to the cache store: a fresh cache entry
// short-circuits the call entirely; otherwise it calls live, writes the
// cache, and reports source accordingly. allowStaleFallback lets a failed
// live call still answer from an expired entry. Cache values are stored as
// a {"result":...,"fetchedAtUnix":...} envelope so a reader never has to
// guess when a cached result was actually fetched.
func callCached(ctx context.Context, env *dispatch.Env, rpcURL, method string, rpcParams []interface{}, cacheKey string, allowStaleFallback bool, maxStale time.Duration) (cachedRPCResult, *apperr.DispatchError) {
	now := time.Now()
	if cacheKey == "" {
		cacheKey = method + ":" + rpcURL
	}

	entry, state, _ := env.Cache.Get(cacheKey, now)
	if state == cachestore.Fresh {
		result, fetchedAt := unwrapCacheEnvelope(entry.Value)
		return cachedRPCResult{Result: result, Source: "cache_hit", FetchedAtUnix: fetchedAt}, nil
	}

	raw, err := rpcClient.Call(ctx, rpcURL, method, rpcParams)
	if err == nil {
		ttl := ttlForMethod(env, method)
		wrapped, _ := json.Marshal(cacheEnvelope{Result: raw, FetchedAtUnix: now.Unix()})
		_ = env.Cache.Put(cacheKey, wrapped, ttl, now)
		source := "fresh"
		if state == cachestore.Stale {
			source = "cache_refresh"
		}
		return cachedRPCResult{Result: raw, Source: source, FetchedAtUnix: now.Unix()}, nil
	}

	if state == cachestore.Stale {
		staleFor := now.Sub(time.Unix(entry.FetchedAt, 0))
		if allowStaleFallback && (maxStale <= 0 || staleFor <= maxStale) {
			result, fetchedAt := unwrapCacheEnvelope(entry.Value)
			return cachedRPCResult{Result: result, Source: "stale", FetchedAtUnix: fetchedAt}, nil
		}
	}

	return cachedRPCResult{}, apperr.Unavailable(method, "jsonrpc", "unreachable").WithDetails("rpcUrl", rpcURL).WithDetails("error", err.Error())
}

func handleRPCCallCached(ctx context.Context, env *dispatch.Env, p map[string]interface{}) (envelope.Fields, *apperr.DispatchError) {
	rpcURL, err := params.RequireString(p, "rpcUrl")
	if err != nil {
		return nil, err
	}
	method, err := params.RequireString(p, "method")
	if err != nil {
		return nil, err
	}
	cacheKey := params.String(p, "cacheKey")
	allowStale := params.Bool(p, "allowStaleFallback", false)
	maxStaleSeconds := params.Int(p, "maxStaleSeconds", 0)
	resultsOnly := params.Bool(p, "resultsOnly", false)

	var rpcParams []interface{}
	if raw := params.String(p, "paramsJson"); raw != "" {
		if jerr := json.Unmarshal([]byte(raw), &rpcParams); jerr != nil {
			return nil, apperr.Wrap(apperr.CodeValidation, "paramsJson is not valid JSON", jerr)
		}
	}

	res, cerr := callCached(ctx, env, rpcURL, method, rpcParams, cacheKey, allowStale, time.Duration(maxStaleSeconds)*time.Second)
	if cerr != nil {
		return nil, cerr
	}

	var value interface{}
	_ = json.Unmarshal(res.Result, &value)

	return envelope.Shape(envelope.Fields{"result": value, "source": res.Source}, "", resultsOnly, nil)
}

// hexToInt64 parses a JSON-RPC "0x..." quantity result into an int64. A
// non-hex or empty result parses to 0 rather than erroring: the dispatcher
// already validated the RPC call succeeded by the time this runs.
func hexToInt64(raw json.RawMessage) int64 {
	var hexStr string
	if err := json.Unmarshal(raw, &hexStr); err != nil {
		return 0
	}
	hexStr = strings.TrimPrefix(strings.TrimPrefix(hexStr, "0x"), "0X")
	if hexStr == "" {
		return 0
	}
	v, ok := new(big.Int).SetString(hexStr, 16)
	if !ok {
		return 0
	}
	return v.Int64()
}

func handleGetBalance(ctx context.Context, env *dispatch.Env, p map[string]interface{}) (envelope.Fields, *apperr.DispatchError) {
	rpcURL, err := params.RequireString(p, "rpcUrl")
	if err != nil {
		return nil, err
	}
	address, err := params.RequireString(p, "address")
	if err != nil {
		return nil, err
	}
	blockTag := params.String(p, "blockTag")
	if blockTag == "" {
		blockTag = "latest"
	}
	resultsOnly := params.Bool(p, "resultsOnly", false)

	cacheKey := "eth_getBalance:" + rpcURL + ":" + strings.ToLower(address) + ":" + blockTag
	res, cerr := callCached(ctx, env, rpcURL, "eth_getBalance", []interface{}{address, blockTag}, cacheKey, true, 0)
	if cerr != nil {
		return nil, cerr
	}

	var balanceHex string
	_ = json.Unmarshal(res.Result, &balanceHex)

	return envelope.Shape(envelope.Fields{"balanceHex": balanceHex, "source": res.Source}, "", resultsOnly, nil)
}

func handleGetBlockNumber(ctx context.Context, env *dispatch.Env, p map[string]interface{}) (envelope.Fields, *apperr.DispatchError) {
	rpcURL, err := params.RequireString(p, "rpcUrl")
	if err != nil {
		return nil, err
	}
	resultsOnly := params.Bool(p, "resultsOnly", false)

	cacheKey := "eth_blockNumber:" + rpcURL
	res, cerr := callCached(ctx, env, rpcURL, "eth_blockNumber", nil, cacheKey, true, 0)
	if cerr != nil {
		return nil, cerr
	}

	blockNumber := hexToInt64(res.Result)

	return envelope.Shape(envelope.Fields{"blockNumber": blockNumber, "source": res.Source}, "", resultsOnly, nil)
}

func handleEstimateGas(ctx context.Context, env *dispatch.Env, p map[string]interface{}) (envelope.Fields, *apperr.DispatchError) {
	rpcURL, err := params.RequireString(p, "rpcUrl")
	if err != nil {
		return nil, err
	}
	from := params.String(p, "from")
	to := params.String(p, "to")
	data := params.String(p, "data")
	value := params.String(p, "value")
	resultsOnly := params.Bool(p, "resultsOnly", false)

	callObj := map[string]interface{}{}
	if from != "" {
		callObj["from"] = from
	}
	if to != "" {
		callObj["to"] = to
	}
	if data != "" {
		callObj["data"] = data
	}
	if value != "" {
		callObj["value"] = value
	}

	cacheKey := "eth_estimateGas:" + rpcURL + ":" + from + ":" + to + ":" + data + ":" + value
	res, cerr := callCached(ctx, env, rpcURL, "eth_estimateGas", []interface{}{callObj}, cacheKey, true, 0)
	if cerr != nil {
		return nil, cerr
	}

	estimateGas := hexToInt64(res.Result)

	return envelope.Shape(envelope.Fields{"estimateGas": estimateGas, "source": res.Source}, "", resultsOnly, nil)
}
