// Package actions implements every dispatchable action, wiring the registry,
// cache, fetch, quote, and rpcchain packages into the handler signature
// internal/dispatch expects.
package actions

import "github.com/r3e-network/defi-dispatcher/internal/dispatch"

// Handlers returns the full, closed action registry.
func Handlers() dispatch.Registry {
	return dispatch.Registry{
		"schema":                handleSchema,
		"version":               handleVersion,
		"runtimeInfo":            handleRuntimeInfo,
		"normalizeChain":         handleNormalizeChain,
		"normalizeAmount":        handleNormalizeAmount,
		"chainsTop":              handleChainsTop,
		"chainsAssets":           handleChainsAssets,
		"assetsResolve":          handleAssetsResolve,
		"providersList":          handleProvidersList,
		"bridgeQuote":            handleBridgeQuote,
		"swapQuote":              handleSwapQuote,
		"lifiGetQuote":           handleLifiGetQuote,
		"lifiGetRoutes":          handleLifiGetRoutes,
		"lifiRunWorkflow":        handleLifiRunWorkflow,
		"lendMarkets":            handleLendMarkets,
		"lendRates":              handleLendRates,
		"yieldOpportunities":     handleYieldOpportunities,
		"cachePolicy":            handleCachePolicy,
		"cacheGet":               handleCacheGet,
		"cachePut":               handleCachePut,
		"policyCheck":            handlePolicyCheck,
		"rpcCallCached":          handleRPCCallCached,
		"getBalance":             handleGetBalance,
		"getBlockNumber":         handleGetBlockNumber,
		"estimateGas":            handleEstimateGas,
		"buildTransferNative":    handleBuildTransferNative,
		"buildTransferErc20":     handleBuildTransferErc20,
		"sendSignedTransaction":  handleSendSignedTransaction,
	}
}
