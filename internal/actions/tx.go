package actions

import (
	"context"
	"encoding/json"
	"math/big"

	"github.com/r3e-network/defi-dispatcher/internal/apperr"
	"github.com/r3e-network/defi-dispatcher/internal/dispatch"
	"github.com/r3e-network/defi-dispatcher/internal/envelope"
	"github.com/r3e-network/defi-dispatcher/internal/params"
	"github.com/r3e-network/defi-dispatcher/internal/rpcchain"
)

func parseBaseAmount(raw string) (*big.Int, *apperr.DispatchError) {
	if err := validateBaseAmount(raw); err != nil {
		return nil, err
	}
	v, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil, apperr.Validationf("invalid amount %q", raw)
	}
	return v, nil
}

func txRequestFields(tx rpcchain.TxRequest) envelope.Fields {
	return envelope.Fields{"txRequest": envelope.Fields{
		"to":    tx.To,
		"data":  tx.Data,
		"value": tx.Value,
	}}
}

func handleBuildTransferNative(ctx context.Context, env *dispatch.Env, p map[string]interface{}) (envelope.Fields, *apperr.DispatchError) {
	to, err := params.RequireString(p, "toAddress")
	if err != nil {
		return nil, err
	}
	valueRaw, err := params.RequireString(p, "amountWei")
	if err != nil {
		return nil, err
	}
	resultsOnly := params.Bool(p, "resultsOnly", false)

	value, aerr := parseBaseAmount(valueRaw)
	if aerr != nil {
		return nil, aerr
	}

	tx, berr := rpcchain.BuildTransferNative(to, value)
	if berr != nil {
		return nil, apperr.Wrap(apperr.CodeValidation, berr.Error(), berr)
	}

	return envelope.Shape(txRequestFields(tx), "", resultsOnly, nil)
}

func handleBuildTransferErc20(ctx context.Context, env *dispatch.Env, p map[string]interface{}) (envelope.Fields, *apperr.DispatchError) {
	token, err := params.RequireString(p, "tokenAddress")
	if err != nil {
		return nil, err
	}
	to, err := params.RequireString(p, "toAddress")
	if err != nil {
		return nil, err
	}
	amountRaw, err := params.RequireString(p, "amountRaw")
	if err != nil {
		return nil, err
	}
	resultsOnly := params.Bool(p, "resultsOnly", false)

	amount, aerr := parseBaseAmount(amountRaw)
	if aerr != nil {
		return nil, aerr
	}

	tx, berr := rpcchain.BuildTransferErc20(token, to, amount)
	if berr != nil {
		return nil, apperr.Wrap(apperr.CodeValidation, berr.Error(), berr)
	}

	return envelope.Shape(txRequestFields(tx), "", resultsOnly, nil)
}

// handleSendSignedTransaction relays a pre-signed transaction. Dispatch
// has already enforced strict/allowBroadcast gating before this handler
// ever runs; it only has to speak eth_sendRawTransaction.
func handleSendSignedTransaction(ctx context.Context, env *dispatch.Env, p map[string]interface{}) (envelope.Fields, *apperr.DispatchError) {
	rpcURL, err := params.RequireString(p, "rpcUrl")
	if err != nil {
		return nil, err
	}
	signedTxHex, err := params.RequireString(p, "signedTxHex")
	if err != nil {
		return nil, err
	}
	resultsOnly := params.Bool(p, "resultsOnly", false)

	raw, rerr := rpcClient.Call(ctx, rpcURL, "eth_sendRawTransaction", []interface{}{signedTxHex})
	if rerr != nil {
		return nil, apperr.Unavailable("broadcast", "jsonrpc", "unreachable").WithDetails("error", rerr.Error())
	}

	var txHash string
	_ = json.Unmarshal(raw, &txHash)

	return envelope.Shape(envelope.Fields{"txHash": txHash}, "", resultsOnly, nil)
}
