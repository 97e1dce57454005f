package rpcchain

import (
	"fmt"
	"math/big"
	"strings"
)

// TxRequest is the pure, offline transaction object built by
// buildTransferNative/buildTransferErc20. It is never signed or broadcast
// by this package.
type TxRequest struct {
	To    string `json:"to"`
	Data  string `json:"data"`
	Value string `json:"value"`
}

// erc20TransferSelector is the 4-byte selector for transfer(address,uint256).
const erc20TransferSelector = "a9059cbb"

// NormalizeAddress strips an optional 0x/0X prefix, lowercases, and
// validates the result is a 40-character hex string. Returns "" if invalid.
func NormalizeAddress(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "0x")
	raw = strings.TrimPrefix(raw, "0X")
	raw = strings.ToLower(raw)
	if len(raw) != 40 {
		return ""
	}
	for _, ch := range raw {
		if (ch < '0' || ch > '9') && (ch < 'a' || ch > 'f') {
			return ""
		}
	}
	return raw
}

// BuildTransferNative builds a plain value-transfer transaction object: no
// calldata, value carries the transfer amount in wei (hex-encoded).
func BuildTransferNative(to string, valueWei *big.Int) (TxRequest, error) {
	addr := NormalizeAddress(to)
	if addr == "" {
		return TxRequest{}, fmt.Errorf("invalid recipient address %q", to)
	}
	if valueWei == nil || valueWei.Sign() < 0 {
		return TxRequest{}, fmt.Errorf("invalid transfer value")
	}
	return TxRequest{
		To:    "0x" + addr,
		Data:  "0x",
		Value: "0x" + valueWei.Text(16),
	}, nil
}

// BuildTransferErc20 builds an ERC-20 transfer(to, amount) call, target
// the token contract itself (To == tokenAddress), with zero native value.
func BuildTransferErc20(tokenAddress, to string, amountBaseUnits *big.Int) (TxRequest, error) {
	token := NormalizeAddress(tokenAddress)
	if token == "" {
		return TxRequest{}, fmt.Errorf("invalid token address %q", tokenAddress)
	}
	recipient := NormalizeAddress(to)
	if recipient == "" {
		return TxRequest{}, fmt.Errorf("invalid recipient address %q", to)
	}
	if amountBaseUnits == nil || amountBaseUnits.Sign() < 0 {
		return TxRequest{}, fmt.Errorf("invalid transfer amount")
	}

	data := "0x" + erc20TransferSelector + pad32(recipient) + pad32Hex(amountBaseUnits)
	return TxRequest{
		To:    "0x" + token,
		Data:  data,
		Value: "0x0",
	}, nil
}

// pad32 left-pads a 40-char hex address to a 32-byte (64 hex char) word.
func pad32(addrHex string) string {
	return strings.Repeat("0", 64-len(addrHex)) + addrHex
}

// pad32Hex left-pads the hex encoding of v to a 32-byte word.
func pad32Hex(v *big.Int) string {
	h := v.Text(16)
	if len(h) >= 64 {
		return h[len(h)-64:]
	}
	return strings.Repeat("0", 64-len(h)) + h
}
