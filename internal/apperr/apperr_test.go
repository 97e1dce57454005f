package apperr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidation_UsesValidationCode(t *testing.T) {
	err := Validation("amount is required")
	assert.Equal(t, CodeValidation, err.Code)
	assert.Equal(t, "amount is required", err.Message)
}

func TestValidationf_FormatsMessage(t *testing.T) {
	err := Validationf("invalid amount %q", "abc")
	assert.Equal(t, CodeValidation, err.Code)
	assert.Equal(t, `invalid amount "abc"`, err.Message)
}

func TestUnsupported_UsesUnsupportedCode(t *testing.T) {
	err := Unsupported("unsupported chain")
	assert.Equal(t, CodeUnsupported, err.Code)
}

func TestUnsupportedf_FormatsMessage(t *testing.T) {
	err := Unsupportedf("unsupported chain %q", "neo")
	assert.Equal(t, CodeUnsupported, err.Code)
	assert.Equal(t, `unsupported chain "neo"`, err.Message)
}

func TestUnavailable_PopulatesDetailsAndMessage(t *testing.T) {
	err := Unavailable("morpho", "curl", "connection refused")
	assert.Equal(t, CodeLiveUnavailable, err.Code)
	assert.Contains(t, err.Message, "provider=morpho")
	assert.Contains(t, err.Message, "transport=curl")
	assert.Equal(t, "morpho", err.Details["provider"])
	assert.Equal(t, "curl", err.Details["transport"])
}

func TestWithDetails_MutatesSamePointerAndChains(t *testing.T) {
	err := Validation("bad select")
	ret := err.WithDetails("field", "select")
	assert.Same(t, err, ret)
	assert.Equal(t, "select", err.Details["field"])

	err.WithDetails("hint", "check spelling")
	assert.Equal(t, "select", err.Details["field"])
	assert.Equal(t, "check spelling", err.Details["hint"])
}

func TestNew_SetsCodeAndMessageWithNoWrappedErr(t *testing.T) {
	err := New(CodeValidation, "plain message")
	assert.Equal(t, CodeValidation, err.Code)
	assert.Equal(t, "plain message", err.Message)
	assert.Nil(t, err.Err)
}

func TestWrap_PreservesUnderlyingErr(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	err := Wrap(CodeLiveUnavailable, "rpc call failed", cause)
	assert.Equal(t, CodeLiveUnavailable, err.Code)
	assert.Same(t, cause, err.Err)
	assert.Same(t, cause, err.Unwrap())
}

func TestError_StringIncludesMessage(t *testing.T) {
	err := Validation("amount is required")
	assert.Contains(t, err.Error(), "amount is required")
}

func TestError_StringIncludesWrappedErr(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(CodeLiveUnavailable, "rpc call failed", cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAsDispatchError_ExtractsConcreteType(t *testing.T) {
	inner := Validation("nested failure")
	var asErr error = inner

	got := AsDispatchError(asErr)
	require.NotNil(t, got)
	assert.Same(t, inner, got)
}

func TestAsDispatchError_NilForPlainError(t *testing.T) {
	got := AsDispatchError(errors.New("not a dispatch error"))
	assert.Nil(t, got)
}
