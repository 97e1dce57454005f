// Package envelope builds the canonical JSON response shape shared by every
// action: a top-level "status" discriminator, optional field projection via
// a "select" list, and optional "resultsOnly" rewrapping.
package envelope

import (
	"strings"

	"github.com/r3e-network/defi-dispatcher/internal/apperr"
)

// Fields is a success payload prior to shaping.
type Fields map[string]interface{}

// Aliases maps a normalized lookup key (lowercased, underscores stripped) to
// the canonical JSON key it selects. Because normalization strips case and
// underscores, a single canonical key list accepts both camelCase and
// snake_case spellings in "select" without any manual alias entries.
type Aliases map[string]string

// NewAliases builds an Aliases set that accepts any camelCase/snake_case
// spelling of each canonical key listed.
func NewAliases(canonical ...string) Aliases {
	a := make(Aliases, len(canonical))
	for _, k := range canonical {
		a[normKey(k)] = k
	}
	return a
}

func normKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, "_", "")
}

// ParseSelect splits a raw select string into canonical keys using aliases.
// A raw string that is present but blank after trimming is a validation
// error; unknown tokens are silently dropped (the original contract treats
// an all-unknown select as "no matching fields", not an error).
func ParseSelect(raw string, aliases Aliases) ([]string, *apperr.DispatchError) {
	if strings.TrimSpace(raw) == "" {
		return nil, apperr.Validation("select must not be blank")
	}
	seen := make(map[string]bool)
	var out []string
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		canonical, ok := aliases[normKey(tok)]
		if !ok {
			continue
		}
		if !seen[canonical] {
			seen[canonical] = true
			out = append(out, canonical)
		}
	}
	return out, nil
}

func project(m Fields, keys []string) Fields {
	out := make(Fields, len(keys))
	for _, k := range keys {
		if v, ok := m[k]; ok {
			out[k] = v
		}
	}
	return out
}

// ProjectRows applies select filtering to each row of a list payload.
func ProjectRows(rows []Fields, keys []string) []Fields {
	out := make([]Fields, len(rows))
	for i, r := range rows {
		out[i] = project(r, keys)
	}
	return out
}

// Shape renders a success payload into the final response object, applying
// an optional select projection and optional resultsOnly rewrapping.
// selectRaw == "" means no projection was requested.
func Shape(payload Fields, selectRaw string, resultsOnly bool, aliases Aliases) (Fields, *apperr.DispatchError) {
	body := payload
	if selectRaw != "" {
		keys, err := ParseSelect(selectRaw, aliases)
		if err != nil {
			return nil, err
		}
		body = project(payload, keys)
	}

	resp := Fields{"status": "ok"}
	if resultsOnly {
		resp["results"] = body
		return resp, nil
	}
	for k, v := range body {
		resp[k] = v
	}
	return resp, nil
}

// ShapeScalar renders a single-object payload (as opposed to a list payload
// keyed by its own collection name) applying select projection and
// resultsOnly rewrapping. Unlike Shape, a select projection without
// resultsOnly nests the projected object under wrapKey instead of flattening
// it into the top level — callers that supply "select" for a scalar action
// (bridgeQuote, swapQuote, lendRates) want just the named fields back, not
// the named fields mixed in with "status".
func ShapeScalar(fields Fields, wrapKey string, selectRaw string, resultsOnly bool, aliases Aliases) (Fields, *apperr.DispatchError) {
	body := fields
	projected := false
	if selectRaw != "" {
		keys, err := ParseSelect(selectRaw, aliases)
		if err != nil {
			return nil, err
		}
		body = project(fields, keys)
		projected = true
	}

	resp := Fields{"status": "ok"}
	switch {
	case resultsOnly:
		resp["results"] = body
	case projected:
		resp[wrapKey] = body
	default:
		for k, v := range body {
			resp[k] = v
		}
	}
	return resp, nil
}

// Error renders a *apperr.DispatchError into the error envelope. Per the
// wire contract, status="error" implies both "code" and "error" are
// present.
func Error(err *apperr.DispatchError) Fields {
	resp := Fields{
		"status": "error",
		"code":   err.Code,
		"error":  err.Message,
	}
	if len(err.Details) > 0 {
		resp["details"] = err.Details
	}
	return resp
}
