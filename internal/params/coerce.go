// Package params coerces the loosely-typed map[string]interface{} decoded
// from a request's "params" object into the values action handlers expect:
// trimmed strings, parsed numbers, normalized booleans, and deduplicated
// string lists, all while producing apperr.Validation errors for anything
// that does not fit.
package params

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/r3e-network/defi-dispatcher/internal/apperr"
)

// String returns the trimmed string value of key, or "" if absent.
// Non-string values are rendered with fmt.Sprint before trimming.
func String(p map[string]interface{}, key string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// RequireString returns the trimmed string at key, erroring if it is absent
// or blank after trimming.
func RequireString(p map[string]interface{}, key string) (string, *apperr.DispatchError) {
	s := String(p, key)
	if s == "" {
		return "", apperr.Validationf("%s is required", key)
	}
	return s, nil
}

// Bool returns the boolean at key, defaulting to def when absent. Numeric
// and string encodings ("1", "true", "yes") are accepted.
func Bool(p map[string]interface{}, key string, def bool) bool {
	v, ok := p[key]
	if !ok || v == nil {
		return def
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		switch s {
		case "1", "true", "yes":
			return true
		case "0", "false", "no", "":
			return false
		}
		return def
	case float64:
		return t != 0
	default:
		return def
	}
}

// Int returns the integer at key, defaulting to def when absent or
// unparseable.
func Int(p map[string]interface{}, key string, def int) int {
	v, ok := p[key]
	if !ok || v == nil {
		return def
	}
	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return def
		}
		return n
	default:
		return def
	}
}

// Float returns the float64 at key, defaulting to def when absent or
// unparseable.
func Float(p map[string]interface{}, key string, def float64) float64 {
	v, ok := p[key]
	if !ok || v == nil {
		return def
	}
	switch t := v.(type) {
	case float64:
		return t
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return def
		}
		return n
	default:
		return def
	}
}

// StringList accepts either a JSON array of strings or a single
// comma-separated string at key, trims each element, drops blanks, and
// returns them in order with duplicates removed (case-sensitive).
func StringList(p map[string]interface{}, key string) []string {
	v, ok := p[key]
	if !ok || v == nil {
		return nil
	}
	var raw []string
	switch t := v.(type) {
	case []interface{}:
		for _, e := range t {
			raw = append(raw, fmt.Sprint(e))
		}
	case string:
		raw = strings.Split(t, ",")
	default:
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// Present reports whether key exists in p with a non-nil value, regardless
// of whether it trims to blank. Used to distinguish "field given but blank"
// (a validation error) from "field not given at all" (use the default).
func Present(p map[string]interface{}, key string) bool {
	v, ok := p[key]
	return ok && v != nil
}

// RequireNonBlankIfPresent errors if key is present in p but its trimmed
// string value is blank; returns the trimmed value (possibly "") otherwise.
func RequireNonBlankIfPresent(p map[string]interface{}, key string) (string, *apperr.DispatchError) {
	if !Present(p, key) {
		return "", nil
	}
	s := String(p, key)
	if s == "" {
		return "", apperr.Validationf("%s must not be blank", key)
	}
	return s, nil
}

// Any returns the first non-blank string found among keys, trying them in
// order, such as the camelCase/snake_case spellings amountOut/amount_out.
// Disagreeing spellings are not detected; AnyConflict does that.
func Any(p map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if v := String(p, k); v != "" {
			return v
		}
	}
	return ""
}

// AnyConflict is Any, but errors if the same logical field arrives under
// more than one of keys' spellings with disagreeing trimmed values (e.g.
// amountOut and amount_out both given but unequal) — a caller supplying
// two spellings of one field is expected to agree with itself.
func AnyConflict(p map[string]interface{}, keys ...string) (string, *apperr.DispatchError) {
	first := ""
	firstKey := ""
	for _, k := range keys {
		v := String(p, k)
		if v == "" {
			continue
		}
		if firstKey == "" {
			first, firstKey = v, k
			continue
		}
		if v != first {
			return "", apperr.Validationf("%s and %s must not disagree", firstKey, k)
		}
	}
	return first, nil
}

// ExactlyOneOf errors unless exactly one of the named keys is present
// (non-blank) in p, and returns the key that was present. It suits
// mutually exclusive param pairs such as amountOut/amountOutDecimal.
func ExactlyOneOf(p map[string]interface{}, keys ...string) (string, *apperr.DispatchError) {
	present := ""
	count := 0
	for _, k := range keys {
		if String(p, k) != "" {
			count++
			present = k
		}
	}
	if count != 1 {
		return "", apperr.Validationf("exactly one of %s is required", strings.Join(keys, ", "))
	}
	return present, nil
}

// Enum canonicalizes value by case-insensitive match against allowed,
// returning the canonical spelling from allowed. Errors if value is
// non-blank and does not match any entry.
func Enum(value string, allowed ...string) (string, *apperr.DispatchError) {
	if value == "" {
		return "", nil
	}
	lower := strings.ToLower(value)
	for _, a := range allowed {
		if strings.ToLower(a) == lower {
			return a, nil
		}
	}
	return "", apperr.Validationf("unsupported value %q (expected one of %s)", value, strings.Join(allowed, ", "))
}
