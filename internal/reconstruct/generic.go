// Package reconstruct rebuilds untrusted JSON values from scratch.
// Nothing from the input tree is ever reused; every output value is a
// freshly constructed replacement built from sanitized primitives.
package reconstruct

import (
	"cdrgate/internal/sanitize"
)

// Structural limits for generic reconstruction. Security bounds, not
// tunables.
const (
	// MaxDepth is the deepest nesting level that is rebuilt; anything
	// below it becomes null.
	MaxDepth = 20
	// MaxArrayLen is the element cap applied to every array before
	// recursing into it.
	MaxArrayLen = 10000
	// MaxNumber is the magnitude cap for numeric values.
	MaxNumber = 1e15
)

// Value rebuilds an arbitrary JSON value, sanitizing as it goes. The
// depth bound is checked before anything else so adversarially nested
// input can never exhaust the stack. Callers start at depth 0.
func Value(value any, depth int) any {
	if depth > MaxDepth {
		return nil
	}

	switch v := value.(type) {
	case nil:
		return nil

	case bool:
		// Bools carry no injectable payload.
		return v

	case float64:
		if v > MaxNumber || v < -MaxNumber {
			return float64(0)
		}

		return v

	case string:
		return sanitize.Text(v, sanitize.MaxTextLen)

	case []any:
		// Bound fan-out before recursing.
		if len(v) > MaxArrayLen {
			v = v[:MaxArrayLen]
		}

		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Value(item, depth+1)
		}

		return out

	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			// Key collisions after sanitization overwrite; keys are
			// bounded either way.
			out[sanitize.Text(k, sanitize.MaxKeyLen)] = Value(item, depth+1)
		}

		return out

	default:
		// Unrecognized runtime type. There is no pass-through branch:
		// everything else is coerced to text and sanitized.
		return sanitize.Text(sanitize.Stringify(v), sanitize.MaxTextLen)
	}
}
