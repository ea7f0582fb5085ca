package compiler

import (
	"strconv"
	"strings"
)

// evalContext is the runtime context branch predicates see. For simulation it
// is static: the caller wallet plus the running token/amount.
type evalContext map[string]any

// evalCondition evaluates a simple "<field> <op> <literal>" predicate against
// the context. Unknown fields and unparseable expressions evaluate to false;
// a malformed condition must never abort compilation, it just doesn't match.
func evalCondition(cond string, ctx evalContext) bool {
	cond = strings.TrimSpace(cond)
	if cond == "" {
		return true
	}

	// Order matters: check two-char operators before their one-char prefixes.
	for _, op := range []string{"==", "!=", ">=", "<=", ">", "<"} {
		idx := strings.Index(cond, op)
		if idx < 0 {
			continue
		}

		field := strings.TrimSpace(cond[:idx])
		literal := strings.Trim(strings.TrimSpace(cond[idx+len(op):]), "'\"")

		val, ok := ctx[field]
		if !ok {
			return false
		}
		return compare(val, op, literal)
	}

	// A bare field name matches when the context value is truthy.
	if val, ok := ctx[cond]; ok {
		switch v := val.(type) {
		case bool:
			return v
		case string:
			return v != ""
		case float64:
			return v != 0
		}
	}
	return false
}

func compare(val any, op, literal string) bool {
	// Numeric comparison when both sides parse as numbers.
	if lit, err := strconv.ParseFloat(literal, 64); err == nil {
		if num, ok := toFloat(val); ok {
			switch op {
			case "==":
				return num == lit
			case "!=":
				return num != lit
			case ">=":
				return num >= lit
			case "<=":
				return num <= lit
			case ">":
				return num > lit
			case "<":
				return num < lit
			}
			return false
		}
	}

	// String comparison, case-insensitive like user-facing inputs elsewhere.
	str, ok := val.(string)
	if !ok {
		return false
	}
	switch op {
	case "==":
		return strings.EqualFold(strings.TrimSpace(str), literal)
	case "!=":
		return !strings.EqualFold(strings.TrimSpace(str), literal)
	}
	return false
}

func toFloat(val any) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}
