package query

import "strings"

// Record is anything the filter engine can inspect.
type Record interface {
	// Get returns the attribute value and whether it was found.
	Get(key string) (string, bool)
	// Has reports whether the record carries the key.
	Has(key string) bool
	// ID returns the record's computed identity.
	ID() string
}

// Match reports whether rec satisfies every predicate.
func Match(rec Record, preds ...Predicate) bool {
	for _, p := range preds {
		// An id hit satisfies the whole predicate set.
		if p.Field == "id" && p.Value != nil && *p.Value == rec.ID() {
			return true
		}
		has := rec.Has(p.Field)
		// Records without a register field are registered.
		if p.Field == "register" && p.Value != nil && *p.Value == "1" && !has {
			continue
		}
		if p.Value == nil {
			if has {
				return false
			}
			continue
		}
		if !has {
			return false
		}
		actual, _ := rec.Get(p.Field)
		if !apply(p.Op, actual, *p.Value) {
			return false
		}
	}
	return true
}

// Filter returns the items matching every predicate, preserving order.
func Filter[T Record](items []T, preds ...Predicate) []T {
	result := make([]T, 0)
	for _, item := range items {
		if Match(item, preds...) {
			result = append(result, item)
		}
	}
	return result
}

func apply(op Operator, actual, want string) bool {
	switch op {
	case OpStartsWith:
		return strings.HasPrefix(actual, want)
	case OpEndsWith:
		return strings.HasSuffix(actual, want)
	case OpContains:
		return strings.Contains(actual, want)
	case OpNotContains:
		return !strings.Contains(actual, want)
	case OpIsNot:
		return actual != want
	case OpHasField:
		return HasField(actual, want)
	default:
		return actual == want
	}
}

// HasField reports whether item is an element of an additive list such
// as "+linux,web,db".
func HasField(list, item string) bool {
	for _, v := range strings.Split(strings.Trim(list, "+"), ",") {
		if v == item {
			return true
		}
	}
	return false
}
