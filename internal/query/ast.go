// Package query implements suffix-operator filtering over attribute records.
//
// A predicate names a field, optionally followed by an operator suffix:
//
//	host_name=web01
//	host_name__startswith=web
//	hostgroups__has_field=linux
//
// Predicates are evaluated in order and combined with AND.
package query

import (
	"fmt"
	"strings"
)

// Operator is a field comparison operator.
type Operator int

const (
	OpExact Operator = iota
	OpStartsWith
	OpEndsWith
	OpContains
	OpNotContains
	OpIsNot
	OpHasField
)

// operatorSuffixes is checked in this order when splitting a field name.
var operatorSuffixes = []struct {
	suffix string
	op     Operator
}{
	{"__startswith", OpStartsWith},
	{"__endswith", OpEndsWith},
	{"__isnot", OpIsNot},
	{"__contains", OpContains},
	{"__has_field", OpHasField},
	{"__notcontains", OpNotContains},
}

func (op Operator) String() string {
	switch op {
	case OpStartsWith:
		return "startswith"
	case OpEndsWith:
		return "endswith"
	case OpContains:
		return "contains"
	case OpNotContains:
		return "notcontains"
	case OpIsNot:
		return "isnot"
	case OpHasField:
		return "has_field"
	default:
		return "exact"
	}
}

// Predicate is a single field condition.
type Predicate struct {
	// Field is the attribute name with the operator suffix removed.
	Field string
	Op    Operator

	// Value is nil for the Absent sentinel.
	Value *string
}

// Absent reports whether the predicate uses the Absent sentinel.
func (p Predicate) Absent() bool { return p.Value == nil }

func (p Predicate) String() string {
	key := p.Field
	if p.Op != OpExact {
		key += "__" + p.Op.String()
	}
	if p.Value == nil {
		return key + "=<absent>"
	}
	return key + "=" + *p.Value
}

// Where builds a predicate from a field expression and a value.
// A nil value is the Absent sentinel; anything else is coerced with fmt.Sprint.
func Where(expr string, value interface{}) Predicate {
	field, op := splitOperator(expr)
	p := Predicate{Field: field, Op: op}
	switch v := value.(type) {
	case nil:
	case *string:
		if v != nil {
			s := *v
			p.Value = &s
		}
	case string:
		p.Value = &v
	default:
		s := fmt.Sprint(v)
		p.Value = &s
	}
	return p
}

// WhereAbsent matches records that lack the field entirely.
func WhereAbsent(field string) Predicate {
	return Where(field, nil)
}

func splitOperator(expr string) (string, Operator) {
	for _, s := range operatorSuffixes {
		if strings.HasSuffix(expr, s.suffix) {
			return strings.TrimSuffix(expr, s.suffix), s.op
		}
	}
	return expr, OpExact
}
