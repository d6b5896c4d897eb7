package query

import (
	"fmt"
	"strings"
)

// ParseError describes a malformed predicate expression.
type ParseError struct {
	Input   string
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid predicate %q: %s", e.Input, e.Message)
}

// Parse parses a "field[__op]=value" expression.
func Parse(input string) (Predicate, error) {
	key, value, ok := strings.Cut(input, "=")
	if !ok {
		return Predicate{}, &ParseError{Input: input, Message: "expected field=value"}
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return Predicate{}, &ParseError{Input: input, Message: "empty field name"}
	}
	return Where(key, value), nil
}

// ParseAll parses expressions in order, followed by an Absent predicate
// for each name in absent.
func ParseAll(exprs []string, absent []string) ([]Predicate, error) {
	preds := make([]Predicate, 0, len(exprs)+len(absent))
	for _, expr := range exprs {
		p, err := Parse(expr)
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	for _, field := range absent {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		preds = append(preds, WhereAbsent(field))
	}
	return preds, nil
}
