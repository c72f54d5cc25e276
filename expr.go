// Package cronspan expands five-field cron expressions into the concrete
// timestamps at which they fire within a bounded date window.
//
// Field grammar per field: *, N, N-M, */S, N-M/S, and comma-separated lists
// of those. Months accept JAN-DEC, day-of-week accepts SUN-SAT (both
// case-insensitive) and 7 as an alias for Sunday. The classic ambiguity
// between the day-of-month and day-of-week fields is resolved by a
// configurable DayMatchMode.
package cronspan

import (
	"fmt"
	"strings"
)

// Expression is a parsed five-field cron expression
// (minute hour day-of-month month day-of-week). It is immutable after Parse.
// Identity, for deduplication purposes, is the original text: "*/1" and "*"
// are distinct expressions even though they match the same values.
type Expression struct {
	text   string
	fields [5]string
	subs   [5][]Subentry
	values [5][]int
}

// Parse parses a standard five-field cron expression.
func Parse(expr string) (*Expression, error) {
	parts := strings.Fields(expr)
	if len(parts) != 5 {
		return nil, &MalformedFieldError{
			Cron:   expr,
			Field:  "expression",
			Reason: fmt.Sprintf("expected 5 fields, got %d", len(parts)),
		}
	}

	x := &Expression{text: expr}
	for i, part := range parts {
		kind := FieldKind(i)
		subs, err := parseField(part, kind)
		if err != nil {
			return nil, &MalformedFieldError{Cron: expr, Field: kind.String(), Reason: err.Error()}
		}
		x.fields[i] = part
		x.subs[i] = subs
		x.values[i] = expandValues(subs)
	}
	return x, nil
}

// String returns the original expression text.
func (x *Expression) String() string { return x.text }

// Field returns the raw, unexpanded text of the given field.
func (x *Expression) Field(kind FieldKind) string { return x.fields[kind] }

// Values returns the sorted set of concrete values the given field matches.
func (x *Expression) Values(kind FieldKind) []int {
	vals := make([]int, len(x.values[kind]))
	copy(vals, x.values[kind])
	return vals
}

// FieldMatch pairs one subentry's original spec text with the values it
// matches.
type FieldMatch struct {
	Spec   string
	Values []int
}

// Explain reports which values each subentry of the given field matches. It
// is a diagnostic aid for tracing why an expression fired; expansion never
// consults it.
func (x *Expression) Explain(kind FieldKind) []FieldMatch {
	matches := make([]FieldMatch, 0, len(x.subs[kind]))
	for _, s := range x.subs[kind] {
		matches = append(matches, FieldMatch{Spec: s.spec, Values: s.Values()})
	}
	return matches
}
