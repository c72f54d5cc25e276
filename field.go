package cronspan

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// FieldKind identifies one of the five cron fields.
type FieldKind int

const (
	FieldMinute FieldKind = iota
	FieldHour
	FieldDayOfMonth
	FieldMonth
	FieldDayOfWeek
)

// fieldSpec defines a field's name and inclusive value domain.
type fieldSpec struct {
	name string
	min  int
	max  int
}

var fieldSpecs = [5]fieldSpec{
	{"minute", 0, 59},
	{"hour", 0, 23},
	{"day-of-month", 1, 31},
	{"month", 1, 12},
	{"day-of-week", 0, 6},
}

func (k FieldKind) String() string { return fieldSpecs[k].name }

var monthNames = map[string]int{
	"JAN": 1, "FEB": 2, "MAR": 3, "APR": 4, "MAY": 5, "JUN": 6,
	"JUL": 7, "AUG": 8, "SEP": 9, "OCT": 10, "NOV": 11, "DEC": 12,
}

var dowNames = map[string]int{
	"SUN": 0, "MON": 1, "TUE": 2, "WED": 3, "THU": 4, "FRI": 5, "SAT": 6,
}

// Subentry is one comma-separated unit of a cron field after wildcard and
// name substitution: an inclusive value range walked with a step.
type Subentry struct {
	Start int
	End   int
	Step  int

	spec string // original token, kept for Explain
}

// Values returns the concrete field values the subentry matches: every v with
// Start <= v <= End and (v-Start) divisible by Step.
func (s Subentry) Values() []int {
	var vals []int
	for v := s.Start; v <= s.End; v += s.Step {
		vals = append(vals, v)
	}
	return vals
}

// fieldValue resolves one numeric or named token of a field to its value.
// Month and day-of-week names are case-insensitive; day-of-week 7 normalizes
// to 0 before any range is assembled.
func fieldValue(token string, kind FieldKind) (int, error) {
	if n, err := strconv.Atoi(token); err == nil {
		if kind == FieldDayOfWeek && n == 7 {
			n = 0 // 7 is Sunday
		}
		return n, nil
	}
	var names map[string]int
	switch kind {
	case FieldMonth:
		names = monthNames
	case FieldDayOfWeek:
		names = dowNames
	}
	if v, ok := names[strings.ToUpper(token)]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("invalid value %q", token)
}

// parseSubentry parses a single comma-separated token: *, N, N-M, */S, N-M/S,
// or N/S (which runs from N to the domain maximum).
func parseSubentry(token string, kind FieldKind) (Subentry, error) {
	spec := fieldSpecs[kind]

	rangeSpec := token
	step := 1
	explicitStep := false
	if idx := strings.Index(token, "/"); idx >= 0 {
		stepSpec := token[idx+1:]
		rangeSpec = token[:idx]
		if stepSpec != "" {
			s, err := strconv.Atoi(stepSpec)
			if err != nil {
				return Subentry{}, fmt.Errorf("invalid step %q", stepSpec)
			}
			if s < 1 {
				return Subentry{}, fmt.Errorf("step must be at least 1, got %d", s)
			}
			step = s
			explicitStep = true
		}
	}

	var start, end int
	switch {
	case rangeSpec == "*":
		start, end = spec.min, spec.max
	case strings.Contains(rangeSpec, "-"):
		parts := strings.SplitN(rangeSpec, "-", 2)
		var err error
		if start, err = fieldValue(parts[0], kind); err != nil {
			return Subentry{}, fmt.Errorf("invalid range start %q", parts[0])
		}
		if end, err = fieldValue(parts[1], kind); err != nil {
			return Subentry{}, fmt.Errorf("invalid range end %q", parts[1])
		}
	case rangeSpec == "":
		return Subentry{}, fmt.Errorf("empty range in %q", token)
	default:
		var err error
		if start, err = fieldValue(rangeSpec, kind); err != nil {
			return Subentry{}, err
		}
		if explicitStep {
			// N/S runs from N to the domain maximum.
			end = spec.max
		} else {
			end = start
		}
	}

	if start < spec.min || start > spec.max {
		return Subentry{}, fmt.Errorf("value %d out of range %d-%d", start, spec.min, spec.max)
	}
	if end < spec.min || end > spec.max {
		return Subentry{}, fmt.Errorf("value %d out of range %d-%d", end, spec.min, spec.max)
	}
	if start > end {
		return Subentry{}, fmt.Errorf("range start %d greater than end %d", start, end)
	}

	return Subentry{Start: start, End: end, Step: step, spec: token}, nil
}

// parseField splits one cron field into its normalized subentries.
func parseField(text string, kind FieldKind) ([]Subentry, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("empty field")
	}
	tokens := strings.Split(text, ",")
	subs := make([]Subentry, 0, len(tokens))
	for _, tok := range tokens {
		sub, err := parseSubentry(tok, kind)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

// expandValues unions the values matched by all subentries of one field into
// a sorted, deduplicated list. Comma lists are inclusive-or within a field.
func expandValues(subs []Subentry) []int {
	seen := make(map[int]bool)
	var vals []int
	for _, s := range subs {
		for _, v := range s.Values() {
			if !seen[v] {
				seen[v] = true
				vals = append(vals, v)
			}
		}
	}
	sort.Ints(vals)
	return vals
}

func containsInt(set []int, v int) bool {
	for _, x := range set {
		if x == v {
			return true
		}
	}
	return false
}
