package cronspan

import "strings"

// DayMatchMode selects the policy for combining an expression's day-of-month
// and day-of-week constraints. It is resolved once per expression, from the
// raw field strings, before any value expansion.
type DayMatchMode string

const (
	// ModeVixie applies the traditional cron rule: a day field whose first
	// character is '*' is unrestricted, and when either day field is
	// unrestricted the two are intersected (the unrestricted side matches
	// every day, so the other field's constraint is what remains). Only when
	// both day fields are restricted does matching either one suffice.
	// The check is literal first-character: "1,*" counts as restricted.
	ModeVixie DayMatchMode = "vixie"

	// ModeContains is ModeVixie except a field counts as unrestricted when a
	// '*' appears anywhere in its text, not only at the first character.
	ModeContains DayMatchMode = "contains"

	// ModeUnion accepts a date when either day field matches, regardless of
	// wildcard placement.
	ModeUnion DayMatchMode = "union"

	// ModeIntersect requires both day fields to match, regardless of
	// wildcard placement.
	ModeIntersect DayMatchMode = "intersect"
)

// ParseDayMatchMode validates a day match mode string. The empty string
// resolves to ModeVixie, the default.
func ParseDayMatchMode(s string) (DayMatchMode, error) {
	switch DayMatchMode(s) {
	case "":
		return ModeVixie, nil
	case ModeVixie, ModeContains, ModeUnion, ModeIntersect:
		return DayMatchMode(s), nil
	}
	return "", &InvalidConfigurationError{Value: s}
}

// dayMatch is the per-expression resolved policy: union or intersect.
type dayMatch int

const (
	matchUnion dayMatch = iota
	matchIntersect
)

// resolveDayMatch classifies an expression's day matching once, from the raw
// day field strings. Expanded value sets play no part in the decision.
func (m DayMatchMode) resolveDayMatch(x *Expression) dayMatch {
	dom := x.Field(FieldDayOfMonth)
	dow := x.Field(FieldDayOfWeek)

	switch m {
	case ModeUnion:
		return matchUnion
	case ModeIntersect:
		return matchIntersect
	case ModeContains:
		if strings.Contains(dom, "*") || strings.Contains(dow, "*") {
			return matchIntersect
		}
		return matchUnion
	default: // ModeVixie
		if strings.HasPrefix(dom, "*") || strings.HasPrefix(dow, "*") {
			return matchIntersect
		}
		return matchUnion
	}
}
