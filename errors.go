package cronspan

import "fmt"

// MalformedFieldError reports a cron field that failed to parse as a valid
// list/range/step construct. Field names the offending field ("minute",
// "hour", ...) or "expression" when the expression itself has the wrong
// number of fields.
type MalformedFieldError struct {
	Cron   string
	Field  string
	Reason string
}

func (e *MalformedFieldError) Error() string {
	return fmt.Sprintf("cron %q: %s field: %s", e.Cron, e.Field, e.Reason)
}

// InvalidWindowError reports a degenerate expansion window: a start bound at
// or after the end bound, or a negative day count.
type InvalidWindowError struct {
	Reason string
}

func (e *InvalidWindowError) Error() string {
	return "invalid window: " + e.Reason
}

// WindowTooLargeError reports a window whose span in days exceeds the
// configured maximum. It is surfaced before any expansion work happens.
type WindowTooLargeError struct {
	Days int
	Max  int
}

func (e *WindowTooLargeError) Error() string {
	return fmt.Sprintf("window spans %d days, maximum is %d", e.Days, e.Max)
}

// InvalidConfigurationError reports an unrecognized day match mode value.
type InvalidConfigurationError struct {
	Value string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("unknown day match mode %q (valid: vixie, contains, union, intersect)", e.Value)
}
