package cronspan

import (
	"fmt"
	"time"
)

// DefaultMaxDateRange caps a window's span in days so that expansion always
// terminates with bounded output.
const DefaultMaxDateRange = 1095

// GlobalWindow bounds expansion to the dates startDate through
// startDate+daysForward, inclusive. It is shared by every expression in an
// ExpandGlobalWindow call.
type GlobalWindow struct {
	StartDate   time.Time
	DaysForward int
}

func (w GlobalWindow) validate(maxDays int) error {
	if w.DaysForward < 0 {
		return &InvalidWindowError{
			Reason: fmt.Sprintf("days forward must not be negative, got %d", w.DaysForward),
		}
	}
	if w.DaysForward > maxDays {
		return &WindowTooLargeError{Days: w.DaysForward, Max: maxDays}
	}
	return nil
}

// Entry is one expansion request carrying its own window. Both bounds are
// timestamp-precision and inclusive: an instant equal to StartAt or EndAt is
// produced. ID is an optional caller-supplied key carried through to the
// resulting instants for traceability and deduplication.
type Entry struct {
	ID      string
	Cron    string
	StartAt time.Time
	EndAt   time.Time
}

func (en Entry) validate(maxDays int) error {
	if !en.StartAt.Before(en.EndAt) {
		return &InvalidWindowError{
			Reason: fmt.Sprintf("start %s is not before end %s",
				en.StartAt.Format(time.RFC3339), en.EndAt.Format(time.RFC3339)),
		}
	}
	days := int(en.EndAt.Sub(en.StartAt).Hours() / 24)
	if days > maxDays {
		return &WindowTooLargeError{Days: days, Max: maxDays}
	}
	return nil
}
