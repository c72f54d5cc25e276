package cronspan

import (
	"runtime"
	"time"
)

// Expander expands cron expressions into trigger timestamps. The zero value
// is usable: vixie day matching, DefaultMaxDateRange, UTC timestamps, and one
// batch worker per CPU.
type Expander struct {
	// Mode is the day match mode applied to every expression.
	Mode DayMatchMode
	// MaxDateRange is the maximum window span in days. Zero or negative
	// means DefaultMaxDateRange.
	MaxDateRange int
	// Location is the reference timezone in which candidate dates are walked
	// and timestamps constructed. Nil means UTC.
	Location *time.Location
	// Workers bounds batch parallelism. Zero or negative means NumCPU.
	Workers int
}

func (e *Expander) mode() (DayMatchMode, error) {
	return ParseDayMatchMode(string(e.Mode))
}

func (e *Expander) maxDateRange() int {
	if e.MaxDateRange > 0 {
		return e.MaxDateRange
	}
	return DefaultMaxDateRange
}

func (e *Expander) location() *time.Location {
	if e.Location != nil {
		return e.Location
	}
	return time.UTC
}

func (e *Expander) workers() int {
	if e.Workers > 0 {
		return e.Workers
	}
	return runtime.NumCPU()
}

// Expand expands a single cron expression within [startAt, endAt], both
// bounds inclusive. Timestamps carry second zero and come back in ascending
// order.
func (e *Expander) Expand(cron string, startAt, endAt time.Time) ([]time.Time, error) {
	mode, err := e.mode()
	if err != nil {
		return nil, err
	}
	return e.expandEntry(Entry{Cron: cron, StartAt: startAt, EndAt: endAt}, mode)
}

// expandEntry validates one entry's window, parses its expression, and
// expands it.
func (e *Expander) expandEntry(en Entry, mode DayMatchMode) ([]time.Time, error) {
	if err := en.validate(e.maxDateRange()); err != nil {
		return nil, err
	}
	x, err := Parse(en.Cron)
	if err != nil {
		return nil, err
	}
	return e.expand(x, mode, en.StartAt, en.EndAt), nil
}

// expand walks candidate dates one day at a time, filters them by month and
// then by the resolved day match, and fans the survivors across every matched
// hour x minute pair at second zero. Instants outside [startAt, endAt] are
// discarded, so sub-day window precision is honored.
func (e *Expander) expand(x *Expression, mode DayMatchMode, startAt, endAt time.Time) []time.Time {
	loc := e.location()
	match := mode.resolveDayMatch(x)

	minutes := x.values[FieldMinute]
	hours := x.values[FieldHour]
	doms := x.values[FieldDayOfMonth]
	months := x.values[FieldMonth]
	dows := x.values[FieldDayOfWeek]

	startAt = startAt.In(loc)
	endAt = endAt.In(loc)
	day := time.Date(startAt.Year(), startAt.Month(), startAt.Day(), 0, 0, 0, 0, loc)
	lastDay := time.Date(endAt.Year(), endAt.Month(), endAt.Day(), 0, 0, 0, 0, loc)

	var out []time.Time
	for ; !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		if !containsInt(months, int(day.Month())) {
			continue
		}

		// Candidate dates come off the real calendar, so a day-of-month
		// value with no date in this month (Feb 30) never shows up here.
		domOK := containsInt(doms, day.Day())
		dowOK := containsInt(dows, int(day.Weekday()))
		if match == matchIntersect {
			if !domOK || !dowOK {
				continue
			}
		} else if !domOK && !dowOK {
			continue
		}

		for _, h := range hours {
			for _, m := range minutes {
				ts := time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, loc)
				if ts.Before(startAt) || ts.After(endAt) {
					continue
				}
				out = append(out, ts)
			}
		}
	}
	return out
}
