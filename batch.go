package cronspan

import (
	"crypto/rand"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// TriggerInstant is one concrete firing of a cron expression within a window.
// ID carries the entry's window key when one was supplied.
type TriggerInstant struct {
	ID   string
	Cron string
	At   time.Time
}

// EntryError pairs a rejected batch entry with the error that rejected it.
type EntryError struct {
	ID   string
	Cron string
	Err  error
}

// Result is the outcome of a batch expansion. Instants are deduplicated on
// (ID, Cron, At) and carry no particular order; callers needing determinism
// use SortInstants. Failed holds the entries that were rejected without
// aborting the rest of the batch.
type Result struct {
	Instants []TriggerInstant
	Failed   []EntryError
}

// SortInstants orders instants by ID, then expression text, then time.
func SortInstants(instants []TriggerInstant) {
	sort.Slice(instants, func(i, j int) bool {
		a, b := instants[i], instants[j]
		if a.ID != b.ID {
			return a.ID < b.ID
		}
		if a.Cron != b.Cron {
			return a.Cron < b.Cron
		}
		return a.At.Before(b.At)
	})
}

// NewEntryID generates a ULID-based identifier for entries submitted without
// one. The engine never assigns IDs itself, since an assigned ID would defeat
// deduplication of otherwise identical entries; callers that want generated
// keys attach them before expansion.
func NewEntryID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// ExpandGlobalWindow expands every expression over one shared window covering
// the dates startDate through startDate+daysForward, inclusive. An invalid or
// oversized window fails the whole call; a malformed expression fails only
// its own entry.
func (e *Expander) ExpandGlobalWindow(crons []string, startDate time.Time, daysForward int) (*Result, error) {
	mode, err := e.mode()
	if err != nil {
		return nil, err
	}
	w := GlobalWindow{StartDate: startDate, DaysForward: daysForward}
	if err := w.validate(e.maxDateRange()); err != nil {
		return nil, err
	}

	loc := e.location()
	startDate = startDate.In(loc)
	startAt := time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, loc)
	endAt := startAt.AddDate(0, 0, daysForward)
	endAt = time.Date(endAt.Year(), endAt.Month(), endAt.Day(), 23, 59, 59, 0, loc)

	entries := make([]Entry, 0, len(crons))
	for _, c := range crons {
		entries = append(entries, Entry{Cron: c, StartAt: startAt, EndAt: endAt})
	}
	return e.runBatch(entries, mode), nil
}

// ExpandPerEntryWindow expands a batch of entries, each bounded by its own
// inclusive [StartAt, EndAt] window. A bad day match mode fails the call;
// window and parse errors are local to their entry and land in Result.Failed.
func (e *Expander) ExpandPerEntryWindow(entries []Entry) (*Result, error) {
	mode, err := e.mode()
	if err != nil {
		return nil, err
	}
	return e.runBatch(entries, mode), nil
}

// instantKey identifies an instant for batch-wide deduplication.
type instantKey struct {
	id   string
	cron string
	at   int64
}

// runBatch shards entries across a bounded worker pool. Every entry is
// independent, so workers share only the input slice and a mutex-guarded
// collector.
func (e *Expander) runBatch(entries []Entry, mode DayMatchMode) *Result {
	res := &Result{}
	seen := make(map[instantKey]bool)
	var mu sync.Mutex

	jobs := make(chan Entry)
	var wg sync.WaitGroup
	for i := 0; i < e.workers(); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for en := range jobs {
				times, err := e.expandEntry(en, mode)

				mu.Lock()
				if err != nil {
					res.Failed = append(res.Failed, EntryError{ID: en.ID, Cron: en.Cron, Err: err})
				} else {
					for _, t := range times {
						k := instantKey{id: en.ID, cron: en.Cron, at: t.UnixNano()}
						if seen[k] {
							continue
						}
						seen[k] = true
						res.Instants = append(res.Instants, TriggerInstant{ID: en.ID, Cron: en.Cron, At: t})
					}
				}
				mu.Unlock()
			}
		}()
	}

	for _, en := range entries {
		jobs <- en
	}
	close(jobs)
	wg.Wait()

	return res
}
