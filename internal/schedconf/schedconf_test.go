package schedconf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/patrickspencer/cronspan"
)

func TestParseDocumentDefaults(t *testing.T) {
	t.Parallel()

	doc, err := ParseDocument([]byte(`
window:
  start_date: "2024-01-01"
  days_forward: 2
entries:
  - cron: "0 9 * * *"
`))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	if doc.DayMatchMode != string(cronspan.ModeVixie) {
		t.Fatalf("expected default mode vixie, got %q", doc.DayMatchMode)
	}
	if doc.MaxDateRange != cronspan.DefaultMaxDateRange {
		t.Fatalf("expected default max date range %d, got %d", cronspan.DefaultMaxDateRange, doc.MaxDateRange)
	}
	if len(doc.Entries[0].ID) != 26 {
		t.Fatalf("expected a generated ULID for the entry, got %q", doc.Entries[0].ID)
	}
}

func TestParseDocumentInvalidMode(t *testing.T) {
	t.Parallel()

	_, err := ParseDocument([]byte(`
day_match_mode: both
window:
  start_date: "2024-01-01"
entries:
  - cron: "0 9 * * *"
`))
	var cerr *cronspan.InvalidConfigurationError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected InvalidConfigurationError, got %v", err)
	}
}

func TestParseDocumentMissingWindow(t *testing.T) {
	t.Parallel()

	_, err := ParseDocument([]byte(`
entries:
  - id: orphan
    cron: "0 9 * * *"
`))
	if err == nil {
		t.Fatal("expected an error for an entry with no window")
	}

	_, err = ParseDocument([]byte(`
entries:
  - id: half
    cron: "0 9 * * *"
    start_at: 2024-01-01T00:00:00Z
`))
	if err == nil {
		t.Fatal("expected an error for start_at without end_at")
	}
}

func TestDocumentExpand(t *testing.T) {
	t.Parallel()

	doc, err := ParseDocument([]byte(`
day_match_mode: vixie
window:
  start_date: "2024-01-01"
  days_forward: 1
entries:
  - id: morning
    cron: "0 9 * * *"
  - id: custom
    cron: "*/10 * * * *"
    start_at: 2024-01-01T00:00:00Z
    end_at: 2024-01-01T00:30:00Z
`))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	res, err := doc.Expand()
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if len(res.Failed) != 0 {
		t.Fatalf("unexpected failures: %+v", res.Failed)
	}

	cronspan.SortInstants(res.Instants)
	counts := map[string]int{}
	for _, in := range res.Instants {
		counts[in.ID]++
	}
	// The document window covers two days of the daily entry; the per-entry
	// window's inclusive bounds admit four ten-minute marks.
	if counts["morning"] != 2 {
		t.Fatalf("expected 2 morning instants, got %d", counts["morning"])
	}
	if counts["custom"] != 4 {
		t.Fatalf("expected 4 custom instants, got %d", counts["custom"])
	}

	first := res.Instants[0]
	if first.ID != "custom" || !first.At.Equal(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected first instant: %+v", first)
	}
}

func TestBatchEntriesBadWindowDate(t *testing.T) {
	t.Parallel()

	// A document built by hand, skipping ParseDocument's validation.
	doc := &Document{
		DayMatchMode: string(cronspan.ModeVixie),
		MaxDateRange: cronspan.DefaultMaxDateRange,
		Window:       &Window{StartDate: "01/02/2024", DaysForward: 1},
		Entries:      []Entry{{ID: "only", Cron: "0 9 * * *"}},
	}

	if _, err := doc.BatchEntries(); err == nil {
		t.Fatal("expected an error for an unparseable window start date")
	}
	if _, err := doc.Expand(); err == nil {
		t.Fatal("expected Expand to surface the window date error")
	}
}

func TestLoadDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	body := `
window:
  start_date: "2024-01-01"
  days_forward: 0
entries:
  - id: only
    cron: "0 9 * * *"
`
	if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(body), 0644); err != nil {
		t.Fatalf("write a.yaml: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b.yaml"), []byte(body), 0644); err != nil {
		t.Fatalf("write b.yaml: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("not yaml"), 0644); err != nil {
		t.Fatalf("write ignored.txt: %v", err)
	}

	docs, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
}

func TestLoadDocumentBadYAML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("entries: [\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadDocument(path); err == nil {
		t.Fatal("expected a parse error")
	}
}
