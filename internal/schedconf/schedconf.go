// Package schedconf loads YAML documents describing batches of cron
// expansion requests for the cronspan engine.
package schedconf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/patrickspencer/cronspan"
)

const dateFormat = "2006-01-02"

// Window is an optional document-level window applied to entries that carry
// no window of their own: the dates start_date through
// start_date+days_forward, inclusive, in the engine's reference timezone.
type Window struct {
	StartDate   string `yaml:"start_date"` // YYYY-MM-DD
	DaysForward int    `yaml:"days_forward"`
}

// Entry is one expansion request from a document. StartAt and EndAt are set
// together or not at all; entries without them fall back to the document
// window.
type Entry struct {
	ID      string     `yaml:"id"`
	Cron    string     `yaml:"cron"`
	StartAt *time.Time `yaml:"start_at"`
	EndAt   *time.Time `yaml:"end_at"`
}

// Document is a schedule document parsed from YAML with defaults applied.
type Document struct {
	DayMatchMode string  `yaml:"day_match_mode"`
	MaxDateRange int     `yaml:"max_date_range"`
	Window       *Window `yaml:"window"`
	Entries      []Entry `yaml:"entries"`
}

func applyDefaults(d *Document) {
	if d.DayMatchMode == "" {
		d.DayMatchMode = string(cronspan.ModeVixie)
	}
	if d.MaxDateRange <= 0 {
		d.MaxDateRange = cronspan.DefaultMaxDateRange
	}
	// Entries keep a stable identity across reloads when the author set one;
	// otherwise they get a fresh ULID so expansion results stay traceable.
	for i := range d.Entries {
		if d.Entries[i].ID == "" {
			d.Entries[i].ID = cronspan.NewEntryID()
		}
	}
}

func validate(d *Document) error {
	if _, err := cronspan.ParseDayMatchMode(d.DayMatchMode); err != nil {
		return err
	}
	if d.Window != nil {
		if _, err := time.Parse(dateFormat, d.Window.StartDate); err != nil {
			return fmt.Errorf("window start_date: %w", err)
		}
	}
	for i, en := range d.Entries {
		if strings.TrimSpace(en.Cron) == "" {
			return fmt.Errorf("entry %d (%s): missing cron expression", i, en.ID)
		}
		hasOwn := en.StartAt != nil && en.EndAt != nil
		if !hasOwn && (en.StartAt != nil || en.EndAt != nil) {
			return fmt.Errorf("entry %d (%s): start_at and end_at must be set together", i, en.ID)
		}
		if !hasOwn && d.Window == nil {
			return fmt.Errorf("entry %d (%s): no window: set start_at/end_at or a document window", i, en.ID)
		}
	}
	return nil
}

// ParseDocument parses a schedule document, applies defaults, and validates
// it.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	applyDefaults(&doc)
	if err := validate(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// LoadDocument reads and parses a single schedule document file.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

// LoadDir reads all *.yaml files from dir, parses each into a Document, and
// returns the collected documents.
func LoadDir(dir string) ([]*Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var docs []*Document
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		doc, err := LoadDocument(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Expander builds the engine configured by the document.
func (d *Document) Expander() *cronspan.Expander {
	return &cronspan.Expander{
		Mode:         cronspan.DayMatchMode(d.DayMatchMode),
		MaxDateRange: d.MaxDateRange,
	}
}

// BatchEntries converts the document's entries into engine entries, filling
// in the document window for entries that carry none of their own.
func (d *Document) BatchEntries() ([]cronspan.Entry, error) {
	var globalStart, globalEnd time.Time
	if d.Window != nil {
		day, err := time.Parse(dateFormat, d.Window.StartDate)
		if err != nil {
			return nil, fmt.Errorf("window start date %q: %w", d.Window.StartDate, err)
		}
		globalStart = day
		globalEnd = day.AddDate(0, 0, d.Window.DaysForward)
		globalEnd = time.Date(globalEnd.Year(), globalEnd.Month(), globalEnd.Day(), 23, 59, 59, 0, time.UTC)
	}

	entries := make([]cronspan.Entry, 0, len(d.Entries))
	for _, en := range d.Entries {
		ce := cronspan.Entry{ID: en.ID, Cron: en.Cron}
		if en.StartAt != nil && en.EndAt != nil {
			ce.StartAt, ce.EndAt = *en.StartAt, *en.EndAt
		} else {
			ce.StartAt, ce.EndAt = globalStart, globalEnd
		}
		entries = append(entries, ce)
	}
	return entries, nil
}

// Expand runs the batch expansion described by the document.
func (d *Document) Expand() (*cronspan.Result, error) {
	entries, err := d.BatchEntries()
	if err != nil {
		return nil, err
	}
	return d.Expander().ExpandPerEntryWindow(entries)
}
