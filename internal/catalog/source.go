package catalog

import (
	"context"
	"fmt"
	"strings"
)

// Source supplies the record set the catalog view filters.
type Source interface {
	// Snapshot returns the currently published record set.
	Snapshot(ctx context.Context) (Snapshot, error)
}

// Snapshot is an immutable, validated record set. Its category options are computed
// once when the snapshot is built, so they can never outlive the records they describe.
type Snapshot struct {
	version    uint64
	records    []Record
	categories []string
}

// NewSnapshot validates records and freezes them under the given version.
func NewSnapshot(version uint64, records []Record) (Snapshot, error) {
	if err := Validate(records); err != nil {
		return Snapshot{}, err
	}
	frozen := append([]Record(nil), records...)
	return Snapshot{
		version:    version,
		records:    frozen,
		categories: Categories(frozen),
	}, nil
}

// Version identifies the record set; a newer set always has a larger version.
func (s Snapshot) Version() uint64 { return s.version }

// Len returns the number of records.
func (s Snapshot) Len() int { return len(s.records) }

// Records returns a copy of the records in their original order.
func (s Snapshot) Records() []Record {
	return append([]Record(nil), s.records...)
}

// Categories returns a copy of the memoised category options.
func (s Snapshot) Categories() []string {
	if s.categories == nil {
		return []string{AllCategories}
	}
	return append([]string(nil), s.categories...)
}

// Find looks up a record by identifier.
func (s Snapshot) Find(id string) (Record, bool) {
	for _, rec := range s.records {
		if rec.ID == id {
			return rec, true
		}
	}
	return Record{}, false
}

// Validate checks required fields and identifier uniqueness.
func Validate(records []Record) error {
	seen := make(map[string]struct{}, len(records))
	for i, rec := range records {
		switch {
		case strings.TrimSpace(rec.ID) == "":
			return fmt.Errorf("%w: record %d has no id", ErrInvalidRecord, i)
		case strings.TrimSpace(rec.Title) == "":
			return fmt.Errorf("%w: record %q has no title", ErrInvalidRecord, rec.ID)
		case strings.TrimSpace(rec.Category) == "":
			return fmt.Errorf("%w: record %q has no genre", ErrInvalidRecord, rec.ID)
		}
		if _, ok := seen[rec.ID]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateID, rec.ID)
		}
		seen[rec.ID] = struct{}{}
	}
	return nil
}

// StaticSource serves a fixed record set for development and tests.
type StaticSource struct {
	snapshot Snapshot
}

// NewStaticSource returns a StaticSource over records, or over SampleRecords when none are supplied.
func NewStaticSource(records []Record) (*StaticSource, error) {
	if len(records) == 0 {
		records = SampleRecords()
	}
	snapshot, err := NewSnapshot(1, records)
	if err != nil {
		return nil, err
	}
	return &StaticSource{snapshot: snapshot}, nil
}

// Snapshot returns the fixed record set.
func (s *StaticSource) Snapshot(ctx context.Context) (Snapshot, error) {
	return s.snapshot, nil
}
