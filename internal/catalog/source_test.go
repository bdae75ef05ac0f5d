package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		records []Record
		wantErr error
	}{
		{name: "sample set", records: SampleRecords()},
		{name: "empty set", records: nil},
		{
			name:    "duplicate id",
			records: []Record{{ID: "m1", Title: "A", Category: "Drama"}, {ID: "m1", Title: "B", Category: "Drama"}},
			wantErr: ErrDuplicateID,
		},
		{name: "missing id", records: []Record{{Title: "A", Category: "Drama"}}, wantErr: ErrInvalidRecord},
		{name: "missing title", records: []Record{{ID: "x", Title: "  ", Category: "Drama"}}, wantErr: ErrInvalidRecord},
		{name: "missing genre", records: []Record{{ID: "x", Title: "A"}}, wantErr: ErrInvalidRecord},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := Validate(tc.records)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestSnapshotIsImmutable(t *testing.T) {
	t.Parallel()

	records := SampleRecords()
	snapshot, err := NewSnapshot(3, records)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	records[0].Title = "mutated"

	got := snapshot.Records()
	if got[0].Title != "The Long Journey" {
		t.Fatalf("snapshot observed caller mutation: %q", got[0].Title)
	}
	got[1].Title = "mutated again"
	if again := snapshot.Records(); again[1].Title != "Skyline Chase" {
		t.Fatalf("snapshot observed result mutation: %q", again[1].Title)
	}

	categories := snapshot.Categories()
	categories[0] = "changed"
	if snapshot.Categories()[0] != AllCategories {
		t.Fatalf("snapshot categories were mutated")
	}
	if snapshot.Version() != 3 {
		t.Fatalf("expected version 3, got %d", snapshot.Version())
	}
}

func TestSnapshotFind(t *testing.T) {
	t.Parallel()

	snapshot, err := NewSnapshot(1, SampleRecords())
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	rec, ok := snapshot.Find("m4")
	if !ok || rec.Title != "Mystery of Echoes" {
		t.Fatalf("Find(m4) = %+v, %v", rec, ok)
	}
	if _, ok := snapshot.Find("missing"); ok {
		t.Fatalf("expected missing id to be absent")
	}
}

func TestStaticSourceDefaultsToSampleRecords(t *testing.T) {
	t.Parallel()

	src, err := NewStaticSource(nil)
	if err != nil {
		t.Fatalf("NewStaticSource: %v", err)
	}
	snapshot, err := src.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if diff := cmp.Diff(SampleRecords(), snapshot.Records()); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestStaticSourceRejectsInvalidRecords(t *testing.T) {
	t.Parallel()

	_, err := NewStaticSource([]Record{{ID: "a", Title: "A", Category: "X"}, {ID: "a", Title: "B", Category: "X"}})
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestLinkTargets(t *testing.T) {
	t.Parallel()

	if got := ViewPath("m1"); got != "/dashboard/video-movies/m1" {
		t.Errorf("ViewPath(m1) = %q", got)
	}
	if got := EditPath("m1"); got != "/dashboard/video-movies/m1/edit" {
		t.Errorf("EditPath(m1) = %q", got)
	}
	if got := ViewPath("a b/c"); got != "/dashboard/video-movies/a%20b%2Fc" {
		t.Errorf("ViewPath escaping = %q", got)
	}
}
