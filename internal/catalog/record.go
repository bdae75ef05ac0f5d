package catalog

import "errors"

// AllCategories is the sentinel category meaning no category filter is applied.
const AllCategories = "All"

var (
	// ErrDuplicateID indicates two records in one set share an identifier.
	ErrDuplicateID = errors.New("catalog: duplicate record id")
	// ErrInvalidRecord indicates a record is missing a required field.
	ErrInvalidRecord = errors.New("catalog: invalid record")
	// ErrUnknownCategory indicates a category that the record set does not offer.
	ErrUnknownCategory = errors.New("catalog: unknown category")
)

// Record is a single catalog entry.
type Record struct {
	ID       string  `json:"id" yaml:"id"`
	Title    string  `json:"title" yaml:"title"`
	Year     int     `json:"year" yaml:"year"`
	Duration string  `json:"duration" yaml:"duration"` // display only, never parsed
	Rating   float64 `json:"rating" yaml:"rating"`
	Category string  `json:"genre" yaml:"genre"`

	Overview  string `json:"overview,omitempty" yaml:"overview,omitempty"` // markdown
	Thumbnail string `json:"thumbnail,omitempty" yaml:"thumbnail,omitempty"`
}

// SampleRecords returns the built-in movie set used when no catalog file is configured.
func SampleRecords() []Record {
	return []Record{
		{ID: "m1", Title: "The Long Journey", Year: 2023, Duration: "1h 42m", Rating: 8.2, Category: "Drama"},
		{ID: "m2", Title: "Skyline Chase", Year: 2021, Duration: "2h 4m", Rating: 7.4, Category: "Action"},
		{ID: "m3", Title: "Animated Tales", Year: 2020, Duration: "1h 18m", Rating: 8.7, Category: "Animation"},
		{ID: "m4", Title: "Mystery of Echoes", Year: 2024, Duration: "1h 55m", Rating: 7.9, Category: "Thriller"},
		{ID: "m5", Title: "Retro Romance", Year: 2019, Duration: "1h 36m", Rating: 6.8, Category: "Romance"},
		{ID: "m6", Title: "Space Between", Year: 2022, Duration: "2h 10m", Rating: 8.5, Category: "Sci-Fi"},
	}
}
