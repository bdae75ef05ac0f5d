package catalog

import "fmt"

// ViewState holds the interactive catalog state for one record snapshot.
// The zero value is not usable; construct with NewViewState.
type ViewState struct {
	snapshot Snapshot
	query    string
	category string
}

// NewViewState returns the initial state {query: "", category: "All"} over snapshot.
func NewViewState(snapshot Snapshot) *ViewState {
	return &ViewState{
		snapshot: snapshot,
		category: AllCategories,
	}
}

// Query returns the stored query exactly as it was set.
func (s *ViewState) Query() string { return s.query }

// Category returns the selected category.
func (s *ViewState) Category() string { return s.category }

// Snapshot returns the record snapshot the state filters.
func (s *ViewState) Snapshot() Snapshot { return s.snapshot }

// SetQuery stores the query verbatim. Trimming only happens when matching.
func (s *ViewState) SetQuery(query string) {
	s.query = query
}

// SetCategory selects one of the snapshot's category options. Values the snapshot
// does not offer are rejected with ErrUnknownCategory and leave the state unchanged.
func (s *ViewState) SetCategory(category string) error {
	for _, option := range s.snapshot.Categories() {
		if option == category {
			s.category = category
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
}

// View recomputes the derived view for the current state.
func (s *ViewState) View() []Record {
	return DeriveView(s.snapshot.Records(), s.query, s.category)
}
