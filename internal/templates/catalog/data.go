package catalog

import (
	"fmt"
	"html/template"
	"net/url"
	"strconv"

	mediacatalog "finitefield.org/media-web/internal/catalog"
	"finitefield.org/media-web/internal/format"
	"finitefield.org/media-web/internal/markup"
)

// EmptyMessage is shown when the derived view has no records.
const EmptyMessage = "No movies found. Try a different search or add a new movie."

// PageData represents the catalog page payload.
type PageData struct {
	Title           string
	Subtitle        string
	Query           string
	Genre           string
	Options         []OptionView
	ResultsEndpoint string
	FormAction      string
	Results         ResultsData
}

// OptionView is one entry of the category selector.
type OptionView struct {
	Value    string
	Selected bool
}

// ResultsData is the grid fragment payload, rendered both inline and for htmx swaps.
type ResultsData struct {
	Count      int
	CountLabel string
	Movies     []MovieCard
	Empty      bool
	EmptyText  string
}

// MovieCard is a single grid card.
type MovieCard struct {
	ID        string
	Title     string
	Year      string
	Duration  string
	Rating    string
	Genre     string
	Thumbnail string
	Summary   string
	ViewHref  string
	EditHref  string
}

// DetailData is the single-record page payload.
type DetailData struct {
	Movie    MovieCard
	Overview template.HTML
	BackHref string
}

// BuildPageData prepares the catalog template payload from the view state.
func BuildPageData(state *mediacatalog.ViewState, basePath string) PageData {
	return PageData{
		Title:           "Movies & Videos",
		Subtitle:        "Browse and manage your video library.",
		Query:           state.Query(),
		Genre:           state.Category(),
		Options:         toOptionViews(state.Snapshot().Categories(), state.Category()),
		ResultsEndpoint: basePath + "/results",
		FormAction:      basePath,
		Results:         ResultsPayload(state),
	}
}

// ResultsPayload prepares the derived view for rendering.
func ResultsPayload(state *mediacatalog.ViewState) ResultsData {
	view := state.View()
	return ResultsData{
		Count:      len(view),
		CountLabel: fmt.Sprintf("%d result(s)", len(view)),
		Movies:     toMovieCards(view),
		Empty:      len(view) == 0,
		EmptyText:  EmptyMessage,
	}
}

// BuildDetailData prepares a single record page. Overview markdown is rendered
// to sanitised HTML.
func BuildDetailData(rec mediacatalog.Record, backHref string) (DetailData, error) {
	overview, err := markup.Render(rec.Overview)
	if err != nil {
		return DetailData{}, fmt.Errorf("render overview for %s: %w", rec.ID, err)
	}
	return DetailData{
		Movie:    toMovieCard(rec),
		Overview: overview,
		BackHref: backHref,
	}, nil
}

// ResultsQuery encodes the state as catalog page query parameters.
func ResultsQuery(state *mediacatalog.ViewState) string {
	values := url.Values{}
	if state.Query() != "" {
		values.Set("q", state.Query())
	}
	if state.Category() != mediacatalog.AllCategories {
		values.Set("genre", state.Category())
	}
	return values.Encode()
}

func toOptionViews(categories []string, selected string) []OptionView {
	result := make([]OptionView, 0, len(categories))
	for _, c := range categories {
		result = append(result, OptionView{Value: c, Selected: c == selected})
	}
	return result
}

func toMovieCards(list []mediacatalog.Record) []MovieCard {
	result := make([]MovieCard, 0, len(list))
	for _, rec := range list {
		result = append(result, toMovieCard(rec))
	}
	return result
}

func toMovieCard(rec mediacatalog.Record) MovieCard {
	year := ""
	if rec.Year > 0 {
		year = strconv.Itoa(rec.Year)
	}
	return MovieCard{
		ID:        rec.ID,
		Title:     rec.Title,
		Year:      year,
		Duration:  rec.Duration,
		Rating:    format.FmtRating(rec.Rating),
		Genre:     rec.Category,
		Thumbnail: rec.Thumbnail,
		Summary:   markup.Plain(rec.Overview, 120),
		ViewHref:  mediacatalog.ViewPath(rec.ID),
		EditHref:  mediacatalog.EditPath(rec.ID),
	}
}
