package tmdb

import (
	"encoding/json"
	"fmt"
)

// ImageBaseURL prefixes poster paths to build ready-to-use image URLs.
const ImageBaseURL = "https://image.tmdb.org/t/p/w500"

// Movie is the trimmed trending entry exposed to clients.
type Movie struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Overview    *string  `json:"overview"`
	PosterPath  *string  `json:"poster_path"`
	PosterURL   *string  `json:"poster_url"`
	Rating      *float64 `json:"rating"`
	ReleaseDate *string  `json:"release_date"`
}

type upstreamMovie struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Overview    *string  `json:"overview"`
	PosterPath  *string  `json:"poster_path"`
	VoteAverage *float64 `json:"vote_average"`
	ReleaseDate *string  `json:"release_date"`
}

type listResponse struct {
	Results []upstreamMovie `json:"results"`
}

// PosterURL joins a poster path onto ImageBaseURL. Empty paths yield nil.
func PosterURL(path *string) *string {
	if path == nil || *path == "" {
		return nil
	}
	u := ImageBaseURL + *path
	return &u
}

// DecodeMovies extracts the results list from an upstream list payload.
// A payload without results yields an empty, non-nil slice.
func DecodeMovies(body []byte) ([]Movie, error) {
	var payload listResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	movies := make([]Movie, 0, len(payload.Results))
	for _, m := range payload.Results {
		movies = append(movies, Movie{
			ID:          m.ID,
			Title:       m.Title,
			Overview:    m.Overview,
			PosterPath:  m.PosterPath,
			PosterURL:   PosterURL(m.PosterPath),
			Rating:      m.VoteAverage,
			ReleaseDate: m.ReleaseDate,
		})
	}
	return movies, nil
}
