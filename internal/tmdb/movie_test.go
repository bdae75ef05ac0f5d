package tmdb

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeMovies(t *testing.T) {
	t.Parallel()

	body := []byte(`{"page":1,"results":[
		{"id":550,"title":"Fight Club","overview":"An insomniac...","poster_path":"/a.jpg","vote_average":8.4,"release_date":"1999-10-15","adult":false},
		{"id":551,"title":"No Poster","overview":null,"poster_path":null,"vote_average":null},
		{"id":552,"title":"Blank Poster","poster_path":""}
	]}`)

	movies, err := DecodeMovies(body)
	require.NoError(t, err)
	require.Len(t, movies, 3)

	require.Equal(t, "https://image.tmdb.org/t/p/w500/a.jpg", *movies[0].PosterURL)
	require.InDelta(t, 8.4, *movies[0].Rating, 0.001)
	require.Nil(t, movies[1].PosterURL)
	require.Nil(t, movies[1].Rating)
	require.Nil(t, movies[2].PosterURL)

	encoded, err := json.Marshal(movies[1])
	require.NoError(t, err)
	require.JSONEq(t, `{"id":551,"title":"No Poster","overview":null,"poster_path":null,"poster_url":null,"rating":null,"release_date":null}`, string(encoded))
}

func TestDecodeMoviesWithoutResults(t *testing.T) {
	t.Parallel()

	movies, err := DecodeMovies([]byte(`{"page":1}`))
	require.NoError(t, err)
	require.NotNil(t, movies)
	require.Empty(t, movies)

	_, err = DecodeMovies([]byte(`[1,2]`))
	require.ErrorIs(t, err, ErrBadResponse)
}
