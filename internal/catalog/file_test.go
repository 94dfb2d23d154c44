// Cinecase - Case-Based Movie Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecase

package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/cinecase/internal/config"
)

const yamlDocument = `
movies:
  - uri: urn:movie:ryan
    title: Saving Private Ryan
    year: 1998
    genres: [Drama, War]
    directors:
      - name: Steven Spielberg
    actors:
      - name: Tom Hanks
      - name: Matt Damon
    rating: 8.6
    country: US
  - uri: urn:movie:dunkirk
    title: Dunkirk
    year: 2017
    genres: [Drama, War]
    rating: 7.8
`

const yamlList = `
- uri: urn:movie:up
  title: Up
  year: 2009
`

const jsonDocument = `{
  "movies": [
    {"uri": "urn:movie:ryan", "title": "Saving Private Ryan", "year": 1998,
     "genres": ["Drama", "War"], "directors": [{"name": "Steven Spielberg"}], "rating": 8.6},
    {"uri": "urn:movie:up", "title": "Up", "year": 2009}
  ]
}`

const jsonList = `  [{"uri": "urn:movie:up", "title": "Up", "year": 2009}]`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestFileSource_Formats(t *testing.T) {
	tests := []struct {
		name      string
		file      string
		body      string
		format    string
		wantCount int
		wantFirst string
	}{
		{"yaml document", "movies.yaml", yamlDocument, "", 2, "urn:movie:ryan"},
		{"yaml list", "movies.yml", yamlList, "", 1, "urn:movie:up"},
		{"json document", "movies.json", jsonDocument, "", 2, "urn:movie:ryan"},
		{"json list", "movies.json", jsonList, "", 1, "urn:movie:up"},
		{"format override", "movies.data", jsonList, "JSON", 1, "urn:movie:up"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := NewFileSource(writeFile(t, tt.file, tt.body), tt.format)
			require.NoError(t, err)

			movies, err := src.Movies(context.Background())
			require.NoError(t, err)
			require.Len(t, movies, tt.wantCount)
			assert.Equal(t, tt.wantFirst, movies[0].URI)
		})
	}
}

func TestFileSource_DecodesAllFields(t *testing.T) {
	src, err := NewFileSource(writeFile(t, "movies.yaml", yamlDocument), "")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, src.Format())

	movies, err := src.Movies(context.Background())
	require.NoError(t, err)

	ryan := movies[0]
	assert.Equal(t, "Saving Private Ryan", ryan.Title)
	assert.Equal(t, 1998, ryan.Year)
	assert.Equal(t, []string{"Drama", "War"}, ryan.Genres)
	assert.Equal(t, "Steven Spielberg", ryan.Directors[0].Name)
	assert.Len(t, ryan.Actors, 2)
	assert.InDelta(t, 8.6, ryan.Rating, 1e-12)
	assert.Equal(t, "US", ryan.Country)

	assert.Empty(t, movies[1].Country, "missing keys stay at the zero value")
}

func TestFileSource_EmptyYAML(t *testing.T) {
	src, err := NewFileSource(writeFile(t, "movies.yaml", ""), "")
	require.NoError(t, err)

	movies, err := src.Movies(context.Background())
	require.NoError(t, err)
	assert.Empty(t, movies)
}

func TestNewFileSource_UnsupportedFormat(t *testing.T) {
	_, err := NewFileSource("movies.csv", "")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = NewFileSource("movies.json", "xml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFileSource_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		src, err := NewFileSource(filepath.Join(t.TempDir(), "absent.json"), "")
		require.NoError(t, err)

		_, err = src.Movies(context.Background())
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed json", func(t *testing.T) {
		src, err := NewFileSource(writeFile(t, "movies.json", `{"movies": [`), "")
		require.NoError(t, err)

		_, err = src.Movies(context.Background())
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		src, err := NewFileSource(writeFile(t, "movies.yaml", "movies: [\n"), "")
		require.NoError(t, err)

		_, err = src.Movies(context.Background())
		assert.Error(t, err)
	})

	t.Run("canceled context", func(t *testing.T) {
		src, err := NewFileSource(writeFile(t, "movies.json", jsonList), "")
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = src.Movies(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestNewSource(t *testing.T) {
	path := writeFile(t, "movies.json", jsonList)

	cfg := config.Default().Catalog
	cfg.Path = path

	src, err := NewSource(&cfg)
	require.NoError(t, err)
	assert.IsType(t, &BreakerSource{}, src)

	cfg.Breaker.Enabled = false
	src, err = NewSource(&cfg)
	require.NoError(t, err)
	assert.IsType(t, &FileSource{}, src)

	cfg.Path = ""
	_, err = NewSource(&cfg)
	assert.Error(t, err)
}
