// Cinecase - Case-Based Movie Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecase

package catalog

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/tomtom215/cinecase/internal/models"
)

// Supported catalog file formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// document is the envelope form of a catalog file. A bare list of movies
// is accepted as well.
type document struct {
	Movies []*models.Movie `json:"movies" yaml:"movies"`
}

// FileSource reads a catalog from a JSON or YAML file on every call.
type FileSource struct {
	path   string
	format string
}

// NewFileSource creates a source for path. An empty format is detected from
// the file extension (.json, .yaml, .yml).
func NewFileSource(path, format string) (*FileSource, error) {
	if format == "" {
		format = formatFromExt(path)
	}
	format = strings.ToLower(format)
	if format != FormatJSON && format != FormatYAML {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
	return &FileSource{path: path, format: format}, nil
}

func formatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return ""
	}
}

// Name returns "file".
func (s *FileSource) Name() string { return "file" }

// Path returns the catalog file path.
func (s *FileSource) Path() string { return s.path }

// Format returns the decoding format.
func (s *FileSource) Format() string { return s.format }

// Movies reads and decodes the catalog file.
func (s *FileSource) Movies(ctx context.Context) ([]*models.Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var movies []*models.Movie
	if s.format == FormatJSON {
		movies, err = decodeJSON(data)
	} else {
		movies, err = decodeYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s catalog %s: %w", s.format, s.path, err)
	}
	return movies, nil
}

func decodeJSON(data []byte) ([]*models.Movie, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var movies []*models.Movie
		if err := json.Unmarshal(trimmed, &movies); err != nil {
			return nil, err
		}
		return movies, nil
	}

	var doc document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, err
	}
	return doc.Movies, nil
}

func decodeYAML(data []byte) ([]*models.Movie, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, nil // empty file
	}

	node := root.Content[0]
	if node.Kind == yaml.SequenceNode {
		var movies []*models.Movie
		if err := node.Decode(&movies); err != nil {
			return nil, err
		}
		return movies, nil
	}

	var doc document
	if err := node.Decode(&doc); err != nil {
		return nil, err
	}
	return doc.Movies, nil
}
