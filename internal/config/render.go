package config

import (
	"errors"
	"fmt"
	"image/png"
	"strings"
)

const (
	DefaultQuality     = 90
	DefaultResultCount = 3
)

// RenderConfig describes one batch: what to search for and what to print on
// every image. It is never mutated after construction.
type RenderConfig struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Quality     int    `json:"quality"`
	ResultCount int    `json:"per_page"`
}

func (r RenderConfig) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title is required")
	}
	if r.Quality < 1 || r.Quality > 100 {
		return fmt.Errorf("quality must be between 1 and 100, got %d", r.Quality)
	}
	if r.ResultCount < 1 {
		return fmt.Errorf("per_page must be at least 1, got %d", r.ResultCount)
	}
	return nil
}

// CompressionLevel maps the 1-100 quality knob onto PNG compression.
// PNG is lossless, so this only trades encode time for file size.
func (r RenderConfig) CompressionLevel() png.CompressionLevel {
	switch {
	case r.Quality <= 33:
		return png.BestSpeed
	case r.Quality <= 66:
		return png.DefaultCompression
	default:
		return png.BestCompression
	}
}
