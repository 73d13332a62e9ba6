package fetcher

import (
	"fmt"

	"github.com/bassista/tzcache/internal/config"
)

const (
	SourceTypeHTTP = "http"
	SourceTypeFile = "file"
)

// NewSourceFromConfig creates a Source based on the configured upstream.
// An empty source means "http".
func NewSourceFromConfig(cfg config.UpstreamConfig) (Source, error) {
	switch cfg.Source {
	case SourceTypeHTTP, "":
		return NewHTTPSource(Options{BaseURL: cfg.BaseURL, Path: cfg.Path, Timeout: cfg.Timeout}), nil
	case SourceTypeFile:
		return NewFileSource(cfg.FilePath), nil
	default:
		return nil, fmt.Errorf("unknown upstream source: %s (supported: %s, %s)", cfg.Source, SourceTypeHTTP, SourceTypeFile)
	}
}
