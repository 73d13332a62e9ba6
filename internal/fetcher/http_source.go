package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/bassista/tzcache/internal/logger"
	"github.com/go-resty/resty/v2"
)

// Options configures the HTTP source.
type Options struct {
	BaseURL string
	Path    string
	Timeout time.Duration
}

// HTTPSource fetches the payload from the upstream timezones endpoint.
type HTTPSource struct {
	client *resty.Client
	path   string
}

// NewHTTPSource creates a resty backed source.
func NewHTTPSource(opts Options) *HTTPSource {
	client := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json")
	return NewHTTPSourceWithClient(client, opts.Path)
}

// NewHTTPSourceWithClient creates a source using the provided client.
func NewHTTPSourceWithClient(client *resty.Client, path string) *HTTPSource {
	return &HTTPSource{client: client, path: path}
}

func (h *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	logger.WithComponent("fetch").Debugf("requesting %s%s", h.client.BaseURL, h.path)

	resp, err := h.client.R().SetContext(ctx).Get(h.path)
	if err != nil {
		return nil, fmt.Errorf("fetch timezones: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: %d", ErrUpstreamStatus, resp.StatusCode())
	}
	return resp.Body(), nil
}
