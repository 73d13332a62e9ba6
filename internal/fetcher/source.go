package fetcher

import "context"

// Source returns the raw upstream timezones payload.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
}
