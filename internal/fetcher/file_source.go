package fetcher

import (
	"context"
	"fmt"
	"os"

	"github.com/bassista/tzcache/internal/logger"
)

// FileSource reads the upstream payload from a local file.
// It is useful to run the service offline or to seed it from a saved response.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (f *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger.WithComponent("fetch").Debugf("reading upstream payload from %s", f.path)
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read upstream file: %w", err)
	}
	return data, nil
}
