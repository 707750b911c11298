package source

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// FromDisk loads a .decor file from the local filesystem. Relative paths
// are resolved against the process's current working directory, matching
// how the CLI's FILE argument is used.
type FromDisk struct {
	path      string
	sourceURL *url.URL
}

func NewFromDisk(path string) (*FromDisk, error) {
	path = strings.TrimPrefix(path, "file://")

	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return nil, fmt.Errorf("%w: %s", ErrSchemeUnsupported, path)
	}

	if !filepath.IsAbs(path) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("unable to resolve path %q: %w", path, err)
		}
		path = abs
	}
	path = filepath.Clean(path)

	u := &url.URL{Scheme: "file", Path: path}

	return &FromDisk{path: path, sourceURL: u}, nil
}

func (l *FromDisk) String() string {
	return fmt.Sprintf("source.FromDisk{Path: %s}", l.path)
}

func (l *FromDisk) GetReader() (io.ReadCloser, error) {
	return os.Open(l.sourceURL.Path)
}

func (l *FromDisk) GetSourceURL() *url.URL {
	return l.sourceURL
}
