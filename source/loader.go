package source

import (
	"io"
	"net/url"
)

// Loader abstracts how .decor source text reaches the splitter, decoupling
// the CLI's filesystem access from the rest of the pipeline.
type Loader interface {
	GetReader() (io.ReadCloser, error)
	GetSourceURL() *url.URL
}
