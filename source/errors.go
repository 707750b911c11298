package source

import "errors"

var (
	ErrSchemeUnsupported = errors.New("unsupported scheme")
	ErrSourceNotAvailable = errors.New("source not available")
)
