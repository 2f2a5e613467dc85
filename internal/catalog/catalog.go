// Package catalog looks up tracks and playlists in an external music catalog
// and returns a link the user can open.
package catalog

import (
	"context"
	"errors"
	"fmt"
)

type Kind string

const (
	Track    Kind = "track"
	Playlist Kind = "playlist"
)

var (
	ErrNotFound      = errors.New("no catalog result")
	ErrNotConfigured = errors.New("catalog search is not configured")
	ErrEmptyQuery    = errors.New("empty catalog query")
)

// Searcher returns the canonical URL of the top result for query. Any error
// means the caller has nothing to link to.
type Searcher interface {
	Search(ctx context.Context, query string, kind Kind) (string, error)
}

// Disabled is used when the catalog credentials are missing.
type Disabled struct{}

func (Disabled) Search(context.Context, string, Kind) (string, error) {
	return "", ErrNotConfigured
}

func unsupported(kind Kind) error {
	return fmt.Errorf("unsupported search kind %q", kind)
}
