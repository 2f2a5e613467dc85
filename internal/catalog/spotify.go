package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
)

type Spotify struct {
	client *spotify.Client
}

type SpotifyOptions struct {
	// TokenURL and BaseURL override the public Spotify endpoints.
	TokenURL string
	BaseURL  string
}

// NewSpotify authenticates with the client-credentials flow. The token is
// fetched lazily on the first search.
func NewSpotify(ctx context.Context, clientID, clientSecret string, opts SpotifyOptions) *Spotify {
	cc := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	if opts.TokenURL != "" {
		cc.TokenURL = opts.TokenURL
	}
	var clientOpts []spotify.ClientOption
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, spotify.WithBaseURL(opts.BaseURL))
	}
	return &Spotify{client: spotify.New(cc.Client(ctx), clientOpts...)}
}

func (s *Spotify) Search(ctx context.Context, query string, kind Kind) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", ErrEmptyQuery
	}
	var st spotify.SearchType
	switch kind {
	case Track:
		st = spotify.SearchTypeTrack
	case Playlist:
		st = spotify.SearchTypePlaylist
	default:
		return "", unsupported(kind)
	}

	res, err := s.client.Search(ctx, query, st, spotify.Limit(1))
	if err != nil {
		return "", fmt.Errorf("spotify search: %w", err)
	}

	var urls map[string]string
	switch kind {
	case Track:
		if res.Tracks == nil || len(res.Tracks.Tracks) == 0 {
			return "", ErrNotFound
		}
		urls = res.Tracks.Tracks[0].ExternalURLs
	case Playlist:
		if res.Playlists == nil || len(res.Playlists.Playlists) == 0 {
			return "", ErrNotFound
		}
		urls = res.Playlists.Playlists[0].ExternalURLs
	}
	link := urls["spotify"]
	if link == "" {
		return "", ErrNotFound
	}
	return link, nil
}
