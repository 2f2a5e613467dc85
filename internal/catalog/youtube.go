package catalog

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

type YouTube struct {
	svc *youtube.Service
}

func NewYouTube(ctx context.Context, apiKey string, opts ...option.ClientOption) (*YouTube, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return &YouTube{svc: svc}, nil
}

func (y *YouTube) Search(ctx context.Context, query string, kind Kind) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", ErrEmptyQuery
	}
	var typ string
	switch kind {
	case Track:
		typ = "video"
	case Playlist:
		typ = "playlist"
	default:
		return "", unsupported(kind)
	}

	resp, err := y.svc.Search.List([]string{"id"}).Q(query).Type(typ).MaxResults(1).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("youtube search: %w", err)
	}
	if len(resp.Items) == 0 || resp.Items[0].Id == nil {
		return "", ErrNotFound
	}
	id := resp.Items[0].Id
	switch {
	case kind == Track && id.VideoId != "":
		return "https://www.youtube.com/watch?v=" + id.VideoId, nil
	case kind == Playlist && id.PlaylistId != "":
		return "https://www.youtube.com/playlist?list=" + id.PlaylistId, nil
	}
	return "", ErrNotFound
}
