package videos

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	youtube "google.golang.org/api/youtube/v3"

	"github.com/snotra-ai/snotra-backend/internal/logger"
	"github.com/snotra-ai/snotra-backend/internal/types"
)

const maxResults = 8

// Service looks up related educational videos on YouTube. It is
// best-effort throughout: a missing API key disables it, and lookup
// failures yield an empty list rather than an error.
type Service struct {
	log *logger.Logger
	yt  *youtube.Service
}

// NewService returns a disabled service when apiKey is empty.
func NewService(ctx context.Context, log *logger.Logger, apiKey string) (*Service, error) {
	slog := log.With("service", "VideoSearchService")
	if strings.TrimSpace(apiKey) == "" {
		slog.Info("YOUTUBE_API_KEY not set, video search disabled")
		return &Service{log: slog}, nil
	}
	yt, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("youtube client: %w", err)
	}
	return &Service{log: slog, yt: yt}, nil
}

func (s *Service) Enabled() bool { return s != nil && s.yt != nil }

// Search returns up to maxResults videos for query. The query is suffixed
// to bias results toward tutorial content.
func (s *Service) Search(ctx context.Context, query string) []types.Video {
	if !s.Enabled() {
		return []types.Video{}
	}
	resp, err := s.yt.Search.List([]string{"id", "snippet"}).
		Q(query + " tutorial explanation").
		MaxResults(maxResults).
		Type("video").
		RelevanceLanguage("en").
		SafeSearch("strict").
		Context(ctx).
		Do()
	if err != nil {
		s.log.Warn("YouTube search failed", "query", query, "error", err)
		return []types.Video{}
	}

	out := make([]types.Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		thumb := ""
		if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.Medium != nil {
			thumb = item.Snippet.Thumbnails.Medium.Url
		}
		out = append(out, types.Video{
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			VideoID:      item.Id.VideoId,
			Thumbnail:    thumb,
			ChannelTitle: item.Snippet.ChannelTitle,
		})
	}
	return out
}
