package api

import (
	"context"

	"github.com/yt-insights/ytdash/internal/analytics"
	"github.com/yt-insights/ytdash/internal/models"
)

// GetChannel resolves the input and returns the channel summary.
func (c *YouTubeClient) GetChannel(ctx context.Context, in models.ChannelInput) (*models.ChannelSummary, error) {
	id, err := c.ResolveChannelID(ctx, in)
	if err != nil {
		return nil, err
	}
	return c.GetChannelDetails(ctx, id)
}

// GetRecentVideos resolves the input and returns its recent uploads.
func (c *YouTubeClient) GetRecentVideos(ctx context.Context, in models.ChannelInput, maxResults, days int) ([]models.VideoRecord, error) {
	id, err := c.ResolveChannelID(ctx, in)
	if err != nil {
		return nil, err
	}
	return c.FetchRecentVideos(ctx, id, maxResults, days)
}

// GetChannelSummary builds the channel header, recent uploads and their
// aggregates. Calls run in order: resolve, details, videos.
func (c *YouTubeClient) GetChannelSummary(ctx context.Context, in models.ChannelInput, maxResults, days int) (*models.ChannelReport, error) {
	id, err := c.ResolveChannelID(ctx, in)
	if err != nil {
		return nil, err
	}
	channel, err := c.GetChannelDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	videos, err := c.FetchRecentVideos(ctx, id, maxResults, days)
	if err != nil {
		return nil, err
	}

	return &models.ChannelReport{
		Channel:    *channel,
		Aggregates: analytics.ComputeAggregates(videos, c.now()),
		Videos:     videos,
	}, nil
}
