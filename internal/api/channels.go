package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"google.golang.org/api/youtube/v3"

	"github.com/yt-insights/ytdash/internal/models"
)

const (
	DefaultRecentMaxResults = 12
	DefaultRecentDays       = 30
)

// GetChannelDetails fetches snippet and statistics for a channel ID
func (c *YouTubeClient) GetChannelDetails(ctx context.Context, channelID string) (*models.ChannelSummary, error) {
	params := url.Values{}
	params.Set("part", "snippet,statistics")
	params.Set("id", channelID)

	var resp channelListResponse
	if err := c.getJSON(ctx, "channels.list", "channels", params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("%w: %s", models.ErrNotFound, channelID)
	}

	item := resp.Items[0]
	channel := &models.ChannelSummary{
		ChannelID:   item.ID,
		Name:        item.Snippet.Title,
		Description: item.Snippet.Description,
	}
	if thumb, ok := item.Snippet.Thumbnails["default"]; ok && thumb.URL != "" {
		pic := thumb.URL
		channel.ProfilePic = &pic
	}
	if stats := item.Statistics; stats != nil {
		channel.Subscribers = stats.SubscriberCount.Value
		channel.TotalViews = stats.ViewCount.Value
		channel.TotalVideos = stats.VideoCount.Value
	}
	return channel, nil
}

// FetchRecentVideos returns up to maxResults uploads from the last `days`
// days, newest first, merged with their statistics and duration.
// A channel with no recent uploads yields an empty slice.
func (c *YouTubeClient) FetchRecentVideos(ctx context.Context, channelID string, maxResults, days int) ([]models.VideoRecord, error) {
	if maxResults < 1 {
		maxResults = DefaultRecentMaxResults
	}
	maxResults = clamp(maxResults, 1, maxIDsPerCall)
	if days < 1 {
		days = DefaultRecentDays
	}
	publishedAfter := c.now().Add(-time.Duration(days) * 24 * time.Hour).UTC().Format(time.RFC3339)

	search, err := c.service.Search.List([]string{"id", "snippet"}).
		ChannelId(channelID).
		Order("date").
		MaxResults(int64(maxResults)).
		PublishedAfter(publishedAfter).
		Type("video").
		Context(ctx).
		Do()
	if err != nil {
		return nil, upstreamError("search.list", err)
	}

	ids := make([]string, 0, len(search.Items))
	for _, item := range search.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			ids = append(ids, item.Id.VideoId)
		}
	}
	if len(ids) == 0 {
		return []models.VideoRecord{}, nil
	}

	params := url.Values{}
	params.Set("part", "statistics,contentDetails")
	params.Set("id", strings.Join(ids, ","))

	var details videoListResponse
	if err := c.getJSON(ctx, "videos.list", "videos", params, &details); err != nil {
		return nil, err
	}

	byID := make(map[string]int, len(details.Items))
	for i, item := range details.Items {
		byID[item.ID] = i
	}

	videos := make([]models.VideoRecord, 0, len(search.Items))
	for _, item := range search.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		video := formatVideo(item.Id.VideoId, item.Snippet)
		if i, ok := byID[item.Id.VideoId]; ok {
			d := details.Items[i]
			if d.Statistics != nil {
				video.Views = d.Statistics.ViewCount.Value
				video.Likes = d.Statistics.LikeCount.Value
				video.Comments = d.Statistics.CommentCount.Value
			}
			if d.ContentDetails != nil {
				video.Duration = d.ContentDetails.Duration
			}
		}
		video.EngagementRate = models.EngagementRate(video.Views, video.Likes, video.Comments)
		videos = append(videos, video)
	}

	c.log.Debug().Str("channel_id", channelID).Int("count", len(videos)).Msg("fetched recent videos")
	return videos, nil
}

// formatVideo projects a search result snippet; stats are merged later.
func formatVideo(videoID string, snippet *youtube.SearchResultSnippet) models.VideoRecord {
	video := models.VideoRecord{VideoID: videoID}
	if snippet == nil {
		return video
	}
	if snippet.Title != "" {
		title := snippet.Title
		video.Title = &title
	}
	if published, err := time.Parse(time.RFC3339, snippet.PublishedAt); err == nil {
		video.PublishedAt = &published
	}
	video.Thumbnails = formatThumbnails(snippet.Thumbnails)
	return video
}

func formatThumbnails(t *youtube.ThumbnailDetails) map[string]models.Thumbnail {
	if t == nil {
		return nil
	}
	out := make(map[string]models.Thumbnail)
	for name, thumb := range map[string]*youtube.Thumbnail{
		"default":  t.Default,
		"medium":   t.Medium,
		"high":     t.High,
		"standard": t.Standard,
		"maxres":   t.Maxres,
	} {
		if thumb != nil && thumb.Url != "" {
			out[name] = models.Thumbnail{URL: thumb.Url, Width: thumb.Width, Height: thumb.Height}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
