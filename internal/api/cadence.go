package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/yt-insights/ytdash/internal/analytics"
	"github.com/yt-insights/ytdash/internal/models"
)

const (
	DefaultCadenceLimit    = 100
	MaxCadenceLimit        = 200
	DefaultCadenceMinCount = 2
)

// GetCadence resolves the input and computes its posting cadence.
func (c *YouTubeClient) GetCadence(ctx context.Context, in models.ChannelInput, limit, minCount int) (*models.CadenceReport, error) {
	id, err := c.ResolveChannelID(ctx, in)
	if err != nil {
		return nil, err
	}
	return c.ComputeCadence(ctx, id, limit, minCount)
}

// ComputeCadence walks the channel's uploads playlist (up to limit items),
// loads view/like/comment counts and buckets everything into the day x hour
// grid.
func (c *YouTubeClient) ComputeCadence(ctx context.Context, channelID string, limit, minCount int) (*models.CadenceReport, error) {
	if limit < 1 {
		limit = DefaultCadenceLimit
	}
	limit = clamp(limit, 1, MaxCadenceLimit)
	if minCount < 1 {
		minCount = 1
	}

	playlistID, err := c.uploadsPlaylistID(ctx, channelID)
	if err != nil {
		return nil, err
	}

	uploads, err := c.listUploads(ctx, playlistID, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(uploads))
	for i, u := range uploads {
		ids[i] = u.VideoID
	}
	stats, err := c.videoStatistics(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range uploads {
		if s, ok := stats[uploads[i].VideoID]; ok {
			uploads[i].Views = s.views
			uploads[i].Likes = s.likes
			uploads[i].Comments = s.comments
		}
	}

	report := analytics.BuildCadence(uploads, minCount)
	report.ChannelID = channelID

	c.log.Debug().
		Str("channel_id", channelID).
		Int("samples", report.Total).
		Int("min_count", minCount).
		Msg("computed cadence")
	return &report, nil
}

// uploadsPlaylistID returns the channel's uploads container
func (c *YouTubeClient) uploadsPlaylistID(ctx context.Context, channelID string) (string, error) {
	resp, err := c.service.Channels.List([]string{"contentDetails"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return "", upstreamError("channels.list", err)
	}
	if len(resp.Items) == 0 {
		return "", fmt.Errorf("%w: %s", models.ErrNotFound, channelID)
	}

	details := resp.Items[0].ContentDetails
	if details == nil || details.RelatedPlaylists == nil || details.RelatedPlaylists.Uploads == "" {
		return "", fmt.Errorf("%w: uploads playlist for %s", models.ErrNotFound, channelID)
	}
	return details.RelatedPlaylists.Uploads, nil
}

// listUploads pages through a playlist collecting publish times. Items
// without a parseable timestamp are skipped.
func (c *YouTubeClient) listUploads(ctx context.Context, playlistID string, limit int) ([]analytics.Upload, error) {
	var uploads []analytics.Upload
	pageToken := ""

	for {
		call := c.service.PlaylistItems.List([]string{"snippet", "contentDetails"}).
			PlaylistId(playlistID).
			MaxResults(maxIDsPerCall).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, upstreamError("playlistItems.list", err)
		}

		for _, item := range resp.Items {
			var videoID, published string
			if item.ContentDetails != nil {
				videoID = item.ContentDetails.VideoId
				published = item.ContentDetails.VideoPublishedAt
			}
			if item.Snippet != nil {
				if videoID == "" && item.Snippet.ResourceId != nil {
					videoID = item.Snippet.ResourceId.VideoId
				}
				if published == "" {
					published = item.Snippet.PublishedAt
				}
			}
			ts, err := time.Parse(time.RFC3339, published)
			if videoID == "" || err != nil {
				continue
			}
			uploads = append(uploads, analytics.Upload{VideoID: videoID, PublishedAt: ts})
		}

		if len(uploads) >= limit || resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	if len(uploads) > limit {
		uploads = uploads[:limit]
	}
	return uploads, nil
}

type videoStats struct {
	views    int64
	likes    int64
	comments int64
}

// videoStatistics batch-loads counts, maxIDsPerCall ids per request.
// Counts the API omits or garbles are taken as zero.
func (c *YouTubeClient) videoStatistics(ctx context.Context, ids []string) (map[string]videoStats, error) {
	stats := make(map[string]videoStats, len(ids))
	for start := 0; start < len(ids); start += maxIDsPerCall {
		end := min(start+maxIDsPerCall, len(ids))

		params := url.Values{}
		params.Set("part", "statistics")
		params.Set("id", strings.Join(ids[start:end], ","))

		var resp videoListResponse
		if err := c.getJSON(ctx, "videos.list", "videos", params, &resp); err != nil {
			return nil, err
		}
		for _, item := range resp.Items {
			if item.Statistics == nil {
				continue
			}
			stats[item.ID] = videoStats{
				views:    countOrZero(item.Statistics.ViewCount),
				likes:    countOrZero(item.Statistics.LikeCount),
				comments: countOrZero(item.Statistics.CommentCount),
			}
		}
	}
	return stats, nil
}

func countOrZero(n models.LenientNumber) int64 {
	if n.Value == nil {
		return 0
	}
	return *n.Value
}
