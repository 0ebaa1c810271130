package api

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/yt-insights/ytdash/internal/analytics"
	"github.com/yt-insights/ytdash/internal/models"
)

// Wide fetch window the last-10 metrics are drawn from.
const (
	competitorMaxResults = 20
	competitorDays       = 365
)

// CompareChannels builds one row per reference, in input order. Lookups run
// concurrently; a reference that fails for any reason leaves a nil row and
// never affects the others.
func (c *YouTubeClient) CompareChannels(ctx context.Context, references []string) []*models.CompetitorRow {
	rows := make([]*models.CompetitorRow, len(references))

	var g errgroup.Group
	g.SetLimit(c.competitorConcurrency)
	for i, ref := range references {
		i, ref := i, ref
		g.Go(func() error {
			row, err := c.CompetitorSummary(ctx, ref)
			if err != nil {
				competitorFailures.Inc()
				c.log.Warn().Err(err).Str("reference", ref).Msg("competitor lookup failed")
				return nil
			}
			rows[i] = row
			return nil
		})
	}
	_ = g.Wait()

	return rows
}

// CompetitorSummary resolves a single reference and computes its row.
func (c *YouTubeClient) CompetitorSummary(ctx context.Context, reference string) (*models.CompetitorRow, error) {
	reference = strings.TrimSpace(reference)
	id, err := c.ResolveChannelID(ctx, models.ChannelInput{URL: reference})
	if err != nil {
		return nil, err
	}
	channel, err := c.GetChannelDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	videos, err := c.FetchRecentVideos(ctx, id, competitorMaxResults, competitorDays)
	if err != nil {
		return nil, err
	}

	row := analytics.CompetitorRow(reference, *channel, videos, c.now())
	return &row, nil
}
