package analytics

import (
	"sort"
	"time"

	"github.com/yt-insights/ytdash/internal/models"
)

// CompetitorWindow is how many of the newest uploads feed the last-10 metrics.
const CompetitorWindow = 10

// CompetitorRow builds a comparison row from a channel and its recent
// uploads. The engagement average is expressed as a percentage.
func CompetitorRow(reference string, channel models.ChannelSummary, videos []models.VideoRecord, now time.Time) models.CompetitorRow {
	row := models.CompetitorRow{
		Reference:      reference,
		ChannelID:      channel.ChannelID,
		Name:           channel.Name,
		ProfilePic:     channel.ProfilePic,
		Subscribers:    channel.Subscribers,
		TotalViews:     channel.TotalViews,
		TotalVideos:    channel.TotalVideos,
		UploadsPerWeek: ComputeAggregates(videos, now).UploadsPerWeek,
	}

	latest := NewestFirst(videos)
	if len(latest) > CompetitorWindow {
		latest = latest[:CompetitorWindow]
	}
	if len(latest) > 0 && latest[0].PublishedAt != nil {
		last := *latest[0].PublishedAt
		row.LastUploadAt = &last
	}

	var views []int64
	var rates []float64
	for _, v := range latest {
		if v.Views != nil {
			views = append(views, *v.Views)
		}
		if v.EngagementRate != nil {
			rates = append(rates, *v.EngagementRate*100)
		}
	}
	if len(views) > 0 {
		avg := roundInt(mean(views))
		row.AvgViewsLast10 = &avg
	}
	if len(rates) > 0 {
		var sum float64
		for _, r := range rates {
			sum += r
		}
		avg := Round2(sum / float64(len(rates)))
		row.AvgEngagementRateLast10 = &avg
	}
	return row
}

// NewestFirst returns a copy of videos ordered by publish time, newest
// first. Videos without a publish time sort last.
func NewestFirst(videos []models.VideoRecord) []models.VideoRecord {
	sorted := make([]models.VideoRecord, len(videos))
	copy(sorted, videos)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].PublishedAt, sorted[j].PublishedAt
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		return a.After(*b)
	})
	return sorted
}
