// Package analytics holds the pure reductions behind the dashboard:
// view aggregates, the upload cadence heatmap and competitor metrics.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/yt-insights/ytdash/internal/models"
)

const week = 7 * 24 * time.Hour

// ComputeAggregates derives mean/median views and upload rate from videos.
// Videos without views are left out of the view stats but still count as
// uploads. Videos without a publish time are treated as published at now.
func ComputeAggregates(videos []models.VideoRecord, now time.Time) models.Aggregates {
	var agg models.Aggregates

	views := make([]int64, 0, len(videos))
	for _, v := range videos {
		if v.Views != nil {
			views = append(views, *v.Views)
		}
	}
	if len(views) > 0 {
		avg := roundInt(mean(views))
		med := median(views)
		agg.AvgViews = &avg
		agg.MedianViews = &med
	}

	agg.UploadsPerWeek = UploadsPerWeek(videos, now)
	return agg
}

// UploadsPerWeek divides the video count by the number of weeks back to the
// oldest upload, with the span floored at one week.
func UploadsPerWeek(videos []models.VideoRecord, now time.Time) float64 {
	if len(videos) == 0 {
		return 0
	}
	oldest := now
	for _, v := range videos {
		if v.PublishedAt != nil && v.PublishedAt.Before(oldest) {
			oldest = *v.PublishedAt
		}
	}
	weeks := math.Max(1, float64(now.Sub(oldest))/float64(week))
	return Round2(float64(len(videos)) / weeks)
}

func mean(values []int64) float64 {
	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	return sum / float64(len(values))
}

// median of a non-empty slice; even lengths average the two middle values.
func median(values []int64) float64 {
	sorted := make([]int64, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return (float64(sorted[mid-1]) + float64(sorted[mid])) / 2
}
