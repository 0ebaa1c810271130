package models

import "time"

// Thumbnail is a single thumbnail rendition
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int64  `json:"width,omitempty"`
	Height int64  `json:"height,omitempty"`
}

// VideoRecord is the compact projection of an uploaded video.
//
// EngagementRate is a fraction, (likes+comments)/views, and is not clamped
// to 1. It is nil when views is zero or unknown.
type VideoRecord struct {
	VideoID        string               `json:"videoId"`
	Title          *string              `json:"title"`
	PublishedAt    *time.Time           `json:"publishedAt"`
	Thumbnails     map[string]Thumbnail `json:"thumbnails"`
	Duration       *string              `json:"duration"`
	Views          *int64               `json:"views"`
	Likes          *int64               `json:"likes"`
	Comments       *int64               `json:"comments"`
	EngagementRate *float64             `json:"engagementRate"`
}

// EngagementRate computes (likes+comments)/views. Missing likes or comments
// count as zero; missing or zero views yield nil.
func EngagementRate(views, likes, comments *int64) *float64 {
	if views == nil || *views <= 0 {
		return nil
	}
	var interactions int64
	if likes != nil {
		interactions += *likes
	}
	if comments != nil {
		interactions += *comments
	}
	rate := float64(interactions) / float64(*views)
	return &rate
}
