package models

import "time"

// Aggregates summarises a set of recent videos
type Aggregates struct {
	AvgViews       *int64   `json:"avgViews"`
	MedianViews    *float64 `json:"medianViews"`
	UploadsPerWeek float64  `json:"uploadsPerWeek"`
}

// ChannelReport is the /summary payload
type ChannelReport struct {
	Channel    ChannelSummary `json:"channel"`
	Aggregates Aggregates     `json:"aggregates"`
	Videos     []VideoRecord  `json:"videos"`
}

// Cadence grid dimensions. Day 0 is Monday.
const (
	DaysPerWeek = 7
	HoursPerDay = 24
)

// CadenceGrids holds three parallel day x hour matrices
type CadenceGrids struct {
	Count             [][]int      `json:"count"`
	AvgViews          [][]int64    `json:"avgViews"`
	AvgEngagementRate [][]*float64 `json:"avgEngagementRate"`
}

// RankedSlot is one grid cell lifted out for a suggestion list
type RankedSlot struct {
	Day               int      `json:"day"`
	Hour              int      `json:"hour"`
	Value             float64  `json:"value"`
	Samples           int      `json:"samples"`
	AvgViews          int64    `json:"avgViews"`
	AvgEngagementRate *float64 `json:"avgEngagementRate"`
}

// CadenceSuggestions lists the best posting slots by each metric
type CadenceSuggestions struct {
	MinCount               int          `json:"minCount"`
	TopByAvgViews          []RankedSlot `json:"topByAvgViews"`
	TopByAvgEngagementRate []RankedSlot `json:"topByAvgEngagementRate"`
}

// CadenceReport is the /insights/cadence payload
type CadenceReport struct {
	ChannelID   string             `json:"channelId,omitempty"`
	Timezone    string             `json:"timezone"`
	Grids       CadenceGrids       `json:"grids"`
	DayLabels   []string           `json:"dayLabels"`
	HourLabels  []int              `json:"hourLabels"`
	Total       int                `json:"total"`
	Suggestions CadenceSuggestions `json:"suggestions"`
}

// CompetitorRow compares one channel against others.
//
// AvgEngagementRateLast10 is a percentage (0..100+), unlike
// VideoRecord.EngagementRate which is a fraction.
type CompetitorRow struct {
	Reference               string     `json:"reference"`
	ChannelID               string     `json:"channelId"`
	Name                    string     `json:"name"`
	ProfilePic              *string    `json:"profilePic"`
	Subscribers             *int64     `json:"subscribers"`
	TotalViews              *int64     `json:"totalViews"`
	TotalVideos             *int64     `json:"totalVideos"`
	AvgViewsLast10          *int64     `json:"avgViewsLast10"`
	AvgEngagementRateLast10 *float64   `json:"avgEngagementRateLast10"`
	UploadsPerWeek          float64    `json:"uploadsPerWeek"`
	LastUploadAt            *time.Time `json:"lastUploadAt"`
}
