package analytics

import (
	"sort"
	"time"

	"github.com/yt-insights/ytdash/internal/models"
)

// CadenceZone is the fixed offset uploads are bucketed in (UTC+05:30).
var CadenceZone = time.FixedZone("+05:30", 5*60*60+30*60)

// TopSlots is the length of each suggestion list.
const TopSlots = 5

// DayLabels names grid rows, Monday first.
var DayLabels = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Upload is one sample for the cadence grid.
type Upload struct {
	VideoID     string
	PublishedAt time.Time
	Views       int64
	Likes       int64
	Comments    int64
}

// Bucket maps a timestamp to its (day, hour) cell in CadenceZone.
// Day 0 is Monday and day 6 is Sunday.
func Bucket(t time.Time) (day, hour int) {
	local := t.In(CadenceZone)
	return (int(local.Weekday()) + 6) % models.DaysPerWeek, local.Hour()
}

type cell struct {
	count    int
	views    int64
	likes    int64
	comments int64
}

// BuildCadence buckets uploads into the 7x24 grid and ranks the best slots.
// minCount below 1 is treated as 1.
func BuildCadence(uploads []Upload, minCount int) models.CadenceReport {
	if minCount < 1 {
		minCount = 1
	}

	var cells [models.DaysPerWeek][models.HoursPerDay]cell
	for _, u := range uploads {
		d, h := Bucket(u.PublishedAt)
		c := &cells[d][h]
		c.count++
		c.views += u.Views
		c.likes += u.Likes
		c.comments += u.Comments
	}

	grids := models.CadenceGrids{
		Count:             make([][]int, models.DaysPerWeek),
		AvgViews:          make([][]int64, models.DaysPerWeek),
		AvgEngagementRate: make([][]*float64, models.DaysPerWeek),
	}
	for d := 0; d < models.DaysPerWeek; d++ {
		grids.Count[d] = make([]int, models.HoursPerDay)
		grids.AvgViews[d] = make([]int64, models.HoursPerDay)
		grids.AvgEngagementRate[d] = make([]*float64, models.HoursPerDay)
		for h := 0; h < models.HoursPerDay; h++ {
			c := cells[d][h]
			grids.Count[d][h] = c.count
			if c.count > 0 {
				grids.AvgViews[d][h] = roundInt(float64(c.views) / float64(c.count))
			}
			if c.views > 0 {
				er := Round4(float64(c.likes+c.comments) / float64(c.views))
				grids.AvgEngagementRate[d][h] = &er
			}
		}
	}

	hours := make([]int, models.HoursPerDay)
	for h := range hours {
		hours[h] = h
	}

	return models.CadenceReport{
		Timezone:   CadenceZone.String(),
		Grids:      grids,
		DayLabels:  append([]string(nil), DayLabels...),
		HourLabels: hours,
		Total:      len(uploads),
		Suggestions: models.CadenceSuggestions{
			MinCount: minCount,
			TopByAvgViews: rankSlots(grids, minCount, func(d, h int) (float64, bool) {
				return float64(grids.AvgViews[d][h]), true
			}),
			TopByAvgEngagementRate: rankSlots(grids, minCount, func(d, h int) (float64, bool) {
				er := grids.AvgEngagementRate[d][h]
				if er == nil {
					return 0, false
				}
				return *er, true
			}),
		},
	}
}

// rankSlots collects cells with a defined metric and enough samples, sorted
// descending by metric. Ties keep grid order (day-major, hour-minor).
func rankSlots(grids models.CadenceGrids, minCount int, metric func(d, h int) (float64, bool)) []models.RankedSlot {
	slots := make([]models.RankedSlot, 0)
	for d := 0; d < models.DaysPerWeek; d++ {
		for h := 0; h < models.HoursPerDay; h++ {
			count := grids.Count[d][h]
			if count == 0 || count < minCount {
				continue
			}
			value, ok := metric(d, h)
			if !ok {
				continue
			}
			slots = append(slots, models.RankedSlot{
				Day:               d,
				Hour:              h,
				Value:             value,
				Samples:           count,
				AvgViews:          grids.AvgViews[d][h],
				AvgEngagementRate: grids.AvgEngagementRate[d][h],
			})
		}
	}

	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].Value > slots[j].Value
	})
	if len(slots) > TopSlots {
		slots = slots[:TopSlots]
	}
	return slots
}
