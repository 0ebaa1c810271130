package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yt-insights/ytdash/internal/analytics"
	"github.com/yt-insights/ytdash/internal/models"
)

func TestComputeCadence_PagesUntilLimit(t *testing.T) {
	fake := newFakeYouTube(t)
	id := fakeChannelID('a')
	videos := makeUploads("c", 120, time.Hour, 1000)
	videos[5].badTimestamp = true
	fake.addChannel(&fakeChannel{id: id, title: "Cadence", videos: videos})
	client := newTestClient(t, fake)

	report, err := client.ComputeCadence(context.Background(), id, 100, 1)
	require.NoError(t, err)

	assert.Equal(t, id, report.ChannelID)
	assert.Equal(t, "+05:30", report.Timezone)
	assert.Equal(t, 100, report.Total)
	assert.Equal(t, 3, fake.callCount("playlistItems"))
	assert.Equal(t, 2, fake.callCount("videos"))

	total := 0
	for d := range report.Grids.Count {
		for _, n := range report.Grids.Count[d] {
			total += n
		}
	}
	assert.Equal(t, 100, total)

	require.Len(t, report.Suggestions.TopByAvgViews, analytics.TopSlots)
	for _, slot := range report.Suggestions.TopByAvgViews {
		assert.Equal(t, int64(1000), slot.AvgViews)
		require.NotNil(t, slot.AvgEngagementRate)
		assert.InDelta(t, 0.1, *slot.AvgEngagementRate, 1e-9)
	}
}

func TestComputeCadence_NewestUploadBucket(t *testing.T) {
	fake := newFakeYouTube(t)
	id := fakeChannelID('b')
	fake.addChannel(&fakeChannel{id: id, title: "One", videos: makeUploads("o", 1, time.Hour, 400)})
	client := newTestClient(t, fake)

	report, err := client.ComputeCadence(context.Background(), id, 10, 1)
	require.NoError(t, err)

	// 11:00 UTC Monday is 16:30 in +05:30
	assert.Equal(t, 1, report.Grids.Count[0][16])
	assert.Equal(t, int64(400), report.Grids.AvgViews[0][16])
	require.NotNil(t, report.Grids.AvgEngagementRate[0][16])
	assert.InDelta(t, 0.1, *report.Grids.AvgEngagementRate[0][16], 1e-9)
}

func TestComputeCadence_MalformedCountsAreZero(t *testing.T) {
	fake := newFakeYouTube(t)
	id := fakeChannelID('g')
	videos := makeUploads("n", 3, time.Hour, 100)
	videos[1].stats = map[string]any{"viewCount": "n/a", "likeCount": "1", "commentCount": "1"}
	fake.addChannel(&fakeChannel{id: id, title: "Garbled", videos: videos})
	client := newTestClient(t, fake)

	report, err := client.ComputeCadence(context.Background(), id, 10, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Total)

	// 10:00 UTC Monday is 15:30 in +05:30
	assert.Equal(t, 1, report.Grids.Count[0][15])
	assert.Equal(t, int64(0), report.Grids.AvgViews[0][15])
	assert.Nil(t, report.Grids.AvgEngagementRate[0][15])

	assert.Equal(t, int64(100), report.Grids.AvgViews[0][16])
}

func TestComputeCadence_DefaultsAndCeiling(t *testing.T) {
	fake := newFakeYouTube(t)
	id := fakeChannelID('c')
	fake.addChannel(&fakeChannel{id: id, title: "Busy", videos: makeUploads("b", 250, 30*time.Minute, 10)})
	client := newTestClient(t, fake)

	report, err := client.ComputeCadence(context.Background(), id, 1000, 0)
	require.NoError(t, err)
	assert.Equal(t, MaxCadenceLimit, report.Total)
	assert.Equal(t, 1, report.Suggestions.MinCount)
	assert.Equal(t, 4, fake.callCount("playlistItems"))

	report, err = client.ComputeCadence(context.Background(), id, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, DefaultCadenceLimit, report.Total)
	assert.Equal(t, 2, report.Suggestions.MinCount)
}

func TestComputeCadence_MinCountFiltersRankings(t *testing.T) {
	fake := newFakeYouTube(t)
	id := fakeChannelID('d')
	// a week apart: every upload lands in the same cell
	fake.addChannel(&fakeChannel{id: id, title: "Weekly", videos: makeUploads("w", 3, 7*24*time.Hour, 100)})
	client := newTestClient(t, fake)

	report, err := client.ComputeCadence(context.Background(), id, 100, 4)
	require.NoError(t, err)
	assert.Empty(t, report.Suggestions.TopByAvgViews)
	assert.Empty(t, report.Suggestions.TopByAvgEngagementRate)

	report, err = client.ComputeCadence(context.Background(), id, 100, 3)
	require.NoError(t, err)
	require.Len(t, report.Suggestions.TopByAvgViews, 1)
	assert.Equal(t, 3, report.Suggestions.TopByAvgViews[0].Samples)
}

func TestComputeCadence_NotFound(t *testing.T) {
	fake := newFakeYouTube(t)
	fake.addChannel(&fakeChannel{id: fakeChannelID('e'), title: "No uploads", noUploads: true})
	client := newTestClient(t, fake)

	_, err := client.ComputeCadence(context.Background(), fakeChannelID('e'), 100, 2)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = client.ComputeCadence(context.Background(), fakeChannelID('x'), 100, 2)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestGetCadence_ResolvesHandle(t *testing.T) {
	fake := newFakeYouTube(t)
	id := fakeChannelID('f')
	fake.handles["creator"] = id
	fake.addChannel(&fakeChannel{id: id, title: "Creator", videos: makeUploads("h", 4, time.Hour, 10)})
	client := newTestClient(t, fake)

	report, err := client.GetCadence(context.Background(), models.ChannelInput{URL: "https://www.youtube.com/@creator"}, 100, 2)
	require.NoError(t, err)
	assert.Equal(t, id, report.ChannelID)
	assert.Equal(t, 4, report.Total)
}
