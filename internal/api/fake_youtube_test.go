package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-key-123"

// testNow is a Monday.
var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func fakeChannelID(c byte) string {
	return "UC" + strings.Repeat(string(c), 22)
}

type fakeVideo struct {
	id        string
	title     string
	published time.Time
	// stats holds raw statistics values; nil omits the statistics part.
	stats    map[string]any
	duration string
	// hidden keeps the video out of videos.list responses.
	hidden bool
	// badTimestamp makes playlistItems report an unparseable publish time.
	badTimestamp bool
}

type fakeChannel struct {
	id          string
	title       string
	description *string
	thumb       string
	stats       map[string]any
	noUploads   bool
	videos      []fakeVideo // newest first
}

// fakeYouTube emulates the parts of the Data API the client uses and
// counts calls per endpoint.
type fakeYouTube struct {
	server *httptest.Server

	mu        sync.Mutex
	channels  map[string]*fakeChannel
	usernames map[string]string
	handles   map[string]string
	fail      map[string]int
	calls     map[string]int
	queries   map[string][]string
	keys      []string
}

func newFakeYouTube(t *testing.T) *fakeYouTube {
	t.Helper()
	f := &fakeYouTube{
		channels:  make(map[string]*fakeChannel),
		usernames: make(map[string]string),
		handles:   make(map[string]string),
		fail:      make(map[string]int),
		calls:     make(map[string]int),
		queries:   make(map[string][]string),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/youtube/v3/channels", f.handleChannels)
	mux.HandleFunc("/youtube/v3/search", f.handleSearch)
	mux.HandleFunc("/youtube/v3/videos", f.handleVideos)
	mux.HandleFunc("/youtube/v3/playlistItems", f.handlePlaylistItems)
	f.server = httptest.NewServer(f.record(mux))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeYouTube) addChannel(ch *fakeChannel) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.channels[ch.id] = ch
}

func (f *fakeYouTube) failEndpoint(endpoint string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[endpoint] = status
}

func (f *fakeYouTube) callCount(endpoint string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[endpoint]
}

func (f *fakeYouTube) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func (f *fakeYouTube) lastQuery(endpoint string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	q := f.queries[endpoint]
	if len(q) == 0 {
		return ""
	}
	return q[len(q)-1]
}

func (f *fakeYouTube) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		endpoint := strings.TrimPrefix(r.URL.Path, "/youtube/v3/")

		f.mu.Lock()
		f.calls[endpoint]++
		f.queries[endpoint] = append(f.queries[endpoint], r.URL.RawQuery)
		f.keys = append(f.keys, r.URL.Query().Get("key"))
		status := f.fail[endpoint]
		f.mu.Unlock()

		if status != 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			fmt.Fprintf(w, `{"error":{"code":%d,"message":"quotaExceeded","errors":[{"reason":"quotaExceeded"}]}}`, status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *fakeYouTube) writeItems(w http.ResponseWriter, items []map[string]any, extra map[string]any) {
	body := map[string]any{"items": items}
	for k, v := range extra {
		body[k] = v
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

// ids collects both repeated and comma-joined id parameters.
func ids(r *http.Request) []string {
	var out []string
	for _, v := range r.URL.Query()["id"] {
		for _, id := range strings.Split(v, ",") {
			if id != "" {
				out = append(out, id)
			}
		}
	}
	return out
}

func hasPart(r *http.Request, part string) bool {
	for _, v := range r.URL.Query()["part"] {
		for _, p := range strings.Split(v, ",") {
			if p == part {
				return true
			}
		}
	}
	return false
}

func (f *fakeYouTube) handleChannels(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	items := []map[string]any{}
	if name := r.URL.Query().Get("forUsername"); name != "" {
		if id, ok := f.usernames[name]; ok {
			items = append(items, map[string]any{"id": id})
		}
		f.writeItems(w, items, nil)
		return
	}

	for _, id := range ids(r) {
		ch, ok := f.channels[id]
		if !ok {
			continue
		}
		item := map[string]any{"id": ch.id}
		if hasPart(r, "snippet") {
			snippet := map[string]any{"title": ch.title}
			if ch.description != nil {
				snippet["description"] = *ch.description
			}
			if ch.thumb != "" {
				snippet["thumbnails"] = map[string]any{"default": map[string]any{"url": ch.thumb}}
			}
			item["snippet"] = snippet
		}
		if hasPart(r, "statistics") && ch.stats != nil {
			item["statistics"] = ch.stats
		}
		if hasPart(r, "contentDetails") && !ch.noUploads {
			item["contentDetails"] = map[string]any{
				"relatedPlaylists": map[string]any{"uploads": "UU" + ch.id[2:]},
			}
		}
		items = append(items, item)
	}
	f.writeItems(w, items, nil)
}

func (f *fakeYouTube) handleSearch(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	q := r.URL.Query()
	items := []map[string]any{}

	if q.Get("type") == "channel" {
		if id, ok := f.handles[q.Get("q")]; ok {
			items = append(items, map[string]any{
				"id": map[string]any{"kind": "youtube#channel", "channelId": id},
			})
		}
		f.writeItems(w, items, nil)
		return
	}

	ch, ok := f.channels[q.Get("channelId")]
	if !ok {
		f.writeItems(w, items, nil)
		return
	}
	limit, _ := strconv.Atoi(q.Get("maxResults"))
	after, _ := time.Parse(time.RFC3339, q.Get("publishedAfter"))
	for _, v := range ch.videos {
		if len(items) >= limit {
			break
		}
		if !after.IsZero() && v.published.Before(after) {
			continue
		}
		items = append(items, map[string]any{
			"id": map[string]any{"kind": "youtube#video", "videoId": v.id},
			"snippet": map[string]any{
				"title":       v.title,
				"publishedAt": v.published.Format(time.RFC3339),
				"thumbnails": map[string]any{
					"default": map[string]any{"url": "https://i.ytimg.com/vi/" + v.id + "/default.jpg", "width": 120, "height": 90},
					"high":    map[string]any{"url": "https://i.ytimg.com/vi/" + v.id + "/hq.jpg", "width": 480, "height": 360},
				},
			},
		})
	}
	f.writeItems(w, items, nil)
}

func (f *fakeYouTube) findVideo(id string) (fakeVideo, bool) {
	for _, ch := range f.channels {
		for _, v := range ch.videos {
			if v.id == id {
				return v, true
			}
		}
	}
	return fakeVideo{}, false
}

func (f *fakeYouTube) handleVideos(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	items := []map[string]any{}
	for _, id := range ids(r) {
		v, ok := f.findVideo(id)
		if !ok || v.hidden {
			continue
		}
		item := map[string]any{"id": v.id}
		if hasPart(r, "statistics") && v.stats != nil {
			item["statistics"] = v.stats
		}
		if hasPart(r, "contentDetails") && v.duration != "" {
			item["contentDetails"] = map[string]any{"duration": v.duration}
		}
		items = append(items, item)
	}
	f.writeItems(w, items, nil)
}

func (f *fakeYouTube) handlePlaylistItems(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	q := r.URL.Query()
	playlistID := q.Get("playlistId")
	var ch *fakeChannel
	for _, c := range f.channels {
		if "UU"+c.id[2:] == playlistID {
			ch = c
		}
	}
	if ch == nil {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":{"code":404,"message":"playlistNotFound"}}`)
		return
	}

	size, _ := strconv.Atoi(q.Get("maxResults"))
	start, _ := strconv.Atoi(q.Get("pageToken"))
	end := min(start+size, len(ch.videos))

	items := []map[string]any{}
	for _, v := range ch.videos[start:end] {
		published := v.published.Format(time.RFC3339)
		details := map[string]any{"videoId": v.id, "videoPublishedAt": published}
		snippet := map[string]any{
			"publishedAt": published,
			"resourceId":  map[string]any{"kind": "youtube#video", "videoId": v.id},
		}
		if v.badTimestamp {
			delete(details, "videoPublishedAt")
			snippet["publishedAt"] = "not-a-time"
		}
		items = append(items, map[string]any{"snippet": snippet, "contentDetails": details})
	}

	extra := map[string]any{}
	if end < len(ch.videos) {
		extra["nextPageToken"] = strconv.Itoa(end)
	}
	f.writeItems(w, items, extra)
}

func newTestClient(t *testing.T, f *fakeYouTube, opts ...ClientOption) *YouTubeClient {
	t.Helper()
	opts = append([]ClientOption{
		WithBaseURL(f.server.URL),
		WithTimeout(5 * time.Second),
		WithClock(func() time.Time { return testNow }),
	}, opts...)
	client, err := NewYouTubeClient(context.Background(), testAPIKey, opts...)
	require.NoError(t, err)
	return client
}

// statsJSON builds a statistics block with string-encoded counts.
func statsJSON(views, likes, comments int) map[string]any {
	return map[string]any{
		"viewCount":    strconv.Itoa(views),
		"likeCount":    strconv.Itoa(likes),
		"commentCount": strconv.Itoa(comments),
	}
}

// makeUploads generates n videos, newest first, spaced step apart from testNow.
func makeUploads(prefix string, n int, step time.Duration, views int) []fakeVideo {
	out := make([]fakeVideo, n)
	for i := range out {
		out[i] = fakeVideo{
			id:        fmt.Sprintf("%s%03d", prefix, i),
			title:     fmt.Sprintf("%s video %d", prefix, i),
			published: testNow.Add(-time.Duration(i+1) * step),
			stats:     statsJSON(views, views/20, views/20),
			duration:  "PT10M",
		}
	}
	return out
}
