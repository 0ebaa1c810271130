package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/yt-insights/ytdash/internal/models"
)

const (
	youtubeAPIBaseURL = "https://www.googleapis.com"
	youtubeAPIPath    = "/youtube/v3/"

	// maxIDsPerCall is the upstream ceiling for comma-joined ids and page size.
	maxIDsPerCall = 50

	defaultCompetitorConcurrency = 4
)

// ClientOption configures the YouTubeClient.
type ClientOption func(*YouTubeClient)

// WithBaseURL points the client at a different API host (useful for testing).
func WithBaseURL(baseURL string) ClientOption {
	return func(c *YouTubeClient) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTimeout bounds every upstream call.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *YouTubeClient) {
		c.timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *YouTubeClient) {
		c.log = logger
	}
}

// WithCompetitorConcurrency caps parallel channel lookups in CompareChannels.
func WithCompetitorConcurrency(n int) ClientOption {
	return func(c *YouTubeClient) {
		if n > 0 {
			c.competitorConcurrency = n
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) ClientOption {
	return func(c *YouTubeClient) {
		c.now = now
	}
}

// YouTubeClient talks to the YouTube Data API.
//
// Typed calls go through the generated youtube/v3 service. Calls whose
// statistics must stay nullable are decoded by hand. Both share one
// http.Client that carries the API key and records metrics.
type YouTubeClient struct {
	apiKey  string
	baseURL string
	timeout time.Duration

	client  *http.Client
	service *youtube.Service

	competitorConcurrency int
	now                   func() time.Time
	log                   zerolog.Logger
}

// NewYouTubeClient creates a new YouTube client
func NewYouTubeClient(ctx context.Context, apiKey string, opts ...ClientOption) (*YouTubeClient, error) {
	c := &YouTubeClient{
		apiKey:                apiKey,
		baseURL:               youtubeAPIBaseURL,
		competitorConcurrency: defaultCompetitorConcurrency,
		now:                   time.Now,
		log:                   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.client = &http.Client{
		Timeout:   c.timeout,
		Transport: &apiKeyTransport{key: apiKey, base: http.DefaultTransport},
	}

	service, err := youtube.NewService(ctx,
		option.WithHTTPClient(c.client),
		option.WithEndpoint(c.baseURL+"/"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	c.service = service

	return c, nil
}

// apiKeyTransport appends the API key to every request and records
// upstream metrics per endpoint.
type apiKeyTransport struct {
	key  string
	base http.RoundTripper
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	q := r.URL.Query()
	if t.key != "" {
		q.Set("key", t.key)
	}
	r.URL.RawQuery = q.Encode()

	endpoint := endpointName(r.URL.Path)
	start := time.Now()
	resp, err := t.base.RoundTrip(r)
	status := "error"
	if err == nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	upstreamRequests.WithLabelValues(endpoint, status).Inc()
	upstreamDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	return resp, err
}

func endpointName(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// getJSON issues a GET against a Data API resource and decodes the body.
// Non-2xx responses come back as *models.UpstreamError.
func (c *YouTubeClient) getJSON(ctx context.Context, op, resource string, params url.Values, out any) error {
	reqURL := c.baseURL + youtubeAPIPath + resource + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return upstreamError(op, err)
	}
	defer resp.Body.Close()

	if err := googleapi.CheckResponse(resp); err != nil {
		return upstreamError(op, err)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return upstreamError(op, fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}

// upstreamError converts transport and googleapi errors into the
// structured UpstreamError, keeping the provider's status and body.
func upstreamError(op string, err error) error {
	var upErr *models.UpstreamError
	if errors.As(err, &upErr) {
		return err
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &models.UpstreamError{Op: op, Status: gerr.Code, Body: gerr.Body, Err: err}
	}
	return &models.UpstreamError{Op: op, Err: err}
}

// lenientThumbnails mirrors snippet.thumbnails.
type lenientThumbnails map[string]struct {
	URL    string `json:"url"`
	Width  int64  `json:"width"`
	Height int64  `json:"height"`
}

// channelListResponse is channels.list with statistics left untyped.
type channelListResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title       string            `json:"title"`
			Description *string           `json:"description"`
			Thumbnails  lenientThumbnails `json:"thumbnails"`
		} `json:"snippet"`
		Statistics *struct {
			SubscriberCount models.LenientNumber `json:"subscriberCount"`
			ViewCount       models.LenientNumber `json:"viewCount"`
			VideoCount      models.LenientNumber `json:"videoCount"`
		} `json:"statistics"`
	} `json:"items"`
}

// videoListResponse is videos.list with statistics left untyped.
type videoListResponse struct {
	Items []struct {
		ID         string `json:"id"`
		Statistics *struct {
			ViewCount    models.LenientNumber `json:"viewCount"`
			LikeCount    models.LenientNumber `json:"likeCount"`
			CommentCount models.LenientNumber `json:"commentCount"`
		} `json:"statistics"`
		ContentDetails *struct {
			Duration *string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}
