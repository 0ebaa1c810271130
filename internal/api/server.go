package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/yt-insights/ytdash/internal/config"
	"github.com/yt-insights/ytdash/internal/models"
)

// maxCompetitors bounds one comparison request.
const maxCompetitors = 10

// Server represents the API server
type Server struct {
	router *gin.Engine
	client *YouTubeClient
	cfg    *config.Config
	log    zerolog.Logger
}

// channelRequest is the body shared by the channel, recent and summary
// endpoints.
type channelRequest struct {
	URL        string `json:"url"`
	ChannelID  string `json:"channelId"`
	MaxResults *int   `json:"maxResults"`
	Days       *int   `json:"days"`
}

func (r channelRequest) input() models.ChannelInput {
	return models.ChannelInput{URL: r.URL, ChannelID: r.ChannelID}
}

type competitorsRequest struct {
	Channels []string `json:"channels"`
}

// NewServer creates a new API server. The package metrics are registered
// with reg and exposed on /metrics. Servers sharing a registry share the
// same counters.
func NewServer(cfg *config.Config, client *YouTubeClient, logger zerolog.Logger, reg *prometheus.Registry) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.CORSOrigins) == 0 {
		corsCfg.AllowOrigins = nil
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	}
	router.Use(cors.New(corsCfg))

	MustRegister(reg)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	server := &Server{
		router: router,
		client: client,
		cfg:    cfg,
		log:    logger,
	}
	server.setupRoutes()

	return server
}

// setupRoutes configures all the routes for the server
func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	api.GET("/health", s.health)

	yt := api.Group("/youtube")
	yt.POST("/channel", s.getChannel)
	yt.POST("/recent", s.getRecentVideos)
	yt.POST("/summary", s.getChannelSummary)
	yt.GET("/insights/cadence", s.getCadence)
	yt.GET("/competitors/summary", s.getCompetitorSummary)
	yt.POST("/competitors", s.compareCompetitors)
}

// Handler exposes the router for http.Server and tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":           true,
		"envKeyLoaded": s.cfg.YouTubeAPIKey != "",
		"keyPreview":   s.cfg.KeyPreview(),
	})
}

// getChannel handles POST /api/youtube/channel
func (s *Server) getChannel(c *gin.Context) {
	var req channelRequest
	if !s.bind(c, &req) {
		return
	}

	channel, err := s.client.GetChannel(c.Request.Context(), req.input())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, channel)
}

// getRecentVideos handles POST /api/youtube/recent
func (s *Server) getRecentVideos(c *gin.Context) {
	var req channelRequest
	if !s.bind(c, &req) {
		return
	}
	maxResults, days := recentWindow(req)

	videos, err := s.client.GetRecentVideos(c.Request.Context(), req.input(), maxResults, days)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, videos)
}

// getChannelSummary handles POST /api/youtube/summary
func (s *Server) getChannelSummary(c *gin.Context) {
	var req channelRequest
	if !s.bind(c, &req) {
		return
	}
	maxResults, days := recentWindow(req)

	report, err := s.client.GetChannelSummary(c.Request.Context(), req.input(), maxResults, days)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// getCadence handles GET /api/youtube/insights/cadence
func (s *Server) getCadence(c *gin.Context) {
	in := models.ChannelInput{URL: c.Query("url"), ChannelID: c.Query("channelId")}
	// ComputeCadence applies the bounds: limit < 1 takes the default and
	// minCount < 1 becomes 1.
	limit := queryInt(c, "limit", DefaultCadenceLimit)
	minCount := queryInt(c, "minCount", DefaultCadenceMinCount)

	report, err := s.client.GetCadence(c.Request.Context(), in, limit, minCount)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// getCompetitorSummary handles GET /api/youtube/competitors/summary
func (s *Server) getCompetitorSummary(c *gin.Context) {
	ref := c.Query("channel")
	if ref == "" {
		s.writeError(c, models.ErrMissingInput)
		return
	}

	row, err := s.client.CompetitorSummary(c.Request.Context(), ref)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

// compareCompetitors handles POST /api/youtube/competitors
func (s *Server) compareCompetitors(c *gin.Context) {
	var req competitorsRequest
	if !s.bind(c, &req) {
		return
	}
	if len(req.Channels) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "channels array is required"})
		return
	}
	if len(req.Channels) > maxCompetitors {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("at most %d channels can be compared", maxCompetitors)})
		return
	}

	rows := s.client.CompareChannels(c.Request.Context(), req.Channels)
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

// bind decodes a JSON body. An empty body is treated as {}.
func (s *Server) bind(c *gin.Context, out any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body: " + err.Error()})
		return false
	}
	return true
}

// writeError maps domain errors onto HTTP statuses.
func (s *Server) writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	var upErr *models.UpstreamError
	switch {
	case errors.Is(err, models.ErrMissingInput), errors.Is(err, models.ErrInvalidReference):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case isTimeout(err):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "YouTube API request timed out"})
	case errors.As(err, &upErr) && upErr.Status >= 400:
		body := gin.H{
			"error":          "YouTube API error",
			"upstreamStatus": upErr.Status,
		}
		if upErr.Body != "" {
			if json.Valid([]byte(upErr.Body)) {
				body["details"] = json.RawMessage(upErr.Body)
			} else {
				body["details"] = upErr.Body
			}
		}
		c.JSON(upErr.Status, body)
	default:
		s.log.Error().Err(err).Str("route", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// recentWindow applies the maxResults and days defaults and bounds.
func recentWindow(req channelRequest) (maxResults, days int) {
	maxResults = DefaultRecentMaxResults
	if req.MaxResults != nil && *req.MaxResults != 0 {
		maxResults = clamp(*req.MaxResults, 1, maxIDsPerCall)
	}
	days = DefaultRecentDays
	if req.Days != nil && *req.Days > 0 {
		days = *req.Days
	}
	return maxResults, days
}

// queryInt reads an integer query parameter, falling back to def when it
// is absent or malformed.
func queryInt(c *gin.Context, name string, def int) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return def
	}
	return n
}
