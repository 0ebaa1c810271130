package api

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/yt-insights/ytdash/internal/models"
)

var channelIDPattern = regexp.MustCompile(`^UC[a-zA-Z0-9_-]{22}$`)

// IsChannelID reports whether s already has the canonical UC... shape.
func IsChannelID(s string) bool {
	return channelIDPattern.MatchString(s)
}

// ExtractReference parses a raw channel ID or channel URL into a typed
// reference. Recognised paths are /channel/<id>, /user/<name>, /@<handle>
// and /c/<custom>; custom URLs resolve like handles.
func ExtractReference(raw string) (models.ChannelReference, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return models.ChannelReference{}, models.ErrMissingInput
	}
	if IsChannelID(raw) {
		return models.ChannelReference{Kind: models.ReferenceID, Value: raw}, nil
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return models.ChannelReference{}, fmt.Errorf("%w: %q", models.ErrInvalidReference, raw)
	}

	path := u.Path
	switch {
	case strings.HasPrefix(path, "/channel/"):
		return reference(models.ReferenceID, strings.TrimPrefix(path, "/channel/"), raw)
	case strings.HasPrefix(path, "/user/"):
		return reference(models.ReferenceUsername, strings.TrimPrefix(path, "/user/"), raw)
	case strings.HasPrefix(path, "/@"):
		return reference(models.ReferenceHandle, strings.TrimPrefix(path, "/@"), raw)
	case strings.HasPrefix(path, "/c/"):
		return reference(models.ReferenceHandle, strings.TrimPrefix(path, "/c/"), raw)
	}

	if id := u.Query().Get("channelId"); IsChannelID(id) {
		return models.ChannelReference{Kind: models.ReferenceID, Value: id}, nil
	}
	return models.ChannelReference{}, fmt.Errorf("%w: unsupported YouTube URL format %q", models.ErrInvalidReference, raw)
}

// reference keeps the first path segment after the recognised prefix.
func reference(kind models.ReferenceKind, rest, raw string) (models.ChannelReference, error) {
	value, _, _ := strings.Cut(rest, "/")
	if value == "" {
		return models.ChannelReference{}, fmt.Errorf("%w: empty %s in %q", models.ErrInvalidReference, kind, raw)
	}
	return models.ChannelReference{Kind: kind, Value: value}, nil
}

// ResolveChannelID turns caller input into a canonical channel ID. A
// canonical channelId is returned as-is without any upstream call;
// otherwise the URL (or the non-canonical channelId) is parsed and looked
// up with at most one request.
func (c *YouTubeClient) ResolveChannelID(ctx context.Context, in models.ChannelInput) (string, error) {
	id := strings.TrimSpace(in.ChannelID)
	if IsChannelID(id) {
		return id, nil
	}

	raw := strings.TrimSpace(in.URL)
	if raw == "" {
		raw = id
	}
	if raw == "" {
		return "", models.ErrMissingInput
	}

	ref, err := ExtractReference(raw)
	if err != nil {
		return "", err
	}
	return c.resolveReference(ctx, ref)
}

func (c *YouTubeClient) resolveReference(ctx context.Context, ref models.ChannelReference) (string, error) {
	switch ref.Kind {
	case models.ReferenceID:
		return ref.Value, nil
	case models.ReferenceUsername:
		return c.channelIDForUsername(ctx, ref.Value)
	case models.ReferenceHandle:
		return c.channelIDForQuery(ctx, ref.Value)
	default:
		return "", fmt.Errorf("%w: unknown reference kind %s", models.ErrInvalidReference, ref.Kind)
	}
}

// channelIDForUsername looks up a legacy /user/ name
func (c *YouTubeClient) channelIDForUsername(ctx context.Context, username string) (string, error) {
	resp, err := c.service.Channels.List([]string{"id"}).
		ForUsername(username).
		Context(ctx).
		Do()
	if err != nil {
		return "", upstreamError("channels.list", err)
	}
	if len(resp.Items) == 0 || resp.Items[0].Id == "" {
		return "", fmt.Errorf("%w: no channel for username %q", models.ErrNotFound, username)
	}

	c.log.Debug().Str("username", username).Str("channel_id", resp.Items[0].Id).Msg("resolved username")
	return resp.Items[0].Id, nil
}

// channelIDForQuery searches channels for a handle or custom URL name and
// takes the first hit.
func (c *YouTubeClient) channelIDForQuery(ctx context.Context, query string) (string, error) {
	resp, err := c.service.Search.List([]string{"id"}).
		Q(query).
		Type("channel").
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", upstreamError("search.list", err)
	}
	if len(resp.Items) == 0 || resp.Items[0].Id == nil || resp.Items[0].Id.ChannelId == "" {
		return "", fmt.Errorf("%w: no channel for handle %q", models.ErrNotFound, query)
	}

	c.log.Debug().Str("handle", query).Str("channel_id", resp.Items[0].Id.ChannelId).Msg("resolved handle")
	return resp.Items[0].Id.ChannelId, nil
}
