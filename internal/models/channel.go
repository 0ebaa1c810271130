package models

import "fmt"

// ChannelSummary is the compact projection of a YouTube channel
type ChannelSummary struct {
	ChannelID   string  `json:"channelId"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	ProfilePic  *string `json:"profilePic"`
	Subscribers *int64  `json:"subscribers"`
	TotalViews  *int64  `json:"totalViews"`
	TotalVideos *int64  `json:"totalVideos"`
}

// ChannelInput is what callers hand us to identify a channel: either a raw
// URL/handle string, an ID, or both.
type ChannelInput struct {
	URL       string `json:"url"`
	ChannelID string `json:"channelId"`
}

// ReferenceKind tags a ChannelReference.
type ReferenceKind int

const (
	ReferenceID ReferenceKind = iota + 1
	ReferenceUsername
	ReferenceHandle
)

func (k ReferenceKind) String() string {
	switch k {
	case ReferenceID:
		return "id"
	case ReferenceUsername:
		return "username"
	case ReferenceHandle:
		return "handle"
	default:
		return fmt.Sprintf("ReferenceKind(%d)", int(k))
	}
}

// ChannelReference is a parsed channel reference. Exactly one kind is set
// and Value is never empty.
type ChannelReference struct {
	Kind  ReferenceKind
	Value string
}

func (r ChannelReference) String() string {
	return r.Kind.String() + ":" + r.Value
}
