package models

// Platform identifies which streaming service a subscription points at.
// The Core Service performs the authoritative detection; the gateway never
// derives this from the URL itself.
type Platform string

const (
	PlatformYouTube Platform = "YOUTUBE"
	PlatformTwitch  Platform = "TWITCH"
)

// Subscription is a Core Service owned record. The gateway never stores these;
// every /list rebuilds the view from a fresh API response.
type Subscription struct {
	ID         int64    `json:"id"`
	Platform   Platform `json:"platform"`
	ChannelURL string   `json:"channelUrl"`
}

// ExternalUser is the chat platform's view of a user: the numeric Telegram ID
// plus the optional public handle. Immutable once observed.
type ExternalUser struct {
	ID       int64
	Username string
}
