package bot

import (
	"regexp"
	"strings"
)

// Gate obviously bad URLs locally before they cost a Core Service round trip.
// The Core Service remains authoritative for platform detection.
var (
	youtubePattern = regexp.MustCompile(`^https?://(www\.)?youtube\.com/@[\w-]+$`)
	twitchPattern  = regexp.MustCompile(`^https?://(www\.)?twitch\.tv/[\w-]+$`)
)

// ValidateURL reports whether url looks like a supported YouTube handle or
// Twitch channel URL.
func ValidateURL(url string) bool {
	return youtubePattern.MatchString(url) || twitchPattern.MatchString(url)
}

// ExtractDisplayName pulls a channel name out of a URL for display purposes
// only; it is a presentation heuristic, not authoritative parsing.
//
//	ExtractDisplayName("https://www.youtube.com/@MrBeast") == "@MrBeast"
//	ExtractDisplayName("https://www.twitch.tv/shroud") == "shroud"
func ExtractDisplayName(url string) string {
	if i := strings.Index(url, "@"); i >= 0 {
		return "@" + url[i+1:]
	}
	if i := strings.Index(url, ".tv/"); i >= 0 {
		return url[i+len(".tv/"):]
	}
	return url
}
