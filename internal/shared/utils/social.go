package utils

import (
	"net/url"
	"regexp"
	"strings"
)

// Social link normalizers. Every function is total: an empty result means
// the input was not recognised.

var (
	youtubePattern       = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([A-Za-z0-9_-]{11})`)
	tiktokVideoPattern   = regexp.MustCompile(`tiktok\.com/(@[\w.-]+)/video/(\d+)`)
	tiktokProfilePattern = regexp.MustCompile(`tiktok\.com/(@[\w.-]+)`)
	spotifyPattern       = regexp.MustCompile(`open\.spotify\.com/(track|artist|album|playlist)/([A-Za-z0-9]+)`)
)

var tiktokShareHosts = []string{"vm.tiktok.com", "vt.tiktok.com"}

// ExtractYouTubeID returns the 11 character video id from a watch, short or
// embed link
func ExtractYouTubeID(raw string) string {
	m := youtubePattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return ""
	}
	return m[1]
}

// YouTubeEmbedURL renders a video id as an embeddable URL
func YouTubeEmbedURL(id string) string {
	if id == "" {
		return ""
	}
	return "https://www.youtube.com/embed/" + id
}

// TikTokOptions controls the video link rewrite
type TikTokOptions struct {
	// LegacyHandle replaces the handle in video links with "@user", the
	// output older records were stored with
	LegacyHandle bool
}

// NormalizeTikTok canonicalizes a TikTok link. Mobile share links are opaque
// and returned unchanged.
func NormalizeTikTok(raw string, opts TikTokOptions) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if isTikTokShareLink(raw) {
		return raw
	}

	if m := tiktokVideoPattern.FindStringSubmatch(raw); m != nil {
		handle := m[1]
		if opts.LegacyHandle {
			handle = "@user"
		}
		return "https://www.tiktok.com/" + handle + "/video/" + m[2]
	}

	if m := tiktokProfilePattern.FindStringSubmatch(raw); m != nil {
		return "https://www.tiktok.com/" + m[1]
	}

	if strings.Contains(raw, "tiktok.com") {
		return raw
	}
	return ""
}

func isTikTokShareLink(raw string) bool {
	host := raw
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		host = u.Host
	}
	for _, h := range tiktokShareHosts {
		if strings.Contains(host, h) {
			return true
		}
	}
	return false
}

// SpotifyEmbedURL rewrites a track, artist, album or playlist link to its
// embed form
func SpotifyEmbedURL(raw string) string {
	m := spotifyPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return ""
	}
	return "https://open.spotify.com/embed/" + m[1] + "/" + m[2]
}
