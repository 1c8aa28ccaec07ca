package services

import (
	"net/url"
	"regexp"
	"strings"

	"pulse-news/pkg/models"
)

var (
	youtubeRe   = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([a-zA-Z0-9_-]{11})`)
	tiktokRe    = regexp.MustCompile(`tiktok\.com/.*/video/(\d+)`)
	facebookRe  = regexp.MustCompile(`facebook\.com/.*/videos/(\d+)`)
	instagramRe = regexp.MustCompile(`instagram\.com/(p|reel)/([a-zA-Z0-9_-]+)`)
)

// componentEscaper turns query escaping into URI component escaping: spaces
// become %20 and the marks !'()* stay literal.
var componentEscaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

func encodeURIComponent(s string) string {
	return componentEscaper.Replace(url.QueryEscape(s))
}

// ResolveVideo maps a public video URL to the provider's embeddable URL.
// The boolean is false when no provider pattern matches.
func ResolveVideo(rawURL string) (models.VideoEmbed, bool) {
	if m := youtubeRe.FindStringSubmatch(rawURL); m != nil {
		return models.VideoEmbed{Platform: "youtube", EmbedURL: "https://www.youtube.com/embed/" + m[1]}, true
	}
	if m := tiktokRe.FindStringSubmatch(rawURL); m != nil {
		return models.VideoEmbed{Platform: "tiktok", EmbedURL: "https://www.tiktok.com/embed/" + m[1]}, true
	}
	if facebookRe.MatchString(rawURL) {
		return models.VideoEmbed{
			Platform: "facebook",
			EmbedURL: "https://www.facebook.com/plugins/video.php?href=" + encodeURIComponent(rawURL),
		}, true
	}
	if m := instagramRe.FindStringSubmatch(rawURL); m != nil {
		return models.VideoEmbed{
			Platform: "instagram",
			EmbedURL: "https://www.instagram.com/" + m[1] + "/" + m[2] + "/embed",
		}, true
	}
	return models.VideoEmbed{}, false
}

// VideoPlatform names the hosting platform, or "unknown".
func VideoPlatform(rawURL string) string {
	switch {
	case strings.Contains(rawURL, "youtube.com"), strings.Contains(rawURL, "youtu.be"):
		return "youtube"
	case strings.Contains(rawURL, "tiktok.com"):
		return "tiktok"
	case strings.Contains(rawURL, "facebook.com"):
		return "facebook"
	case strings.Contains(rawURL, "instagram.com"):
		return "instagram"
	default:
		return "unknown"
	}
}
