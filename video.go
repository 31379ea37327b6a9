package cleanplate

import (
	"regexp"
	"strings"
)

var (
	youtubeIDRe = regexp.MustCompile(`(?i)(?:youtube(?:-nocookie)?\.com/(?:watch\?(?:[^#]*&)?v=|embed/|shorts/|v/)|youtu\.be/)([A-Za-z0-9_-]{11})`)
	vimeoIDRe   = regexp.MustCompile(`(?i)vimeo\.com/(?:video/|channels/[^/]+/)?(\d+)`)
	videoFileRe = regexp.MustCompile(`(?i)\.(mp4|webm|ogg|ogv|mov|m4v)(?:[?#]|$)`)
)

// NormalizeVideo classifies a video URL and rewrites YouTube and Vimeo
// links to their embeddable player form. It returns nil for values that are
// not http(s) or protocol-relative URLs.
func NormalizeVideo(rawURL, thumbnail string) *Video {
	u := CleanText(rawURL)
	if strings.HasPrefix(u, "//") {
		u = "https:" + u
	}
	lower := strings.ToLower(u)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return nil
	}

	v := &Video{URL: u, Platform: VideoExternal, Thumbnail: CleanText(thumbnail)}
	switch {
	case youtubeIDRe.MatchString(u):
		v.URL = "https://www.youtube.com/embed/" + youtubeIDRe.FindStringSubmatch(u)[1]
		v.Platform = VideoYouTube
	case vimeoIDRe.MatchString(u):
		v.URL = "https://player.vimeo.com/video/" + vimeoIDRe.FindStringSubmatch(u)[1]
		v.Platform = VideoVimeo
	case videoFileRe.MatchString(u):
		v.Platform = VideoHTML5
	}
	return v
}
