package portfolio

import (
	"regexp"
	"strings"
)

// ResolveSource applies the image precedence used everywhere on the site:
// imageUrl, then imageBase64, then empty.
func ResolveSource(url, b64 string) string {
	if url != "" {
		return url
	}
	return b64
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// RewriteBlobURL turns a github.com "blob" view link into its
// raw.githubusercontent.com equivalent. Any other string is returned as is,
// and applying it twice gives the same result as applying it once.
func RewriteBlobURL(url string) string {
	if !strings.Contains(url, "github.com") || !strings.Contains(url, "/blob/") {
		return url
	}
	url = strings.Replace(url, "github.com", "raw.githubusercontent.com", 1)
	return strings.Replace(url, "/blob/", "/", 1)
}

// ItemImages returns the displayable sources of an item: the main image
// followed by each additional image in order, rewritten, with empty
// sources dropped.
func ItemImages(it GalleryItem) []string {
	out := make([]string, 0, 1+len(it.AdditionalImages))
	if src := it.Main().Source(); src != "" {
		out = append(out, RewriteBlobURL(src))
	}
	for _, img := range it.AdditionalImages {
		if src := img.Source(); src != "" {
			out = append(out, RewriteBlobURL(src))
		}
	}
	return out
}

var gifExt = regexp.MustCompile(`(?i)\.gif(\?|#|$)`)

// IsGIF reports whether src is a GIF: either a data URI whose MIME subtype
// is exactly "gif", or a URL whose file extension is .gif.
func IsGIF(src string) bool {
	s := strings.ToLower(strings.TrimSpace(src))
	if s == "" {
		return false
	}
	if strings.HasPrefix(s, "data:image/gif") {
		mime := strings.TrimPrefix(s, "data:image/")
		if i := strings.IndexAny(mime, ";,"); i >= 0 {
			mime = mime[:i]
		}
		return mime == "gif"
	}
	return gifExt.MatchString(s)
}

var youTubePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([^&\n?#]+)`),
	regexp.MustCompile(`youtube\.com/watch\?.*v=([^&\n?#]+)`),
}

// YouTubeID extracts the video id from a YouTube link. A value that does not
// mention youtube.com or youtu.be is taken to be an id already. The result is
// trimmed and cut at the first '&' or '?'.
func YouTubeID(v string) string {
	if v == "" {
		return ""
	}
	id := v
	if strings.Contains(v, "youtube.com") || strings.Contains(v, "youtu.be") {
		id = ""
		for _, re := range youTubePatterns {
			if m := re.FindStringSubmatch(v); len(m) > 1 && m[1] != "" {
				id = m[1]
				break
			}
		}
	}
	id = strings.TrimSpace(id)
	if i := strings.IndexAny(id, "&?"); i >= 0 {
		id = id[:i]
	}
	return id
}

// YouTubeThumbnail returns the max-resolution thumbnail URL for a video id.
func YouTubeThumbnail(id string) string {
	if id == "" {
		return ""
	}
	return "https://img.youtube.com/vi/" + id + "/maxresdefault.jpg"
}

// IsYouTubeThumbnail reports whether u points at YouTube's thumbnail host.
// Those are derived values and are never stored as a project's thumbnail.
func IsYouTubeThumbnail(u string) bool {
	return strings.Contains(u, "img.youtube.com/vi/")
}

// Summary shortens s to its first 150 characters, trimmed, followed by "...".
func Summary(s string) string {
	const limit = 150
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return strings.TrimSpace(string(r[:limit])) + "..."
}
