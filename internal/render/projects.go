package render

import (
	"strings"

	"github.com/folio-web/folio/internal/portfolio"
)

// ProjectCard is the rendered form of a project.
type ProjectCard struct {
	Name         string
	Summary      string
	Thumbnail    string
	// Fallbacks are tried in order when Thumbnail fails to load.
	Fallbacks    []string
	VideoURL     string
	Technologies []string
	ProjectURL   string
	SourceURL    string
}

// BuildProjects renders every project in order.
func BuildProjects(projects []portfolio.Project) []ProjectCard {
	cards := make([]ProjectCard, 0, len(projects))
	for _, p := range projects {
		cards = append(cards, BuildProject(p))
	}
	return cards
}

// BuildProject resolves a project's thumbnail and links. A stored YouTube
// thumbnail is ignored and rederived from the video id, so stale thumbnail
// URLs never outlive a changed video.
func BuildProject(p portfolio.Project) ProjectCard {
	card := ProjectCard{
		Name:         p.Name,
		Summary:      portfolio.Summary(p.Description),
		Technologies: p.Technologies,
		ProjectURL:   p.ProjectURL,
		SourceURL:    p.SourceURL,
	}
	if card.Name == "" {
		card.Name = "Untitled Project"
	}

	thumb := strings.TrimSpace(p.Thumbnail)
	if portfolio.IsYouTubeThumbnail(thumb) {
		thumb = ""
	}

	if p.YouTubeURL != "" {
		id := portfolio.YouTubeID(p.YouTubeURL)
		if thumb == "" && id != "" {
			thumb = portfolio.YouTubeThumbnail(id)
			card.Fallbacks = youTubeFallbacks(id)
		}
		if id == "" {
			id = p.YouTubeURL
		}
		card.VideoURL = "https://www.youtube.com/watch?v=" + id
	}
	card.Thumbnail = portfolio.RewriteBlobURL(thumb)
	return card
}

func youTubeFallbacks(id string) []string {
	sizes := []string{"hqdefault", "mqdefault", "sddefault"}
	out := make([]string, len(sizes))
	for i, s := range sizes {
		out[i] = "https://img.youtube.com/vi/" + id + "/" + s + ".jpg"
	}
	return out
}
