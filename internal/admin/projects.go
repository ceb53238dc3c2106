// Package admin is the editor side of the site: every create, update, delete
// and reorder the operator performs, recorded in the audit trail.
package admin

import (
	"errors"
	"fmt"
	"strings"

	"github.com/folio-web/folio/internal/portfolio"
)

var (
	ErrInvalidProject  = errors.New("admin: project name and description are required")
	ErrProjectNotFound = errors.New("admin: project not found")
)

// DeleteProjectPrompt is the confirmation text for deleting a project.
const DeleteProjectPrompt = "Are you sure you want to delete this project?"

// ProjectInput is a project as submitted by the editor form.
type ProjectInput struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Thumbnail    string   `json:"thumbnail"`
	YouTubeURL   string   `json:"youtubeUrl"`
	Technologies []string `json:"technologies"`
	ProjectURL   string   `json:"projectUrl"`
	SourceURL    string   `json:"sourceUrl"`
}

// NormalizeProject validates and cleans a submitted project. Name and
// description are required. A YouTube link is stored as its video id, and a
// YouTube thumbnail URL is never stored since it is derived on render.
func NormalizeProject(in ProjectInput) (portfolio.Project, error) {
	p := portfolio.Project{
		Name:         strings.TrimSpace(in.Name),
		Description:  strings.TrimSpace(in.Description),
		Thumbnail:    strings.TrimSpace(in.Thumbnail),
		YouTubeURL:   portfolio.YouTubeID(strings.TrimSpace(in.YouTubeURL)),
		Technologies: cleanList(in.Technologies),
		ProjectURL:   strings.TrimSpace(in.ProjectURL),
		SourceURL:    strings.TrimSpace(in.SourceURL),
	}
	if p.Name == "" || p.Description == "" {
		return portfolio.Project{}, ErrInvalidProject
	}
	if portfolio.IsYouTubeThumbnail(p.Thumbnail) {
		p.Thumbnail = ""
	}
	return p, nil
}

// SplitList splits a comma-separated list, trimming entries and dropping
// blank ones.
func SplitList(s string) []string {
	return cleanList(strings.Split(s, ","))
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// CleanupYouTubeThumbnails clears stored YouTube thumbnail URLs left by older
// data and reports whether anything changed.
func CleanupYouTubeThumbnails(projects []portfolio.Project) bool {
	changed := false
	for i := range projects {
		if portfolio.IsYouTubeThumbnail(projects[i].Thumbnail) {
			projects[i].Thumbnail = ""
			changed = true
		}
	}
	return changed
}

// ReorderProjects moves the project at from to position to.
func ReorderProjects(projects []portfolio.Project, from, to int) ([]portfolio.Project, error) {
	if from < 0 || from >= len(projects) || to < 0 || to >= len(projects) {
		return projects, fmt.Errorf("%w: move %d to %d of %d", ErrProjectNotFound, from, to, len(projects))
	}
	if from == to {
		return projects, nil
	}
	moved := projects[from]
	projects = append(projects[:from], projects[from+1:]...)
	projects = append(projects, portfolio.Project{})
	copy(projects[to+1:], projects[to:])
	projects[to] = moved
	return projects, nil
}
