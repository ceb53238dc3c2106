package render

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/folio-web/folio/internal/portfolio"
)

// Page is everything the public page template needs.
type Page struct {
	Hero        portfolio.Hero
	HeroSlides  []string
	SlideMillis int64
	About       []template.HTML
	Skills      []string
	Projects    []ProjectCard
	Gallery     GalleryView
	Contact     portfolio.Contact
	Placeholder string
	SessionPath string
}

// Renderer turns a reconciled dataset into the public HTML page.
type Renderer struct {
	tmpl        *template.Template
	md          *Markdown
	sessionPath string
}

// NewRenderer parses the page template. sessionPath is the websocket path the
// page connects to for hover and lightbox events.
func NewRenderer(sessionPath string) (*Renderer, error) {
	tmpl, err := template.New("page").Funcs(template.FuncMap{
		"src": imageSrc,
	}).Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}
	return &Renderer{tmpl: tmpl, md: NewMarkdown(), sessionPath: sessionPath}, nil
}

// Build assembles the page view from ds.
func (r *Renderer) Build(ds *portfolio.SiteDataset) (*Page, error) {
	if ds == nil {
		ds = portfolio.EmptyDataset()
	}
	p := &Page{
		Hero:        ds.Hero,
		HeroSlides:  HeroSlides(ds.HeroSlideshow, ds.Gallery),
		SlideMillis: SlideInterval.Milliseconds(),
		Skills:      ds.Skills,
		Projects:    BuildProjects(ds.Projects),
		Gallery:     BuildGallery(ds.Gallery),
		Contact:     ds.Contact,
		Placeholder: Placeholder,
		SessionPath: r.sessionPath,
	}
	for _, text := range []string{ds.About.Text1, ds.About.Text2} {
		h, err := r.md.Render(text)
		if err != nil {
			return nil, err
		}
		if h != "" {
			p.About = append(p.About, h)
		}
	}
	return p, nil
}

// Render writes the page for ds to w.
func (r *Renderer) Render(w io.Writer, ds *portfolio.SiteDataset) error {
	p, err := r.Build(ds)
	if err != nil {
		return err
	}
	if err := r.tmpl.Execute(w, p); err != nil {
		return fmt.Errorf("executing page template: %w", err)
	}
	return nil
}

// imageSrc marks image sources as safe for src attributes. Inline data URIs
// are only accepted for images; anything that is not http(s), relative or an
// image data URI is replaced by the placeholder.
func imageSrc(s string) template.URL {
	lower := strings.ToLower(strings.TrimSpace(s))
	switch {
	case lower == "":
		return template.URL(Placeholder)
	case strings.HasPrefix(lower, "data:image/"),
		strings.HasPrefix(lower, "https://"),
		strings.HasPrefix(lower, "http://"),
		strings.HasPrefix(lower, "/"),
		!strings.Contains(lower, ":"):
		return template.URL(s)
	}
	return template.URL(Placeholder)
}
