package render

import (
	"net/url"
	"strconv"

	"github.com/folio-web/folio/internal/portfolio"
)

// Placeholder is shown for items without an image and swapped in by the
// client when an image fails to load.
var Placeholder = "data:image/svg+xml," + url.PathEscape(
	`<svg xmlns="http://www.w3.org/2000/svg" width="200" height="200">`+
		`<rect width="200" height="200" fill="#e0e0e0"/>`+
		`<text x="50%" y="50%" text-anchor="middle" dy=".3em" fill="#999">No Image</text>`+
		`</svg>`)

// GalleryView is the grouped projection of a gallery document.
type GalleryView struct {
	Sections []SectionView
	// Items is every item across all sections in display order. Lightbox
	// navigation runs over this list.
	Items []portfolio.GalleryItem
}

// Empty reports whether no section made it into the view.
func (g GalleryView) Empty() bool { return len(g.Sections) == 0 }

// SectionView is one rendered section. Sections without items never appear.
type SectionView struct {
	Name  string
	Items []ItemView
}

// ItemView is one rendered gallery tile.
type ItemView struct {
	ID          string
	Title       string
	Description string
	Images      []string
	Primary     string
	FlatIndex   int
	Cycles      bool
}

// Alt returns the alt text for the tile image.
func (v ItemView) Alt() string {
	if v.Title != "" {
		return v.Title
	}
	return "Gallery image"
}

// BuildGallery projects doc into its view. Every item keeps its place even
// when it has no displayable image.
func BuildGallery(doc portfolio.GalleryDocument) GalleryView {
	view := GalleryView{Items: doc.Items()}
	pos := 0
	for _, s := range doc.Sections {
		if len(s.Items) == 0 {
			continue
		}
		sv := SectionView{Name: s.Name, Items: make([]ItemView, 0, len(s.Items))}
		for _, it := range s.Items {
			sv.Items = append(sv.Items, buildItem(it, ItemID(pos), FlatIndex(view.Items, it)))
			pos++
		}
		view.Sections = append(view.Sections, sv)
	}
	return view
}

func buildItem(it portfolio.GalleryItem, id string, flat int) ItemView {
	images := portfolio.ItemImages(it)
	primary := Placeholder
	if len(images) > 0 {
		primary = images[0]
	}
	return ItemView{
		ID:          id,
		Title:       it.Title,
		Description: it.Description,
		Images:      images,
		Primary:     primary,
		FlatIndex:   flat,
		Cycles:      len(images) > 1,
	}
}

// ItemID is the DOM and session identifier of the tile at position pos of
// the flattened item list.
func ItemID(pos int) string {
	return "item-" + strconv.Itoa(pos)
}

// FlatIndex locates item in the flattened list by a best-effort identity
// match: the first item sharing its imageUrl, otherwise the first sharing its
// imageBase64, otherwise the first sharing its title. Empty values never
// match. It returns -1 when nothing matches.
func FlatIndex(items []portfolio.GalleryItem, item portfolio.GalleryItem) int {
	keys := []func(portfolio.GalleryItem) string{
		func(it portfolio.GalleryItem) string { return it.ImageURL },
		func(it portfolio.GalleryItem) string { return it.ImageBase64 },
		func(it portfolio.GalleryItem) string { return it.Title },
	}
	for _, key := range keys {
		want := key(item)
		if want == "" {
			continue
		}
		for i, it := range items {
			if key(it) == want {
				return i
			}
		}
	}
	return -1
}
