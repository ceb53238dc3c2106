package portfolio

import "encoding/json"

// ImageRef is a single image, referenced either by URL or by an inline
// base64 data URI. At most one of the two is authoritative.
type ImageRef struct {
	ImageURL    string `json:"imageUrl,omitempty"`
	ImageBase64 string `json:"imageBase64,omitempty"`
}

// SetURL sets the URL and clears the inline payload when url is non-empty.
func (r *ImageRef) SetURL(url string) {
	r.ImageURL = url
	if url != "" {
		r.ImageBase64 = ""
	}
}

// SetBase64 sets the inline payload and clears the URL when data is non-empty.
func (r *ImageRef) SetBase64(data string) {
	r.ImageBase64 = data
	if data != "" {
		r.ImageURL = ""
	}
}

// Source resolves the displayable source: imageUrl, then imageBase64, then "".
func (r ImageRef) Source() string {
	return ResolveSource(r.ImageURL, r.ImageBase64)
}

// IsEmpty reports whether neither URL nor base64 carries a non-blank value.
func (r ImageRef) IsEmpty() bool {
	return isBlank(r.ImageURL) && isBlank(r.ImageBase64)
}

// GalleryItem is one tile of the gallery. The main image follows the same
// URL/base64 exclusivity as ImageRef.
type GalleryItem struct {
	Title            string     `json:"title,omitempty"`
	Description      string     `json:"description,omitempty"`
	ImageURL         string     `json:"imageUrl,omitempty"`
	ImageBase64      string     `json:"imageBase64,omitempty"`
	AdditionalImages []ImageRef `json:"additionalImages"`
}

// Main returns the item's main image as an ImageRef.
func (it GalleryItem) Main() ImageRef {
	return ImageRef{ImageURL: it.ImageURL, ImageBase64: it.ImageBase64}
}

// SetURL sets the main image URL, clearing base64 when url is non-empty.
func (it *GalleryItem) SetURL(url string) {
	ref := it.Main()
	ref.SetURL(url)
	it.ImageURL, it.ImageBase64 = ref.ImageURL, ref.ImageBase64
}

// SetBase64 sets the main inline image, clearing the URL when data is non-empty.
func (it *GalleryItem) SetBase64(data string) {
	ref := it.Main()
	ref.SetBase64(data)
	it.ImageURL, it.ImageBase64 = ref.ImageURL, ref.ImageBase64
}

// HasImages reports whether the item has a main image or at least one
// populated additional image.
func (it GalleryItem) HasImages() bool {
	if it.ImageURL != "" || it.ImageBase64 != "" {
		return true
	}
	for _, img := range it.AdditionalImages {
		if img.ImageURL != "" || img.ImageBase64 != "" {
			return true
		}
	}
	return false
}

// GallerySection is a named, ordered group of gallery items.
type GallerySection struct {
	Name  string        `json:"name"`
	Items []GalleryItem `json:"items"`
}

// GalleryDocument is the canonical sectioned gallery. Sections is never nil
// once the document has passed through DecodeGallery.
type GalleryDocument struct {
	Sections []GallerySection `json:"sections"`

	// Extra holds unknown top-level keys so they survive a round trip.
	Extra map[string]json.RawMessage `json:"-"`
}

// Items flattens every section's items in display order.
func (d GalleryDocument) Items() []GalleryItem {
	var out []GalleryItem
	for _, s := range d.Sections {
		out = append(out, s.Items...)
	}
	return out
}

// HasContent reports whether the document has at least one section or
// carries top-level keys besides "sections".
func (d GalleryDocument) HasContent() bool {
	return len(d.Sections) > 0 || len(d.Extra) > 0
}

// MarshalJSON writes sections plus any preserved extra keys.
func (d GalleryDocument) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Extra)+1)
	for k, v := range d.Extra {
		out[k] = v
	}
	sections := make([]GallerySection, len(d.Sections))
	for i, s := range d.Sections {
		if s.Items == nil {
			s.Items = []GalleryItem{}
		}
		sections[i] = s
	}
	out["sections"] = sections
	return json.Marshal(out)
}

// Project is a portfolio project card.
type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Thumbnail    string   `json:"thumbnail,omitempty"`
	YouTubeURL   string   `json:"youtubeUrl,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	ProjectURL   string   `json:"projectUrl,omitempty"`
	SourceURL    string   `json:"sourceUrl,omitempty"`
}

// About holds the two about-me paragraphs.
type About struct {
	Text1 string `json:"text1"`
	Text2 string `json:"text2"`
}

// IsZero reports whether both paragraphs are empty.
func (a About) IsZero() bool { return a.Text1 == "" && a.Text2 == "" }

// Contact holds contact details and optional social links.
type Contact struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
}

// IsZero reports whether no contact field is set.
func (c Contact) IsZero() bool { return c == Contact{} }

// Hero is the landing banner text.
type Hero struct {
	Name        string `json:"name,omitempty"`
	Subtitle    string `json:"subtitle,omitempty"`
	Description string `json:"description,omitempty"`
}

// IsZero reports whether no hero field is set.
func (h Hero) IsZero() bool { return h == Hero{} }

// SiteDataset is the merged, in-memory dataset a page renders from.
type SiteDataset struct {
	Projects      []Project       `json:"projects"`
	Gallery       GalleryDocument `json:"gallery"`
	About         About           `json:"about"`
	Skills        []string        `json:"skills"`
	Contact       Contact         `json:"contact"`
	Hero          Hero            `json:"hero"`
	HeroSlideshow []ImageRef      `json:"heroSlideshow,omitempty"`
}

// EmptyDataset returns a dataset with every field at its documented default.
func EmptyDataset() *SiteDataset {
	return &SiteDataset{
		Projects: []Project{},
		Gallery:  GalleryDocument{Sections: []GallerySection{}},
		Skills:   []string{},
	}
}
