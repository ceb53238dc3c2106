// Package snapshot reads the published data.json and merges it with the
// locally stored admin edits into the dataset a page renders from.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/folio-web/folio/internal/portfolio"
)

// Top-level snapshot keys.
const (
	FieldProjects      = "projects"
	FieldGallery       = "gallery"
	FieldAbout         = "about"
	FieldSkills        = "skills"
	FieldContact       = "contact"
	FieldHero          = "hero"
	FieldHeroSlideshow = "heroSlideshow"
)

// Fields lists the snapshot keys in document order.
var Fields = []string{FieldProjects, FieldGallery, FieldAbout, FieldSkills, FieldContact, FieldHero, FieldHeroSlideshow}

// Snapshot is a decoded data.json. Snapshots handed out by a Source may be
// shared between page loads and must be treated as read-only.
type Snapshot struct {
	Projects      []portfolio.Project
	Gallery       portfolio.GalleryDocument
	About         portfolio.About
	Skills        []string
	Contact       portfolio.Contact
	Hero          portfolio.Hero
	HeroSlideshow []portfolio.ImageRef

	present     map[string]bool
	galleryKeys int
	contactKeys int
}

// Has reports whether the snapshot carried the top-level key at all.
func (s *Snapshot) Has(field string) bool {
	return s.present[field]
}

// GalleryHasContent reports whether the published gallery counts as content:
// at least one section, or more than one top-level key.
func (s *Snapshot) GalleryHasContent() bool {
	return len(s.Gallery.Sections) > 0 || s.galleryKeys > 1
}

// HasContact reports whether the published contact object has any key.
func (s *Snapshot) HasContact() bool {
	return s.contactKeys > 0
}

// Parse decodes a data.json document. Absent keys keep their defaults; a key
// whose value has the wrong shape fails the whole parse.
func Parse(data []byte) (*Snapshot, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if top == nil {
		return nil, fmt.Errorf("decoding snapshot: document is null")
	}

	s := &Snapshot{
		Projects:      []portfolio.Project{},
		Gallery:       portfolio.GalleryDocument{Sections: []portfolio.GallerySection{}},
		Skills:        []string{},
		HeroSlideshow: []portfolio.ImageRef{},
		present:       make(map[string]bool, len(top)),
	}
	for k := range top {
		s.present[k] = true
	}

	var err error
	if raw, ok := top[FieldProjects]; ok {
		if s.Projects, err = portfolio.DecodeProjects(raw); err != nil {
			return nil, err
		}
	}
	if raw, ok := top[FieldGallery]; ok {
		if s.Gallery, _, err = portfolio.DecodeGallery(raw); err != nil {
			return nil, err
		}
		s.galleryKeys = countKeys(raw)
	}
	if raw, ok := top[FieldAbout]; ok {
		if s.About, err = portfolio.DecodeAbout(raw); err != nil {
			return nil, err
		}
	}
	if raw, ok := top[FieldSkills]; ok {
		if s.Skills, err = portfolio.DecodeSkills(raw); err != nil {
			return nil, err
		}
	}
	if raw, ok := top[FieldContact]; ok {
		if s.Contact, err = portfolio.DecodeContact(raw); err != nil {
			return nil, err
		}
		s.contactKeys = countKeys(raw)
	}
	if raw, ok := top[FieldHero]; ok {
		if s.Hero, err = portfolio.DecodeHero(raw); err != nil {
			return nil, err
		}
	}
	if raw, ok := top[FieldHeroSlideshow]; ok {
		if s.HeroSlideshow, err = portfolio.DecodeImageRefs(raw); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// countKeys counts the members of a JSON object or the elements of an array.
func countKeys(raw json.RawMessage) int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	switch raw[0] {
	case '{':
		var m map[string]json.RawMessage
		if json.Unmarshal(raw, &m) == nil {
			return len(m)
		}
	case '[':
		var a []json.RawMessage
		if json.Unmarshal(raw, &a) == nil {
			return len(a)
		}
	}
	return 0
}
