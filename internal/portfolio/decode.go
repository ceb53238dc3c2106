package portfolio

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// LegacySectionName is the section that receives the items of a legacy
// flat-list gallery.
const LegacySectionName = "Default"

// DecodeGallery normalises any stored or published gallery shape into a
// GalleryDocument. A legacy bare array becomes a single "Default" section (or
// no section when empty); migrated reports whether that conversion happened.
// Empty input and JSON null decode to an empty document.
func DecodeGallery(raw []byte) (doc GalleryDocument, migrated bool, err error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return GalleryDocument{Sections: []GallerySection{}}, false, nil
	}

	switch raw[0] {
	case '[':
		var items []GalleryItem
		if err := json.Unmarshal(raw, &items); err != nil {
			return GalleryDocument{Sections: []GallerySection{}}, false, fmt.Errorf("decoding legacy gallery: %w", err)
		}
		doc = GalleryDocument{Sections: []GallerySection{}}
		if len(items) > 0 {
			doc.Sections = append(doc.Sections, GallerySection{Name: LegacySectionName, Items: items})
		}
		return normaliseGallery(doc), true, nil

	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return GalleryDocument{Sections: []GallerySection{}}, false, fmt.Errorf("decoding gallery: %w", err)
		}
		if sections, ok := fields["sections"]; ok {
			if err := json.Unmarshal(sections, &doc.Sections); err != nil {
				return GalleryDocument{Sections: []GallerySection{}}, false, fmt.Errorf("decoding gallery sections: %w", err)
			}
			delete(fields, "sections")
		}
		if len(fields) > 0 {
			doc.Extra = fields
		}
		return normaliseGallery(doc), false, nil
	}

	return GalleryDocument{Sections: []GallerySection{}}, false, fmt.Errorf("decoding gallery: unexpected JSON value %q", truncate(string(raw), 32))
}

func normaliseGallery(doc GalleryDocument) GalleryDocument {
	if doc.Sections == nil {
		doc.Sections = []GallerySection{}
	}
	for i := range doc.Sections {
		if doc.Sections[i].Items == nil {
			doc.Sections[i].Items = []GalleryItem{}
		}
		for j := range doc.Sections[i].Items {
			if doc.Sections[i].Items[j].AdditionalImages == nil {
				doc.Sections[i].Items[j].AdditionalImages = []ImageRef{}
			}
		}
	}
	return doc
}

// DecodeProjects decodes a project list. Null decodes to an empty list.
func DecodeProjects(raw []byte) ([]Project, error) {
	var projects []Project
	if err := decodeOrEmpty(raw, &projects); err != nil {
		return []Project{}, fmt.Errorf("decoding projects: %w", err)
	}
	if projects == nil {
		projects = []Project{}
	}
	return projects, nil
}

// DecodeSkills decodes the skill list. Null decodes to an empty list.
func DecodeSkills(raw []byte) ([]string, error) {
	var skills []string
	if err := decodeOrEmpty(raw, &skills); err != nil {
		return []string{}, fmt.Errorf("decoding skills: %w", err)
	}
	if skills == nil {
		skills = []string{}
	}
	return skills, nil
}

// DecodeAbout decodes the about paragraphs.
func DecodeAbout(raw []byte) (About, error) {
	var about About
	if err := decodeOrEmpty(raw, &about); err != nil {
		return About{}, fmt.Errorf("decoding about: %w", err)
	}
	return about, nil
}

// DecodeContact decodes contact details.
func DecodeContact(raw []byte) (Contact, error) {
	var contact Contact
	if err := decodeOrEmpty(raw, &contact); err != nil {
		return Contact{}, fmt.Errorf("decoding contact: %w", err)
	}
	return contact, nil
}

// DecodeHero decodes the hero banner.
func DecodeHero(raw []byte) (Hero, error) {
	var hero Hero
	if err := decodeOrEmpty(raw, &hero); err != nil {
		return Hero{}, fmt.Errorf("decoding hero: %w", err)
	}
	return hero, nil
}

// DecodeImageRefs decodes a list of image references (the hero slideshow).
func DecodeImageRefs(raw []byte) ([]ImageRef, error) {
	var refs []ImageRef
	if err := decodeOrEmpty(raw, &refs); err != nil {
		return []ImageRef{}, fmt.Errorf("decoding images: %w", err)
	}
	if refs == nil {
		refs = []ImageRef{}
	}
	return refs, nil
}

func decodeOrEmpty(raw []byte, v any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	return json.Unmarshal(raw, v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
