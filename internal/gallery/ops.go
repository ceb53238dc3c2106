// Package gallery owns the sectioned gallery document and every mutation
// the admin editor performs on it.
package gallery

import (
	"errors"
	"fmt"
	"strings"

	"github.com/folio-web/folio/internal/portfolio"
)

var (
	ErrSectionNotFound = errors.New("gallery: section not found")
	ErrItemNotFound    = errors.New("gallery: item not found")
	ErrEmptyName       = errors.New("gallery: section name is required")
	ErrNoImage         = errors.New("gallery: an image URL or upload is required")
	ErrCancelled       = errors.New("gallery: cancelled")
)

// LargePayloadBytes is the inline image size above which saving asks for
// confirmation first.
const LargePayloadBytes = 3 * 1024 * 1024

// Confirmer asks the operator a yes/no question before a destructive or
// risky change.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Always confirms everything. Used when the caller has already obtained
// consent (e.g. ?confirm=true on the API).
var Always Confirmer = ConfirmFunc(func(string) bool { return true })

// DeleteSectionPrompt is the confirmation text for deleting a section that
// holds n items.
func DeleteSectionPrompt(n int) string {
	if n > 0 {
		return fmt.Sprintf("This section contains %d image(s). Are you sure you want to delete it? All images in this section will be deleted.", n)
	}
	return "Are you sure you want to delete this section?"
}

// DeleteItemPrompt is the confirmation text for deleting a gallery item.
const DeleteItemPrompt = "Are you sure you want to delete this gallery image?"

// LargePayloadPrompt is the warning shown before saving a big inline image.
func LargePayloadPrompt(size int) string {
	return fmt.Sprintf("Warning: This file is large (%.2f MB). Large files may not save properly in browser storage. Consider using an image URL instead. Do you want to continue?",
		float64(size)/(1024*1024))
}

func section(doc *portfolio.GalleryDocument, i int) (*portfolio.GallerySection, error) {
	if i < 0 || i >= len(doc.Sections) {
		return nil, fmt.Errorf("%w: %d", ErrSectionNotFound, i)
	}
	return &doc.Sections[i], nil
}

// AddSection appends an empty section named name.
func AddSection(doc *portfolio.GalleryDocument, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	doc.Sections = append(doc.Sections, portfolio.GallerySection{Name: name, Items: []portfolio.GalleryItem{}})
	return nil
}

// RenameSection sets the name of section i.
func RenameSection(doc *portfolio.GalleryDocument, i int, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	s, err := section(doc, i)
	if err != nil {
		return err
	}
	s.Name = name
	return nil
}

// DeleteSection removes section i and every item in it once c confirms.
func DeleteSection(doc *portfolio.GalleryDocument, i int, c Confirmer) error {
	s, err := section(doc, i)
	if err != nil {
		return err
	}
	if !c.Confirm(DeleteSectionPrompt(len(s.Items))) {
		return ErrCancelled
	}
	doc.Sections = append(doc.Sections[:i], doc.Sections[i+1:]...)
	return nil
}

// ItemInput is the editor form for a gallery item.
type ItemInput struct {
	Section          int                  `json:"section"`
	Title            string               `json:"title"`
	Description      string               `json:"description"`
	ImageURL         string               `json:"imageUrl"`
	ImageBase64      string               `json:"imageBase64"`
	AdditionalImages []portfolio.ImageRef `json:"additionalImages"`
}

// ItemRef addresses an existing item.
type ItemRef struct {
	Section int `json:"section"`
	Index   int `json:"index"`
}

func item(doc *portfolio.GalleryDocument, ref ItemRef) (*portfolio.GalleryItem, error) {
	s, err := section(doc, ref.Section)
	if err != nil {
		return nil, err
	}
	if ref.Index < 0 || ref.Index >= len(s.Items) {
		return nil, fmt.Errorf("%w: %d/%d", ErrItemNotFound, ref.Section, ref.Index)
	}
	return &s.Items[ref.Index], nil
}

// SaveItem adds a new item (editing == nil) or replaces an existing one.
//
// Additional images with neither URL nor base64 are dropped. A new item must
// carry an image. An edit that supplies no image keeps the stored one, and
// a URL without a fresh upload clears any stored base64. When the target
// section differs from the edited item's section the item is moved to the
// end of the target.
func SaveItem(doc *portfolio.GalleryDocument, editing *ItemRef, in ItemInput, c Confirmer) (ItemRef, error) {
	target, err := section(doc, in.Section)
	if err != nil {
		return ItemRef{}, err
	}

	url := strings.TrimSpace(in.ImageURL)
	var existing *portfolio.GalleryItem
	if editing != nil {
		if existing, err = item(doc, *editing); err != nil {
			return ItemRef{}, err
		}
	}

	if in.ImageBase64 == "" && url == "" {
		if existing == nil || (existing.ImageURL == "" && existing.ImageBase64 == "") {
			return ItemRef{}, ErrNoImage
		}
	}
	if n := len(in.ImageBase64); n > LargePayloadBytes {
		if !c.Confirm(LargePayloadPrompt(n)) {
			return ItemRef{}, ErrCancelled
		}
	}

	it := portfolio.GalleryItem{
		Title:            strings.TrimSpace(in.Title),
		Description:      strings.TrimSpace(in.Description),
		AdditionalImages: filterImages(in.AdditionalImages),
	}
	switch {
	case in.ImageBase64 != "":
		it.SetBase64(in.ImageBase64)
	case url != "":
		it.SetURL(url)
	default:
		it.ImageURL, it.ImageBase64 = existing.ImageURL, existing.ImageBase64
	}

	if editing == nil {
		target.Items = append(target.Items, it)
		return ItemRef{Section: in.Section, Index: len(target.Items) - 1}, nil
	}
	if editing.Section == in.Section {
		*existing = it
		return *editing, nil
	}
	from := &doc.Sections[editing.Section]
	from.Items = append(from.Items[:editing.Index], from.Items[editing.Index+1:]...)
	target.Items = append(target.Items, it)
	return ItemRef{Section: in.Section, Index: len(target.Items) - 1}, nil
}

func filterImages(in []portfolio.ImageRef) []portfolio.ImageRef {
	out := make([]portfolio.ImageRef, 0, len(in))
	for _, img := range in {
		if img.IsEmpty() {
			continue
		}
		out = append(out, img)
	}
	return out
}

// DeleteItem removes one item once c confirms.
func DeleteItem(doc *portfolio.GalleryDocument, ref ItemRef, c Confirmer) error {
	if _, err := item(doc, ref); err != nil {
		return err
	}
	if !c.Confirm(DeleteItemPrompt) {
		return ErrCancelled
	}
	s := &doc.Sections[ref.Section]
	s.Items = append(s.Items[:ref.Index], s.Items[ref.Index+1:]...)
	return nil
}

// MoveItem moves an item to position toIdx of section to. Within one section
// the item is removed first and toIdx is shifted down when it lay after the
// original position. Across sections toIdx is clamped to the target's
// length. Negative indexes clamp to 0.
func MoveItem(doc *portfolio.GalleryDocument, from ItemRef, to, toIdx int) (ItemRef, error) {
	if _, err := item(doc, from); err != nil {
		return ItemRef{}, err
	}
	dst, err := section(doc, to)
	if err != nil {
		return ItemRef{}, err
	}
	if toIdx < 0 {
		toIdx = 0
	}

	src := &doc.Sections[from.Section]
	if from.Section == to {
		if toIdx == from.Index {
			return from, nil
		}
		moved := src.Items[from.Index]
		src.Items = append(src.Items[:from.Index], src.Items[from.Index+1:]...)
		if toIdx > from.Index {
			toIdx--
		}
		toIdx = min(toIdx, len(src.Items))
		src.Items = insert(src.Items, toIdx, moved)
		return ItemRef{Section: to, Index: toIdx}, nil
	}

	moved := src.Items[from.Index]
	src.Items = append(src.Items[:from.Index], src.Items[from.Index+1:]...)
	toIdx = min(toIdx, len(dst.Items))
	dst.Items = insert(dst.Items, toIdx, moved)
	return ItemRef{Section: to, Index: toIdx}, nil
}

func insert(items []portfolio.GalleryItem, i int, it portfolio.GalleryItem) []portfolio.GalleryItem {
	items = append(items, portfolio.GalleryItem{})
	copy(items[i+1:], items[i:])
	items[i] = it
	return items
}
