// Package lightbox implements the gallery overlay: one image at a time, paging
// through the current item's images and then on to neighbouring items.
package lightbox

import "github.com/folio-web/folio/internal/portfolio"

// SwipeThreshold is the minimum horizontal travel, in pixels, of a swipe or
// drag before it counts as navigation.
const SwipeThreshold = 50

// Key names understood by HandleKey.
const (
	KeyEscape     = "Escape"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
)

// State is a snapshot of the overlay.
type State struct {
	Open        bool     `json:"open"`
	Images      []string `json:"images,omitempty"`
	ImageIndex  int      `json:"index"`
	ItemIndex   int      `json:"item"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Src         string   `json:"src,omitempty"`
	Count       int      `json:"count"`
	Dots        []bool   `json:"dots,omitempty"`
	// ScrollLocked mirrors whether the page behind the overlay may scroll.
	ScrollLocked bool `json:"scroll_locked"`
}

// Navigator is the overlay state machine. It is not safe for concurrent use;
// callers serialise input events.
type Navigator struct {
	open       bool
	items      []portfolio.GalleryItem
	itemIndex  int
	images     []string
	imageIndex int
}

// New returns a closed Navigator.
func New() *Navigator {
	return &Navigator{}
}

// Open shows items[index] starting at its first image. Opening an item that
// has no displayable image leaves the overlay closed and returns false.
func (n *Navigator) Open(items []portfolio.GalleryItem, index int) bool {
	if index < 0 || index >= len(items) {
		return false
	}
	images := portfolio.ItemImages(items[index])
	if len(images) == 0 {
		return false
	}
	n.items = items
	n.itemIndex = index
	n.images = images
	n.imageIndex = 0
	n.open = true
	return true
}

// IsOpen reports whether the overlay is showing.
func (n *Navigator) IsOpen() bool { return n.open }

// Next moves one image forward, continuing to the next item with images
// once the current item's images are exhausted.
func (n *Navigator) Next() { n.step(1) }

// Previous moves one image back, continuing to the previous item with images
// (on its last image) before the first image.
func (n *Navigator) Previous() { n.step(-1) }

func (n *Navigator) step(dir int) {
	if !n.open {
		return
	}
	i := n.imageIndex + dir
	if i >= 0 && i < len(n.images) {
		n.imageIndex = i
		return
	}
	n.toItem(dir)
}

// toItem moves to the nearest item in direction dir that has at least one
// image, wrapping around the list. The search makes at most one pass over
// the items, so a gallery without any images cannot loop forever. With a
// single item there is nowhere to go.
func (n *Navigator) toItem(dir int) {
	count := len(n.items)
	if count <= 1 {
		return
	}
	idx := n.itemIndex
	for attempts := 0; attempts < count; attempts++ {
		idx = ((idx+dir)%count + count) % count
		images := portfolio.ItemImages(n.items[idx])
		if len(images) == 0 {
			continue
		}
		n.itemIndex = idx
		n.images = images
		if dir > 0 {
			n.imageIndex = 0
		} else {
			n.imageIndex = len(images) - 1
		}
		return
	}
}

// JumpTo shows image i of the current item. Out-of-range indexes are ignored.
func (n *Navigator) JumpTo(i int) {
	if !n.open || i < 0 || i >= len(n.images) {
		return
	}
	n.imageIndex = i
}

// Dots returns one entry per image of the current item, true for the one on
// screen. Items with a single image have no dots.
func (n *Navigator) Dots() []bool {
	if !n.open || len(n.images) <= 1 {
		return nil
	}
	dots := make([]bool, len(n.images))
	dots[n.imageIndex] = true
	return dots
}

// Close hides the overlay and drops all transient state.
func (n *Navigator) Close() {
	*n = Navigator{}
}

// State returns the current overlay state.
func (n *Navigator) State() State {
	if !n.open {
		return State{}
	}
	it := n.items[n.itemIndex]
	return State{
		Open:         true,
		Images:       append([]string(nil), n.images...),
		ImageIndex:   n.imageIndex,
		ItemIndex:    n.itemIndex,
		Title:        it.Title,
		Description:  it.Description,
		Src:          n.images[n.imageIndex],
		Count:        len(n.images),
		Dots:         n.Dots(),
		ScrollLocked: true,
	}
}
