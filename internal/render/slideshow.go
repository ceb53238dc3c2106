package render

import (
	"strings"
	"time"

	"github.com/folio-web/folio/internal/portfolio"
)

// SlideInterval is the hero background rotation period. The rotation itself
// runs in the browser.
const SlideInterval = 2500 * time.Millisecond

// HeroSlides builds the hero background slideshow. Only GIFs are used. The
// dedicated slideshow images come first, followed by images from simulation
// and printing sections mixed four simulation images to one printing image.
func HeroSlides(dedicated []portfolio.ImageRef, doc portfolio.GalleryDocument) []string {
	slides := make([]string, 0, len(dedicated))
	for _, ref := range dedicated {
		if src := portfolio.RewriteBlobURL(ref.Source()); portfolio.IsGIF(src) {
			slides = append(slides, src)
		}
	}

	var sims, prints []string
	for _, s := range doc.Sections {
		kind := sectionKind(s.Name)
		if kind == otherSection {
			continue
		}
		for _, it := range s.Items {
			for _, src := range portfolio.ItemImages(it) {
				if !portfolio.IsGIF(src) {
					continue
				}
				if kind == simulationSection {
					sims = append(sims, src)
				} else {
					prints = append(prints, src)
				}
			}
		}
	}

	return append(slides, interleave(sims, prints)...)
}

type sectionClass int

const (
	otherSection sectionClass = iota
	simulationSection
	printingSection
)

func sectionKind(name string) sectionClass {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "simulation"), strings.Contains(n, "cad"):
		return simulationSection
	case strings.Contains(n, "3d"), strings.Contains(n, "print"):
		return printingSection
	}
	return otherSection
}

// interleave takes up to four of a then one of b per round. Once b runs out
// the rest of a follows. Once a runs out the loop ends, so printing images
// left over at that point are not shown.
func interleave(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		for k := 0; k < 4 && i < len(a); k++ {
			out = append(out, a[i])
			i++
		}
		if j < len(b) {
			out = append(out, b[j])
			j++
		}
		if j >= len(b) {
			out = append(out, a[i:]...)
			i = len(a)
		}
		if i >= len(a) {
			break
		}
	}
	return out
}
