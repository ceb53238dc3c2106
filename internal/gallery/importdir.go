package gallery

import (
	"context"
	"encoding/base64"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/folio-web/folio/internal/portfolio"
)

// DefaultImportPattern matches every image type the editor accepts.
const DefaultImportPattern = "**/*.{jpg,jpeg,png,gif,webp,svg}"

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
}

// Upload size limits: GIFs may be large animations, everything else is capped lower.
const (
	maxGIFBytes   = 60000 * 1024
	maxImageBytes = 5 * 1024 * 1024
)

// ReadImages globs fsys with pattern and turns each matching image file into
// a gallery item whose main image is an inline data URI, titled after the
// file name. Files of an unsupported type or over the size limit are skipped
// with a warning; payloads above LargePayloadBytes are kept but warned about.
func ReadImages(fsys fs.FS, pattern string) ([]portfolio.GalleryItem, []string, error) {
	if pattern == "" {
		pattern = DefaultImportPattern
	}
	matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly(), doublestar.WithCaseInsensitive())
	if err != nil {
		return nil, nil, fmt.Errorf("matching %q: %w", pattern, err)
	}
	sort.Strings(matches)

	var (
		items    []portfolio.GalleryItem
		warnings []string
	)
	for _, name := range matches {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, warnings, fmt.Errorf("reading %s: %w", name, err)
		}
		uri, err := encodeImage(name, data)
		if err != nil {
			warnings = append(warnings, err.Error())
			continue
		}
		if len(uri) > LargePayloadBytes {
			warnings = append(warnings, fmt.Sprintf("%s: large inline image (%.2f MB), consider hosting it and using a URL", name, float64(len(uri))/(1024*1024)))
		}

		items = append(items, portfolio.GalleryItem{
			Title:            strings.TrimSuffix(path.Base(name), path.Ext(name)),
			ImageBase64:      uri,
			AdditionalImages: []portfolio.ImageRef{},
		})
	}
	return items, warnings, nil
}

// encodeImage turns an image file into a data URI, rejecting unsupported
// types and files over the size limit.
func encodeImage(name string, data []byte) (string, error) {
	ext := strings.ToLower(path.Ext(name))
	mime, ok := imageTypes[ext]
	if !ok {
		return "", fmt.Errorf("%s: not an image file", name)
	}
	limit := maxImageBytes
	if ext == ".gif" {
		limit = maxGIFBytes
	}
	if len(data) > limit {
		return "", fmt.Errorf("%s: file is too large (%.2f MB)", name, float64(len(data))/(1024*1024))
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// ReadDataURI reads one local image file as an inline data URI.
func ReadDataURI(file string) (string, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", file, err)
	}
	return encodeImage(filepath.Base(file), data)
}

// ImportDir appends every image under root matching pattern to section i.
// It returns the number of items added and any per-file warnings.
func (m *Model) ImportDir(ctx context.Context, i int, root, pattern string) (int, []string, error) {
	items, warnings, err := ReadImages(os.DirFS(root), pattern)
	if err != nil {
		return 0, warnings, err
	}
	if len(items) == 0 {
		return 0, warnings, nil
	}

	_, err = m.Update(ctx, func(doc *portfolio.GalleryDocument) error {
		s, err := section(doc, i)
		if err != nil {
			return err
		}
		s.Items = append(s.Items, items...)
		return nil
	})
	if err != nil {
		return 0, warnings, err
	}
	return len(items), warnings, nil
}
