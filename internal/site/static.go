package site

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/folio-web/folio/internal/snapshot"
	"github.com/folio-web/folio/internal/storage"
)

// WriteStatic renders the current page to dir/index.html and exports stored
// records to dir/data.json. The written page still opens its session socket
// when served next to a running folio server; on its own it degrades to
// static tiles without hover previews.
func (s *Site) WriteStatic(ctx context.Context, records *storage.Records, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	ds, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	var page bytes.Buffer
	if err := s.renderer.Render(&page, ds); err != nil {
		return nil, err
	}

	data, err := snapshot.Export(ctx, records)
	if err != nil {
		return nil, err
	}

	files := []struct {
		name string
		data []byte
	}{
		{"index.html", page.Bytes()},
		{"data.json", data},
	}
	var written []string
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := os.WriteFile(path, f.data, 0o644); err != nil {
			return written, fmt.Errorf("writing %s: %w", f.name, err)
		}
		s.logger.Debug("wrote static file", zap.String("path", path), zap.Int("bytes", len(f.data)))
		written = append(written, path)
	}
	return written, nil
}
