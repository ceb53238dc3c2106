package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/folio-web/folio/internal/portfolio"
	"github.com/folio-web/folio/internal/storage"
)

// Build assembles a dataset from storage alone, every field at its default
// when unset.
func Build(ctx context.Context, records *storage.Records) (*portfolio.SiteDataset, error) {
	res := &Result{Dataset: portfolio.EmptyDataset(), Decisions: map[string]Decision{}}
	r := &Reconciler{records: records}
	if err := r.storageOnly(ctx, res); err != nil {
		return nil, err
	}
	return res.Dataset, nil
}

// Export renders stored records as a data.json document, indented by two
// spaces. The hero slideshow is included only when it has images.
func Export(ctx context.Context, records *storage.Records) ([]byte, error) {
	ds, err := Build(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("exporting: %w", err)
	}
	if len(ds.HeroSlideshow) == 0 {
		ds.HeroSlideshow = nil
	}
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding export: %w", err)
	}
	return append(data, '\n'), nil
}

// Import writes every top-level key present in a data.json document to
// storage and returns the keys written. Keys that are absent or null are
// left untouched. The document is validated completely before anything is
// written.
func Import(ctx context.Context, records *storage.Records, data []byte) ([]string, error) {
	snap, err := Parse(data)
	if err != nil {
		return nil, err
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	set := func(field string) bool {
		raw, ok := top[field]
		return ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
	}

	writes := []struct {
		field string
		write func() error
	}{
		{FieldProjects, func() error { return records.SetProjects(ctx, snap.Projects) }},
		{FieldGallery, func() error { return records.SetGallery(ctx, snap.Gallery) }},
		{FieldAbout, func() error { return records.SetAbout(ctx, snap.About) }},
		{FieldSkills, func() error { return records.SetSkills(ctx, snap.Skills) }},
		{FieldContact, func() error { return records.SetContact(ctx, snap.Contact) }},
		{FieldHero, func() error { return records.SetHero(ctx, snap.Hero) }},
		{FieldHeroSlideshow, func() error { return records.SetHeroSlideshow(ctx, snap.HeroSlideshow) }},
	}

	var imported []string
	for _, w := range writes {
		if !set(w.field) {
			continue
		}
		if err := w.write(); err != nil {
			return imported, fmt.Errorf("importing %s: %w", w.field, err)
		}
		imported = append(imported, w.field)
	}
	return imported, nil
}
