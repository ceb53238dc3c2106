package gallery

import (
	"context"
	"fmt"
	"sync"

	"github.com/folio-web/folio/internal/portfolio"
	"github.com/folio-web/folio/internal/storage"
	"go.uber.org/zap"
)

// Model loads, mutates and persists the gallery record. Each mutation is a
// load-modify-save cycle under one mutex, so writers through the same Model
// never interleave.
type Model struct {
	records *storage.Records
	logger  *zap.Logger
	mu      sync.Mutex
}

// NewModel creates a Model over records.
func NewModel(records *storage.Records, logger *zap.Logger) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Model{records: records, logger: logger}
}

// Load returns the stored gallery. A legacy flat list is migrated and the
// migrated form persisted before returning; a missing or unreadable record
// yields an empty document.
func (m *Model) Load(ctx context.Context) (portfolio.GalleryDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(ctx)
}

func (m *Model) load(ctx context.Context) (portfolio.GalleryDocument, error) {
	empty := portfolio.GalleryDocument{Sections: []portfolio.GallerySection{}}

	raw, ok, err := m.records.GalleryRaw(ctx)
	if err != nil {
		return empty, fmt.Errorf("loading gallery: %w", err)
	}
	if !ok {
		return empty, nil
	}

	doc, migrated, err := portfolio.DecodeGallery([]byte(raw))
	if err != nil {
		m.logger.Warn("stored gallery does not parse, using empty gallery", zap.Error(err))
		return empty, nil
	}
	if migrated {
		m.logger.Info("migrated legacy gallery", zap.Int("sections", len(doc.Sections)))
		if err := m.records.SetGallery(ctx, doc); err != nil {
			return doc, fmt.Errorf("saving migrated gallery: %w", err)
		}
	}
	return doc, nil
}

// Save persists doc verbatim.
func (m *Model) Save(ctx context.Context, doc portfolio.GalleryDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records.SetGallery(ctx, doc)
}

// Update runs fn against the stored document and saves the result when fn
// succeeds.
func (m *Model) Update(ctx context.Context, fn func(doc *portfolio.GalleryDocument) error) (portfolio.GalleryDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.load(ctx)
	if err != nil {
		return doc, err
	}
	if err := fn(&doc); err != nil {
		return doc, err
	}
	if err := m.records.SetGallery(ctx, doc); err != nil {
		return doc, fmt.Errorf("saving gallery: %w", err)
	}
	return doc, nil
}

func (m *Model) AddSection(ctx context.Context, name string) (portfolio.GalleryDocument, error) {
	return m.Update(ctx, func(doc *portfolio.GalleryDocument) error {
		return AddSection(doc, name)
	})
}

func (m *Model) RenameSection(ctx context.Context, i int, name string) (portfolio.GalleryDocument, error) {
	return m.Update(ctx, func(doc *portfolio.GalleryDocument) error {
		return RenameSection(doc, i, name)
	})
}

func (m *Model) DeleteSection(ctx context.Context, i int, c Confirmer) (portfolio.GalleryDocument, error) {
	return m.Update(ctx, func(doc *portfolio.GalleryDocument) error {
		return DeleteSection(doc, i, c)
	})
}

// AddItem appends a new item to in.Section.
func (m *Model) AddItem(ctx context.Context, in ItemInput, c Confirmer) (ItemRef, error) {
	var ref ItemRef
	_, err := m.Update(ctx, func(doc *portfolio.GalleryDocument) error {
		var err error
		ref, err = SaveItem(doc, nil, in, c)
		return err
	})
	return ref, err
}

// UpdateItem replaces the item at at, moving it when in.Section differs.
func (m *Model) UpdateItem(ctx context.Context, at ItemRef, in ItemInput, c Confirmer) (ItemRef, error) {
	var ref ItemRef
	_, err := m.Update(ctx, func(doc *portfolio.GalleryDocument) error {
		var err error
		ref, err = SaveItem(doc, &at, in, c)
		return err
	})
	return ref, err
}

func (m *Model) DeleteItem(ctx context.Context, at ItemRef, c Confirmer) (portfolio.GalleryDocument, error) {
	return m.Update(ctx, func(doc *portfolio.GalleryDocument) error {
		return DeleteItem(doc, at, c)
	})
}

func (m *Model) MoveItem(ctx context.Context, from ItemRef, to, toIdx int) (ItemRef, error) {
	var ref ItemRef
	_, err := m.Update(ctx, func(doc *portfolio.GalleryDocument) error {
		var err error
		ref, err = MoveItem(doc, from, to, toIdx)
		return err
	})
	return ref, err
}
