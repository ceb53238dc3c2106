package gallery

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/folio-web/folio/internal/portfolio"
	"github.com/folio-web/folio/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func titles(items []portfolio.GalleryItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

func docWith(sections map[string][]string, order ...string) portfolio.GalleryDocument {
	doc := portfolio.GalleryDocument{Sections: []portfolio.GallerySection{}}
	for _, name := range order {
		s := portfolio.GallerySection{Name: name, Items: []portfolio.GalleryItem{}}
		for _, title := range sections[name] {
			s.Items = append(s.Items, portfolio.GalleryItem{Title: title, ImageURL: title + ".png"})
		}
		doc.Sections = append(doc.Sections, s)
	}
	return doc
}

type recordingConfirmer struct {
	answer  bool
	prompts []string
}

func (r *recordingConfirmer) Confirm(prompt string) bool {
	r.prompts = append(r.prompts, prompt)
	return r.answer
}

func TestAddAndRenameSection(t *testing.T) {
	doc := portfolio.GalleryDocument{Sections: []portfolio.GallerySection{}}

	assert.ErrorIs(t, AddSection(&doc, "  "), ErrEmptyName)
	require.NoError(t, AddSection(&doc, " CAD "))
	require.Len(t, doc.Sections, 1)
	assert.Equal(t, "CAD", doc.Sections[0].Name)
	assert.NotNil(t, doc.Sections[0].Items)

	require.NoError(t, RenameSection(&doc, 0, "Simulation & CAD"))
	assert.Equal(t, "Simulation & CAD", doc.Sections[0].Name)
	assert.ErrorIs(t, RenameSection(&doc, 0, ""), ErrEmptyName)
	assert.ErrorIs(t, RenameSection(&doc, 3, "x"), ErrSectionNotFound)
}

func TestDeleteSectionPrompts(t *testing.T) {
	doc := docWith(map[string][]string{"A": {"a1", "a2"}, "B": nil}, "A", "B")

	c := &recordingConfirmer{answer: false}
	assert.ErrorIs(t, DeleteSection(&doc, 0, c), ErrCancelled)
	assert.Len(t, doc.Sections, 2, "declined confirmation must not mutate")
	assert.Equal(t, []string{
		"This section contains 2 image(s). Are you sure you want to delete it? All images in this section will be deleted.",
	}, c.prompts)

	c = &recordingConfirmer{answer: true}
	require.NoError(t, DeleteSection(&doc, 1, c))
	assert.Equal(t, []string{"Are you sure you want to delete this section?"}, c.prompts)
	require.Len(t, doc.Sections, 1)
	assert.Equal(t, "A", doc.Sections[0].Name)
}

func TestDeleteItem(t *testing.T) {
	doc := docWith(map[string][]string{"A": {"a1", "a2", "a3"}}, "A")

	c := &recordingConfirmer{answer: false}
	assert.ErrorIs(t, DeleteItem(&doc, ItemRef{0, 1}, c), ErrCancelled)
	assert.Equal(t, []string{DeleteItemPrompt}, c.prompts)

	require.NoError(t, DeleteItem(&doc, ItemRef{0, 1}, Always))
	assert.Equal(t, []string{"a1", "a3"}, titles(doc.Sections[0].Items))
	assert.ErrorIs(t, DeleteItem(&doc, ItemRef{0, 5}, Always), ErrItemNotFound)
}

func TestSaveItemNewRequiresImage(t *testing.T) {
	doc := docWith(map[string][]string{"A": nil}, "A")

	_, err := SaveItem(&doc, nil, ItemInput{Section: 0, Title: "x"}, Always)
	assert.ErrorIs(t, err, ErrNoImage)

	_, err = SaveItem(&doc, nil, ItemInput{Section: 4, ImageURL: "x.png"}, Always)
	assert.ErrorIs(t, err, ErrSectionNotFound)
}

func TestSaveItemFiltersAdditionalImages(t *testing.T) {
	doc := docWith(map[string][]string{"A": nil}, "A")

	ref, err := SaveItem(&doc, nil, ItemInput{
		Section:  0,
		Title:    "multi",
		ImageURL: "main.png",
		AdditionalImages: []portfolio.ImageRef{
			{},
			{ImageURL: "  "},
			{ImageURL: "b.png"},
			{ImageBase64: "data:image/png;base64,AA"},
			{ImageURL: "", ImageBase64: " "},
		},
	}, Always)
	require.NoError(t, err)

	it := doc.Sections[ref.Section].Items[ref.Index]
	assert.Equal(t, []portfolio.ImageRef{
		{ImageURL: "b.png"},
		{ImageBase64: "data:image/png;base64,AA"},
	}, it.AdditionalImages)
}

func TestSaveItemEditPreservesImage(t *testing.T) {
	doc := docWith(map[string][]string{"A": nil}, "A")
	doc.Sections[0].Items = append(doc.Sections[0].Items, portfolio.GalleryItem{
		Title:       "old",
		ImageBase64: "data:image/gif;base64,R0lG",
	})

	ref, err := SaveItem(&doc, &ItemRef{0, 0}, ItemInput{Section: 0, Title: "new title"}, Always)
	require.NoError(t, err)

	it := doc.Sections[ref.Section].Items[ref.Index]
	assert.Equal(t, "new title", it.Title)
	assert.Equal(t, "data:image/gif;base64,R0lG", it.ImageBase64)
}

func TestSaveItemURLClearsStoredBase64(t *testing.T) {
	doc := docWith(map[string][]string{"A": nil}, "A")
	doc.Sections[0].Items = append(doc.Sections[0].Items, portfolio.GalleryItem{ImageBase64: "data:image/png;base64,AA"})

	_, err := SaveItem(&doc, &ItemRef{0, 0}, ItemInput{Section: 0, ImageURL: "https://x/y.png"}, Always)
	require.NoError(t, err)

	it := doc.Sections[0].Items[0]
	assert.Equal(t, "https://x/y.png", it.ImageURL)
	assert.Empty(t, it.ImageBase64)
}

func TestSaveItemUploadClearsURL(t *testing.T) {
	doc := docWith(map[string][]string{"A": {"a"}}, "A")

	_, err := SaveItem(&doc, &ItemRef{0, 0}, ItemInput{Section: 0, ImageBase64: "data:image/png;base64,BB"}, Always)
	require.NoError(t, err)
	assert.Empty(t, doc.Sections[0].Items[0].ImageURL)
}

func TestSaveItemMovesBetweenSections(t *testing.T) {
	doc := docWith(map[string][]string{"A": {"a1", "a2"}, "B": {"b1"}}, "A", "B")

	ref, err := SaveItem(&doc, &ItemRef{0, 0}, ItemInput{Section: 1, Title: "a1", ImageURL: "a1.png"}, Always)
	require.NoError(t, err)
	assert.Equal(t, ItemRef{Section: 1, Index: 1}, ref)
	assert.Equal(t, []string{"a2"}, titles(doc.Sections[0].Items))
	assert.Equal(t, []string{"b1", "a1"}, titles(doc.Sections[1].Items))
}

func TestSaveItemLargePayloadNeedsConfirmation(t *testing.T) {
	doc := docWith(map[string][]string{"A": nil}, "A")
	big := "data:image/gif;base64," + strings.Repeat("A", LargePayloadBytes)

	c := &recordingConfirmer{answer: false}
	_, err := SaveItem(&doc, nil, ItemInput{Section: 0, ImageBase64: big}, c)
	assert.ErrorIs(t, err, ErrCancelled)
	require.Len(t, c.prompts, 1)
	assert.Contains(t, c.prompts[0], "This file is large")
	assert.Empty(t, doc.Sections[0].Items)
}

func TestMoveItemWithinSection(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     []string
	}{
		{"forward", 0, 2, []string{"b", "a", "c", "d"}},
		{"backward", 3, 1, []string{"a", "d", "b", "c"}},
		{"to end", 0, 4, []string{"b", "c", "d", "a"}},
		{"past end clamps", 1, 99, []string{"a", "c", "d", "b"}},
		{"same position", 2, 2, []string{"a", "b", "c", "d"}},
		{"negative clamps to front", 2, -3, []string{"c", "a", "b", "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := docWith(map[string][]string{"S": {"a", "b", "c", "d"}}, "S")
			_, err := MoveItem(&doc, ItemRef{0, tt.from}, 0, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(doc.Sections[0].Items))
		})
	}
}

func TestMoveItemAcrossSectionsClamps(t *testing.T) {
	doc := docWith(map[string][]string{"A": {"a1", "a2"}, "B": {"b1", "b2"}}, "A", "B")

	ref, err := MoveItem(&doc, ItemRef{0, 0}, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, ItemRef{Section: 1, Index: 2}, ref)
	assert.Equal(t, []string{"a2"}, titles(doc.Sections[0].Items))
	assert.Equal(t, []string{"b1", "b2", "a1"}, titles(doc.Sections[1].Items))

	_, err = MoveItem(&doc, ItemRef{1, 0}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"b1", "a2"}, titles(doc.Sections[0].Items))

	_, err = MoveItem(&doc, ItemRef{0, 0}, 7, 0)
	assert.ErrorIs(t, err, ErrSectionNotFound)
	_, err = MoveItem(&doc, ItemRef{0, 9}, 1, 0)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestModelLoadMigratesOnce(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, storage.KeyGallery, `[{"title":"a","imageUrl":"a.png"},{"title":"b","imageUrl":"b.png"}]`))

	m := NewModel(storage.NewRecords(kv, zap.NewNop()), zap.NewNop())
	doc, err := m.Load(ctx)
	require.NoError(t, err)
	require.Len(t, doc.Sections, 1)
	assert.Equal(t, "Default", doc.Sections[0].Name)
	assert.Equal(t, []string{"a", "b"}, titles(doc.Sections[0].Items))

	raw, err := kv.Get(ctx, storage.KeyGallery)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(raw, `{`), "migrated form must be persisted, got %s", raw)

	again, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, doc, again)
}

func TestModelLoadEmptyLegacyAndCorrupt(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	m := NewModel(storage.NewRecords(kv, nil), nil)

	doc, err := m.Load(ctx)
	require.NoError(t, err)
	assert.NotNil(t, doc.Sections)

	require.NoError(t, kv.Set(ctx, storage.KeyGallery, `[]`))
	_, err = m.Load(ctx)
	require.NoError(t, err)
	raw, _ := kv.Get(ctx, storage.KeyGallery)
	assert.JSONEq(t, `{"sections":[]}`, raw)

	require.NoError(t, kv.Set(ctx, storage.KeyGallery, `{broken`))
	doc, err = m.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, doc.Sections)
}

func TestModelMutationsPersist(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	m := NewModel(storage.NewRecords(kv, nil), nil)

	_, err := m.AddSection(ctx, "CAD")
	require.NoError(t, err)
	_, err = m.AddSection(ctx, "3D Printing")
	require.NoError(t, err)

	ref, err := m.AddItem(ctx, ItemInput{Section: 0, Title: "gear", ImageURL: "gear.gif"}, Always)
	require.NoError(t, err)
	assert.Equal(t, ItemRef{0, 0}, ref)

	ref, err = m.MoveItem(ctx, ref, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, ItemRef{1, 0}, ref)

	_, err = m.DeleteSection(ctx, 1, ConfirmFunc(func(string) bool { return false }))
	assert.ErrorIs(t, err, ErrCancelled)

	doc, err := m.Load(ctx)
	require.NoError(t, err)
	require.Len(t, doc.Sections, 2)
	assert.Empty(t, doc.Sections[0].Items)
	assert.Equal(t, []string{"gear"}, titles(doc.Sections[1].Items))
}

func TestReadImages(t *testing.T) {
	fsys := fstest.MapFS{
		"cad/gear.gif":      {Data: []byte("GIF89a")},
		"cad/notes.txt":     {Data: []byte("hello")},
		"print/Benchy.PNG":  {Data: []byte{0x89, 'P', 'N', 'G'}},
		"print/huge.jpg":    {Data: make([]byte, maxImageBytes+1)},
	}

	items, warnings, err := ReadImages(fsys, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"gear", "Benchy"}, titles(items))
	assert.True(t, strings.HasPrefix(items[0].ImageBase64, "data:image/gif;base64,"))
	assert.True(t, strings.HasPrefix(items[1].ImageBase64, "data:image/png;base64,"))
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "huge.jpg")
}

func TestModelImportDir(t *testing.T) {
	ctx := context.Background()
	m := NewModel(storage.NewRecords(storage.NewMemoryKV(), nil), nil)
	_, err := m.AddSection(ctx, "Imported")
	require.NoError(t, err)

	dir := t.TempDir()
	n, _, err := m.ImportDir(ctx, 0, dir, "")
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "spin.gif"), []byte("GIF89a"), 0o644))

	_, _, err = m.ImportDir(ctx, 3, dir, "*.gif")
	assert.ErrorIs(t, err, ErrSectionNotFound)

	n, warnings, err := m.ImportDir(ctx, 0, dir, "*.gif")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Empty(t, warnings)

	doc, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"spin"}, titles(doc.Sections[0].Items))
}
