package storage

import (
	"context"
	"testing"

	"github.com/folio-web/folio/internal/db"
	"github.com/folio-web/folio/internal/portfolio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func backends(t *testing.T) map[string]KV {
	t.Helper()

	database, err := db.OpenMemory()
	require.NoError(t, err)
	sqliteKV := NewSQLiteKV(database)

	badgerKV, err := OpenBadger("")
	require.NoError(t, err)

	kvs := map[string]KV{
		"sqlite": sqliteKV,
		"badger": badgerKV,
		"memory": NewMemoryKV(),
	}
	t.Cleanup(func() {
		for _, kv := range kvs {
			kv.Close()
		}
	})
	return kvs
}

func TestKVContract(t *testing.T) {
	ctx := context.Background()
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := kv.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, kv.Set(ctx, "b", `[1]`))
			require.NoError(t, kv.Set(ctx, "a", `{}`))
			require.NoError(t, kv.Set(ctx, "b", `[2]`))

			v, err := kv.Get(ctx, "b")
			require.NoError(t, err)
			assert.Equal(t, `[2]`, v)

			keys, err := kv.Keys(ctx)
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"a", "b"}, keys)

			require.NoError(t, kv.Delete(ctx, "a"))
			_, err = kv.Get(ctx, "a")
			assert.ErrorIs(t, err, ErrNotFound)

			// Deleting a missing key is not an error.
			assert.NoError(t, kv.Delete(ctx, "a"))
		})
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("redis", t.TempDir())
	assert.Error(t, err)
}

func TestOpenSQLiteFile(t *testing.T) {
	dir := t.TempDir()
	kv, err := Open(DriverSQLite, dir)
	require.NoError(t, err)
	require.NoError(t, kv.Set(context.Background(), KeySkills, `["Go"]`))
	require.NoError(t, kv.Close())

	kv, err = Open(DriverSQLite, dir)
	require.NoError(t, err)
	defer kv.Close()
	v, err := kv.Get(context.Background(), KeySkills)
	require.NoError(t, err)
	assert.Equal(t, `["Go"]`, v)
}

func TestRecordsDefaults(t *testing.T) {
	ctx := context.Background()
	r := NewRecords(NewMemoryKV(), zap.NewNop())

	projects, ok, err := r.Projects(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []portfolio.Project{}, projects)

	gallery, ok, err := r.Gallery(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NotNil(t, gallery.Sections)

	about, ok, err := r.About(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, about.IsZero())

	skills, _, err := r.Skills(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{}, skills)

	contact, _, err := r.Contact(ctx)
	require.NoError(t, err)
	assert.True(t, contact.IsZero())

	hero, _, err := r.Hero(ctx)
	require.NoError(t, err)
	assert.True(t, hero.IsZero())

	slides, _, err := r.HeroSlideshow(ctx)
	require.NoError(t, err)
	assert.Equal(t, []portfolio.ImageRef{}, slides)
}

func TestRecordsParseFailureIsAbsent(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, KeyAbout, `{"text1":`))
	require.NoError(t, kv.Set(ctx, KeyGallery, `not json`))

	r := NewRecords(kv, nil)

	about, ok, err := r.About(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, about.IsZero())

	gallery, ok, err := r.Gallery(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, gallery.Sections)
}

func TestRecordsRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	r := NewRecords(kv, zap.NewNop())

	require.NoError(t, r.SetAbout(ctx, portfolio.About{}))
	raw, ok, err := r.Raw(ctx, KeyAbout)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"text1":"","text2":""}`, raw)

	require.NoError(t, r.SetContact(ctx, portfolio.Contact{}))
	raw, _, _ = r.Raw(ctx, KeyContact)
	assert.Equal(t, `{}`, raw)

	require.NoError(t, r.SetSkills(ctx, nil))
	raw, _, _ = r.Raw(ctx, KeySkills)
	assert.Equal(t, `[]`, raw)

	require.NoError(t, r.SetGallery(ctx, portfolio.GalleryDocument{Sections: []portfolio.GallerySection{}}))
	raw, _, _ = r.GalleryRaw(ctx)
	assert.Equal(t, `{"sections":[]}`, raw)

	hero := portfolio.Hero{Name: "Ada", Subtitle: "Engineer"}
	require.NoError(t, r.SetHero(ctx, hero))
	got, ok, err := r.Hero(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, hero, got)
}

func TestRecordsLegacyGallery(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, KeyGallery, `[{"title":"old","imageUrl":"a.png"}]`))

	doc, ok, err := NewRecords(kv, nil).Gallery(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, doc.Sections, 1)
	assert.Equal(t, "Default", doc.Sections[0].Name)
}
