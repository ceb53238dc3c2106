package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/folio-web/folio/internal/portfolio"
	"github.com/folio-web/folio/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticSource struct {
	snap *Snapshot
	err  error
}

func (s staticSource) Fetch(context.Context) (*Snapshot, error) { return s.snap, s.err }

func mustParse(t *testing.T, doc string) *Snapshot {
	t.Helper()
	snap, err := Parse([]byte(doc))
	require.NoError(t, err)
	return snap
}

func newRecords(t *testing.T, seed map[string]string) (*storage.Records, *storage.MemoryKV) {
	t.Helper()
	kv := storage.NewMemoryKV()
	for k, v := range seed {
		require.NoError(t, kv.Set(context.Background(), k, v))
	}
	return storage.NewRecords(kv, zap.NewNop()), kv
}

func load(t *testing.T, src Source, records *storage.Records) *Result {
	t.Helper()
	res, err := NewReconciler(src, records, zap.NewNop()).Load(context.Background())
	require.NoError(t, err)
	return res
}

func TestProjectsPreferSnapshot(t *testing.T) {
	records, _ := newRecords(t, map[string]string{
		storage.KeyProjects: `[{"name":"Local","description":"edited"}]`,
	})
	snap := mustParse(t, `{"projects":[{"name":"Published","description":"p"}]}`)

	res := load(t, staticSource{snap: snap}, records)
	require.Len(t, res.Dataset.Projects, 1)
	assert.Equal(t, "Published", res.Dataset.Projects[0].Name)
	assert.Equal(t, FromSnapshot, res.Decisions[FieldProjects])
}

func TestProjectsFallBackToStorageWhenSnapshotEmpty(t *testing.T) {
	records, _ := newRecords(t, map[string]string{
		storage.KeyProjects: `[{"name":"Local","description":"edited"}]`,
	})
	snap := mustParse(t, `{"projects":[]}`)

	res := load(t, staticSource{snap: snap}, records)
	require.Len(t, res.Dataset.Projects, 1)
	assert.Equal(t, "Local", res.Dataset.Projects[0].Name)
	assert.Equal(t, FromStorage, res.Decisions[FieldProjects])
}

func TestGalleryPolicy(t *testing.T) {
	stored := `{"sections":[{"name":"Local","items":[{"title":"l","imageUrl":"l.png"}]}]}`

	tests := []struct {
		name     string
		snapshot string
		stored   string
		want     []string
		decision Decision
	}{
		{"snapshot with sections wins", `{"gallery":{"sections":[{"name":"Pub","items":[]}]}}`, stored, []string{"Pub"}, FromSnapshot},
		{"snapshot extra keys win", `{"gallery":{"sections":[],"layout":"grid"}}`, stored, []string{}, FromSnapshot},
		{"empty snapshot falls back", `{"gallery":{"sections":[]}}`, stored, []string{"Local"}, FromStorage},
		{"single non-sections key is not content", `{"gallery":{"layout":"grid"}}`, stored, []string{"Local"}, FromStorage},
		{"stored default gives default", `{"gallery":{"sections":[]}}`, `{"sections":[]}`, []string{}, Default},
		{"stored legacy is migrated", `{}`, `[{"title":"old","imageUrl":"o.png"}]`, []string{"Default"}, FromStorage},
		{"stored garbage gives default", `{}`, `{nope`, []string{}, Default},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, _ := newRecords(t, map[string]string{storage.KeyGallery: tt.stored})
			res := load(t, staticSource{snap: mustParse(t, tt.snapshot)}, records)

			names := []string{}
			for _, s := range res.Dataset.Gallery.Sections {
				names = append(names, s.Name)
			}
			assert.Equal(t, tt.want, names)
			assert.Equal(t, tt.decision, res.Decisions[FieldGallery])
		})
	}
}

func TestStoragePreferredFieldsKeepNonDefaultStorage(t *testing.T) {
	records, kv := newRecords(t, map[string]string{
		storage.KeyAbout:   `{"text1":"mine","text2":""}`,
		storage.KeySkills:  `["Go"]`,
		storage.KeyContact: `{"email":"me@local"}`,
		storage.KeyHero:    `{"name":"Local Name"}`,
	})
	snap := mustParse(t, `{
		"about":{"text1":"published","text2":"p2"},
		"skills":["Rust","Zig"],
		"contact":{"email":"pub@example.com"},
		"hero":{"name":"Published Name","subtitle":"s"}
	}`)

	res := load(t, staticSource{snap: snap}, records)
	ds := res.Dataset
	assert.Equal(t, "mine", ds.About.Text1)
	assert.Equal(t, []string{"Go"}, ds.Skills)
	assert.Equal(t, "me@local", ds.Contact.Email)
	assert.Equal(t, "Local Name", ds.Hero.Name)
	for _, f := range []string{FieldAbout, FieldSkills, FieldContact, FieldHero} {
		assert.Equal(t, FromStorage, res.Decisions[f], f)
	}

	// Storage is untouched.
	raw, _ := kv.Get(context.Background(), storage.KeySkills)
	assert.Equal(t, `["Go"]`, raw)
}

func TestStoragePreferredFieldsSeedFromSnapshot(t *testing.T) {
	records, kv := newRecords(t, map[string]string{
		storage.KeyAbout:   `{"text1":"","text2":""}`,
		storage.KeySkills:  `[]`,
		storage.KeyContact: `{}`,
		storage.KeyHero:    `{}`,
	})
	snap := mustParse(t, `{
		"about":{"text1":"published","text2":"p2"},
		"skills":["Rust"],
		"contact":{"email":"pub@example.com","phone":"123"},
		"hero":{"name":"Published Name"}
	}`)

	res := load(t, staticSource{snap: snap}, records)
	ds := res.Dataset
	assert.Equal(t, "published", ds.About.Text1)
	assert.Equal(t, []string{"Rust"}, ds.Skills)
	assert.Equal(t, "pub@example.com", ds.Contact.Email)
	assert.Equal(t, "Published Name", ds.Hero.Name)
	for _, f := range []string{FieldAbout, FieldSkills, FieldContact, FieldHero} {
		assert.Equal(t, Seeded, res.Decisions[f], f)
	}

	ctx := context.Background()
	raw, _ := kv.Get(ctx, storage.KeyAbout)
	assert.JSONEq(t, `{"text1":"published","text2":"p2"}`, raw)
	raw, _ = kv.Get(ctx, storage.KeySkills)
	assert.JSONEq(t, `["Rust"]`, raw)
	raw, _ = kv.Get(ctx, storage.KeyContact)
	assert.JSONEq(t, `{"email":"pub@example.com","phone":"123"}`, raw)
	raw, _ = kv.Get(ctx, storage.KeyHero)
	assert.JSONEq(t, `{"name":"Published Name"}`, raw)

	// A second load now reads the seeded values from storage.
	res = load(t, staticSource{snap: mustParse(t, `{"about":{"text1":"changed"}}`)}, records)
	assert.Equal(t, "published", res.Dataset.About.Text1)
	assert.Equal(t, FromStorage, res.Decisions[FieldAbout])
}

func TestHeroWithEmptyFieldsDoesNotWin(t *testing.T) {
	records, _ := newRecords(t, map[string]string{storage.KeyHero: `{"name":"","subtitle":""}`})
	res := load(t, staticSource{snap: mustParse(t, `{"hero":{"name":"Pub"}}`)}, records)
	assert.Equal(t, "Pub", res.Dataset.Hero.Name)
}

func TestFetchFailureUsesStorageOnly(t *testing.T) {
	records, _ := newRecords(t, map[string]string{
		storage.KeyProjects: `[{"name":"Local","description":"d"}]`,
		storage.KeyAbout:    `not json`,
	})
	res := load(t, staticSource{err: errors.New("connection refused")}, records)

	require.Error(t, res.SnapshotErr)
	ds := res.Dataset
	assert.Equal(t, "Local", ds.Projects[0].Name)
	assert.NotNil(t, ds.Gallery.Sections)
	assert.True(t, ds.About.IsZero())
	assert.Equal(t, []string{}, ds.Skills)
	assert.True(t, ds.Contact.IsZero())
	assert.True(t, ds.Hero.IsZero())
	assert.Equal(t, FromStorage, res.Decisions[FieldProjects])
	assert.Equal(t, Default, res.Decisions[FieldAbout])
}

func TestNilSourceIsStorageOnly(t *testing.T) {
	records, _ := newRecords(t, nil)
	res := load(t, nil, records)
	assert.ErrorIs(t, res.SnapshotErr, ErrUnavailable)
}

func TestHeroSlideshow(t *testing.T) {
	records, _ := newRecords(t, map[string]string{
		storage.KeyHeroSlideshow: `[{"imageUrl":"stored.gif"}]`,
	})

	res := load(t, staticSource{snap: mustParse(t, `{}`)}, records)
	require.Len(t, res.Dataset.HeroSlideshow, 1)
	assert.Equal(t, "stored.gif", res.Dataset.HeroSlideshow[0].ImageURL)

	res = load(t, staticSource{snap: mustParse(t, `{"heroSlideshow":[{"imageUrl":"pub.gif"}]}`)}, records)
	assert.Equal(t, "pub.gif", res.Dataset.HeroSlideshow[0].ImageURL)
	assert.Equal(t, FromSnapshot, res.Decisions[FieldHeroSlideshow])
}

func TestContactDefaults(t *testing.T) {
	records, kv := newRecords(t, nil)
	r := NewReconciler(staticSource{snap: mustParse(t, `{}`)}, records, nil).
		WithContactDefaults(portfolio.Contact{Email: "default@example.com", Phone: "+1 555"})

	res, err := r.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "default@example.com", res.Dataset.Contact.Email)
	assert.Equal(t, "+1 555", res.Dataset.Contact.Phone)
	assert.Equal(t, Seeded, res.Decisions[FieldContact])

	raw, err := kv.Get(context.Background(), storage.KeyContact)
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"default@example.com","phone":"+1 555"}`, raw)
}

func TestContactDefaultsFillOnlyMissingFields(t *testing.T) {
	records, kv := newRecords(t, map[string]string{
		storage.KeyContact: `{"phone":"+44 20 7946 0000","linkedin":"in/ada"}`,
	})
	r := NewReconciler(staticSource{snap: mustParse(t, `{}`)}, records, nil).
		WithContactDefaults(portfolio.Contact{Email: "default@example.com", Phone: "+1 555"})

	res, err := r.Load(context.Background())
	require.NoError(t, err)
	c := res.Dataset.Contact
	assert.Equal(t, "default@example.com", c.Email)
	assert.Equal(t, "+44 20 7946 0000", c.Phone)
	assert.Equal(t, "in/ada", c.LinkedIn)

	raw, err := kv.Get(context.Background(), storage.KeyContact)
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"default@example.com","phone":"+44 20 7946 0000","linkedin":"in/ada"}`, raw)
}

func TestContactDefaultsLeaveCompleteContactAlone(t *testing.T) {
	stored := `{"email":"me@example.com","phone":"+49 30 1234"}`
	records, kv := newRecords(t, map[string]string{storage.KeyContact: stored})
	r := NewReconciler(staticSource{snap: mustParse(t, `{}`)}, records, nil).
		WithContactDefaults(portfolio.Contact{Email: "default@example.com", Phone: "+1 555"})

	res, err := r.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, FromStorage, res.Decisions[FieldContact])

	raw, err := kv.Get(context.Background(), storage.KeyContact)
	require.NoError(t, err)
	assert.JSONEq(t, stored, raw)
}

func TestEndToEndEmptyStorage(t *testing.T) {
	records, kv := newRecords(t, nil)
	snap := mustParse(t, `{
		"projects":[{"name":"A","description":"a"},{"name":"B","description":"b"}],
		"gallery":{"sections":[{"name":"CAD","items":[{"title":"gear","imageUrl":"gear.gif"}]}]},
		"about":{"text1":"hello","text2":""},
		"skills":["Go"],
		"contact":{"email":"x@y.z"},
		"hero":{"name":"N","subtitle":"S","description":"D"}
	}`)

	res := load(t, staticSource{snap: snap}, records)
	ds := res.Dataset
	assert.Len(t, ds.Projects, 2)
	require.Len(t, ds.Gallery.Sections, 1)
	assert.Len(t, ds.Gallery.Sections[0].Items, 1)

	keys, err := kv.Keys(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{storage.KeyAbout, storage.KeySkills, storage.KeyContact, storage.KeyHero}, keys)

	seeded := map[string]string{
		storage.KeyAbout:   `{"text1":"hello","text2":""}`,
		storage.KeySkills:  `["Go"]`,
		storage.KeyContact: `{"email":"x@y.z"}`,
		storage.KeyHero:    `{"name":"N","subtitle":"S","description":"D"}`,
	}
	for key, want := range seeded {
		raw, err := kv.Get(context.Background(), key)
		require.NoError(t, err)
		assert.JSONEq(t, want, raw, key)
	}
	for _, f := range []string{FieldAbout, FieldSkills, FieldContact, FieldHero} {
		assert.Equal(t, Seeded, res.Decisions[f], f)
	}
}

func TestParseRejectsBadShapes(t *testing.T) {
	for _, doc := range []string{`[]`, `null`, `{"projects":"nope"}`, `{"gallery":7}`, `{`} {
		_, err := Parse([]byte(doc))
		assert.Error(t, err, doc)
	}
}

func TestHTTPSource(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/data.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"skills":["Go"]}`))
	})
	mux.HandleFunc("/missing.json", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	snap, err := NewHTTPSource(srv.URL+"/data.json", srv.Client()).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, snap.Skills)

	_, err = NewHTTPSource(srv.URL+"/missing.json", nil).Fetch(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestFileSourceCachesAndInvalidates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"skills":["one"]}`), 0o644))

	src := NewFileSource(path, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, src.Watch(ctx))
	defer src.Close()

	snap, err := src.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"one"}, snap.Skills)

	require.NoError(t, os.WriteFile(path, []byte(`{"skills":["two"]}`), 0o644))
	require.Eventually(t, func() bool {
		snap, err := src.Fetch(ctx)
		return err == nil && len(snap.Skills) == 1 && snap.Skills[0] == "two"
	}, 5*time.Second, 20*time.Millisecond)
}

func TestFileSourceDoesNotCacheReadRacingAChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"skills":["one"]}`), 0o644))

	src := NewFileSource(path, zap.NewNop())
	src.watching = true
	src.afterRead = func() {
		src.afterRead = nil
		require.NoError(t, os.WriteFile(path, []byte(`{"skills":["two"]}`), 0o644))
		src.Invalidate()
	}
	ctx := context.Background()

	snap, err := src.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"one"}, snap.Skills)

	snap, err = src.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"two"}, snap.Skills)

	cached, err := src.Fetch(ctx)
	require.NoError(t, err)
	assert.Same(t, snap, cached)
}

func TestFileSourceMissingFile(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "absent.json"), nil).Fetch(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src, _ := newRecords(t, map[string]string{
		storage.KeyProjects: `[{"name":"P","description":"d","youtubeUrl":"abc"}]`,
		storage.KeyGallery:  `[{"title":"legacy","imageUrl":"l.png"}]`,
		storage.KeySkills:   `["Go","SQL"]`,
	})

	data, err := Export(ctx, src)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"projects\": [")

	var top map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &top))
	assert.NotContains(t, top, FieldHeroSlideshow)
	assert.JSONEq(t, `{"text1":"","text2":""}`, string(top[FieldAbout]))
	assert.JSONEq(t, `{}`, string(top[FieldContact]))

	dst, kv := newRecords(t, nil)
	imported, err := Import(ctx, dst, data)
	require.NoError(t, err)
	assert.Equal(t, []string{FieldProjects, FieldGallery, FieldAbout, FieldSkills, FieldContact, FieldHero}, imported)

	raw, err := kv.Get(ctx, storage.KeyGallery)
	require.NoError(t, err)
	assert.JSONEq(t, `{"sections":[{"name":"Default","items":[{"title":"legacy","imageUrl":"l.png","additionalImages":[]}]}]}`, raw)
}

func TestImportSkipsNullAndRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	records, kv := newRecords(t, map[string]string{storage.KeyHero: `{"name":"keep"}`})

	imported, err := Import(ctx, records, []byte(`{"skills":["a"],"hero":null}`))
	require.NoError(t, err)
	assert.Equal(t, []string{FieldSkills}, imported)
	raw, _ := kv.Get(ctx, storage.KeyHero)
	assert.Equal(t, `{"name":"keep"}`, raw)

	_, err = Import(ctx, records, []byte(`{"skills":"a"}`))
	assert.Error(t, err)
}
