package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/folio-web/folio/internal/portfolio"
	"go.uber.org/zap"
)

// Record keys, one per portfolio field.
const (
	KeyProjects      = "portfolio_projects"
	KeyGallery       = "portfolio_gallery"
	KeyAbout         = "portfolio_about"
	KeySkills        = "portfolio_skills"
	KeyContact       = "portfolio_contact"
	KeyHero          = "portfolio_hero"
	KeyHeroSlideshow = "portfolio_hero_slideshow"
)

// AllKeys lists every record key in snapshot order.
var AllKeys = []string{KeyProjects, KeyGallery, KeyAbout, KeySkills, KeyContact, KeyHero, KeyHeroSlideshow}

// Records is the typed view over a KV. Every getter returns the field's
// default when the key is absent or its text does not parse; the present
// flag is true only when a parsable value was stored. Parse failures are
// logged and never returned.
type Records struct {
	kv     KV
	logger *zap.Logger
}

// NewRecords wraps kv. A nil logger discards output.
func NewRecords(kv KV, logger *zap.Logger) *Records {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Records{kv: kv, logger: logger}
}

// KV returns the underlying store.
func (r *Records) KV() KV { return r.kv }

// Raw returns the stored text for key and whether it exists.
func (r *Records) Raw(ctx context.Context, key string) (string, bool, error) {
	v, err := r.kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// SetRaw stores text verbatim under key.
func (r *Records) SetRaw(ctx context.Context, key, value string) error {
	return r.kv.Set(ctx, key, value)
}

func getRecord[T any](ctx context.Context, r *Records, key string, decode func([]byte) (T, error), def T) (T, bool, error) {
	raw, ok, err := r.Raw(ctx, key)
	if err != nil || !ok {
		return def, false, err
	}
	v, err := decode([]byte(raw))
	if err != nil {
		r.logger.Warn("stored record does not parse, using default",
			zap.String("key", key), zap.Error(err))
		return def, false, nil
	}
	return v, true, nil
}

func setRecord(ctx context.Context, r *Records, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return r.kv.Set(ctx, key, string(data))
}

// Projects returns the stored project list, default [].
func (r *Records) Projects(ctx context.Context) ([]portfolio.Project, bool, error) {
	return getRecord(ctx, r, KeyProjects, portfolio.DecodeProjects, []portfolio.Project{})
}

// SetProjects replaces the stored project list.
func (r *Records) SetProjects(ctx context.Context, projects []portfolio.Project) error {
	if projects == nil {
		projects = []portfolio.Project{}
	}
	return setRecord(ctx, r, KeyProjects, projects)
}

// GalleryRaw returns the stored gallery text, which may still be a legacy
// bare array.
func (r *Records) GalleryRaw(ctx context.Context) (string, bool, error) {
	return r.Raw(ctx, KeyGallery)
}

// Gallery returns the stored gallery in canonical form, default {sections:[]}.
func (r *Records) Gallery(ctx context.Context) (portfolio.GalleryDocument, bool, error) {
	decode := func(raw []byte) (portfolio.GalleryDocument, error) {
		doc, _, err := portfolio.DecodeGallery(raw)
		return doc, err
	}
	return getRecord(ctx, r, KeyGallery, decode, portfolio.GalleryDocument{Sections: []portfolio.GallerySection{}})
}

// SetGallery persists doc verbatim.
func (r *Records) SetGallery(ctx context.Context, doc portfolio.GalleryDocument) error {
	return setRecord(ctx, r, KeyGallery, doc)
}

// About returns the stored about text, default {text1:"",text2:""}.
func (r *Records) About(ctx context.Context) (portfolio.About, bool, error) {
	return getRecord(ctx, r, KeyAbout, portfolio.DecodeAbout, portfolio.About{})
}

func (r *Records) SetAbout(ctx context.Context, about portfolio.About) error {
	return setRecord(ctx, r, KeyAbout, about)
}

// Skills returns the stored skills, default [].
func (r *Records) Skills(ctx context.Context) ([]string, bool, error) {
	return getRecord(ctx, r, KeySkills, portfolio.DecodeSkills, []string{})
}

func (r *Records) SetSkills(ctx context.Context, skills []string) error {
	if skills == nil {
		skills = []string{}
	}
	return setRecord(ctx, r, KeySkills, skills)
}

// Contact returns the stored contact details, default {}.
func (r *Records) Contact(ctx context.Context) (portfolio.Contact, bool, error) {
	return getRecord(ctx, r, KeyContact, portfolio.DecodeContact, portfolio.Contact{})
}

func (r *Records) SetContact(ctx context.Context, contact portfolio.Contact) error {
	return setRecord(ctx, r, KeyContact, contact)
}

// Hero returns the stored hero banner, default {}.
func (r *Records) Hero(ctx context.Context) (portfolio.Hero, bool, error) {
	return getRecord(ctx, r, KeyHero, portfolio.DecodeHero, portfolio.Hero{})
}

func (r *Records) SetHero(ctx context.Context, hero portfolio.Hero) error {
	return setRecord(ctx, r, KeyHero, hero)
}

// HeroSlideshow returns the dedicated slideshow images, default [].
func (r *Records) HeroSlideshow(ctx context.Context) ([]portfolio.ImageRef, bool, error) {
	return getRecord(ctx, r, KeyHeroSlideshow, portfolio.DecodeImageRefs, []portfolio.ImageRef{})
}

func (r *Records) SetHeroSlideshow(ctx context.Context, images []portfolio.ImageRef) error {
	if images == nil {
		images = []portfolio.ImageRef{}
	}
	return setRecord(ctx, r, KeyHeroSlideshow, images)
}
