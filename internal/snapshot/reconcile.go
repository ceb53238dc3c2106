package snapshot

import (
	"context"
	"time"

	"github.com/folio-web/folio/internal/portfolio"
	"github.com/folio-web/folio/internal/storage"
	"go.uber.org/zap"
)

// Decision records where a merged field's value came from.
type Decision string

const (
	// FromSnapshot: the published value was used.
	FromSnapshot Decision = "snapshot"
	// FromStorage: the stored admin value was used.
	FromStorage Decision = "storage"
	// Seeded: storage was at its default, so the published value was used
	// and written to storage.
	Seeded Decision = "seeded"
	// Default: neither side had a value.
	Default Decision = "default"
)

// Result is a merged dataset plus how each field was decided.
type Result struct {
	Dataset   *portfolio.SiteDataset
	Decisions map[string]Decision

	// SnapshotErr is set when the snapshot could not be fetched and the
	// dataset was built from storage alone.
	SnapshotErr error
}

// Reconciler merges the published snapshot with local storage.
//
// Projects and gallery favour the snapshot whenever it has content and fall
// back to storage otherwise. About, skills, contact and hero favour storage
// whenever it holds a non-default value; otherwise the published value is
// used and persisted so later loads are stable.
type Reconciler struct {
	source          Source
	records         *storage.Records
	logger          *zap.Logger
	timeout         time.Duration
	contactDefaults portfolio.Contact
}

// NewReconciler creates a Reconciler. A nil source always takes the
// storage-only path.
func NewReconciler(source Source, records *storage.Records, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{source: source, records: records, logger: logger}
}

// WithTimeout bounds each snapshot fetch.
func (r *Reconciler) WithTimeout(d time.Duration) *Reconciler {
	r.timeout = d
	return r
}

// WithContactDefaults sets the email and phone written to storage when the
// merged contact lacks them. Each default fills only its own empty field.
func (r *Reconciler) WithContactDefaults(c portfolio.Contact) *Reconciler {
	r.contactDefaults = c
	return r
}

// Load produces the dataset for one page load. Snapshot failures are never
// returned; only storage I/O errors are.
func (r *Reconciler) Load(ctx context.Context) (*Result, error) {
	res := &Result{
		Dataset:   portfolio.EmptyDataset(),
		Decisions: make(map[string]Decision, len(Fields)),
	}

	snap, err := r.fetch(ctx)
	if err != nil {
		r.logger.Warn("snapshot unavailable, using local storage only", zap.Error(err))
		res.SnapshotErr = err
		if err := r.storageOnly(ctx, res); err != nil {
			return nil, err
		}
	} else if err := r.merge(ctx, snap, res); err != nil {
		return nil, err
	}

	if err := r.applyContactDefaults(ctx, res); err != nil {
		return nil, err
	}

	fields := make([]zap.Field, 0, len(Fields))
	for _, f := range Fields {
		fields = append(fields, zap.String(f, string(res.Decisions[f])))
	}
	r.logger.Debug("reconciled dataset", fields...)
	return res, nil
}

func (r *Reconciler) fetch(ctx context.Context) (*Snapshot, error) {
	if r.source == nil {
		return nil, ErrUnavailable
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return r.source.Fetch(ctx)
}

func decided(present bool) Decision {
	if present {
		return FromStorage
	}
	return Default
}

func (r *Reconciler) storageOnly(ctx context.Context, res *Result) error {
	ds := res.Dataset
	var (
		ok  bool
		err error
	)
	if ds.Projects, ok, err = r.records.Projects(ctx); err != nil {
		return err
	}
	res.Decisions[FieldProjects] = decided(ok)

	if ds.Gallery, ok, err = r.records.Gallery(ctx); err != nil {
		return err
	}
	res.Decisions[FieldGallery] = decided(ok)

	if ds.About, ok, err = r.records.About(ctx); err != nil {
		return err
	}
	res.Decisions[FieldAbout] = decided(ok)

	if ds.Skills, ok, err = r.records.Skills(ctx); err != nil {
		return err
	}
	res.Decisions[FieldSkills] = decided(ok)

	if ds.Contact, ok, err = r.records.Contact(ctx); err != nil {
		return err
	}
	res.Decisions[FieldContact] = decided(ok)

	if ds.Hero, ok, err = r.records.Hero(ctx); err != nil {
		return err
	}
	res.Decisions[FieldHero] = decided(ok)

	if ds.HeroSlideshow, ok, err = r.records.HeroSlideshow(ctx); err != nil {
		return err
	}
	res.Decisions[FieldHeroSlideshow] = decided(ok)
	return nil
}

func (r *Reconciler) merge(ctx context.Context, snap *Snapshot, res *Result) error {
	ds := res.Dataset
	steps := []func(context.Context, *Snapshot, *portfolio.SiteDataset) (string, Decision, error){
		r.mergeProjects,
		r.mergeGallery,
		r.mergeAbout,
		r.mergeSkills,
		r.mergeContact,
		r.mergeHero,
		r.mergeHeroSlideshow,
	}
	for _, step := range steps {
		field, d, err := step(ctx, snap, ds)
		if err != nil {
			return err
		}
		res.Decisions[field] = d
	}
	return nil
}

func (r *Reconciler) mergeProjects(ctx context.Context, snap *Snapshot, ds *portfolio.SiteDataset) (string, Decision, error) {
	if len(snap.Projects) > 0 {
		ds.Projects = snap.Projects
		return FieldProjects, FromSnapshot, nil
	}
	stored, _, err := r.records.Projects(ctx)
	if err != nil {
		return FieldProjects, "", err
	}
	if len(stored) > 0 {
		ds.Projects = stored
		return FieldProjects, FromStorage, nil
	}
	ds.Projects = []portfolio.Project{}
	return FieldProjects, Default, nil
}

func (r *Reconciler) mergeGallery(ctx context.Context, snap *Snapshot, ds *portfolio.SiteDataset) (string, Decision, error) {
	if snap.GalleryHasContent() {
		ds.Gallery = snap.Gallery
		return FieldGallery, FromSnapshot, nil
	}
	stored, ok, err := r.records.Gallery(ctx)
	if err != nil {
		return FieldGallery, "", err
	}
	if ok && stored.HasContent() {
		ds.Gallery = stored
		return FieldGallery, FromStorage, nil
	}
	ds.Gallery = portfolio.GalleryDocument{Sections: []portfolio.GallerySection{}}
	return FieldGallery, Default, nil
}

func (r *Reconciler) mergeAbout(ctx context.Context, snap *Snapshot, ds *portfolio.SiteDataset) (string, Decision, error) {
	stored, ok, err := r.records.About(ctx)
	if err != nil {
		return FieldAbout, "", err
	}
	if ok && !stored.IsZero() {
		ds.About = stored
		return FieldAbout, FromStorage, nil
	}
	ds.About = snap.About
	if snap.About.IsZero() {
		return FieldAbout, Default, nil
	}
	if err := r.records.SetAbout(ctx, snap.About); err != nil {
		return FieldAbout, "", err
	}
	return FieldAbout, Seeded, nil
}

func (r *Reconciler) mergeSkills(ctx context.Context, snap *Snapshot, ds *portfolio.SiteDataset) (string, Decision, error) {
	stored, ok, err := r.records.Skills(ctx)
	if err != nil {
		return FieldSkills, "", err
	}
	if ok && len(stored) > 0 {
		ds.Skills = stored
		return FieldSkills, FromStorage, nil
	}
	ds.Skills = snap.Skills
	if len(snap.Skills) == 0 {
		return FieldSkills, Default, nil
	}
	if err := r.records.SetSkills(ctx, snap.Skills); err != nil {
		return FieldSkills, "", err
	}
	return FieldSkills, Seeded, nil
}

func (r *Reconciler) mergeContact(ctx context.Context, snap *Snapshot, ds *portfolio.SiteDataset) (string, Decision, error) {
	stored, ok, err := r.records.Contact(ctx)
	if err != nil {
		return FieldContact, "", err
	}
	if ok && !stored.IsZero() {
		ds.Contact = stored
		return FieldContact, FromStorage, nil
	}
	ds.Contact = snap.Contact
	if !snap.HasContact() {
		return FieldContact, Default, nil
	}
	if err := r.records.SetContact(ctx, snap.Contact); err != nil {
		return FieldContact, "", err
	}
	return FieldContact, Seeded, nil
}

func (r *Reconciler) mergeHero(ctx context.Context, snap *Snapshot, ds *portfolio.SiteDataset) (string, Decision, error) {
	stored, ok, err := r.records.Hero(ctx)
	if err != nil {
		return FieldHero, "", err
	}
	if ok && !stored.IsZero() {
		ds.Hero = stored
		return FieldHero, FromStorage, nil
	}
	ds.Hero = snap.Hero
	if snap.Hero.IsZero() {
		return FieldHero, Default, nil
	}
	if err := r.records.SetHero(ctx, snap.Hero); err != nil {
		return FieldHero, "", err
	}
	return FieldHero, Seeded, nil
}

func (r *Reconciler) mergeHeroSlideshow(ctx context.Context, snap *Snapshot, ds *portfolio.SiteDataset) (string, Decision, error) {
	if snap.Has(FieldHeroSlideshow) {
		ds.HeroSlideshow = snap.HeroSlideshow
		return FieldHeroSlideshow, FromSnapshot, nil
	}
	stored, ok, err := r.records.HeroSlideshow(ctx)
	if err != nil {
		return FieldHeroSlideshow, "", err
	}
	ds.HeroSlideshow = stored
	return FieldHeroSlideshow, decided(ok), nil
}

func (r *Reconciler) applyContactDefaults(ctx context.Context, res *Result) error {
	defaults := r.contactDefaults
	c := res.Dataset.Contact
	changed := false
	if c.Email == "" && defaults.Email != "" {
		c.Email = defaults.Email
		changed = true
	}
	if c.Phone == "" && defaults.Phone != "" {
		c.Phone = defaults.Phone
		changed = true
	}
	if !changed {
		return nil
	}
	if err := r.records.SetContact(ctx, c); err != nil {
		return err
	}
	res.Dataset.Contact = c
	res.Decisions[FieldContact] = Seeded
	r.logger.Info("seeded default contact details", zap.String("email", c.Email))
	return nil
}
