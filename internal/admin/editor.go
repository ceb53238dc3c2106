package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/folio-web/folio/internal/audit"
	"github.com/folio-web/folio/internal/gallery"
	"github.com/folio-web/folio/internal/portfolio"
	"github.com/folio-web/folio/internal/snapshot"
	"github.com/folio-web/folio/internal/storage"
)

// Actor identifies who is making a change.
type Actor struct {
	Type audit.ActorType
	ID   string
}

// Editor applies admin changes to storage. Every successful mutation is
// written to the audit trail when one is configured.
type Editor struct {
	records *storage.Records
	gallery *gallery.Model
	audit   *audit.Store
	logger  *zap.Logger

	// mu serialises project list read-modify-write cycles.
	mu sync.Mutex
}

// NewEditor creates an Editor. auditStore may be nil.
func NewEditor(records *storage.Records, model *gallery.Model, auditStore *audit.Store, logger *zap.Logger) *Editor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if model == nil {
		model = gallery.NewModel(records, logger)
	}
	return &Editor{records: records, gallery: model, audit: auditStore, logger: logger}
}

// Gallery exposes the underlying gallery model.
func (e *Editor) Gallery() *gallery.Model { return e.gallery }

func (e *Editor) record(ctx context.Context, who Actor, action audit.Action, scope audit.Scope, scopeID, summary string, prev, next any) {
	if e.audit == nil {
		return
	}
	entry := audit.Entry{
		ActorType:     who.Type,
		ActorID:       who.ID,
		Action:        action,
		Scope:         scope,
		ScopeID:       scopeID,
		Summary:       summary,
		PreviousValue: encode(prev),
		NewValue:      encode(next),
	}
	if err := e.audit.Log(ctx, entry); err != nil {
		e.logger.Warn("writing audit entry", zap.String("action", string(action)), zap.Error(err))
	}
}

func encode(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

// Projects returns the stored projects. Stale YouTube thumbnails are cleared
// and the cleaned list persisted.
func (e *Editor) Projects(ctx context.Context) ([]portfolio.Project, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.projects(ctx)
}

func (e *Editor) projects(ctx context.Context) ([]portfolio.Project, error) {
	projects, _, err := e.records.Projects(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading projects: %w", err)
	}
	if CleanupYouTubeThumbnails(projects) {
		e.logger.Info("cleared stored YouTube thumbnails")
		if err := e.records.SetProjects(ctx, projects); err != nil {
			return nil, fmt.Errorf("saving projects: %w", err)
		}
	}
	return projects, nil
}

// SaveProject adds a project (index < 0) or replaces the one at index and
// returns its position.
func (e *Editor) SaveProject(ctx context.Context, who Actor, index int, in ProjectInput) (int, error) {
	p, err := NormalizeProject(in)
	if err != nil {
		return -1, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	projects, err := e.projects(ctx)
	if err != nil {
		return -1, err
	}

	action := audit.ActionCreated
	var prev any
	if index < 0 {
		projects = append(projects, p)
		index = len(projects) - 1
	} else {
		if index >= len(projects) {
			return -1, fmt.Errorf("%w: %d", ErrProjectNotFound, index)
		}
		prev = projects[index]
		projects[index] = p
		action = audit.ActionUpdated
	}

	if err := e.records.SetProjects(ctx, projects); err != nil {
		return -1, fmt.Errorf("saving projects: %w", err)
	}
	e.record(ctx, who, action, audit.ScopeProjects, strconv.Itoa(index), fmt.Sprintf("%s project %q", action, p.Name), prev, p)
	return index, nil
}

// DeleteProject removes the project at index once c confirms.
func (e *Editor) DeleteProject(ctx context.Context, who Actor, index int, c gallery.Confirmer) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	projects, err := e.projects(ctx)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(projects) {
		return fmt.Errorf("%w: %d", ErrProjectNotFound, index)
	}
	if !c.Confirm(DeleteProjectPrompt) {
		return gallery.ErrCancelled
	}

	removed := projects[index]
	projects = append(projects[:index], projects[index+1:]...)
	if err := e.records.SetProjects(ctx, projects); err != nil {
		return fmt.Errorf("saving projects: %w", err)
	}
	e.record(ctx, who, audit.ActionDeleted, audit.ScopeProjects, strconv.Itoa(index), fmt.Sprintf("deleted project %q", removed.Name), removed, nil)
	return nil
}

// ReorderProject moves a project from one position to another.
func (e *Editor) ReorderProject(ctx context.Context, who Actor, from, to int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	projects, err := e.projects(ctx)
	if err != nil {
		return err
	}
	if from == to && from >= 0 && from < len(projects) {
		return nil
	}
	projects, err = ReorderProjects(projects, from, to)
	if err != nil {
		return err
	}
	if err := e.records.SetProjects(ctx, projects); err != nil {
		return fmt.Errorf("saving projects: %w", err)
	}
	e.record(ctx, who, audit.ActionMoved, audit.ScopeProjects, strconv.Itoa(to), fmt.Sprintf("moved project %q from %d to %d", projects[to].Name, from, to), nil, nil)
	return nil
}

// About returns the stored about text.
func (e *Editor) About(ctx context.Context) (portfolio.About, error) {
	about, _, err := e.records.About(ctx)
	return about, err
}

// SetAbout replaces the about text.
func (e *Editor) SetAbout(ctx context.Context, who Actor, about portfolio.About) error {
	prev, _, err := e.records.About(ctx)
	if err != nil {
		return err
	}
	if err := e.records.SetAbout(ctx, about); err != nil {
		return fmt.Errorf("saving about: %w", err)
	}
	e.record(ctx, who, audit.ActionUpdated, audit.ScopeAbout, "", "updated about text", prev, about)
	return nil
}

// Skills returns the stored skill list.
func (e *Editor) Skills(ctx context.Context) ([]string, error) {
	skills, _, err := e.records.Skills(ctx)
	return skills, err
}

// SetSkills replaces the skill list. Entries are trimmed and blanks dropped.
func (e *Editor) SetSkills(ctx context.Context, who Actor, skills []string) error {
	prev, _, err := e.records.Skills(ctx)
	if err != nil {
		return err
	}
	skills = cleanList(skills)
	if err := e.records.SetSkills(ctx, skills); err != nil {
		return fmt.Errorf("saving skills: %w", err)
	}
	e.record(ctx, who, audit.ActionUpdated, audit.ScopeSkills, "", fmt.Sprintf("updated skills (%d)", len(skills)), prev, skills)
	return nil
}

// Contact returns the stored contact details.
func (e *Editor) Contact(ctx context.Context) (portfolio.Contact, error) {
	contact, _, err := e.records.Contact(ctx)
	return contact, err
}

// SetContact replaces the contact details.
func (e *Editor) SetContact(ctx context.Context, who Actor, contact portfolio.Contact) error {
	prev, _, err := e.records.Contact(ctx)
	if err != nil {
		return err
	}
	if err := e.records.SetContact(ctx, contact); err != nil {
		return fmt.Errorf("saving contact: %w", err)
	}
	e.record(ctx, who, audit.ActionUpdated, audit.ScopeContact, "", "updated contact details", prev, contact)
	return nil
}

// Hero returns the stored hero banner.
func (e *Editor) Hero(ctx context.Context) (portfolio.Hero, error) {
	hero, _, err := e.records.Hero(ctx)
	return hero, err
}

// SetHero replaces the hero banner.
func (e *Editor) SetHero(ctx context.Context, who Actor, hero portfolio.Hero) error {
	prev, _, err := e.records.Hero(ctx)
	if err != nil {
		return err
	}
	if err := e.records.SetHero(ctx, hero); err != nil {
		return fmt.Errorf("saving hero: %w", err)
	}
	e.record(ctx, who, audit.ActionUpdated, audit.ScopeHero, "", "updated hero banner", prev, hero)
	return nil
}

// HeroSlideshow returns the dedicated slideshow images.
func (e *Editor) HeroSlideshow(ctx context.Context) ([]portfolio.ImageRef, error) {
	images, _, err := e.records.HeroSlideshow(ctx)
	return images, err
}

// SetHeroSlideshow replaces the dedicated slideshow images, dropping empty
// entries.
func (e *Editor) SetHeroSlideshow(ctx context.Context, who Actor, images []portfolio.ImageRef) error {
	kept := make([]portfolio.ImageRef, 0, len(images))
	for _, img := range images {
		if !img.IsEmpty() {
			kept = append(kept, img)
		}
	}
	if err := e.records.SetHeroSlideshow(ctx, kept); err != nil {
		return fmt.Errorf("saving hero slideshow: %w", err)
	}
	e.record(ctx, who, audit.ActionUpdated, audit.ScopeHero, "slideshow", fmt.Sprintf("updated hero slideshow (%d images)", len(kept)), nil, nil)
	return nil
}

// LoadGallery returns the stored gallery, migrating legacy data first.
func (e *Editor) LoadGallery(ctx context.Context) (portfolio.GalleryDocument, error) {
	return e.gallery.Load(ctx)
}

// AddSection appends a section.
func (e *Editor) AddSection(ctx context.Context, who Actor, name string) (portfolio.GalleryDocument, error) {
	doc, err := e.gallery.AddSection(ctx, name)
	if err != nil {
		return doc, err
	}
	e.record(ctx, who, audit.ActionCreated, audit.ScopeGallery, strconv.Itoa(len(doc.Sections)-1), fmt.Sprintf("added section %q", strings.TrimSpace(name)), nil, nil)
	return doc, nil
}

// RenameSection renames section i.
func (e *Editor) RenameSection(ctx context.Context, who Actor, i int, name string) (portfolio.GalleryDocument, error) {
	doc, err := e.gallery.RenameSection(ctx, i, name)
	if err != nil {
		return doc, err
	}
	e.record(ctx, who, audit.ActionUpdated, audit.ScopeGallery, strconv.Itoa(i), fmt.Sprintf("renamed section to %q", strings.TrimSpace(name)), nil, nil)
	return doc, nil
}

// DeleteSection removes section i and its items once c confirms.
func (e *Editor) DeleteSection(ctx context.Context, who Actor, i int, c gallery.Confirmer) (portfolio.GalleryDocument, error) {
	var removed portfolio.GallerySection
	doc, err := e.gallery.Update(ctx, func(doc *portfolio.GalleryDocument) error {
		if i >= 0 && i < len(doc.Sections) {
			removed = doc.Sections[i]
		}
		return gallery.DeleteSection(doc, i, c)
	})
	if err != nil {
		return doc, err
	}
	e.record(ctx, who, audit.ActionDeleted, audit.ScopeGallery, strconv.Itoa(i),
		fmt.Sprintf("deleted section %q with %d item(s)", removed.Name, len(removed.Items)), removed, nil)
	return doc, nil
}

// AddItem adds an item to in.Section.
func (e *Editor) AddItem(ctx context.Context, who Actor, in gallery.ItemInput, c gallery.Confirmer) (gallery.ItemRef, error) {
	ref, err := e.gallery.AddItem(ctx, in, c)
	if err != nil {
		return ref, err
	}
	e.record(ctx, who, audit.ActionCreated, audit.ScopeGallery, itemID(ref), fmt.Sprintf("added gallery item %q", strings.TrimSpace(in.Title)), nil, nil)
	return ref, nil
}

// UpdateItem replaces the item at at.
func (e *Editor) UpdateItem(ctx context.Context, who Actor, at gallery.ItemRef, in gallery.ItemInput, c gallery.Confirmer) (gallery.ItemRef, error) {
	ref, err := e.gallery.UpdateItem(ctx, at, in, c)
	if err != nil {
		return ref, err
	}
	e.record(ctx, who, audit.ActionUpdated, audit.ScopeGallery, itemID(ref), fmt.Sprintf("updated gallery item %q", strings.TrimSpace(in.Title)), nil, nil)
	return ref, nil
}

// DeleteItem removes the item at at once c confirms.
func (e *Editor) DeleteItem(ctx context.Context, who Actor, at gallery.ItemRef, c gallery.Confirmer) (portfolio.GalleryDocument, error) {
	doc, err := e.gallery.DeleteItem(ctx, at, c)
	if err != nil {
		return doc, err
	}
	e.record(ctx, who, audit.ActionDeleted, audit.ScopeGallery, itemID(at), "deleted gallery item", nil, nil)
	return doc, nil
}

// MoveItem moves an item to position toIdx of section to.
func (e *Editor) MoveItem(ctx context.Context, who Actor, from gallery.ItemRef, to, toIdx int) (gallery.ItemRef, error) {
	ref, err := e.gallery.MoveItem(ctx, from, to, toIdx)
	if err != nil {
		return ref, err
	}
	e.record(ctx, who, audit.ActionMoved, audit.ScopeGallery, itemID(ref), fmt.Sprintf("moved gallery item from %s to %s", itemID(from), itemID(ref)), nil, nil)
	return ref, nil
}

// ImportDir adds every image under root matching pattern to section i.
func (e *Editor) ImportDir(ctx context.Context, who Actor, i int, root, pattern string) (int, []string, error) {
	n, warnings, err := e.gallery.ImportDir(ctx, i, root, pattern)
	if err != nil {
		return n, warnings, err
	}
	if n > 0 {
		e.record(ctx, who, audit.ActionImported, audit.ScopeGallery, strconv.Itoa(i), fmt.Sprintf("imported %d image(s) from %s", n, root), nil, nil)
	}
	return n, warnings, nil
}

// Export renders the stored records as a data.json document.
func (e *Editor) Export(ctx context.Context, who Actor) ([]byte, error) {
	data, err := snapshot.Export(ctx, e.records)
	if err != nil {
		return nil, err
	}
	e.record(ctx, who, audit.ActionExported, audit.ScopeSite, "", fmt.Sprintf("exported data.json (%d bytes)", len(data)), nil, nil)
	return data, nil
}

// Import writes a data.json document to storage and returns the fields
// written.
func (e *Editor) Import(ctx context.Context, who Actor, data []byte) ([]string, error) {
	fields, err := snapshot.Import(ctx, e.records, data)
	if err != nil {
		return fields, err
	}
	e.record(ctx, who, audit.ActionImported, audit.ScopeSite, "", "imported "+strings.Join(fields, ", "), nil, nil)
	return fields, nil
}

func itemID(ref gallery.ItemRef) string {
	return fmt.Sprintf("%d/%d", ref.Section, ref.Index)
}
