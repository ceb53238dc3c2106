// Package site serves the public portfolio page. Each page load reconciles
// the published snapshot with local storage and renders the result.
package site

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/folio-web/folio/internal/audit"
	"github.com/folio-web/folio/internal/portfolio"
	"github.com/folio-web/folio/internal/render"
	"github.com/folio-web/folio/internal/snapshot"
)

// Site ties the reconciler to the page renderer.
type Site struct {
	reconciler *snapshot.Reconciler
	renderer   *render.Renderer
	audit      *audit.Store
	logger     *zap.Logger
}

// New creates a Site. auditStore may be nil.
func New(reconciler *snapshot.Reconciler, renderer *render.Renderer, auditStore *audit.Store, logger *zap.Logger) *Site {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Site{reconciler: reconciler, renderer: renderer, audit: auditStore, logger: logger}
}

// Load reconciles the dataset for one page load. Fields seeded from the
// snapshot into storage are recorded in the audit trail.
func (s *Site) Load(ctx context.Context) (*snapshot.Result, error) {
	res, err := s.reconciler.Load(ctx)
	if err != nil {
		return nil, err
	}
	s.recordSeeded(ctx, res)
	return res, nil
}

// Dataset returns only the reconciled dataset. It matches
// session.DatasetFunc.
func (s *Site) Dataset(ctx context.Context) (*portfolio.SiteDataset, error) {
	res, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return res.Dataset, nil
}

func (s *Site) recordSeeded(ctx context.Context, res *snapshot.Result) {
	if s.audit == nil {
		return
	}
	var seeded []string
	for field, d := range res.Decisions {
		if d == snapshot.Seeded {
			seeded = append(seeded, field)
		}
	}
	sort.Strings(seeded)
	for _, field := range seeded {
		err := s.audit.Log(ctx, audit.Entry{
			ActorType: audit.ActorSystem,
			ActorID:   "reconciler",
			Action:    audit.ActionSeeded,
			Scope:     scopeFor(field),
			Summary:   fmt.Sprintf("seeded %s from the published snapshot", field),
		})
		if err != nil {
			s.logger.Warn("writing audit entry", zap.String("field", field), zap.Error(err))
		}
	}
}

func scopeFor(field string) audit.Scope {
	switch field {
	case snapshot.FieldProjects:
		return audit.ScopeProjects
	case snapshot.FieldGallery:
		return audit.ScopeGallery
	case snapshot.FieldAbout:
		return audit.ScopeAbout
	case snapshot.FieldSkills:
		return audit.ScopeSkills
	case snapshot.FieldContact:
		return audit.ScopeContact
	case snapshot.FieldHero, snapshot.FieldHeroSlideshow:
		return audit.ScopeHero
	}
	return audit.ScopeSite
}

// RegisterRoutes mounts the public page and its dataset endpoint.
func (s *Site) RegisterRoutes(r chi.Router) {
	r.Get("/", s.handlePage)
	r.Get("/api/site", s.handleDataset)
}

func (s *Site) handlePage(w http.ResponseWriter, r *http.Request) {
	ds, err := s.Dataset(r.Context())
	if err != nil {
		s.logger.Error("loading dataset", zap.Error(err))
		http.Error(w, "portfolio unavailable", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, ds); err != nil {
		s.logger.Error("rendering page", zap.Error(err))
		http.Error(w, "portfolio unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

type datasetResponse struct {
	Dataset   *portfolio.SiteDataset       `json:"dataset"`
	Decisions map[string]snapshot.Decision `json:"decisions"`
	Snapshot  string                       `json:"snapshot"`
}

func (s *Site) handleDataset(w http.ResponseWriter, r *http.Request) {
	res, err := s.Load(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	resp := datasetResponse{Dataset: res.Dataset, Decisions: res.Decisions, Snapshot: "ok"}
	if res.SnapshotErr != nil {
		resp.Snapshot = res.SnapshotErr.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
