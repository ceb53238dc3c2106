package admin

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/folio-web/folio/internal/audit"
	"github.com/folio-web/folio/internal/gallery"
)

// ActorHeader names the editor making a change over HTTP.
const ActorHeader = "X-Folio-Actor"

const maxImportBytes = 64 << 20

// RegisterRoutes mounts the admin API under /api/admin on the given router.
//
// Destructive or risky requests need ?confirm=true. Without it the change is
// not applied and the reply is 409 with the question to put to the operator.
func RegisterRoutes(r chi.Router, e *Editor) {
	r.Route("/api/admin", func(r chi.Router) {
		r.Get("/projects", handleProjects(e))
		r.Post("/projects", handleSaveProject(e, true))
		r.Post("/projects/reorder", handleReorderProject(e))
		r.Put("/projects/{index}", handleSaveProject(e, false))
		r.Delete("/projects/{index}", handleDeleteProject(e))

		r.Get("/gallery", handleGallery(e))
		r.Post("/gallery/sections", handleAddSection(e))
		r.Put("/gallery/sections/{section}", handleRenameSection(e))
		r.Delete("/gallery/sections/{section}", handleDeleteSection(e))
		r.Post("/gallery/items", handleSaveItem(e, true))
		r.Put("/gallery/sections/{section}/items/{item}", handleSaveItem(e, false))
		r.Delete("/gallery/sections/{section}/items/{item}", handleDeleteItem(e))
		r.Post("/gallery/move", handleMoveItem(e))

		r.Get("/about", handleGet(e.About))
		r.Put("/about", handleSet(e.SetAbout))
		r.Get("/skills", handleGet(e.Skills))
		r.Put("/skills", handleSet(e.SetSkills))
		r.Get("/contact", handleGet(e.Contact))
		r.Put("/contact", handleSet(e.SetContact))
		r.Get("/hero", handleGet(e.Hero))
		r.Put("/hero", handleSet(e.SetHero))
		r.Get("/hero-slideshow", handleGet(e.HeroSlideshow))
		r.Put("/hero-slideshow", handleSet(e.SetHeroSlideshow))

		r.Get("/export", handleExport(e))
		r.Post("/import", handleImport(e))
	})
}

// actorFrom identifies the caller. Requests without an actor header are
// attributed to "admin".
func actorFrom(r *http.Request) Actor {
	id := r.Header.Get(ActorHeader)
	if id == "" {
		id = "admin"
	}
	return Actor{Type: audit.ActorUser, ID: id}
}

// httpConfirmer confirms when the request carried ?confirm=true and
// otherwise remembers the question it was asked.
type httpConfirmer struct {
	confirmed bool
	prompt    string
}

func confirmerFor(r *http.Request) *httpConfirmer {
	ok, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	return &httpConfirmer{confirmed: ok}
}

func (c *httpConfirmer) Confirm(prompt string) bool {
	if !c.confirmed {
		c.prompt = prompt
	}
	return c.confirmed
}

func intParam(r *http.Request, name string) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, name))
	return n, err == nil
}

// writeError maps editor errors to HTTP statuses.
func writeError(w http.ResponseWriter, err error, c *httpConfirmer) {
	switch {
	case errors.Is(err, gallery.ErrCancelled) && c != nil:
		writeJSON(w, http.StatusConflict, map[string]string{"error": "confirmation required", "prompt": c.prompt})
	case errors.Is(err, ErrInvalidProject),
		errors.Is(err, gallery.ErrEmptyName),
		errors.Is(err, gallery.ErrNoImage):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrProjectNotFound),
		errors.Is(err, gallery.ErrSectionNotFound),
		errors.Is(err, gallery.ErrItemNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func handleProjects(e *Editor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := e.Projects(r.Context())
		if err != nil {
			writeError(w, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, projects)
	}
}

func handleSaveProject(e *Editor, create bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index := -1
		if !create {
			var ok bool
			if index, ok = intParam(r, "index"); !ok || index < 0 {
				badRequest(w, "invalid project index")
				return
			}
		}

		var in ProjectInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			badRequest(w, "invalid request body")
			return
		}

		index, err := e.SaveProject(r.Context(), actorFrom(r), index, in)
		if err != nil {
			writeError(w, err, nil)
			return
		}
		status := http.StatusOK
		if create {
			status = http.StatusCreated
		}
		writeJSON(w, status, map[string]int{"index": index})
	}
}

func handleDeleteProject(e *Editor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, ok := intParam(r, "index")
		if !ok {
			badRequest(w, "invalid project index")
			return
		}
		c := confirmerFor(r)
		if err := e.DeleteProject(r.Context(), actorFrom(r), index, c); err != nil {
			writeError(w, err, c)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type reorderRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func handleReorderProject(e *Editor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reorderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "invalid request body")
			return
		}
		if err := e.ReorderProject(r.Context(), actorFrom(r), req.From, req.To); err != nil {
			writeError(w, err, nil)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleGallery(e *Editor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := e.LoadGallery(r.Context())
		if err != nil {
			writeError(w, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, doc)
	}
}

type sectionRequest struct {
	Name string `json:"name"`
}

func handleAddSection(e *Editor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "invalid request body")
			return
		}
		doc, err := e.AddSection(r.Context(), actorFrom(r), req.Name)
		if err != nil {
			writeError(w, err, nil)
			return
		}
		writeJSON(w, http.StatusCreated, doc)
	}
}

func handleRenameSection(e *Editor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		i, ok := intParam(r, "section")
		if !ok {
			badRequest(w, "invalid section index")
			return
		}
		var req sectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "invalid request body")
			return
		}
		doc, err := e.RenameSection(r.Context(), actorFrom(r), i, req.Name)
		if err != nil {
			writeError(w, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, doc)
	}
}

func handleDeleteSection(e *Editor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		i, ok := intParam(r, "section")
		if !ok {
			badRequest(w, "invalid section index")
			return
		}
		c := confirmerFor(r)
		doc, err := e.DeleteSection(r.Context(), actorFrom(r), i, c)
		if err != nil {
			writeError(w, err, c)
			return
		}
		writeJSON(w, http.StatusOK, doc)
	}
}

func handleSaveItem(e *Editor, create bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var at gallery.ItemRef
		if !create {
			var ok1, ok2 bool
			at.Section, ok1 = intParam(r, "section")
			at.Index, ok2 = intParam(r, "item")
			if !ok1 || !ok2 {
				badRequest(w, "invalid item address")
				return
			}
		}

		var in gallery.ItemInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			badRequest(w, "invalid request body")
			return
		}

		c := confirmerFor(r)
		var (
			ref gallery.ItemRef
			err error
		)
		if create {
			ref, err = e.AddItem(r.Context(), actorFrom(r), in, c)
		} else {
			ref, err = e.UpdateItem(r.Context(), actorFrom(r), at, in, c)
		}
		if err != nil {
			writeError(w, err, c)
			return
		}
		status := http.StatusOK
		if create {
			status = http.StatusCreated
		}
		writeJSON(w, status, ref)
	}
}

func handleDeleteItem(e *Editor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		section, ok1 := intParam(r, "section")
		index, ok2 := intParam(r, "item")
		if !ok1 || !ok2 {
			badRequest(w, "invalid item address")
			return
		}
		c := confirmerFor(r)
		doc, err := e.DeleteItem(r.Context(), actorFrom(r), gallery.ItemRef{Section: section, Index: index}, c)
		if err != nil {
			writeError(w, err, c)
			return
		}
		writeJSON(w, http.StatusOK, doc)
	}
}

type moveRequest struct {
	From    gallery.ItemRef `json:"from"`
	Section int             `json:"section"`
	Index   int             `json:"index"`
}

func handleMoveItem(e *Editor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req moveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "invalid request body")
			return
		}
		ref, err := e.MoveItem(r.Context(), actorFrom(r), req.From, req.Section, req.Index)
		if err != nil {
			writeError(w, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, ref)
	}
}

func handleGet[T any](get func(ctx context.Context) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := get(r.Context())
		if err != nil {
			writeError(w, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func handleSet[T any](set func(ctx context.Context, who Actor, v T) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var v T
		if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
			badRequest(w, "invalid request body")
			return
		}
		if err := set(r.Context(), actorFrom(r), v); err != nil {
			writeError(w, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func handleExport(e *Editor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := e.Export(r.Context(), actorFrom(r))
		if err != nil {
			writeError(w, err, nil)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="data.json"`)
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}
}

func handleImport(e *Editor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
		if err != nil {
			badRequest(w, "reading request body")
			return
		}
		fields, err := e.Import(r.Context(), actorFrom(r), data)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string][]string{"imported": fields})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
