// Package session serves the live side of the public page: a websocket per
// page view that drives hover previews and the lightbox.
package session

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/folio-web/folio/internal/lightbox"
	"github.com/folio-web/folio/internal/portfolio"
	"github.com/folio-web/folio/internal/render"
)

// Path is where pages open their session socket.
const Path = "/ws/page"

const writeWait = 10 * time.Second

// Inbound message types.
const (
	MsgHoverEnter = "hover_enter"
	MsgHoverLeave = "hover_leave"
	MsgOpen       = "open"
	MsgKey        = "key"
	MsgSwipe      = "swipe"
	MsgDrag       = "drag"
	MsgDot        = "dot"
	MsgClose      = "close"
	MsgBackground = "background"
)

// Outbound message types.
const (
	MsgHello    = "hello"
	MsgFrame    = "frame"
	MsgLightbox = "lightbox"
	MsgError    = "error"
)

// Request is a message from the page.
type Request struct {
	Type   string  `json:"type"`
	Item   string  `json:"item,omitempty"`
	Key    string  `json:"key,omitempty"`
	StartX float64 `json:"start_x,omitempty"`
	EndX   float64 `json:"end_x,omitempty"`
	Index  int     `json:"index,omitempty"`
}

// Response is a message to the page.
type Response struct {
	Type    string          `json:"type"`
	Session string          `json:"session,omitempty"`
	Item    string          `json:"item,omitempty"`
	Index   int             `json:"index"`
	Src     string          `json:"src,omitempty"`
	State   *lightbox.State `json:"state,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// DatasetFunc returns the dataset the current page was rendered from.
type DatasetFunc func(ctx context.Context) (*portfolio.SiteDataset, error)

// Handler upgrades page connections and runs one session per connection.
type Handler struct {
	dataset  DatasetFunc
	logger   *zap.Logger
	interval time.Duration
	upgrader websocket.Upgrader
}

// NewHandler returns a Handler that builds each session from dataset.
func NewHandler(dataset DatasetFunc, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		dataset:  dataset,
		logger:   logger,
		interval: render.HoverInterval,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// WithHoverInterval overrides the hover preview period.
func (h *Handler) WithHoverInterval(d time.Duration) *Handler {
	h.interval = d
	return h
}

// RegisterRoutes mounts the session socket onto r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get(Path, h.serveWS)
}

func (h *Handler) serveWS(w http.ResponseWriter, r *http.Request) {
	ds, err := h.dataset(r.Context())
	if err != nil {
		h.logger.Error("loading dataset for session", zap.Error(err))
		http.Error(w, `{"error":"dataset unavailable"}`, http.StatusInternalServerError)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade", zap.Error(err))
		return
	}

	s := newSession(conn, render.BuildGallery(ds.Gallery), h.interval, h.logger)
	defer s.close()
	s.run()
}

// session is the per-connection state: one hover cycler and one lightbox.
type session struct {
	id     string
	conn   *websocket.Conn
	logger *zap.Logger

	items  []portfolio.GalleryItem
	tiles  map[string]render.ItemView
	cycler *render.Cycler
	nav    *lightbox.Navigator

	writeMu sync.Mutex
}

func newSession(conn *websocket.Conn, view render.GalleryView, interval time.Duration, logger *zap.Logger) *session {
	s := &session{
		id:    uuid.NewString(),
		conn:  conn,
		items: view.Items,
		tiles: make(map[string]render.ItemView),
		nav:   lightbox.New(),
	}
	s.logger = logger.With(zap.String("session", s.id))
	for _, sec := range view.Sections {
		for _, it := range sec.Items {
			s.tiles[it.ID] = it
		}
	}
	s.cycler = render.NewCycler(interval, s.sendFrame)
	return s
}

func (s *session) run() {
	s.send(Response{Type: MsgHello, Session: s.id})

	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read", zap.Error(err))
			}
			return
		}

		var req Request
		if err := json.Unmarshal(msg, &req); err != nil {
			s.sendError("invalid message format")
			continue
		}
		s.dispatch(req)
	}
}

func (s *session) dispatch(req Request) {
	switch req.Type {
	case MsgHoverEnter:
		tile, ok := s.tiles[req.Item]
		if !ok {
			s.sendError("unknown item: " + req.Item)
			return
		}
		s.cycler.Enter(tile.ID, len(tile.Images))
	case MsgHoverLeave:
		s.cycler.Leave(req.Item)
	case MsgOpen:
		tile, ok := s.tiles[req.Item]
		if !ok {
			s.sendError("unknown item: " + req.Item)
			return
		}
		s.nav.Open(s.items, tile.FlatIndex)
		s.sendState()
	case MsgKey:
		s.nav.HandleKey(req.Key)
		s.sendState()
	case MsgSwipe:
		s.nav.HandleSwipe(req.StartX, req.EndX)
		s.sendState()
	case MsgDrag:
		s.nav.HandleDrag(req.StartX, req.EndX)
		s.sendState()
	case MsgDot:
		s.nav.JumpTo(req.Index)
		s.sendState()
	case MsgClose:
		s.nav.Close()
		s.sendState()
	case MsgBackground:
		s.nav.HandleBackgroundClick()
		s.sendState()
	default:
		s.sendError("unknown message type: " + req.Type)
	}
}

func (s *session) sendFrame(f render.Frame) {
	tile, ok := s.tiles[f.Item]
	if !ok || f.Index >= len(tile.Images) {
		return
	}
	s.send(Response{Type: MsgFrame, Item: f.Item, Index: f.Index, Src: tile.Images[f.Index]})
}

func (s *session) sendState() {
	st := s.nav.State()
	s.send(Response{Type: MsgLightbox, Index: st.ImageIndex, State: &st})
}

func (s *session) sendError(message string) {
	s.send(Response{Type: MsgError, Error: message})
}

func (s *session) send(resp Response) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(resp); err != nil {
		s.logger.Debug("websocket write", zap.String("type", resp.Type), zap.Error(err))
	}
}

func (s *session) close() {
	s.cycler.Close()
	s.nav.Close()
	s.conn.Close()
}
