package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ziadkadry99/docnav/internal/navtree"
)

// maxPanels bounds the number of HTTP panel sessions kept in memory.
const maxPanels = 1024

// panelSession is one navigation panel driven over the REST API.
type panelSession struct {
	mu    sync.Mutex
	panel *navtree.Panel
}

// panelRegistry holds the panel sessions by ID.
type panelRegistry struct {
	mu     sync.RWMutex
	panels map[string]*panelSession
	order  []string
}

func newPanelRegistry() *panelRegistry {
	return &panelRegistry{panels: make(map[string]*panelSession)}
}

// create registers a new panel, evicting the oldest one when full.
func (r *panelRegistry) create(msgs navtree.Messages) (string, *panelSession) {
	id := uuid.NewString()
	ps := &panelSession{panel: navtree.NewPanel(msgs)}

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.order) >= maxPanels {
		oldest := r.order[0]
		r.order = r.order[1:]
		delete(r.panels, oldest)
	}
	r.panels[id] = ps
	r.order = append(r.order, id)
	return id, ps
}

func (r *panelRegistry) get(id string) (*panelSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ps, ok := r.panels[id]
	return ps, ok
}

func (r *panelRegistry) remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.panels[id]; !ok {
		return false
	}
	delete(r.panels, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// panelState is the JSON form of a panel.
type panelState struct {
	ID      string          `json:"id,omitempty"`
	Sync    bool            `json:"sync"`
	Label   string          `json:"label"`
	LastURL string          `json:"last_url,omitempty"`
	Updated bool            `json:"updated"`
	Active  navtree.Summary `json:"active"`
}

// stateOf describes p against the current tree. A selection made on a
// previous tree is resolved again so that it points into the current one,
// and the labels follow the current tree's messages. Callers hold the
// panel's lock.
func (s *Server) stateOf(p *navtree.Panel, updated bool) (panelState, navtree.Resolution) {
	cur := s.current()
	p.SetMessages(cur.tree.Messages)
	active := p.Active()
	if active.URL != "" {
		active = cur.resolver.Resolve(active.URL)
	}
	return panelState{
		Sync:    p.Enabled(),
		Label:   p.Label(),
		LastURL: p.LastURL(),
		Updated: updated,
		Active:  active.Summarize(),
	}, active
}

// navigateRequest is the JSON body for the navigate endpoint.
type navigateRequest struct {
	URL string `json:"url"`
}

func (s *Server) handleCreatePanel(w http.ResponseWriter, r *http.Request) {
	id, ps := s.panels.create(s.current().tree.Messages)
	ps.mu.Lock()
	st, _ := s.stateOf(ps.panel, false)
	ps.mu.Unlock()
	st.ID = id
	writeJSON(w, http.StatusCreated, st)
}

func (s *Server) handleGetPanel(w http.ResponseWriter, r *http.Request) {
	s.withPanel(w, r, func(id string, p *navtree.Panel) (panelState, int) {
		st, _ := s.stateOf(p, false)
		return st, http.StatusOK
	})
}

func (s *Server) handleDeletePanel(w http.ResponseWriter, r *http.Request) {
	if !s.panels.remove(chi.URLParam(r, "id")) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "panel not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleTogglePanel flips synchronisation. Turning it back on catches up
// with the last page the panel was told about.
func (s *Server) handleTogglePanel(w http.ResponseWriter, r *http.Request) {
	s.withPanel(w, r, func(id string, p *navtree.Panel) (panelState, int) {
		updated := false
		if p.Toggle() && p.LastURL() != "" {
			p.Resync(s.current().resolver)
			updated = true
		}
		st, _ := s.stateOf(p, updated)
		return st, http.StatusOK
	})
}

func (s *Server) handleNavigatePanel(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.URL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "url is required"})
		return
	}
	s.withPanel(w, r, func(id string, p *navtree.Panel) (panelState, int) {
		_, updated := p.Navigate(s.current().resolver, req.URL)
		st, _ := s.stateOf(p, updated)
		return st, http.StatusOK
	})
}

// withPanel runs fn with the panel named by the {id} URL parameter locked.
func (s *Server) withPanel(w http.ResponseWriter, r *http.Request, fn func(id string, p *navtree.Panel) (panelState, int)) {
	id := chi.URLParam(r, "id")
	ps, ok := s.panels.get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "panel not found"})
		return
	}
	ps.mu.Lock()
	st, status := fn(id, ps.panel)
	ps.mu.Unlock()
	st.ID = id
	writeJSON(w, status, st)
}
