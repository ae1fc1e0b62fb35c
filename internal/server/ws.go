package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ziadkadry99/docnav/internal/navtree"
	"github.com/ziadkadry99/docnav/internal/site"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsRequest is the incoming WebSocket message format.
type wsRequest struct {
	Type string `json:"type"` // "navigate", "toggle" or "state"
	URL  string `json:"url,omitempty"`
	// Base is prepended to sidebar links.
	Base string `json:"base,omitempty"`
}

// wsResponse is the outgoing WebSocket message format.
type wsResponse struct {
	Type    string `json:"type"` // "state" or "error"
	Error   string `json:"error,omitempty"`
	Sidebar string `json:"sidebar,omitempty"`
	*panelState
}

// wsClient is one connected sidebar. It owns its panel; mu serialises both
// panel access and writes to the connection.
type wsClient struct {
	mu    sync.Mutex
	conn  *websocket.Conn
	panel *navtree.Panel
	base  string
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	c := &wsClient{
		conn:  conn,
		panel: navtree.NewPanel(s.current().tree.Messages),
		base:  r.URL.Query().Get("base"),
	}
	s.clients.add(c)
	defer s.clients.remove(c)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("websocket read", zap.Error(err))
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			c.sendError("invalid message format")
			continue
		}
		s.handleMessage(c, req)
	}
}

func (s *Server) handleMessage(c *wsClient, req wsRequest) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if req.Base != "" {
		c.base = req.Base
	}
	updated := false
	switch req.Type {
	case "navigate":
		if req.URL == "" {
			c.writeLocked(wsResponse{Type: "error", Error: "url is required"})
			return
		}
		_, updated = c.panel.Navigate(s.current().resolver, req.URL)
	case "toggle":
		if c.panel.Toggle() && c.panel.LastURL() != "" {
			c.panel.Resync(s.current().resolver)
			updated = true
		}
	case "state":
	default:
		c.writeLocked(wsResponse{Type: "error", Error: "unknown message type: " + req.Type})
		return
	}
	c.writeLocked(s.stateMessage(c, updated))
}

// stateMessage builds the state reply for c; c.mu must be held.
func (s *Server) stateMessage(c *wsClient, updated bool) wsResponse {
	st, active := s.stateOf(c.panel, updated)
	sidebar := site.Sidebar(s.current().tree, site.SidebarOptions{
		BasePath: c.base,
		Active:   active,
		Sync:     st.Sync,
		Label:    st.Label,
	})
	return wsResponse{Type: "state", Sidebar: sidebar, panelState: &st}
}

func (c *wsClient) sendError(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writeLocked(wsResponse{Type: "error", Error: message})
}

func (c *wsClient) writeLocked(resp wsResponse) {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(resp); err != nil {
		// The read loop notices the broken connection and cleans up.
		c.conn.Close()
	}
}

// clientSet tracks connected sidebars so that a reload reaches all of them.
type clientSet struct {
	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

func newClientSet() *clientSet {
	return &clientSet{clients: make(map[*wsClient]struct{})}
}

func (cs *clientSet) add(c *wsClient) {
	cs.mu.Lock()
	cs.clients[c] = struct{}{}
	cs.mu.Unlock()
}

func (cs *clientSet) remove(c *wsClient) {
	cs.mu.Lock()
	delete(cs.clients, c)
	cs.mu.Unlock()
}

func (cs *clientSet) list() []*wsClient {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	out := make([]*wsClient, 0, len(cs.clients))
	for c := range cs.clients {
		out = append(out, c)
	}
	return out
}

// broadcast pushes the current state to every client.
func (cs *clientSet) broadcast(s *Server) {
	for _, c := range cs.list() {
		c.mu.Lock()
		c.writeLocked(s.stateMessage(c, false))
		c.mu.Unlock()
	}
}

func (cs *clientSet) closeAll() {
	for _, c := range cs.list() {
		c.mu.Lock()
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		c.conn.Close()
		c.mu.Unlock()
	}
}
