package server

import (
	"bytes"
	"encoding/json"
	"html/template"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/ziadkadry99/docnav/internal/navtree"
	"github.com/ziadkadry99/docnav/internal/site"
)

// treeResponse is the JSON response for /api/tree.
type treeResponse struct {
	Roots    []*navtree.Node  `json:"roots"`
	Chunked  bool             `json:"chunked"`
	Nodes    int              `json:"nodes"`
	Messages navtree.Messages `json:"messages"`
	Loaded   time.Time        `json:"loaded"`
}

// checkResponse is the JSON response for /api/check.
type checkResponse struct {
	*navtree.Report
	OK       bool     `json:"ok"`
	Findings []string `json:"findings"`
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	st := s.current()
	writeJSON(w, http.StatusOK, treeResponse{
		Roots:    st.tree.Roots,
		Chunked:  st.tree.Chunked(),
		Nodes:    st.tree.Count(),
		Messages: st.tree.Messages,
		Loaded:   st.loaded,
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	index := s.current().tree.Index
	if index == nil {
		index = []string{}
	}
	writeJSON(w, http.StatusOK, index)
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "url is required"})
		return
	}
	writeJSON(w, http.StatusOK, s.current().resolver.Resolve(url).Summarize())
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	rep := s.current().tree.Check()
	findings := rep.Findings()
	if findings == nil {
		findings = []string{}
	}
	writeJSON(w, http.StatusOK, checkResponse{Report: rep, OK: rep.OK(), Findings: findings})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "q is required"})
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = n
	}
	results := site.Search(s.current().tree, q, limit)
	if results == nil {
		results = []site.SearchEntry{}
	}
	writeJSON(w, http.StatusOK, results)
}

// handleSidebar returns the sidebar fragment for ?url=. sync=false renders
// the control in its disabled state.
func (s *Server) handleSidebar(w http.ResponseWriter, r *http.Request) {
	st := s.current()
	q := r.URL.Query()
	sync := q.Get("sync") != "false"

	label := st.tree.Messages.SyncOff
	if sync {
		label = st.tree.Messages.SyncOn
	}
	var res navtree.Resolution
	if u := q.Get("url"); u != "" {
		res = st.resolver.Resolve(u)
	}
	html := site.Sidebar(st.tree, site.SidebarOptions{
		BasePath: q.Get("base"),
		Active:   res,
		Sync:     sync,
		Label:    label,
	})
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	st := s.current()
	body, err := site.RenderOutline(st.tree)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	title := "Navigation"
	if len(st.tree.Roots) > 0 && st.tree.Roots[0].Title != "" {
		title = st.tree.Roots[0].Title
	}
	var buf bytes.Buffer
	err = site.RenderPage(&buf, site.PageData{
		Title:    title,
		BasePath: "/",
		Sidebar: template.HTML(site.Sidebar(st.tree, site.SidebarOptions{
			BasePath: "/",
			Sync:     true,
			Label:    st.tree.Messages.SyncOn,
		})),
		Content: template.HTML(body),
		Script:  true,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	switch path.Base(r.URL.Path) {
	case site.StylesheetName:
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		w.Write([]byte(site.Stylesheet()))
	default:
		w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
		w.Write([]byte(site.Script()))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
