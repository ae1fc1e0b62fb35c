package server

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/ziadkadry99/docnav/internal/navtree"
)

// Config holds server configuration.
type Config struct {
	Port     int
	DocsDir  string // Doxygen HTML output served under /; empty disables static files
	AllowAll bool   // allow all CORS origins (dev mode)
}

// snapshot is one loaded documentation set. It is replaced as a whole on
// reload and never modified.
type snapshot struct {
	tree     *navtree.Tree
	resolver *navtree.Resolver
	loaded   time.Time
}

// Server serves a navigation tree over HTTP and WebSocket.
type Server struct {
	cfg        Config
	log        *zap.Logger
	state      atomic.Pointer[snapshot]
	panels     *panelRegistry
	clients    *clientSet
	router     chi.Router
	httpServer *http.Server
}

// New creates a server for tree. A nil logger disables logging.
func New(cfg Config, tree *navtree.Tree, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		cfg:     cfg,
		log:     log.Named("server"),
		panels:  newPanelRegistry(),
		clients: newClientSet(),
	}
	s.SetTree(tree)
	s.router = s.buildRouter()
	return s
}

// SetTree atomically replaces the served tree and pushes the new state to
// connected panels.
func (s *Server) SetTree(tree *navtree.Tree) {
	s.state.Store(&snapshot{
		tree:     tree,
		resolver: navtree.NewResolver(tree),
		loaded:   time.Now(),
	})
	s.clients.broadcast(s)
}

// Tree returns the tree currently served.
func (s *Server) Tree() *navtree.Tree { return s.current().tree }

func (s *Server) current() *snapshot { return s.state.Load() }

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// The WebSocket outlives any request timeout.
	r.Get("/ws", s.handleWebSocket)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Route("/api", func(r chi.Router) {
			r.Get("/tree", s.handleTree)
			r.Get("/index", s.handleIndex)
			r.Get("/resolve", s.handleResolve)
			r.Get("/check", s.handleCheck)
			r.Get("/search", s.handleSearch)

			r.Route("/panels", func(r chi.Router) {
				r.Post("/", s.handleCreatePanel)
				r.Get("/{id}", s.handleGetPanel)
				r.Delete("/{id}", s.handleDeletePanel)
				r.Post("/{id}/toggle", s.handleTogglePanel)
				r.Post("/{id}/navigate", s.handleNavigatePanel)
			})
		})

		r.Get("/sidebar", s.handleSidebar)
		r.Get("/outline", s.handleOutline)
		r.Get("/docnav.css", s.handleAsset)
		r.Get("/docnav.js", s.handleAsset)

		if s.cfg.DocsDir != "" {
			r.Handle("/*", http.FileServer(http.Dir(s.cfg.DocsDir)))
		}
	})

	return r
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// ServerConfig returns the server configuration.
func (s *Server) ServerConfig() Config { return s.cfg }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.log.Info("docnav server listening", zap.String("addr", addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server and closes open panels.
func (s *Server) Shutdown(ctx context.Context) error {
	s.clients.closeAll()
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// requestLogger logs every request at debug level.
func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("took", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
