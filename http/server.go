package http

import (
	"context"
	"github.com/go-kit/kit/log"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"net"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"
	"tower"
)

// ShutdownTimeout is the time given for outstanding requests to finish before shutdown.
const ShutdownTimeout = 1 * time.Second

// Server exposes services over HTTP.
type Server struct {
	ln     net.Listener
	server *http.Server
	router *mux.Router

	routesOnce sync.Once

	// Bind address for the server's listener.
	Addr string

	// Origins allowed by CORS.
	AllowedOrigins []string

	// Logs transport errors. Defaults to a no-op logger.
	Logger log.Logger

	// Service constructors. Each request gets its own instance; routes of an
	// unset constructor answer ENOTIMPLEMENTED.
	EchoService        func() tower.EchoService
	AlternatingService func() tower.AlternatingReadyService
}

func NewServer() *Server {
	s := &Server{
		router:         mux.NewRouter(),
		server:         &http.Server{},
		AllowedOrigins: []string{"http://localhost:3000"},
		Logger:         log.NewNopLogger(),
	}

	// Our router is wrapped by another function handler to perform some
	// middleware-like tasks that cannot be performed by actual middleware.
	// This includes changing route paths for JSON endpoints.
	s.server.Handler = http.HandlerFunc(s.serveHTTP)

	return s
}

// Handler returns the server's HTTP handler. Routes are registered on first
// use, so services must be attached before.
func (s *Server) Handler() http.Handler {
	s.routesOnce.Do(s.registerRoutes)
	return s.server.Handler
}

// Open opens the listener and begins serving in the background.
func (s *Server) Open() (err error) {
	s.Handler()

	// Open the listener synchronously so that bind errors (such as trying to
	// use an already open port) are reported to the caller.
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}

	go func() { _ = s.server.Serve(s.ln) }()

	return nil
}

// URL returns the base URL of the running server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) serveHTTP(w http.ResponseWriter, r *http.Request) {
	// Override content-type for certain extensions.
	// This allows us to easily cURL API endpoints with a ".json"
	// extension instead of having to explicitly set Content-type & Accept headers.
	// The extension is removed so it doesn't appear in the routes.
	if path.Ext(r.URL.Path) == ".json" {
		r.Header.Set("Accept", "application/json")
		r.Header.Set("Content-type", "application/json")
		r.URL.Path = strings.TrimSuffix(r.URL.Path, ".json")
	}

	// Allow CORS
	allowedHeaders := handlers.AllowedHeaders([]string{"Content-Type", RequestIDHeader})
	allowedOrigins := handlers.AllowedOrigins(s.AllowedOrigins)
	allowedMethods := handlers.AllowedMethods([]string{"GET", "HEAD", "POST", "OPTIONS"})

	// Delegate remaining HTTP handling to the gorilla router.
	handlers.CORS(
		allowedOrigins,
		allowedHeaders,
		allowedMethods,
	)(s.router).ServeHTTP(w, r)
}
