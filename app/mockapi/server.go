// Package mockapi serves the blog backend's REST shapes from a fixture
// store. It stands in for the real backend during development and acts as
// the wire-level test double for the client.
package mockapi

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"vacationblog/app/fixtures"
)

// Server exposes a fixture store over the backend's HTTP surface.
type Server struct {
	store  fixtures.Store
	log    zerolog.Logger
	router *mux.Router
}

// New builds a server around store. A nil logger disables request logging.
func New(store fixtures.Store, logger *zerolog.Logger) *Server {
	s := &Server{
		store: store,
		log:   zerolog.Nop(),
	}
	if logger != nil {
		s.log = logger.With().Str("component", "mockapi").Logger()
	}
	s.router = s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// routes wires every endpoint shape the client knows how to call, current
// and legacy, so shape probing can be exercised against this server.
func (s *Server) routes() *mux.Router {
	router := mux.NewRouter()

	router.Use(s.requestLogger)
	router.Use(s.recoverer)
	router.Use(contentTypeJSON)

	api := router.PathPrefix("/api").Subrouter()

	posts := api.PathPrefix("/posts").Subrouter()
	posts.HandleFunc("/", s.listPosts).Methods("GET")
	posts.HandleFunc("/", s.createPost).Methods("POST")
	posts.HandleFunc("/by-slug/{slug}/", s.showPostBySlug).Methods("GET")
	posts.HandleFunc("/{id:[0-9]+}/", s.showPost).Methods("GET")
	posts.HandleFunc("/{id:[0-9]+}/", s.updatePost).Methods("PUT")
	posts.HandleFunc("/{id:[0-9]+}/", s.patchPost).Methods("PATCH")
	posts.HandleFunc("/{id:[0-9]+}/", s.deletePost).Methods("DELETE")
	// Slug form of the single-post route. Registered after the numeric
	// form so ids keep routing to showPost.
	posts.HandleFunc("/{slug}/", s.showPostBySlug).Methods("GET")

	comments := api.PathPrefix("/comments").Subrouter()
	comments.HandleFunc("/", s.listComments).Methods("GET")
	comments.HandleFunc("/", s.createComment).Methods("POST")
	comments.HandleFunc("/counts/", s.commentCounts).Methods("GET")
	comments.HandleFunc("/check-approved/{id:[0-9]+}/", s.checkApproved).Methods("GET")
	comments.HandleFunc("/post/{id:[0-9]+}/", s.commentsForPost).Methods("GET")
	comments.HandleFunc("/by-post/{id:[0-9]+}/", s.commentsForPost).Methods("GET")
	comments.HandleFunc("/{action:approve|unapprove|trash|restore|delete}/{id:[0-9]+}/", s.moderateComment).Methods("POST")

	api.HandleFunc("/auth/login/", s.login).Methods("POST")
	api.HandleFunc("/auth/register/", s.register).Methods("POST")
	api.HandleFunc("/profile/", s.profile).Methods("GET")

	return router
}

// Start serves handler on addr until the listener fails.
func Start(addr string, handler http.Handler) error {
	return http.ListenAndServe(addr, handler)
}

func (s *Server) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("failed to encode response")
	}
}

// sendError writes the backend's error shape, a detail message.
func (s *Server) sendError(w http.ResponseWriter, status int, detail string) {
	s.sendJSON(w, status, map[string]string{"detail": detail})
}
