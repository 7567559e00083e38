package mockapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// credentials is the login/register input the auth stubs accept.
type credentials struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// login issues fresh opaque tokens for any non-empty credentials. The mock
// does not keep accounts; it only exercises the client's token handling.
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	creds, ok := s.readCredentials(w, r)
	if !ok {
		return
	}

	s.log.Info().Str("username", creds.Username).Msg("issuing tokens")
	s.sendJSON(w, http.StatusOK, map[string]string{
		"access":  "mock-access-" + uuid.NewString(),
		"refresh": "mock-refresh-" + uuid.NewString(),
	})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	creds, ok := s.readCredentials(w, r)
	if !ok {
		return
	}

	s.log.Info().Str("username", creds.Username).Msg("registering user")
	s.sendJSON(w, http.StatusCreated, map[string]string{
		"access":  "mock-access-" + uuid.NewString(),
		"refresh": "mock-refresh-" + uuid.NewString(),
	})
}

// profile requires a bearer token and echoes a fixed admin profile.
func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") == "" {
		s.sendError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	s.sendJSON(w, http.StatusOK, map[string]interface{}{
		"id":       1,
		"username": "admin",
		"email":    "admin@example.com",
	})
}

func (s *Server) readCredentials(w http.ResponseWriter, r *http.Request) (credentials, bool) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return creds, false
	}
	if creds.Username == "" || creds.Password == "" {
		s.sendError(w, http.StatusBadRequest, "username and password are required")
		return creds, false
	}
	return creds, true
}
