// Package apiserver exposes the grammar-analysis engine over HTTP: sessions
// are created from posted rule text and then queried for FIRST/FOLLOW sets,
// the LL(1) table, and recognition results.
//
// Routing follows the teacher's server package: go-chi/chi/v5 for the
// router, golang-jwt/jwt/v5 bearer tokens guarding the routes that create or
// mutate state, and golang.org/x/crypto/bcrypt protecting the admin secret
// those tokens are minted from. Unlike the teacher's full user/session
// model, there is a single shared admin secret rather than a user table -
// this API has no concept of per-user accounts, only of grammar sessions.
package apiserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/kvarga/llgrammar"
	"github.com/kvarga/llgrammar/internal/llerrors"
	"github.com/kvarga/llgrammar/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// Server wires the Analyzer facade and the session store into an
// http.Handler.
type Server struct {
	st            *store.Store
	live          map[uuid.UUID]*llgrammar.Analyzer
	adminKeyHash  []byte
	jwtSigningKey []byte
	router        chi.Router
}

// New builds a Server. adminKey is the plaintext admin secret that clients
// must present to POST /auth/token to mint a bearer token; it is hashed with
// bcrypt immediately and never retained in plaintext. jwtSigningKey signs
// the minted tokens.
func New(st *store.Store, adminKey string, jwtSigningKey []byte) (*Server, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(adminKey), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin key: %w", err)
	}

	s := &Server{
		st:            st,
		live:          map[uuid.UUID]*llgrammar.Analyzer{},
		adminKeyHash:  hash,
		jwtSigningKey: jwtSigningKey,
	}
	s.routes()
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()

	r.Post("/auth/token", s.handleMintToken)

	r.Route("/sessions", func(r chi.Router) {
		r.With(s.requireAuth).Post("/", s.handleCreateSession)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/first/{name}", s.handleFirst)
			r.Get("/follow/{name}", s.handleFollow)
			r.Get("/table", s.handleTable)
			r.With(s.requireAuth).Post("/recognize", s.handleRecognize)
		})
	})

	s.router = r
}

// requireAuth enforces a valid HS512 bearer token minted by handleMintToken.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok, err := bearerToken(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}

		_, err = jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
			return s.jwtSigningKey, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer("llgramctl"), jwt.WithLeeway(time.Minute))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || h[:len(prefix)] != prefix {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}
	return h[len(prefix):], nil
}

type tokenRequest struct {
	Key string `json:"key"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (s *Server) handleMintToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if err := bcrypt.CompareHashAndPassword(s.adminKeyHash, []byte(req.Key)); err != nil {
		writeError(w, http.StatusUnauthorized, "bad admin key")
		return
	}

	claims := jwt.MapClaims{
		"iss": "llgramctl",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	tokStr, err := tok.SignedString(s.jwtSigningKey)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not sign token")
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: tokStr})
}

type createSessionRequest struct {
	Name  string   `json:"name"`
	Rules []string `json:"rules"`
}

type sessionResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	IsLL1 bool   `json:"is_ll1"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	a := llgrammar.New()
	a.ParseAll(req.Rules)

	saved, err := s.st.Save(r.Context(), req.Name, req.Rules, a)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.live[saved.ID] = a

	writeJSON(w, http.StatusCreated, sessionResponse{ID: saved.ID.String(), Name: saved.Name, IsLL1: a.IsLL1()})
}

func (s *Server) analyzerFor(r *http.Request) (*llgrammar.Analyzer, uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return nil, uuid.UUID{}, false
	}
	a, ok := s.live[id]
	return a, id, ok
}

func (s *Server) handleFirst(w http.ResponseWriter, r *http.Request) {
	a, id, ok := s.analyzerFor(r)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	lock := s.st.Lock(id)
	lock.Lock()
	defer lock.Unlock()

	name := chi.URLParam(r, "name")
	first, err := a.First(name)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sortedSetResponse(first))
}

func (s *Server) handleFollow(w http.ResponseWriter, r *http.Request) {
	a, id, ok := s.analyzerFor(r)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	lock := s.st.Lock(id)
	lock.Lock()
	defer lock.Unlock()

	name := chi.URLParam(r, "name")
	follow, err := a.Follow(name)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sortedSetResponse(follow))
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	a, id, ok := s.analyzerFor(r)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	lock := s.st.Lock(id)
	lock.Lock()
	defer lock.Unlock()

	snap, err := store.BuildSnapshot(a)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

type recognizeRequest struct {
	Input string `json:"input"`
}

type recognizeResponse struct {
	Accepted bool `json:"accepted"`
}

func (s *Server) handleRecognize(w http.ResponseWriter, r *http.Request) {
	a, id, ok := s.analyzerFor(r)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	lock := s.st.Lock(id)
	lock.Lock()
	defer lock.Unlock()

	var req recognizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	accepted, err := a.Recognize(req.Input)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recognizeResponse{Accepted: accepted})
}

func writeQueryError(w http.ResponseWriter, err error) {
	switch {
	case llerrors.IsUnknownSymbol(err):
		writeError(w, http.StatusNotFound, err.Error())
	case llerrors.IsIllFormed(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func sortedSetResponse(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
