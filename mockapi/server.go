// ABOUTME: In-memory stand-in for the CRM backend served with chi
// ABOUTME: Implements list/create/patch for every collection plus soft delete and bearer auth
package mockapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/harperreed/crmdesk/logging"
	"github.com/sirupsen/logrus"
)

// Collection names served by the mock.
const (
	Contacts   = "contacts"
	Leads      = "leads"
	Locations  = "locations"
	Properties = "properties"
	Roles      = "roles"
	Users      = "users"
)

var requiredFields = map[string]string{
	Contacts:   "first_name",
	Leads:      "contact_id",
	Locations:  "label",
	Properties: "reference",
	Users:      "email",
}

// Response is the JSON envelope for every non-empty reply.
type Response struct {
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

type record map[string]any

// Server holds every collection in memory.
type Server struct {
	token  string
	logger logrus.FieldLogger

	mu      sync.Mutex
	records map[string]map[int64]record
	nextID  map[string]int64
}

// Option configures a Server.
type Option func(*Server)

// WithLogger logs every request through l.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// New returns an empty server. An empty token disables auth.
func New(token string, opts ...Option) *Server {
	discard := logging.Discard()

	s := &Server{
		token:   token,
		logger:  discard,
		records: make(map[string]map[int64]record),
		nextID:  make(map[string]int64),
	}
	for _, name := range []string{Contacts, Leads, Locations, Properties, Roles, Users} {
		s.records[name] = make(map[int64]record)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(s.bearerAuth)

	for _, name := range []string{Contacts, Leads, Locations, Properties, Users} {
		name := name
		r.Get("/"+name, s.list(name))
		r.Post("/"+name, s.create(name))
		r.Patch("/"+name+"/{id}", s.patch(name))
	}
	r.Post("/users/{id}/delete", s.deleteUser)
	r.Get("/roles/search", s.searchRoles)

	return r
}

// Seed stores v in collection and returns its id. A missing id is
// assigned the next sequential value.
func (s *Server) Seed(collection string, v any) (int64, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return 0, fmt.Errorf("failed to encode seed: %w", err)
	}
	rec := record{}
	if err := json.Unmarshal(data, &rec); err != nil {
		return 0, fmt.Errorf("failed to decode seed: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, ok := s.records[collection]
	if !ok {
		return 0, fmt.Errorf("unknown collection %q", collection)
	}

	id := toInt64(rec["id"])
	if id == 0 {
		s.nextID[collection]++
		id = s.nextID[collection]
	} else if id > s.nextID[collection] {
		s.nextID[collection] = id
	}
	rec["id"] = id
	items[id] = prepare(collection, rec)
	return id, nil
}

// Get returns a copy of a stored record, including soft-deleted ones.
func (s *Server) Get(collection string, id int64) (map[string]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[collection][id]
	if !ok {
		return nil, false
	}
	return copyRecord(rec), true
}

func (s *Server) list(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.visible(name))
	}
}

func (s *Server) searchRoles(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(r.URL.Query().Get("q"))
	var out []record
	for _, rec := range s.visible(Roles) {
		name, _ := rec["name"].(string)
		if q == "" || strings.Contains(strings.ToLower(name), q) {
			out = append(out, rec)
		}
	}
	if out == nil {
		out = []record{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"roles": out})
}

func (s *Server) create(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, ok := decodeRecord(w, r)
		if !ok {
			return
		}
		if field := requiredFields[name]; isBlank(rec[field]) {
			writeError(w, http.StatusUnprocessableEntity, field+" is required")
			return
		}
		delete(rec, "id")

		s.mu.Lock()
		s.nextID[name]++
		id := s.nextID[name]
		rec["id"] = id
		rec = prepare(name, rec)
		s.records[name][id] = rec
		out := copyRecord(rec)
		s.mu.Unlock()

		writeJSON(w, http.StatusCreated, out)
	}
}

func (s *Server) patch(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		changes, ok := decodeRecord(w, r)
		if !ok {
			return
		}
		delete(changes, "id")

		s.mu.Lock()
		rec, found := s.records[name][id]
		if !found {
			s.mu.Unlock()
			writeError(w, http.StatusNotFound, fmt.Sprintf("%s %d not found", name, id))
			return
		}
		if notes, ok := changes["notes"]; ok && name == Leads {
			rec["notes"] = appendNotes(rec["notes"], notes)
			delete(changes, "notes")
		}
		for k, v := range changes {
			rec[k] = v
		}
		rec = prepare(name, rec)
		s.records[name][id] = rec
		out := copyRecord(rec)
		s.mu.Unlock()

		writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	_, found := s.records[Users][id]
	delete(s.records[Users], id)
	s.mu.Unlock()

	if !found {
		writeError(w, http.StatusNotFound, fmt.Sprintf("users %d not found", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// visible returns records not soft-deleted, ordered by id.
func (s *Server) visible(name string) []record {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]record, 0, len(s.records[name]))
	for _, rec := range s.records[name] {
		if status, _ := rec["status"].(string); strings.EqualFold(status, "deleted") {
			continue
		}
		out = append(out, copyRecord(rec))
	}
	sort.Slice(out, func(i, j int) bool {
		return toInt64(out[i]["id"]) < toInt64(out[j]["id"])
	})
	return out
}

func (s *Server) bearerAuth(next http.Handler) http.Handler {
	if s.token == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+s.token {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"request_id": r.Header.Get("X-Request-ID"),
			"duration":   time.Since(start).String(),
		}).Info("request")
	})
}

// prepare applies the backend's own formatting quirks to a stored record.
func prepare(name string, rec record) record {
	if name == Users {
		status, _ := rec["status"].(string)
		switch strings.ToLower(status) {
		case "", "active":
			rec["status"] = "Active"
		case "inactive":
			rec["status"] = "Inactive"
		}
	}
	if name == Leads {
		if notes, ok := rec["notes"]; ok {
			rec["notes"] = appendNotes(nil, notes)
		}
	}
	return rec
}

// appendNotes adds submitted note records, assigning ids to new ones.
func appendNotes(existing, submitted any) []any {
	out, _ := existing.([]any)
	out = append([]any{}, out...)
	items, _ := submitted.([]any)
	for _, item := range items {
		n, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if toInt64(n["id"]) == 0 {
			n["id"] = int64(len(out) + 1)
			n["created_at"] = time.Now().UTC().Format(time.RFC3339)
		}
		out = append(out, n)
	}
	return out
}

func decodeRecord(w http.ResponseWriter, r *http.Request) (record, bool) {
	rec := record{}
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return nil, false
	}
	return rec, true
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := strings.TrimSuffix(chi.URLParam(r, "id"), ".json")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{Data: data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{Error: msg})
}

func copyRecord(rec record) record {
	out := make(record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case float64:
		return t == 0
	}
	return false
}

func toInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case json.Number:
		n, _ := t.Int64()
		return n
	}
	return 0
}
