// Package server exposes the catalog reader over a read-only HTTP API.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/corbelan/sqlany/internal/errs"
	"github.com/corbelan/sqlany/internal/logger"
	"github.com/corbelan/sqlany/internal/sqlany"
)

// Server serves schema-inspection endpoints backed by a catalog Reader.
type Server struct {
	reader *sqlany.Reader
	log    *logger.Logger
}

// New returns a Server over reader. A nil log uses the default logger.
func New(reader *sqlany.Reader, log *logger.Logger) *Server {
	if log == nil {
		log = logger.New(nil)
	}
	return &Server{reader: reader, log: log}
}

// Routes builds the chi router. All endpoints are read-only.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/tables", s.handleTables)
	r.Get("/views", s.handleViews)
	r.Get("/schema", s.handleSchema)

	r.Route("/tables/{table}", func(r chi.Router) {
		r.Get("/columns", s.handleColumns)
		r.Get("/indexes", s.handleIndexes)
		r.Get("/primary-key", s.handlePrimaryKey)
		r.Get("/foreign-keys", s.handleForeignKeys)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	tables, err := s.reader.ListTables(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]any{"tables": tables})
}

func (s *Server) handleViews(w http.ResponseWriter, r *http.Request) {
	views, err := s.reader.ListViews(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]any{"views": views})
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	schema, err := sqlany.Inspect(r.Context(), s.reader)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, schema)
}

func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	cols, err := s.reader.ListColumns(r.Context(), table)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]any{"table": table, "columns": cols})
}

func (s *Server) handleIndexes(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	indexes, err := s.reader.ListIndexes(r.Context(), table)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]any{"table": table, "indexes": indexes})
}

func (s *Server) handlePrimaryKey(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	cols, err := s.reader.PrimaryKeyColumns(r.Context(), table)
	if err != nil {
		s.respondError(w, err)
		return
	}
	if cols == nil {
		s.respondError(w, errs.New(errs.ErrKindNotFound, "table has no primary key"))
		return
	}
	s.respond(w, http.StatusOK, map[string]any{"table": table, "primary_key": cols})
}

func (s *Server) handleForeignKeys(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	fks, err := s.reader.ListForeignKeys(r.Context(), table)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]any{"table": table, "foreign_keys": fks})
}

// --- response helpers ---

func (s *Server) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.ErrorWith("failed to encode response", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errs.IsNotFound(err):
		status = http.StatusNotFound
	case errs.IsInvalidInput(err):
		status = http.StatusBadRequest
	case errs.IsTimeout(err):
		status = http.StatusGatewayTimeout
	}

	if status == http.StatusInternalServerError {
		s.log.ErrorWith("request failed", err)
	}
	s.respond(w, status, map[string]string{"error": err.Error()})
}
