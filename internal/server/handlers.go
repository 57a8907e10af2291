package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/flowboardhq/flowboard/pkg/errors"
	"github.com/flowboardhq/flowboard/pkg/render"
	"github.com/flowboardhq/flowboard/pkg/workflow"
)

// listResponse is the GET /workflows payload.
type listResponse struct {
	Workflows []string `json:"workflows"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeStore, err, "list workflows"))
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, listResponse{Workflows: ids})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var wf workflow.Workflow
	if err := json.NewDecoder(r.Body).Decode(&wf); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	if err := wf.Validate(); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidWorkflow, err, "invalid workflow"))
		return
	}

	if wf.ID == "" {
		wf.ID = workflow.NewID()
	} else if err := errors.ValidateID(wf.ID); err != nil {
		s.writeError(w, err)
		return
	}
	wf.CreatedAt = s.now().UTC()
	wf.UpdatedAt = wf.CreatedAt

	if err := s.store.Put(r.Context(), wf); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeStore, err, "store workflow"))
		return
	}
	writeJSON(w, http.StatusCreated, wf)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	wf, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wf)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateID(id); err != nil {
		s.writeError(w, err)
		return
	}

	var wf workflow.Workflow
	if err := json.NewDecoder(r.Body).Decode(&wf); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	if wf.ID != "" && wf.ID != id {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "body id %q does not match path id %q", wf.ID, id))
		return
	}
	wf.ID = id
	if err := wf.Validate(); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidWorkflow, err, "invalid workflow"))
		return
	}

	// Preserve the creation timestamp across replaces.
	if prev, err := s.store.Get(r.Context(), id); err == nil {
		wf.CreatedAt = prev.CreatedAt
	} else {
		wf.CreatedAt = s.now().UTC()
	}
	wf.UpdatedAt = s.now().UTC()

	if err := s.store.Put(r.Context(), wf); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeStore, err, "store workflow"))
		return
	}
	writeJSON(w, http.StatusOK, wf)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeStore, err, "delete workflow"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	wf, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "svg"
	}

	switch format {
	case "svg":
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write(render.SVG(wf))
	case "png":
		data, err := render.PNG(wf)
		if err != nil {
			s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "render png"))
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(data)
	case "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		w.Write([]byte(render.ToDOT(wf)))
	default:
		s.writeError(w, errors.New(errors.ErrCodeInvalidFormat, "unsupported export format %q", format))
	}
}

// writeJSON renders v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
