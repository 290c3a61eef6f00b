package httpserver

import (
	"net/http"

	apppipelines "github.com/bryanwahyu/pipeline-integrity/internal/application/pipelines"
)

// GET /pipelines
func (r *Router) handleListPipelines(w http.ResponseWriter, req *http.Request) error {
	list, err := r.svc.Pipelines.List(req.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /pipelines/{id}
func (r *Router) handleGetPipeline(w http.ResponseWriter, req *http.Request) error {
	p, err := r.svc.Pipelines.Get(req.Context(), pathID(req, "id"))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, p)
}

// POST /pipelines
func (r *Router) handleCreatePipeline(w http.ResponseWriter, req *http.Request) error {
	var cmd apppipelines.CreateCommand
	if err := decode(w, req, &cmd); err != nil {
		return err
	}
	p, err := r.svc.Pipelines.Create(req.Context(), cmd)
	if err != nil {
		return err
	}
	w.Header().Set("Location", r.location("/pipelines/%s", p.ID))
	return writeJSON(w, http.StatusCreated, p)
}

// PUT /pipelines/{id}
func (r *Router) handleUpdatePipeline(w http.ResponseWriter, req *http.Request) error {
	var cmd apppipelines.UpdateCommand
	if err := decode(w, req, &cmd); err != nil {
		return err
	}
	if err := r.svc.Pipelines.Update(req.Context(), pathID(req, "id"), cmd); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// DELETE /pipelines/{id}
func (r *Router) handleDeletePipeline(w http.ResponseWriter, req *http.Request) error {
	if err := r.svc.Pipelines.Delete(req.Context(), pathID(req, "id")); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
