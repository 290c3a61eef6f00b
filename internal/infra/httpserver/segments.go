package httpserver

import (
	"net/http"

	appsegments "github.com/bryanwahyu/pipeline-integrity/internal/application/segments"
	"github.com/bryanwahyu/pipeline-integrity/internal/middleware"
)

// GET /segments?pipelineId=
func (r *Router) handleListSegments(w http.ResponseWriter, req *http.Request) error {
	pipelineID, err := middleware.OptionalIDQuery(req, "pipelineId")
	if err != nil {
		return err
	}
	list, err := r.svc.Segments.List(req.Context(), pipelineID)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}

// POST /segments
func (r *Router) handleCreateSegment(w http.ResponseWriter, req *http.Request) error {
	var cmd appsegments.CreateCommand
	if err := decode(w, req, &cmd); err != nil {
		return err
	}
	id, err := r.svc.Segments.Create(req.Context(), cmd)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, map[string]string{"segmentId": id})
}

// PUT /segments/{id}
func (r *Router) handleUpdateSegment(w http.ResponseWriter, req *http.Request) error {
	var cmd appsegments.UpdateCommand
	if err := decode(w, req, &cmd); err != nil {
		return err
	}
	if err := r.svc.Segments.Update(req.Context(), pathID(req, "id"), cmd); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// DELETE /segments/{id}
func (r *Router) handleDeleteSegment(w http.ResponseWriter, req *http.Request) error {
	if err := r.svc.Segments.Delete(req.Context(), pathID(req, "id")); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
