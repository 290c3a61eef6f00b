package httpserver

import (
	"net/http"

	appinspections "github.com/bryanwahyu/pipeline-integrity/internal/application/inspections"
	"github.com/bryanwahyu/pipeline-integrity/internal/middleware"
)

// GET /inspections?segmentId=
func (r *Router) handleListInspections(w http.ResponseWriter, req *http.Request) error {
	segmentID, err := middleware.OptionalIDQuery(req, "segmentId")
	if err != nil {
		return err
	}
	list, err := r.svc.Inspections.List(req.Context(), segmentID)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}

// POST /inspections
func (r *Router) handleCreateInspection(w http.ResponseWriter, req *http.Request) error {
	var cmd appinspections.CreateCommand
	if err := decode(w, req, &cmd); err != nil {
		return err
	}
	id, err := r.svc.Inspections.Create(req.Context(), cmd)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, map[string]string{"inspectionId": id})
}

// DELETE /inspections/{id}
func (r *Router) handleDeleteInspection(w http.ResponseWriter, req *http.Request) error {
	if err := r.svc.Inspections.Delete(req.Context(), pathID(req, "id")); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
