package httpserver

import "net/http"

// POST /analytics/recompute/{segmentId}
func (r *Router) handleRecompute(w http.ResponseWriter, req *http.Request) error {
	res, err := r.svc.Analytics.Recompute(req.Context(), pathID(req, "segmentId"))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, res)
}

// GET /analytics/summary
func (r *Router) handleSummary(w http.ResponseWriter, req *http.Request) error {
	sum, err := r.svc.Analytics.Summary(req.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, sum)
}
