package api

// Handlers for inspecting and triggering background maintenance jobs.

import (
	"encoding/json"
	"net/http"
)

// handleGetAdminJobsStatus returns the status of all registered jobs.
func (s *Server) handleGetAdminJobsStatus(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, s.app.JobManager().GetStatus())
}

// handleRunAdminJob triggers a registered job by id.
func (s *Server) handleRunAdminJob(w http.ResponseWriter, r *http.Request) {
	var body struct {
		JobID string `json:"job_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.JobID == "" {
		RespondWithError(w, http.StatusBadRequest, "Missing job_id")
		return
	}

	if err := s.app.JobManager().RunJob(body.JobID, s.app); err != nil {
		RespondWithError(w, http.StatusConflict, err.Error())
		return
	}
	RespondWithJSON(w, http.StatusAccepted, map[string]string{"status": "started", "job_id": body.JobID})
}
